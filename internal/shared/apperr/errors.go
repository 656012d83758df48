// Package apperr はフィーチャー横断で使うエラー分類を定義します。
//
// ハンドラーは errors.Is で分類を判定し、HTTPステータスとログの error_kind を決めます。
package apperr

import "errors"

var (
	// ErrValidation は必須パラメータの欠落など、リクエスト側の誤りを表します。
	ErrValidation = errors.New("validation error")

	// ErrUpstream は上流サービスへの通信失敗、または2xx以外の応答を表します。
	ErrUpstream = errors.New("upstream error")

	// ErrParse は上流レスポンスのJSONアンラップのいずれかの層でのデコード失敗を表します。
	ErrParse = errors.New("parse error")

	// ErrNotFound は要求されたリソースがデータソースに存在しないことを表します。
	ErrNotFound = errors.New("not found")
)

// Kind はログ出力用にエラーの分類名を返します。
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrUpstream):
		return "upstream"
	default:
		return "internal"
	}
}
