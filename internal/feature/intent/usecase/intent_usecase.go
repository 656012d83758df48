// Package usecase は自然言語の依頼をエンドポイントに分類するユースケースを実装します。
package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"wealth_backend/internal/feature/intent/domain/entity"
	"wealth_backend/internal/shared/apperr"
)

// Completer はプロンプトに対するLLMの応答テキストを返します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// IntentUsecase は自然言語の依頼を分類します。
type IntentUsecase struct {
	completer Completer
}

// NewIntentUsecase は IntentUsecase を生成します。
func NewIntentUsecase(completer Completer) *IntentUsecase {
	return &IntentUsecase{completer: completer}
}

// Classify は naturalLanguage をプロンプトに埋め込んでLLMに送り、応答を Intent に変換します。
func (u *IntentUsecase) Classify(ctx context.Context, naturalLanguage string) (entity.Intent, error) {
	if strings.TrimSpace(naturalLanguage) == "" {
		return entity.Intent{}, fmt.Errorf("%w: naturalLanguage is required", apperr.ErrValidation)
	}

	content, err := u.completer.Complete(ctx, BuildPrompt(naturalLanguage))
	if err != nil {
		return entity.Intent{}, err
	}
	return ParseReply(content)
}

// fence はコードフェンスと、その後に空白や改行を挟んで続く言語タグ json にマッチします。
var fence = regexp.MustCompile("(?i)```\\s*(?:json)?")

// ParseReply はLLMの応答からコードフェンスを取り除き、{endpoint, args} としてデコードします。
func ParseReply(content string) (entity.Intent, error) {
	cleaned := strings.TrimSpace(fence.ReplaceAllString(content, ""))
	if cleaned == "" {
		return entity.Intent{}, fmt.Errorf("%w: empty llm reply", apperr.ErrParse)
	}

	var intent entity.Intent
	if err := json.Unmarshal([]byte(cleaned), &intent); err != nil {
		return entity.Intent{}, fmt.Errorf("%w: decode llm reply: %v", apperr.ErrParse, err)
	}
	return intent, nil
}
