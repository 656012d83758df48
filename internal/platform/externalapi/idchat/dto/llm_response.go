// Package dto は idchat-api のレスポンス型を定義します。
package dto

// LLMResponse は /llm のレスポンスです。content にモデルの出力（多くはコードフェンス付きJSON）が入ります。
type LLMResponse struct {
	Content *string `json:"content"`
}
