// Package gemini はGoogle Gemini APIを使った意図分類用のCompleterを提供します。
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"wealth_backend/internal/feature/intent/usecase"
	"wealth_backend/internal/shared/apperr"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"
)

// contentGenerator は genai.Models のうち利用するメソッドだけを切り出したものです。
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiCompleter はGoogle Gemini APIでプロンプトを補完します。
type GeminiCompleter struct {
	models contentGenerator
	model  string
}

// GeminiCompleterがCompleterを実装していることをコンパイル時に検証します。
var _ usecase.Completer = (*GeminiCompleter)(nil)

// NewGeminiCompleter はADCを使用してGeminiCompleterの新しいインスタンスを生成します。
// 環境変数 GOOGLE_GENAI_USE_VERTEXAI, GOOGLE_CLOUD_PROJECT, GOOGLE_CLOUD_LOCATION
// または GOOGLE_API_KEY が必要です。
func NewGeminiCompleter(ctx context.Context, model string) (*GeminiCompleter, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &GeminiCompleter{models: client.Models, model: model}, nil
}

// Complete はプロンプトに対するモデルの出力テキストを返します。
func (g *GeminiCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("%w: gemini API request failed: %w", apperr.ErrUpstream, err)
	}
	return resp.Text(), nil
}
