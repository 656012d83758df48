package idchat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"wealth_backend/internal/feature/intent/usecase"
	"wealth_backend/internal/platform/externalapi/idchat/dto"
	"wealth_backend/internal/shared/apperr"
)

var _ usecase.Completer = (*Client)(nil)

// Complete はプロンプトを /llm に送り、応答の content フィールドを返します。
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	q := url.Values{}
	q.Set("query", prompt)

	body, err := c.Post(ctx, "/llm", q)
	if err != nil {
		return "", err
	}

	var res dto.LLMResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return "", fmt.Errorf("%w: decode llm response: %v", apperr.ErrParse, err)
	}
	if res.Content == nil {
		return "", fmt.Errorf("%w: llm response has no content", apperr.ErrParse)
	}
	return *res.Content, nil
}
