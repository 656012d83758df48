package idchat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"wealth_backend/internal/feature/companysearch/usecase"
	"wealth_backend/internal/shared/apperr"
)

// Client が CompanySearcher を実装していることをコンパイル時に検証します。
var _ usecase.CompanySearcher = (*Client)(nil)

// SearchCompany は /companydatasearch に query を渡し、上流のJSONをそのまま返します。
func (c *Client) SearchCompany(ctx context.Context, query string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("query", query)

	body, err := c.Post(ctx, "/companydatasearch", q)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: companydatasearch returned invalid json", apperr.ErrParse)
	}
	return json.RawMessage(body), nil
}
