package idchat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"wealth_backend/internal/feature/stock/domain/entity"
	"wealth_backend/internal/feature/stock/usecase"
	"wealth_backend/internal/shared/apperr"
	"wealth_backend/internal/shared/jsonwrap"
)

var _ usecase.SeriesRepository = (*Client)(nil)

// FetchSeries は /ohlcv から時系列を取得し、入れ子の文字列JSONを展開します。
//
// レスポンスの形:
//
//	{"object": "<JSON>"}            object は文字列JSON
//	  -> {"data": "<JSON>"}         data も文字列JSON
//	    -> {"<正式名>": "<JSON>"}    先頭キー（文書順）が正式な銘柄名
//	      -> {"<日付>": {...}}       日付ごとのOHLCVレコード
func (c *Client) FetchSeries(ctx context.Context, q entity.SeriesQuery) (entity.Series, error) {
	params := url.Values{}
	params.Set("query", q.CompanyName)
	params.Set("first", q.FirstString())
	params.Set("last", q.LastString())

	body, err := c.Post(ctx, "/ohlcv", params)
	if err != nil {
		return entity.Series{}, err
	}
	return UnwrapOHLCV(body)
}

// UnwrapOHLCV は /ohlcv のレスポンスボディから銘柄名と日付別レコードを取り出します。
func UnwrapOHLCV(body []byte) (entity.Series, error) {
	byName, err := jsonwrap.Path(body, "object", "data")
	if err != nil {
		return entity.Series{}, fmt.Errorf("unwrap ohlcv: %w", err)
	}

	name, raw, count, err := jsonwrap.FirstKey(byName)
	if err != nil {
		return entity.Series{}, fmt.Errorf("unwrap ohlcv name: %w", err)
	}
	if count > 1 {
		slog.Warn("ohlcv response has multiple companies; using the first", "name", name, "count", count)
	}

	records, err := jsonwrap.Unquote(raw)
	if err != nil {
		return entity.Series{}, fmt.Errorf("unwrap ohlcv records for %q: %w", name, err)
	}
	if !json.Valid(records) {
		return entity.Series{}, fmt.Errorf("%w: ohlcv records for %q are not valid json", apperr.ErrParse, name)
	}
	return entity.Series{Name: name, Data: json.RawMessage(records)}, nil
}
