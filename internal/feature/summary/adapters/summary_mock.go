// Package adapters はSummarySourceの実装を提供します。
package adapters

import (
	"context"

	"wealth_backend/internal/feature/summary/domain/entity"
	"wealth_backend/internal/feature/summary/usecase"
)

// MockSummary はダッシュボードのサンプル表示用に、どの銘柄にも同じ値を返します。
var MockSummary = entity.Summary{
	Name:                  "Sample Holdings Inc.",
	Open:                  182.15,
	High:                  185.42,
	Low:                   180.9,
	Close:                 184.37,
	Volume:                52164300,
	OutstandingSecurities: 15441880000,
}

type mockSummarySource struct {
	summary entity.Summary
}

var _ usecase.SummarySource = (*mockSummarySource)(nil)

// NewMockSummarySource は固定値を返す SummarySource を生成します。
func NewMockSummarySource() *mockSummarySource {
	return &mockSummarySource{summary: MockSummary}
}

func (m *mockSummarySource) Summary(ctx context.Context, ticker string) (entity.Summary, error) {
	return m.summary, nil
}
