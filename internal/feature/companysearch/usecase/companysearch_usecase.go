// Package usecase は企業データ検索のユースケースを実装します。
package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"wealth_backend/internal/shared/apperr"
)

// CompanySearcher は上流の企業データ検索を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type CompanySearcher interface {
	SearchCompany(ctx context.Context, query string) (json.RawMessage, error)
}

// CompanySearchUsecase は企業データ検索のユースケースです。
type CompanySearchUsecase struct {
	searcher CompanySearcher
}

// NewCompanySearchUsecase は CompanySearchUsecase を生成します。
func NewCompanySearchUsecase(searcher CompanySearcher) *CompanySearchUsecase {
	return &CompanySearchUsecase{searcher: searcher}
}

// Search は query で企業データを検索し、上流のJSONをそのまま返します。
func (u *CompanySearchUsecase) Search(ctx context.Context, query string) (json.RawMessage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", apperr.ErrValidation)
	}
	return u.searcher.SearchCompany(ctx, query)
}
