// Package usecase は顧客ポートフォリオ参照のユースケースを実装します。
package usecase

import (
	"context"
	"fmt"

	"wealth_backend/internal/feature/portfolio/domain/entity"
	"wealth_backend/internal/shared/apperr"
)

// ClientRepository は顧客データの取得元です。
// 見つからない場合 FindByID は apperr.ErrNotFound を返します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type ClientRepository interface {
	List(ctx context.Context) ([]entity.Client, error)
	FindByID(ctx context.Context, id int64) (entity.Client, error)
}

type PortfolioUsecase struct {
	repo ClientRepository
}

func NewPortfolioUsecase(repo ClientRepository) *PortfolioUsecase {
	return &PortfolioUsecase{repo: repo}
}

// ListClients はID順の顧客一覧を返します。
func (u *PortfolioUsecase) ListClients(ctx context.Context) ([]entity.Client, error) {
	clients, err := u.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}

// GetClient は保有銘柄を含む顧客を返します。
func (u *PortfolioUsecase) GetClient(ctx context.Context, id int64) (entity.Client, error) {
	if id <= 0 {
		return entity.Client{}, fmt.Errorf("%w: client id must be positive", apperr.ErrValidation)
	}
	return u.repo.FindByID(ctx, id)
}
