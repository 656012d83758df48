package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"wealth_backend/internal/feature/stock/domain/entity"
	"wealth_backend/internal/feature/stock/usecase"
	"wealth_backend/internal/shared/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSeriesRepository struct {
	FetchSeriesFunc func(ctx context.Context, q entity.SeriesQuery) (entity.Series, error)
	calls           int
}

func (m *mockSeriesRepository) FetchSeries(ctx context.Context, q entity.SeriesQuery) (entity.Series, error) {
	m.calls++
	return m.FetchSeriesFunc(ctx, q)
}

func fixedClock() time.Time { return time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC) }

func TestStockUsecase_GetSeries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		companyName string
		timeframe   string
		wantFirst   string
		wantTF      entity.Timeframe
	}{
		{"one week", "Apple", "1W", "08.03.2025", entity.Timeframe1W},
		{"default", "Apple", "", "15.02.2025", entity.Timeframe1M},
		{"unknown falls back to one month", "Apple", "2W", "15.02.2025", entity.Timeframe1M},
		{"five years", "Toyota Motor", "5Y", "15.03.2020", entity.Timeframe5Y},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo := &mockSeriesRepository{FetchSeriesFunc: func(ctx context.Context, q entity.SeriesQuery) (entity.Series, error) {
				assert.Equal(t, tt.companyName, q.CompanyName)
				assert.Equal(t, tt.wantTF, q.Timeframe)
				assert.Equal(t, tt.wantFirst, q.FirstString())
				assert.Equal(t, "15.03.2025", q.LastString())
				return entity.Series{Name: "Resolved", Data: json.RawMessage(`{}`)}, nil
			}}
			uc := usecase.NewStockUsecase(repo, fixedClock)

			got, err := uc.GetSeries(context.Background(), tt.companyName, tt.timeframe)
			require.NoError(t, err)
			assert.Equal(t, "Resolved", got.Name)
			assert.Equal(t, 1, repo.calls)
		})
	}
}

func TestStockUsecase_GetSeries_MissingCompany(t *testing.T) {
	t.Parallel()

	repo := &mockSeriesRepository{}
	uc := usecase.NewStockUsecase(repo, fixedClock)

	_, err := uc.GetSeries(context.Background(), "  ", "1M")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, 0, repo.calls)
}

func TestStockUsecase_GetPoints(t *testing.T) {
	t.Parallel()

	repo := &mockSeriesRepository{FetchSeriesFunc: func(ctx context.Context, q entity.SeriesQuery) (entity.Series, error) {
		return entity.Series{Name: "Apple Inc", Data: json.RawMessage(`{"2025-03-14":{"close":2,"volume":20},"2025-03-12":{"close":1,"volume":10}}`)}, nil
	}}
	uc := usecase.NewStockUsecase(repo, fixedClock)

	s, points, err := uc.GetPoints(context.Background(), "Apple", "1W")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc", s.Name)
	require.Len(t, points, 2)
	assert.Equal(t, 1.0, points[0].Price)
	assert.Equal(t, 2.0, points[1].Price)
}

func TestStockUsecase_GetPoints_Errors(t *testing.T) {
	t.Parallel()

	upstream := errors.New("timeout")
	uc := usecase.NewStockUsecase(&mockSeriesRepository{FetchSeriesFunc: func(ctx context.Context, q entity.SeriesQuery) (entity.Series, error) {
		return entity.Series{}, upstream
	}}, fixedClock)
	_, _, err := uc.GetPoints(context.Background(), "Apple", "1W")
	assert.ErrorIs(t, err, upstream)

	uc = usecase.NewStockUsecase(&mockSeriesRepository{FetchSeriesFunc: func(ctx context.Context, q entity.SeriesQuery) (entity.Series, error) {
		return entity.Series{Name: "X", Data: json.RawMessage(`"nope"`)}, nil
	}}, fixedClock)
	_, _, err = uc.GetPoints(context.Background(), "Apple", "1W")
	assert.ErrorIs(t, err, apperr.ErrParse)
}
