package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"wealth_backend/internal/feature/chart/domain/entity"
	"wealth_backend/internal/feature/chart/usecase"
	stock "wealth_backend/internal/feature/stock/domain/entity"
	"wealth_backend/internal/shared/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPointsFetcher struct {
	GetPointsFunc func(ctx context.Context, companyName, timeframe string) (stock.Series, []stock.Point, error)
}

func (m *mockPointsFetcher) GetPoints(ctx context.Context, companyName, timeframe string) (stock.Series, []stock.Point, error) {
	return m.GetPointsFunc(ctx, companyName, timeframe)
}

type mockRenderer struct {
	layouts  []entity.Layout
	messages []string
}

func (m *mockRenderer) Render(l entity.Layout) ([]byte, error) {
	m.layouts = append(m.layouts, l)
	return []byte("chart"), nil
}

func (m *mockRenderer) RenderMessage(width, height int, msg string) ([]byte, error) {
	m.messages = append(m.messages, msg)
	return []byte("message"), nil
}

func TestChartUsecase_Chart(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	fetcher := &mockPointsFetcher{GetPointsFunc: func(ctx context.Context, companyName, timeframe string) (stock.Series, []stock.Point, error) {
		assert.Equal(t, "Apple", companyName)
		assert.Equal(t, "1Y", timeframe)
		return stock.Series{Name: "Apple Inc"}, []stock.Point{{Date: now, Price: 1}, {Date: now.AddDate(0, 0, 1), Price: 2}}, nil
	}}
	r := &mockRenderer{}
	uc := usecase.NewChartUsecase(fetcher, r)

	b, err := uc.Chart(context.Background(), "Apple", "1Y", 800, 400)
	require.NoError(t, err)
	assert.Equal(t, "chart", string(b))
	require.Len(t, r.layouts, 1)
	assert.Equal(t, stock.Timeframe1Y, r.layouts[0].Timeframe)
	assert.Equal(t, 800, r.layouts[0].Width)
}

func TestChartUsecase_Chart_EmptySeries(t *testing.T) {
	t.Parallel()

	r := &mockRenderer{}
	uc := usecase.NewChartUsecase(&mockPointsFetcher{GetPointsFunc: func(ctx context.Context, companyName, timeframe string) (stock.Series, []stock.Point, error) {
		return stock.Series{}, nil, nil
	}}, r)

	b, err := uc.Chart(context.Background(), "Apple", "1M", 800, 400)
	require.NoError(t, err)
	assert.Equal(t, "message", string(b))
	assert.Equal(t, []string{usecase.NoDataMessage}, r.messages)
	assert.Empty(t, r.layouts)
}

func TestChartUsecase_Chart_Errors(t *testing.T) {
	t.Parallel()

	fetchErr := errors.New("upstream down")
	uc := usecase.NewChartUsecase(&mockPointsFetcher{GetPointsFunc: func(ctx context.Context, companyName, timeframe string) (stock.Series, []stock.Point, error) {
		return stock.Series{}, nil, fetchErr
	}}, &mockRenderer{})

	_, err := uc.Chart(context.Background(), "Apple", "1M", 800, 400)
	assert.ErrorIs(t, err, fetchErr)

	_, err = uc.Chart(context.Background(), "Apple", "1M", 10, 400)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestChartUsecase_Message_FallsBackToDefaultSize(t *testing.T) {
	t.Parallel()

	r := &mockRenderer{}
	uc := usecase.NewChartUsecase(&mockPointsFetcher{}, r)

	_, err := uc.Message(1, 1, "Failed to fetch chart data")
	require.NoError(t, err)
	assert.Equal(t, []string{"Failed to fetch chart data"}, r.messages)
}

func TestValidateSize(t *testing.T) {
	t.Parallel()

	assert.NoError(t, usecase.ValidateSize(usecase.DefaultWidth, usecase.DefaultHeight))
	assert.NoError(t, usecase.ValidateSize(usecase.MinWidth, usecase.MinHeight))
	assert.Error(t, usecase.ValidateSize(usecase.MaxWidth+1, 400))
	assert.Error(t, usecase.ValidateSize(800, usecase.MinHeight-1))
}
