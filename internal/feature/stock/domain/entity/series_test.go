package entity_test

import (
	"encoding/json"
	"testing"
	"time"

	"wealth_backend/internal/feature/stock/domain/entity"
	"wealth_backend/internal/shared/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeries_Points_SortsAscending(t *testing.T) {
	t.Parallel()

	s := entity.Series{
		Name: "Apple Inc",
		Data: json.RawMessage(`{
			"2025-03-14": {"Open": 210, "Close": 213.5, "Volume": 5000},
			"2025-03-10": {"open": "200", "close": "201.25", "volume": "1,200"},
			"2025-03-12": {"close": 205, "volume": 0}
		}`),
	}

	points, err := s.Points()
	require.NoError(t, err)
	require.Len(t, points, 3)

	for i := 1; i < len(points); i++ {
		assert.True(t, points[i-1].Date.Before(points[i].Date), "points must be strictly increasing")
	}
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), points[0].Date)
	assert.Equal(t, 201.25, points[0].Price)
	assert.Equal(t, int64(1200), points[0].Volume)
	assert.Equal(t, 213.5, points[2].Price)
	assert.Equal(t, int64(5000), points[2].Volume)
}

func TestSeries_Points_DateLayouts(t *testing.T) {
	t.Parallel()

	s := entity.Series{Data: json.RawMessage(`{
		"14.03.2025": {"price": 3},
		"2025-03-13 15:00:00": {"close": 2},
		"1741651200": {"close": 1},
		"2025-03-15T09:00:00Z": {"close": 4}
	}`)}

	points, err := s.Points()
	require.NoError(t, err)
	require.Len(t, points, 4)
	assert.Equal(t, []float64{1, 2, 3, 4}, []float64{points[0].Price, points[1].Price, points[2].Price, points[3].Price})
}

func TestSeries_Points_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{"not an object", `[1,2,3]`},
		{"bad date key", `{"yesterday": {"close": 1}}`},
		{"no close", `{"2025-03-14": {"open": 1}}`},
		{"same date in two layouts", `{"2025-03-14": {"close": 1}, "14.03.2025": {"close": 2}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := entity.Series{Data: json.RawMessage(tt.data)}.Points()
			assert.ErrorIs(t, err, apperr.ErrParse)
		})
	}
}

func TestSeries_Points_Empty(t *testing.T) {
	t.Parallel()

	points, err := entity.Series{Data: json.RawMessage(`{}`)}.Points()
	require.NoError(t, err)
	assert.Empty(t, points)
}
