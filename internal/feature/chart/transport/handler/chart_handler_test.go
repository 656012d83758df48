package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"wealth_backend/internal/feature/chart/transport/handler"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type mockChartUsecase struct {
	ChartFunc   func(ctx context.Context, companyName, timeframe string, width, height int) ([]byte, error)
	MessageFunc func(width, height int, msg string) ([]byte, error)
}

func (m *mockChartUsecase) Chart(ctx context.Context, companyName, timeframe string, width, height int) ([]byte, error) {
	return m.ChartFunc(ctx, companyName, timeframe, width, height)
}

func (m *mockChartUsecase) Message(width, height int, msg string) ([]byte, error) {
	return m.MessageFunc(width, height, msg)
}

func TestChartHandler_GetChart(t *testing.T) {
	gin.SetMode(gin.TestMode)

	notCalled := func(ctx context.Context, companyName, timeframe string, width, height int) ([]byte, error) {
		t.Fatal("usecase must not be called")
		return nil, nil
	}
	message := func(width, height int, msg string) ([]byte, error) {
		assert.Equal(t, handler.FetchFailedMessage, msg)
		return []byte("error-png"), nil
	}

	tests := []struct {
		name           string
		url            string
		chart          func(ctx context.Context, companyName, timeframe string, width, height int) ([]byte, error)
		expectedStatus int
		expectedType   string
		expectedBody   string
	}{
		{
			name: "success: defaults",
			url:  "/chart?companyName=Apple",
			chart: func(ctx context.Context, companyName, timeframe string, width, height int) ([]byte, error) {
				assert.Equal(t, "Apple", companyName)
				assert.Equal(t, "", timeframe)
				assert.Equal(t, 800, width)
				assert.Equal(t, 400, height)
				return []byte("png"), nil
			},
			expectedStatus: http.StatusOK,
			expectedType:   "image/png",
			expectedBody:   "png",
		},
		{
			name: "success: explicit size",
			url:  "/chart?companyName=Apple&timeframe=5Y&width=1200&height=600",
			chart: func(ctx context.Context, companyName, timeframe string, width, height int) ([]byte, error) {
				assert.Equal(t, "5Y", timeframe)
				assert.Equal(t, 1200, width)
				assert.Equal(t, 600, height)
				return []byte("png"), nil
			},
			expectedStatus: http.StatusOK,
			expectedType:   "image/png",
			expectedBody:   "png",
		},
		{
			name:           "error: missing company",
			url:            "/chart",
			chart:          notCalled,
			expectedStatus: http.StatusBadRequest,
			expectedType:   "application/json; charset=utf-8",
			expectedBody:   `{"error":"companyName is required"}`,
		},
		{
			name:           "error: bad width",
			url:            "/chart?companyName=Apple&width=abc",
			chart:          notCalled,
			expectedStatus: http.StatusBadRequest,
			expectedType:   "application/json; charset=utf-8",
			expectedBody:   `{"error":"invalid chart size"}`,
		},
		{
			name:           "error: size out of range",
			url:            "/chart?companyName=Apple&width=10000",
			chart:          notCalled,
			expectedStatus: http.StatusBadRequest,
			expectedType:   "application/json; charset=utf-8",
			expectedBody:   `{"error":"invalid chart size"}`,
		},
		{
			name: "error: fetch failure renders error image",
			url:  "/chart?companyName=Apple",
			chart: func(ctx context.Context, companyName, timeframe string, width, height int) ([]byte, error) {
				return nil, errors.New("upstream down")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedType:   "image/png",
			expectedBody:   "error-png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewChartHandler(&mockChartUsecase{ChartFunc: tt.chart, MessageFunc: message})
			r := gin.New()
			r.GET("/chart", h.GetChart)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.url, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedType, w.Header().Get("Content-Type"))
			assert.Equal(t, tt.expectedBody, w.Body.String())
		})
	}
}
