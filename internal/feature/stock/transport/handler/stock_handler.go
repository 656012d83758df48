// Package handler は株価時系列のHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"wealth_backend/internal/api"
	"wealth_backend/internal/feature/stock/domain/entity"
	"wealth_backend/internal/shared/apperr"

	"github.com/gin-gonic/gin"
)

// StockUsecase は時系列取得のユースケースインターフェースです。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type StockUsecase interface {
	GetSeries(ctx context.Context, companyName, timeframe string) (entity.Series, error)
}

// StockHandler は POST /stock を処理します。
type StockHandler struct {
	uc StockUsecase
}

// NewStockHandler は StockHandler を生成します。
func NewStockHandler(uc StockUsecase) *StockHandler {
	return &StockHandler{uc: uc}
}

// GetStock は companyName と timeframe（省略時 1M）の時系列を返します。
//
// リクエスト例:
// POST /stock {"companyName": "Apple", "timeframe": "1W"}
func (h *StockHandler) GetStock(c *gin.Context) {
	var req api.StockRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.CompanyName) == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "companyName is required"})
		return
	}

	s, err := h.uc.GetSeries(c.Request.Context(), req.CompanyName, req.Timeframe)
	if err != nil {
		if errors.Is(err, apperr.ErrValidation) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "companyName is required"})
			return
		}
		slog.Error("stock data fetch failed",
			"error", err,
			"error_kind", apperr.Kind(err),
			"company", req.CompanyName,
			"timeframe", req.Timeframe,
			"remote_addr", c.ClientIP(),
		)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to fetch stock data"})
		return
	}

	c.JSON(http.StatusOK, api.StockResponse{Name: s.Name, Data: s.Data})
}
