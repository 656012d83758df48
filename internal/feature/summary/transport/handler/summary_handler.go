// Package handler は銘柄サマリーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"wealth_backend/internal/api"
	"wealth_backend/internal/feature/summary/domain/entity"
	"wealth_backend/internal/shared/apperr"

	"github.com/gin-gonic/gin"
)

// SummaryUsecase は銘柄サマリーのユースケースインターフェースです。
type SummaryUsecase interface {
	GetSummary(ctx context.Context, ticker string) (entity.Envelope, error)
}

// SummaryHandler は POST /summary を処理します。
type SummaryHandler struct {
	uc SummaryUsecase
}

// NewSummaryHandler は SummaryHandler を生成します。
func NewSummaryHandler(uc SummaryUsecase) *SummaryHandler {
	return &SummaryHandler{uc: uc}
}

// GetSummary はクエリ文字列 query（ティッカー）のサマリーを返します。
//
// エンドポイント例:
// POST /summary?query=AAPL
func (h *SummaryHandler) GetSummary(c *gin.Context) {
	ticker := strings.TrimSpace(c.Query("query"))
	if ticker == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "query is required"})
		return
	}

	env, err := h.uc.GetSummary(c.Request.Context(), ticker)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, api.SummaryResponse{Message: env.Message, Object: env.Object})
	case errors.Is(err, apperr.ErrValidation):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "query is required"})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "summary not found"})
	default:
		slog.Error("summary fetch failed",
			"error", err,
			"error_kind", apperr.Kind(err),
			"ticker", ticker,
			"remote_addr", c.ClientIP(),
		)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to fetch summary"})
	}
}
