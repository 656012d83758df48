// Package handler は株価チャート画像のHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"wealth_backend/internal/api"
	"wealth_backend/internal/feature/chart/usecase"
	"wealth_backend/internal/shared/apperr"

	"github.com/gin-gonic/gin"
)

// FetchFailedMessage は取得失敗時に画像へ描く文言です。
const FetchFailedMessage = "Failed to fetch chart data"

// ChartUsecase はチャート生成のユースケースインターフェースです。
type ChartUsecase interface {
	Chart(ctx context.Context, companyName, timeframe string, width, height int) ([]byte, error)
	Message(width, height int, msg string) ([]byte, error)
}

// ChartHandler は GET /chart を処理します。
type ChartHandler struct {
	uc ChartUsecase
}

// NewChartHandler は ChartHandler を生成します。
func NewChartHandler(uc ChartUsecase) *ChartHandler {
	return &ChartHandler{uc: uc}
}

// GetChart はチャートをPNGで返します。取得に失敗した場合もエラー文言入りのPNGを返します。
//
// エンドポイント例:
// GET /chart?companyName=Apple&timeframe=1Y&width=800&height=400
func (h *ChartHandler) GetChart(c *gin.Context) {
	companyName := strings.TrimSpace(c.Query("companyName"))
	if companyName == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "companyName is required"})
		return
	}
	width, werr := strconv.Atoi(c.DefaultQuery("width", strconv.Itoa(usecase.DefaultWidth)))
	height, herr := strconv.Atoi(c.DefaultQuery("height", strconv.Itoa(usecase.DefaultHeight)))
	if werr != nil || herr != nil || usecase.ValidateSize(width, height) != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid chart size"})
		return
	}

	png, err := h.uc.Chart(c.Request.Context(), companyName, c.Query("timeframe"), width, height)
	if err != nil {
		if errors.Is(err, apperr.ErrValidation) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid chart request"})
			return
		}
		slog.Error("chart render failed",
			"error", err,
			"error_kind", apperr.Kind(err),
			"company", companyName,
			"remote_addr", c.ClientIP(),
		)
		img, rerr := h.uc.Message(width, height, FetchFailedMessage)
		if rerr != nil {
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to fetch chart data"})
			return
		}
		c.Header("Cache-Control", "no-store")
		c.Data(http.StatusInternalServerError, "image/png", img)
		return
	}

	c.Header("Cache-Control", "private, max-age=60")
	c.Data(http.StatusOK, "image/png", png)
}
