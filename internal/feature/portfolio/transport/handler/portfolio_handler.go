// Package handler は顧客ポートフォリオのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"wealth_backend/internal/api"
	"wealth_backend/internal/feature/portfolio/domain/entity"
	"wealth_backend/internal/shared/apperr"

	"github.com/gin-gonic/gin"
)

// PortfolioUsecase は顧客参照のユースケースインターフェースです。
type PortfolioUsecase interface {
	ListClients(ctx context.Context) ([]entity.Client, error)
	GetClient(ctx context.Context, id int64) (entity.Client, error)
}

// PortfolioHandler は /clients 以下を処理します。
type PortfolioHandler struct {
	uc PortfolioUsecase
}

func NewPortfolioHandler(uc PortfolioUsecase) *PortfolioHandler {
	return &PortfolioHandler{uc: uc}
}

// ListClients は顧客一覧を返します。
//
// エンドポイント例:
// GET /clients
func (h *PortfolioHandler) ListClients(c *gin.Context) {
	clients, err := h.uc.ListClients(c.Request.Context())
	if err != nil {
		slog.Error("client list failed",
			"error", err,
			"error_kind", apperr.Kind(err),
			"remote_addr", c.ClientIP(),
		)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to fetch clients"})
		return
	}

	out := make([]api.ClientSummaryResponse, 0, len(clients))
	for _, cl := range clients {
		out = append(out, api.ClientSummaryResponse{
			ID:           cl.ID,
			Name:         cl.Name,
			RiskProfile:  cl.RiskProfile,
			HoldingCount: len(cl.Holdings),
		})
	}
	c.JSON(http.StatusOK, out)
}

// GetClient は保有銘柄を含む顧客詳細を返します。
//
// エンドポイント例:
// GET /clients/2
func (h *PortfolioHandler) GetClient(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "id must be a positive integer"})
		return
	}

	cl, err := h.uc.GetClient(c.Request.Context(), id)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, toClientResponse(cl))
	case errors.Is(err, apperr.ErrValidation):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "id must be a positive integer"})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "client not found"})
	default:
		slog.Error("client fetch failed",
			"error", err,
			"error_kind", apperr.Kind(err),
			"client_id", id,
			"remote_addr", c.ClientIP(),
		)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to fetch client"})
	}
}

func toClientResponse(cl entity.Client) api.ClientResponse {
	holdings := make([]api.HoldingResponse, 0, len(cl.Holdings))
	for _, h := range cl.Holdings {
		holdings = append(holdings, api.HoldingResponse{Ticker: h.Ticker, Quantity: h.Quantity, AvgCost: h.AvgCost})
	}
	return api.ClientResponse{ID: cl.ID, Name: cl.Name, RiskProfile: cl.RiskProfile, Holdings: holdings}
}
