// Package handler は企業データ検索のHTTPハンドラーを提供します。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"wealth_backend/internal/api"
	"wealth_backend/internal/shared/apperr"

	"github.com/gin-gonic/gin"
)

// CompanySearchUsecase は企業データ検索のユースケースインターフェースです。
type CompanySearchUsecase interface {
	Search(ctx context.Context, query string) (json.RawMessage, error)
}

// CompanySearchHandler は POST /companydatasearch を処理します。
type CompanySearchHandler struct {
	uc CompanySearchUsecase
}

// NewCompanySearchHandler は CompanySearchHandler を生成します。
func NewCompanySearchHandler(uc CompanySearchUsecase) *CompanySearchHandler {
	return &CompanySearchHandler{uc: uc}
}

// Search はクエリ文字列 query で企業データを検索し、上流のJSONをそのまま返します。
//
// エンドポイント例:
// POST /companydatasearch?query=Toyota
func (h *CompanySearchHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "query is required"})
		return
	}

	body, err := h.uc.Search(c.Request.Context(), query)
	if err != nil {
		if errors.Is(err, apperr.ErrValidation) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "query is required"})
			return
		}
		slog.Error("company data search failed",
			"error", err,
			"error_kind", apperr.Kind(err),
			"query", query,
			"remote_addr", c.ClientIP(),
		)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to fetch company data"})
		return
	}

	c.Data(http.StatusOK, "application/json", body)
}
