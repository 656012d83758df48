// Package handler は意図分類（/llm）のHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"wealth_backend/internal/api"
	"wealth_backend/internal/feature/intent/domain/entity"
	"wealth_backend/internal/shared/apperr"

	"github.com/gin-gonic/gin"
)

// IntentUsecase は意図分類のユースケースインターフェースです。
type IntentUsecase interface {
	Classify(ctx context.Context, naturalLanguage string) (entity.Intent, error)
}

// IntentHandler は POST /llm を処理します。
type IntentHandler struct {
	uc IntentUsecase
}

// NewIntentHandler は IntentHandler を生成します。
func NewIntentHandler(uc IntentUsecase) *IntentHandler {
	return &IntentHandler{uc: uc}
}

// Classify はリクエストボディの naturalLanguage を {endpoint, args} に分類して返します。
func (h *IntentHandler) Classify(c *gin.Context) {
	var req api.IntentRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.NaturalLanguage) == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "naturalLanguage is required"})
		return
	}

	intent, err := h.uc.Classify(c.Request.Context(), req.NaturalLanguage)
	if err != nil {
		if errors.Is(err, apperr.ErrValidation) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "naturalLanguage is required"})
			return
		}
		slog.Error("intent classification failed",
			"error", err,
			"error_kind", apperr.Kind(err),
			"remote_addr", c.ClientIP(),
		)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to interpret request"})
		return
	}

	c.JSON(http.StatusOK, api.IntentResponse{Endpoint: intent.Endpoint, Args: intent.Args})
}
