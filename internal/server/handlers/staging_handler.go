package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockflow/internal/domain/models"
	"github.com/mamadbah2/stockflow/internal/service/staging"
	"github.com/mamadbah2/stockflow/internal/service/transfers"
)

// UserHeader identifies the caller. It is set by the application shell.
const UserHeader = "X-User-ID"

// StagingService describes the operations the HTTP layer can perform.
type StagingService interface {
	Directory(ctx context.Context, userID string) (transfers.DirectoryView, error)
	SelectSku(ctx context.Context, userID, skuID string) (int, error)
	ClearSelection(ctx context.Context, userID string) error
	View(ctx context.Context, userID string) (transfers.StagingView, error)
	AddLineItem(ctx context.Context, userID string, req models.AddLineItemRequest) ([]models.TransferLineItem, error)
	RemoveLineItem(ctx context.Context, userID string, index int) ([]models.TransferLineItem, error)
	Submit(ctx context.Context, userID string) (models.SubmissionResult, error)
}

// StagingHandler adapts the staging service to HTTP.
type StagingHandler struct {
	svc    StagingService
	logger *zap.Logger
}

// NewStagingHandler constructs the HTTP handler adapter.
func NewStagingHandler(svc StagingService, logger *zap.Logger) *StagingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StagingHandler{svc: svc, logger: logger}
}

// RequireUser rejects requests without a user header.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(UserHeader) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing " + UserHeader})
			return
		}
		c.Next()
	}
}

// Directory lists eligible branches, engineers and the SKU catalogue.
func (h *StagingHandler) Directory(c *gin.Context) {
	view, err := h.svc.Directory(c.Request.Context(), userID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SelectSku selects the draft SKU and returns its net available quantity.
func (h *StagingHandler) SelectSku(c *gin.Context) {
	var req models.SelectSkuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid select payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	available, err := h.svc.SelectSku(c.Request.Context(), userID(c), req.SkuID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"skuId": req.SkuID, "available": available})
}

// ClearSelection abandons the draft.
func (h *StagingHandler) ClearSelection(c *gin.Context) {
	if err := h.svc.ClearSelection(c.Request.Context(), userID(c)); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// View returns the staging list, draft and totals.
func (h *StagingHandler) View(c *gin.Context) {
	view, err := h.svc.View(c.Request.Context(), userID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// AddLineItem stages a new line item.
func (h *StagingHandler) AddLineItem(c *gin.Context) {
	var req models.AddLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid line item payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	items, err := h.svc.AddLineItem(c.Request.Context(), userID(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"items": items})
}

// RemoveLineItem removes a staged line item by index.
func (h *StagingHandler) RemoveLineItem(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index must be an integer"})
		return
	}

	items, err := h.svc.RemoveLineItem(c.Request.Context(), userID(c), index)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Submit dispatches the staging list.
func (h *StagingHandler) Submit(c *gin.Context) {
	result, err := h.svc.Submit(c.Request.Context(), userID(c))
	if err != nil {
		var sErr *staging.SubmissionError
		if errors.As(err, &sErr) {
			h.logger.Error("submission failed", zap.String("submission_id", sErr.SubmissionID), zap.Bool("partial", sErr.Partial), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "partial": sErr.Partial, "result": result})
			return
		}
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *StagingHandler) writeError(c *gin.Context, err error) {
	var (
		vErr *staging.ValidationError
		lErr *staging.LookupError
	)

	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.As(err, &lErr):
		h.logger.Warn("stock lookup failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case errors.Is(err, staging.ErrSubmissionInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, staging.ErrIndexOutOfRange):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, transfers.ErrUnknownUser):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		h.logger.Error("staging request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func userID(c *gin.Context) string {
	return c.GetHeader(UserHeader)
}
