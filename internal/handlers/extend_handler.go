package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/uplinehq/backend/internal/middleware"
	"github.com/uplinehq/backend/internal/models"
	"github.com/uplinehq/backend/internal/services/extend"
)

// ExtendHandler handles the limit-extension request lifecycle
type ExtendHandler struct {
	extends *extend.Service
	metrics *middleware.Metrics
}

// NewExtendHandler creates a new extend handler
func NewExtendHandler(extends *extend.Service, metrics *middleware.Metrics) *ExtendHandler {
	return &ExtendHandler{extends: extends, metrics: metrics}
}

// CreateExtendRequest carries the requested limit increase.
type CreateExtendRequest struct {
	Amount int `json:"amount" binding:"required"`
}

// CreateExtend files a new limit-extension request for the caller
func (h *ExtendHandler) CreateExtend(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateExtendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.extends.Create(c.Request.Context(), userID, req.Amount)
	if err != nil {
		var shortfall *extend.ShortfallError
		switch {
		case errors.Is(err, extend.ErrPendingRequestExists),
			errors.Is(err, extend.ErrInvalidAmount),
			errors.As(err, &shortfall):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create extension request"})
		}
		return
	}

	h.metrics.ExtendsCreatedTotal.Inc()
	c.JSON(http.StatusCreated, created)
}

// GetExtendsByUserID lists a user's extension history. Non-admin callers
// may only read their own.
func (h *ExtendHandler) GetExtendsByUserID(c *gin.Context) {
	callerID, ok := currentUserID(c)
	if !ok {
		return
	}

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}
	if targetID != callerID && models.Role(c.GetString("role")) != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	extends, err := h.extends.ListByUser(c.Request.Context(), targetID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list extension requests"})
		return
	}
	c.JSON(http.StatusOK, extends)
}

// UpdateExtendRequest carries the admin transition.
type UpdateExtendRequest struct {
	Status models.RequestStatus `json:"status" binding:"required"`
	Reason string               `json:"reason"`
}

// UpdateExtend moves a request through its lifecycle (admin only)
func (h *ExtendHandler) UpdateExtend(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid extend ID"})
		return
	}

	var req UpdateExtendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.extends.UpdateStatus(c.Request.Context(), id, req.Status, req.Reason, adminID)
	if err != nil {
		switch {
		case errors.Is(err, extend.ErrRequestNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, extend.ErrReasonRequired),
			errors.Is(err, extend.ErrInvalidStatus),
			errors.Is(err, extend.ErrRequestSettled):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update extension request"})
		}
		return
	}
	c.JSON(http.StatusOK, updated)
}
