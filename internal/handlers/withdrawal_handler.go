package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/uplinehq/backend/internal/middleware"
	"github.com/uplinehq/backend/internal/models"
	"github.com/uplinehq/backend/internal/services/withdrawal"
)

// WithdrawalHandler handles the withdrawal request lifecycle
type WithdrawalHandler struct {
	withdrawals *withdrawal.Service
	metrics     *middleware.Metrics
}

// NewWithdrawalHandler creates a new withdrawal handler
func NewWithdrawalHandler(withdrawals *withdrawal.Service, metrics *middleware.Metrics) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawals: withdrawals, metrics: metrics}
}

// CreateWithdrawalRequest carries the requested amount.
type CreateWithdrawalRequest struct {
	Amount float64 `json:"amount" binding:"required"`
}

// CreateWithdrawal files a new withdrawal request for the caller
func (h *WithdrawalHandler) CreateWithdrawal(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.withdrawals.Create(c.Request.Context(), userID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, withdrawal.ErrPendingRequestExists),
			errors.Is(err, withdrawal.ErrInvalidAmount),
			errors.Is(err, withdrawal.ErrInsufficientBalance),
			errors.Is(err, withdrawal.ErrBankDetailsIncomplete):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create withdrawal"})
		}
		return
	}

	h.metrics.WithdrawalsCreatedTotal.Inc()
	c.JSON(http.StatusCreated, created)
}

// GetWithdrawalsByUserID lists a user's withdrawal history. Non-admin
// callers may only read their own.
func (h *WithdrawalHandler) GetWithdrawalsByUserID(c *gin.Context) {
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

	withdrawals, err := h.withdrawals.ListByUser(c.Request.Context(), targetID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list withdrawals"})
		return
	}
	c.JSON(http.StatusOK, withdrawals)
}

// UpdateWithdrawalRequest carries the admin transition.
type UpdateWithdrawalRequest struct {
	Status models.RequestStatus `json:"status" binding:"required"`
	Reason string               `json:"reason"`
}

// UpdateWithdrawal moves a request through its lifecycle (admin only)
func (h *WithdrawalHandler) UpdateWithdrawal(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid withdrawal ID"})
		return
	}

	var req UpdateWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.withdrawals.UpdateStatus(c.Request.Context(), id, req.Status, req.Reason, adminID)
	if err != nil {
		switch {
		case errors.Is(err, withdrawal.ErrRequestNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, withdrawal.ErrReasonRequired),
			errors.Is(err, withdrawal.ErrInvalidStatus),
			errors.Is(err, withdrawal.ErrRequestSettled),
			errors.Is(err, withdrawal.ErrInsufficientBalance):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update withdrawal"})
		}
		return
	}
	c.JSON(http.StatusOK, updated)
}
