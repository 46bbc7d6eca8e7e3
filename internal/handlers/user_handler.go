package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/uplinehq/backend/internal/models"
	"github.com/uplinehq/backend/internal/services/referral"
	"github.com/uplinehq/backend/internal/services/upgrade"
)

// UserHandler handles identity, profile and upgrade requests
type UserHandler struct {
	db          *gorm.DB
	referrals   *referral.Service
	upgrades    *upgrade.Service
	frontendURL string
}

// NewUserHandler creates a new user handler
func NewUserHandler(db *gorm.DB, referrals *referral.Service, upgrades *upgrade.Service, frontendURL string) *UserHandler {
	return &UserHandler{db: db, referrals: referrals, upgrades: upgrades, frontendURL: frontendURL}
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return uuid.Nil, false
	}
	return id, true
}

// Me returns the authenticated user's record
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfileRequest carries the KYC/bank fields a user may edit.
type UpdateProfileRequest struct {
	Name          *string `json:"name"`
	Pancard       *string `json:"pancard"`
	AccountNumber *string `json:"account_number"`
	IFSC          *string `json:"ifsc"`
	UPI           *string `json:"upi"`
}

// UpdateProfile lets the user complete the details the upgrade and
// withdrawal gates check for.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Pancard != nil {
		updates["pancard"] = *req.Pancard
	}
	if req.AccountNumber != nil {
		updates["account_number"] = *req.AccountNumber
	}
	if req.IFSC != nil {
		updates["ifsc"] = *req.IFSC
	}
	if req.UPI != nil {
		updates["upi"] = *req.UPI
	}

	if len(updates) > 0 {
		if err := h.db.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
			return
		}
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// ReferralCount returns the direct referral count for a user
func (h *UserHandler) ReferralCount(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	count, err := h.referrals.Count(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get referral count"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": id, "count": count})
}

// Upgrade re-checks eligibility and advances the user one tier
func (h *UserHandler) Upgrade(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.upgrades.Upgrade(c.Request.Context(), userID)
	if err != nil {
		var shortfall *upgrade.ShortfallError
		switch {
		case errors.Is(err, upgrade.ErrTopTier),
			errors.Is(err, upgrade.ErrProfileIncomplete),
			errors.Is(err, upgrade.ErrUserBlocked),
			errors.As(err, &shortfall):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upgrade"})
		}
		return
	}
	c.JSON(http.StatusOK, user)
}

// JoinQR renders the user's join link as a PNG QR code for sharing
func (h *UserHandler) JoinQR(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	link := h.frontendURL + "/join?ref=" + user.JoinID
	png, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render QR code"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// ListUsers returns a page of users for the admin dashboard
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, pageSize := pagination(c)

	var total int64
	if err := h.db.Model(&models.User{}).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}

	var users []models.User
	if err := h.db.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"pagination": gin.H{
			"total":     total,
			"page":      page,
			"page_size": pageSize,
		},
	})
}

// UpdateStatusRequest carries the admin block/unblock action.
type UpdateStatusRequest struct {
	Status models.UserStatus `json:"status" binding:"required"`
}

// UpdateStatus blocks or unblocks a user
func (h *UserHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Status != models.UserStatusActive && req.Status != models.UserStatusBlocked {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	res := h.db.Model(&models.User{}).Where("id = ?", id).Update("status", req.Status)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update status"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": req.Status})
}
