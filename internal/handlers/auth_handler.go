package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/uplinehq/backend/internal/models"
	"github.com/uplinehq/backend/internal/services/referral"
	"github.com/uplinehq/backend/internal/utils"
)

// AuthHandler handles authentication related requests
type AuthHandler struct {
	db        *gorm.DB
	referrals *referral.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(db *gorm.DB, referrals *referral.Service) *AuthHandler {
	return &AuthHandler{db: db, referrals: referrals}
}

// SignupRequest represents the request body for signup
type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Ref      string `json:"ref"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
	Remember   bool   `json:"remember"`
}

// LeaderLoginRequest logs a team leader in by join code
type LeaderLoginRequest struct {
	JoinID   string `json:"join_id" binding:"required"`
	Password string `json:"password" binding:"required"`
	Remember bool   `json:"remember"`
}

// Signup handles user registration, attributing the signup to the
// referrer when a join code is supplied.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.User
	if result := h.db.Where("email = ? OR phone = ?", req.Email, req.Phone).First(&existing); result.RowsAffected > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Email or phone already in use"})
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         models.RoleMember,
		Status:       models.UserStatusActive,
		JoinID:       utils.GenerateJoinID(),
	}

	if req.Ref != "" {
		var referrer models.User
		err := h.db.First(&referrer, "join_id = ?", req.Ref).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve referrer"})
			return
		}
		if err == nil {
			user.ReferredBy = &referrer.ID
		}
	}

	if err := h.db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	// The referrer's cached count just went stale.
	if user.ReferredBy != nil {
		h.referrals.Invalidate(c.Request.Context(), *user.ReferredBy)
	}

	h.issueToken(c, &user, false)
}

// Login handles user login by email or phone
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	err := h.db.Where("email = ? OR phone = ?", req.Identifier, req.Identifier).First(&user).Error
	if err != nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if user.Blocked() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is blocked"})
		return
	}

	h.recordLogin(&user)
	h.issueToken(c, &user, req.Remember)
}

// LeaderLogin handles the team dashboard login by leader join code
func (h *AuthHandler) LeaderLogin(c *gin.Context) {
	var req LeaderLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	err := h.db.First(&user, "join_id = ?", req.JoinID).Error
	if err != nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if user.Blocked() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is blocked"})
		return
	}
	if user.Role == models.RoleMember {
		c.JSON(http.StatusForbidden, gin.H{"error": "Leader access requires an upgraded account"})
		return
	}

	h.recordLogin(&user)
	h.issueToken(c, &user, req.Remember)
}

func (h *AuthHandler) recordLogin(user *models.User) {
	now := time.Now()
	h.db.Model(user).Update("last_login_at", &now)
}

// issueToken signs a JWT and mirrors it into the auth-token cookie the
// web client reads. remember selects the 30-day expiry.
func (h *AuthHandler) issueToken(c *gin.Context, user *models.User, remember bool) {
	token, err := utils.GenerateToken(user, remember)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	maxAge := 0 // session-scoped cookie
	if remember {
		maxAge = int(utils.RememberTokenTTL / time.Second)
	}
	c.SetCookie("auth-token", token, maxAge, "/", "", false, true)

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}
