package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/uplinehq/backend/internal/models"
)

// PortalHandler handles portals, their commission lookup and referral
// link tracking
type PortalHandler struct {
	db *gorm.DB
}

// NewPortalHandler creates a new portal handler
func NewPortalHandler(db *gorm.DB) *PortalHandler {
	return &PortalHandler{db: db}
}

// CreatePortalRequest registers a portal with its commission.
type CreatePortalRequest struct {
	Name       string  `json:"name" binding:"required"`
	Commission float64 `json:"commission" binding:"required"`
	Link       string  `json:"link"`
}

// CreatePortal registers a new portal (admin only)
func (h *PortalHandler) CreatePortal(c *gin.Context) {
	var req CreatePortalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Commission <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "commission must be a positive number"})
		return
	}

	portal := models.Portal{
		Name:       req.Name,
		Slug:       slug.Make(req.Name),
		Commission: req.Commission,
		Link:       req.Link,
		Active:     true,
	}
	if err := h.db.Create(&portal).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "portal already exists"})
		return
	}
	c.JSON(http.StatusCreated, portal)
}

// ListPortals returns all active portals
func (h *PortalHandler) ListPortals(c *gin.Context) {
	var portals []models.Portal
	if err := h.db.Where("active = ?", true).Order("name").Find(&portals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list portals"})
		return
	}
	c.JSON(http.StatusOK, portals)
}

// CommissionBySlug returns the commission configured for a portal
func (h *PortalHandler) CommissionBySlug(c *gin.Context) {
	var portal models.Portal
	err := h.db.Where("slug = ? AND active = ?", c.Param("slug"), true).First(&portal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "portal not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve portal"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"portal":     portal.Name,
		"slug":       portal.Slug,
		"commission": portal.Commission,
	})
}

// TrackLinkClick records a hit on a portal referral link, attributing
// the leader code when present
func (h *PortalHandler) TrackLinkClick(c *gin.Context) {
	var portal models.Portal
	err := h.db.Where("slug = ? AND active = ?", c.Param("slug"), true).First(&portal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "portal not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve portal"})
		return
	}

	click := models.LinkClick{
		PortalID: portal.ID,
		Ref:      c.Query("ref"),
		IP:       c.ClientIP(),
		Status:   models.FunnelNew,
	}
	if err := h.db.Create(&click).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record click"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"portal": portal.Name, "link": portal.Link})
}
