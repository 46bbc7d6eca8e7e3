package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/uplinehq/backend/internal/models"
)

// FunnelHandler handles registrations, leads and contact outcomes
type FunnelHandler struct {
	db *gorm.DB
}

// NewFunnelHandler creates a new funnel handler
func NewFunnelHandler(db *gorm.DB) *FunnelHandler {
	return &FunnelHandler{db: db}
}

// CreateRegistrationRequest is the public signup-funnel form.
type CreateRegistrationRequest struct {
	Name       string `json:"name" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	Email      string `json:"email"`
	PortalName string `json:"portal_name"`
	Ref        string `json:"ref"`
}

// CreateRegistration captures a prospect from the public funnel
func (h *FunnelHandler) CreateRegistration(c *gin.Context) {
	var req CreateRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reg := models.Registration{
		Name:       req.Name,
		Phone:      req.Phone,
		Email:      req.Email,
		PortalName: req.PortalName,
		Ref:        req.Ref,
		Status:     models.FunnelNew,
	}
	if err := h.db.Create(&reg).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create registration"})
		return
	}
	c.JSON(http.StatusCreated, reg)
}

// CreateLeadRequest is the team's lead-capture form.
type CreateLeadRequest struct {
	Name       string `json:"name" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	PortalName string `json:"portal_name"`
	Ref        string `json:"ref"`
}

// CreateLead captures a qualified lead
func (h *FunnelHandler) CreateLead(c *gin.Context) {
	var req CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lead := models.Lead{
		Name:       req.Name,
		Phone:      req.Phone,
		PortalName: req.PortalName,
		Ref:        req.Ref,
		Status:     models.FunnelNew,
	}
	if err := h.db.Create(&lead).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create lead"})
		return
	}
	c.JSON(http.StatusCreated, lead)
}

// CreateContactRequest records a follow-up outcome against a lead.
type CreateContactRequest struct {
	LeadID *uuid.UUID          `json:"lead_id"`
	Name   string              `json:"name" binding:"required"`
	Phone  string              `json:"phone" binding:"required"`
	Status models.FunnelStatus `json:"status"`
	Reason string              `json:"reason"`
}

// CreateContact records a contact attempt
func (h *FunnelHandler) CreateContact(c *gin.Context) {
	var req CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := req.Status
	if status == "" {
		status = models.FunnelNew
	}
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	contact := models.Contact{
		LeadID: req.LeadID,
		Name:   req.Name,
		Phone:  req.Phone,
		Status: status,
		Reason: req.Reason,
	}
	if err := h.db.Create(&contact).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create contact"})
		return
	}
	c.JSON(http.StatusCreated, contact)
}

// ListRegistrations returns a page of registrations
func (h *FunnelHandler) ListRegistrations(c *gin.Context) {
	listFunnel[models.Registration](h.db, c, "registrations")
}

// ListLeads returns a page of leads
func (h *FunnelHandler) ListLeads(c *gin.Context) {
	listFunnel[models.Lead](h.db, c, "leads")
}

// ListContacts returns a page of contact outcomes
func (h *FunnelHandler) ListContacts(c *gin.Context) {
	listFunnel[models.Contact](h.db, c, "contacts")
}

// ListLinkClicks returns a page of raw link clicks
func (h *FunnelHandler) ListLinkClicks(c *gin.Context) {
	listFunnel[models.LinkClick](h.db, c, "link_clicks")
}

func listFunnel[T any](db *gorm.DB, c *gin.Context, key string) {
	page, pageSize := pagination(c)

	var model T
	var total int64
	if err := db.Model(&model).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list " + key})
		return
	}

	var records []T
	if err := db.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list " + key})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		key: records,
		"pagination": gin.H{
			"total":     total,
			"page":      page,
			"page_size": pageSize,
		},
	})
}

// UpdateFunnelStatusRequest moves a funnel record to a new status.
type UpdateFunnelStatusRequest struct {
	Status models.FunnelStatus `json:"status" binding:"required"`
	Reason string              `json:"reason"`
}

// UpdateRegistrationStatus updates a registration's funnel status
func (h *FunnelHandler) UpdateRegistrationStatus(c *gin.Context) {
	updateFunnelStatus[models.Registration](h.db, c)
}

// UpdateLeadStatus updates a lead's funnel status
func (h *FunnelHandler) UpdateLeadStatus(c *gin.Context) {
	updateFunnelStatus[models.Lead](h.db, c)
}

// UpdateContactStatus updates a contact's funnel status
func (h *FunnelHandler) UpdateContactStatus(c *gin.Context) {
	updateFunnelStatus[models.Contact](h.db, c)
}

func updateFunnelStatus[T any](db *gorm.DB, c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ID"})
		return
	}

	var req UpdateFunnelStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	var model T
	res := db.Model(&model).Where("id = ?", id).Updates(map[string]interface{}{
		"status": req.Status,
		"reason": req.Reason,
	})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update status"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": req.Status, "reason": req.Reason})
}
