package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/uplinehq/backend/internal/middleware"
	"github.com/uplinehq/backend/internal/models"
	clientsvc "github.com/uplinehq/backend/internal/services/client"
	"github.com/uplinehq/backend/internal/services/commission"
)

// ClientHandler handles client records, claiming and commission
// distribution
type ClientHandler struct {
	clients     *clientsvc.Service
	commissions *commission.Service
	metrics     *middleware.Metrics
}

// NewClientHandler creates a new client handler
func NewClientHandler(clients *clientsvc.Service, commissions *commission.Service, metrics *middleware.Metrics) *ClientHandler {
	return &ClientHandler{clients: clients, commissions: commissions, metrics: metrics}
}

// GetAllClients returns a page of clients with their owners
func (h *ClientHandler) GetAllClients(c *gin.Context) {
	page, pageSize := pagination(c)

	clients, total, err := h.clients.List(c.Request.Context(), page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list clients"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"clients": clients,
		"pagination": gin.H{
			"total":     total,
			"page":      page,
			"page_size": pageSize,
		},
	})
}

// AddClientRequest creates a client captured outside the funnel.
type AddClientRequest struct {
	PortalName  string             `json:"portal_name" binding:"required"`
	Phone       string             `json:"phone" binding:"required"`
	Name        string             `json:"name"`
	EKYCStage   models.EKYCStage   `json:"ekyc_stage"`
	TradeStatus models.TradeStatus `json:"trade_status"`
}

// AddClient creates a client record
func (h *ClientHandler) AddClient(c *gin.Context) {
	var req AddClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client := models.Client{
		PortalName:  req.PortalName,
		Phone:       req.Phone,
		Name:        req.Name,
		EKYCStage:   models.EKYCNotComplete,
		TradeStatus: models.TradeNotDone,
	}
	if req.EKYCStage != "" {
		client.EKYCStage = req.EKYCStage
	}
	if req.TradeStatus != "" {
		client.TradeStatus = req.TradeStatus
	}

	if err := h.clients.Create(c.Request.Context(), &client); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "client already exists for this portal and phone"})
		return
	}
	c.JSON(http.StatusCreated, client)
}

// UpdateClient applies admin edits to a client
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client ID"})
		return
	}

	var input clientsvc.UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client, err := h.clients.Update(c.Request.Context(), id, input)
	if err != nil {
		if errors.Is(err, clientsvc.ErrClientNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update client"})
		return
	}
	c.JSON(http.StatusOK, client)
}

// SearchClient finds a client by portal and phone number for the team
// claiming view
func (h *ClientHandler) SearchClient(c *gin.Context) {
	portal := c.Query("portal")
	number := c.Query("number")
	if portal == "" || number == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "portal and number are required"})
		return
	}

	client, err := h.clients.Search(c.Request.Context(), portal, number)
	if err != nil {
		if errors.Is(err, clientsvc.ErrClientNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search client"})
		return
	}
	c.JSON(http.StatusOK, client)
}

// ClaimClient registers the caller as an owner of the client
func (h *ClientHandler) ClaimClient(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client ID"})
		return
	}

	client, err := h.clients.Claim(c.Request.Context(), clientID, userID)
	if err != nil {
		h.metrics.ClaimsTotal.WithLabelValues("rejected").Inc()
		switch {
		case errors.Is(err, clientsvc.ErrClientNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, clientsvc.ErrNotEligible),
			errors.Is(err, clientsvc.ErrAlreadyClaimed),
			errors.Is(err, clientsvc.ErrSessionClosed),
			errors.Is(err, clientsvc.ErrNoSession),
			errors.Is(err, clientsvc.ErrDailyLimitReached):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to claim client"})
		}
		return
	}

	h.metrics.ClaimsTotal.WithLabelValues("claimed").Inc()
	c.JSON(http.StatusOK, client)
}

// DistributeCommission disburses the portal commission for a client
// along the referral chain, at most once per client
func (h *ClientHandler) DistributeCommission(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client ID"})
		return
	}

	result, err := h.commissions.Distribute(c.Request.Context(), clientID)
	if err != nil {
		switch {
		case errors.Is(err, commission.ErrClientNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, commission.ErrCommissionNotFound):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, commission.ErrAlreadyDistributed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to distribute commission"})
		}
		return
	}

	h.metrics.CommissionsDistributedTotal.Inc()
	c.JSON(http.StatusOK, result)
}
