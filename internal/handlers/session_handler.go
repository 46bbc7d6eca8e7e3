package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	clientsvc "github.com/uplinehq/backend/internal/services/client"
)

// SessionHandler exposes the global claim session window
type SessionHandler struct {
	clients *clientsvc.Service
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(clients *clientsvc.Service) *SessionHandler {
	return &SessionHandler{clients: clients}
}

// GetSession returns the current claim window and whether it is open now
func (h *SessionHandler) GetSession(c *gin.Context) {
	session, err := h.clients.ActiveSession(c.Request.Context())
	if err != nil {
		if errors.Is(err, clientsvc.ErrNoSession) {
			c.JSON(http.StatusOK, gin.H{"open": false})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session": session,
		"open":    session.Open(time.Now()),
	})
}

// SetSessionRequest replaces the claim window.
type SetSessionRequest struct {
	StartAt time.Time `json:"start_at" binding:"required"`
	EndAt   time.Time `json:"end_at" binding:"required"`
}

// SetSession replaces the claim window (admin only)
func (h *SessionHandler) SetSession(c *gin.Context) {
	var req SetSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.clients.SetSession(c.Request.Context(), req.StartAt, req.EndAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, session)
}
