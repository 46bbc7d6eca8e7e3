package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uplinehq/backend/internal/services/export"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler streams admin spreadsheet exports
type ExportHandler struct {
	exports *export.Service
}

// NewExportHandler creates a new export handler
func NewExportHandler(exports *export.Service) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// ExportClients streams all clients as an .xlsx file
func (h *ExportHandler) ExportClients(c *gin.Context) {
	f, err := h.exports.Clients(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build export"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="clients.xlsx"`)
	c.Header("Content-Type", xlsxContentType)
	if err := f.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}

// ExportLeads streams all leads as an .xlsx file
func (h *ExportHandler) ExportLeads(c *gin.Context) {
	f, err := h.exports.Leads(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build export"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="leads.xlsx"`)
	c.Header("Content-Type", xlsxContentType)
	if err := f.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}
