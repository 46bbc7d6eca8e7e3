package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/uplinehq/backend/internal/models"
)

// Service builds spreadsheet exports for the admin dashboard.
type Service struct {
	db *gorm.DB
}

// NewService creates a new export service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Clients builds an .xlsx workbook of all clients and their owners.
func (s *Service) Clients(ctx context.Context) (*excelize.File, error) {
	var clients []models.Client
	if err := s.db.WithContext(ctx).Preload("Owners").Order("created_at").Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("error loading clients: %w", err)
	}

	f := excelize.NewFile()
	sheetName := "Clients"
	index, _ := f.NewSheet(sheetName)
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headers := []string{"Portal", "Phone", "Name", "KYC Stage", "Trade Status", "Approved", "Owners", "Created At"}
	writeHeader(f, sheetName, headers)

	for row, c := range clients {
		owners := make([]string, 0, len(c.Owners))
		for _, o := range c.Owners {
			owners = append(owners, fmt.Sprintf("%s (%s)", o.Name, o.Number))
		}
		writeRow(f, sheetName, row+2, []interface{}{
			c.PortalName, c.Phone, c.Name, string(c.EKYCStage), string(c.TradeStatus),
			c.IsApproved, strings.Join(owners, ", "), c.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	return f, nil
}

// Leads builds an .xlsx workbook of the lead funnel.
func (s *Service) Leads(ctx context.Context) (*excelize.File, error) {
	var leads []models.Lead
	if err := s.db.WithContext(ctx).Order("created_at").Find(&leads).Error; err != nil {
		return nil, fmt.Errorf("error loading leads: %w", err)
	}

	f := excelize.NewFile()
	sheetName := "Leads"
	index, _ := f.NewSheet(sheetName)
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headers := []string{"Name", "Phone", "Portal", "Ref", "Status", "Reason", "Created At"}
	writeHeader(f, sheetName, headers)

	for row, l := range leads {
		writeRow(f, sheetName, row+2, []interface{}{
			l.Name, l.Phone, l.PortalName, l.Ref, string(l.Status), l.Reason,
			l.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	return f, nil
}

func writeHeader(f *excelize.File, sheet string, headers []string) {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, v)
	}
}
