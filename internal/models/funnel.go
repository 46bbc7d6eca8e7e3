package models

import (
	"github.com/google/uuid"
)

// FunnelStatus tracks a prospect's progress through the lead funnel.
// Reason carries free text when a record is parked or dropped.
type FunnelStatus string

const (
	FunnelNew       FunnelStatus = "new"
	FunnelContacted FunnelStatus = "contacted"
	FunnelConverted FunnelStatus = "converted"
	FunnelDropped   FunnelStatus = "dropped"
)

// Valid reports whether s is a known funnel status.
func (s FunnelStatus) Valid() bool {
	switch s {
	case FunnelNew, FunnelContacted, FunnelConverted, FunnelDropped:
		return true
	}
	return false
}

// LinkClick is a raw hit on a portal referral link, optionally
// attributed to a leader join code.
type LinkClick struct {
	Base
	PortalID uuid.UUID    `gorm:"type:uuid;not null;index" json:"portal_id"`
	Portal   Portal       `gorm:"foreignKey:PortalID" json:"-"`
	Ref      string       `gorm:"type:varchar(20);index" json:"ref"`
	IP       string       `gorm:"type:varchar(45)" json:"ip"`
	Status   FunnelStatus `gorm:"type:varchar(15);not null;default:'new'" json:"status"`
	Reason   string       `gorm:"type:text" json:"reason"`
}

// Registration is a prospect who filled the signup funnel form.
type Registration struct {
	Base
	Name       string       `gorm:"type:varchar(100);not null" json:"name"`
	Phone      string       `gorm:"type:varchar(20);not null;index" json:"phone"`
	Email      string       `gorm:"type:varchar(255)" json:"email"`
	PortalName string       `gorm:"type:varchar(100)" json:"portal_name"`
	Ref        string       `gorm:"type:varchar(20);index" json:"ref"`
	Status     FunnelStatus `gorm:"type:varchar(15);not null;default:'new'" json:"status"`
	Reason     string       `gorm:"type:text" json:"reason"`
}

// Lead is a qualified prospect handed to the team for follow-up.
type Lead struct {
	Base
	Name       string       `gorm:"type:varchar(100);not null" json:"name"`
	Phone      string       `gorm:"type:varchar(20);not null;index" json:"phone"`
	PortalName string       `gorm:"type:varchar(100)" json:"portal_name"`
	Ref        string       `gorm:"type:varchar(20);index" json:"ref"`
	Status     FunnelStatus `gorm:"type:varchar(15);not null;default:'new'" json:"status"`
	Reason     string       `gorm:"type:text" json:"reason"`
}

// Contact is the outcome of a follow-up attempt against a lead.
type Contact struct {
	Base
	LeadID *uuid.UUID   `gorm:"type:uuid;index" json:"lead_id,omitempty"`
	Name   string       `gorm:"type:varchar(100);not null" json:"name"`
	Phone  string       `gorm:"type:varchar(20);not null;index" json:"phone"`
	Status FunnelStatus `gorm:"type:varchar(15);not null;default:'new'" json:"status"`
	Reason string       `gorm:"type:text" json:"reason"`
}
