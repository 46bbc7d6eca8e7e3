package models

import (
	"github.com/google/uuid"
)

// EKYCStage is a client's identity-verification completion status.
type EKYCStage string

const (
	EKYCNotComplete EKYCStage = "not-complete"
	EKYCComplete    EKYCStage = "complete"
)

// TradeStatus records whether the client has completed a trade on the
// portal they were referred to.
type TradeStatus string

const (
	TradeNotDone TradeStatus = "not-done"
	TradeDone    TradeStatus = "done"
)

// Client is a prospective investor/trader referred to a portal. Owners
// are the team members who claimed the client. IsApproved flips exactly
// once, when commission for the client is distributed.
type Client struct {
	Base
	PortalName  string      `gorm:"type:varchar(100);not null;uniqueIndex:idx_clients_portal_phone" json:"portal_name"`
	Phone       string      `gorm:"type:varchar(20);not null;uniqueIndex:idx_clients_portal_phone" json:"phone"`
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	EKYCStage   EKYCStage   `gorm:"type:varchar(15);not null;default:'not-complete'" json:"ekyc_stage"`
	TradeStatus TradeStatus `gorm:"type:varchar(10);not null;default:'not-done'" json:"trade_status"`
	IsApproved  bool        `gorm:"not null;default:false" json:"is_approved"`
	Owners      []ClientOwner `gorm:"foreignKey:ClientID" json:"owners"`
}

// Claimable reports whether the client may be claimed at all: KYC must
// be complete or a trade must be done.
func (c *Client) Claimable() bool {
	return c.EKYCStage == EKYCComplete || c.TradeStatus == TradeDone
}

// OwnedBy reports whether number already appears among the owners.
func (c *Client) OwnedBy(number string) bool {
	for _, o := range c.Owners {
		if o.Number == number {
			return true
		}
	}
	return false
}

// ClientOwner is one earner-of-record on a client. Name and number live
// on the same row, so they cannot drift apart. The unique index on
// (client_id, number) makes duplicate claims impossible even under
// concurrent requests.
type ClientOwner struct {
	Base
	ClientID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_client_owner_number" json:"client_id"`
	Name     string    `gorm:"type:varchar(100);not null" json:"name"`
	Number   string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_client_owner_number" json:"number"`
	Position int       `gorm:"not null;default:0" json:"position"`
}
