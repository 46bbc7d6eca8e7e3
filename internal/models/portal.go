package models

import (
	"time"
)

// Portal is an external trading/investment platform clients are referred
// to. Commission is the amount disbursed along the referral chain when a
// client of this portal is approved.
type Portal struct {
	Base
	Name       string  `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Slug       string  `gorm:"type:varchar(120);uniqueIndex;not null" json:"slug"`
	Commission float64 `gorm:"type:decimal(20,2);not null;default:0" json:"commission"`
	Link       string  `gorm:"type:text" json:"link"`
	Active     bool    `gorm:"not null;default:true" json:"active"`
}

// ClaimSession is the global window during which client claiming is
// permitted. The most recently created row is the active session.
type ClaimSession struct {
	Base
	StartAt time.Time `gorm:"not null" json:"start_at"`
	EndAt   time.Time `gorm:"not null" json:"end_at"`
}

// Open reports whether claiming is permitted at t.
func (s *ClaimSession) Open(t time.Time) bool {
	return !t.Before(s.StartAt) && t.Before(s.EndAt)
}
