package models

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus is the lifecycle of a user-initiated approval request:
// pending -> processing (optional) -> approved | rejected.
type RequestStatus string

const (
	RequestPending    RequestStatus = "pending"
	RequestProcessing RequestStatus = "processing"
	RequestApproved   RequestStatus = "approved"
	RequestRejected   RequestStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestProcessing, RequestApproved, RequestRejected:
		return true
	}
	return false
}

// Terminal reports whether s is a settled state. Terminal requests are
// never transitioned again.
func (s RequestStatus) Terminal() bool {
	return s == RequestApproved || s == RequestRejected
}

// Outstanding reports whether a request in this state blocks the user
// from creating another of the same type.
func (s RequestStatus) Outstanding() bool {
	return s == RequestPending || s == RequestProcessing
}

// Withdrawal is a request to pay out part of the user's income. A
// partial unique index on (user_id) over outstanding statuses enforces
// "one outstanding withdrawal per user" in the database.
type Withdrawal struct {
	Base
	UserID      uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	User        User          `gorm:"foreignKey:UserID" json:"-"`
	Amount      float64       `gorm:"type:decimal(20,2);not null" json:"amount"`
	Status      RequestStatus `gorm:"type:varchar(15);not null;default:'pending'" json:"status"`
	Reason      string        `gorm:"type:text" json:"reason"`
	ProcessedBy *uuid.UUID    `gorm:"type:uuid" json:"processed_by,omitempty"`
	ProcessedAt *time.Time    `json:"processed_at,omitempty"`
}

// Extend is a request to raise the user's daily claim limit. Same state
// machine and uniqueness rule as Withdrawal.
type Extend struct {
	Base
	UserID      uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	User        User          `gorm:"foreignKey:UserID" json:"-"`
	Amount      int           `gorm:"not null" json:"amount"`
	Status      RequestStatus `gorm:"type:varchar(15);not null;default:'pending'" json:"status"`
	Reason      string        `gorm:"type:text" json:"reason"`
	ProcessedBy *uuid.UUID    `gorm:"type:uuid" json:"processed_by,omitempty"`
	ProcessedAt *time.Time    `json:"processed_at,omitempty"`
}
