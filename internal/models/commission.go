package models

import (
	"time"

	"github.com/google/uuid"
)

// PayoutStatus is the processing state of a single commission credit.
type PayoutStatus string

const (
	PayoutPending   PayoutStatus = "pending"
	PayoutCompleted PayoutStatus = "completed"
	PayoutFailed    PayoutStatus = "failed"
)

// CommissionPayout is one ledger row of a client's commission
// distribution. Level 0 is the earner-of-record; higher levels are
// upline ancestors. Reference is unique so crediting is idempotent
// under job retries.
type CommissionPayout struct {
	Base
	ClientID      uuid.UUID    `gorm:"type:uuid;not null;index" json:"client_id"`
	Client        Client       `gorm:"foreignKey:ClientID" json:"-"`
	UserID        uuid.UUID    `gorm:"type:uuid;not null;index" json:"user_id"`
	User          User         `gorm:"foreignKey:UserID" json:"-"`
	Level         int          `gorm:"not null" json:"level"`
	Amount        float64      `gorm:"type:decimal(20,2);not null" json:"amount"`
	Reference     string       `gorm:"type:varchar(100);uniqueIndex;not null" json:"reference"`
	Status        PayoutStatus `gorm:"type:varchar(15);not null;default:'pending'" json:"status"`
	FailureReason string       `gorm:"type:text" json:"failure_reason,omitempty"`
	CompletedAt   *time.Time   `json:"completed_at,omitempty"`
}
