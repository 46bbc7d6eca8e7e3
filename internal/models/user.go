package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a member of the platform. Role and Limit are mutated
// only through the upgrade and limit-extension workflows; Status only by
// admin action.
type User struct {
	Base
	Name         string     `gorm:"type:varchar(100);not null" json:"name"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone        string     `gorm:"type:varchar(20);uniqueIndex;not null" json:"phone"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role       `gorm:"type:varchar(10);not null;default:'MEM'" json:"role"`
	Status       UserStatus `gorm:"type:varchar(10);not null;default:'active'" json:"status"`

	// Income is the accumulated withdrawable balance. Debited when a
	// withdrawal is approved, credited by commission payouts.
	Income float64 `gorm:"type:decimal(20,2);not null;default:0" json:"income"`

	// Limit is the daily claim quota and the referral target for tier
	// upgrades; ClaimsToday is reset nightly.
	Limit       int `gorm:"not null;default:5" json:"limit"`
	ClaimsToday int `gorm:"not null;default:0" json:"claims_today"`

	// JoinID is the leader code downstream signups use for attribution.
	JoinID     string     `gorm:"type:varchar(20);uniqueIndex;not null" json:"join_id"`
	ReferredBy *uuid.UUID `gorm:"type:uuid;index" json:"referred_by,omitempty"`
	Referrer   *User      `gorm:"foreignKey:ReferredBy" json:"-"`

	// KYC / payout details
	Pancard       string `gorm:"type:varchar(20)" json:"pancard"`
	AccountNumber string `gorm:"type:varchar(30)" json:"account_number"`
	IFSC          string `gorm:"type:varchar(15)" json:"ifsc"`
	UPI           string `gorm:"type:varchar(100)" json:"upi"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// HasProfileKYC reports whether the user supplied a PAN card or complete
// bank details, the completeness bar for the first tier upgrade.
func (u *User) HasProfileKYC() bool {
	return u.Pancard != "" || (u.AccountNumber != "" && u.IFSC != "")
}

// HasPayoutDetails reports whether all fields needed to pay the user out
// are on file. Withdrawals require the full set.
func (u *User) HasPayoutDetails() bool {
	return u.AccountNumber != "" && u.IFSC != "" && u.UPI != ""
}

// Blocked reports whether the account is blocked.
func (u *User) Blocked() bool {
	return u.Status == UserStatusBlocked
}
