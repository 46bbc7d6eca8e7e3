package upgrade

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/uplinehq/backend/internal/models"
	"github.com/uplinehq/backend/internal/services/referral"
)

var (
	// ErrTopTier means the user already holds the highest earnable role.
	ErrTopTier = errors.New("already at the top tier")
	// ErrProfileIncomplete means the user must supply a PAN card or bank
	// details before the first upgrade.
	ErrProfileIncomplete = errors.New("complete your profile with a PAN card or bank details before upgrading")
	// ErrUserBlocked means a blocked account tried to upgrade.
	ErrUserBlocked = errors.New("account is blocked")
)

// ShortfallError reports how many referrals the user is missing.
type ShortfallError struct {
	Need int
}

func (e *ShortfallError) Error() string {
	return fmt.Sprintf("refer %d more user(s) to upgrade", e.Need)
}

// ReferralStats is the input the eligibility rules run against.
type ReferralStats struct {
	ReferredCount int
	ReferralLimit int
}

// rule decides whether a user at a given tier may move up. nil means
// allowed.
type rule func(u *models.User, stats ReferralStats) error

// rules maps each tier to its upgrade precondition. Tiers absent from
// the map (BM, ADMIN) are never upgradable.
var rules = map[models.Role]rule{
	models.RoleMember: func(u *models.User, _ ReferralStats) error {
		if !u.HasProfileKYC() {
			return ErrProfileIncomplete
		}
		return nil
	},
	models.RoleDivision: referralTarget,
	models.RoleDistrict: referralTarget,
	models.RoleState:    referralTarget,
}

func referralTarget(_ *models.User, stats ReferralStats) error {
	if stats.ReferredCount < stats.ReferralLimit {
		return &ShortfallError{Need: stats.ReferralLimit - stats.ReferredCount}
	}
	return nil
}

// CanUpgrade is the eligibility gate. It is a pure function of the user
// and stats: identical inputs always yield the identical verdict.
func CanUpgrade(u *models.User, stats ReferralStats) error {
	if u.Blocked() {
		return ErrUserBlocked
	}
	r, ok := rules[u.Role]
	if !ok {
		return ErrTopTier
	}
	return r(u, stats)
}

// tierLimits is the daily/referral quota each tier starts with.
var tierLimits = map[models.Role]int{
	models.RoleMember:        5,
	models.RoleDivision:      10,
	models.RoleDistrict:      25,
	models.RoleState:         50,
	models.RoleBranchManager: 100,
}

// Service executes upgrades against the database.
type Service struct {
	db        *gorm.DB
	referrals *referral.Service
}

// NewService creates a new upgrade service.
func NewService(db *gorm.DB, referrals *referral.Service) *Service {
	return &Service{db: db, referrals: referrals}
}

// Stats assembles the referral stats the gate needs. The count is always
// fetched fresh: eligibility must not ride on a cached number.
func (s *Service) Stats(ctx context.Context, u *models.User) (ReferralStats, error) {
	count, err := s.referrals.FreshCount(ctx, u.ID)
	if err != nil {
		return ReferralStats{}, err
	}
	return ReferralStats{ReferredCount: int(count), ReferralLimit: u.Limit}, nil
}

// Upgrade re-checks eligibility server-side and advances the user one
// tier, resetting the quota to the new tier's baseline. The gate and the
// role write happen against the same loaded row inside a transaction.
func (s *Service) Upgrade(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var upgraded models.User

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return err
		}

		stats, err := s.Stats(ctx, &user)
		if err != nil {
			return err
		}
		if err := CanUpgrade(&user, stats); err != nil {
			return err
		}

		next, ok := user.Role.Next()
		if !ok {
			return ErrTopTier
		}

		updates := map[string]interface{}{
			"role":       next,
			"updated_at": time.Now(),
		}
		if limit, ok := tierLimits[next]; ok && limit > user.Limit {
			updates["limit"] = limit
		}
		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			return err
		}

		return tx.First(&upgraded, "id = ?", userID).Error
	})
	if err != nil {
		return nil, err
	}
	return &upgraded, nil
}
