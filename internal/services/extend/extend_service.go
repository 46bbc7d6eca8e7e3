package extend

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
	// ErrPendingRequestExists means the user already has an outstanding
	// extension request.
	ErrPendingRequestExists = errors.New("you already have an extension request in progress")
	// ErrInvalidAmount means the requested increase is not positive.
	ErrInvalidAmount = errors.New("extension amount must be a positive number")
	// ErrReasonRequired means a rejection was attempted without a reason.
	ErrReasonRequired = errors.New("a reason is required to reject a request")
	// ErrRequestNotFound means the extend id resolves to nothing.
	ErrRequestNotFound = errors.New("extension request not found")
	// ErrRequestSettled means the request is already approved or rejected.
	ErrRequestSettled = errors.New("request is already settled")
	// ErrInvalidStatus means the target status is not part of the lifecycle.
	ErrInvalidStatus = errors.New("invalid request status")
)

// ShortfallError reports how far the user is from the referral target.
type ShortfallError struct {
	Need int
}

func (e *ShortfallError) Error() string {
	return fmt.Sprintf("refer %d more user(s) before requesting an extension", e.Need)
}

// ValidateCreate runs the creation preconditions: no outstanding request,
// a positive amount, and a referral count that has reached the current
// limit. count must be fetched fresh, never from a cache.
func ValidateCreate(u *models.User, amount int, count int, hasOutstanding bool) error {
	if hasOutstanding {
		return ErrPendingRequestExists
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if count < u.Limit {
		return &ShortfallError{Need: u.Limit - count}
	}
	return nil
}

// ValidateTransition checks an admin decision against the lifecycle: the
// target must be a known status, rejecting carries a reason, and a
// settled request never moves again.
func ValidateTransition(current, next models.RequestStatus, reason string) error {
	if !next.Valid() {
		return ErrInvalidStatus
	}
	if next == models.RequestRejected && reason == "" {
		return ErrReasonRequired
	}
	if current.Terminal() {
		return ErrRequestSettled
	}
	return nil
}

// transitionFields builds the column updates for a decision. Approval
// discards whatever reason came along with the request.
func transitionFields(next models.RequestStatus, reason string, adminID uuid.UUID, now time.Time) map[string]interface{} {
	if next == models.RequestApproved {
		reason = ""
	}
	return map[string]interface{}{
		"status":       next,
		"reason":       reason,
		"processed_by": adminID,
		"processed_at": &now,
	}
}

// Service owns the limit-extension request lifecycle.
type Service struct {
	db        *gorm.DB
	referrals *referral.Service
}

// NewService creates a new extend service.
func NewService(db *gorm.DB, referrals *referral.Service) *Service {
	return &Service{db: db, referrals: referrals}
}

// Create validates and files a new extension request in pending state.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, amount int) (*models.Extend, error) {
	count, err := s.referrals.FreshCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	var created models.Extend

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return err
		}

		var outstanding int64
		if err := tx.Model(&models.Extend{}).
			Where("user_id = ? AND status IN ?", userID,
				[]models.RequestStatus{models.RequestPending, models.RequestProcessing}).
			Count(&outstanding).Error; err != nil {
			return err
		}

		if err := ValidateCreate(&user, amount, int(count), outstanding > 0); err != nil {
			return err
		}

		created = models.Extend{
			UserID: userID,
			Amount: amount,
			Status: models.RequestPending,
		}
		return tx.Create(&created).Error
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// ListByUser returns the user's extension history, newest first.
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Extend, error) {
	var extends []models.Extend
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&extends).Error
	if err != nil {
		return nil, fmt.Errorf("error listing extensions: %w", err)
	}
	return extends, nil
}

// UpdateStatus is the admin transition. Approval raises the user's limit
// by the requested amount and clears any prior reason; rejection needs a
// non-empty reason; settled requests never move again.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status models.RequestStatus, reason string, adminID uuid.UUID) (*models.Extend, error) {
	var updated models.Extend

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req models.Extend
		err := tx.First(&req, "id = ?", id).Error
		if err == gorm.ErrRecordNotFound {
			return ErrRequestNotFound
		}
		if err != nil {
			return err
		}
		if err := ValidateTransition(req.Status, status, reason); err != nil {
			return err
		}

		updates := transitionFields(status, reason, adminID, time.Now())
		if status == models.RequestApproved {
			if err := tx.Model(&models.User{}).
				Where("id = ?", req.UserID).
				Update("limit", gorm.Expr(`"limit" + ?`, req.Amount)).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&req).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&updated, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
