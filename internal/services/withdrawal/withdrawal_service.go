package withdrawal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/uplinehq/backend/internal/models"
)

var (
	// ErrPendingRequestExists means the user already has an outstanding
	// withdrawal; one at a time.
	ErrPendingRequestExists = errors.New("you already have a withdrawal request in progress")
	// ErrInvalidAmount means the requested amount is not positive.
	ErrInvalidAmount = errors.New("withdrawal amount must be a positive number")
	// ErrInsufficientBalance means the amount exceeds the user's income.
	ErrInsufficientBalance = errors.New("withdrawal amount cannot exceed your balance")
	// ErrBankDetailsIncomplete means account number, IFSC or UPI is missing.
	ErrBankDetailsIncomplete = errors.New("add your account number, IFSC and UPI before withdrawing")
	// ErrReasonRequired means a rejection was attempted without a reason.
	ErrReasonRequired = errors.New("a reason is required to reject a request")
	// ErrRequestNotFound means the withdrawal id resolves to nothing.
	ErrRequestNotFound = errors.New("withdrawal request not found")
	// ErrRequestSettled means the request is already approved or rejected.
	ErrRequestSettled = errors.New("request is already settled")
	// ErrInvalidStatus means the target status is not part of the lifecycle.
	ErrInvalidStatus = errors.New("invalid request status")
)

// ValidateCreate runs every creation precondition in order and returns
// the first failure. Nothing is written when an error is returned.
// amount == income is allowed; the bar is "cannot exceed", not "below".
func ValidateCreate(u *models.User, amount float64, hasOutstanding bool) error {
	if hasOutstanding {
		return ErrPendingRequestExists
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount > u.Income {
		return ErrInsufficientBalance
	}
	if !u.HasPayoutDetails() {
		return ErrBankDetailsIncomplete
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

// Service owns the withdrawal request lifecycle.
type Service struct {
	db *gorm.DB
}

// NewService creates a new withdrawal service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Create validates and files a new withdrawal in pending state. The
// partial unique index on outstanding requests backs up the precheck
// against concurrent submissions.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, amount float64) (*models.Withdrawal, error) {
	var created models.Withdrawal

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return err
		}

		var outstanding int64
		if err := tx.Model(&models.Withdrawal{}).
			Where("user_id = ? AND status IN ?", userID,
				[]models.RequestStatus{models.RequestPending, models.RequestProcessing}).
			Count(&outstanding).Error; err != nil {
			return err
		}

		if err := ValidateCreate(&user, amount, outstanding > 0); err != nil {
			return err
		}

		created = models.Withdrawal{
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

// ListByUser returns the user's withdrawal history, newest first.
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Withdrawal, error) {
	var withdrawals []models.Withdrawal
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&withdrawals).Error
	if err != nil {
		return nil, fmt.Errorf("error listing withdrawals: %w", err)
	}
	return withdrawals, nil
}

// UpdateStatus is the admin transition. Settled requests cannot move
// again; rejecting requires a reason; approving clears the reason and
// debits the amount from the user's income in the same transaction.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status models.RequestStatus, reason string, adminID uuid.UUID) (*models.Withdrawal, error) {
	var updated models.Withdrawal

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req models.Withdrawal
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
			// Income may have shrunk since creation; the debit is
			// conditional so it can never go negative.
			res := tx.Model(&models.User{}).
				Where("id = ? AND income >= ?", req.UserID, req.Amount).
				Update("income", gorm.Expr("income - ?", req.Amount))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrInsufficientBalance
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
