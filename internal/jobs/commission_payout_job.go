package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/uplinehq/backend/internal/middleware"
	"github.com/uplinehq/backend/internal/models"
	"github.com/uplinehq/backend/internal/queue"
)

// CommissionPayoutPayload identifies the ledger row a job credits.
type CommissionPayoutPayload struct {
	PayoutID string `json:"payout_id"`
}

// CommissionPayoutJob credits commission payouts to user incomes. The
// status flip and the income credit share one transaction, and the flip
// is conditional, so a retried job can never credit twice.
type CommissionPayoutJob struct {
	db      *gorm.DB
	metrics *middleware.Metrics
}

// NewCommissionPayoutJob creates the payout job handler.
func NewCommissionPayoutJob(db *gorm.DB, metrics *middleware.Metrics) *CommissionPayoutJob {
	return &CommissionPayoutJob{db: db, metrics: metrics}
}

// Handle processes one queued payout.
func (j *CommissionPayoutJob) Handle(ctx context.Context, job queue.Job) error {
	var payload CommissionPayoutPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("invalid payout payload: %w", err)
	}
	payoutID, err := uuid.Parse(payload.PayoutID)
	if err != nil {
		return fmt.Errorf("invalid payout id %q: %w", payload.PayoutID, err)
	}

	var credited float64

	err = j.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var payout models.CommissionPayout
		if err := tx.First(&payout, "id = ?", payoutID).Error; err != nil {
			return err
		}

		now := time.Now()
		res := tx.Model(&models.CommissionPayout{}).
			Where("id = ? AND status <> ?", payout.ID, models.PayoutCompleted).
			Updates(map[string]interface{}{
				"status":       models.PayoutCompleted,
				"completed_at": &now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Already credited by an earlier attempt.
			return nil
		}

		credited = payout.Amount
		return tx.Model(&models.User{}).
			Where("id = ?", payout.UserID).
			Update("income", gorm.Expr("income + ?", payout.Amount)).Error
	})
	if err != nil {
		j.markFailed(ctx, payoutID, err)
		return err
	}

	if credited > 0 && j.metrics != nil {
		j.metrics.PayoutAmountTotal.Add(credited)
	}
	return nil
}

func (j *CommissionPayoutJob) markFailed(ctx context.Context, payoutID uuid.UUID, cause error) {
	if err := j.db.WithContext(ctx).Model(&models.CommissionPayout{}).
		Where("id = ? AND status <> ?", payoutID, models.PayoutCompleted).
		Updates(map[string]interface{}{
			"status":         models.PayoutFailed,
			"failure_reason": cause.Error(),
		}).Error; err != nil {
		log.Printf("Failed to mark payout %s failed: %v", payoutID, err)
	}
}
