package jobs

import (
	"context"
	"log"

	"gorm.io/gorm"

	"github.com/uplinehq/backend/internal/models"
	"github.com/uplinehq/backend/internal/queue"
)

// ResetDailyClaimsJob zeroes every user's claims_today counter. The
// scheduler enqueues it at midnight UTC.
type ResetDailyClaimsJob struct {
	db *gorm.DB
}

// NewResetDailyClaimsJob creates the reset job handler.
func NewResetDailyClaimsJob(db *gorm.DB) *ResetDailyClaimsJob {
	return &ResetDailyClaimsJob{db: db}
}

// Handle resets the daily claim counters.
func (j *ResetDailyClaimsJob) Handle(ctx context.Context, _ queue.Job) error {
	res := j.db.WithContext(ctx).Model(&models.User{}).
		Where("claims_today > 0").
		Update("claims_today", 0)
	if res.Error != nil {
		return res.Error
	}
	log.Printf("Reset daily claim counters for %d user(s)", res.RowsAffected)
	return nil
}
