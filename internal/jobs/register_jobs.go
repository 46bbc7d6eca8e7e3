package jobs

import (
	"gorm.io/gorm"

	"github.com/uplinehq/backend/internal/middleware"
	"github.com/uplinehq/backend/internal/queue"
)

// RegisterJobs wires every job handler into the queue.
func RegisterJobs(q *queue.Queue, db *gorm.DB, metrics *middleware.Metrics) {
	q.RegisterHandler(queue.JobTypeCommissionPayout, NewCommissionPayoutJob(db, metrics).Handle)
	q.RegisterHandler(queue.JobTypeResetDailyClaims, NewResetDailyClaimsJob(db).Handle)
}
