package queue

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
)

// RetryConfig defines the configuration for job retries
type RetryConfig struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
}

// RetryHandler manages job retries with exponential backoff
type RetryHandler struct {
	db   *gorm.DB
	conf RetryConfig
}

// NewRetryHandler creates a new retry handler
func NewRetryHandler(db *gorm.DB) *RetryHandler {
	return &RetryHandler{
		db: db,
		conf: RetryConfig{
			InitialInterval: 30 * time.Second,
			MaxInterval:     1 * time.Hour,
			Multiplier:      2.0,
		},
	}
}

// HandleFailedJob schedules a retry with backoff, or marks the job failed
// once retries are exhausted.
func (h *RetryHandler) HandleFailedJob(job Job, err error) {
	retryCount := job.RetryCount + 1

	if retryCount > job.MaxRetries {
		log.Printf("Job %s (%s) exceeded %d retries: %v", job.ID, job.Type, job.MaxRetries, err)
		h.update(job, map[string]interface{}{
			"status": JobStatusFailed,
			"error":  fmt.Sprintf("exceeded max retries: %v", err),
		})
		return
	}

	next := time.Now().Add(h.backoff(retryCount))
	log.Printf("Job %s (%s) failed, retry %d/%d at %s: %v",
		job.ID, job.Type, retryCount, job.MaxRetries, next.Format(time.RFC3339), err)

	h.update(job, map[string]interface{}{
		"status":      JobStatusScheduled,
		"retry_count": retryCount,
		"next_retry":  next,
		"error":       err.Error(),
	})
}

// backoff returns the delay before the given attempt.
func (h *RetryHandler) backoff(attempt int) time.Duration {
	d := h.conf.InitialInterval
	for i := 1; i < attempt; i++ {
		d = time.Duration(float64(d) * h.conf.Multiplier)
		if d >= h.conf.MaxInterval {
			return h.conf.MaxInterval
		}
	}
	return d
}

func (h *RetryHandler) update(job Job, fields map[string]interface{}) {
	fields["updated_at"] = time.Now()
	if err := h.db.Model(&job).Updates(fields).Error; err != nil {
		log.Printf("Failed to update job %s: %v", job.ID, err)
	}
}
