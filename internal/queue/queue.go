package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JobType defines the type of job
type JobType string

const (
	JobTypeCommissionPayout JobType = "commission_payout"
	JobTypeResetDailyClaims JobType = "reset_daily_claims"
)

// JobStatus defines the status of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusScheduled  JobStatus = "scheduled"
)

// Job represents a background job. Jobs live in the same database as the
// domain tables, so enqueuing can share a transaction with domain writes.
type Job struct {
	ID         uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	Type       JobType         `json:"type" gorm:"type:varchar(50);index"`
	Payload    json.RawMessage `json:"payload" gorm:"type:jsonb"`
	Status     JobStatus       `json:"status" gorm:"type:varchar(15);index;default:'pending'"`
	RetryCount int             `json:"retry_count" gorm:"default:0"`
	MaxRetries int             `json:"max_retries" gorm:"default:3"`
	NextRetry  *time.Time      `json:"next_retry,omitempty"`
	Error      string          `json:"error,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// JobHandler is a function that processes a job
type JobHandler func(ctx context.Context, job Job) error

// Queue is a database-backed job queue with bounded retries.
type Queue struct {
	db           *gorm.DB
	handlers     map[JobType]JobHandler
	retryHandler *RetryHandler
	processing   bool
}

// NewQueue creates a new queue
func NewQueue(db *gorm.DB) *Queue {
	q := &Queue{
		db:       db,
		handlers: make(map[JobType]JobHandler),
	}
	q.retryHandler = NewRetryHandler(db)
	return q
}

// RegisterHandler registers a handler for a job type
func (q *Queue) RegisterHandler(jobType JobType, handler JobHandler) {
	q.handlers[jobType] = handler
}

// Enqueue adds a job to the queue.
func (q *Queue) Enqueue(jobType JobType, payload interface{}) (uuid.UUID, error) {
	return enqueue(q.db, jobType, payload)
}

// EnqueueTx adds a job inside an existing transaction, so the job becomes
// visible only if the surrounding domain writes commit.
func (q *Queue) EnqueueTx(tx *gorm.DB, jobType JobType, payload interface{}) (uuid.UUID, error) {
	return enqueue(tx, jobType, payload)
}

func enqueue(db *gorm.DB, jobType JobType, payload interface{}) (uuid.UUID, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal job payload: %w", err)
	}

	job := Job{
		ID:         uuid.New(),
		Type:       jobType,
		Payload:    payloadBytes,
		Status:     JobStatusPending,
		MaxRetries: 3,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := db.Create(&job).Error; err != nil {
		return uuid.Nil, err
	}
	return job.ID, nil
}

// ProcessJobs starts the polling loop. It blocks, so callers run it in a
// goroutine.
func (q *Queue) ProcessJobs() {
	if q.processing {
		return
	}
	q.processing = true

	for q.processing {
		var job Job
		err := q.db.Where("status = ?", JobStatusPending).Order("created_at").First(&job).Error
		if err != nil {
			if err != gorm.ErrRecordNotFound {
				log.Printf("Error getting job from queue: %v", err)
			}
			time.Sleep(1 * time.Second)
			continue
		}

		q.processJob(job)
	}
}

// StopProcessing stops the polling loop after the current job.
func (q *Queue) StopProcessing() {
	q.processing = false
}

func (q *Queue) processJob(job Job) {
	handler, ok := q.handlers[job.Type]
	if !ok {
		log.Printf("No handler registered for job type: %s", job.Type)
		q.markFailed(job, fmt.Errorf("no handler for type %s", job.Type))
		return
	}

	if err := q.db.Model(&job).Updates(map[string]interface{}{
		"status":     JobStatusProcessing,
		"updated_at": time.Now(),
	}).Error; err != nil {
		log.Printf("Failed to update job status: %v", err)
		return
	}

	if err := handler(context.Background(), job); err != nil {
		q.retryHandler.HandleFailedJob(job, err)
		return
	}

	if err := q.db.Model(&job).Updates(map[string]interface{}{
		"status":     JobStatusCompleted,
		"updated_at": time.Now(),
	}).Error; err != nil {
		log.Printf("Failed to update job result: %v", err)
	}
}

func (q *Queue) markFailed(job Job, err error) {
	if dbErr := q.db.Model(&job).Updates(map[string]interface{}{
		"status":     JobStatusFailed,
		"error":      err.Error(),
		"updated_at": time.Now(),
	}).Error; dbErr != nil {
		log.Printf("Failed to mark job failed: %v", dbErr)
	}
}

// RequeueDueRetries moves scheduled jobs whose retry time has passed back
// to pending. Called periodically by the scheduler.
func (q *Queue) RequeueDueRetries() {
	now := time.Now()
	if err := q.db.Model(&Job{}).
		Where("status = ? AND next_retry <= ?", JobStatusScheduled, now).
		Updates(map[string]interface{}{
			"status":     JobStatusPending,
			"next_retry": nil,
			"updated_at": now,
		}).Error; err != nil {
		log.Printf("Failed to requeue due retries: %v", err)
	}
}
