package queue

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Scheduler runs recurring maintenance tasks: requeueing due retries and
// the nightly daily-claims reset.
type Scheduler struct {
	queue     *Queue
	scheduler *gocron.Scheduler
}

// NewScheduler creates a scheduler bound to the queue.
func NewScheduler(q *Queue) *Scheduler {
	return &Scheduler{
		queue:     q,
		scheduler: gocron.NewScheduler(time.UTC),
	}
}

// Start registers the recurring jobs and starts the scheduler in its own
// goroutine.
func (s *Scheduler) Start() {
	if _, err := s.scheduler.Every(1).Minute().Do(s.queue.RequeueDueRetries); err != nil {
		log.Printf("Failed to schedule retry requeue: %v", err)
	}

	if _, err := s.scheduler.Every(1).Day().At("00:00").Do(func() {
		if _, err := s.queue.Enqueue(JobTypeResetDailyClaims, nil); err != nil {
			log.Printf("Failed to enqueue daily claims reset: %v", err)
		}
	}); err != nil {
		log.Printf("Failed to schedule daily claims reset: %v", err)
	}

	s.scheduler.StartAsync()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}
