package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffGrowsAndCaps(t *testing.T) {
	h := &RetryHandler{
		conf: RetryConfig{
			InitialInterval: 30 * time.Second,
			MaxInterval:     1 * time.Hour,
			Multiplier:      2.0,
		},
	}

	assert.Equal(t, 30*time.Second, h.backoff(1))
	assert.Equal(t, 1*time.Minute, h.backoff(2))
	assert.Equal(t, 2*time.Minute, h.backoff(3))
	assert.Equal(t, 4*time.Minute, h.backoff(4))

	// Deep retries hit the ceiling
	assert.Equal(t, 1*time.Hour, h.backoff(10))
}

func TestJobStatusConstants(t *testing.T) {
	// The queue table shares a schema with the domain tables, so the
	// status values are part of the migration contract.
	for _, s := range []JobStatus{
		JobStatusPending, JobStatusProcessing, JobStatusCompleted,
		JobStatusFailed, JobStatusScheduled,
	} {
		assert.NotEmpty(t, string(s))
	}
	assert.Equal(t, JobType("commission_payout"), JobTypeCommissionPayout)
	assert.Equal(t, JobType("reset_daily_claims"), JobTypeResetDailyClaims)
}
