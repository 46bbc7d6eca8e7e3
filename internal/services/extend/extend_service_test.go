package extend

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uplinehq/backend/internal/models"
)

func TestValidateCreate(t *testing.T) {
	user := models.User{Limit: 5}

	tests := []struct {
		name        string
		amount      int
		count       int
		outstanding bool
		want        error
	}{
		{
			name:        "outstanding request blocks creation",
			amount:      5,
			count:       10,
			outstanding: true,
			want:        ErrPendingRequestExists,
		},
		{
			name:   "non-positive amount rejected",
			amount: 0,
			count:  10,
			want:   ErrInvalidAmount,
		},
		{
			name:   "count below limit rejected with shortfall",
			amount: 5,
			count:  4,
			want:   &ShortfallError{Need: 1},
		},
		{
			name:   "count equal to limit accepted",
			amount: 5,
			count:  5,
			want:   nil,
		},
		{
			name:   "count above limit accepted",
			amount: 5,
			count:  9,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateCreate(&user, tt.amount, tt.count, tt.outstanding)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateTransition(t *testing.T) {
	tests := []struct {
		name    string
		current models.RequestStatus
		next    models.RequestStatus
		reason  string
		want    error
	}{
		{
			name:    "pending to processing",
			current: models.RequestPending,
			next:    models.RequestProcessing,
			want:    nil,
		},
		{
			name:    "processing to approved",
			current: models.RequestProcessing,
			next:    models.RequestApproved,
			want:    nil,
		},
		{
			name:    "rejection without a reason refused",
			current: models.RequestPending,
			next:    models.RequestRejected,
			want:    ErrReasonRequired,
		},
		{
			name:    "approved request never moves again",
			current: models.RequestApproved,
			next:    models.RequestProcessing,
			want:    ErrRequestSettled,
		},
		{
			name:    "rejected request never moves again",
			current: models.RequestRejected,
			next:    models.RequestApproved,
			want:    ErrRequestSettled,
		},
		{
			name:    "unknown target status refused",
			current: models.RequestPending,
			next:    models.RequestStatus("expired"),
			want:    ErrInvalidStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateTransition(tt.current, tt.next, tt.reason)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransitionFieldsClearsReasonOnApproval(t *testing.T) {
	admin := uuid.New()
	now := time.Now()

	approved := transitionFields(models.RequestApproved, "leftover note", admin, now)
	assert.Equal(t, "", approved["reason"], "approval discards the submitted reason")
	assert.Equal(t, models.RequestApproved, approved["status"])
	assert.Equal(t, admin, approved["processed_by"])

	rejected := transitionFields(models.RequestRejected, "target not met", admin, now)
	assert.Equal(t, "target not met", rejected["reason"])
}

func TestShortfallMessageCitesDeficit(t *testing.T) {
	// limit=5, fresh count=4: the message must name the missing 1.
	u := models.User{Limit: 5}
	err := ValidateCreate(&u, 5, 4, false)
	require.Error(t, err)

	var shortfall *ShortfallError
	require.ErrorAs(t, err, &shortfall)
	assert.Equal(t, 1, shortfall.Need)
	assert.Contains(t, err.Error(), "1 more")
}
