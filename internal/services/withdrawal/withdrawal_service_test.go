package withdrawal

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/uplinehq/backend/internal/models"
)

func payoutReadyUser(income float64) models.User {
	return models.User{
		Income:        income,
		AccountNumber: "12345678901",
		IFSC:          "HDFC0001234",
		UPI:           "someone@upi",
	}
}

func TestValidateCreate(t *testing.T) {
	tests := []struct {
		name        string
		user        models.User
		amount      float64
		outstanding bool
		want        error
	}{
		{
			name:        "outstanding request blocks creation before anything else",
			user:        payoutReadyUser(500),
			amount:      100,
			outstanding: true,
			want:        ErrPendingRequestExists,
		},
		{
			name:   "zero amount rejected",
			user:   payoutReadyUser(500),
			amount: 0,
			want:   ErrInvalidAmount,
		},
		{
			name:   "negative amount rejected",
			user:   payoutReadyUser(500),
			amount: -50,
			want:   ErrInvalidAmount,
		},
		{
			name:   "600 against income 500 rejected",
			user:   payoutReadyUser(500),
			amount: 600,
			want:   ErrInsufficientBalance,
		},
		{
			name:   "amount equal to income is accepted",
			user:   payoutReadyUser(500),
			amount: 500,
			want:   nil,
		},
		{
			name:   "missing UPI blocks withdrawal",
			user:   models.User{Income: 500, AccountNumber: "12345678901", IFSC: "HDFC0001234"},
			amount: 100,
			want:   ErrBankDetailsIncomplete,
		},
		{
			name:   "all preconditions met",
			user:   payoutReadyUser(500),
			amount: 100,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateCreate(&tt.user, tt.amount, tt.outstanding)
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
			name:    "pending to approved",
			current: models.RequestPending,
			next:    models.RequestApproved,
			want:    nil,
		},
		{
			name:    "processing to rejected with reason",
			current: models.RequestProcessing,
			next:    models.RequestRejected,
			reason:  "bank details mismatch",
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
			next:    models.RequestRejected,
			reason:  "changed my mind",
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
			next:    models.RequestStatus("archived"),
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

	rejected := transitionFields(models.RequestRejected, "bank details mismatch", admin, now)
	assert.Equal(t, "bank details mismatch", rejected["reason"])
}

func TestValidateCreateChecksOutstandingFirst(t *testing.T) {
	// A user with several violations should hear about the outstanding
	// request, matching what the dashboard surfaces.
	u := models.User{Income: 0}
	assert.Equal(t, ErrPendingRequestExists, ValidateCreate(&u, -1, true))
}
