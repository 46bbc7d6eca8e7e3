package commission

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uplinehq/backend/internal/models"
)

func user(id uuid.UUID) models.User {
	return models.User{Base: models.Base{ID: id}}
}

func TestChainRecipientsEarnerOnly(t *testing.T) {
	earner := user(uuid.New())

	got := ChainRecipients(&earner, nil, 500, 0.10)
	require.Len(t, got, 1)
	assert.Equal(t, earner.ID, got[0].UserID)
	assert.Equal(t, 0, got[0].Level)
	assert.Equal(t, 500.0, got[0].Amount)
}

func TestChainRecipientsWithUpline(t *testing.T) {
	earner := user(uuid.New())
	upline := []models.User{user(uuid.New()), user(uuid.New()), user(uuid.New())}

	got := ChainRecipients(&earner, upline, 1000, 0.10)
	require.Len(t, got, 4)

	assert.Equal(t, 1000.0, got[0].Amount)
	for i := 1; i < 4; i++ {
		assert.Equal(t, upline[i-1].ID, got[i].UserID, "nearest ancestor first")
		assert.Equal(t, i, got[i].Level)
		assert.Equal(t, 100.0, got[i].Amount)
	}
}

func TestChainRecipientsRoundsToPaise(t *testing.T) {
	earner := user(uuid.New())
	upline := []models.User{user(uuid.New())}

	got := ChainRecipients(&earner, upline, 333.33, 0.10)
	require.Len(t, got, 2)
	assert.Equal(t, 333.33, got[0].Amount)
	assert.Equal(t, 33.33, got[1].Amount)
}

func TestDistributionIsAtMostOncePerClient(t *testing.T) {
	// Both halves of the guard: the precheck on the loaded row, and the
	// interpretation of the conditional flag flip that backs it up under
	// concurrent admin sessions.
	fresh := models.Client{}
	assert.NoError(t, approvalGate(&fresh))

	done := models.Client{IsApproved: true}
	assert.ErrorIs(t, approvalGate(&done), ErrAlreadyDistributed)

	assert.NoError(t, approvalOutcome(1))
	assert.ErrorIs(t, approvalOutcome(0), ErrAlreadyDistributed,
		"losing the flag race must abort the transaction")
}

func TestChainRecipientsZeroShareSkipsUpline(t *testing.T) {
	earner := user(uuid.New())
	upline := []models.User{user(uuid.New()), user(uuid.New())}

	got := ChainRecipients(&earner, upline, 500, 0)
	require.Len(t, got, 1, "no upline rows when the share is zero")
	assert.Equal(t, earner.ID, got[0].UserID)
}
