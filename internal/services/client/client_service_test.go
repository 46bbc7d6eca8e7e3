package client

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/uplinehq/backend/internal/models"
)

var noon = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func openSession() *models.ClaimSession {
	return &models.ClaimSession{
		StartAt: noon.Add(-time.Hour),
		EndAt:   noon.Add(time.Hour),
	}
}

func eligibleClient() *models.Client {
	return &models.Client{
		Base:        models.Base{ID: uuid.New()},
		PortalName:  "tradex",
		Phone:       "8888888888",
		EKYCStage:   models.EKYCComplete,
		TradeStatus: models.TradeNotDone,
	}
}

func claimant() *models.User {
	return &models.User{
		Base:  models.Base{ID: uuid.New()},
		Name:  "Asha",
		Phone: "9999999999",
		Limit: 5,
	}
}

func TestValidateClaim(t *testing.T) {
	t.Run("kyc complete and new number succeeds", func(t *testing.T) {
		assert.NoError(t, ValidateClaim(openSession(), eligibleClient(), claimant(), noon))
	})

	t.Run("trade done qualifies even without kyc", func(t *testing.T) {
		c := eligibleClient()
		c.EKYCStage = models.EKYCNotComplete
		c.TradeStatus = models.TradeDone
		assert.NoError(t, ValidateClaim(openSession(), c, claimant(), noon))
	})

	t.Run("neither kyc nor trade rejected", func(t *testing.T) {
		c := eligibleClient()
		c.EKYCStage = models.EKYCNotComplete
		assert.Equal(t, ErrNotEligible, ValidateClaim(openSession(), c, claimant(), noon))
	})

	t.Run("same number cannot claim twice", func(t *testing.T) {
		c := eligibleClient()
		u := claimant()
		c.Owners = []models.ClientOwner{{Name: u.Name, Number: u.Phone, Position: 0}}
		assert.Equal(t, ErrAlreadyClaimed, ValidateClaim(openSession(), c, u, noon))
	})

	t.Run("daily quota exhausted rejected", func(t *testing.T) {
		u := claimant()
		u.ClaimsToday = 5
		assert.Equal(t, ErrDailyLimitReached, ValidateClaim(openSession(), eligibleClient(), u, noon))
	})

	t.Run("missing session rejected", func(t *testing.T) {
		assert.Equal(t, ErrSessionClosed, ValidateClaim(nil, eligibleClient(), claimant(), noon))
	})
}

func TestValidateClaimSessionWindowEdges(t *testing.T) {
	s := openSession()

	assert.NoError(t, ValidateClaim(s, eligibleClient(), claimant(), s.StartAt),
		"window start is inclusive")
	assert.Equal(t, ErrSessionClosed, ValidateClaim(s, eligibleClient(), claimant(), s.EndAt),
		"window end is exclusive")
	assert.Equal(t, ErrSessionClosed, ValidateClaim(s, eligibleClient(), claimant(), s.StartAt.Add(-time.Second)))
}

func TestNextPositionAppends(t *testing.T) {
	assert.Equal(t, 0, nextPosition(nil), "first owner takes position 0")

	owners := []models.ClientOwner{
		{Number: "9999999999", Position: 0},
		{Number: "7777777777", Position: 1},
	}
	assert.Equal(t, 2, nextPosition(owners))

	// A removed owner leaves a gap; positions must keep growing past it.
	gapped := []models.ClientOwner{
		{Number: "9999999999", Position: 0},
		{Number: "6666666666", Position: 2},
	}
	assert.Equal(t, 3, nextPosition(gapped))
}

func TestOwnedByMatchesNumberOnly(t *testing.T) {
	c := eligibleClient()
	c.Owners = []models.ClientOwner{
		{Name: "Asha", Number: "9999999999", Position: 0},
		{Name: "Vikram", Number: "7777777777", Position: 1},
	}

	assert.True(t, c.OwnedBy("9999999999"))
	assert.True(t, c.OwnedBy("7777777777"))
	assert.False(t, c.OwnedBy("6666666666"))
}
