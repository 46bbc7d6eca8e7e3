package upgrade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uplinehq/backend/internal/models"
)

func TestCanUpgradeMember(t *testing.T) {
	tests := []struct {
		name string
		user models.User
		want error
	}{
		{
			name: "no pan and no bank details rejected",
			user: models.User{Role: models.RoleMember},
			want: ErrProfileIncomplete,
		},
		{
			name: "pan card alone is enough",
			user: models.User{Role: models.RoleMember, Pancard: "ABCDE1234F"},
			want: nil,
		},
		{
			name: "account number without ifsc rejected",
			user: models.User{Role: models.RoleMember, AccountNumber: "12345678901"},
			want: ErrProfileIncomplete,
		},
		{
			name: "full bank details are enough",
			user: models.User{Role: models.RoleMember, AccountNumber: "12345678901", IFSC: "HDFC0001234"},
			want: nil,
		},
		{
			name: "blocked user rejected regardless",
			user: models.User{Role: models.RoleMember, Status: models.UserStatusBlocked, Pancard: "ABCDE1234F"},
			want: ErrUserBlocked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanUpgrade(&tt.user, ReferralStats{})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanUpgradeReferralTiers(t *testing.T) {
	for _, role := range []models.Role{models.RoleDivision, models.RoleDistrict, models.RoleState} {
		u := models.User{Role: role}

		assert.NoError(t, CanUpgrade(&u, ReferralStats{ReferredCount: 10, ReferralLimit: 10}),
			"%s at exactly the target must pass", role)
		assert.NoError(t, CanUpgrade(&u, ReferralStats{ReferredCount: 11, ReferralLimit: 10}))

		err := CanUpgrade(&u, ReferralStats{ReferredCount: 4, ReferralLimit: 5})
		require.Error(t, err)
		var shortfall *ShortfallError
		require.ErrorAs(t, err, &shortfall)
		assert.Equal(t, 1, shortfall.Need)
		assert.Contains(t, err.Error(), "1 more")
	}
}

func TestCanUpgradeTopTiers(t *testing.T) {
	bm := models.User{Role: models.RoleBranchManager, Pancard: "ABCDE1234F"}
	assert.Equal(t, ErrTopTier, CanUpgrade(&bm, ReferralStats{ReferredCount: 1000, ReferralLimit: 1}))

	admin := models.User{Role: models.RoleAdmin}
	assert.Equal(t, ErrTopTier, CanUpgrade(&admin, ReferralStats{}))
}

func TestCanUpgradeIsIdempotent(t *testing.T) {
	u := models.User{Role: models.RoleDivision}
	stats := ReferralStats{ReferredCount: 3, ReferralLimit: 5}

	first := CanUpgrade(&u, stats)
	second := CanUpgrade(&u, stats)
	require.Error(t, first)
	assert.Equal(t, first.Error(), second.Error())
}
