package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleNext(t *testing.T) {
	tests := []struct {
		role Role
		next Role
		ok   bool
	}{
		{RoleMember, RoleDivision, true},
		{RoleDivision, RoleDistrict, true},
		{RoleDistrict, RoleState, true},
		{RoleState, RoleBranchManager, true},
		{RoleBranchManager, RoleBranchManager, false},
		{RoleAdmin, RoleAdmin, false},
		{Role("UNKNOWN"), Role("UNKNOWN"), false},
	}

	for _, tt := range tests {
		next, ok := tt.role.Next()
		assert.Equal(t, tt.ok, ok, "role %s", tt.role)
		assert.Equal(t, tt.next, next, "role %s", tt.role)
	}
}

func TestRequestStatusTerminal(t *testing.T) {
	assert.False(t, RequestPending.Terminal())
	assert.False(t, RequestProcessing.Terminal())
	assert.True(t, RequestApproved.Terminal())
	assert.True(t, RequestRejected.Terminal())

	assert.True(t, RequestPending.Outstanding())
	assert.True(t, RequestProcessing.Outstanding())
	assert.False(t, RequestApproved.Outstanding())
}

func TestUserKYCCompleteness(t *testing.T) {
	u := &User{}
	assert.False(t, u.HasProfileKYC())
	assert.False(t, u.HasPayoutDetails())

	u.Pancard = "ABCDE1234F"
	assert.True(t, u.HasProfileKYC())
	assert.False(t, u.HasPayoutDetails())

	u = &User{AccountNumber: "12345678901", IFSC: "HDFC0001234"}
	assert.True(t, u.HasProfileKYC())
	assert.False(t, u.HasPayoutDetails(), "UPI still missing")

	u.UPI = "someone@upi"
	assert.True(t, u.HasPayoutDetails())
}
