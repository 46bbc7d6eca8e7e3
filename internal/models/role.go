package models

// Role is a rung on the membership ladder. Members climb one tier at a
// time through the upgrade workflow; ADMIN is assigned, never earned.
type Role string

const (
	RoleMember        Role = "MEM"
	RoleDivision      Role = "DIV"
	RoleDistrict      Role = "DIST"
	RoleState         Role = "STAT"
	RoleBranchManager Role = "BM"
	RoleAdmin         Role = "ADMIN"
)

// ladder is the upgrade order. BM is the top earnable tier.
var ladder = []Role{RoleMember, RoleDivision, RoleDistrict, RoleState, RoleBranchManager}

// LadderHeight is the number of earnable tiers, which also bounds how
// far up the referral chain commission is distributed.
const LadderHeight = 5

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	if r == RoleAdmin {
		return true
	}
	for _, t := range ladder {
		if t == r {
			return true
		}
	}
	return false
}

// Next returns the tier above r. ok is false for the top tier and for
// roles outside the ladder.
func (r Role) Next() (Role, bool) {
	for i, t := range ladder {
		if t == r && i+1 < len(ladder) {
			return ladder[i+1], true
		}
	}
	return r, false
}

// UserStatus is an account's standing. Blocked users cannot log in.
type UserStatus string

const (
	UserStatusActive  UserStatus = "active"
	UserStatusBlocked UserStatus = "blocked"
)
