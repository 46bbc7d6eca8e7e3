package referral

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestInvalidateWithoutCacheIsNoOp(t *testing.T) {
	// Signup invalidates the referrer's count on every attribution; with
	// no cache configured that must be a silent no-op, not a panic.
	s := NewService(nil, nil)
	assert.NotPanics(t, func() {
		s.Invalidate(context.Background(), uuid.New())
	})
}

func TestCountKeyIsPerUser(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	assert.NotEqual(t, countKey(a), countKey(b))
	assert.Contains(t, countKey(a), a.String())
}
