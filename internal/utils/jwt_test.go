package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uplinehq/backend/internal/models"
)

func TestGenerateAndValidateToken(t *testing.T) {
	user := &models.User{
		Base:  models.Base{ID: uuid.New()},
		Email: "leader@example.com",
		Role:  models.RoleDistrict,
	}

	token, err := GenerateToken(user, false)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, models.RoleDistrict, claims.Role)
}

func TestTokenTTLRememberMe(t *testing.T) {
	assert.Equal(t, SessionTokenTTL, TokenTTL(false))
	assert.Equal(t, RememberTokenTTL, TokenTTL(true))

	user := &models.User{Base: models.Base{ID: uuid.New()}, Email: "a@b.c", Role: models.RoleMember}
	token, err := GenerateToken(user, true)
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	expiry := time.Unix(claims.ExpiresAt, 0)
	assert.WithinDuration(t, time.Now().Add(RememberTokenTTL), expiry, time.Minute)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestGenerateReferenceFormat(t *testing.T) {
	ref := GenerateReference("com")
	parts := strings.Split(ref, "_")
	require.Len(t, parts, 3)
	assert.Equal(t, "COM", parts[0])
	assert.Len(t, parts[2], 8)

	assert.NotEqual(t, GenerateReference("com"), GenerateReference("com"))
}

func TestGenerateJoinID(t *testing.T) {
	id := GenerateJoinID()
	assert.True(t, strings.HasPrefix(id, "UP"))
	assert.Len(t, id, 10)
}
