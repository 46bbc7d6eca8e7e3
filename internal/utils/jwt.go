package utils

import (
	"errors"
	"os"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"

	"github.com/uplinehq/backend/internal/models"
)

// Claims represents the JWT claims
type Claims struct {
	UserID uuid.UUID   `json:"user_id"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	jwt.StandardClaims
}

const (
	// SessionTokenTTL is the token lifetime for a plain login.
	SessionTokenTTL = 24 * time.Hour
	// RememberTokenTTL is the lifetime when the user checked "remember me".
	RememberTokenTTL = 30 * 24 * time.Hour
)

// getJWTSecret returns the JWT secret from environment variable or a default for development
func getJWTSecret() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		// Default secret for development only
		return "upline_development_jwt_secret_key"
	}
	return secret
}

// TokenTTL returns the lifetime for a new token given the remember-me choice.
func TokenTTL(remember bool) time.Duration {
	if remember {
		return RememberTokenTTL
	}
	return SessionTokenTTL
}

// GenerateToken creates a signed token for the user. remember selects a
// 30-day expiry instead of the session-scoped default.
func GenerateToken(user *models.User, remember bool) (string, error) {
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(TokenTTL(remember)).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(getJWTSecret()))
}

// ValidateToken validates a JWT token and returns the claims
func ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(getJWTSecret()), nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("failed to parse token claims")
	}

	return claims, nil
}
