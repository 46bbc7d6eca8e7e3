package referral

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/uplinehq/backend/internal/models"
)

// countCacheTTL bounds how stale a cached referral count may be. Flows
// that gate money or limits must use FreshCount instead.
const countCacheTTL = 2 * time.Minute

// Service resolves referral counts and upline chains.
type Service struct {
	db    *gorm.DB
	cache *redis.Client
}

// NewService creates a new referral service. cache may be nil, in which
// case every lookup hits the database.
func NewService(db *gorm.DB, cache *redis.Client) *Service {
	return &Service{db: db, cache: cache}
}

// Count returns the user's direct referral count, served from cache when
// a recent value exists.
func (s *Service) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	if s.cache != nil {
		if val, err := s.cache.Get(ctx, countKey(userID)).Result(); err == nil {
			if n, err := strconv.ParseInt(val, 10, 64); err == nil {
				return n, nil
			}
		}
	}

	count, err := s.FreshCount(ctx, userID)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, countKey(userID), strconv.FormatInt(count, 10), countCacheTTL)
	}
	return count, nil
}

// FreshCount returns the direct referral count straight from the
// database, bypassing the cache.
func (s *Service) FreshCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("referred_by = ?", userID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("error counting referrals: %w", err)
	}
	return count, nil
}

// Upline walks the referred_by chain starting from the user's referrer,
// returning at most maxDepth ancestors, nearest first. The walk stops at
// the first missing or blocked ancestor.
func (s *Service) Upline(ctx context.Context, user *models.User, maxDepth int) ([]models.User, error) {
	chain := make([]models.User, 0, maxDepth)
	next := user.ReferredBy
	seen := map[uuid.UUID]bool{user.ID: true}

	for depth := 0; depth < maxDepth && next != nil; depth++ {
		if seen[*next] {
			// A cycle in referred_by would loop forever; stop at it.
			break
		}
		seen[*next] = true

		var ancestor models.User
		err := s.db.WithContext(ctx).First(&ancestor, "id = ?", *next).Error
		if err == gorm.ErrRecordNotFound {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error resolving upline: %w", err)
		}
		if ancestor.Blocked() {
			break
		}

		chain = append(chain, ancestor)
		next = ancestor.ReferredBy
	}

	return chain, nil
}

// Invalidate drops the cached count for a user, called when a new signup
// attributes itself to them.
func (s *Service) Invalidate(ctx context.Context, userID uuid.UUID) {
	if s.cache != nil {
		s.cache.Del(ctx, countKey(userID))
	}
}

func countKey(userID uuid.UUID) string {
	return "referral:count:" + userID.String()
}
