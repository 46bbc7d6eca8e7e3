package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/uplinehq/backend/internal/models"
)

var (
	// ErrClientNotFound means no client matches the search or id.
	ErrClientNotFound = errors.New("client not found")
	// ErrNotEligible means neither KYC nor a completed trade qualifies
	// the client for claiming.
	ErrNotEligible = errors.New("client is not eligible: complete KYC or a trade first")
	// ErrAlreadyClaimed means this phone number already owns the client.
	ErrAlreadyClaimed = errors.New("you have already claimed this client")
	// ErrSessionClosed means claiming is outside the session window.
	ErrSessionClosed = errors.New("claiming session is closed right now")
	// ErrDailyLimitReached means the user exhausted today's claim quota.
	ErrDailyLimitReached = errors.New("daily claim limit reached")
	// ErrNoSession means no claim session has been configured yet.
	ErrNoSession = errors.New("no claiming session configured")
)

// ValidateClaim is the pure eligibility check run before any write:
// session window open, client qualified, number not already an owner,
// claimant under quota.
func ValidateClaim(session *models.ClaimSession, c *models.Client, u *models.User, now time.Time) error {
	if session == nil || !session.Open(now) {
		return ErrSessionClosed
	}
	if !c.Claimable() {
		return ErrNotEligible
	}
	if c.OwnedBy(u.Phone) {
		return ErrAlreadyClaimed
	}
	if u.ClaimsToday >= u.Limit {
		return ErrDailyLimitReached
	}
	return nil
}

// Service owns client records and the claiming workflow.
type Service struct {
	db *gorm.DB
}

// NewService creates a new client service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// List returns a page of clients with their owners.
func (s *Service) List(ctx context.Context, page, pageSize int) ([]models.Client, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Client{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var clients []models.Client
	err := s.db.WithContext(ctx).Preload("Owners").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&clients).Error
	if err != nil {
		return nil, 0, fmt.Errorf("error listing clients: %w", err)
	}
	return clients, total, nil
}

// Search finds a client by portal and phone number.
func (s *Service) Search(ctx context.Context, portalName, phone string) (*models.Client, error) {
	var client models.Client
	err := s.db.WithContext(ctx).Preload("Owners").
		Where("portal_name = ? AND phone = ?", portalName, phone).
		First(&client).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error searching client: %w", err)
	}
	return &client, nil
}

// Get loads one client with owners.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	var client models.Client
	err := s.db.WithContext(ctx).Preload("Owners").First(&client, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// Create registers a client captured by the funnel or an import.
func (s *Service) Create(ctx context.Context, c *models.Client) error {
	return s.db.WithContext(ctx).Create(c).Error
}

// UpdateInput is the admin-editable subset of a client.
type UpdateInput struct {
	Name        *string             `json:"name"`
	EKYCStage   *models.EKYCStage   `json:"ekyc_stage"`
	TradeStatus *models.TradeStatus `json:"trade_status"`
}

// Update applies the provided fields to a client. is_approved is never
// touched here; only the commission distributor flips it.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*models.Client, error) {
	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.EKYCStage != nil {
		updates["ekyc_stage"] = *in.EKYCStage
	}
	if in.TradeStatus != nil {
		updates["trade_status"] = *in.TradeStatus
	}

	if len(updates) > 0 {
		res := s.db.WithContext(ctx).Model(&models.Client{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrClientNotFound
		}
	}
	return s.Get(ctx, id)
}

// nextPosition returns the append position for a new owner. Positions
// may have gaps if an owner row was removed, so take max+1 rather than
// counting.
func nextPosition(owners []models.ClientOwner) int {
	next := 0
	for _, o := range owners {
		if o.Position >= next {
			next = o.Position + 1
		}
	}
	return next
}

// Claim registers the user as an earner-of-record on the client. The
// client row is locked for the transaction so concurrent claims append
// sequential positions, with the unique index on (client_id, number) as
// the final backstop.
func (s *Service) Claim(ctx context.Context, clientID uuid.UUID, userID uuid.UUID) (*models.Client, error) {
	now := time.Now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session, err := s.activeSession(tx)
		if err != nil {
			return err
		}

		var client models.Client
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Owners").First(&client, "id = ?", clientID).Error
		if err == gorm.ErrRecordNotFound {
			return ErrClientNotFound
		}
		if err != nil {
			return err
		}

		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return err
		}

		if err := ValidateClaim(session, &client, &user, now); err != nil {
			return err
		}

		owner := models.ClientOwner{
			ClientID: client.ID,
			Name:     user.Name,
			Number:   user.Phone,
			Position: nextPosition(client.Owners),
		}
		if err := tx.Create(&owner).Error; err != nil {
			return err
		}

		return tx.Model(&user).
			Update("claims_today", gorm.Expr("claims_today + 1")).Error
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, clientID)
}

// ActiveSession returns the current claim window, or ErrNoSession.
func (s *Service) ActiveSession(ctx context.Context) (*models.ClaimSession, error) {
	return s.activeSession(s.db.WithContext(ctx))
}

func (s *Service) activeSession(db *gorm.DB) (*models.ClaimSession, error) {
	var session models.ClaimSession
	err := db.Order("created_at DESC").First(&session).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// SetSession replaces the claim window.
func (s *Service) SetSession(ctx context.Context, startAt, endAt time.Time) (*models.ClaimSession, error) {
	if !endAt.After(startAt) {
		return nil, errors.New("session end must be after start")
	}
	session := models.ClaimSession{StartAt: startAt, EndAt: endAt}
	if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}
