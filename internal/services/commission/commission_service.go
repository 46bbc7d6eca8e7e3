package commission

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/uplinehq/backend/internal/config"
	"github.com/uplinehq/backend/internal/models"
	"github.com/uplinehq/backend/internal/queue"
	"github.com/uplinehq/backend/internal/services/referral"
	"github.com/uplinehq/backend/internal/utils"
)

var (
	// ErrClientNotFound means the client id resolves to nothing.
	ErrClientNotFound = errors.New("client not found")
	// ErrCommissionNotFound means the client's portal has no usable
	// commission configured. Nothing is mutated when this is returned.
	ErrCommissionNotFound = errors.New("no commission configured for this portal")
	// ErrAlreadyDistributed means commission for this client was already
	// disbursed. The conditional update below makes this safe under
	// concurrent admin sessions.
	ErrAlreadyDistributed = errors.New("commission already distributed for this client")
)

// Recipient is one computed credit before it becomes a ledger row.
type Recipient struct {
	UserID uuid.UUID
	Level  int
	Amount float64
}

// ChainRecipients computes who gets what for one earner: the earner
// receives the full commission (level 0), each upline ancestor receives
// share of it, nearest ancestor first. Amounts are rounded to paise.
func ChainRecipients(earner *models.User, upline []models.User, amount, share float64) []Recipient {
	recipients := make([]Recipient, 0, len(upline)+1)
	recipients = append(recipients, Recipient{UserID: earner.ID, Level: 0, Amount: roundMoney(amount)})

	cut := roundMoney(amount * share)
	if cut <= 0 {
		return recipients
	}
	for i := range upline {
		recipients = append(recipients, Recipient{UserID: upline[i].ID, Level: i + 1, Amount: cut})
	}
	return recipients
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// approvalGate rejects clients whose commission was already disbursed.
// Distribute re-checks with a conditional update; this is the cheap exit
// before any chain resolution happens.
func approvalGate(c *models.Client) error {
	if c.IsApproved {
		return ErrAlreadyDistributed
	}
	return nil
}

// approvalOutcome interprets the conditional is_approved flip: zero rows
// means another distribution won the race and nothing must be written.
func approvalOutcome(rowsAffected int64) error {
	if rowsAffected == 0 {
		return ErrAlreadyDistributed
	}
	return nil
}

// Result summarises a distribution for the admin response.
type Result struct {
	ClientID   uuid.UUID `json:"client_id"`
	PortalName string    `json:"portal_name"`
	Commission float64   `json:"commission"`
	Payouts    int       `json:"payouts"`
}

// Service disburses portal commission along the referral chain.
type Service struct {
	db        *gorm.DB
	queue     *queue.Queue
	referrals *referral.Service
	cfg       config.CommissionConfig
}

// NewService creates a new commission service.
func NewService(db *gorm.DB, q *queue.Queue, referrals *referral.Service, cfg config.CommissionConfig) *Service {
	return &Service{db: db, queue: q, referrals: referrals, cfg: cfg}
}

// PortalCommission resolves the commission amount configured for a
// portal name. A missing or non-positive amount is ErrCommissionNotFound.
func (s *Service) PortalCommission(ctx context.Context, portalName string) (float64, error) {
	var portal models.Portal
	err := s.db.WithContext(ctx).Where("name = ? AND active = ?", portalName, true).First(&portal).Error
	if err == gorm.ErrRecordNotFound {
		return 0, ErrCommissionNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("error resolving portal: %w", err)
	}
	if portal.Commission <= 0 {
		return 0, ErrCommissionNotFound
	}
	return portal.Commission, nil
}

// Distribute runs the full flow for one client: resolve the commission,
// flip is_approved exactly once, write the payout ledger and enqueue the
// crediting jobs — ledger, flag and jobs commit or roll back together.
func (s *Service) Distribute(ctx context.Context, clientID uuid.UUID) (*Result, error) {
	var client models.Client
	err := s.db.WithContext(ctx).Preload("Owners").First(&client, "id = ?", clientID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error loading client: %w", err)
	}
	if err := approvalGate(&client); err != nil {
		return nil, err
	}

	amount, err := s.PortalCommission(ctx, client.PortalName)
	if err != nil {
		return nil, err
	}

	recipients, err := s.resolveRecipients(ctx, &client, amount)
	if err != nil {
		return nil, err
	}

	result := &Result{ClientID: client.ID, PortalName: client.PortalName, Commission: amount}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Compare-and-set: only the first distribution flips the flag.
		res := tx.Model(&models.Client{}).
			Where("id = ? AND is_approved = ?", client.ID, false).
			Update("is_approved", true)
		if res.Error != nil {
			return res.Error
		}
		if err := approvalOutcome(res.RowsAffected); err != nil {
			return err
		}

		for _, r := range recipients {
			payout := models.CommissionPayout{
				ClientID:  client.ID,
				UserID:    r.UserID,
				Level:     r.Level,
				Amount:    r.Amount,
				Reference: utils.GenerateReference("com"),
				Status:    models.PayoutPending,
			}
			if err := tx.Create(&payout).Error; err != nil {
				return err
			}
			if _, err := s.queue.EnqueueTx(tx, queue.JobTypeCommissionPayout, map[string]string{
				"payout_id": payout.ID.String(),
			}); err != nil {
				return err
			}
			result.Payouts++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// resolveRecipients maps the client's owners to users and extends each
// with their upline chain.
func (s *Service) resolveRecipients(ctx context.Context, client *models.Client, amount float64) ([]Recipient, error) {
	var recipients []Recipient
	for _, owner := range client.Owners {
		var earner models.User
		err := s.db.WithContext(ctx).First(&earner, "phone = ?", owner.Number).Error
		if err == gorm.ErrRecordNotFound {
			// Owner was recorded manually and has no account; skip.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("error resolving owner %s: %w", owner.Number, err)
		}

		upline, err := s.referrals.Upline(ctx, &earner, s.cfg.MaxDepth)
		if err != nil {
			return nil, err
		}
		recipients = append(recipients, ChainRecipients(&earner, upline, amount, s.cfg.UplineShare)...)
	}
	return recipients, nil
}
