package migrations

import (
	"log"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/uplinehq/backend/internal/models"
	"github.com/uplinehq/backend/internal/queue"
)

// Run runs all database migrations
func Run(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		initialSchema(),
		outstandingRequestIndexes(),
	})

	if err := m.Migrate(); err != nil {
		log.Printf("Could not migrate: %v", err)
		return err
	}
	log.Printf("Migrations ran successfully")
	return nil
}

// initialSchema creates every table from the GORM models.
func initialSchema() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000001_initial_schema",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(
				&models.User{},
				&models.Portal{},
				&models.Client{},
				&models.ClientOwner{},
				&models.Withdrawal{},
				&models.Extend{},
				&models.CommissionPayout{},
				&models.ClaimSession{},
				&models.LinkClick{},
				&models.Registration{},
				&models.Lead{},
				&models.Contact{},
				&queue.Job{},
			)
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(
				"jobs", "contacts", "leads", "registrations", "link_clicks",
				"claim_sessions", "commission_payouts", "extends", "withdrawals",
				"client_owners", "clients", "portals", "users",
			)
		},
	}
}

// outstandingRequestIndexes makes "at most one outstanding request per
// user per type" a database guarantee, not just a service precheck.
func outstandingRequestIndexes() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000002_outstanding_request_indexes",
		Migrate: func(tx *gorm.DB) error {
			return tx.Exec(`
				CREATE UNIQUE INDEX IF NOT EXISTS idx_withdrawals_outstanding
					ON withdrawals (user_id)
					WHERE status IN ('pending', 'processing') AND deleted_at IS NULL;

				CREATE UNIQUE INDEX IF NOT EXISTS idx_extends_outstanding
					ON extends (user_id)
					WHERE status IN ('pending', 'processing') AND deleted_at IS NULL;
			`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec(`
				DROP INDEX IF EXISTS idx_withdrawals_outstanding;
				DROP INDEX IF EXISTS idx_extends_outstanding;
			`).Error
		},
	}
}
