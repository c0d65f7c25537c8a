package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the carrier store schema. The DDL is valid for both Postgres
// and SQLite.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createCarriersQuery := `
	CREATE TABLE IF NOT EXISTS carriers (
		carrier_id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		mc_number TEXT,
		dot_number TEXT,
		tms_carrier_code TEXT,
		email TEXT,
		phone TEXT,
		equipment_types TEXT,
		service_areas TEXT,
		home_city TEXT,
		home_state TEXT,
		home_postal_code TEXT,
		insurance_expiry TIMESTAMP,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		venture_id INTEGER
	);
	`

	createLoadsQuery := `
	CREATE TABLE IF NOT EXISTS loads (
		load_id INTEGER PRIMARY KEY,
		carrier_id INTEGER NOT NULL REFERENCES carriers(carrier_id),
		pickup_postal_code TEXT NOT NULL DEFAULT '',
		pickup_state TEXT NOT NULL DEFAULT '',
		drop_postal_code TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		scheduled_drop_at TIMESTAMP,
		actual_delivery_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL,
		venture_id INTEGER
	);
	`

	createCarrierActiveIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_carriers_active
	ON carriers(active, carrier_id);
	`

	createLoadStatusIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_loads_carrier_status
	ON loads(carrier_id, status);
	`

	createLoadCreatedIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_loads_carrier_created
	ON loads(carrier_id, created_at);
	`

	statements := []string{
		createCarriersQuery,
		createLoadsQuery,
		createCarrierActiveIndexQuery,
		createLoadStatusIndexQuery,
		createLoadCreatedIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
