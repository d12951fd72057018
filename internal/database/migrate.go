package database

import (
	"context"
	"fmt"
)

// schema is applied idempotently at startup. Production deployments run the
// same statements through their migration tooling; this keeps local and test
// databases usable without extra setup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS tours (
		id              TEXT PRIMARY KEY,
		title           TEXT NOT NULL,
		location        TEXT NOT NULL DEFAULT '',
		region          TEXT NOT NULL DEFAULT '',
		image_url       TEXT NOT NULL DEFAULT '',
		description     TEXT NOT NULL DEFAULT '',
		duration_label  TEXT NOT NULL DEFAULT '',
		rating          DOUBLE PRECISION NOT NULL DEFAULT 0,
		base_price      BIGINT NOT NULL DEFAULT 0 CHECK (base_price >= 0),
		is_featured     BOOLEAN NOT NULL DEFAULT FALSE,
		is_bestseller   BOOLEAN NOT NULL DEFAULT FALSE,
		sold_count      INTEGER NOT NULL DEFAULT 0,
		position        INTEGER NOT NULL DEFAULT 0,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS tour_itinerary (
		tour_id     TEXT NOT NULL REFERENCES tours(id) ON DELETE CASCADE,
		position    INTEGER NOT NULL,
		day_label   TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (tour_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS tour_departures (
		tour_id                 TEXT NOT NULL REFERENCES tours(id) ON DELETE CASCADE,
		position                INTEGER NOT NULL,
		month_label             TEXT NOT NULL,
		departure_dates         TEXT[] NOT NULL DEFAULT '{}',
		price_adult             BIGINT NOT NULL DEFAULT 0 CHECK (price_adult >= 0),
		price_child             BIGINT NOT NULL DEFAULT 0 CHECK (price_child >= 0),
		price_infant            BIGINT NOT NULL DEFAULT 0 CHECK (price_infant >= 0),
		price_single_supplement BIGINT NOT NULL DEFAULT 0 CHECK (price_single_supplement >= 0),
		promotion               TEXT NOT NULL DEFAULT '',
		family_note             TEXT NOT NULL DEFAULT '',
		flight_deal             TEXT NOT NULL DEFAULT '',
		notes                   TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (tour_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS addon_services (
		id       TEXT PRIMARY KEY,
		name     TEXT NOT NULL,
		price    BIGINT NOT NULL DEFAULT 0 CHECK (price >= 0),
		kind     TEXT NOT NULL CHECK (kind IN ('transport', 'flight')),
		position INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id                      UUID PRIMARY KEY,
		tour_id                 TEXT NOT NULL,
		tour_title              TEXT NOT NULL DEFAULT '',
		departure_month_label   TEXT NOT NULL,
		customer_name           TEXT NOT NULL,
		customer_email          TEXT NOT NULL,
		user_id                 TEXT,
		adults                  INTEGER NOT NULL CHECK (adults >= 1),
		children                INTEGER NOT NULL DEFAULT 0 CHECK (children >= 0),
		infants                 INTEGER NOT NULL DEFAULT 0 CHECK (infants >= 0),
		apply_single_supplement BOOLEAN NOT NULL DEFAULT FALSE,
		addon_ids               TEXT[] NOT NULL DEFAULT '{}',
		quote                   JSONB,
		total_amount            BIGINT NOT NULL DEFAULT 0,
		status                  TEXT NOT NULL DEFAULT 'pending',
		reference               TEXT,
		failure_reason          TEXT,
		workflow_id             TEXT,
		payment_deadline        TIMESTAMPTZ,
		created_at              TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at              TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_email ON bookings(customer_email)`,
}

// Migrate applies the schema.
func (r *Repository) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
