package database

import (
	"context"
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS contacts (
	id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name         TEXT NOT NULL,
	email        TEXT UNIQUE NOT NULL,
	phone        TEXT NOT NULL DEFAULT '',
	company      TEXT NOT NULL DEFAULT '',
	tags         TEXT NOT NULL DEFAULT '',
	notes        TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	last_contact TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS deals (
	id             UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	contact_id     UUID NOT NULL REFERENCES contacts(id),
	title          TEXT NOT NULL,
	value          BIGINT NOT NULL DEFAULT 0,
	stage          TEXT NOT NULL DEFAULT 'lead',
	probability    DOUBLE PRECISION NOT NULL DEFAULT 0.1,
	expected_close DATE,
	notes          TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at     TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS interactions (
	id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	contact_id  UUID NOT NULL REFERENCES contacts(id),
	deal_id     UUID REFERENCES deals(id),
	type        TEXT NOT NULL,
	notes       TEXT NOT NULL DEFAULT '',
	outcome     TEXT NOT NULL DEFAULT '',
	occurred_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS company_mappings (
	id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	raw_pattern     TEXT NOT NULL,
	canonical_name  TEXT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_deals_contact  ON deals(contact_id);
CREATE INDEX IF NOT EXISTS idx_deals_stage    ON deals(stage);
CREATE INDEX IF NOT EXISTS idx_inter_contact  ON interactions(contact_id);
CREATE INDEX IF NOT EXISTS idx_inter_occurred ON interactions(occurred_at);
`

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}

	return nil
}
