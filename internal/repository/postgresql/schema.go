package postgresql

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/workforce-guard/internal/pkg/database"
)

// schema is applied in order by Migrate. Every statement is idempotent.
var schema = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto`,

	`CREATE TABLE IF NOT EXISTS roles (
		id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name         TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL,
		is_system    BOOLEAN NOT NULL DEFAULT FALSE,
		permissions  JSONB NOT NULL DEFAULT '{}',
		page_access  JSONB NOT NULL DEFAULT '{}',
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS users (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		display_id TEXT NOT NULL UNIQUE,
		name       TEXT NOT NULL,
		role_id    UUID NOT NULL REFERENCES roles(id),
		company_id TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_company_id ON users (company_id)`,
	`CREATE INDEX IF NOT EXISTS idx_users_role_id ON users (role_id)`,

	`CREATE TABLE IF NOT EXISTS user_managers (
		user_id    UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		manager_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		PRIMARY KEY (user_id, manager_id),
		CHECK (user_id <> manager_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_user_managers_manager_id ON user_managers (manager_id)`,

	`CREATE TABLE IF NOT EXISTS display_id_sequences (
		company_key TEXT PRIMARY KEY,
		last_value  INTEGER NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS shifts (
		id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id     UUID NOT NULL REFERENCES users(id),
		date        DATE NOT NULL,
		start_time  TEXT NOT NULL,
		end_time    TEXT NOT NULL,
		status      TEXT NOT NULL,
		reviewed_by UUID REFERENCES users(id) ON DELETE SET NULL,
		reviewed_at TIMESTAMPTZ,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, date)
	)`,

	`CREATE TABLE IF NOT EXISTS shift_registration_locks (
		user_id     UUID NOT NULL REFERENCES users(id),
		year        INTEGER NOT NULL,
		month       INTEGER NOT NULL CHECK (month BETWEEN 1 AND 12),
		is_unlocked BOOLEAN NOT NULL DEFAULT FALSE,
		unlocked_by UUID REFERENCES users(id) ON DELETE SET NULL,
		unlocked_at TIMESTAMPTZ,
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (user_id, year, month)
	)`,

	`CREATE TABLE IF NOT EXISTS attendances (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id    UUID NOT NULL REFERENCES users(id),
		type       TEXT NOT NULL,
		date       DATE NOT NULL,
		clock_time TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, type, date)
	)`,

	`CREATE TABLE IF NOT EXISTS corrections (
		id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		attendance_id UUID NOT NULL REFERENCES attendances(id) ON DELETE CASCADE,
		old_time      TIMESTAMPTZ NOT NULL,
		new_time      TIMESTAMPTZ NOT NULL,
		reason        TEXT NOT NULL,
		comment       TEXT,
		status        TEXT NOT NULL,
		approved_by   UUID NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_corrections_attendance_id ON corrections (attendance_id)`,

	`CREATE TABLE IF NOT EXISTS expenses (
		id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id     UUID NOT NULL REFERENCES users(id),
		date        DATE NOT NULL,
		type        TEXT NOT NULL,
		amount      BIGINT NOT NULL CHECK (amount > 0),
		description TEXT,
		status      TEXT NOT NULL,
		reviewed_by UUID REFERENCES users(id) ON DELETE SET NULL,
		reviewed_at TIMESTAMPTZ,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_expenses_user_id_date ON expenses (user_id, date)`,

	`CREATE TABLE IF NOT EXISTS settings (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_by UUID,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate creates every table the repositories use.
func Migrate(ctx context.Context, db *database.DB) error {
	for i, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate statement %d: %w", i, err)
		}
	}
	slog.Info("database schema up to date", "statements", len(schema))
	return nil
}

// Tables lists the tables in dependency order, children first.
func Tables() []string {
	return []string{
		"settings",
		"expenses",
		"corrections",
		"attendances",
		"shift_registration_locks",
		"shifts",
		"display_id_sequences",
		"user_managers",
		"users",
		"roles",
	}
}
