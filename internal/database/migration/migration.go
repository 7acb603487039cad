package migration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// SentinelTable is the table whose presence marks the schema as migrated.
const SentinelTable = "dashboard_documents"

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_dashboard_documents",
		SQL: `CREATE TABLE IF NOT EXISTS dashboard_documents (
  position      BIGSERIAL   NOT NULL UNIQUE,
  id            TEXT        PRIMARY KEY,
  name          TEXT        NOT NULL,
  type          TEXT        NOT NULL,
  summary       TEXT        NOT NULL DEFAULT '',
  uploaded_date TIMESTAMPTZ NOT NULL,
  last_viewed   TIMESTAMPTZ NULL,
  file_url      TEXT        NOT NULL DEFAULT '',
  CONSTRAINT dashboard_documents_viewed_after_upload CHECK (last_viewed IS NULL OR last_viewed >= uploaded_date)
);`,
	},
	{
		Name: "create_index_dashboard_documents_type",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_dashboard_documents_type ON dashboard_documents (type);`,
	},
	{
		Name: "create_index_dashboard_documents_uploaded_date",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_dashboard_documents_uploaded_date ON dashboard_documents (uploaded_date DESC);`,
	},
	{
		Name: "create_index_dashboard_documents_last_viewed",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_dashboard_documents_last_viewed ON dashboard_documents (last_viewed DESC) WHERE last_viewed IS NOT NULL;`,
	},
}

// EnsureMigrated creates the document table and its indexes unless the sentinel table already exists.
// Every step is logged as a structured event on log.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *slog.Logger, dbHost string) error {
	start := time.Now()
	log = log.With("component", "database", "db_host", dbHost)

	log.InfoContext(ctx, "db_migration_check", "status", "starting")

	var exists bool
	query := "SELECT to_regclass('public." + SentinelTable + "') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.ErrorContext(ctx, "db_migration_failed",
			"status", "error",
			"error_message", fmt.Sprintf("failed to check sentinel table: %v", err),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.InfoContext(ctx, "db_migration_skip",
			"status", "success",
			"reason", "schema already exists",
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}

	log.InfoContext(ctx, "db_migration_start", "status", "in_progress", "steps", len(steps))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.ErrorContext(ctx, "db_migration_failed",
				"status", "error",
				"migration_step", step.Name,
				"error_message", err.Error(),
				"duration_ms", time.Since(start).Milliseconds(),
				"step_duration_ms", time.Since(stepStart).Milliseconds(),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.InfoContext(ctx, "db_migration_step",
			"status", "success",
			"migration_step", step.Name,
			"step_duration_ms", time.Since(stepStart).Milliseconds(),
		)
	}

	log.InfoContext(ctx, "db_migration_success",
		"status", "success",
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
