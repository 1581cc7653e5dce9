package data

import (
	"context"
	"database/sql"

	"github.com/chapelhq/backoffice-go/internal/migrate"
)

// RunMigrations brings the schema up to date. The migrate package owns the
// embedded SQL files and the version bookkeeping.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrate.Run(ctx, db)
}
