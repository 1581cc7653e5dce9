package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/chapelhq/backoffice-go/internal/data/pgxutil"
	"github.com/chapelhq/backoffice-go/internal/domain/model"
	"github.com/jackc/pgx/v5"
)

// AllowlistRepo provides database operations for the registration allowlist.
type AllowlistRepo struct {
	DB *sql.DB
}

// NewAllowlistRepo creates a new allowlist repository.
func NewAllowlistRepo(db *sql.DB) *AllowlistRepo {
	return &AllowlistRepo{DB: db}
}

const allowlistColumns = `email, note, added_by, created_at, updated_at`

// Upsert creates or refreshes an entry keyed by the normalized email.
func (r *AllowlistRepo) Upsert(
	ctx context.Context,
	req *model.UpsertAllowlistRequest,
	addedBy string,
) (*model.AllowlistEntry, error) {
	if req == nil {
		return nil, errors.New("upsert allowlist request is required")
	}
	if strings.TrimSpace(addedBy) == "" {
		return nil, errors.New("added_by subject_id is required")
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var entry model.AllowlistEntry
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		query := `
			INSERT INTO admin_allowlist (email, note, added_by)
			VALUES ($1, $2, $3)
			ON CONFLICT (email) DO UPDATE SET
				note = EXCLUDED.note,
				added_by = EXCLUDED.added_by,
				updated_at = NOW()
			RETURNING ` + allowlistColumns

		rows, err := conn.Query(ctx, query, req.Email, req.Note, strings.TrimSpace(addedBy))
		if err != nil {
			return err
		}
		defer rows.Close()

		entry, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.AllowlistEntry])
		return err
	})
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// GetByEmail retrieves the entry exactly matching the normalized email.
func (r *AllowlistRepo) GetByEmail(ctx context.Context, email string) (*model.AllowlistEntry, error) {
	email = model.NormalizeEmail(email)
	if email == "" {
		return nil, errors.New("email is required")
	}

	var entry model.AllowlistEntry
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		query := `SELECT ` + allowlistColumns + ` FROM admin_allowlist WHERE email = $1`
		rows, err := conn.Query(ctx, query, email)
		if err != nil {
			return err
		}
		defer rows.Close()

		entry, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.AllowlistEntry])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAllowlistNotFound
		}
		return nil, err
	}

	return &entry, nil
}

// MatchEmail finds the entry permitting the given address: the exact entry
// when present, otherwise the @domain rule covering it. Exact entries win.
func (r *AllowlistRepo) MatchEmail(ctx context.Context, email string) (*model.AllowlistEntry, error) {
	email = model.NormalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.New("a valid email is required")
	}

	domainRule := "@" + model.EmailDomain(email)

	var entry model.AllowlistEntry
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		query := `
			SELECT ` + allowlistColumns + `
			FROM admin_allowlist
			WHERE email = $1 OR email = $2
			ORDER BY (email = $1) DESC
			LIMIT 1`

		rows, err := conn.Query(ctx, query, email, domainRule)
		if err != nil {
			return err
		}
		defer rows.Close()

		entry, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.AllowlistEntry])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAllowlistNotFound
		}
		return nil, err
	}

	return &entry, nil
}

// Delete removes an entry by normalized email.
func (r *AllowlistRepo) Delete(ctx context.Context, email string) (*model.AllowlistEntry, error) {
	email = model.NormalizeEmail(email)
	if email == "" {
		return nil, errors.New("email is required")
	}

	var entry model.AllowlistEntry
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		query := `DELETE FROM admin_allowlist WHERE email = $1 RETURNING ` + allowlistColumns
		rows, err := conn.Query(ctx, query, email)
		if err != nil {
			return err
		}
		defer rows.Close()

		entry, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.AllowlistEntry])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAllowlistNotFound
		}
		return nil, err
	}

	return &entry, nil
}

// List returns allowlist entries with filtering options.
func (r *AllowlistRepo) List(
	ctx context.Context,
	opts model.AllowlistListOptions,
) ([]*model.AllowlistEntry, error) {
	conditions := []string{}
	args := []any{}
	argIndex := 1

	if opts.Search != nil && strings.TrimSpace(*opts.Search) != "" {
		conditions = append(conditions,
			fmt.Sprintf("(email ILIKE $%d OR note ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+strings.TrimSpace(*opts.Search)+"%")
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	limitClause := ""
	if opts.Limit > 0 {
		limitClause = fmt.Sprintf("LIMIT $%d", argIndex)
		args = append(args, opts.Limit)
		argIndex++

		if opts.Offset > 0 {
			limitClause += fmt.Sprintf(" OFFSET $%d", argIndex)
			args = append(args, opts.Offset)
		}
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM admin_allowlist
		%s
		ORDER BY email ASC
		%s`,
		allowlistColumns, whereClause, limitClause)

	var entries []*model.AllowlistEntry
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		results, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.AllowlistEntry])
		if err != nil {
			return err
		}

		entries = make([]*model.AllowlistEntry, len(results))
		for i := range results {
			entries[i] = &results[i]
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}
