package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/chapelhq/backoffice-go/internal/data/pgxutil"
	"github.com/chapelhq/backoffice-go/internal/domain/model"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// AdminRepoConfig holds configuration options for the admin identity repository.
type AdminRepoConfig struct {
	Logger       *slog.Logger
	TimeProvider TimeProvider
}

// AdminIdentityRepo provides database operations for admin identity rows,
// including the transactional role/status transitions.
type AdminIdentityRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
	logger       *slog.Logger
}

// NewAdminIdentityRepo creates a new AdminIdentityRepo instance with the given
// database connection and configuration.
func NewAdminIdentityRepo(db *sql.DB, cfg AdminRepoConfig) *AdminIdentityRepo {
	tp := cfg.TimeProvider
	if tp == nil {
		tp = &RealTimeProvider{}
	}

	return &AdminIdentityRepo{
		DB:           db,
		timeProvider: tp,
		logger:       cfg.Logger,
	}
}

const adminIdentityColumns = `subject_id, email, full_name, role, status, email_verified, approved_at, approved_by, created_at, updated_at`

// Create inserts a new admin identity row. A subject that already has a row
// maps to ErrAdminAlreadyExists so registration races settle on the key.
func (r *AdminIdentityRepo) Create(ctx context.Context, req *model.CreateAdminRequest) (*model.AdminIdentity, error) {
	if req == nil {
		return nil, errors.New("create admin request is required")
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var identity model.AdminIdentity
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		query := `
			INSERT INTO admin_identities (subject_id, email, full_name, role, status, email_verified)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING ` + adminIdentityColumns

		rows, err := conn.Query(ctx, query,
			req.SubjectID, req.Email, req.FullName,
			req.Role, req.Status, req.EmailVerified)
		if err != nil {
			return err
		}
		defer rows.Close()

		identity, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.AdminIdentity])
		return err
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, ErrAdminAlreadyExists
		}
		return nil, err
	}

	return &identity, nil
}

// GetBySubjectID retrieves an admin identity by its provider-owned subject id.
func (r *AdminIdentityRepo) GetBySubjectID(ctx context.Context, subjectID string) (*model.AdminIdentity, error) {
	if strings.TrimSpace(subjectID) == "" {
		return nil, errors.New("subject_id is required")
	}

	var identity model.AdminIdentity
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		query := `SELECT ` + adminIdentityColumns + ` FROM admin_identities WHERE subject_id = $1`
		rows, err := conn.Query(ctx, query, subjectID)
		if err != nil {
			return err
		}
		defer rows.Close()

		identity, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.AdminIdentity])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}

	return &identity, nil
}

// GetByEmail retrieves an admin identity by normalized email.
func (r *AdminIdentityRepo) GetByEmail(ctx context.Context, email string) (*model.AdminIdentity, error) {
	email = model.NormalizeEmail(email)
	if email == "" {
		return nil, errors.New("email is required")
	}

	var identity model.AdminIdentity
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		query := `SELECT ` + adminIdentityColumns + ` FROM admin_identities WHERE lower(email) = $1`
		rows, err := conn.Query(ctx, query, email)
		if err != nil {
			return err
		}
		defer rows.Close()

		identity, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.AdminIdentity])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}

	return &identity, nil
}

// RefreshRegistration updates the mutable registration fields of a
// still-pending identity. Re-registering never changes role or status.
func (r *AdminIdentityRepo) RefreshRegistration(
	ctx context.Context,
	subjectID, fullName string,
	emailVerified bool,
) (*model.AdminIdentity, error) {
	if strings.TrimSpace(subjectID) == "" {
		return nil, errors.New("subject_id is required")
	}

	var identity model.AdminIdentity
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		query := `
			UPDATE admin_identities
			SET full_name = $2, email_verified = $3, updated_at = NOW()
			WHERE subject_id = $1 AND status = 'pending_approval'
			RETURNING ` + adminIdentityColumns

		rows, err := conn.Query(ctx, query, subjectID, strings.TrimSpace(fullName), emailVerified)
		if err != nil {
			return err
		}
		defer rows.Close()

		identity, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.AdminIdentity])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}

	return &identity, nil
}

// List returns admin identities with filtering options.
//
//nolint:funlen // dynamic filtering + pagination branching; acceptable complexity
func (r *AdminIdentityRepo) List(
	ctx context.Context,
	opts model.AdminListOptions,
) ([]*model.AdminIdentity, error) {
	conditions := []string{}
	args := []any{}
	argIndex := 1

	if opts.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, *opts.Status)
		argIndex++
	}

	if opts.Role != nil {
		conditions = append(conditions, fmt.Sprintf("role = $%d", argIndex))
		args = append(args, *opts.Role)
		argIndex++
	}

	if opts.Search != nil && strings.TrimSpace(*opts.Search) != "" {
		conditions = append(conditions,
			fmt.Sprintf("(email ILIKE $%d OR full_name ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+strings.TrimSpace(*opts.Search)+"%")
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	orderClause := "ORDER BY created_at ASC, subject_id ASC"
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
		FROM admin_identities
		%s
		%s
		%s`,
		adminIdentityColumns, whereClause, orderClause, limitClause)

	var identities []*model.AdminIdentity
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		results, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.AdminIdentity])
		if err != nil {
			return err
		}

		identities = make([]*model.AdminIdentity, len(results))
		for i := range results {
			identities[i] = &results[i]
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return identities, nil
}

// ListEmails returns every admin email in deterministic order; the
// exclusivity sweep iterates this set.
func (r *AdminIdentityRepo) ListEmails(ctx context.Context) ([]string, error) {
	var emails []string
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT lower(email) FROM admin_identities ORDER BY lower(email)`)
		if err != nil {
			return err
		}
		defer rows.Close()

		emails, err = pgx.CollectRows(rows, pgx.RowTo[string])
		return err
	})
	if err != nil {
		return nil, err
	}

	return emails, nil
}

// CountTotal returns the number of admin identity rows.
func (r *AdminIdentityRepo) CountTotal(ctx context.Context) (int, error) {
	return r.countWhere(ctx, "", nil)
}

// CountByStatus returns the number of rows in the given lifecycle status.
func (r *AdminIdentityRepo) CountByStatus(ctx context.Context, status model.AdminStatus) (int, error) {
	if !status.Valid() {
		return 0, fmt.Errorf("invalid admin status %q", status)
	}
	return r.countWhere(ctx, "WHERE status = $1", []any{status})
}

// CountApprovedSuperAdmins returns the current quorum size.
func (r *AdminIdentityRepo) CountApprovedSuperAdmins(ctx context.Context) (int, error) {
	return r.countWhere(ctx, "WHERE role = 'super_admin' AND status = 'approved'", nil)
}

func (r *AdminIdentityRepo) countWhere(ctx context.Context, whereClause string, args []any) (int, error) {
	var count int
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		query := `SELECT COUNT(*) FROM admin_identities ` + whereClause
		row := conn.QueryRow(ctx, query, args...)
		return row.Scan(&count)
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// SeedSuperAdmin inserts or upgrades an identity straight to an approved
// super admin. This is the bootstrap path for a fresh deployment; every
// other route to the approved state goes through the transition service.
func (r *AdminIdentityRepo) SeedSuperAdmin(
	ctx context.Context,
	subjectID, email, fullName string,
) (*model.AdminIdentity, error) {
	subjectID = strings.TrimSpace(subjectID)
	email = model.NormalizeEmail(email)
	if subjectID == "" {
		return nil, errors.New("subject_id is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.New("a valid email is required")
	}

	var identity model.AdminIdentity
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		query := `
			INSERT INTO admin_identities
				(subject_id, email, full_name, role, status, email_verified, approved_at, approved_by)
			VALUES ($1, $2, $3, 'super_admin', 'approved', TRUE, $4, 'seed')
			ON CONFLICT (subject_id) DO UPDATE SET
				role = 'super_admin',
				status = 'approved',
				email_verified = TRUE,
				approved_at = EXCLUDED.approved_at,
				approved_by = 'seed',
				updated_at = NOW()
			RETURNING ` + adminIdentityColumns

		rows, err := conn.Query(ctx, query, subjectID, email, strings.TrimSpace(fullName), r.timeProvider.Now().UTC())
		if err != nil {
			return err
		}
		defer rows.Close()

		identity, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.AdminIdentity])
		return err
	})
	if err != nil {
		return nil, err
	}

	if r.logger != nil {
		r.logger.InfoContext(ctx, "seeded super admin",
			"subject_id", identity.SubjectID, "email", identity.Email)
	}

	return &identity, nil
}
