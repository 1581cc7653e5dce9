package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/chapelhq/backoffice-go/internal/data/pgxutil"
	"github.com/chapelhq/backoffice-go/internal/domain/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AdminSessionRepo provides database operations for tracked admin sessions.
type AdminSessionRepo struct {
	DB *sql.DB
}

// NewAdminSessionRepo creates a new admin session repository.
func NewAdminSessionRepo(db *sql.DB) *AdminSessionRepo {
	return &AdminSessionRepo{DB: db}
}

const adminSessionColumns = `id, subject_id, login_at, logout_at, client_ip, user_agent, headers`

// Create records a new login with its client metadata and returns the row.
func (r *AdminSessionRepo) Create(
	ctx context.Context,
	subjectID string,
	meta model.ClientMetadata,
) (*model.AdminSession, error) {
	if strings.TrimSpace(subjectID) == "" {
		return nil, errors.New("subject_id is required")
	}

	headers := meta.Headers
	if headers == nil {
		headers = map[string]string{}
	}
	headersJSON, err := json.Marshal(headers)
	if err != nil {
		return nil, fmt.Errorf("marshal session headers: %w", err)
	}

	var session model.AdminSession
	err = pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		query := `
			INSERT INTO admin_sessions (id, subject_id, client_ip, user_agent, headers)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING ` + adminSessionColumns

		rows, err := conn.Query(ctx, query,
			uuid.NewString(), subjectID, meta.IP, meta.UserAgent, headersJSON)
		if err != nil {
			return err
		}
		defer rows.Close()

		session, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.AdminSession])
		return err
	})
	if err != nil {
		return nil, err
	}

	return &session, nil
}

// GetByID retrieves a tracked session by id.
func (r *AdminSessionRepo) GetByID(ctx context.Context, id string) (*model.AdminSession, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("id is required")
	}

	var session model.AdminSession
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		query := `SELECT ` + adminSessionColumns + ` FROM admin_sessions WHERE id = $1`
		rows, err := conn.Query(ctx, query, id)
		if err != nil {
			return err
		}
		defer rows.Close()

		session, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.AdminSession])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	return &session, nil
}

// End closes a session, but only when the requesting subject owns it and it
// is still open. Ending an unowned or already-closed session is a silent
// no-op so the endpoint leaks nothing about other subjects' sessions.
func (r *AdminSessionRepo) End(ctx context.Context, sessionID, subjectID string) (bool, error) {
	if strings.TrimSpace(sessionID) == "" {
		return false, errors.New("session id is required")
	}
	if strings.TrimSpace(subjectID) == "" {
		return false, errors.New("subject_id is required")
	}

	var closed bool
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		result, err := conn.Exec(ctx, `
			UPDATE admin_sessions
			SET logout_at = NOW()
			WHERE id = $1 AND subject_id = $2 AND logout_at IS NULL`,
			sessionID, subjectID)
		if err != nil {
			return err
		}
		closed = result.RowsAffected() > 0
		return nil
	})
	if err != nil {
		return false, err
	}

	return closed, nil
}

// ForceCloseAll closes every open session for a subject and returns the
// number of rows closed. Used on suspend/delete and logout.
func (r *AdminSessionRepo) ForceCloseAll(ctx context.Context, subjectID string) (int, error) {
	if strings.TrimSpace(subjectID) == "" {
		return 0, errors.New("subject_id is required")
	}

	var closed int
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		result, err := conn.Exec(ctx, `
			UPDATE admin_sessions
			SET logout_at = NOW()
			WHERE subject_id = $1 AND logout_at IS NULL`,
			subjectID)
		if err != nil {
			return err
		}
		closed = int(result.RowsAffected())
		return nil
	})
	if err != nil {
		return 0, err
	}

	return closed, nil
}

// List returns tracked sessions for a subject, newest first.
func (r *AdminSessionRepo) List(
	ctx context.Context,
	opts model.SessionListOptions,
) ([]*model.AdminSession, error) {
	if strings.TrimSpace(opts.SubjectID) == "" {
		return nil, errors.New("subject_id is required")
	}

	conditions := []string{"subject_id = $1"}
	args := []any{opts.SubjectID}
	argIndex := 2

	if opts.OpenOnly {
		conditions = append(conditions, "logout_at IS NULL")
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
		FROM admin_sessions
		WHERE %s
		ORDER BY login_at DESC
		%s`,
		adminSessionColumns, strings.Join(conditions, " AND "), limitClause)

	var sessions []*model.AdminSession
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		results, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.AdminSession])
		if err != nil {
			return err
		}

		sessions = make([]*model.AdminSession, len(results))
		for i := range results {
			sessions[i] = &results[i]
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

// CountOpen returns the number of open sessions for a subject.
func (r *AdminSessionRepo) CountOpen(ctx context.Context, subjectID string) (int, error) {
	if strings.TrimSpace(subjectID) == "" {
		return 0, errors.New("subject_id is required")
	}

	var count int
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		row := conn.QueryRow(ctx,
			`SELECT COUNT(*) FROM admin_sessions WHERE subject_id = $1 AND logout_at IS NULL`,
			subjectID)
		return row.Scan(&count)
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}
