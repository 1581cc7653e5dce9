package data

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/chapelhq/backoffice-go/internal/data/pgxutil"
	"github.com/chapelhq/backoffice-go/internal/domain/model"
	"github.com/jackc/pgx/v5"
)

// EndUserRepo reads and blocks end-user account rows. The back office does
// not own this table; the exclusivity enforcer is its only writer here.
type EndUserRepo struct {
	DB *sql.DB
}

// NewEndUserRepo creates a new end-user account repository.
func NewEndUserRepo(db *sql.DB) *EndUserRepo {
	return &EndUserRepo{DB: db}
}

const endUserColumns = `id, email, account_status, verification_status, blocked_reason, created_at, updated_at`

// GetByEmail retrieves an end-user account by normalized email.
func (r *EndUserRepo) GetByEmail(ctx context.Context, email string) (*model.EndUserAccount, error) {
	email = model.NormalizeEmail(email)
	if email == "" {
		return nil, errors.New("email is required")
	}

	var account model.EndUserAccount
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		query := `SELECT ` + endUserColumns + ` FROM end_user_accounts WHERE lower(email) = $1`
		rows, err := conn.Query(ctx, query, email)
		if err != nil {
			return err
		}
		defer rows.Close()

		account, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.EndUserAccount])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEndUserNotFound
		}
		return nil, err
	}

	return &account, nil
}

// Block moves an account to the blocked state with the given reason.
func (r *EndUserRepo) Block(ctx context.Context, id, reason string) (*model.EndUserAccount, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("id is required")
	}

	var account model.EndUserAccount
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		query := `
			UPDATE end_user_accounts
			SET account_status = 'banned',
			    verification_status = 'rejected',
			    blocked_reason = $2,
			    updated_at = NOW()
			WHERE id = $1
			RETURNING ` + endUserColumns

		rows, err := conn.Query(ctx, query, id, strings.TrimSpace(reason))
		if err != nil {
			return err
		}
		defer rows.Close()

		account, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.EndUserAccount])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEndUserNotFound
		}
		return nil, err
	}

	return &account, nil
}

// Create inserts an active, verified account. Only fixtures and the dev
// seeder use this; production end-user rows arrive from the member system.
func (r *EndUserRepo) Create(ctx context.Context, email string) (*model.EndUserAccount, error) {
	email = model.NormalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.New("a valid email is required")
	}

	var account model.EndUserAccount
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		query := `
			INSERT INTO end_user_accounts (email, account_status, verification_status)
			VALUES ($1, 'active', 'verified')
			RETURNING ` + endUserColumns

		rows, err := conn.Query(ctx, query, email)
		if err != nil {
			return err
		}
		defer rows.Close()

		account, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.EndUserAccount])
		return err
	})
	if err != nil {
		return nil, err
	}

	return &account, nil
}
