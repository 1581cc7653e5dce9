package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/chapelhq/backoffice-go/internal/data/pgxutil"
	"github.com/chapelhq/backoffice-go/internal/domain/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AnnouncementRepo provides database operations for announcements.
type AnnouncementRepo struct {
	DB *sql.DB
}

// NewAnnouncementRepo creates a new announcement repository.
func NewAnnouncementRepo(db *sql.DB) *AnnouncementRepo {
	return &AnnouncementRepo{DB: db}
}

const announcementColumns = `id, title, body, published, created_by, updated_by, created_at, updated_at`

// Create creates a new announcement attributed to the acting admin.
func (r *AnnouncementRepo) Create(
	ctx context.Context,
	req *model.CreateAnnouncementRequest,
	actorSubjectID string,
) (*model.Announcement, error) {
	if req == nil {
		return nil, errors.New("create announcement request is required")
	}
	if strings.TrimSpace(actorSubjectID) == "" {
		return nil, errors.New("actor subject_id is required")
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var announcement model.Announcement
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		query := `
			INSERT INTO announcements (id, title, body, published, created_by, updated_by)
			VALUES ($1, $2, $3, $4, $5, $5)
			RETURNING ` + announcementColumns

		rows, err := conn.Query(ctx, query,
			uuid.NewString(), req.Title, req.Body, req.Published, actorSubjectID)
		if err != nil {
			return err
		}
		defer rows.Close()

		announcement, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Announcement])
		return err
	})
	if err != nil {
		return nil, err
	}

	return &announcement, nil
}

// GetByID retrieves an announcement by ID.
func (r *AnnouncementRepo) GetByID(ctx context.Context, id string) (*model.Announcement, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("id is required")
	}

	var announcement model.Announcement
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		query := `SELECT ` + announcementColumns + ` FROM announcements WHERE id = $1`
		rows, err := conn.Query(ctx, query, id)
		if err != nil {
			return err
		}
		defer rows.Close()

		announcement, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Announcement])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAnnouncementNotFound
		}
		return nil, err
	}

	return &announcement, nil
}

// Update applies a partial update and stamps the acting admin.
func (r *AnnouncementRepo) Update(
	ctx context.Context,
	id string,
	req model.UpdateAnnouncementRequest,
	actorSubjectID string,
) (*model.Announcement, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("id is required")
	}
	if strings.TrimSpace(actorSubjectID) == "" {
		return nil, errors.New("actor subject_id is required")
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Build dynamic update query
	setParts := []string{"updated_at = NOW()"}
	args := []any{}
	argIndex := 1

	if req.Title != nil {
		setParts = append(setParts, fmt.Sprintf("title = $%d", argIndex))
		args = append(args, *req.Title)
		argIndex++
	}
	if req.Body != nil {
		setParts = append(setParts, fmt.Sprintf("body = $%d", argIndex))
		args = append(args, *req.Body)
		argIndex++
	}
	if req.Published != nil {
		setParts = append(setParts, fmt.Sprintf("published = $%d", argIndex))
		args = append(args, *req.Published)
		argIndex++
	}

	setParts = append(setParts, fmt.Sprintf("updated_by = $%d", argIndex))
	args = append(args, actorSubjectID)
	argIndex++

	// Add ID as the last parameter
	args = append(args, id)

	var announcement model.Announcement
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		query := fmt.Sprintf(`
			UPDATE announcements
			SET %s
			WHERE id = $%d
			RETURNING `+announcementColumns,
			strings.Join(setParts, ", "), argIndex)

		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		announcement, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Announcement])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAnnouncementNotFound
		}
		return nil, err
	}

	return &announcement, nil
}

// Delete removes an announcement and returns its final image.
func (r *AnnouncementRepo) Delete(ctx context.Context, id string) (*model.Announcement, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("id is required")
	}

	var announcement model.Announcement
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		query := `DELETE FROM announcements WHERE id = $1 RETURNING ` + announcementColumns
		rows, err := conn.Query(ctx, query, id)
		if err != nil {
			return err
		}
		defer rows.Close()

		announcement, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Announcement])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAnnouncementNotFound
		}
		return nil, err
	}

	return &announcement, nil
}

// List returns announcements with filtering options, newest first.
func (r *AnnouncementRepo) List(
	ctx context.Context,
	opts model.AnnouncementListOptions,
) ([]*model.Announcement, error) {
	conditions := []string{}
	args := []any{}
	argIndex := 1

	if opts.Published != nil {
		conditions = append(conditions, fmt.Sprintf("published = $%d", argIndex))
		args = append(args, *opts.Published)
		argIndex++
	}

	if opts.Search != nil && strings.TrimSpace(*opts.Search) != "" {
		conditions = append(conditions, fmt.Sprintf("title ILIKE $%d", argIndex))
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
		FROM announcements
		%s
		ORDER BY created_at DESC
		%s`,
		announcementColumns, whereClause, limitClause)

	var announcements []*model.Announcement
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		results, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Announcement])
		if err != nil {
			return err
		}

		announcements = make([]*model.Announcement, len(results))
		for i := range results {
			announcements[i] = &results[i]
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return announcements, nil
}
