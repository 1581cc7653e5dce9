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
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrAuditLogDisabled is returned by Insert when the audit_log table was
// absent at startup and the writer is disabled.
var ErrAuditLogDisabled = errors.New("audit log writer is disabled: audit_log table is missing")

// auditWriterMode selects the single insert shape for this process lifetime.
type auditWriterMode int

const (
	auditWriterUnknown auditWriterMode = iota
	auditWriterFull
	auditWriterLegacy // Schema predates the request_metadata column
	auditWriterDisabled
)

func (m auditWriterMode) String() string {
	switch m {
	case auditWriterFull:
		return "full"
	case auditWriterLegacy:
		return "legacy"
	case auditWriterDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// AuditLogRepo provides append-only database operations for audit entries.
// ProbeSchema must run once during startup, before any concurrent use; it
// decides which of the writer shapes the process will use.
type AuditLogRepo struct {
	DB     *sql.DB
	logger *slog.Logger
	mode   auditWriterMode
}

// NewAuditLogRepo creates a new audit log repository.
func NewAuditLogRepo(db *sql.DB, logger *slog.Logger) *AuditLogRepo {
	return &AuditLogRepo{DB: db, logger: logger}
}

const auditFullColumns = `id, action, table_name, record_id, actor_subject_id, old_snapshot, new_snapshot, field_diff, request_metadata, occurred_at`
const auditLegacyColumns = `id, action, table_name, record_id, actor_subject_id, old_snapshot, new_snapshot, field_diff, occurred_at`

// ProbeSchema inspects the deployed audit_log columns and pins the writer
// mode for the rest of the process lifetime. A missing table disables the
// writer entirely; that is an operator problem worth a loud log line, not a
// reason to fail requests.
func (r *AuditLogRepo) ProbeSchema(ctx context.Context) error {
	var columns []string
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT column_name
			FROM information_schema.columns
			WHERE table_schema = ANY (current_schemas(false))
			  AND table_name = 'audit_log'`)
		if err != nil {
			return err
		}
		defer rows.Close()

		columns, err = pgx.CollectRows(rows, pgx.RowTo[string])
		return err
	})
	if err != nil {
		return fmt.Errorf("probe audit_log schema: %w", err)
	}

	switch {
	case len(columns) == 0:
		r.mode = auditWriterDisabled
		if r.logger != nil {
			r.logger.ErrorContext(ctx,
				"audit_log table not found; audit writes are DISABLED until the schema is migrated")
		}
	case containsColumn(columns, "request_metadata"):
		r.mode = auditWriterFull
	default:
		r.mode = auditWriterLegacy
		if r.logger != nil {
			r.logger.WarnContext(ctx,
				"audit_log schema predates request_metadata; writing legacy entries without it")
		}
	}

	if r.logger != nil {
		r.logger.InfoContext(ctx, "audit writer selected", "mode", r.mode.String())
	}

	return nil
}

// Mode reports the writer mode selected by ProbeSchema.
func (r *AuditLogRepo) Mode() string {
	return r.mode.String()
}

// Enabled reports whether Insert will persist entries.
func (r *AuditLogRepo) Enabled() bool {
	return r.mode == auditWriterFull || r.mode == auditWriterLegacy
}

// Insert appends one audit entry using the writer mode pinned at startup.
func (r *AuditLogRepo) Insert(ctx context.Context, entry *model.AuditEntry) (*model.AuditEntry, error) {
	if entry == nil {
		return nil, errors.New("audit entry is required")
	}
	if strings.TrimSpace(entry.Action) == "" {
		return nil, errors.New("audit action is required")
	}
	if strings.TrimSpace(entry.ActorSubjectID) == "" {
		return nil, errors.New("audit actor subject_id is required")
	}

	switch r.mode {
	case auditWriterFull:
		return r.insertFull(ctx, entry)
	case auditWriterLegacy:
		return r.insertLegacy(ctx, entry)
	case auditWriterDisabled:
		return nil, ErrAuditLogDisabled
	default:
		return nil, errors.New("audit schema has not been probed")
	}
}

func (r *AuditLogRepo) insertFull(ctx context.Context, entry *model.AuditEntry) (*model.AuditEntry, error) {
	var inserted model.AuditEntry
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		query := `
			INSERT INTO audit_log
				(id, action, table_name, record_id, actor_subject_id,
				 old_snapshot, new_snapshot, field_diff, request_metadata, occurred_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, COALESCE($10, NOW()))
			RETURNING ` + auditFullColumns

		rows, err := conn.Query(ctx, query,
			entryID(entry), entry.Action, entry.TableName, entry.RecordID, entry.ActorSubjectID,
			rawOrNil(entry.OldSnapshot), rawOrNil(entry.NewSnapshot), diffOrEmpty(entry.FieldDiff),
			rawOrNil(entry.RequestMetadata), occurredAtOrNil(entry))
		if err != nil {
			return err
		}
		defer rows.Close()

		inserted, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.AuditEntry])
		return err
	})
	if err != nil {
		return nil, err
	}

	return &inserted, nil
}

func (r *AuditLogRepo) insertLegacy(ctx context.Context, entry *model.AuditEntry) (*model.AuditEntry, error) {
	var inserted model.AuditEntry
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		query := `
			INSERT INTO audit_log
				(id, action, table_name, record_id, actor_subject_id,
				 old_snapshot, new_snapshot, field_diff, occurred_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, NOW()))
			RETURNING ` + auditLegacyColumns + `, NULL::jsonb AS request_metadata`

		rows, err := conn.Query(ctx, query,
			entryID(entry), entry.Action, entry.TableName, entry.RecordID, entry.ActorSubjectID,
			rawOrNil(entry.OldSnapshot), rawOrNil(entry.NewSnapshot), diffOrEmpty(entry.FieldDiff),
			occurredAtOrNil(entry))
		if err != nil {
			return err
		}
		defer rows.Close()

		inserted, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.AuditEntry])
		return err
	})
	if err != nil {
		return nil, err
	}

	return &inserted, nil
}

// List returns audit entries matching the SQL-side filters, newest first.
// The JMESPath expression filter is applied by the service layer.
//
//nolint:funlen // dynamic filtering + pagination branching; acceptable complexity
func (r *AuditLogRepo) List(ctx context.Context, opts model.AuditListOptions) ([]*model.AuditEntry, error) {
	if r.mode == auditWriterDisabled {
		return nil, ErrAuditLogDisabled
	}

	selectColumns := auditFullColumns
	if r.mode == auditWriterLegacy {
		selectColumns = auditLegacyColumns + `, NULL::jsonb AS request_metadata`
	}

	conditions := []string{}
	args := []any{}
	argIndex := 1

	if opts.TableName != nil {
		conditions = append(conditions, fmt.Sprintf("table_name = $%d", argIndex))
		args = append(args, *opts.TableName)
		argIndex++
	}
	if opts.Action != nil {
		conditions = append(conditions, fmt.Sprintf("action = $%d", argIndex))
		args = append(args, *opts.Action)
		argIndex++
	}
	if opts.Actor != nil {
		conditions = append(conditions, fmt.Sprintf("actor_subject_id = $%d", argIndex))
		args = append(args, *opts.Actor)
		argIndex++
	}
	if opts.RecordID != nil {
		conditions = append(conditions, fmt.Sprintf("record_id = $%d", argIndex))
		args = append(args, *opts.RecordID)
		argIndex++
	}
	if opts.From != nil {
		conditions = append(conditions, fmt.Sprintf("occurred_at >= $%d", argIndex))
		args = append(args, *opts.From)
		argIndex++
	}
	if opts.To != nil {
		conditions = append(conditions, fmt.Sprintf("occurred_at <= $%d", argIndex))
		args = append(args, *opts.To)
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
		FROM audit_log
		%s
		ORDER BY occurred_at DESC, id DESC
		%s`,
		selectColumns, whereClause, limitClause)

	var entries []*model.AuditEntry
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		results, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.AuditEntry])
		if err != nil {
			return err
		}

		entries = make([]*model.AuditEntry, len(results))
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

// Count returns the number of audit entries, for the disabled-writer health
// surface and tests.
func (r *AuditLogRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		row := conn.QueryRow(ctx, `SELECT COUNT(*) FROM audit_log`)
		return row.Scan(&count)
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func containsColumn(columns []string, name string) bool {
	for _, c := range columns {
		if strings.EqualFold(c, name) {
			return true
		}
	}
	return false
}

func entryID(entry *model.AuditEntry) string {
	if strings.TrimSpace(entry.ID) != "" {
		return entry.ID
	}
	return uuid.NewString()
}

// rawOrNil maps an empty snapshot to SQL NULL.
func rawOrNil(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return raw
}

// diffOrEmpty maps an absent diff to the empty JSON object; field_diff is
// NOT NULL by contract.
func diffOrEmpty(raw []byte) []byte {
	if len(raw) == 0 {
		return []byte(`{}`)
	}
	return raw
}

func occurredAtOrNil(entry *model.AuditEntry) any {
	if entry.OccurredAt.IsZero() {
		return nil
	}
	return entry.OccurredAt.UTC()
}
