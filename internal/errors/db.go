package errors

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Patterns for pulling structure out of PgError.Detail.
var (
	// "Key (field)=(value) already exists."
	reKeyField = regexp.MustCompile(`Key \(([^)]+)\)=`)
	// "... is still referenced from table X" (deleting a parent row)
	reReferencedFrom = regexp.MustCompile(`is still referenced from table "?([^"]+)"?`)
	// "... is not present in table X" (child row pointing at a missing parent)
	reNotPresent = regexp.MustCompile(`is not present in table "?([^"]+)"?`)
)

// domainTableNames maps schema tables to the names shown in error messages.
// Tables not listed here fall back to a title-cased form of the table name.
var domainTableNames = map[string]string{
	"admin_identities":  "Admin Identity",
	"admin_allowlist":   "Allowlist Entry",
	"admin_sessions":    "Admin Session",
	"audit_log":         "Audit Entry",
	"end_user_accounts": "End-User Account",
	"announcements":     "Announcement",
}

// expressionIndexFunctions are SQL functions that show up as the middle
// segment of expression-index constraint names and must not be mistaken
// for column names.
var expressionIndexFunctions = map[string]bool{
	"lower": true, "upper": true, "trim": true, "ltrim": true, "rtrim": true,
	"md5": true, "sha1": true, "sha256": true, "encode": true, "decode": true,
}

// MapDBError converts storage-layer failures into AppError values the HTTP
// layer can render. Context expiry, missing rows, and the common Postgres
// constraint classes all get a stable code; anything unrecognised passes
// through unchanged.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &AppError{
			Code:    ErrCodeTimeout,
			Message: "Request timed out. Please try again.",
			Cause:   err,
		}
	case errors.Is(err, context.Canceled):
		return &AppError{
			Code:    ErrCodeCanceled,
			Message: "Request was canceled.",
			Cause:   err,
		}
	case errors.Is(err, pgx.ErrNoRows):
		return &AppError{
			Code:    ErrCodeNotFound,
			Message: "Resource not found",
			Cause:   err,
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return mapPgError(pgErr)
	}
	return err
}

func mapPgError(pgErr *pgconn.PgError) error {
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return conflictError(pgErr)
	case pgerrcode.ForeignKeyViolation:
		return &AppError{
			Code:    ErrCodeForeignKey,
			Message: foreignKeyMessage(pgErr),
			Cause:   pgErr,
		}
	case pgerrcode.CheckViolation:
		return fieldValidationError(pgErr,
			"This field has an invalid value.",
			"Invalid data. Please check your input.")
	case pgerrcode.NotNullViolation:
		return fieldValidationError(pgErr,
			"This field is required.",
			"Required field is missing. Please check your input.")
	case pgerrcode.UndefinedTable, pgerrcode.UndefinedColumn, pgerrcode.UndefinedFunction:
		// Missing schema objects mean the store is not deployed/migrated,
		// which operators must be able to tell apart from access denials.
		return &AppError{
			Code:    ErrCodeStoreUnavailable,
			Message: "Backing store schema is missing or out of date: " + pgErr.Message,
			Cause:   pgErr,
		}
	default:
		if pgerrcode.IsConnectionException(pgErr.Code) {
			return &AppError{
				Code:    ErrCodeStoreUnavailable,
				Message: "Backing store is unreachable: " + pgErr.Message,
				Cause:   pgErr,
			}
		}
		return &AppError{
			Code:    ErrCodeInternal,
			Message: "A database error occurred. Please try again.",
			Cause:   pgErr,
		}
	}
}

// conflictError builds the Conflict response for unique violations, naming
// the colliding field when Postgres gives us enough to identify it.
func conflictError(pgErr *pgconn.PgError) error {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: "This value already exists. Please choose a different one.",
		Field:   uniqueViolationField(pgErr),
		Cause:   pgErr,
	}
}

// uniqueViolationField resolves the colliding column. ColumnName metadata is
// authoritative; the Detail message covers multi-column keys; the constraint
// name is a last resort.
func uniqueViolationField(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	if pgErr.Detail != "" {
		if m := reKeyField.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
			return m[1]
		}
	}
	return inferFieldFromConstraint(pgErr.ConstraintName)
}

func foreignKeyMessage(pgErr *pgconn.PgError) string {
	if pgErr.Detail != "" {
		if m := reReferencedFrom.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
			return "Cannot delete because this item is in use by " + mapTableToDomain(m[1]) + "."
		}
		if m := reNotPresent.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
			return "Cannot complete operation because the referenced " + mapTableToDomain(m[1]) + " does not exist."
		}
	}
	if pgErr.TableName != "" {
		return "Cannot complete operation because this item is in use by " + mapTableToDomain(pgErr.TableName) + "."
	}
	return inferForeignKeyMessage(pgErr.ConstraintName)
}

// fieldValidationError renders a Validation error, with the column-specific
// wording when Postgres reports which column tripped the constraint.
func fieldValidationError(pgErr *pgconn.PgError, withField, withoutField string) error {
	if pgErr.ColumnName != "" {
		return &AppError{
			Code:    ErrCodeValidation,
			Message: withField,
			Field:   pgErr.ColumnName,
			Cause:   pgErr,
		}
	}
	return &AppError{
		Code:    ErrCodeValidation,
		Message: withoutField,
		Cause:   pgErr,
	}
}

// inferFieldFromConstraint guesses the column behind a constraint named in
// the usual table_column_suffix form ("announcements_title_key" yields
// "title"). Anything longer reads as multi-column or an expression index
// and yields nothing rather than a misleading field.
func inferFieldFromConstraint(constraintName string) string {
	parts := strings.Split(constraintName, "_")
	if len(parts) != 3 {
		return ""
	}
	if isFunctionName(parts[1]) {
		return ""
	}
	return parts[1]
}

// mapTableToDomain translates a schema table name into the label used in
// user-facing messages.
func mapTableToDomain(tableName string) string {
	tableName = strings.ToLower(strings.TrimSpace(tableName))
	if name, ok := domainTableNames[tableName]; ok {
		return name
	}
	return titleCaseWords(strings.ReplaceAll(tableName, "_", " "))
}

func titleCaseWords(s string) string {
	words := strings.Split(s, " ")
	for i, word := range words {
		if word != "" && word[0] >= 'a' && word[0] <= 'z' {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}

// inferForeignKeyMessage falls back to keyword matching on the constraint
// name when Postgres supplied neither Detail nor TableName.
func inferForeignKeyMessage(constraintName string) string {
	constraintName = strings.ToLower(constraintName)

	// Session before admin: "admin_sessions_subject_id_fkey" contains both.
	switch {
	case strings.Contains(constraintName, "session"):
		return "Cannot delete because it is referenced by an Admin Session."
	case strings.Contains(constraintName, "admin"):
		return "Cannot delete because it is referenced by an Admin Identity."
	case strings.Contains(constraintName, "announcement"):
		return "Cannot delete because it is referenced by an Announcement."
	}
	return "Cannot complete operation because this item is in use."
}

func isFunctionName(s string) bool {
	return expressionIndexFunctions[strings.ToLower(s)]
}
