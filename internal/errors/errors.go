package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeConflict indicates a conflict with existing data (e.g., unique constraint violation).
	ErrCodeConflict ErrorCode = "conflict"
	// ErrCodeValidation indicates invalid input data.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeForeignKey indicates a foreign key constraint violation.
	ErrCodeForeignKey ErrorCode = "foreign_key"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "internal"
	// ErrCodeTimeout indicates a timeout occurred.
	ErrCodeTimeout ErrorCode = "timeout"
	// ErrCodeCanceled indicates the operation was canceled.
	ErrCodeCanceled ErrorCode = "canceled"
)

// Access-control denial codes, ordered by check layer. Authentication codes
// come before authorization codes; the guard never reorders its checks.
const (
	// ErrCodeUnauthenticated indicates no valid credential was presented.
	ErrCodeUnauthenticated ErrorCode = "unauthenticated"
	// ErrCodeEmailUnverified indicates the caller is authenticated but the provider has not verified their email.
	ErrCodeEmailUnverified ErrorCode = "email_unverified"
	// ErrCodeNotRegisteredAdmin indicates the caller has no admin identity row.
	ErrCodeNotRegisteredAdmin ErrorCode = "not_registered_admin"
	// ErrCodePendingApproval indicates the caller's admin identity awaits approval.
	ErrCodePendingApproval ErrorCode = "pending_approval"
	// ErrCodeSuspended indicates the caller's admin identity is suspended.
	ErrCodeSuspended ErrorCode = "suspended"
	// ErrCodeInvalidStatus indicates the admin identity carries an unrecognized status.
	ErrCodeInvalidStatus ErrorCode = "invalid_status"
	// ErrCodeRoleMismatch indicates the caller's role does not satisfy the endpoint's requirement.
	ErrCodeRoleMismatch ErrorCode = "role_mismatch"
	// ErrCodeInvariantViolation indicates a transition would strand the system without an approved super admin.
	ErrCodeInvariantViolation ErrorCode = "invariant_violation"
	// ErrCodeStoreUnavailable indicates the backing store failed, including missing schema objects.
	// Distinct from denials so operators can tell "not deployed yet" from "access denied".
	ErrCodeStoreUnavailable ErrorCode = "store_unavailable"
)

// AppError represents a structured application error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field is the specific field that caused the error (optional, for validation errors)
	Field string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: message,
	}
}

// NotFoundf creates a new NotFound error with formatted message.
func NotFoundf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf(format, args...),
	}
}

// Conflict creates a new Conflict error.
func Conflict(message string) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: message,
	}
}

// Conflictf creates a new Conflict error with formatted message.
func Conflictf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: fmt.Sprintf(format, args...),
	}
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
	}
}

// Validationf creates a new Validation error with formatted message.
func Validationf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

// ValidationField creates a new Validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
		Field:   field,
	}
}

// ForeignKey creates a new ForeignKey error.
func ForeignKey(message string) *AppError {
	return &AppError{
		Code:    ErrCodeForeignKey,
		Message: message,
	}
}

// ForeignKeyf creates a new ForeignKey error with formatted message.
func ForeignKeyf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeForeignKey,
		Message: fmt.Sprintf(format, args...),
	}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
	}
}

// Internalf creates a new Internal error with formatted message.
func Internalf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
	}
}

// Unauthenticated creates a new Unauthenticated denial.
func Unauthenticated(message string) *AppError {
	return &AppError{
		Code:    ErrCodeUnauthenticated,
		Message: message,
	}
}

// EmailUnverified creates a new EmailUnverified denial.
func EmailUnverified(message string) *AppError {
	return &AppError{
		Code:    ErrCodeEmailUnverified,
		Message: message,
	}
}

// NotRegisteredAdmin creates a new NotRegisteredAdmin denial.
func NotRegisteredAdmin(message string) *AppError {
	return &AppError{
		Code:    ErrCodeNotRegisteredAdmin,
		Message: message,
	}
}

// PendingApproval creates a new PendingApproval denial.
func PendingApproval(message string) *AppError {
	return &AppError{
		Code:    ErrCodePendingApproval,
		Message: message,
	}
}

// Suspended creates a new Suspended denial.
func Suspended(message string) *AppError {
	return &AppError{
		Code:    ErrCodeSuspended,
		Message: message,
	}
}

// InvalidStatusf creates a new InvalidStatus denial with formatted message.
func InvalidStatusf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidStatus,
		Message: fmt.Sprintf(format, args...),
	}
}

// RoleMismatchf creates a new RoleMismatch denial with formatted message.
func RoleMismatchf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeRoleMismatch,
		Message: fmt.Sprintf(format, args...),
	}
}

// InvariantViolation creates a new InvariantViolation error.
func InvariantViolation(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInvariantViolation,
		Message: message,
	}
}

// StoreUnavailable wraps a persistence failure, preserving the underlying
// message for operator diagnosis.
func StoreUnavailable(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeStoreUnavailable,
		Message: message,
		Cause:   err,
	}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// MessageTemplate describes a lazily formatted error message used with Wrapf.
type MessageTemplate struct {
	format string
	args   []any
}

// Messagef creates a lazily formatted message template for Wrapf.
func Messagef(format string, args ...any) MessageTemplate {
	return MessageTemplate{
		format: format,
		args:   args,
	}
}

func (mt MessageTemplate) String() string {
	if len(mt.args) == 0 {
		return mt.format
	}
	return fmt.Sprintf(mt.format, mt.args...)
}

// WrapTemplate wraps an existing error with an AppError using a preconstructed message template.
func WrapTemplate(err error, code ErrorCode, template MessageTemplate) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: template.String(),
		Cause:   err,
	}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	return WrapTemplate(err, code, Messagef(format, args...))
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool {
	return isCode(err, ErrCodeNotFound)
}

// IsConflict checks if an error is a Conflict error.
func IsConflict(err error) bool {
	return isCode(err, ErrCodeConflict)
}

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool {
	return isCode(err, ErrCodeValidation)
}

// IsForeignKey checks if an error is a ForeignKey error.
func IsForeignKey(err error) bool {
	return isCode(err, ErrCodeForeignKey)
}

// IsInternal checks if an error is an Internal error.
func IsInternal(err error) bool {
	return isCode(err, ErrCodeInternal)
}

// IsTimeout checks if an error is a Timeout error.
func IsTimeout(err error) bool {
	return isCode(err, ErrCodeTimeout)
}

// IsCanceled checks if an error is a Canceled error.
func IsCanceled(err error) bool {
	return isCode(err, ErrCodeCanceled)
}

// IsUnauthenticated checks if an error is an Unauthenticated denial.
func IsUnauthenticated(err error) bool {
	return isCode(err, ErrCodeUnauthenticated)
}

// IsInvariantViolation checks if an error is an InvariantViolation error.
func IsInvariantViolation(err error) bool {
	return isCode(err, ErrCodeInvariantViolation)
}

// IsStoreUnavailable checks if an error is a StoreUnavailable error.
func IsStoreUnavailable(err error) bool {
	return isCode(err, ErrCodeStoreUnavailable)
}

// IsDenial reports whether the error is an access-control denial (as opposed
// to an infrastructure failure). Denials short-circuit at the guard and are
// the only errors surfaced to callers of privileged endpoints.
func IsDenial(err error) bool {
	switch GetCode(err) {
	case ErrCodeUnauthenticated, ErrCodeEmailUnverified, ErrCodeNotRegisteredAdmin,
		ErrCodePendingApproval, ErrCodeSuspended, ErrCodeInvalidStatus, ErrCodeRoleMismatch:
		return true
	default:
		return false
	}
}

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field from an error, or empty string if not an AppError or no field set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}
