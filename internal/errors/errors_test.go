package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "message only",
			err: &AppError{
				Code:    ErrCodeNotFound,
				Message: "admin identity not found",
			},
			want: "admin identity not found",
		},
		{
			name: "message with cause",
			err: &AppError{
				Code:    ErrCodeInternal,
				Message: "approving admin",
				Cause:   errors.New("tx aborted"),
			},
			want: "approving admin: tx aborted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("AppError.Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("tx aborted")
	err := &AppError{Code: ErrCodeInternal, Message: "approving admin", Cause: cause}

	if unwrapped := err.Unwrap(); !errors.Is(unwrapped, cause) {
		t.Errorf("AppError.Unwrap() = %v, want %v", unwrapped, cause)
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantCode    ErrorCode
		wantMessage string
	}{
		{"not found", NotFound("admin identity not found"), ErrCodeNotFound, "admin identity not found"},
		{"not found formatted", NotFoundf("no session %q", "sess-1"), ErrCodeNotFound, `no session "sess-1"`},
		{"conflict", Conflict("email already registered"), ErrCodeConflict, "email already registered"},
		{"conflict formatted", Conflictf("subject %s already enrolled", "auth0|1"), ErrCodeConflict, "subject auth0|1 already enrolled"},
		{"validation", Validation("role is required"), ErrCodeValidation, "role is required"},
		{"validation formatted", Validationf("unknown role %q", "root"), ErrCodeValidation, `unknown role "root"`},
		{"foreign key", ForeignKey("identity is referenced by sessions"), ErrCodeForeignKey, "identity is referenced by sessions"},
		{"foreign key formatted", ForeignKeyf("%d sessions still reference this admin", 3), ErrCodeForeignKey, "3 sessions still reference this admin"},
		{"internal", Internal("audit write failed"), ErrCodeInternal, "audit write failed"},
		{"internal formatted", Internalf("unexpected status %q", "ghost"), ErrCodeInternal, `unexpected status "ghost"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %v, want %v", tt.err.Code, tt.wantCode)
			}
			if tt.err.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", tt.err.Message, tt.wantMessage)
			}
		})
	}
}

func TestValidationField(t *testing.T) {
	err := ValidationField("email", "invalid email format")
	if err.Code != ErrCodeValidation {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeValidation)
	}
	if err.Field != "email" {
		t.Errorf("Field = %q, want %q", err.Field, "email")
	}
	if err.Message != "invalid email format" {
		t.Errorf("Message = %q, want %q", err.Message, "invalid email format")
	}
}

func TestDenialConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want ErrorCode
	}{
		{name: "unauthenticated", err: Unauthenticated("sign in required"), want: ErrCodeUnauthenticated},
		{name: "email unverified", err: EmailUnverified("verify your email"), want: ErrCodeEmailUnverified},
		{name: "not registered", err: NotRegisteredAdmin("no admin identity"), want: ErrCodeNotRegisteredAdmin},
		{name: "pending approval", err: PendingApproval("awaiting approval"), want: ErrCodePendingApproval},
		{name: "suspended", err: Suspended("account suspended"), want: ErrCodeSuspended},
		{name: "invalid status", err: InvalidStatusf("unknown status %q", "ghost"), want: ErrCodeInvalidStatus},
		{name: "role mismatch", err: RoleMismatchf("requires %s", "super_admin"), want: ErrCodeRoleMismatch},
		{name: "invariant violation", err: InvariantViolation("last approved super admin"), want: ErrCodeInvariantViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.want {
				t.Errorf("Code = %v, want %v", tt.err.Code, tt.want)
			}
			if tt.err.Message == "" {
				t.Error("Message must not be empty")
			}
		})
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("pq: connection reset")
	err := Wrap(cause, ErrCodeInternal, "loading admin identity")

	if err.Code != ErrCodeInternal {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInternal)
	}
	if err.Message != "loading admin identity" {
		t.Errorf("Message = %q, want %q", err.Message, "loading admin identity")
	}
	if !errors.Is(err, cause) {
		t.Errorf("cause %v must survive unwrapping", cause)
	}
}

func TestWrapfFormatsMessage(t *testing.T) {
	cause := errors.New("no rows")
	err := Wrapf(cause, ErrCodeNotFound, "admin %q not registered", "auth0|42")

	if err.Code != ErrCodeNotFound {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNotFound)
	}
	if want := `admin "auth0|42" not registered`; err.Message != want {
		t.Errorf("Message = %q, want %q", err.Message, want)
	}
	if !errors.Is(err, cause) {
		t.Errorf("cause %v must survive unwrapping", cause)
	}
}

func TestWrapNilReturnsNil(t *testing.T) {
	if err := Wrap(nil, ErrCodeInternal, "ignored"); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
	if err := Wrapf(nil, ErrCodeInternal, "ignored %d", 1); err != nil {
		t.Errorf("Wrapf(nil) = %v, want nil", err)
	}
	if err := WrapTemplate(nil, ErrCodeInternal, Messagef("ignored")); err != nil {
		t.Errorf("WrapTemplate(nil) = %v, want nil", err)
	}
}

func TestMessageTemplate(t *testing.T) {
	// Without args the format string passes through untouched, so stray
	// percent signs stay intact.
	if got := Messagef("capacity at 100%").String(); got != "capacity at 100%" {
		t.Errorf("String() = %q, want %q", got, "capacity at 100%")
	}
	if got := Messagef("admin %s moved to %s", "auth0|1", "suspended").String(); got != "admin auth0|1 moved to suspended" {
		t.Errorf("String() = %q", got)
	}
}

func TestCodePredicates(t *testing.T) {
	plain := errors.New("plain failure")

	tests := []struct {
		name string
		pred func(error) bool
		err  error
		want bool
	}{
		{"not found matches", IsNotFound, NotFound("missing"), true},
		{"not found rejects other code", IsNotFound, Conflict("duplicate"), false},
		{"conflict matches", IsConflict, Conflict("duplicate"), true},
		{"conflict rejects other code", IsConflict, NotFound("missing"), false},
		{"validation matches", IsValidation, Validation("bad input"), true},
		{"validation matches field error", IsValidation, ValidationField("email", "malformed"), true},
		{"foreign key matches", IsForeignKey, ForeignKey("identity in use"), true},
		{"internal matches", IsInternal, Internal("audit write failed"), true},
		{"timeout matches", IsTimeout, &AppError{Code: ErrCodeTimeout, Message: "deadline"}, true},
		{"canceled matches", IsCanceled, &AppError{Code: ErrCodeCanceled, Message: "canceled"}, true},
		{"unauthenticated matches", IsUnauthenticated, Unauthenticated("sign in required"), true},
		{"invariant matches", IsInvariantViolation, InvariantViolation("quorum"), true},
		{"store unavailable matches", IsStoreUnavailable, StoreUnavailable(plain, "store down"), true},
		{"wrapped app error still matches", IsNotFound, fmt.Errorf("lookup: %w", NotFound("gone")), true},
		{"plain error never matches", IsInternal, plain, false},
		{"nil never matches", IsNotFound, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pred(tt.err); got != tt.want {
				t.Errorf("predicate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsDenial(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "unauthenticated is a denial", err: Unauthenticated("no"), want: true},
		{name: "pending approval is a denial", err: PendingApproval("wait"), want: true},
		{name: "role mismatch is a denial", err: RoleMismatchf("requires super_admin"), want: true},
		{name: "invariant violation is not a denial", err: InvariantViolation("quorum"), want: false},
		{name: "store unavailable is not a denial", err: StoreUnavailable(errors.New("down"), "store down"), want: false},
		{name: "conflict is not a denial", err: Conflict("no-op"), want: false},
		{name: "standard error", err: errors.New("boom"), want: false},
		{name: "nil error", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDenial(tt.err); got != tt.want {
				t.Errorf("IsDenial() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStoreUnavailable_PreservesCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := StoreUnavailable(cause, "store unreachable")

	if !IsStoreUnavailable(err) {
		t.Error("expected IsStoreUnavailable to be true")
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause to survive unwrapping for operator diagnosis")
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{name: "app error", err: NotFound("missing"), want: ErrCodeNotFound},
		{name: "wrapped app error", err: fmt.Errorf("lookup: %w", Suspended("locked")), want: ErrCodeSuspended},
		{name: "plain error", err: errors.New("boom"), want: ""},
		{name: "nil error", err: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetField(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "field validation error", err: ValidationField("email", "malformed"), want: "email"},
		{name: "error without field", err: NotFound("missing"), want: ""},
		{name: "plain error", err: errors.New("boom"), want: ""},
		{name: "nil error", err: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetField(tt.err); got != tt.want {
				t.Errorf("GetField() = %q, want %q", got, tt.want)
			}
		})
	}
}
