package errors

import (
	goerrors "errors"
	"reflect"
	"strings"

	apperrors "github.com/chapelhq/backoffice-go/internal/errors"
)

// Classify returns a normalized error type name suitable for tagging metrics/logs.
// Application errors classify to their taxonomy code (conflict, store_unavailable,
// and so on); anything else unwraps to the innermost concrete type and converts
// it to snake_case-ish.
func Classify(err error) string {
	if err == nil {
		return ""
	}

	// The taxonomy code is a cardinality-bounded tag; a type name is not.
	if code := apperrors.GetCode(err); code != "" {
		return string(code)
	}

	// Unwrap to the innermost error for better signal.
	for {
		unwrapped := goerrors.Unwrap(err)
		if unwrapped == nil {
			break
		}
		err = unwrapped
	}

	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}

	name := strings.ToLower(strings.ReplaceAll(t.String(), "*", ""))
	name = strings.ReplaceAll(name, ".", "_")
	if name == "" {
		return "unknown"
	}
	return name
}
