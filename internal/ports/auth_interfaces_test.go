package ports_test

import (
	mocks "github.com/chapelhq/backoffice-go/internal/mocks/auth"
	"github.com/chapelhq/backoffice-go/internal/ports"
)

// Compile-time checks that the auth mocks stay in sync with the ports.
var (
	_ ports.AuthProvider = (*mocks.MockAuthProvider)(nil)
	_ ports.SessionStore = (*mocks.MemorySessionStore)(nil)
)
