package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// Admin identity repository sentinels.
	ErrAdminNotFound      = errors.New("admin identity not found")
	ErrAdminAlreadyExists = errors.New("admin identity already exists")
	ErrLastSuperAdmin     = errors.New("transition would leave no approved super admin")
	ErrNoopTransition     = errors.New("transition is a no-op")
	ErrEmailNotVerified   = errors.New("admin email is not verified at the provider")

	// Allowlist repository sentinels.
	ErrAllowlistNotFound = errors.New("allowlist entry not found")

	// Session repository sentinels.
	ErrSessionNotFound = errors.New("admin session not found")

	// End-user repository sentinels.
	ErrEndUserNotFound = errors.New("end-user account not found")

	// Announcement repository sentinels.
	ErrAnnouncementNotFound = errors.New("announcement not found")
)
