// Package mocks provides mock implementations for testing the back office service.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our repository interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockAdminDirectoryRepository(ctrl)
//	mockRepo.EXPECT().GetBySubjectID(gomock.Any(), gomock.Any()).Return(admin, nil)
package mocks

// Generate mock for AdminDirectoryRepository interface from internal/core package.
// This creates MockAdminDirectoryRepository with methods for all AdminDirectoryRepository interface methods:
// Create, GetBySubjectID, GetByEmail, RefreshRegistration, List, ListEmails,
// CountTotal, CountByStatus, CountApprovedSuperAdmins, Approve, Suspend, ChangeRole, Delete
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=admin_directory_repository_mock.go github.com/chapelhq/backoffice-go/internal/core AdminDirectoryRepository

// Generate mock for AllowlistRepository interface from internal/core package.
// This creates MockAllowlistRepository with methods for all AllowlistRepository interface methods:
// Upsert, GetByEmail, MatchEmail, Delete, List
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=allowlist_repository_mock.go github.com/chapelhq/backoffice-go/internal/core AllowlistRepository

// Generate mock for SessionTrackerRepository interface from internal/core package.
// This creates MockSessionTrackerRepository with methods for all SessionTrackerRepository interface methods:
// Create, GetByID, End, ForceCloseAll, List, CountOpen
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=session_tracker_repository_mock.go github.com/chapelhq/backoffice-go/internal/core SessionTrackerRepository

// Generate mock for AuditLogRepository interface from internal/core package.
// This creates MockAuditLogRepository with methods for all AuditLogRepository interface methods:
// Insert, List, Count, Enabled, Mode
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=audit_log_repository_mock.go github.com/chapelhq/backoffice-go/internal/core AuditLogRepository

// Generate mock for EndUserRepository interface from internal/core package.
// This creates MockEndUserRepository with methods for all EndUserRepository interface methods:
// GetByEmail, Block
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=end_user_repository_mock.go github.com/chapelhq/backoffice-go/internal/core EndUserRepository

// Generate mock for AnnouncementRepository interface from internal/core package.
// This creates MockAnnouncementRepository with methods for all AnnouncementRepository interface methods:
// Create, GetByID, Update, Delete, List
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=announcement_repository_mock.go github.com/chapelhq/backoffice-go/internal/core AnnouncementRepository
