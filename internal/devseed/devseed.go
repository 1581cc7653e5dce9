// Package devseed populates a development database with a working admin
// directory: allowlist rules that let the dev identities register, an
// approved super admin to log in as, and a published announcement so the
// console renders something on first load.
package devseed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/chapelhq/backoffice-go/internal/data"
	"github.com/chapelhq/backoffice-go/internal/domain/model"
)

// SeedActor is the synthetic subject id recorded as the author of seeded rows.
const SeedActor = "dev|seed"

// Services bundles the repositories needed for development seeding.
type Services struct {
	DB            *sql.DB
	directory     *data.AdminIdentityRepo
	allowlist     *data.AllowlistRepo
	announcements *data.AnnouncementRepo
}

// NewServices constructs the repositories for seeding using the provided DB.
func NewServices(db *sql.DB) Services {
	return Services{
		DB:            db,
		directory:     data.NewAdminIdentityRepo(db, data.AdminRepoConfig{}),
		allowlist:     data.NewAllowlistRepo(db),
		announcements: data.NewAnnouncementRepo(db),
	}
}

// Run executes the full development seeding workflow against the provided DB.
// Each seeder tolerates rows that already exist, so re-running is safe.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) error {
	failures := 0
	failures += seedAllowlist(ctx, svcs.allowlist, logger)
	failures += seedAdmins(ctx, svcs.directory, logger)
	failures += seedAnnouncements(ctx, svcs.announcements, logger)
	if failures > 0 {
		return fmt.Errorf("%d seed errors; check logs", failures)
	}
	return nil
}

func defaultAllowlistSeeds() []*model.UpsertAllowlistRequest {
	return []*model.UpsertAllowlistRequest{
		{Email: "dev-admin@chapel.example", Note: "Dev super admin (seeded)"},
		{Email: "ops-editor@chapel.example", Note: "Dev ops editor (seeded)"},
		{Email: "@chapel.example", Note: "Staff addresses may self-register (seeded)"},
	}
}

func seedAllowlist(ctx context.Context, repo *data.AllowlistRepo, logger *slog.Logger) int {
	failures := 0
	for _, req := range defaultAllowlistSeeds() {
		entry, err := repo.Upsert(ctx, req, SeedActor)
		if err != nil {
			failures++
			if logger != nil {
				logger.ErrorContext(ctx, "failed to seed allowlist entry", "email", req.Email, "error", err)
			}
			continue
		}
		if logger != nil {
			logger.InfoContext(ctx, "seeded allowlist entry", "email", entry.Email)
		}
	}
	return failures
}

func defaultAdminSeeds() []*model.CreateAdminRequest {
	return []*model.CreateAdminRequest{
		{
			SubjectID:     "dev|local-admin",
			Email:         "dev-admin@chapel.example",
			FullName:      "Dev Admin",
			EmailVerified: true,
			Role:          model.RoleSuperAdmin,
			Status:        model.StatusApproved,
		},
		{
			SubjectID:     "dev|ops-editor",
			Email:         "ops-editor@chapel.example",
			FullName:      "Ops Editor",
			EmailVerified: true,
			// Left pending on purpose so the approval flow has a target.
		},
	}
}

func seedAdmins(ctx context.Context, repo *data.AdminIdentityRepo, logger *slog.Logger) int {
	failures := 0
	for _, req := range defaultAdminSeeds() {
		created, identity, err := createAdmin(ctx, repo, req)
		if err != nil {
			failures++
			if logger != nil {
				logger.ErrorContext(ctx, "failed to seed admin identity", "subject_id", req.SubjectID, "error", err)
			}
			continue
		}
		if logger != nil {
			msg := "admin identity already exists"
			if created {
				msg = "seeded admin identity"
			}
			logger.InfoContext(ctx, msg,
				"subject_id", req.SubjectID,
				"role", identity.Role,
				"status", identity.Status,
			)
		}
	}
	return failures
}

func createAdmin(
	ctx context.Context,
	repo *data.AdminIdentityRepo,
	req *model.CreateAdminRequest,
) (bool, *model.AdminIdentity, error) {
	identity, err := repo.Create(ctx, req)
	if err == nil {
		return true, identity, nil
	}
	if !errors.Is(err, data.ErrAdminAlreadyExists) {
		return false, nil, err
	}
	existing, getErr := repo.GetBySubjectID(ctx, req.SubjectID)
	if getErr != nil {
		return false, nil, getErr
	}
	return false, existing, nil
}

func defaultAnnouncementSeeds() []*model.CreateAnnouncementRequest {
	return []*model.CreateAnnouncementRequest{
		{
			Title:     "Welcome to the back office",
			Body:      "Use the Admins tab to approve pending registrations. Content changes are audited.",
			Published: true,
		},
	}
}

func seedAnnouncements(ctx context.Context, repo *data.AnnouncementRepo, logger *slog.Logger) int {
	failures := 0
	for _, req := range defaultAnnouncementSeeds() {
		created, err := createAnnouncementOnce(ctx, repo, req)
		if err != nil {
			failures++
			if logger != nil {
				logger.ErrorContext(ctx, "failed to seed announcement", "title", req.Title, "error", err)
			}
			continue
		}
		if logger != nil {
			msg := "announcement already exists"
			if created {
				msg = "seeded announcement"
			}
			logger.InfoContext(ctx, msg, "title", req.Title)
		}
	}
	return failures
}

// createAnnouncementOnce creates the announcement unless one with the same
// title already exists. Announcements have no natural key, so the title check
// is what keeps repeated seeding from piling up duplicates.
func createAnnouncementOnce(
	ctx context.Context,
	repo *data.AnnouncementRepo,
	req *model.CreateAnnouncementRequest,
) (bool, error) {
	search := req.Title
	existing, err := repo.List(ctx, model.AnnouncementListOptions{Search: &search, Limit: 1})
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}
	if _, err := repo.Create(ctx, req, SeedActor); err != nil {
		return false, err
	}
	return true, nil
}
