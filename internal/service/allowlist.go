package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/chapelhq/backoffice-go/internal/core"
	"github.com/chapelhq/backoffice-go/internal/data"
	domainaudit "github.com/chapelhq/backoffice-go/internal/domain/audit"
	domainguard "github.com/chapelhq/backoffice-go/internal/domain/guard"
	"github.com/chapelhq/backoffice-go/internal/domain/model"
	apperrors "github.com/chapelhq/backoffice-go/internal/errors"
	"golang.org/x/net/publicsuffix"
)

// AllowlistServiceOptions contains configuration options for creating an AllowlistService.
type AllowlistServiceOptions struct {
	Repo   core.AllowlistRepository // Required: allowlist data operations
	Logger *slog.Logger             // Optional: defaults to slog.Default()
}

// AllowlistService manages which emails may self-register as admins. Entries
// are exact addresses or "@domain" rules; every write is capability-attributed
// and audited.
type AllowlistService struct {
	repo   core.AllowlistRepository
	logger *slog.Logger
}

// NewAllowlistService creates a new AllowlistService with the given options.
func NewAllowlistService(opts AllowlistServiceOptions) *AllowlistService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &AllowlistService{
		repo:   opts.Repo,
		logger: logger,
	}
}

// Upsert creates or refreshes an entry keyed by the normalized email. A
// domain rule must name a registrable domain: "@example.org" is fine, while
// "@co.uk" or "@github.io" would open registration to anyone who can sign up
// under the suffix.
func (s *AllowlistService) Upsert(
	ctx context.Context,
	actor domainguard.Capability,
	req *model.UpsertAllowlistRequest,
) (*model.AllowlistEntry, error) {
	if req == nil {
		req = &model.UpsertAllowlistRequest{}
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if req.IsDomainRule() {
		domain := strings.TrimPrefix(req.Email, "@")
		if _, err := publicsuffix.EffectiveTLDPlusOne(domain); err != nil {
			return nil, apperrors.ValidationField("email",
				fmt.Sprintf("Domain rule %q must name a registrable domain, not a public suffix.", req.Email))
		}
	}

	existing, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, data.ErrAllowlistNotFound) {
		return nil, fmt.Errorf("look up allowlist entry: %w", apperrors.MapDBError(err))
	}

	entry, err := s.repo.Upsert(ctx, req, actor.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("upsert allowlist entry: %w", apperrors.MapDBError(err))
	}

	actor.Record(ctx, domainaudit.Entry{
		Action:    model.ActionUpsertAllow,
		TableName: "admin_allowlist",
		RecordID:  entry.Email,
		Old:       existing.Snapshot(),
		New:       entry.Snapshot(),
	})
	s.logger.Info("upserted allowlist entry",
		"email", entry.Email,
		"actor", actor.SubjectID)
	return entry, nil
}

// Delete removes an entry and returns its final image.
func (s *AllowlistService) Delete(
	ctx context.Context,
	actor domainguard.Capability,
	email string,
) (*model.AllowlistEntry, error) {
	normalized := model.NormalizeEmail(email)
	if normalized == "" {
		return nil, apperrors.ValidationField("email", "An email is required.")
	}

	removed, err := s.repo.Delete(ctx, normalized)
	if err != nil {
		if errors.Is(err, data.ErrAllowlistNotFound) {
			return nil, apperrors.NotFound("No allowlist entry for that email.")
		}
		return nil, fmt.Errorf("delete allowlist entry: %w", apperrors.MapDBError(err))
	}

	actor.Record(ctx, domainaudit.Entry{
		Action:    model.ActionDeleteAllow,
		TableName: "admin_allowlist",
		RecordID:  removed.Email,
		Old:       removed.Snapshot(),
	})
	s.logger.Info("deleted allowlist entry",
		"email", removed.Email,
		"actor", actor.SubjectID)
	return removed, nil
}

// List returns allowlist entries, newest first.
func (s *AllowlistService) List(
	ctx context.Context,
	opts model.AllowlistListOptions,
) ([]*model.AllowlistEntry, error) {
	opts.Limit, opts.Offset = clampPage(opts.Limit, opts.Offset)
	entries, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list allowlist entries: %w", apperrors.MapDBError(err))
	}
	return entries, nil
}
