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
)

// AnnouncementServiceOptions contains configuration options for creating an AnnouncementService.
type AnnouncementServiceOptions struct {
	Repo   core.AnnouncementRepository // Required: announcement data operations
	Logger *slog.Logger                // Optional: defaults to slog.Default()
}

// AnnouncementService manages the announcements any approved admin may edit.
// Writes are attributed to the acting admin through the capability and
// audited with pre/post images.
type AnnouncementService struct {
	repo   core.AnnouncementRepository
	logger *slog.Logger
}

// NewAnnouncementService creates a new AnnouncementService with the given options.
func NewAnnouncementService(opts AnnouncementServiceOptions) *AnnouncementService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &AnnouncementService{
		repo:   opts.Repo,
		logger: logger,
	}
}

// Create stores a new announcement attributed to the acting admin.
func (s *AnnouncementService) Create(
	ctx context.Context,
	actor domainguard.Capability,
	req *model.CreateAnnouncementRequest,
) (*model.Announcement, error) {
	if req == nil {
		req = &model.CreateAnnouncementRequest{}
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	created, err := s.repo.Create(ctx, req, actor.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("create announcement: %w", apperrors.MapDBError(err))
	}

	actor.Record(ctx, domainaudit.Entry{
		Action:    model.ActionCreateAnnouncement,
		TableName: "announcements",
		RecordID:  created.ID,
		New:       created.Snapshot(),
	})
	s.logger.Info("created announcement",
		"announcement_id", created.ID,
		"actor", actor.SubjectID)
	return created, nil
}

// Get returns a single announcement by id.
func (s *AnnouncementService) Get(ctx context.Context, id string) (*model.Announcement, error) {
	announcement, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, data.ErrAnnouncementNotFound) {
			return nil, apperrors.NotFound("No announcement with that id.")
		}
		return nil, fmt.Errorf("get announcement: %w", apperrors.MapDBError(err))
	}
	return announcement, nil
}

// Update applies a partial update and audits the field diff.
func (s *AnnouncementService) Update(
	ctx context.Context,
	actor domainguard.Capability,
	id string,
	req model.UpdateAnnouncementRequest,
) (*model.Announcement, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	id = strings.TrimSpace(id)
	before, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, data.ErrAnnouncementNotFound) {
			return nil, apperrors.NotFound("No announcement with that id.")
		}
		return nil, fmt.Errorf("get announcement: %w", apperrors.MapDBError(err))
	}

	updated, err := s.repo.Update(ctx, id, req, actor.SubjectID)
	if err != nil {
		if errors.Is(err, data.ErrAnnouncementNotFound) {
			return nil, apperrors.NotFound("No announcement with that id.")
		}
		return nil, fmt.Errorf("update announcement: %w", apperrors.MapDBError(err))
	}

	actor.Record(ctx, domainaudit.Entry{
		Action:    model.ActionUpdateAnnouncement,
		TableName: "announcements",
		RecordID:  updated.ID,
		Old:       before.Snapshot(),
		New:       updated.Snapshot(),
	})
	s.logger.Info("updated announcement",
		"announcement_id", updated.ID,
		"actor", actor.SubjectID)
	return updated, nil
}

// Delete removes an announcement and audits its final image.
func (s *AnnouncementService) Delete(
	ctx context.Context,
	actor domainguard.Capability,
	id string,
) (*model.Announcement, error) {
	removed, err := s.repo.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, data.ErrAnnouncementNotFound) {
			return nil, apperrors.NotFound("No announcement with that id.")
		}
		return nil, fmt.Errorf("delete announcement: %w", apperrors.MapDBError(err))
	}

	actor.Record(ctx, domainaudit.Entry{
		Action:    model.ActionDeleteAnnouncement,
		TableName: "announcements",
		RecordID:  removed.ID,
		Old:       removed.Snapshot(),
	})
	s.logger.Info("deleted announcement",
		"announcement_id", removed.ID,
		"actor", actor.SubjectID)
	return removed, nil
}

// List returns announcements filtered by the given options, newest first.
func (s *AnnouncementService) List(
	ctx context.Context,
	opts model.AnnouncementListOptions,
) ([]*model.Announcement, error) {
	opts.Limit, opts.Offset = clampPage(opts.Limit, opts.Offset)
	announcements, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", apperrors.MapDBError(err))
	}
	return announcements, nil
}
