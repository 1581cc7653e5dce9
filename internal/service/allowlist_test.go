package service

import (
	"context"
	"testing"

	"github.com/chapelhq/backoffice-go/internal/data"
	"github.com/chapelhq/backoffice-go/internal/domain/model"
	apperrors "github.com/chapelhq/backoffice-go/internal/errors"
	"github.com/chapelhq/backoffice-go/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newAllowlistService(t *testing.T) (*mocks.MockAllowlistRepository, *captureRecorder, *AllowlistService) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := mocks.NewMockAllowlistRepository(ctrl)
	recorder := &captureRecorder{}
	svc := NewAllowlistService(AllowlistServiceOptions{Repo: repo})
	return repo, recorder, svc
}

func TestAllowlistService_Upsert_NewEntry(t *testing.T) {
	t.Parallel()

	repo, recorder, svc := newAllowlistService(t)
	ctx := context.Background()

	repo.EXPECT().
		GetByEmail(ctx, "pat@chapel.example").
		Return(nil, data.ErrAllowlistNotFound).
		Times(1)
	repo.EXPECT().
		Upsert(ctx, gomock.Any(), "auth0|actor-1").
		DoAndReturn(func(_ context.Context, req *model.UpsertAllowlistRequest, addedBy string) (*model.AllowlistEntry, error) {
			assert.Equal(t, "pat@chapel.example", req.Email)
			return &model.AllowlistEntry{Email: req.Email, Note: req.Note, AddedBy: addedBy}, nil
		}).
		Times(1)

	entry, err := svc.Upsert(ctx, testActorCapability(recorder), &model.UpsertAllowlistRequest{
		Email: "  Pat@Chapel.Example ",
		Note:  "content team",
	})

	require.NoError(t, err)
	assert.Equal(t, "pat@chapel.example", entry.Email)

	require.Len(t, recorder.entries, 1)
	audit := recorder.entries[0]
	assert.Equal(t, model.ActionUpsertAllow, audit.Action)
	assert.Equal(t, "auth0|actor-1", audit.Actor)
	assert.Equal(t, "pat@chapel.example", audit.RecordID)
	assert.Nil(t, audit.Old, "a first insert has no pre-image")
	assert.Equal(t, "content team", audit.New["note"])
}

func TestAllowlistService_Upsert_RefreshKeepsPreImage(t *testing.T) {
	t.Parallel()

	repo, recorder, svc := newAllowlistService(t)
	ctx := context.Background()

	repo.EXPECT().
		GetByEmail(ctx, "pat@chapel.example").
		Return(&model.AllowlistEntry{Email: "pat@chapel.example", Note: "old note", AddedBy: "auth0|founder"}, nil).
		Times(1)
	repo.EXPECT().
		Upsert(ctx, gomock.Any(), "auth0|actor-1").
		Return(&model.AllowlistEntry{Email: "pat@chapel.example", Note: "new note", AddedBy: "auth0|actor-1"}, nil).
		Times(1)

	_, err := svc.Upsert(ctx, testActorCapability(recorder), &model.UpsertAllowlistRequest{
		Email: "pat@chapel.example",
		Note:  "new note",
	})

	require.NoError(t, err)
	require.Len(t, recorder.entries, 1)
	assert.Equal(t, "old note", recorder.entries[0].Old["note"])
	assert.Equal(t, "new note", recorder.entries[0].New["note"])
}

func TestAllowlistService_Upsert_DomainRule(t *testing.T) {
	t.Parallel()

	repo, recorder, svc := newAllowlistService(t)
	ctx := context.Background()

	repo.EXPECT().
		GetByEmail(ctx, "@chapel.example").
		Return(nil, data.ErrAllowlistNotFound).
		Times(1)
	repo.EXPECT().
		Upsert(ctx, gomock.Any(), "auth0|actor-1").
		Return(&model.AllowlistEntry{Email: "@chapel.example", AddedBy: "auth0|actor-1"}, nil).
		Times(1)

	entry, err := svc.Upsert(ctx, testActorCapability(recorder), &model.UpsertAllowlistRequest{
		Email: "@Chapel.Example",
	})

	require.NoError(t, err)
	assert.True(t, entry.IsDomainRule())
}

func TestAllowlistService_Upsert_PublicSuffixRejected(t *testing.T) {
	t.Parallel()

	_, recorder, svc := newAllowlistService(t)

	// No repository expectations: the rule is rejected before any lookup.
	entry, err := svc.Upsert(context.Background(), testActorCapability(recorder),
		&model.UpsertAllowlistRequest{Email: "@co.uk"})

	require.Error(t, err)
	assert.Nil(t, entry)
	assert.Equal(t, "email", apperrors.GetField(err))
	assert.ErrorContains(t, err, "registrable",
		"a whole public suffix would open registration to strangers")
	assert.Empty(t, recorder.entries)
}

func TestAllowlistService_Upsert_InvalidEmail(t *testing.T) {
	t.Parallel()

	_, recorder, svc := newAllowlistService(t)

	entry, err := svc.Upsert(context.Background(), testActorCapability(recorder),
		&model.UpsertAllowlistRequest{Email: "not-an-email"})

	require.Error(t, err)
	assert.Nil(t, entry)
	assert.Equal(t, apperrors.ErrCodeValidation, apperrors.GetCode(err))
}

func TestAllowlistService_Delete_Success(t *testing.T) {
	t.Parallel()

	repo, recorder, svc := newAllowlistService(t)
	ctx := context.Background()

	repo.EXPECT().
		Delete(ctx, "pat@chapel.example").
		Return(&model.AllowlistEntry{Email: "pat@chapel.example", Note: "content team"}, nil).
		Times(1)

	removed, err := svc.Delete(ctx, testActorCapability(recorder), "Pat@Chapel.Example")

	require.NoError(t, err)
	assert.Equal(t, "pat@chapel.example", removed.Email)

	require.Len(t, recorder.entries, 1)
	audit := recorder.entries[0]
	assert.Equal(t, model.ActionDeleteAllow, audit.Action)
	assert.Equal(t, "content team", audit.Old["note"])
	assert.Nil(t, audit.New)
}

func TestAllowlistService_Delete_NotFound(t *testing.T) {
	t.Parallel()

	repo, recorder, svc := newAllowlistService(t)
	ctx := context.Background()

	repo.EXPECT().
		Delete(ctx, "ghost@chapel.example").
		Return(nil, data.ErrAllowlistNotFound).
		Times(1)

	removed, err := svc.Delete(ctx, testActorCapability(recorder), "ghost@chapel.example")

	require.Error(t, err)
	assert.Nil(t, removed)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Empty(t, recorder.entries)
}

func TestAllowlistService_List_ClampsPagination(t *testing.T) {
	t.Parallel()

	repo, _, svc := newAllowlistService(t)
	ctx := context.Background()

	repo.EXPECT().
		List(ctx, model.AllowlistListOptions{Limit: 50}).
		Return([]*model.AllowlistEntry{}, nil).
		Times(1)

	entries, err := svc.List(ctx, model.AllowlistListOptions{})

	require.NoError(t, err)
	assert.Empty(t, entries)
}
