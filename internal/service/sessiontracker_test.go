package service

import (
	"context"
	"errors"
	"testing"

	domainguard "github.com/chapelhq/backoffice-go/internal/domain/guard"
	"github.com/chapelhq/backoffice-go/internal/domain/model"
	apperrors "github.com/chapelhq/backoffice-go/internal/errors"
	"github.com/chapelhq/backoffice-go/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// testActorCapability mints a capability for the shared test actor, bound to
// the given recorder (nil is fine for services that do not audit).
func testActorCapability(recorder *captureRecorder) domainguard.Capability {
	return domainguard.NewCapability(
		directoryAdmin("auth0|actor-1", model.RoleSuperAdmin, model.StatusApproved),
		recorder,
		nil,
	)
}

func newSessionTrackerService(t *testing.T) (*mocks.MockSessionTrackerRepository, *SessionTrackerService) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := mocks.NewMockSessionTrackerRepository(ctrl)
	svc := NewSessionTrackerService(SessionTrackerServiceOptions{Repo: repo})
	return repo, svc
}

func TestSessionTrackerService_ListOwn_ScopesToCaller(t *testing.T) {
	t.Parallel()

	repo, svc := newSessionTrackerService(t)
	ctx := context.Background()

	// The request names another subject; the capability must win.
	repo.EXPECT().
		List(ctx, model.SessionListOptions{SubjectID: "auth0|actor-1", OpenOnly: true, Limit: 50}).
		Return([]*model.AdminSession{{ID: "sess-row-1", SubjectID: "auth0|actor-1"}}, nil).
		Times(1)

	sessions, err := svc.ListOwn(ctx, testActorCapability(nil), model.SessionListOptions{
		SubjectID: "auth0|someone-else",
		OpenOnly:  true,
	})

	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "sess-row-1", sessions[0].ID)
}

func TestSessionTrackerService_End_OwnOpenRow(t *testing.T) {
	t.Parallel()

	repo, svc := newSessionTrackerService(t)
	ctx := context.Background()

	repo.EXPECT().
		End(ctx, "sess-row-1", "auth0|actor-1").
		Return(true, nil).
		Times(1)

	err := svc.End(ctx, testActorCapability(nil), "sess-row-1")

	require.NoError(t, err)
}

func TestSessionTrackerService_End_UnownedRowIsSilentNoop(t *testing.T) {
	t.Parallel()

	repo, svc := newSessionTrackerService(t)
	ctx := context.Background()

	repo.EXPECT().
		End(ctx, "sess-row-other", "auth0|actor-1").
		Return(false, nil).
		Times(1)

	err := svc.End(ctx, testActorCapability(nil), "sess-row-other")

	require.NoError(t, err,
		"ending a row the caller does not own must not reveal whether it exists")
}

func TestSessionTrackerService_End_EmptyID(t *testing.T) {
	t.Parallel()

	_, svc := newSessionTrackerService(t)

	err := svc.End(context.Background(), testActorCapability(nil), "  ")

	require.Error(t, err)
	assert.Equal(t, "session_id", apperrors.GetField(err))
}

func TestSessionTrackerService_End_StoreError(t *testing.T) {
	t.Parallel()

	repo, svc := newSessionTrackerService(t)
	ctx := context.Background()

	repo.EXPECT().
		End(ctx, "sess-row-1", "auth0|actor-1").
		Return(false, errors.New("connection refused")).
		Times(1)

	err := svc.End(ctx, testActorCapability(nil), "sess-row-1")

	require.Error(t, err)
	assert.ErrorContains(t, err, "end admin session")
}

func TestSessionTrackerService_OpenCount(t *testing.T) {
	t.Parallel()

	repo, svc := newSessionTrackerService(t)
	ctx := context.Background()

	repo.EXPECT().
		CountOpen(ctx, "auth0|actor-1").
		Return(3, nil).
		Times(1)

	count, err := svc.OpenCount(ctx, testActorCapability(nil))

	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
