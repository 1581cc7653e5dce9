package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainguard "github.com/chapelhq/backoffice-go/internal/domain/guard"
	"github.com/chapelhq/backoffice-go/internal/domain/model"
	apperrors "github.com/chapelhq/backoffice-go/internal/errors"
)

type mockAnnouncementService struct {
	createFunc func(ctx context.Context, actor domainguard.Capability, req *model.CreateAnnouncementRequest) (*model.Announcement, error)
	getFunc    func(ctx context.Context, id string) (*model.Announcement, error)
	updateFunc func(ctx context.Context, actor domainguard.Capability, id string, req model.UpdateAnnouncementRequest) (*model.Announcement, error)
	deleteFunc func(ctx context.Context, actor domainguard.Capability, id string) (*model.Announcement, error)
	listFunc   func(ctx context.Context, opts model.AnnouncementListOptions) ([]*model.Announcement, error)
}

func (m *mockAnnouncementService) Create(ctx context.Context, actor domainguard.Capability, req *model.CreateAnnouncementRequest) (*model.Announcement, error) {
	return m.createFunc(ctx, actor, req)
}

func (m *mockAnnouncementService) Get(ctx context.Context, id string) (*model.Announcement, error) {
	return m.getFunc(ctx, id)
}

func (m *mockAnnouncementService) Update(ctx context.Context, actor domainguard.Capability, id string, req model.UpdateAnnouncementRequest) (*model.Announcement, error) {
	return m.updateFunc(ctx, actor, id, req)
}

func (m *mockAnnouncementService) Delete(ctx context.Context, actor domainguard.Capability, id string) (*model.Announcement, error) {
	return m.deleteFunc(ctx, actor, id)
}

func (m *mockAnnouncementService) List(ctx context.Context, opts model.AnnouncementListOptions) ([]*model.Announcement, error) {
	return m.listFunc(ctx, opts)
}

func TestAnnouncementHandlers_Create(t *testing.T) {
	var gotActor domainguard.Capability
	var gotReq *model.CreateAnnouncementRequest
	h := &AnnouncementHandlers{Svc: &mockAnnouncementService{
		createFunc: func(_ context.Context, actor domainguard.Capability, req *model.CreateAnnouncementRequest) (*model.Announcement, error) {
			gotActor = actor
			gotReq = req
			return &model.Announcement{ID: "ann-1", Title: req.Title, CreatedBy: actor.SubjectID}, nil
		},
	}}

	body := `{"title":"Easter schedule","body":"Services at 9 and 11.","published":true}`
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/announcements", strings.NewReader(body))
	h.Create(w, superAdminContext(r))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "auth0|root", gotActor.SubjectID)
	require.NotNil(t, gotReq)
	assert.Equal(t, "Easter schedule", gotReq.Title)
	assert.True(t, gotReq.Published)
	assert.Equal(t, "ann-1", decodeBody(t, w)["id"])
}

func TestAnnouncementHandlers_Create_ValidationError(t *testing.T) {
	h := &AnnouncementHandlers{Svc: &mockAnnouncementService{
		createFunc: func(_ context.Context, _ domainguard.Capability, _ *model.CreateAnnouncementRequest) (*model.Announcement, error) {
			return nil, apperrors.ValidationField("title", "title is required and cannot be empty")
		},
	}}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/announcements", strings.NewReader(`{"title":""}`))
	h.Create(w, superAdminContext(r))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation", decodeBody(t, w)["error"])
}

func TestAnnouncementHandlers_List_PublishedFilter(t *testing.T) {
	var gotOpts model.AnnouncementListOptions
	h := &AnnouncementHandlers{Svc: &mockAnnouncementService{
		listFunc: func(_ context.Context, opts model.AnnouncementListOptions) ([]*model.Announcement, error) {
			gotOpts = opts
			return []*model.Announcement{{ID: "ann-1"}, {ID: "ann-2"}}, nil
		},
	}}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/announcements?published=true&search=easter&limit=10", nil)
	h.List(w, superAdminContext(r))

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, gotOpts.Published)
	assert.True(t, *gotOpts.Published)
	require.NotNil(t, gotOpts.Search)
	assert.Equal(t, "easter", *gotOpts.Search)
	assert.Equal(t, 10, gotOpts.Limit)

	body := decodeBody(t, w)
	assert.Len(t, body["announcements"], 2)
	assert.EqualValues(t, 10, body["limit"])
}

func TestAnnouncementHandlers_List_InvalidPublished(t *testing.T) {
	h := &AnnouncementHandlers{Svc: &mockAnnouncementService{}}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/announcements?published=kinda", nil)
	h.List(w, superAdminContext(r))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_query", decodeBody(t, w)["error"])
}

func TestAnnouncementHandlers_GetByID(t *testing.T) {
	h := &AnnouncementHandlers{Svc: &mockAnnouncementService{
		getFunc: func(_ context.Context, id string) (*model.Announcement, error) {
			assert.Equal(t, "ann-1", id)
			return &model.Announcement{ID: "ann-1", Title: "Easter schedule"}, nil
		},
	}}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/announcements/ann-1", nil)
	r.SetPathValue("id", "ann-1")
	h.GetByID(w, superAdminContext(r))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Easter schedule", decodeBody(t, w)["title"])
}

func TestAnnouncementHandlers_GetByID_NotFound(t *testing.T) {
	h := &AnnouncementHandlers{Svc: &mockAnnouncementService{
		getFunc: func(_ context.Context, _ string) (*model.Announcement, error) {
			return nil, apperrors.NotFound("Announcement not found.")
		},
	}}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/announcements/missing", nil)
	r.SetPathValue("id", "missing")
	h.GetByID(w, superAdminContext(r))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnnouncementHandlers_Update_PartialBody(t *testing.T) {
	var gotReq model.UpdateAnnouncementRequest
	h := &AnnouncementHandlers{Svc: &mockAnnouncementService{
		updateFunc: func(_ context.Context, actor domainguard.Capability, id string, req model.UpdateAnnouncementRequest) (*model.Announcement, error) {
			assert.Equal(t, "auth0|root", actor.SubjectID)
			assert.Equal(t, "ann-1", id)
			gotReq = req
			return &model.Announcement{ID: "ann-1", Published: true}, nil
		},
	}}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPut, "/api/announcements/ann-1", strings.NewReader(`{"published":true}`))
	r.SetPathValue("id", "ann-1")
	h.Update(w, superAdminContext(r))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, gotReq.Title)
	assert.Nil(t, gotReq.Body)
	require.NotNil(t, gotReq.Published)
	assert.True(t, *gotReq.Published)
}

func TestAnnouncementHandlers_Update_MissingID(t *testing.T) {
	h := &AnnouncementHandlers{Svc: &mockAnnouncementService{}}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPut, "/api/announcements/", strings.NewReader(`{}`))
	h.Update(w, superAdminContext(r))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_path", decodeBody(t, w)["error"])
}

func TestAnnouncementHandlers_Delete(t *testing.T) {
	var gotID string
	h := &AnnouncementHandlers{Svc: &mockAnnouncementService{
		deleteFunc: func(_ context.Context, _ domainguard.Capability, id string) (*model.Announcement, error) {
			gotID = id
			return &model.Announcement{ID: id}, nil
		},
	}}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodDelete, "/api/announcements/ann-1", nil)
	r.SetPathValue("id", "ann-1")
	h.Delete(w, superAdminContext(r))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ann-1", gotID)
	assert.Equal(t, true, decodeBody(t, w)["deleted"])
}
