package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gatherly/server/internal/api/middleware"
	"github.com/gatherly/server/internal/api/pagination"
	"github.com/gatherly/server/internal/cache"
	"github.com/gatherly/server/internal/domain/events"
	"github.com/stretchr/testify/require"
)

type stubEventRepo struct {
	events  map[string]*events.Event
	created []events.CreateParams
	deleted []string
}

func newStubEventRepo(items ...*events.Event) *stubEventRepo {
	repo := &stubEventRepo{events: make(map[string]*events.Event)}
	for _, item := range items {
		repo.events[item.ID] = item
	}
	return repo
}

func (r *stubEventRepo) List(ctx context.Context, relations []string, page pagination.Params) ([]events.Event, int, error) {
	items := make([]events.Event, 0, len(r.events))
	for _, event := range r.events {
		items = append(items, *event)
	}
	return items, len(items), nil
}

func (r *stubEventRepo) GetByULID(ctx context.Context, ulid string, relations []string) (*events.Event, error) {
	event, ok := r.events[ulid]
	if !ok {
		return nil, events.ErrNotFound
	}
	copied := *event
	return &copied, nil
}

func (r *stubEventRepo) Create(ctx context.Context, params events.CreateParams) (*events.Event, error) {
	r.created = append(r.created, params)
	event := &events.Event{
		ID:          params.ID,
		Name:        params.Name,
		Description: params.Description,
		StartTime:   params.StartTime,
		EndTime:     params.EndTime,
		OwnerID:     params.OwnerID,
	}
	r.events[event.ID] = event
	return event, nil
}

func (r *stubEventRepo) Update(ctx context.Context, ulid string, params events.UpdateParams) (*events.Event, error) {
	event, ok := r.events[ulid]
	if !ok {
		return nil, events.ErrNotFound
	}
	if params.Name != nil {
		event.Name = *params.Name
	}
	if params.Description != nil {
		event.Description = params.Description
	}
	if params.StartTime != nil {
		event.StartTime = *params.StartTime
	}
	if params.EndTime != nil {
		event.EndTime = *params.EndTime
	}
	copied := *event
	return &copied, nil
}

func (r *stubEventRepo) Delete(ctx context.Context, ulid string) error {
	if _, ok := r.events[ulid]; !ok {
		return events.ErrNotFound
	}
	delete(r.events, ulid)
	r.deleted = append(r.deleted, ulid)
	return nil
}

func testEvent(id, ownerID string) *events.Event {
	start := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	return &events.Event{
		ID:        id,
		Name:      "Launch party",
		StartTime: start,
		EndTime:   start.Add(2 * time.Hour),
		OwnerID:   ownerID,
		Owner:     &events.UserRef{ID: ownerID, Name: "Ada", Email: "ada@example.com"},
	}
}

func newEventsHandler(repo *stubEventRepo) (*EventsHandler, *cache.Store) {
	store := cache.NewStore()
	service := events.NewService(repo, store)
	return NewEventsHandler(service, "test"), store
}

func asActor(req *http.Request, actorID string) *http.Request {
	return req.WithContext(middleware.WithActor(req.Context(), &middleware.Actor{ID: actorID}))
}

func decodeJSON(t *testing.T, res *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	return body
}

func TestEventsListReturnsDataAndMeta(t *testing.T) {
	repo := newStubEventRepo(testEvent("01HQZX3Y4K6F7G8H9J0K1M2N3P", "owner-1"))
	handler, store := newEventsHandler(repo)
	defer store.Stop()

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	res := httptest.NewRecorder()
	handler.List(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	body := decodeJSON(t, res)
	data := body["data"].([]any)
	require.Len(t, data, 1)

	item := data[0].(map[string]any)
	require.Equal(t, "Launch party", item["name"])
	// No include parameter means no relations on the wire.
	require.NotContains(t, item, "user")
	require.NotContains(t, item, "attendees")

	meta := body["meta"].(map[string]any)
	require.Equal(t, float64(1), meta["current_page"])
	require.Equal(t, float64(15), meta["per_page"])
}

func TestEventsListIncludeShapesRelations(t *testing.T) {
	event := testEvent("01HQZX3Y4K6F7G8H9J0K1M2N3P", "owner-1")
	event.Attendees = []events.Attendee{
		{
			ID:      "01HQZX3Y4K6F7G8H9J0K1M2N4Q",
			EventID: event.ID,
			UserID:  "user-2",
			User:    &events.UserRef{ID: "user-2", Name: "Grace", Email: "grace@example.com"},
		},
	}
	handler, store := newEventsHandler(newStubEventRepo(event))
	defer store.Stop()

	req := httptest.NewRequest(http.MethodGet, "/api/events?include=attendees.user,user", nil)
	res := httptest.NewRecorder()
	handler.List(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	item := decodeJSON(t, res)["data"].([]any)[0].(map[string]any)

	owner := item["user"].(map[string]any)
	require.Equal(t, "Ada", owner["name"])

	attendeeList := item["attendees"].([]any)
	require.Len(t, attendeeList, 1)
	attendeeUser := attendeeList[0].(map[string]any)["user"].(map[string]any)
	require.Equal(t, "Grace", attendeeUser["name"])
}

func TestEventsListIncludeAttendeesOnlyOmitsNestedUser(t *testing.T) {
	event := testEvent("01HQZX3Y4K6F7G8H9J0K1M2N3P", "owner-1")
	event.Attendees = []events.Attendee{
		{ID: "01HQZX3Y4K6F7G8H9J0K1M2N4Q", EventID: event.ID, UserID: "user-2"},
	}
	handler, store := newEventsHandler(newStubEventRepo(event))
	defer store.Stop()

	req := httptest.NewRequest(http.MethodGet, "/api/events?include=attendees", nil)
	res := httptest.NewRecorder()
	handler.List(res, req)

	item := decodeJSON(t, res)["data"].([]any)[0].(map[string]any)
	attendee := item["attendees"].([]any)[0].(map[string]any)
	require.NotContains(t, attendee, "user")
}

func TestEventsGetNotFound(t *testing.T) {
	handler, store := newEventsHandler(newStubEventRepo())
	defer store.Stop()

	req := httptest.NewRequest(http.MethodGet, "/api/events/01HQZX3Y4K6F7G8H9J0K1M2N3P", nil)
	req.SetPathValue("id", "01HQZX3Y4K6F7G8H9J0K1M2N3P")
	res := httptest.NewRecorder()
	handler.Get(res, req)

	require.Equal(t, http.StatusNotFound, res.Code)
	require.Equal(t, "application/problem+json", res.Header().Get("Content-Type"))
}

func TestEventsCreateRequiresAuth(t *testing.T) {
	handler, store := newEventsHandler(newStubEventRepo())
	defer store.Stop()

	payload := `{"name":"Meetup","start_time":"2026-03-01T18:00:00Z","end_time":"2026-03-01T20:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader(payload))
	res := httptest.NewRecorder()
	handler.Create(res, req)

	require.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestEventsCreateSucceeds(t *testing.T) {
	repo := newStubEventRepo()
	handler, store := newEventsHandler(repo)
	defer store.Stop()

	payload := `{"name":"Meetup","start_time":"2026-03-01T18:00:00Z","end_time":"2026-03-01T20:00:00Z"}`
	req := asActor(httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader(payload)), "owner-1")
	res := httptest.NewRecorder()
	handler.Create(res, req)

	require.Equal(t, http.StatusCreated, res.Code)
	data := decodeJSON(t, res)["data"].(map[string]any)
	require.Equal(t, "Meetup", data["name"])
	require.Len(t, repo.created, 1)
	require.Equal(t, "owner-1", repo.created[0].OwnerID)
}

func TestEventsCreateValidationFailure(t *testing.T) {
	handler, store := newEventsHandler(newStubEventRepo())
	defer store.Stop()

	payload := `{"start_time":"2026-03-01T20:00:00Z","end_time":"2026-03-01T18:00:00Z"}`
	req := asActor(httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader(payload)), "owner-1")
	res := httptest.NewRecorder()
	handler.Create(res, req)

	require.Equal(t, http.StatusUnprocessableEntity, res.Code)
	body := decodeJSON(t, res)
	errs := body["errors"].(map[string]any)
	require.Contains(t, errs, "name")
	require.Contains(t, errs, "end_time")
}

func TestEventsUpdateForbiddenForNonOwner(t *testing.T) {
	handler, store := newEventsHandler(newStubEventRepo(testEvent("01HQZX3Y4K6F7G8H9J0K1M2N3P", "owner-1")))
	defer store.Stop()

	req := asActor(httptest.NewRequest(http.MethodPut, "/api/events/01HQZX3Y4K6F7G8H9J0K1M2N3P", strings.NewReader(`{"name":"New"}`)), "intruder")
	req.SetPathValue("id", "01HQZX3Y4K6F7G8H9J0K1M2N3P")
	res := httptest.NewRecorder()
	handler.Update(res, req)

	require.Equal(t, http.StatusForbidden, res.Code)
}

func TestEventsUpdatePartialPayload(t *testing.T) {
	repo := newStubEventRepo(testEvent("01HQZX3Y4K6F7G8H9J0K1M2N3P", "owner-1"))
	handler, store := newEventsHandler(repo)
	defer store.Stop()

	req := asActor(httptest.NewRequest(http.MethodPut, "/api/events/01HQZX3Y4K6F7G8H9J0K1M2N3P", strings.NewReader(`{"name":"Renamed"}`)), "owner-1")
	req.SetPathValue("id", "01HQZX3Y4K6F7G8H9J0K1M2N3P")
	res := httptest.NewRecorder()
	handler.Update(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	data := decodeJSON(t, res)["data"].(map[string]any)
	require.Equal(t, "Renamed", data["name"])
	// Untouched fields keep their stored values.
	require.Equal(t, "2026-03-01T18:00:00Z", data["start_time"])
}

func TestEventsDeleteReturnsMessage(t *testing.T) {
	repo := newStubEventRepo(testEvent("01HQZX3Y4K6F7G8H9J0K1M2N3P", "owner-1"))
	handler, store := newEventsHandler(repo)
	defer store.Stop()

	req := asActor(httptest.NewRequest(http.MethodDelete, "/api/events/01HQZX3Y4K6F7G8H9J0K1M2N3P", nil), "owner-1")
	req.SetPathValue("id", "01HQZX3Y4K6F7G8H9J0K1M2N3P")
	res := httptest.NewRecorder()
	handler.Delete(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	require.Equal(t, "Event deleted successfully!", decodeJSON(t, res)["message"])
	require.Equal(t, []string{"01HQZX3Y4K6F7G8H9J0K1M2N3P"}, repo.deleted)
}

func TestEventsDeleteAnonymousUnauthorized(t *testing.T) {
	handler, store := newEventsHandler(newStubEventRepo(testEvent("01HQZX3Y4K6F7G8H9J0K1M2N3P", "owner-1")))
	defer store.Stop()

	req := httptest.NewRequest(http.MethodDelete, "/api/events/01HQZX3Y4K6F7G8H9J0K1M2N3P", nil)
	req.SetPathValue("id", "01HQZX3Y4K6F7G8H9J0K1M2N3P")
	res := httptest.NewRecorder()
	handler.Delete(res, req)

	require.Equal(t, http.StatusUnauthorized, res.Code)
}
