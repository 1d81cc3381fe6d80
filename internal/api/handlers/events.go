package handlers

import (
	"net/http"

	"github.com/gatherly/server/internal/api/middleware"
	"github.com/gatherly/server/internal/api/pagination"
	"github.com/gatherly/server/internal/domain/events"
)

type EventsHandler struct {
	Service *events.Service
	Env     string
}

func NewEventsHandler(service *events.Service, env string) *EventsHandler {
	return &EventsHandler{Service: service, Env: env}
}

type listEnvelope struct {
	Data []map[string]any `json:"data"`
	Meta pagination.Meta  `json:"meta"`
}

type itemEnvelope struct {
	Data map[string]any `json:"data"`
}

// List serves GET /api/events. The `include` parameter controls which
// relations appear on each item; the `page` parameter selects the page
// but does not participate in the response cache key.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	rawInclude := r.URL.Query().Get("include")
	page := pagination.Parse(r.URL.Query(), pagination.DefaultEventPageSize)

	result, err := h.Service.List(r.Context(), rawInclude, page)
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}

	data := make([]map[string]any, 0, len(result.Events))
	for i := range result.Events {
		data = append(data, eventPayload(&result.Events[i], result.Relations))
	}

	writeJSON(w, http.StatusOK, listEnvelope{Data: data, Meta: result.Meta})
}

func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	event, relations, err := h.Service.Get(r.Context(), pathParam(r, "id"), r.URL.Query().Get("include"))
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, itemEnvelope{Data: eventPayload(event, relations)})
}

func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input events.CreateInput
	if !decodeBody(w, r, &input, h.Env) {
		return
	}

	event, err := h.Service.Create(r.Context(), middleware.ActorID(r), input)
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}

	writeJSON(w, http.StatusCreated, itemEnvelope{Data: eventPayload(event, nil)})
}

func (h *EventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input events.UpdateInput
	if !decodeBody(w, r, &input, h.Env) {
		return
	}

	event, err := h.Service.Update(r.Context(), middleware.ActorID(r), pathParam(r, "id"), input)
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, itemEnvelope{Data: eventPayload(event, nil)})
}

func (h *EventsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), middleware.ActorID(r), pathParam(r, "id")); err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Event deleted successfully!"})
}

// eventPayload shapes an event for the wire. Relations gate which nested
// objects appear: `user` attaches the owner, `attendees` the attendee
// rows, and `attendees.user` additionally nests each attendee's user.
func eventPayload(event *events.Event, relations []string) map[string]any {
	payload := map[string]any{
		"id":          event.ID,
		"name":        event.Name,
		"description": event.Description,
		"start_time":  formatTime(event.StartTime),
		"end_time":    formatTime(event.EndTime),
	}

	if events.HasRelation(relations, events.RelationUser) {
		payload["user"] = userPayload(event.Owner)
	}
	if events.WantsAttendees(relations) {
		withUser := events.HasRelation(relations, events.RelationAttendeesUser)
		items := make([]map[string]any, 0, len(event.Attendees))
		for i := range event.Attendees {
			items = append(items, attendeeRelationPayload(&event.Attendees[i], withUser))
		}
		payload["attendees"] = items
	}

	return payload
}

func userPayload(user *events.UserRef) map[string]any {
	if user == nil {
		return nil
	}
	return map[string]any{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	}
}

func attendeeRelationPayload(attendee *events.Attendee, withUser bool) map[string]any {
	payload := map[string]any{
		"id":       attendee.ID,
		"event_id": attendee.EventID,
		"user_id":  attendee.UserID,
	}
	if withUser {
		payload["user"] = userPayload(attendee.User)
	}
	return payload
}
