package handlers

import (
	"net/http"

	"github.com/gatherly/server/internal/api/middleware"
	"github.com/gatherly/server/internal/api/pagination"
	"github.com/gatherly/server/internal/domain/attendees"
	"github.com/gatherly/server/internal/domain/events"
)

// AttendeesHandler serves the attendee routes nested under an event.
// Every operation resolves the parent event first, so a bad event ID is
// a 404 before anything else happens.
type AttendeesHandler struct {
	Service *attendees.Service
	Events  *events.Service
	Env     string
}

func NewAttendeesHandler(service *attendees.Service, eventService *events.Service, env string) *AttendeesHandler {
	return &AttendeesHandler{Service: service, Events: eventService, Env: env}
}

func (h *AttendeesHandler) parentEvent(w http.ResponseWriter, r *http.Request) (*events.Event, bool) {
	event, _, err := h.Events.Get(r.Context(), pathParam(r, "event_id"), "")
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return nil, false
	}
	return event, true
}

func (h *AttendeesHandler) List(w http.ResponseWriter, r *http.Request) {
	event, ok := h.parentEvent(w, r)
	if !ok {
		return
	}

	page := pagination.Parse(r.URL.Query(), pagination.DefaultAttendeePageSize)
	result, err := h.Service.List(r.Context(), event.ID, page)
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}

	data := make([]map[string]any, 0, len(result.Attendees))
	for i := range result.Attendees {
		data = append(data, attendeePayload(&result.Attendees[i]))
	}

	writeJSON(w, http.StatusOK, listEnvelope{Data: data, Meta: result.Meta})
}

// Register serves POST; the authenticated actor becomes the attendee.
// Repeated registrations are allowed and create separate records.
func (h *AttendeesHandler) Register(w http.ResponseWriter, r *http.Request) {
	event, ok := h.parentEvent(w, r)
	if !ok {
		return
	}

	attendee, err := h.Service.Register(r.Context(), middleware.ActorID(r), event.ID)
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}

	writeJSON(w, http.StatusCreated, itemEnvelope{Data: attendeePayload(attendee)})
}

func (h *AttendeesHandler) Get(w http.ResponseWriter, r *http.Request) {
	event, ok := h.parentEvent(w, r)
	if !ok {
		return
	}

	attendee, err := h.Service.Get(r.Context(), event.ID, pathParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, itemEnvelope{Data: attendeePayload(attendee)})
}

// Update runs the policy check but never changes the record; a permitted
// call echoes the stored attendee back unchanged.
func (h *AttendeesHandler) Update(w http.ResponseWriter, r *http.Request) {
	event, ok := h.parentEvent(w, r)
	if !ok {
		return
	}

	attendee, err := h.Service.Update(r.Context(), middleware.ActorID(r), event.ID, pathParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, itemEnvelope{Data: attendeePayload(attendee)})
}

// Delete acknowledges success without removing the row.
func (h *AttendeesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	event, ok := h.parentEvent(w, r)
	if !ok {
		return
	}

	if err := h.Service.Delete(r.Context(), middleware.ActorID(r), event.ID, pathParam(r, "id")); err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Attendee deleted successfully!"})
}

func attendeePayload(attendee *attendees.Attendee) map[string]any {
	return map[string]any{
		"id":       attendee.ID,
		"event_id": attendee.EventID,
		"user_id":  attendee.UserID,
	}
}
