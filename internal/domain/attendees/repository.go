package attendees

import (
	"context"
	"errors"
	"time"

	"github.com/gatherly/server/internal/api/pagination"
)

var ErrNotFound = errors.New("attendee not found")

type Attendee struct {
	ID        string
	EventID   string
	UserID    string
	CreatedAt time.Time
}

type CreateParams struct {
	ID      string
	EventID string
	UserID  string
}

type ListResult struct {
	Attendees []Attendee
	Meta      pagination.Meta
}

type Repository interface {
	// ListByEvent returns a page of attendees for the event, newest
	// first, plus the total count.
	ListByEvent(ctx context.Context, eventID string, page pagination.Params) ([]Attendee, int, error)
	// GetScoped resolves an attendee only within the given event; an
	// attendee that exists under a different event is ErrNotFound.
	GetScoped(ctx context.Context, eventID string, attendeeID string) (*Attendee, error)
	Create(ctx context.Context, params CreateParams) (*Attendee, error)
}
