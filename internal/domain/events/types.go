package events

import (
	"context"
	"errors"
	"time"

	"github.com/gatherly/server/internal/api/pagination"
)

var ErrNotFound = errors.New("event not found")

type Event struct {
	ID          string
	Name        string
	Description *string
	StartTime   time.Time
	EndTime     time.Time
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Relations, populated only when eager-loaded.
	Owner     *UserRef
	Attendees []Attendee
}

// UserRef is the slim user projection attached when the `user` or
// `attendees.user` relation is loaded.
type UserRef struct {
	ID    string
	Name  string
	Email string
}

type Attendee struct {
	ID        string
	EventID   string
	UserID    string
	CreatedAt time.Time

	User *UserRef
}

type CreateParams struct {
	ID          string
	Name        string
	Description *string
	StartTime   time.Time
	EndTime     time.Time
	OwnerID     string
}

type UpdateParams struct {
	Name        *string
	Description *string
	StartTime   *time.Time
	EndTime     *time.Time
}

type ListResult struct {
	Events    []Event
	Relations []string
	Meta      pagination.Meta
}

type Repository interface {
	// List returns a page of events ordered newest first, with the given
	// relations attached, plus the total row count.
	List(ctx context.Context, relations []string, page pagination.Params) ([]Event, int, error)
	GetByULID(ctx context.Context, ulid string, relations []string) (*Event, error)
	Create(ctx context.Context, params CreateParams) (*Event, error)
	Update(ctx context.Context, ulid string, params UpdateParams) (*Event, error)
	Delete(ctx context.Context, ulid string) error
}
