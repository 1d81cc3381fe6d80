package attendees

import (
	"context"
	"fmt"

	"github.com/gatherly/server/internal/api/pagination"
	"github.com/gatherly/server/internal/authz"
	"github.com/gatherly/server/internal/domain/ids"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, eventID string, page pagination.Params) (ListResult, error) {
	items, total, err := s.repo.ListByEvent(ctx, eventID, page)
	if err != nil {
		return ListResult{}, err
	}
	return ListResult{Attendees: items, Meta: pagination.MetaFor(page, total)}, nil
}

// Register records the actor as an attendee of the event. Any
// authenticated actor may register for any event, and nothing prevents
// registering twice; repeated calls create separate records.
func (s *Service) Register(ctx context.Context, actorID string, eventID string) (*Attendee, error) {
	if err := authz.Attendee(actorID, authz.ActionCreate, ""); err != nil {
		return nil, err
	}

	id, err := ids.NewULID()
	if err != nil {
		return nil, fmt.Errorf("mint attendee id: %w", err)
	}

	return s.repo.Create(ctx, CreateParams{
		ID:      id,
		EventID: eventID,
		UserID:  actorID,
	})
}

func (s *Service) Get(ctx context.Context, eventID string, attendeeID string) (*Attendee, error) {
	return s.repo.GetScoped(ctx, eventID, attendeeID)
}

// Update is a documented no-op: the policy check still runs and can
// deny, but a permitted call changes nothing and returns the stored
// record as-is.
func (s *Service) Update(ctx context.Context, actorID string, eventID string, attendeeID string) (*Attendee, error) {
	attendee, err := s.repo.GetScoped(ctx, eventID, attendeeID)
	if err != nil {
		return nil, err
	}

	if err := authz.Attendee(actorID, authz.ActionUpdate, attendee.UserID); err != nil {
		return nil, err
	}

	return attendee, nil
}

// Delete runs the policy check and acknowledges success without removing
// the record. The row survives a permitted delete; do not "fix" this
// without a contract change.
func (s *Service) Delete(ctx context.Context, actorID string, eventID string, attendeeID string) error {
	attendee, err := s.repo.GetScoped(ctx, eventID, attendeeID)
	if err != nil {
		return err
	}

	return authz.Attendee(actorID, authz.ActionDelete, attendee.UserID)
}
