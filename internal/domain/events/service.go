package events

import (
	"context"
	"fmt"
	"time"

	"github.com/gatherly/server/internal/api/pagination"
	"github.com/gatherly/server/internal/authz"
	"github.com/gatherly/server/internal/cache"
	"github.com/gatherly/server/internal/domain/ids"
	"github.com/gatherly/server/internal/metrics"
)

// listCacheTTL bounds how stale a cached listing page may be. Writes do
// not invalidate entries; the window is the only freshness guarantee.
const listCacheTTL = 60 * time.Second

type Service struct {
	repo  Repository
	cache *cache.Store
}

func NewService(repo Repository, store *cache.Store) *Service {
	return &Service{repo: repo, cache: store}
}

// List returns a page of events. The cache key is derived from the raw
// include parameter only: requests sharing an include string share one
// cached page, whatever `page` value they carry, until the TTL lapses.
func (s *Service) List(ctx context.Context, rawInclude string, page pagination.Params) (ListResult, error) {
	relations := ResolveInclude(EventRelations, rawInclude)

	key := "events:" + rawInclude
	computed := false
	value, err := s.cache.GetOrCompute(key, listCacheTTL, func() (any, error) {
		computed = true
		items, total, err := s.repo.List(ctx, relations, page)
		if err != nil {
			return nil, err
		}
		return ListResult{
			Events:    items,
			Relations: relations,
			Meta:      pagination.MetaFor(page, total),
		}, nil
	})
	if err != nil {
		return ListResult{}, err
	}
	if computed {
		metrics.EventCacheMisses.Inc()
	} else {
		metrics.EventCacheHits.Inc()
	}

	result, ok := value.(ListResult)
	if !ok {
		return ListResult{}, fmt.Errorf("unexpected cache entry for %q", key)
	}
	return result, nil
}

// Get fetches a single event with the requested relations attached.
// The resolved relation set is returned so the caller can shape the
// response consistently with what was loaded.
func (s *Service) Get(ctx context.Context, ulid string, rawInclude string) (*Event, []string, error) {
	relations := ResolveInclude(EventRelations, rawInclude)
	event, err := s.repo.GetByULID(ctx, ulid, relations)
	if err != nil {
		return nil, nil, err
	}
	return event, relations, nil
}

func (s *Service) Create(ctx context.Context, actorID string, in CreateInput) (*Event, error) {
	if err := authz.Event(actorID, authz.ActionCreate, ""); err != nil {
		return nil, err
	}

	values, err := in.validate()
	if err != nil {
		return nil, err
	}

	id, err := ids.NewULID()
	if err != nil {
		return nil, fmt.Errorf("mint event id: %w", err)
	}

	return s.repo.Create(ctx, CreateParams{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		StartTime:   values.start,
		EndTime:     values.end,
		OwnerID:     actorID,
	})
}

func (s *Service) Update(ctx context.Context, actorID string, ulid string, in UpdateInput) (*Event, error) {
	event, err := s.repo.GetByULID(ctx, ulid, nil)
	if err != nil {
		return nil, err
	}

	if err := authz.Event(actorID, authz.ActionUpdate, event.OwnerID); err != nil {
		return nil, err
	}

	values, err := in.validate(event)
	if err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, ulid, UpdateParams{
		Name:        in.Name,
		Description: in.Description,
		StartTime:   values.start,
		EndTime:     values.end,
	})
}

// Delete hard-deletes the event. Attendee rows are left in place; the
// contract makes no cleanup promise.
func (s *Service) Delete(ctx context.Context, actorID string, ulid string) error {
	event, err := s.repo.GetByULID(ctx, ulid, nil)
	if err != nil {
		return err
	}

	if err := authz.Event(actorID, authz.ActionDelete, event.OwnerID); err != nil {
		return err
	}

	return s.repo.Delete(ctx, ulid)
}
