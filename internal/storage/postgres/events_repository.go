package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/gatherly/server/internal/api/pagination"
	"github.com/gatherly/server/internal/domain/events"
	"github.com/jackc/pgx/v5"
)

var _ events.Repository = (*EventRepository)(nil)

const eventColumns = "id, name, description, start_time, end_time, owner_id, created_at, updated_at"

func scanEvent(row pgx.Row) (*events.Event, error) {
	var event events.Event
	err := row.Scan(
		&event.ID,
		&event.Name,
		&event.Description,
		&event.StartTime,
		&event.EndTime,
		&event.OwnerID,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, events.ErrNotFound
		}
		return nil, fmt.Errorf("scan event: %w", err)
	}
	return &event, nil
}

// List returns a page of events ordered newest first, with the resolved
// relations attached, plus the total row count.
func (r *EventRepository) List(ctx context.Context, relations []string, page pagination.Params) ([]events.Event, int, error) {
	queryer := r.queryer()

	rows, err := queryer.Query(ctx, `
SELECT `+eventColumns+`, COUNT(*) OVER() AS total
  FROM events
 ORDER BY created_at DESC, id DESC
 LIMIT $1 OFFSET $2
`, page.PerPage, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var total int
	items := make([]events.Event, 0, page.PerPage)
	for rows.Next() {
		var event events.Event
		if err := rows.Scan(
			&event.ID,
			&event.Name,
			&event.Description,
			&event.StartTime,
			&event.EndTime,
			&event.OwnerID,
			&event.CreatedAt,
			&event.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan events: %w", err)
		}
		items = append(items, event)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate events: %w", err)
	}

	if err := r.attachRelations(ctx, items, relations); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *EventRepository) GetByULID(ctx context.Context, ulid string, relations []string) (*events.Event, error) {
	queryer := r.queryer()

	event, err := scanEvent(queryer.QueryRow(ctx, `
SELECT `+eventColumns+`
  FROM events
 WHERE id = $1
`, ulid))
	if err != nil {
		return nil, err
	}

	items := []events.Event{*event}
	if err := r.attachRelations(ctx, items, relations); err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (r *EventRepository) Create(ctx context.Context, params events.CreateParams) (*events.Event, error) {
	queryer := r.queryer()

	return scanEvent(queryer.QueryRow(ctx, `
INSERT INTO events (id, name, description, start_time, end_time, owner_id)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING `+eventColumns+`
`, params.ID, params.Name, params.Description, params.StartTime, params.EndTime, params.OwnerID))
}

// Update writes only the supplied fields; nil params keep stored values.
func (r *EventRepository) Update(ctx context.Context, ulid string, params events.UpdateParams) (*events.Event, error) {
	queryer := r.queryer()

	return scanEvent(queryer.QueryRow(ctx, `
UPDATE events
   SET name        = COALESCE($2, name),
       description = COALESCE($3, description),
       start_time  = COALESCE($4, start_time),
       end_time    = COALESCE($5, end_time),
       updated_at  = now()
 WHERE id = $1
RETURNING `+eventColumns+`
`, ulid, params.Name, params.Description, params.StartTime, params.EndTime))
}

// Delete removes the event row only. Attendee rows referencing it are
// left behind.
func (r *EventRepository) Delete(ctx context.Context, ulid string) error {
	queryer := r.queryer()

	tag, err := queryer.Exec(ctx, `DELETE FROM events WHERE id = $1`, ulid)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return events.ErrNotFound
	}
	return nil
}

// attachRelations batch-loads the requested relations for the events in
// place: one query per relation, not one per event.
func (r *EventRepository) attachRelations(ctx context.Context, items []events.Event, relations []string) error {
	if len(items) == 0 || len(relations) == 0 {
		return nil
	}

	eventIDs := make([]string, 0, len(items))
	for i := range items {
		eventIDs = append(eventIDs, items[i].ID)
	}

	if events.HasRelation(relations, events.RelationUser) {
		ownerIDs := make([]string, 0, len(items))
		for i := range items {
			ownerIDs = append(ownerIDs, items[i].OwnerID)
		}
		owners, err := r.loadUserRefs(ctx, ownerIDs)
		if err != nil {
			return err
		}
		for i := range items {
			items[i].Owner = owners[items[i].OwnerID]
		}
	}

	if events.WantsAttendees(relations) {
		withUser := events.HasRelation(relations, events.RelationAttendeesUser)
		if err := r.attachAttendees(ctx, items, eventIDs, withUser); err != nil {
			return err
		}
	}
	return nil
}

func (r *EventRepository) attachAttendees(ctx context.Context, items []events.Event, eventIDs []string, withUser bool) error {
	queryer := r.queryer()

	rows, err := queryer.Query(ctx, `
SELECT id, event_id, user_id, created_at
  FROM attendees
 WHERE event_id = ANY($1)
 ORDER BY created_at DESC, id DESC
`, eventIDs)
	if err != nil {
		return fmt.Errorf("load attendees: %w", err)
	}
	defer rows.Close()

	byEvent := make(map[string][]events.Attendee)
	userIDs := make([]string, 0)
	for rows.Next() {
		var attendee events.Attendee
		if err := rows.Scan(&attendee.ID, &attendee.EventID, &attendee.UserID, &attendee.CreatedAt); err != nil {
			return fmt.Errorf("scan attendee: %w", err)
		}
		byEvent[attendee.EventID] = append(byEvent[attendee.EventID], attendee)
		userIDs = append(userIDs, attendee.UserID)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate attendees: %w", err)
	}

	if withUser && len(userIDs) > 0 {
		userRefs, err := r.loadUserRefs(ctx, userIDs)
		if err != nil {
			return err
		}
		for eventID, list := range byEvent {
			for i := range list {
				list[i].User = userRefs[list[i].UserID]
			}
			byEvent[eventID] = list
		}
	}

	for i := range items {
		attendees := byEvent[items[i].ID]
		if attendees == nil {
			attendees = []events.Attendee{}
		}
		items[i].Attendees = attendees
	}
	return nil
}

func (r *EventRepository) loadUserRefs(ctx context.Context, userIDs []string) (map[string]*events.UserRef, error) {
	queryer := r.queryer()

	rows, err := queryer.Query(ctx, `
SELECT id, name, email
  FROM users
 WHERE id = ANY($1)
`, dedupe(userIDs))
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	defer rows.Close()

	refs := make(map[string]*events.UserRef)
	for rows.Next() {
		var ref events.UserRef
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.Email); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		refs[ref.ID] = &ref
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return refs, nil
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		out = append(out, value)
	}
	return out
}
