package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/gatherly/server/internal/api/pagination"
	"github.com/gatherly/server/internal/domain/attendees"
	"github.com/jackc/pgx/v5"
)

var _ attendees.Repository = (*AttendeeRepository)(nil)

const attendeeColumns = "id, event_id, user_id, created_at"

func scanAttendee(row pgx.Row) (*attendees.Attendee, error) {
	var attendee attendees.Attendee
	err := row.Scan(&attendee.ID, &attendee.EventID, &attendee.UserID, &attendee.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, attendees.ErrNotFound
		}
		return nil, fmt.Errorf("scan attendee: %w", err)
	}
	return &attendee, nil
}

func (r *AttendeeRepository) ListByEvent(ctx context.Context, eventID string, page pagination.Params) ([]attendees.Attendee, int, error) {
	queryer := r.queryer()

	rows, err := queryer.Query(ctx, `
SELECT `+attendeeColumns+`, COUNT(*) OVER() AS total
  FROM attendees
 WHERE event_id = $1
 ORDER BY created_at DESC, id DESC
 LIMIT $2 OFFSET $3
`, eventID, page.PerPage, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list attendees: %w", err)
	}
	defer rows.Close()

	var total int
	items := make([]attendees.Attendee, 0, page.PerPage)
	for rows.Next() {
		var attendee attendees.Attendee
		if err := rows.Scan(&attendee.ID, &attendee.EventID, &attendee.UserID, &attendee.CreatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scan attendees: %w", err)
		}
		items = append(items, attendee)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate attendees: %w", err)
	}
	return items, total, nil
}

// GetScoped resolves the attendee only under the given event; a real
// attendee under another event is not found here.
func (r *AttendeeRepository) GetScoped(ctx context.Context, eventID string, attendeeID string) (*attendees.Attendee, error) {
	queryer := r.queryer()

	return scanAttendee(queryer.QueryRow(ctx, `
SELECT `+attendeeColumns+`
  FROM attendees
 WHERE event_id = $1 AND id = $2
`, eventID, attendeeID))
}

// Create inserts unconditionally; duplicate (event, user) pairs are
// allowed and produce distinct rows.
func (r *AttendeeRepository) Create(ctx context.Context, params attendees.CreateParams) (*attendees.Attendee, error) {
	queryer := r.queryer()

	return scanAttendee(queryer.QueryRow(ctx, `
INSERT INTO attendees (id, event_id, user_id)
VALUES ($1, $2, $3)
RETURNING `+attendeeColumns+`
`, params.ID, params.EventID, params.UserID))
}
