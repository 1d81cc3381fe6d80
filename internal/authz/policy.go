// Package authz holds the per-resource authorization policies as pure
// decision functions. An empty actor ID means the request is anonymous.
package authz

import "errors"

type Action string

const (
	ActionViewAny Action = "viewAny"
	ActionView    Action = "view"
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
)

var (
	// ErrUnauthenticated means no identity was presented for an action
	// that requires one.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden means an identity was presented but the policy denies
	// the action.
	ErrForbidden = errors.New("forbidden")
)

// Event decides whether actorID may perform action on an event owned by
// ownerID. Reads are open to everyone, including anonymous callers.
// Mutations require the actor to be the owner.
func Event(actorID string, action Action, ownerID string) error {
	switch action {
	case ActionViewAny, ActionView:
		return nil
	case ActionCreate:
		if actorID == "" {
			return ErrUnauthenticated
		}
		return nil
	case ActionUpdate, ActionDelete:
		if actorID == "" {
			return ErrUnauthenticated
		}
		if actorID != ownerID {
			return ErrForbidden
		}
		return nil
	default:
		return ErrForbidden
	}
}

// Attendee decides whether actorID may perform action on an attendee
// record belonging to attendeeUserID. The update and delete handlers are
// deliberate no-ops, but the policy still runs and can deny before the
// no-op body is reached.
func Attendee(actorID string, action Action, attendeeUserID string) error {
	switch action {
	case ActionViewAny, ActionView:
		return nil
	case ActionCreate:
		if actorID == "" {
			return ErrUnauthenticated
		}
		return nil
	case ActionUpdate, ActionDelete:
		if actorID == "" {
			return ErrUnauthenticated
		}
		if actorID != attendeeUserID {
			return ErrForbidden
		}
		return nil
	default:
		return ErrForbidden
	}
}
