package events

import "strings"

// Relation names an event accepts in the `include` query parameter.
const (
	RelationUser          = "user"
	RelationAttendees     = "attendees"
	RelationAttendeesUser = "attendees.user"
)

// EventRelations is the allow-list of relations that may be eager-loaded
// onto an event, in attachment order: a parent relation always precedes
// its dotted child so nesting resolves deterministically.
var EventRelations = []string{RelationUser, RelationAttendees, RelationAttendeesUser}

// ResolveInclude intersects the caller-supplied include string with the
// allow-list. An absent or empty parameter loads nothing at all. Entries
// are split on commas without trimming and must match an allow-listed
// name exactly; unknown names are silently ignored. The result preserves
// the allow-list's order.
func ResolveInclude(allowed []string, raw string) []string {
	if raw == "" {
		return nil
	}

	requested := make(map[string]bool)
	for _, name := range strings.Split(raw, ",") {
		requested[name] = true
	}

	resolved := make([]string, 0, len(allowed))
	for _, name := range allowed {
		if requested[name] {
			resolved = append(resolved, name)
		}
	}
	return resolved
}

// HasRelation reports whether name is in the resolved relation set.
func HasRelation(relations []string, name string) bool {
	for _, rel := range relations {
		if rel == name {
			return true
		}
	}
	return false
}

// WantsAttendees reports whether the resolved set requires attendee rows,
// either directly or through the nested attendees.user relation.
func WantsAttendees(relations []string) bool {
	return HasRelation(relations, RelationAttendees) || HasRelation(relations, RelationAttendeesUser)
}
