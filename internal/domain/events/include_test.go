package events

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveIncludeEmptyParamLoadsNothing(t *testing.T) {
	require.Nil(t, ResolveInclude(EventRelations, ""))
}

func TestResolveIncludeSingleRelation(t *testing.T) {
	resolved := ResolveInclude(EventRelations, "attendees")
	require.Equal(t, []string{"attendees"}, resolved)
}

func TestResolveIncludePreservesAllowListOrder(t *testing.T) {
	// Caller order is irrelevant: the allow-list decides attachment
	// order so `attendees` always precedes `attendees.user`.
	resolved := ResolveInclude(EventRelations, "attendees.user,user,attendees")
	require.Equal(t, []string{"user", "attendees", "attendees.user"}, resolved)
}

func TestResolveIncludeIgnoresUnknownNames(t *testing.T) {
	resolved := ResolveInclude(EventRelations, "user,tickets,owner")
	require.Equal(t, []string{"user"}, resolved)
}

func TestResolveIncludeOnlyUnknownNames(t *testing.T) {
	resolved := ResolveInclude(EventRelations, "tickets,venue")
	require.Empty(t, resolved)
}

func TestResolveIncludeNoWhitespaceTrimming(t *testing.T) {
	// Entries must match exactly; " attendees" is not "attendees".
	resolved := ResolveInclude(EventRelations, "user, attendees")
	require.Equal(t, []string{"user"}, resolved)
}

func TestResolveIncludeNestedWithoutParent(t *testing.T) {
	resolved := ResolveInclude(EventRelations, "attendees.user")
	require.Equal(t, []string{"attendees.user"}, resolved)
	require.True(t, WantsAttendees(resolved))
}

func TestHasRelation(t *testing.T) {
	relations := []string{"user", "attendees"}
	require.True(t, HasRelation(relations, "user"))
	require.False(t, HasRelation(relations, "attendees.user"))
	require.False(t, HasRelation(nil, "user"))
}

func TestWantsAttendees(t *testing.T) {
	require.True(t, WantsAttendees([]string{"attendees"}))
	require.True(t, WantsAttendees([]string{"attendees.user"}))
	require.False(t, WantsAttendees([]string{"user"}))
	require.False(t, WantsAttendees(nil))
}
