package faults

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnauthorizedAccessMessage(t *testing.T) {
	err := UnauthorizedAccess("alice", "Ticket", 42)
	require.Equal(t, "User 'alice' is not authorized to access Ticket with ID: 42", err.Error())
}

func TestUnauthorizedAccessStringID(t *testing.T) {
	err := UnauthorizedAccess("bob", "Event", "7f3a")
	require.Equal(t, "User 'bob' is not authorized to access Event with ID: 7f3a", err.Error())
}

func TestKindOf(t *testing.T) {
	require.Equal(t, KindNotFound, KindOf(NotFound("Event 7 not found")))
	require.Equal(t, KindUnauthorized, KindOf(Unauthorized("nope")))
	require.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestKindOfUnwraps(t *testing.T) {
	wrapped := fmt.Errorf("load event: %w", NotFoundf("Event %d not found", 7))
	require.Equal(t, KindNotFound, KindOf(wrapped))
	require.Equal(t, "load event: Event 7 not found", wrapped.Error())
}

func TestMappingFor(t *testing.T) {
	mapping := MappingFor(NotFound("missing"))
	require.Equal(t, http.StatusNotFound, mapping.Status)
	require.Equal(t, "error/404", mapping.View)

	mapping = MappingFor(UnauthorizedAccess("alice", "Ticket", 42))
	require.Equal(t, http.StatusForbidden, mapping.Status)
	require.Equal(t, "error/403", mapping.View)

	mapping = MappingFor(errors.New("boom"))
	require.Equal(t, http.StatusInternalServerError, mapping.Status)
	require.Equal(t, "error/500", mapping.View)
}
