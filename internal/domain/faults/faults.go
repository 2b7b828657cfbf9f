// Package faults defines the failure kinds with business meaning and the
// single table mapping each kind to an HTTP status and error view. Services
// raise these; the web layer resolves them exactly once.
package faults

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	// KindInternal covers everything without a defined business meaning.
	KindInternal Kind = iota
	KindNotFound
	KindUnauthorized
)

// NotFoundError signals that a requested entity does not exist. Repositories
// never raise it; a caller that required the entity to exist does.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func NotFound(message string) error {
	return &NotFoundError{Message: message}
}

func NotFoundf(format string, args ...any) error {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// UnauthorizedError signals that an authenticated actor attempted an
// operation on a resource they do not own or may not access.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string { return e.Message }

func Unauthorized(message string) error {
	return &UnauthorizedError{Message: message}
}

// UnauthorizedAccess formats the standard ownership-violation sentence.
func UnauthorizedAccess(username, resourceType string, resourceID any) error {
	return &UnauthorizedError{
		Message: fmt.Sprintf("User '%s' is not authorized to access %s with ID: %v",
			username, resourceType, resourceID),
	}
}

// KindOf classifies an error, unwrapping as needed. A nil error has no kind
// and classifies as internal; callers should not pass nil.
func KindOf(err error) Kind {
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return KindNotFound
	}
	var unauthorized *UnauthorizedError
	if errors.As(err, &unauthorized) {
		return KindUnauthorized
	}
	return KindInternal
}

// Mapping is the render target for a failure kind.
type Mapping struct {
	Status int
	View   string
}

var mappings = map[Kind]Mapping{
	KindNotFound:     {Status: http.StatusNotFound, View: "error/404"},
	KindUnauthorized: {Status: http.StatusForbidden, View: "error/403"},
	KindInternal:     {Status: http.StatusInternalServerError, View: "error/500"},
}

// MappingFor resolves the status and view for an error's kind.
func MappingFor(err error) Mapping {
	return mappings[KindOf(err)]
}
