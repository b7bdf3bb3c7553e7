package domain

import "errors"

// Domain errors returned by the workspace service and sync adapters.

var (
	// ErrUnauthenticated indicates a mutation was attempted with no
	// resolved owner identity. Never retried.
	ErrUnauthenticated = errors.New("unauthenticated: no owner identity")

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrCategoryNotFound indicates the specified category does not exist.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrListNotFound indicates the specified list does not exist.
	ErrListNotFound = errors.New("list not found")

	// ErrItemNotFound indicates the specified item does not exist in the list.
	ErrItemNotFound = errors.New("item not found")

	// ErrSectionNotFound indicates the specified section does not exist in the list.
	ErrSectionNotFound = errors.New("section not found")

	// ErrCombinationNotFound indicates the specified combination does not exist.
	ErrCombinationNotFound = errors.New("combination not found")

	// ErrSessionNotFound indicates the specified session does not exist.
	ErrSessionNotFound = errors.New("session not found")

	// ErrNoteNotFound indicates the specified note does not exist.
	ErrNoteNotFound = errors.New("note not found")

	// ErrNameRequired indicates an empty or whitespace-only name.
	ErrNameRequired = errors.New("name is required")

	// ErrNameTooLong indicates a name longer than 255 characters.
	ErrNameTooLong = errors.New("name must be 255 characters or less")

	// ErrInvalidPriority indicates a priority outside low/medium/high.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrCombinationTooSmall indicates a combination with fewer than two
	// distinct list references.
	ErrCombinationTooSmall = errors.New("combination requires at least two distinct lists")
)
