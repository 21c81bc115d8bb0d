package types

import "errors"

// Domain errors for type validation
var (
	ErrEmptyProject = errors.New("project cannot be empty")
	ErrEmptyTitle   = errors.New("title cannot be empty")
	ErrInvalidScore = errors.New("score must be between 0 and 100")
)
