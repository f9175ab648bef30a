package repoerrs

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	// ErrMissingField is a NOT NULL violation on insert.
	ErrMissingField = errors.New("required column is empty")
)
