package vault

import "errors"

var (
	// ErrInvalidPath covers malformed or escaping request paths. Handlers
	// map it to 403 and never echo the offending path back.
	ErrInvalidPath = errors.New("invalid path")

	// ErrNotFound means the path was acceptable but nothing is there
	ErrNotFound = errors.New("file not found")
)
