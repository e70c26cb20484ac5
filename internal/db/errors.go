package db

import "errors"

// Domain-level database error sentinels.
var (
	// Generation errors
	ErrGenerationNotFound = errors.New("generation not found")
)
