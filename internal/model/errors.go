package model

import "errors"

// Common errors used across the application
var (
	// Storage errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrTrailNotFound  = errors.New("trail not found")
	ErrWorldNotFound  = errors.New("world not found")
)
