package store

import "errors"

// ErrInvalidEvent is returned when an event fails validation before insert.
var ErrInvalidEvent = errors.New("invalid event")
