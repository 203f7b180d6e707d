package session

import "errors"

var (
	// ErrNotFound means no live session exists for the key, or it expired.
	ErrNotFound = errors.New("session not found")

	// ErrStaleResponse means the response names an item or batch that is
	// not the one currently presented.
	ErrStaleResponse = errors.New("stale response")

	// ErrBusy means another response for the same session is in flight.
	ErrBusy = errors.New("session busy")

	// ErrBatchSize means the session was created with no items or too many.
	ErrBatchSize = errors.New("invalid batch size")
)
