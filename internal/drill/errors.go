package drill

import (
	"errors"
	"fmt"
)

var (
	// ErrPersistence matches every *PersistenceError.
	ErrPersistence = errors.New("review state not saved")

	// ErrDataUnavailable means the content source could not fill a batch.
	ErrDataUnavailable = errors.New("not enough drill content")

	// ErrMalformedAction means an action identifier could not be parsed.
	ErrMalformedAction = errors.New("malformed action")

	// ErrNoHistory means fewer past batches exist than were asked for.
	ErrNoHistory = errors.New("not enough batch history")
)

// PersistenceError reports a failed review state load or save. The session
// did not advance; the same response may be sent again.
type PersistenceError struct {
	Op     string // "load" or "save"
	UserID string
	ItemID string
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s review state for %s/%s: %v", e.Op, e.UserID, e.ItemID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
