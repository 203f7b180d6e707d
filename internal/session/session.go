package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/winglish-nk/Winglish-bot/internal/content"
)

// MaxItems is the largest batch a session accepts.
const MaxItems = 10

// DefaultIdleTimeout is how long a session survives without activity.
const DefaultIdleTimeout = 180 * time.Second

// Result records how an item left the session.
type Result int

const (
	ResultPassed Result = iota
	ResultFailed
	ResultSkipped
)

// Session is one user's live drill over a fixed batch of items.
// All methods are safe for concurrent use.
type Session struct {
	batchID     string
	userID      string
	module      string
	items       []content.Item
	createdAt   time.Time
	idleTimeout time.Duration

	mu           sync.Mutex
	index        int
	busy         bool
	lastActivity time.Time
	tally        [3]int
}

// New creates a session over items with a fresh batch id.
func New(userID, module string, items []content.Item, now time.Time, idleTimeout time.Duration) (*Session, error) {
	if len(items) == 0 || len(items) > MaxItems {
		return nil, fmt.Errorf("%w: %d items", ErrBatchSize, len(items))
	}
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	return &Session{
		batchID:      uuid.New().String(),
		userID:       userID,
		module:       module,
		items:        append([]content.Item(nil), items...),
		createdAt:    now,
		idleTimeout:  idleTimeout,
		lastActivity: now,
	}, nil
}

func (s *Session) BatchID() string      { return s.batchID }
func (s *Session) UserID() string       { return s.userID }
func (s *Session) Module() string       { return s.module }
func (s *Session) Len() int             { return len(s.items) }
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// Items returns a copy of the batch.
func (s *Session) Items() []content.Item {
	return append([]content.Item(nil), s.items...)
}

// Index returns the position of the current item.
func (s *Session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Done reports whether every item has been answered or skipped.
func (s *Session) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index >= len(s.items)
}

// Current returns the item being presented. ok is false once the session is done.
func (s *Session) Current() (item content.Item, index int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index >= len(s.items) {
		return content.Item{}, s.index, false
	}
	return s.items[s.index], s.index, true
}

// Expired reports whether the session has been idle past its timeout.
func (s *Session) Expired(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastActivity) >= s.idleTimeout
}

// Touch records activity without changing position.
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	s.lastActivity = now
	s.mu.Unlock()
}

// Begin claims the session for processing a response to itemID. An empty
// itemID claims whatever item is current. A completed session is terminal
// and gives ErrNotFound. Exactly one caller wins; the winner must call
// Commit or Abort.
func (s *Session) Begin(itemID string, now time.Time) (content.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return content.Item{}, ErrBusy
	}
	if s.index >= len(s.items) {
		return content.Item{}, ErrNotFound
	}
	cur := s.items[s.index]
	if itemID != "" && cur.ID != itemID {
		return content.Item{}, ErrStaleResponse
	}

	s.busy = true
	s.lastActivity = now
	return cur, nil
}

// Commit advances past the claimed item and releases the claim.
// It returns true when the session has just completed.
func (s *Session) Commit(r Result, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.busy {
		return s.index >= len(s.items)
	}
	s.busy = false
	s.index++
	s.lastActivity = now
	if r >= ResultPassed && r <= ResultSkipped {
		s.tally[r]++
	}
	return s.index >= len(s.items)
}

// Abort releases the claim without advancing.
func (s *Session) Abort() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

// Summary is the running tally of a session.
type Summary struct {
	BatchID  string
	Module   string
	Total    int
	Answered int
	Passed   int
	Failed   int
	Skipped  int
	Elapsed  time.Duration
}

// Summary returns the running tally.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summary{
		BatchID:  s.batchID,
		Module:   s.module,
		Total:    len(s.items),
		Answered: s.index,
		Passed:   s.tally[ResultPassed],
		Failed:   s.tally[ResultFailed],
		Skipped:  s.tally[ResultSkipped],
		Elapsed:  s.lastActivity.Sub(s.createdAt),
	}
}
