// Package drill runs vocabulary drills: it owns each user's live session,
// grades responses with the spaced repetition scheduler and persists the
// resulting review states.
package drill

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/winglish-nk/Winglish-bot/internal/content"
	"github.com/winglish-nk/Winglish-bot/internal/logger"
	"github.com/winglish-nk/Winglish-bot/internal/session"
	"github.com/winglish-nk/Winglish-bot/internal/spacedrep"
	"github.com/winglish-nk/Winglish-bot/internal/store"
)

// Batch log modules.
const (
	ModuleVocab  = "vocab"
	ModuleWeak   = "weak"
	ModuleReview = "review"
	ModuleQuiz   = "quiz"
)

// Qualities for items graded by answer rather than by self-assessment.
const (
	QualityCorrect   = spacedrep.QualityKnown
	QualityIncorrect = spacedrep.Quality(1)
)

// ReviewStore loads and saves review states.
type ReviewStore interface {
	// Get returns nil, nil when the item was never graded.
	Get(ctx context.Context, userID, itemID string) (*spacedrep.ReviewState, error)
	Upsert(ctx context.Context, userID, itemID string, rs spacedrep.ReviewState) error
	ListByUser(ctx context.Context, userID string) ([]spacedrep.Entry, error)
}

// BatchLog is the append-only history of started batches.
type BatchLog interface {
	// Record is a no-op for a batch id already recorded.
	Record(ctx context.Context, rec store.BatchRecord) error
	Recent(ctx context.Context, userID, module string, limit, offset int) ([]store.BatchRecord, error)
}

// Controller drives drills for many users at once. Each user has at most
// one live session.
type Controller struct {
	sessions  *session.Registry[*session.Session]
	reviews   ReviewStore
	items     content.Source
	batches   BatchLog
	clock     func() time.Time
	loc       *time.Location
	idle      time.Duration
	batchSize int
	log       *logger.Logger
}

type Option func(*Controller)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.clock = now }
}

// WithLocation sets the zone that defines "today" for review dates.
func WithLocation(loc *time.Location) Option {
	return func(c *Controller) { c.loc = loc }
}

func WithIdleTimeout(d time.Duration) Option {
	return func(c *Controller) { c.idle = d }
}

func WithBatchSize(n int) Option {
	return func(c *Controller) { c.batchSize = n }
}

func WithLogger(l *logger.Logger) Option {
	return func(c *Controller) { c.log = l }
}

func NewController(reviews ReviewStore, items content.Source, batches BatchLog, opts ...Option) *Controller {
	c := &Controller{
		reviews:   reviews,
		items:     items,
		batches:   batches,
		clock:     time.Now,
		loc:       time.Local,
		idle:      session.DefaultIdleTimeout,
		batchSize: session.MaxItems,
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.batchSize <= 0 || c.batchSize > session.MaxItems {
		c.batchSize = session.MaxItems
	}
	c.sessions = session.NewRegistry[*session.Session](c.clock)
	return c
}

func (c *Controller) now() time.Time {
	return c.clock().In(c.loc)
}

// Presentation is what the user should see next.
type Presentation struct {
	BatchID  string
	Item     content.Item
	Position int // 1-based
	Total    int
	Complete bool
}

// OutcomeKind says whether a drill moved on or finished.
type OutcomeKind int

const (
	OutcomeAdvance OutcomeKind = iota
	OutcomeComplete
)

// Outcome is the result of handling one response.
type Outcome struct {
	Kind OutcomeKind
	// Next is the item to present; Complete is set on it when the drill ended.
	Next    Presentation
	Summary session.Summary
	// State is the review state written for the answered item; nil for skips.
	State *spacedrep.ReviewState
}

// StartDrill begins a drill over items for userID, replacing any session
// the user already had.
func (c *Controller) StartDrill(ctx context.Context, userID, module string, items []content.Item) (*session.Session, error) {
	if len(items) > c.batchSize {
		return nil, fmt.Errorf("%w: %d items, limit %d", session.ErrBatchSize, len(items), c.batchSize)
	}
	for i := range items {
		if err := items[i].Validate(); err != nil {
			return nil, err
		}
	}

	now := c.now()
	s, err := session.New(userID, module, items, now, c.idle)
	if err != nil {
		return nil, err
	}
	c.sessions.Put(userID, s)

	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	rec := store.BatchRecord{BatchID: s.BatchID(), UserID: userID, Module: module, ItemIDs: ids, CreatedAt: now}
	if err := c.batches.Record(ctx, rec); err != nil {
		c.log.Warn("recording batch", "user_id", userID, "batch_id", s.BatchID(), "error", err)
	}

	c.log.Info("drill started", "user_id", userID, "module", module, "batch_id", s.BatchID(), "items", len(items))
	return s, nil
}

// StartRandom fills a batch of count items from the content source and
// starts a drill over it. count <= 0 means the configured batch size.
func (c *Controller) StartRandom(ctx context.Context, userID, module string, count int, f content.Filter) (*session.Session, error) {
	if count <= 0 || count > c.batchSize {
		count = c.batchSize
	}
	items, err := c.items.FetchRandom(ctx, count, f)
	if err != nil && !errors.Is(err, content.ErrNotEnough) {
		return nil, fmt.Errorf("fetching drill items: %w", err)
	}
	if len(items) < count {
		return nil, fmt.Errorf("%w: wanted %d items, found %d", ErrDataUnavailable, count, len(items))
	}
	return c.StartDrill(ctx, userID, module, items[:count])
}

// Session returns the user's live session.
func (c *Controller) Session(userID string) (*session.Session, error) {
	return c.sessions.Get(userID)
}

// Present describes the current state of s.
func (c *Controller) Present(s *session.Session) Presentation {
	item, idx, ok := s.Current()
	p := Presentation{BatchID: s.BatchID(), Position: idx + 1, Total: s.Len()}
	if !ok {
		p.Position = s.Len()
		p.Complete = true
		return p
	}
	p.Item = item
	return p
}

// RecordResponse grades the current item of s. itemID must name the item
// being presented; an empty itemID means whichever item is current.
//
// s must still be the user's live session: an expired, completed,
// cancelled or replaced session gets session.ErrNotFound. The session is
// claimed before any I/O, so of two concurrent responses one proceeds and
// the other gets session.ErrBusy. If the review state cannot be loaded or
// saved the claim is released without advancing and a *PersistenceError is
// returned.
func (c *Controller) RecordResponse(ctx context.Context, s *session.Session, itemID string, q spacedrep.Quality) (Outcome, error) {
	if live, err := c.sessions.Get(s.UserID()); err != nil || live != s {
		c.log.Debug("response for dead session", "user_id", s.UserID(), "batch_id", s.BatchID())
		return Outcome{}, session.ErrNotFound
	}

	now := c.now()
	item, err := s.Begin(itemID, now)
	if err != nil {
		c.log.Debug("response rejected", "user_id", s.UserID(), "item_id", itemID, "reason", err)
		return Outcome{}, err
	}
	committed := false
	defer func() {
		if !committed {
			s.Abort()
		}
	}()

	prev, err := c.reviews.Get(ctx, s.UserID(), item.ID)
	if err != nil {
		c.log.Warn("loading review state", "user_id", s.UserID(), "item_id", item.ID, "error", err)
		return Outcome{}, &PersistenceError{Op: "load", UserID: s.UserID(), ItemID: item.ID, Err: err}
	}

	next := spacedrep.Schedule(prev, q, now)
	if err := c.reviews.Upsert(ctx, s.UserID(), item.ID, next); err != nil {
		c.log.Error("saving review state", "user_id", s.UserID(), "item_id", item.ID, "error", err)
		return Outcome{}, &PersistenceError{Op: "save", UserID: s.UserID(), ItemID: item.ID, Err: err}
	}

	result := session.ResultFailed
	if q.Passed() {
		result = session.ResultPassed
	}
	committed = true
	out := c.advance(s, result, now)
	out.State = &next
	return out, nil
}

// Respond looks up the user's session and records a response for itemID.
// A non-empty batchID must match the live session's batch.
func (c *Controller) Respond(ctx context.Context, userID, batchID, itemID string, q spacedrep.Quality) (Outcome, error) {
	s, err := c.live(userID, batchID)
	if err != nil {
		return Outcome{}, err
	}
	return c.RecordResponse(ctx, s, itemID, q)
}

// Answer grades a choice or free-text answer against the current item.
func (c *Controller) Answer(ctx context.Context, userID, batchID, itemID, answer string) (Outcome, bool, error) {
	s, err := c.live(userID, batchID)
	if err != nil {
		return Outcome{}, false, err
	}
	item, _, ok := s.Current()
	if !ok || (itemID != "" && item.ID != itemID) {
		return Outcome{}, false, session.ErrStaleResponse
	}

	correct := item.Correct(content.Sanitize(answer))
	q := QualityIncorrect
	if correct {
		q = QualityCorrect
	}
	out, err := c.RecordResponse(ctx, s, item.ID, q)
	return out, correct, err
}

// Skip moves past the current item without grading it.
func (c *Controller) Skip(ctx context.Context, userID, batchID string) (Outcome, error) {
	s, err := c.live(userID, batchID)
	if err != nil {
		return Outcome{}, err
	}
	now := c.now()
	if _, err := s.Begin("", now); err != nil {
		return Outcome{}, err
	}
	return c.advance(s, session.ResultSkipped, now), nil
}

// Cancel abandons the user's live session, if any.
func (c *Controller) Cancel(userID string) (session.Summary, error) {
	s, err := c.sessions.Get(userID)
	if err != nil {
		return session.Summary{}, err
	}
	c.sessions.RemoveIf(userID, s)
	c.log.Info("drill cancelled", "user_id", userID, "batch_id", s.BatchID())
	return s.Summary(), nil
}

// Handle dispatches a decoded action for userID. Menu actions start a new
// drill and return its first item as an Advance outcome.
func (c *Controller) Handle(ctx context.Context, userID, batchID string, a Action) (Outcome, error) {
	switch a.Kind {
	case ActionKnown, ActionUnsure:
		q, _ := a.Quality()
		return c.Respond(ctx, userID, batchID, a.ItemID, q)
	case ActionNext:
		return c.Skip(ctx, userID, batchID)
	case ActionTen:
		return c.started(c.StartRandom(ctx, userID, ModuleVocab, 0, content.Filter{Kind: content.KindCard}))
	case ActionPrevPrev:
		return c.started(c.BatchBack(ctx, userID, ModuleVocab, 2))
	case ActionWeak:
		return c.started(c.StartWeak(ctx, userID))
	}
	return Outcome{}, fmt.Errorf("%w: %s is not a vocabulary action", ErrMalformedAction, a.Kind)
}

func (c *Controller) started(s *session.Session, err error) (Outcome, error) {
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Kind: OutcomeAdvance, Next: c.Present(s), Summary: s.Summary()}, nil
}

func (c *Controller) live(userID, batchID string) (*session.Session, error) {
	s, err := c.sessions.Get(userID)
	if err != nil {
		return nil, err
	}
	if batchID != "" && s.BatchID() != batchID {
		return nil, session.ErrStaleResponse
	}
	return s, nil
}

func (c *Controller) advance(s *session.Session, r session.Result, now time.Time) Outcome {
	done := s.Commit(r, now)
	out := Outcome{Kind: OutcomeAdvance, Next: c.Present(s), Summary: s.Summary()}
	if done {
		out.Kind = OutcomeComplete
		c.sessions.RemoveIf(s.UserID(), s)
		c.log.Info("drill complete", "user_id", s.UserID(), "batch_id", s.BatchID(),
			"passed", out.Summary.Passed, "failed", out.Summary.Failed, "skipped", out.Summary.Skipped)
	}
	return out
}
