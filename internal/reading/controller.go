package reading

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/winglish-nk/Winglish-bot/internal/logger"
	"github.com/winglish-nk/Winglish-bot/internal/session"
	"github.com/winglish-nk/Winglish-bot/internal/store"
)

// Module is the study log module for reading results.
const Module = "reading"

// Generator produces a new exercise for a user.
type Generator interface {
	Generate(ctx context.Context, userID string) (*Exercise, error)
}

// Grader explains a pair of answers.
type Grader interface {
	Grade(ctx context.Context, req GradeRequest) (*Feedback, error)
}

// StudyLog receives graded results.
type StudyLog interface {
	AppendStudyLog(ctx context.Context, data store.StudyLogData) error
}

// Controller runs reading sessions. A user has at most one live session;
// callers address it by token, so an answer for a replaced exercise is
// not found.
type Controller struct {
	sessions *session.Registry[*Session] // keyed by user id

	mu     sync.Mutex
	owners map[string]string // token -> user id
	gen      Generator
	grader   Grader
	studyLog StudyLog
	clock    func() time.Time
	idle     time.Duration
	log      *logger.Logger
}

type Option func(*Controller)

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.clock = now }
}

func WithIdleTimeout(d time.Duration) Option {
	return func(c *Controller) { c.idle = d }
}

func WithStudyLog(l StudyLog) Option {
	return func(c *Controller) { c.studyLog = l }
}

func WithLogger(l *logger.Logger) Option {
	return func(c *Controller) { c.log = l }
}

func NewController(gen Generator, grader Grader, opts ...Option) *Controller {
	c := &Controller{
		gen:    gen,
		grader: grader,
		clock:  time.Now,
		idle:   session.DefaultIdleTimeout,
		log:    logger.Nop(),
		owners: make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.sessions = session.NewRegistry[*Session](c.clock)
	return c
}

// Start generates an exercise for userID and returns the first question.
func (c *Controller) Start(ctx context.Context, userID string) (*Session, Prompt, error) {
	ex, err := c.gen.Generate(ctx, userID)
	if err != nil {
		return nil, Prompt{}, fmt.Errorf("generating reading exercise: %w", err)
	}
	if err := ex.Validate(); err != nil {
		return nil, Prompt{}, err
	}

	s := newSession(userID, *ex, c.clock(), c.idle)
	c.mu.Lock()
	for token, owner := range c.owners {
		if owner == userID {
			delete(c.owners, token)
		}
	}
	c.owners[s.Token()] = userID
	c.sessions.Put(userID, s)
	c.mu.Unlock()
	c.log.Info("reading started", "user_id", userID, "token", s.Token())
	return s, s.prompt(1), nil
}

// Session returns the live session for token.
func (c *Controller) Session(token string) (*Session, error) {
	c.mu.Lock()
	userID, ok := c.owners[token]
	c.mu.Unlock()
	if !ok {
		return nil, session.ErrNotFound
	}
	s, err := c.sessions.Get(userID)
	if err != nil || s.Token() != token {
		return nil, session.ErrNotFound
	}
	return s, nil
}

// SubmitPhase1 records the answer to question 1 and returns question 2.
func (c *Controller) SubmitPhase1(ctx context.Context, token, answer string) (Prompt, error) {
	s, err := c.Session(token)
	if err != nil {
		return Prompt{}, err
	}
	if err := s.answer(1, normalizeKey(answer), c.clock()); err != nil {
		c.log.Debug("reading answer rejected", "token", token, "question", 1, "reason", err)
		return Prompt{}, err
	}
	return s.prompt(2), nil
}

// SubmitPhase2 records the answer to question 2 and grades both answers.
// The grader runs without holding any lock. If it fails the session goes
// back to waiting for question 2 and the answer may be submitted again.
func (c *Controller) SubmitPhase2(ctx context.Context, token, answer string) (*Result, error) {
	s, err := c.Session(token)
	if err != nil {
		return nil, err
	}
	if err := s.answer(2, normalizeKey(answer), c.clock()); err != nil {
		c.log.Debug("reading answer rejected", "token", token, "question", 2, "reason", err)
		return nil, err
	}

	fb, err := c.grader.Grade(ctx, s.gradeRequest())
	if err != nil {
		s.finish(nil, c.clock())
		c.log.Warn("grading reading answers", "token", token, "user_id", s.UserID(), "error", err)
		return nil, fmt.Errorf("grading reading answers: %w", err)
	}

	res := s.finish(fb, c.clock())
	c.record(ctx, s, res)
	c.log.Info("reading graded", "user_id", s.UserID(), "token", token, "score", res.Score)
	return res, nil
}

// Submit routes an answer to the phase named by question.
func (c *Controller) Submit(ctx context.Context, token string, question int, answer string) (*Prompt, *Result, error) {
	switch question {
	case 1:
		p, err := c.SubmitPhase1(ctx, token, answer)
		if err != nil {
			return nil, nil, err
		}
		return &p, nil, nil
	case 2:
		r, err := c.SubmitPhase2(ctx, token, answer)
		return nil, r, err
	}
	return nil, nil, ErrWrongPhase
}

// Cancel drops the session for token.
func (c *Controller) Cancel(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	userID, ok := c.owners[token]
	if !ok {
		return
	}
	delete(c.owners, token)
	if s, err := c.sessions.Get(userID); err == nil && s.Token() == token {
		c.sessions.RemoveIf(userID, s)
	}
}

func (c *Controller) record(ctx context.Context, s *Session, res *Result) {
	if c.studyLog == nil {
		return
	}
	raw, err := json.Marshal(res)
	if err != nil {
		c.log.Warn("encoding reading result", "token", res.Token, "error", err)
		return
	}
	data := store.StudyLogData{UserID: s.UserID(), Module: Module, ItemID: res.Token, Result: raw}
	if err := c.studyLog.AppendStudyLog(ctx, data); err != nil {
		c.log.Warn("recording reading result", "token", res.Token, "error", err)
	}
}

func normalizeKey(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
