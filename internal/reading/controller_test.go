package reading

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/winglish-nk/Winglish-bot/internal/session"
	"github.com/winglish-nk/Winglish-bot/internal/store"
)

func testExercise() *Exercise {
	return &Exercise{
		Passage: "The Riverside Library will close early on Friday for staff training. Returned books may be left in the drop box by the main entrance.",
		Questions: [Questions]Question{
			{Text: "Why will the library close early?", Choices: []string{"A holiday", "Staff training", "Repairs", "A storm"}, Answer: "B"},
			{Text: "Where can books be returned?", Choices: []string{"The front desk", "The café", "The drop box", "The parking lot"}, Answer: "C"},
		},
	}
}

type fakeGenerator struct {
	ex  *Exercise
	err error
}

func (g *fakeGenerator) Generate(context.Context, string) (*Exercise, error) {
	if g.err != nil {
		return nil, g.err
	}
	ex := *g.ex
	return &ex, nil
}

type fakeGrader struct {
	mu    sync.Mutex
	calls []GradeRequest
	errs  []error
	// gate, when set, holds Grade until closed.
	gate    chan struct{}
	entered chan struct{}
}

func (g *fakeGrader) Grade(_ context.Context, req GradeRequest) (*Feedback, error) {
	if g.entered != nil {
		g.entered <- struct{}{}
	}
	if g.gate != nil {
		<-g.gate
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, req)
	if len(g.errs) > 0 {
		err := g.errs[0]
		g.errs = g.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &Feedback{
		Questions: []QuestionFeedback{{Reason: "r1", Feedback: "f1"}, {Reason: "r2", Feedback: "f2"}},
		Overall:   "good",
	}, nil
}

type fakeStudyLog struct {
	mu   sync.Mutex
	logs []store.StudyLogData
	err  error
}

func (f *fakeStudyLog) AppendStudyLog(_ context.Context, d store.StudyLogData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs = append(f.logs, d)
	return f.err
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestController(grader *fakeGrader, opts ...Option) (*Controller, *clock) {
	clk := &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	opts = append([]Option{WithClock(clk.Now)}, opts...)
	return NewController(&fakeGenerator{ex: testExercise()}, grader, opts...), clk
}

func TestReadingFlow(t *testing.T) {
	grader := &fakeGrader{}
	studyLog := &fakeStudyLog{}
	c, _ := newTestController(grader, WithStudyLog(studyLog))
	ctx := context.Background()

	s, p1, err := c.Start(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, p1.Number)
	assert.Equal(t, []string{"A", "B", "C", "D"}, p1.Keys)
	assert.Equal(t, s.Token(), p1.Token)
	assert.Equal(t, AwaitingPhase1, s.Phase())

	p2, err := c.SubmitPhase1(ctx, s.Token(), " b ")
	require.NoError(t, err)
	assert.Equal(t, 2, p2.Number)
	assert.Equal(t, "Where can books be returned?", p2.Text)
	assert.Equal(t, AwaitingPhase2, s.Phase())

	res, err := c.SubmitPhase2(ctx, s.Token(), "A")
	require.NoError(t, err)
	assert.Equal(t, Graded, s.Phase())
	assert.Equal(t, [Questions]string{"B", "A"}, res.Answers)
	assert.Equal(t, [Questions]bool{true, false}, res.Correct)
	assert.Equal(t, 1, res.Score)
	assert.Equal(t, "good", res.Feedback.Overall)

	require.Len(t, grader.calls, 1)
	req := grader.calls[0]
	assert.Equal(t, [Questions]string{"B", "A"}, req.Answers)
	assert.Equal(t, "B", req.Questions[0].Answer)
	assert.Equal(t, "C", req.Questions[1].Answer)

	require.Len(t, studyLog.logs, 1)
	assert.Equal(t, Module, studyLog.logs[0].Module)
	var logged Result
	require.NoError(t, json.Unmarshal(studyLog.logs[0].Result, &logged))
	assert.Equal(t, 1, logged.Score)

	_, err = c.SubmitPhase2(ctx, s.Token(), "C")
	assert.ErrorIs(t, err, ErrAlreadyGraded)
	_, err = c.SubmitPhase1(ctx, s.Token(), "B")
	assert.ErrorIs(t, err, ErrAlreadyGraded)
	assert.Len(t, grader.calls, 1)
}

func TestSubmit_WrongPhaseAndInvalidChoice(t *testing.T) {
	c, _ := newTestController(&fakeGrader{})
	ctx := context.Background()
	s, _, err := c.Start(ctx, "u1")
	require.NoError(t, err)

	_, err = c.SubmitPhase2(ctx, s.Token(), "A")
	assert.ErrorIs(t, err, ErrWrongPhase)

	_, err = c.SubmitPhase1(ctx, s.Token(), "E")
	assert.ErrorIs(t, err, ErrInvalidChoice)
	_, err = c.SubmitPhase1(ctx, s.Token(), "")
	assert.ErrorIs(t, err, ErrInvalidChoice)
	assert.Equal(t, AwaitingPhase1, s.Phase())

	_, err = c.SubmitPhase1(ctx, s.Token(), "A")
	require.NoError(t, err)
	_, err = c.SubmitPhase1(ctx, s.Token(), "A")
	assert.ErrorIs(t, err, ErrWrongPhase)

	_, _, err = c.Submit(ctx, s.Token(), 3, "A")
	assert.ErrorIs(t, err, ErrWrongPhase)
}

func TestSubmit_UnknownToken(t *testing.T) {
	c, _ := newTestController(&fakeGrader{})
	_, err := c.SubmitPhase1(context.Background(), "nope", "A")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestSubmitPhase2_GraderFailureAllowsRetry(t *testing.T) {
	grader := &fakeGrader{errs: []error{errors.New("provider down")}}
	studyLog := &fakeStudyLog{}
	c, _ := newTestController(grader, WithStudyLog(studyLog))
	ctx := context.Background()

	s, _, err := c.Start(ctx, "u1")
	require.NoError(t, err)
	_, err = c.SubmitPhase1(ctx, s.Token(), "B")
	require.NoError(t, err)

	_, err = c.SubmitPhase2(ctx, s.Token(), "C")
	require.Error(t, err)
	assert.Equal(t, AwaitingPhase2, s.Phase())
	assert.Nil(t, s.Result())
	assert.Empty(t, studyLog.logs)

	res, err := c.SubmitPhase2(ctx, s.Token(), "C")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Score)
	assert.Len(t, grader.calls, 2)
}

func TestSubmitPhase2_ConcurrentGradesOnce(t *testing.T) {
	grader := &fakeGrader{gate: make(chan struct{}), entered: make(chan struct{}, 1)}
	c, _ := newTestController(grader)
	ctx := context.Background()

	s, _, err := c.Start(ctx, "u1")
	require.NoError(t, err)
	_, err = c.SubmitPhase1(ctx, s.Token(), "B")
	require.NoError(t, err)

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = c.SubmitPhase2(ctx, s.Token(), "C")
	}()

	<-grader.entered
	assert.Equal(t, Grading, s.Phase())
	_, err = c.SubmitPhase2(ctx, s.Token(), "C")
	assert.ErrorIs(t, err, session.ErrBusy)

	close(grader.gate)
	wg.Wait()
	require.NoError(t, firstErr)
	assert.Len(t, grader.calls, 1)
}

func TestStudyLogFailureIsNotFatal(t *testing.T) {
	c, _ := newTestController(&fakeGrader{}, WithStudyLog(&fakeStudyLog{err: errors.New("readonly")}))
	ctx := context.Background()
	s, _, err := c.Start(ctx, "u1")
	require.NoError(t, err)
	_, err = c.SubmitPhase1(ctx, s.Token(), "B")
	require.NoError(t, err)
	_, err = c.SubmitPhase2(ctx, s.Token(), "C")
	assert.NoError(t, err)
}

func TestSessionExpires(t *testing.T) {
	c, clk := newTestController(&fakeGrader{})
	ctx := context.Background()
	s, _, err := c.Start(ctx, "u1")
	require.NoError(t, err)

	clk.Advance(session.DefaultIdleTimeout)
	_, err = c.SubmitPhase1(ctx, s.Token(), "B")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestStart_GeneratorFailure(t *testing.T) {
	c := NewController(&fakeGenerator{err: errors.New("quota")}, &fakeGrader{})
	_, _, err := c.Start(context.Background(), "u1")
	assert.Error(t, err)

	bad := testExercise()
	bad.Questions[1].Answer = "E"
	c = NewController(&fakeGenerator{ex: bad}, &fakeGrader{})
	_, _, err = c.Start(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrInvalidExercise)
}

func TestCancel(t *testing.T) {
	c, _ := newTestController(&fakeGrader{})
	ctx := context.Background()
	s, _, err := c.Start(ctx, "u1")
	require.NoError(t, err)

	c.Cancel(s.Token())
	_, err = c.Session(s.Token())
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestStart_ReplacesUsersPreviousSession(t *testing.T) {
	c, _ := newTestController(&fakeGrader{})
	ctx := context.Background()
	old, _, err := c.Start(ctx, "u1")
	require.NoError(t, err)
	other, _, err := c.Start(ctx, "u2")
	require.NoError(t, err)
	cur, _, err := c.Start(ctx, "u1")
	require.NoError(t, err)
	require.NotEqual(t, old.Token(), cur.Token())

	_, err = c.SubmitPhase1(ctx, old.Token(), "B")
	assert.ErrorIs(t, err, session.ErrNotFound)
	_, err = c.Session(old.Token())
	assert.ErrorIs(t, err, session.ErrNotFound)

	_, err = c.SubmitPhase1(ctx, cur.Token(), "B")
	assert.NoError(t, err)
	_, err = c.SubmitPhase1(ctx, other.Token(), "B")
	assert.NoError(t, err, "another user's session is untouched")
	assert.Equal(t, 2, c.sessions.Len())
}

func TestCancel_StaleTokenLeavesCurrentSession(t *testing.T) {
	c, _ := newTestController(&fakeGrader{})
	ctx := context.Background()
	old, _, err := c.Start(ctx, "u1")
	require.NoError(t, err)
	cur, _, err := c.Start(ctx, "u1")
	require.NoError(t, err)

	c.Cancel(old.Token())
	live, err := c.Session(cur.Token())
	require.NoError(t, err)
	assert.Same(t, cur, live)
}
