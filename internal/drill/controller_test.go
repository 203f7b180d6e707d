package drill

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/winglish-nk/Winglish-bot/internal/content"
	"github.com/winglish-nk/Winglish-bot/internal/session"
	"github.com/winglish-nk/Winglish-bot/internal/spacedrep"
)

func TestTenResponsesCompleteThenNotFound(t *testing.T) {
	h := newHarness(cards(20))
	ctx := context.Background()

	s, err := h.ctrl.StartRandom(ctx, "u1", ModuleVocab, 10, content.Filter{})
	require.NoError(t, err)
	require.Equal(t, 10, s.Len())
	require.Len(t, h.batches.records, 1)
	assert.Equal(t, s.BatchID(), h.batches.records[0].BatchID)

	for i := 0; i < 10; i++ {
		p := h.ctrl.Present(s)
		require.False(t, p.Complete)
		assert.Equal(t, i+1, p.Position)
		assert.Equal(t, 10, p.Total)

		out, err := h.ctrl.Respond(ctx, "u1", s.BatchID(), p.Item.ID, spacedrep.QualityKnown)
		require.NoError(t, err, "response %d", i+1)
		if i < 9 {
			assert.Equal(t, OutcomeAdvance, out.Kind)
			assert.Equal(t, i+2, out.Next.Position)
		} else {
			assert.Equal(t, OutcomeComplete, out.Kind)
			assert.True(t, out.Next.Complete)
			assert.Equal(t, 10, out.Summary.Passed)
		}
	}

	_, err = h.ctrl.Respond(ctx, "u1", s.BatchID(), "w01", spacedrep.QualityKnown)
	assert.ErrorIs(t, err, session.ErrNotFound)
	_, err = h.ctrl.RecordResponse(ctx, s, "", spacedrep.QualityKnown)
	assert.ErrorIs(t, err, session.ErrNotFound)
	assert.Equal(t, 10, h.reviews.upserts)

	rs, ok := h.reviews.state("u1", "w01")
	require.True(t, ok)
	assert.InDelta(t, 2.6, rs.Easiness, 1e-9)
	assert.Equal(t, 1.0, rs.IntervalDays)
	assert.Equal(t, 1, rs.ConsecutiveCorrect)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), rs.NextReviewDate)
}

func TestRecordResponse_UsesPriorState(t *testing.T) {
	h := newHarness(cards(3))
	ctx := context.Background()
	h.reviews.set("u1", "w01", spacedrep.ReviewState{Easiness: 2.5, IntervalDays: 10, ConsecutiveCorrect: 5})

	s, err := h.ctrl.StartDrill(ctx, "u1", ModuleVocab, cards(3))
	require.NoError(t, err)

	out, err := h.ctrl.RecordResponse(ctx, s, "w01", spacedrep.QualityUnsure)
	require.NoError(t, err)
	require.NotNil(t, out.State)
	assert.InDelta(t, 2.18, out.State.Easiness, 1e-9)
	assert.Equal(t, 1.0, out.State.IntervalDays)
	assert.Equal(t, 0, out.State.ConsecutiveCorrect)
	assert.Equal(t, 1, out.Summary.Failed)
}

func TestRecordResponse_StaleItem(t *testing.T) {
	h := newHarness(cards(3))
	ctx := context.Background()
	s, err := h.ctrl.StartDrill(ctx, "u1", ModuleVocab, cards(3))
	require.NoError(t, err)

	_, err = h.ctrl.RecordResponse(ctx, s, "w02", spacedrep.QualityKnown)
	assert.ErrorIs(t, err, session.ErrStaleResponse)
	assert.Equal(t, 0, s.Index())
	assert.Equal(t, 0, h.reviews.upserts)
}

func TestRecordResponse_ExpiredSessionNotFound(t *testing.T) {
	h := newHarness(cards(3))
	ctx := context.Background()
	s, err := h.ctrl.StartDrill(ctx, "u1", ModuleVocab, cards(3))
	require.NoError(t, err)

	h.clock.Advance(10 * time.Minute)
	_, err = h.ctrl.RecordResponse(ctx, s, "w01", spacedrep.QualityKnown)
	assert.ErrorIs(t, err, session.ErrNotFound)
	assert.Equal(t, 0, h.reviews.upserts)
	assert.Equal(t, 0, s.Index())

	_, err = h.ctrl.Session("u1")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestRecordResponse_ReplacedSessionNotFound(t *testing.T) {
	h := newHarness(cards(3))
	ctx := context.Background()
	old, err := h.ctrl.StartDrill(ctx, "u1", ModuleVocab, cards(3))
	require.NoError(t, err)
	cur, err := h.ctrl.StartDrill(ctx, "u1", ModuleVocab, cards(3))
	require.NoError(t, err)

	_, err = h.ctrl.RecordResponse(ctx, old, "w01", spacedrep.QualityKnown)
	assert.ErrorIs(t, err, session.ErrNotFound)
	assert.Equal(t, 0, h.reviews.upserts)

	_, err = h.ctrl.RecordResponse(ctx, cur, "w01", spacedrep.QualityKnown)
	require.NoError(t, err)
	assert.Equal(t, 1, h.reviews.upserts)
}

func TestRecordResponse_PanicReleasesClaim(t *testing.T) {
	h := newHarness(cards(2))
	ctx := context.Background()
	s, err := h.ctrl.StartDrill(ctx, "u1", ModuleVocab, cards(2))
	require.NoError(t, err)

	h.reviews.upsertPanic = true
	assert.Panics(t, func() {
		_, _ = h.ctrl.RecordResponse(ctx, s, "w01", spacedrep.QualityKnown)
	})
	assert.Equal(t, 0, s.Index())

	h.reviews.upsertPanic = false
	out, err := h.ctrl.RecordResponse(ctx, s, "w01", spacedrep.QualityKnown)
	require.NoError(t, err, "claim must be released after a panic")
	assert.Equal(t, "w02", out.Next.Item.ID)
}

func TestRespond_BatchMismatch(t *testing.T) {
	h := newHarness(cards(3))
	ctx := context.Background()
	_, err := h.ctrl.StartDrill(ctx, "u1", ModuleVocab, cards(3))
	require.NoError(t, err)

	_, err = h.ctrl.Respond(ctx, "u1", "some-other-batch", "w01", spacedrep.QualityKnown)
	assert.ErrorIs(t, err, session.ErrStaleResponse)
}

func TestRecordResponse_BusyExclusion(t *testing.T) {
	h := newHarness(cards(3))
	ctx := context.Background()
	s, err := h.ctrl.StartDrill(ctx, "u1", ModuleVocab, cards(3))
	require.NoError(t, err)

	h.reviews.block = make(chan struct{})
	h.reviews.entered = make(chan struct{}, 1)

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = h.ctrl.RecordResponse(ctx, s, "w01", spacedrep.QualityKnown)
	}()

	<-h.reviews.entered
	_, err = h.ctrl.RecordResponse(ctx, s, "w01", spacedrep.QualityKnown)
	assert.ErrorIs(t, err, session.ErrBusy)

	close(h.reviews.block)
	wg.Wait()
	require.NoError(t, firstErr)
	assert.Equal(t, 1, h.reviews.upserts)
	assert.Equal(t, 1, s.Index())
}

func TestRecordResponse_ConcurrentSingleMutation(t *testing.T) {
	h := newHarness(cards(3))
	ctx := context.Background()
	s, err := h.ctrl.StartDrill(ctx, "u1", ModuleVocab, cards(3))
	require.NoError(t, err)

	const n = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := h.ctrl.RecordResponse(ctx, s, "w01", spacedrep.QualityKnown); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, h.reviews.upserts)
	assert.Equal(t, 1, s.Index())
}

func TestRecordResponse_PersistenceFailure(t *testing.T) {
	h := newHarness(cards(3))
	ctx := context.Background()
	s, err := h.ctrl.StartDrill(ctx, "u1", ModuleVocab, cards(3))
	require.NoError(t, err)

	h.reviews.upsertErr = errors.New("database is locked")
	_, err = h.ctrl.RecordResponse(ctx, s, "w01", spacedrep.QualityKnown)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistence)
	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "save", pe.Op)
	assert.Equal(t, "w01", pe.ItemID)
	assert.Equal(t, 0, s.Index())

	h.reviews.upsertErr = nil
	out, err := h.ctrl.RecordResponse(ctx, s, "w01", spacedrep.QualityKnown)
	require.NoError(t, err)
	assert.Equal(t, "w02", out.Next.Item.ID)
}

func TestRecordResponse_LoadFailure(t *testing.T) {
	h := newHarness(cards(2))
	ctx := context.Background()
	s, err := h.ctrl.StartDrill(ctx, "u1", ModuleVocab, cards(2))
	require.NoError(t, err)

	h.reviews.getErr = errors.New("connection reset")
	_, err = h.ctrl.RecordResponse(ctx, s, "", spacedrep.QualityKnown)
	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "load", pe.Op)
	assert.Equal(t, 0, s.Index())
}

func TestStartRandom_NotEnoughContent(t *testing.T) {
	h := newHarness(cards(4))
	_, err := h.ctrl.StartRandom(context.Background(), "u1", ModuleVocab, 10, content.Filter{})
	assert.ErrorIs(t, err, ErrDataUnavailable)
	assert.Empty(t, h.batches.records)

	_, err = h.ctrl.Session("u1")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestStartDrill_Validation(t *testing.T) {
	h := newHarness(nil)
	ctx := context.Background()

	_, err := h.ctrl.StartDrill(ctx, "u1", ModuleVocab, nil)
	assert.ErrorIs(t, err, session.ErrBatchSize)

	_, err = h.ctrl.StartDrill(ctx, "u1", ModuleVocab, cards(11))
	assert.ErrorIs(t, err, session.ErrBatchSize)

	bad := cards(2)
	bad[1].Meaning = ""
	_, err = h.ctrl.StartDrill(ctx, "u1", ModuleVocab, bad)
	var ve *content.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestStartDrill_ReplacesLiveSession(t *testing.T) {
	h := newHarness(cards(5))
	ctx := context.Background()

	first, err := h.ctrl.StartDrill(ctx, "u1", ModuleVocab, cards(3))
	require.NoError(t, err)
	second, err := h.ctrl.StartDrill(ctx, "u1", ModuleVocab, cards(3))
	require.NoError(t, err)

	_, err = h.ctrl.Respond(ctx, "u1", first.BatchID(), "w01", spacedrep.QualityKnown)
	assert.ErrorIs(t, err, session.ErrStaleResponse)

	_, err = h.ctrl.Respond(ctx, "u1", second.BatchID(), "w01", spacedrep.QualityKnown)
	assert.NoError(t, err)
}

func TestStartDrill_BatchLogFailureIsNotFatal(t *testing.T) {
	h := newHarness(cards(3))
	h.batches.err = errors.New("disk full")

	s, err := h.ctrl.StartDrill(context.Background(), "u1", ModuleVocab, cards(3))
	require.NoError(t, err)
	live, err := h.ctrl.Session("u1")
	require.NoError(t, err)
	assert.Same(t, s, live)
}

func TestSessionsAreIndependentPerUser(t *testing.T) {
	h := newHarness(cards(3))
	ctx := context.Background()

	a, err := h.ctrl.StartDrill(ctx, "alice", ModuleVocab, cards(3))
	require.NoError(t, err)
	b, err := h.ctrl.StartDrill(ctx, "bob", ModuleVocab, cards(3))
	require.NoError(t, err)

	_, err = h.ctrl.Respond(ctx, "alice", a.BatchID(), "w01", spacedrep.QualityKnown)
	require.NoError(t, err)
	assert.Equal(t, 1, a.Index())
	assert.Equal(t, 0, b.Index())
}

func TestIdleSessionExpires(t *testing.T) {
	h := newHarness(cards(3))
	ctx := context.Background()
	s, err := h.ctrl.StartDrill(ctx, "u1", ModuleVocab, cards(3))
	require.NoError(t, err)

	h.clock.Advance(179 * time.Second)
	_, err = h.ctrl.Respond(ctx, "u1", s.BatchID(), "w01", spacedrep.QualityKnown)
	require.NoError(t, err)

	h.clock.Advance(180 * time.Second)
	_, err = h.ctrl.Respond(ctx, "u1", s.BatchID(), "w02", spacedrep.QualityKnown)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestSkip_LeavesReviewStateAlone(t *testing.T) {
	h := newHarness(cards(2))
	ctx := context.Background()
	s, err := h.ctrl.StartDrill(ctx, "u1", ModuleVocab, cards(2))
	require.NoError(t, err)

	out, err := h.ctrl.Skip(ctx, "u1", s.BatchID())
	require.NoError(t, err)
	assert.Equal(t, OutcomeAdvance, out.Kind)
	assert.Nil(t, out.State)

	out, err = h.ctrl.Skip(ctx, "u1", "")
	require.NoError(t, err)
	assert.Equal(t, OutcomeComplete, out.Kind)
	assert.Equal(t, 2, out.Summary.Skipped)
	assert.Equal(t, 0, h.reviews.upserts)

	_, err = h.ctrl.Skip(ctx, "u1", "")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestCancel(t *testing.T) {
	h := newHarness(cards(3))
	ctx := context.Background()
	_, err := h.ctrl.StartDrill(ctx, "u1", ModuleVocab, cards(3))
	require.NoError(t, err)

	sum, err := h.ctrl.Cancel("u1")
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Total)

	_, err = h.ctrl.Cancel("u1")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestAnswer_ChoiceItem(t *testing.T) {
	items := []content.Item{
		{ID: "q1", Kind: content.KindChoice, Prompt: "synonym of rapid", Choices: []string{"slow", "quick", "late", "dull"}, AnswerKey: "B"},
		{ID: "q2", Kind: content.KindFreeText, Prompt: "translate 速い", Reference: "fast"},
	}
	h := newHarness(items)
	ctx := context.Background()
	s, err := h.ctrl.StartDrill(ctx, "u1", ModuleVocab, items)
	require.NoError(t, err)

	out, correct, err := h.ctrl.Answer(ctx, "u1", s.BatchID(), "q1", "b")
	require.NoError(t, err)
	assert.True(t, correct)
	assert.Equal(t, 1, out.State.ConsecutiveCorrect)

	out, correct, err = h.ctrl.Answer(ctx, "u1", s.BatchID(), "q2", "  slow\x00 ")
	require.NoError(t, err)
	assert.False(t, correct)
	assert.Equal(t, OutcomeComplete, out.Kind)
	assert.Equal(t, 0, out.State.ConsecutiveCorrect)
}

func TestHandle_Dispatch(t *testing.T) {
	h := newHarness(cards(12))
	ctx := context.Background()

	start, err := h.ctrl.Handle(ctx, "u1", "", Action{Kind: ActionTen})
	require.NoError(t, err)
	assert.Equal(t, 1, start.Next.Position)
	assert.Equal(t, 10, start.Next.Total)
	batch := start.Next.BatchID

	a, err := ParseAction(Action{Kind: ActionKnown, ItemID: start.Next.Item.ID}.CustomID())
	require.NoError(t, err)
	out, err := h.ctrl.Handle(ctx, "u1", batch, a)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Next.Position)

	out, err = h.ctrl.Handle(ctx, "u1", batch, Action{Kind: ActionNext})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Next.Position)

	_, err = h.ctrl.Handle(ctx, "u1", batch, Action{Kind: ActionReading, Question: 1, Key: "A"})
	assert.ErrorIs(t, err, ErrMalformedAction)
}
