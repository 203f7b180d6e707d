package drill

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/winglish-nk/Winglish-bot/internal/content"
	"github.com/winglish-nk/Winglish-bot/internal/spacedrep"
	"github.com/winglish-nk/Winglish-bot/internal/store"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type fakeReviews struct {
	mu        sync.Mutex
	states    map[string]spacedrep.ReviewState
	upserts   int
	getErr    error
	upsertErr error
	// upsertPanic makes Upsert panic, as a broken driver might.
	upsertPanic bool
	// block, when set, holds Get until it is closed.
	block   chan struct{}
	entered chan struct{}
}

func newFakeReviews() *fakeReviews {
	return &fakeReviews{states: make(map[string]spacedrep.ReviewState)}
}

func (f *fakeReviews) key(userID, itemID string) string { return userID + "/" + itemID }

func (f *fakeReviews) Get(_ context.Context, userID, itemID string) (*spacedrep.ReviewState, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	rs, ok := f.states[f.key(userID, itemID)]
	if !ok {
		return nil, nil
	}
	return &rs, nil
}

func (f *fakeReviews) Upsert(_ context.Context, userID, itemID string, rs spacedrep.ReviewState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertPanic {
		panic("review store crashed")
	}
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts++
	f.states[f.key(userID, itemID)] = rs
	return nil
}

func (f *fakeReviews) ListByUser(_ context.Context, userID string) ([]spacedrep.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []spacedrep.Entry
	for k, rs := range f.states {
		if len(k) > len(userID) && k[:len(userID)+1] == userID+"/" {
			out = append(out, spacedrep.Entry{ItemID: k[len(userID)+1:], State: rs})
		}
	}
	return out, nil
}

func (f *fakeReviews) set(userID, itemID string, rs spacedrep.ReviewState) {
	f.mu.Lock()
	f.states[f.key(userID, itemID)] = rs
	f.mu.Unlock()
}

func (f *fakeReviews) state(userID, itemID string) (spacedrep.ReviewState, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rs, ok := f.states[f.key(userID, itemID)]
	return rs, ok
}

type fakeSource struct {
	items []content.Item
}

func (f *fakeSource) FetchRandom(_ context.Context, count int, filter content.Filter) ([]content.Item, error) {
	var out []content.Item
	for _, it := range f.items {
		if filter.Kind != "" && it.Kind != filter.Kind {
			continue
		}
		if len(out) == count {
			break
		}
		out = append(out, it)
	}
	if len(out) < count {
		return out, fmt.Errorf("%w: %d of %d", content.ErrNotEnough, len(out), count)
	}
	return out, nil
}

func (f *fakeSource) FetchByIDs(_ context.Context, ids []string) ([]content.Item, error) {
	byID := make(map[string]content.Item)
	for _, it := range f.items {
		byID[it.ID] = it
	}
	var out []content.Item
	for _, id := range ids {
		if it, ok := byID[id]; ok {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeSource) Count(_ context.Context, kind content.Kind) (int, error) {
	return len(f.items), nil
}

type fakeBatches struct {
	mu      sync.Mutex
	records []store.BatchRecord
	err     error
}

func (f *fakeBatches) Record(_ context.Context, rec store.BatchRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, r := range f.records {
		if r.BatchID == rec.BatchID {
			return nil
		}
	}
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeBatches) Recent(_ context.Context, userID, module string, limit, offset int) ([]store.BatchRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []store.BatchRecord
	for i := len(f.records) - 1; i >= 0; i-- {
		r := f.records[i]
		if r.UserID == userID && r.Module == module {
			matched = append(matched, r)
		}
	}
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (f *fakeBatches) modules() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, r := range f.records {
		out = append(out, r.Module)
	}
	return out
}

func cards(n int) []content.Item {
	items := make([]content.Item, n)
	for i := range items {
		items[i] = content.Item{
			ID:      fmt.Sprintf("w%02d", i+1),
			Kind:    content.KindCard,
			Prompt:  fmt.Sprintf("word%d", i+1),
			Meaning: fmt.Sprintf("意味%d", i+1),
		}
	}
	return items
}

type harness struct {
	ctrl    *Controller
	clock   *fakeClock
	reviews *fakeReviews
	source  *fakeSource
	batches *fakeBatches
}

func newHarness(items []content.Item, opts ...Option) *harness {
	h := &harness{
		clock:   newFakeClock(),
		reviews: newFakeReviews(),
		source:  &fakeSource{items: items},
		batches: &fakeBatches{},
	}
	opts = append([]Option{WithClock(h.clock.Now), WithLocation(time.UTC)}, opts...)
	h.ctrl = NewController(h.reviews, h.source, h.batches, opts...)
	return h
}
