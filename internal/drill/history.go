package drill

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/winglish-nk/Winglish-bot/internal/content"
	"github.com/winglish-nk/Winglish-bot/internal/session"
	"github.com/winglish-nk/Winglish-bot/internal/spacedrep"
)

// MaxWeakItems bounds the weak-item list.
const MaxWeakItems = 10

// BatchBack re-drills the batch the user started back batches ago in module;
// 0 is the most recent. The re-drill is logged under ModuleReview so it does
// not shift the module's own history.
func (c *Controller) BatchBack(ctx context.Context, userID, module string, back int) (*session.Session, error) {
	if back < 0 {
		back = 0
	}
	recs, err := c.batches.Recent(ctx, userID, module, 1, back)
	if err != nil {
		return nil, fmt.Errorf("loading batch history: %w", err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("%w: %d batches back in %s", ErrNoHistory, back, module)
	}

	items, err := c.items.FetchByIDs(ctx, recs[0].ItemIDs)
	if err != nil {
		return nil, fmt.Errorf("loading batch items: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: batch %s has no remaining items", ErrDataUnavailable, recs[0].BatchID)
	}
	return c.StartDrill(ctx, userID, ModuleReview, items)
}

// WeakItem is an item that needs extra practice, with its review state.
type WeakItem struct {
	Item  content.Item
	State spacedrep.ReviewState
}

// WeakItems lists the user's weakest items: due today or answered correctly
// fewer than twice in a row. Lowest streak first, at most MaxWeakItems.
func (c *Controller) WeakItems(ctx context.Context, userID string) ([]WeakItem, error) {
	entries, err := c.reviews.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing review states: %w", err)
	}
	weak := spacedrep.WeakItems(entries, c.now(), MaxWeakItems)
	if len(weak) == 0 {
		return nil, nil
	}

	ids := make([]string, len(weak))
	for i, e := range weak {
		ids[i] = e.ItemID
	}
	items, err := c.items.FetchByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("loading weak items: %w", err)
	}
	byID := make(map[string]content.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	out := make([]WeakItem, 0, len(weak))
	for _, e := range weak {
		if it, ok := byID[e.ItemID]; ok {
			out = append(out, WeakItem{Item: it, State: e.State})
		}
	}
	return out, nil
}

// StartWeak starts a drill over the user's weak items.
func (c *Controller) StartWeak(ctx context.Context, userID string) (*session.Session, error) {
	weak, err := c.WeakItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(weak) == 0 {
		return nil, fmt.Errorf("%w: no weak items", ErrDataUnavailable)
	}
	items := make([]content.Item, len(weak))
	for i, w := range weak {
		items[i] = w.Item
	}
	if len(items) > c.batchSize {
		items = items[:c.batchSize]
	}
	return c.StartDrill(ctx, userID, ModuleWeak, items)
}

// Stats summarises a user's progress.
type Stats struct {
	Items    int // stored items; -1 when the source cannot count
	Reviewed int
	Due      int
	Weak     int
	Statuses map[spacedrep.ReviewStatus]int
}

type itemCounter interface {
	Count(ctx context.Context, kind content.Kind) (int, error)
}

// Stats gathers item and review counts for userID.
func (c *Controller) Stats(ctx context.Context, userID string) (Stats, error) {
	st := Stats{Items: -1, Statuses: make(map[spacedrep.ReviewStatus]int)}
	var entries []spacedrep.Entry

	g, gctx := errgroup.WithContext(ctx)
	if counter, ok := c.items.(itemCounter); ok {
		g.Go(func() error {
			n, err := counter.Count(gctx, "")
			if err != nil {
				return fmt.Errorf("counting items: %w", err)
			}
			st.Items = n
			return nil
		})
	}
	g.Go(func() error {
		var err error
		entries, err = c.reviews.ListByUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("listing review states: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	now := c.now()
	st.Reviewed = len(entries)
	st.Due = len(spacedrep.DueItems(entries, now))
	st.Weak = len(spacedrep.WeakItems(entries, now, 0))
	for i := range entries {
		st.Statuses[entries[i].State.Status(now)]++
	}
	return st, nil
}
