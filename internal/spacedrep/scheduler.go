package spacedrep

import (
	"sort"
	"time"
)

// Entry pairs an item with its review state.
type Entry struct {
	ItemID string
	State  ReviewState
}

// WeakItems returns the entries needing extra practice, weakest first:
// lowest streak, then earliest review date. At most limit entries are
// returned; limit <= 0 means no limit.
func WeakItems(entries []Entry, now time.Time, limit int) []Entry {
	var weak []Entry
	for _, e := range entries {
		if e.State.IsWeak(now) {
			weak = append(weak, e)
		}
	}

	sort.Slice(weak, func(i, j int) bool {
		a, b := weak[i].State, weak[j].State
		if a.ConsecutiveCorrect != b.ConsecutiveCorrect {
			return a.ConsecutiveCorrect < b.ConsecutiveCorrect
		}
		if !a.NextReviewDate.Equal(b.NextReviewDate) {
			return a.NextReviewDate.Before(b.NextReviewDate)
		}
		return weak[i].ItemID < weak[j].ItemID
	})

	if limit > 0 && len(weak) > limit {
		weak = weak[:limit]
	}
	return weak
}

// DueItems returns the item ids due for review, most overdue first.
func DueItems(entries []Entry, now time.Time) []string {
	type dueItem struct {
		id      string
		overdue int
	}
	var due []dueItem

	for _, e := range entries {
		if e.State.IsDue(now) {
			due = append(due, dueItem{id: e.ItemID, overdue: e.State.OverdueDays(now)})
		}
	}

	sort.Slice(due, func(i, j int) bool {
		if due[i].overdue != due[j].overdue {
			return due[i].overdue > due[j].overdue
		}
		return due[i].id < due[j].id
	})

	ids := make([]string, len(due))
	for i, d := range due {
		ids[i] = d.id
	}
	return ids
}
