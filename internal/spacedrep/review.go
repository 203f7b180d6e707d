package spacedrep

import (
	"math"
	"time"
)

// WeakStreak is the consecutive-correct count below which an item is weak.
const WeakStreak = 2

// ReviewState holds the spaced repetition state for one (user, item) pair.
type ReviewState struct {
	Easiness           float64   `json:"easiness"`
	IntervalDays       float64   `json:"interval_days"`
	ConsecutiveCorrect int       `json:"consecutive_correct"`
	NextReviewDate     time.Time `json:"next_review_date"`
}

// IsDue returns true if the item is due for review (on or past the review date).
func (rs *ReviewState) IsDue(now time.Time) bool {
	return !Today(now).Before(rs.NextReviewDate)
}

// IsWeak reports whether the item needs extra practice: due, or not yet
// answered correctly twice in a row.
func (rs *ReviewState) IsWeak(now time.Time) bool {
	return rs.IsDue(now) || rs.ConsecutiveCorrect < WeakStreak
}

// OverdueDays returns how many whole days past due the item is.
func (rs *ReviewState) OverdueDays(now time.Time) int {
	today := Today(now)
	if today.Before(rs.NextReviewDate) {
		return 0
	}
	return daysBetween(rs.NextReviewDate, today)
}

// DaysUntilReview returns the number of days until the next review.
// Returns 0 if already due.
func (rs *ReviewState) DaysUntilReview(now time.Time) int {
	today := Today(now)
	if !today.Before(rs.NextReviewDate) {
		return 0
	}
	return daysBetween(today, rs.NextReviewDate)
}

// ReviewStatus describes an item's review status for display.
type ReviewStatus string

const (
	ReviewNew      ReviewStatus = "new"
	ReviewLearning ReviewStatus = "learning"
	ReviewDue      ReviewStatus = "due"
	ReviewOverdue  ReviewStatus = "overdue"
)

// Status returns the review status for display. A nil state is new.
func (rs *ReviewState) Status(now time.Time) ReviewStatus {
	switch {
	case rs == nil:
		return ReviewNew
	case rs.OverdueDays(now) > 0:
		return ReviewOverdue
	case rs.IsDue(now):
		return ReviewDue
	default:
		return ReviewLearning
	}
}

// daysBetween counts calendar days from a to b, tolerating DST shifts.
func daysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}
