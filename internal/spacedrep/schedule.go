package spacedrep

import (
	"math"
	"time"
)

// Scheduling constants for the SM-2 variant.
const (
	DefaultEasiness = 2.5
	MinEasiness     = 1.3

	// PassingQuality is the lowest quality that counts as a successful recall.
	PassingQuality Quality = 3
)

// Quality is a graded recall signal in [0, 5].
type Quality int

const (
	QualityBlackout Quality = 0
	QualityUnsure   Quality = 2
	QualityKnown    Quality = 5
)

// Passed reports whether the response counts as a successful recall.
func (q Quality) Passed() bool {
	return q >= PassingQuality
}

// ClampQuality converts a raw numeric signal into a Quality. The value is
// truncated toward zero and clamped to [0, 5]; NaN maps to 0.
func ClampQuality(raw float64) Quality {
	if math.IsNaN(raw) || raw <= 0 {
		return 0
	}
	if raw >= 5 {
		return 5
	}
	return Quality(math.Trunc(raw))
}

func (q Quality) clamp() Quality {
	if q < 0 {
		return 0
	}
	if q > 5 {
		return 5
	}
	return q
}

// Schedule computes the next review state from the previous one. A nil prev
// means the item has never been graded.
func Schedule(prev *ReviewState, q Quality, now time.Time) ReviewState {
	e, interval, streak := DefaultEasiness, 0.0, 0
	if prev != nil {
		e, interval, streak = prev.Easiness, prev.IntervalDays, prev.ConsecutiveCorrect
	}
	if math.IsNaN(e) || e < MinEasiness {
		e = MinEasiness
	}
	if math.IsNaN(interval) || interval < 0 {
		interval = 0
	}
	if streak < 0 {
		streak = 0
	}

	q = q.clamp()
	miss := float64(5 - q)
	e = e + (0.1 - miss*(0.08+miss*0.02))
	if e < MinEasiness {
		e = MinEasiness
	}

	if !q.Passed() {
		streak = 0
		interval = 1
	} else {
		streak++
		if streak == 1 {
			interval = 1
		} else {
			interval = math.RoundToEven(interval * e)
		}
	}

	return ReviewState{
		Easiness:           e,
		IntervalDays:       interval,
		ConsecutiveCorrect: streak,
		NextReviewDate:     Today(now).AddDate(0, 0, int(interval)),
	}
}

// Today truncates t to midnight in its own location.
func Today(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
