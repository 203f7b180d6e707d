package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/winglish-nk/Winglish-bot/internal/spacedrep"
)

// dateLayout is how review dates are persisted; calendar dates compare
// correctly as strings on every supported database.
const dateLayout = "2006-01-02"

// ReviewStateRepo persists per-user, per-item review states.
type ReviewStateRepo struct {
	s *Store
}

var reviewStateColumns = []string{"item_id", "easiness", "interval_days", "consecutive_correct", "next_review_date"}

// Get returns the state for (userID, itemID), or nil if the item was never graded.
func (r *ReviewStateRepo) Get(ctx context.Context, userID, itemID string) (*spacedrep.ReviewState, error) {
	b := r.s.builder()
	query, args := b.Select(reviewStateColumns...).
		From(b.Table(ReviewStatesTable.Name)).
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.EQ("item_id", itemID))).
		Query()

	e, err := r.scan(r.s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get review state: %w", err)
	}
	return &e.State, nil
}

// Upsert writes the state for (userID, itemID). The last writer wins.
func (r *ReviewStateRepo) Upsert(ctx context.Context, userID, itemID string, rs spacedrep.ReviewState) error {
	query, args := r.s.builder().Insert(ReviewStatesTable.Name).
		Columns("user_id", "item_id", "easiness", "interval_days", "consecutive_correct", "next_review_date", "updated_at").
		Values(userID, itemID, rs.Easiness, rs.IntervalDays, rs.ConsecutiveCorrect,
			rs.NextReviewDate.Format(dateLayout), time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns("user_id", "item_id"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := r.s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert review state: %w", err)
	}
	return nil
}

// ListByUser returns every review state of a user.
func (r *ReviewStateRepo) ListByUser(ctx context.Context, userID string) ([]spacedrep.Entry, error) {
	b := r.s.builder()
	query, args := b.Select(reviewStateColumns...).
		From(b.Table(ReviewStatesTable.Name)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy("item_id").
		Query()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list review states: %w", err)
	}
	defer rows.Close()

	var entries []spacedrep.Entry
	for rows.Next() {
		e, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *ReviewStateRepo) scan(row rowScanner) (spacedrep.Entry, error) {
	var (
		e    spacedrep.Entry
		date string
	)
	if err := row.Scan(&e.ItemID, &e.State.Easiness, &e.State.IntervalDays, &e.State.ConsecutiveCorrect, &date); err != nil {
		return e, err
	}
	next, err := time.ParseInLocation(dateLayout, date, r.s.loc)
	if err != nil {
		return e, fmt.Errorf("parse next review date %q: %w", date, err)
	}
	e.State.NextReviewDate = next
	return e, nil
}
