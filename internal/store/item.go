package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/winglish-nk/Winglish-bot/internal/content"
)

// ItemRepo persists drill content. It implements content.Source.
type ItemRepo struct {
	s *Store
}

var itemColumns = []string{
	"id", "kind", "prompt", "meaning", "pos", "example_en", "example_ja",
	"synonyms", "derived", "choices", "answer_key", "reference",
}

// Upsert inserts or replaces items in a single transaction. Every item is
// validated first; nothing is written if any item is invalid.
func (r *ItemRepo) Upsert(ctx context.Context, items []content.Item) (int, error) {
	for i := range items {
		if err := items[i].Validate(); err != nil {
			return 0, err
		}
	}

	tx, err := r.s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, it := range items {
		synonyms, err := marshalStrings(it.Synonyms)
		if err != nil {
			return 0, err
		}
		derived, err := marshalStrings(it.Derived)
		if err != nil {
			return 0, err
		}
		choices, err := marshalStrings(it.Choices)
		if err != nil {
			return 0, err
		}

		query, args := r.s.builder().Insert(ItemsTable.Name).
			Columns(append(itemColumns, "created_at")...).
			Values(it.ID, string(it.Kind), it.Prompt, it.Meaning, it.PartOfSpeech, it.ExampleEN, it.ExampleJA,
				synonyms, derived, choices, it.AnswerKey, it.Reference, now).
			OnConflict(
				entsql.ConflictColumns("id"),
				entsql.ResolveWithNewValues(),
			).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("upsert item %q: %w", it.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit items: %w", err)
	}
	return len(items), nil
}

// FetchRandom returns up to count distinct items in random order. When fewer
// than count items match, the returned error wraps content.ErrNotEnough
// alongside whatever items were found.
func (r *ItemRepo) FetchRandom(ctx context.Context, count int, f content.Filter) ([]content.Item, error) {
	b := r.s.builder()
	t := b.Table(ItemsTable.Name)

	cols := make([]string, len(itemColumns))
	for i, c := range itemColumns {
		cols[i] = t.C(c)
	}
	sel := b.Select(cols...).From(t)

	if f.NotebookID != "" {
		nt := b.Table(NotebookItemsTable.Name)
		sel.Join(nt).On(t.C("id"), nt.C("item_id"))
		sel.Where(entsql.EQ(nt.C("notebook_id"), f.NotebookID))
	}
	if f.Kind != "" {
		sel.Where(entsql.EQ(t.C("kind"), string(f.Kind)))
	}
	sel.OrderExpr(entsql.Expr("RANDOM()")).Limit(count)

	items, err := r.query(ctx, sel)
	if err != nil {
		return nil, err
	}
	if len(items) < count {
		return items, fmt.Errorf("%w: want %d, have %d", content.ErrNotEnough, count, len(items))
	}
	return items, nil
}

// FetchByIDs returns the items with the given ids, in the given order.
func (r *ItemRepo) FetchByIDs(ctx context.Context, ids []string) ([]content.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	b := r.s.builder()
	sel := b.Select(itemColumns...).
		From(b.Table(ItemsTable.Name)).
		Where(entsql.In("id", args...))

	found, err := r.query(ctx, sel)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]content.Item, len(found))
	for _, it := range found {
		byID[it.ID] = it
	}
	items := make([]content.Item, 0, len(ids))
	for _, id := range ids {
		if it, ok := byID[id]; ok {
			items = append(items, it)
		}
	}
	return items, nil
}

// Count returns the number of stored items of a kind; an empty kind counts all.
func (r *ItemRepo) Count(ctx context.Context, kind content.Kind) (int, error) {
	b := r.s.builder()
	sel := b.Select(entsql.Count("*")).From(b.Table(ItemsTable.Name))
	if kind != "" {
		sel.Where(entsql.EQ("kind", string(kind)))
	}

	query, args := sel.Query()
	var n int
	if err := r.s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return n, nil
}

func (r *ItemRepo) query(ctx context.Context, sel *entsql.Selector) ([]content.Item, error) {
	query, args := sel.Query()
	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []content.Item
	for rows.Next() {
		var (
			it                         content.Item
			kind                       string
			synonyms, derived, choices string
		)
		if err := rows.Scan(&it.ID, &kind, &it.Prompt, &it.Meaning, &it.PartOfSpeech, &it.ExampleEN, &it.ExampleJA,
			&synonyms, &derived, &choices, &it.AnswerKey, &it.Reference); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		it.Kind = content.Kind(kind)
		if it.Synonyms, err = unmarshalStrings(synonyms); err != nil {
			return nil, err
		}
		if it.Derived, err = unmarshalStrings(derived); err != nil {
			return nil, err
		}
		if it.Choices, err = unmarshalStrings(choices); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
