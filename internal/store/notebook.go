package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/lithammer/shortuuid/v4"
)

// Notebook is a user's named collection of items.
type Notebook struct {
	ID          string
	UserID      string
	Name        string
	Description string
	Size        int
	CreatedAt   time.Time
}

// NotebookRepo persists word notebooks.
type NotebookRepo struct {
	s *Store
}

// Create makes a notebook, or returns the user's existing notebook of the same name.
func (r *NotebookRepo) Create(ctx context.Context, userID, name, description string) (*Notebook, error) {
	query, args := r.s.builder().Insert(NotebooksTable.Name).
		Columns("id", "user_id", "name", "description", "created_at").
		Values(shortuuid.New(), userID, name, description, time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns("user_id", "name"),
			entsql.DoNothing(),
		).
		Query()
	if _, err := r.s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("create notebook: %w", err)
	}

	books, err := r.list(ctx, entsql.And(
		entsql.EQ(r.s.builder().Table(NotebooksTable.Name).C("user_id"), userID),
		entsql.EQ(r.s.builder().Table(NotebooksTable.Name).C("name"), name),
	))
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, fmt.Errorf("notebook %q vanished after create", name)
	}
	return &books[0], nil
}

// Add puts items into a notebook. Items already present are ignored.
func (r *NotebookRepo) Add(ctx context.Context, notebookID string, itemIDs ...string) error {
	now := time.Now().UTC()
	for _, id := range itemIDs {
		query, args := r.s.builder().Insert(NotebookItemsTable.Name).
			Columns("notebook_id", "item_id", "created_at").
			Values(notebookID, id, now).
			OnConflict(
				entsql.ConflictColumns("notebook_id", "item_id"),
				entsql.DoNothing(),
			).
			Query()
		if _, err := r.s.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("add item %q to notebook: %w", id, err)
		}
	}
	return nil
}

// List returns a user's notebooks with their sizes, by name.
func (r *NotebookRepo) List(ctx context.Context, userID string) ([]Notebook, error) {
	n := r.s.builder().Table(NotebooksTable.Name)
	return r.list(ctx, entsql.EQ(n.C("user_id"), userID))
}

func (r *NotebookRepo) list(ctx context.Context, where *entsql.Predicate) ([]Notebook, error) {
	b := r.s.builder()
	n := b.Table(NotebooksTable.Name)
	ni := b.Table(NotebookItemsTable.Name)

	sel := b.Select(n.C("id"), n.C("user_id"), n.C("name"), n.C("description"), n.C("created_at"), entsql.Count(ni.C("item_id"))).
		From(n)
	sel.LeftJoin(ni).On(n.C("id"), ni.C("notebook_id"))
	query, args := sel.Where(where).
		GroupBy(n.C("id"), n.C("user_id"), n.C("name"), n.C("description"), n.C("created_at")).
		OrderBy(n.C("name")).
		Query()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notebooks: %w", err)
	}
	defer rows.Close()

	var out []Notebook
	for rows.Next() {
		var nb Notebook
		if err := rows.Scan(&nb.ID, &nb.UserID, &nb.Name, &nb.Description, &nb.CreatedAt, &nb.Size); err != nil {
			return nil, fmt.Errorf("scan notebook: %w", err)
		}
		out = append(out, nb)
	}
	return out, rows.Err()
}
