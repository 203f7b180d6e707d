package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// BatchRecord is an append-only record of a started drill batch.
type BatchRecord struct {
	BatchID   string
	UserID    string
	Module    string
	ItemIDs   []string
	CreatedAt time.Time
}

// BatchRepo persists the batch log.
type BatchRepo struct {
	s *Store
}

// Record appends a batch. Recording the same batch id again is a no-op.
func (r *BatchRepo) Record(ctx context.Context, rec BatchRecord) error {
	ids, err := marshalStrings(rec.ItemIDs)
	if err != nil {
		return err
	}
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	query, args := r.s.builder().Insert(BatchesTable.Name).
		Columns("batch_id", "user_id", "module", "item_ids", "created_at").
		Values(rec.BatchID, rec.UserID, rec.Module, ids, created.UTC()).
		OnConflict(
			entsql.ConflictColumns("batch_id"),
			entsql.DoNothing(),
		).
		Query()
	if _, err := r.s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("record batch: %w", err)
	}
	return nil
}

var batchColumns = []string{"batch_id", "user_id", "module", "item_ids", "created_at"}

// Recent returns a user's batches for a module, newest first, skipping offset.
func (r *BatchRepo) Recent(ctx context.Context, userID, module string, limit, offset int) ([]BatchRecord, error) {
	b := r.s.builder()
	sel := b.Select(batchColumns...).
		From(b.Table(BatchesTable.Name)).
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.EQ("module", module))).
		OrderBy(entsql.Desc("created_at"), entsql.Desc("id"))
	if limit > 0 {
		sel.Limit(limit)
	}
	if offset > 0 {
		sel.Offset(offset)
	}

	query, args := sel.Query()
	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query batches: %w", err)
	}
	defer rows.Close()

	var out []BatchRecord
	for rows.Next() {
		rec, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// Get returns a batch by id, or nil if it was never recorded.
func (r *BatchRepo) Get(ctx context.Context, batchID string) (*BatchRecord, error) {
	b := r.s.builder()
	query, args := b.Select(batchColumns...).
		From(b.Table(BatchesTable.Name)).
		Where(entsql.EQ("batch_id", batchID)).
		Query()

	rec, err := scanBatch(r.s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

func scanBatch(row rowScanner) (*BatchRecord, error) {
	var (
		rec BatchRecord
		ids string
	)
	if err := row.Scan(&rec.BatchID, &rec.UserID, &rec.Module, &ids, &rec.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan batch: %w", err)
	}
	if err := json.Unmarshal([]byte(ids), &rec.ItemIDs); err != nil {
		return nil, fmt.Errorf("decode batch item ids: %w", err)
	}
	return &rec, nil
}

func marshalStrings(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode string list: %w", err)
	}
	return string(b), nil
}

func unmarshalStrings(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var v []string
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, fmt.Errorf("decode string list: %w", err)
	}
	if len(v) == 0 {
		return nil, nil
	}
	return v, nil
}
