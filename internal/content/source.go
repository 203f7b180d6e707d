package content

import (
	"context"
	"errors"
)

// ErrNotEnough is returned by a Source when fewer items exist than requested.
var ErrNotEnough = errors.New("not enough items")

// Filter narrows random selection.
type Filter struct {
	Kind Kind

	// NotebookID restricts selection to the items saved in a word notebook.
	NotebookID string
}

// Source supplies drill content.
type Source interface {
	// FetchRandom returns up to count distinct items in random order.
	FetchRandom(ctx context.Context, count int, f Filter) ([]Item, error)

	// FetchByIDs returns the items with the given ids, in the given order.
	// Unknown ids are skipped.
	FetchByIDs(ctx context.Context, ids []string) ([]Item, error)
}
