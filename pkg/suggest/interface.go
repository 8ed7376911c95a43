// Package suggest derives the autocomplete list for a search query over a
// ranking snapshot. Matching is case-insensitive substring containment on the
// entry name, results keep snapshot (rank) order and are capped at a limit.
package suggest

import (
	"context"

	"github.com/bastiangx/rankjump/pkg/ranking"
)

// ISuggester produces suggestions for a query over the loaded snapshot.
type ISuggester interface {
	// Suggest returns at most Limit entries matching query, in rank order
	Suggest(query string, snap *ranking.Snapshot) []ranking.Entry

	// Limit is the maximum number of suggestions returned
	Limit() int
}

// Searcher is a server-side search endpoint, see ranking.Client.Search.
type Searcher interface {
	Search(ctx context.Context, query string) ([]ranking.Entry, error)
}
