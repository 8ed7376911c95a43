package suggest

import (
	"github.com/bastiangx/rankjump/internal/utils"
	"github.com/bastiangx/rankjump/pkg/ranking"
)

var _ ISuggester = (*Engine)(nil)

// DefaultLimit is the number of suggestions shown when nothing else is configured.
const DefaultLimit = 8

// Engine is the client-side suggester. It holds no state besides its limit,
// so Suggest is a pure function of its inputs.
type Engine struct {
	limit int
}

// NewEngine returns an Engine capped at limit; limit <= 0 uses DefaultLimit.
func NewEngine(limit int) *Engine {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Engine{limit: limit}
}

func (e *Engine) Limit() int { return e.limit }

// Suggest scans the snapshot in rank order and keeps names containing query.
// A blank query yields no suggestions rather than every entry.
func (e *Engine) Suggest(query string, snap *ranking.Snapshot) []ranking.Entry {
	if utils.IsBlank(query) || snap.Len() == 0 {
		return []ranking.Entry{}
	}

	needle := utils.FoldString(query)
	out := make([]ranking.Entry, 0, e.limit)
	for _, entry := range snap.Entries {
		if !containsFolded(entry.Name, needle) {
			continue
		}
		out = append(out, entry)
		if len(out) == e.limit {
			break
		}
	}
	return out
}

// Suggest runs the default engine.
func Suggest(query string, snap *ranking.Snapshot) []ranking.Entry {
	return NewEngine(DefaultLimit).Suggest(query, snap)
}
