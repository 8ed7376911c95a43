package suggest

import (
	"context"
	"fmt"
	"strings"

	"github.com/bastiangx/rankjump/internal/utils"
	"github.com/bastiangx/rankjump/pkg/ranking"
	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// Mode picks where suggestions come from.
//
//   - local: client-side matching over the loaded snapshot only
//   - remote: the server's search endpoint, which can surface games outside
//     the loaded date's list
//   - hybrid: remote first, local when the remote call fails or finds nothing
type Mode string

const (
	ModeLocal  Mode = "local"
	ModeRemote Mode = "remote"
	ModeHybrid Mode = "hybrid"
)

// ParseMode accepts the config spelling of a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeLocal, ModeRemote, ModeHybrid:
		return m, nil
	case "":
		return ModeLocal, nil
	default:
		return "", fmt.Errorf("unknown search mode %q (want local, remote or hybrid)", s)
	}
}

// Remote asks a Searcher for suggestions, throttled so fast typing cannot
// flood the search endpoint.
type Remote struct {
	searcher Searcher
	limiter  *rate.Limiter
	limit    int
}

// NewRemote wraps searcher. perSecond <= 0 disables throttling.
func NewRemote(searcher Searcher, perSecond float64, limit int) *Remote {
	if limit <= 0 {
		limit = DefaultLimit
	}
	lim := rate.NewLimiter(rate.Inf, 0)
	if perSecond > 0 {
		lim = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
	return &Remote{searcher: searcher, limiter: lim, limit: limit}
}

func (r *Remote) Limit() int { return r.limit }

// Suggest waits for a token, queries the endpoint and applies the same blank
// query rule and cap as the local engine. Upstream order is kept.
func (r *Remote) Suggest(ctx context.Context, query string) ([]ranking.Entry, error) {
	if utils.IsBlank(query) {
		return []ranking.Entry{}, nil
	}
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	entries, err := r.searcher.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(entries) > r.limit {
		entries = entries[:r.limit]
	}
	log.Debugf("Remote search for '%s' returned %d entries", query, len(entries))
	return entries, nil
}
