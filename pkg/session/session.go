// Package session is the surface a presentation layer talks to: it loads
// snapshots, keeps the search query with its suggestions, and turns a picked
// suggestion into a scroll request.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/bastiangx/rankjump/pkg/anchor"
	"github.com/bastiangx/rankjump/pkg/ranking"
	"github.com/bastiangx/rankjump/pkg/suggest"
	"github.com/charmbracelet/log"
)

// ErrStaleQuery is returned by SetQuery when the query changed while its
// suggestions were being computed. The newer query's result stands.
var ErrStaleQuery = errors.New("query changed before suggestions arrived")

// Options configure a Session.
type Options struct {
	Mode  suggest.Mode
	Limit int
	// Searcher backs remote and hybrid modes.
	Searcher suggest.Searcher
	// SearchRate caps remote searches per second, 0 for no cap.
	SearchRate float64
}

// Session wires a Store, the suggesters and a Navigator together.
type Session struct {
	store  *ranking.Store
	nav    *anchor.Navigator
	mode   suggest.Mode
	engine *suggest.Engine
	remote *suggest.Remote

	mu          sync.Mutex
	query       string
	suggestions []ranking.Entry
	index       *suggest.Index
}

// New builds a Session. Remote modes without a Searcher fall back to local.
func New(store *ranking.Store, nav *anchor.Navigator, opts Options) *Session {
	s := &Session{
		store:       store,
		nav:         nav,
		mode:        opts.Mode,
		engine:      suggest.NewEngine(opts.Limit),
		suggestions: []ranking.Entry{},
	}
	if s.mode == "" {
		s.mode = suggest.ModeLocal
	}
	if s.mode != suggest.ModeLocal {
		if opts.Searcher == nil {
			log.Warnf("Search mode %s needs a search endpoint, using local", s.mode)
			s.mode = suggest.ModeLocal
		} else {
			s.remote = suggest.NewRemote(opts.Searcher, opts.SearchRate, opts.Limit)
		}
	}
	return s
}

// Mode is the effective search mode.
func (s *Session) Mode() suggest.Mode { return s.mode }

// Store exposes the underlying store, mainly for its Changed signal.
func (s *Session) Store() *ranking.Store { return s.store }

// Load fetches the snapshot for date and recomputes suggestions for the
// current query once it is committed.
func (s *Session) Load(ctx context.Context, date string) (*ranking.Snapshot, error) {
	snap, err := s.store.Load(ctx, date)
	if errors.Is(err, ranking.ErrSuperseded) || errors.Is(err, ranking.ErrInvalidDate) {
		return nil, err
	}
	if rerr := s.Refresh(ctx); rerr != nil && !errors.Is(rerr, ErrStaleQuery) {
		log.Warnf("Refreshing suggestions after load: %v", rerr)
	}
	return snap, err
}

// Snapshot is the committed snapshot, nil unless the store is Ready.
func (s *Session) Snapshot() *ranking.Snapshot { return s.store.Snapshot() }

// Query is the current search text.
func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Suggestions is a copy of the current suggestion list.
func (s *Session) Suggestions() []ranking.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ranking.Entry, len(s.suggestions))
	copy(out, s.suggestions)
	return out
}

// SetQuery stores query and recomputes its suggestions. In remote modes this
// blocks on the network; if another SetQuery lands meanwhile, this result is
// dropped and ErrStaleQuery returned.
func (s *Session) SetQuery(ctx context.Context, query string) ([]ranking.Entry, error) {
	s.mu.Lock()
	s.query = query
	s.mu.Unlock()

	return s.update(ctx, query)
}

// Refresh recomputes suggestions for the current query, e.g. after the
// snapshot changed. It never changes the query itself.
func (s *Session) Refresh(ctx context.Context) error {
	_, err := s.update(ctx, s.Query())
	return err
}

// update computes suggestions for query and stores them if query is still
// the current one.
func (s *Session) update(ctx context.Context, query string) ([]ranking.Entry, error) {
	entries, err := s.compute(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.query != query {
		return nil, ErrStaleQuery
	}
	if err != nil {
		s.suggestions = []ranking.Entry{}
		return nil, err
	}
	s.suggestions = entries
	out := make([]ranking.Entry, len(entries))
	copy(out, entries)
	return out, nil
}

// Clear ends the search session.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = ""
	s.suggestions = []ranking.Entry{}
}

// Reset drops the loaded list and ends the search session. A load still in
// flight is discarded when it arrives.
func (s *Session) Reset() {
	s.store.Clear()
	s.Clear()
}

// Select scrolls to the row for id and consumes the search session. It
// reports whether a row was found; a missing row is not an error.
func (s *Session) Select(id string) bool {
	ok := s.nav.ResolveAndScroll(id)
	s.Clear()
	return ok
}

func (s *Session) compute(ctx context.Context, query string) ([]ranking.Entry, error) {
	switch s.mode {
	case suggest.ModeRemote:
		entries, err := s.remote.Suggest(ctx, query)
		if err != nil {
			return nil, err
		}
		return s.reconcile(entries), nil
	case suggest.ModeHybrid:
		entries, err := s.remote.Suggest(ctx, query)
		if err != nil {
			log.Warnf("Remote search failed, using loaded list: %v", err)
			return s.local(query), nil
		}
		if len(entries) == 0 {
			return s.local(query), nil
		}
		return s.reconcile(entries), nil
	default:
		return s.local(query), nil
	}
}

// reconcile swaps remote results for their rows in the loaded snapshot, so
// ranks match the rendered list. Games outside the snapshot get rank 0 and
// selecting them is a no-op.
func (s *Session) reconcile(entries []ranking.Entry) []ranking.Entry {
	snap := s.store.Snapshot()
	out := make([]ranking.Entry, len(entries))
	for i, e := range entries {
		if row, ok := snap.Lookup(e.ID); ok {
			out[i] = row
			continue
		}
		e.Rank = 0
		out[i] = e
	}
	return out
}

// local answers from the suffix index of the committed snapshot, rebuilding
// it whenever the snapshot changed.
func (s *Session) local(query string) []ranking.Entry {
	snap := s.store.Snapshot()
	if snap == nil {
		return []ranking.Entry{}
	}

	s.mu.Lock()
	idx := s.index
	if idx == nil || idx.Snapshot() != snap {
		idx = suggest.NewIndex(snap, s.engine.Limit())
		s.index = idx
	}
	s.mu.Unlock()

	return idx.Suggest(query, snap)
}
