package ranking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// State is the lifecycle of a Store.
//
//	Idle -> Loading -> Ready | Empty
//
// Any state goes back to Loading on a new Load.
type State int

const (
	Idle State = iota
	Loading
	Ready
	Empty
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Empty:
		return "empty"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Store owns the snapshot for the currently desired date.
// Readers get the committed *Snapshot and must not mutate it.
type Store struct {
	fetcher Fetcher
	now     func() time.Time

	mu       sync.RWMutex
	state    State
	desired  string
	snapshot *Snapshot
	lastErr  error

	changed chan struct{}
}

// NewStore creates an Idle store backed by fetcher.
func NewStore(fetcher Fetcher) *Store {
	return &Store{
		fetcher: fetcher,
		now:     time.Now,
		state:   Idle,
		changed: make(chan struct{}, 1),
	}
}

// Load issues one fetch for date and commits the result only if date is still
// the latest requested date when the response arrives. A superseded response
// returns ErrSuperseded and leaves the store alone.
//
// Any failure moves the store to Empty and keeps the error for LastError; the
// previous snapshot is already gone by then, since a new Load discards it.
func (s *Store) Load(ctx context.Context, date string) (*Snapshot, error) {
	if !ValidDate(date) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	s.mu.Lock()
	s.desired = date
	s.state = Loading
	s.snapshot = nil
	s.lastErr = nil
	s.mu.Unlock()
	s.notify()

	log.Debug("Loading rankings", "date", date)
	entries, err := s.fetcher.FetchRankings(ctx, date)

	s.mu.Lock()
	if s.desired != date {
		current := s.desired
		s.mu.Unlock()
		log.Debugf("Discarding response for %s, latest request is %s", date, current)
		return nil, ErrSuperseded
	}
	if err != nil {
		s.state = Empty
		s.lastErr = err
		s.mu.Unlock()
		s.notify()
		log.Debugf("Load for %s failed: %v", date, err)
		return nil, err
	}
	ranked := make([]Entry, len(entries))
	copy(ranked, entries)
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	snap := &Snapshot{
		Date:      date,
		Entries:   ranked,
		FetchedAt: s.now(),
	}
	s.state = Ready
	s.snapshot = snap
	s.mu.Unlock()
	s.notify()

	log.Debugf("Committed %d entries for %s", len(entries), date)
	return snap, nil
}

// Clear drops the snapshot and returns to Idle. Responses still in flight are
// discarded on arrival.
func (s *Store) Clear() {
	s.mu.Lock()
	s.state = Idle
	s.desired = ""
	s.snapshot = nil
	s.lastErr = nil
	s.mu.Unlock()
	s.notify()
}

// State returns the current lifecycle state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Snapshot is nil unless the store is Ready.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// LastError is the error of the last committed failure, nil otherwise.
func (s *Store) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Date is the latest requested date.
func (s *Store) Date() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.desired
}

// Changed signals after every state transition. Signals coalesce: a
// receiver that falls behind sees one pending signal, not one per change.
func (s *Store) Changed() <-chan struct{} {
	return s.changed
}

func (s *Store) notify() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}
