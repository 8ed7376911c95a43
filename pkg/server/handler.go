package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bastiangx/rankjump/pkg/anchor"
	"github.com/bastiangx/rankjump/pkg/ranking"
	"github.com/bastiangx/rankjump/pkg/session"
	"github.com/charmbracelet/log"
)

// Handler runs session operations for both transports. It also stands in
// for the rendering layer: each committed snapshot is "rendered" by
// registering one anchor per row, and a resolved anchor turns into the
// ScrollPayload the client applies.
type Handler struct {
	sess    *session.Session
	reg     *anchor.Registry
	timeout time.Duration

	// mu serialises render passes with selections, since anchors write
	// into pending while Select runs.
	mu       sync.Mutex
	rendered *ranking.Snapshot
	pending  *ScrollPayload
}

// NewHandler wraps sess; reg must be the registry its navigator reads.
// timeout bounds each load, 0 for none.
func NewHandler(sess *session.Session, reg *anchor.Registry, timeout time.Duration) *Handler {
	return &Handler{sess: sess, reg: reg, timeout: timeout}
}

// Load fetches date and renders the committed snapshot.
func (h *Handler) Load(ctx context.Context, date string) Response {
	start := time.Now()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	snap, err := h.sess.Load(ctx, date)
	resp := Response{Date: date, State: h.sess.Store().State().String()}
	switch {
	case errors.Is(err, ranking.ErrSuperseded):
		resp.Status = StatusSuperseded
	case err != nil:
		resp.Status = StatusError
		resp.Error = err.Error()
		log.Warnf("Load %s failed: %v", date, err)
	default:
		h.sync()
		resp.Status = StatusOK
		resp.Entries = payloads(snap.Entries)
		resp.Count = len(resp.Entries)
	}
	resp.TimeTaken = time.Since(start).Microseconds()
	return resp
}

// Suggest updates the query and returns its suggestions.
func (h *Handler) Suggest(ctx context.Context, query string) Response {
	start := time.Now()
	entries, err := h.sess.SetQuery(ctx, query)
	resp := Response{Query: query}
	if err != nil {
		resp.Status = StatusError
		resp.Error = err.Error()
	} else {
		resp.Status = StatusOK
		resp.Entries = payloads(entries)
		resp.Count = len(resp.Entries)
	}
	resp.TimeTaken = time.Since(start).Microseconds()
	return resp
}

// Select resolves id to its row. A row missing from the current snapshot
// answers StatusNotFound; the search session is consumed either way.
func (h *Handler) Select(id string) Response {
	start := time.Now()
	h.sync()

	h.mu.Lock()
	h.pending = nil
	found := h.sess.Select(id)
	scroll := h.pending
	h.pending = nil
	h.mu.Unlock()

	resp := Response{Status: StatusOK, Scroll: scroll}
	if !found {
		resp.Status = StatusNotFound
	}
	resp.TimeTaken = time.Since(start).Microseconds()
	return resp
}

// Snapshot returns the committed snapshot, or the store state and last
// error when there is none.
func (h *Handler) Snapshot() Response {
	store := h.sess.Store()
	resp := Response{
		Status: StatusOK,
		State:  store.State().String(),
		Date:   store.Date(),
	}
	if snap := store.Snapshot(); snap != nil {
		h.sync()
		resp.Entries = payloads(snap.Entries)
		resp.Count = len(resp.Entries)
	} else if err := store.LastError(); err != nil {
		resp.Error = err.Error()
	}
	return resp
}

// Status reports the store state and the search session.
func (h *Handler) Status() Response {
	store := h.sess.Store()
	return Response{
		Status: StatusOK,
		State:  store.State().String(),
		Date:   store.Date(),
		Query:  h.sess.Query(),
		Count:  store.Snapshot().Len(),
	}
}

// sync runs a render pass if the committed snapshot is not the rendered one.
func (h *Handler) sync() {
	snap := h.sess.Snapshot()

	h.mu.Lock()
	defer h.mu.Unlock()
	if snap == h.rendered {
		return
	}
	h.rendered = snap
	h.reg.Reset()
	if snap == nil {
		return
	}
	for _, e := range snap.Entries {
		rank := e.Rank
		// runs under h.mu, inside Select
		h.reg.Register(e.ID, anchor.Func(func(opts anchor.ScrollOptions) {
			h.pending = &ScrollPayload{
				Rank:     rank,
				Block:    string(opts.Block),
				Behavior: string(opts.Behavior),
			}
		}))
	}
	log.Debugf("Rendered %d anchors for %s", len(snap.Entries), snap.Date)
}

func payloads(entries []ranking.Entry) []EntryPayload {
	out := make([]EntryPayload, len(entries))
	for i, e := range entries {
		out[i] = EntryPayload{
			ID:        e.ID,
			Rank:      e.Rank,
			Name:      e.Name,
			Price:     e.Price,
			Players:   e.PlayersDisplay(),
			Thumbnail: e.Thumbnail,
			StoreURL:  e.StoreURL(),
		}
	}
	return out
}
