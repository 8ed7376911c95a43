// Package cli runs rankjump as an interactive terminal session.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bastiangx/rankjump/pkg/anchor"
	"github.com/bastiangx/rankjump/pkg/ranking"
	"github.com/bastiangx/rankjump/pkg/session"
	"github.com/bastiangx/rankjump/pkg/suggest"
	"github.com/charmbracelet/log"
)

const clearScreen = "\033[H\033[2J"

// Options configure an InputHandler.
type Options struct {
	Timeout       time.Duration
	FrameInterval time.Duration
	Height        int
	ScrollFrames  int
	Plain         bool
}

// InputHandler reads commands and queries from in and redraws the list on out.
//
// A single loop owns the view: typed lines, load completions, suggestion
// results and animation frames are all handled there, one at a time.
type InputHandler struct {
	sess *session.Session
	reg  *anchor.Registry
	view *ListView
	opts Options

	in  io.Reader
	out io.Writer

	loads       chan loadResult
	suggestions chan suggestResult
	status      string

	// Remote searches run on one worker. The loop posts the latest query and
	// the worker picks it up, so queries are answered in typing order.
	searchMu   sync.Mutex
	posted     bool
	latest     string
	searchWake chan struct{}

	// loop only: a posted query whose result has not come back yet
	searching bool
	pending   string
}

type loadResult struct {
	date string
	err  error
}

type suggestResult struct {
	query   string
	entries []ranking.Entry
	err     error
}

// NewInputHandler wires a terminal session. reg must be the registry behind
// the session's navigator.
func NewInputHandler(sess *session.Session, reg *anchor.Registry, in io.Reader, out io.Writer, opts Options) *InputHandler {
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = 30 * time.Millisecond
	}
	return &InputHandler{
		sess:        sess,
		reg:         reg,
		view:        NewListView(opts.Height, opts.ScrollFrames, opts.Plain),
		opts:        opts,
		in:          in,
		out:         out,
		loads:       make(chan loadResult),
		suggestions: make(chan suggestResult),
		searchWake:  make(chan struct{}, 1),
	}
}

// Start loads date, then runs the loop until the input ends, :quit is typed
// or ctx is done.
func (h *InputHandler) Start(ctx context.Context, date string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(h.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	if h.sess.Mode() != suggest.ModeLocal {
		go h.searchLoop(ctx)
	}

	h.status = "type to search, :help for commands"
	h.load(ctx, date)
	h.redraw()

	ticker := time.NewTicker(h.opts.FrameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case err := <-readErr:
			return err

		case line := <-lines:
			if quit := h.handleLine(ctx, line); quit {
				return nil
			}
			h.redraw()

		case <-h.sess.Store().Changed():
			h.redraw()

		case res := <-h.loads:
			h.loaded(res)
			h.redraw()

		case res := <-h.suggestions:
			if !h.searching || res.query != h.pending {
				continue
			}
			h.searching = false
			if res.err != nil && !errors.Is(res.err, session.ErrStaleQuery) {
				h.status = fmt.Sprintf("search failed: %v", res.err)
			} else {
				h.status = ""
			}
			h.redraw()

		case <-ticker.C:
			if h.view.Animating() {
				h.view.Step()
				h.redraw()
			}
		}
	}
}

// handleLine runs one typed line and reports whether the session should end.
func (h *InputHandler) handleLine(ctx context.Context, line string) bool {
	cmd, arg := parseCommand(line)
	switch cmd {
	case cmdQuit:
		return true
	case cmdHelp:
		h.status = helpText
	case cmdDate:
		h.load(ctx, arg)
	case cmdToday:
		h.load(ctx, ranking.Today(time.Now()))
	case cmdClear:
		h.dropSearch()
		h.sess.Clear()
		h.status = ""
	case cmdReset:
		h.dropSearch()
		h.sess.Reset()
		h.status = "list cleared, :date or :today loads one"
	case cmdPick:
		h.pick(arg)
	case cmdQuery:
		h.query(ctx, arg)
	case cmdUnknown:
		h.status = fmt.Sprintf("unknown command %q, :help lists them", arg)
	}
	return false
}

func (h *InputHandler) load(ctx context.Context, date string) {
	if !ranking.ValidDate(date) {
		h.status = fmt.Sprintf("not a date: %q (want YYYY-MM-DD)", date)
		return
	}
	h.status = "loading " + date + "..."
	go func() {
		lctx := ctx
		if h.opts.Timeout > 0 {
			var cancel context.CancelFunc
			lctx, cancel = context.WithTimeout(ctx, h.opts.Timeout)
			defer cancel()
		}
		_, err := h.sess.Load(lctx, date)
		select {
		case h.loads <- loadResult{date: date, err: err}:
		case <-ctx.Done():
		}
	}()
}

func (h *InputHandler) loaded(res loadResult) {
	switch {
	case errors.Is(res.err, ranking.ErrSuperseded):
		log.Debugf("Load for %s superseded", res.date)
	case res.err != nil:
		h.status = fmt.Sprintf("could not load %s: %v", res.date, res.err)
	default:
		h.status = fmt.Sprintf("loaded %s", res.date)
	}
}

// query recomputes suggestions. Local matching is answered right here on the
// loop; remote modes block on the network and go to the search worker.
func (h *InputHandler) query(ctx context.Context, q string) {
	h.status = ""
	if h.sess.Mode() == suggest.ModeLocal {
		if _, err := h.sess.SetQuery(ctx, q); err != nil && !errors.Is(err, session.ErrStaleQuery) {
			h.status = fmt.Sprintf("search failed: %v", err)
		}
		return
	}

	h.searching, h.pending = true, q
	h.status = fmt.Sprintf("searching for %q...", q)

	h.searchMu.Lock()
	h.latest, h.posted = q, true
	h.searchMu.Unlock()
	select {
	case h.searchWake <- struct{}{}:
	default:
	}
}

// dropSearch forgets a remote query that has not been answered yet.
func (h *InputHandler) dropSearch() {
	h.searching, h.pending = false, ""
	h.searchMu.Lock()
	h.posted = false
	h.searchMu.Unlock()
}

// searchLoop runs posted queries one at a time; a query replaced before it
// started is skipped.
func (h *InputHandler) searchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-h.searchWake:
		}

		h.searchMu.Lock()
		q, ok := h.latest, h.posted
		h.posted = false
		h.searchMu.Unlock()
		if !ok {
			continue
		}

		entries, err := h.sess.SetQuery(ctx, q)
		select {
		case h.suggestions <- suggestResult{query: q, entries: entries, err: err}:
		case <-ctx.Done():
			return
		}
	}
}

func (h *InputHandler) pick(arg string) {
	if h.searching {
		h.status = fmt.Sprintf("still searching for %q, pick again once results show", h.pending)
		return
	}
	n, err := strconv.Atoi(arg)
	suggestions := h.sess.Suggestions()
	if err != nil || n < 1 || n > len(suggestions) {
		h.status = fmt.Sprintf("no suggestion #%s", arg)
		return
	}
	picked := suggestions[n-1]
	if !h.sess.Select(picked.ID) {
		h.status = fmt.Sprintf("%s is not in the loaded list", picked.Name)
		return
	}
	h.status = fmt.Sprintf("jumped to #%d %s", picked.Rank, picked.Name)
}

// redraw runs a render pass and writes the whole screen.
func (h *InputHandler) redraw() {
	store := h.sess.Store()
	h.view.SetSnapshot(store.Snapshot())

	var b strings.Builder
	if !h.opts.Plain {
		b.WriteString(clearScreen)
	}

	header := fmt.Sprintf("Top games for %s [%s]", orDash(store.Date()), store.State())
	b.WriteString(h.view.styles.header.Render(header))
	b.WriteString("\n\n")

	switch store.State() {
	case ranking.Loading:
		b.WriteString("  loading...\n")
	case ranking.Empty:
		b.WriteString(fmt.Sprintf("  failed to load: %v\n", store.LastError()))
	case ranking.Ready:
		if store.Snapshot().Len() == 0 {
			b.WriteString("  no data for this date\n")
		}
	}
	b.WriteString(h.view.Render(h.reg))

	if q := h.sess.Query(); q != "" {
		b.WriteString(fmt.Sprintf("\nsearch: %s\n", q))
		for i, e := range h.sess.Suggestions() {
			rank := "-"
			if e.Rank > 0 {
				rank = strconv.Itoa(e.Rank)
			}
			b.WriteString(fmt.Sprintf("  #%d  %s %s\n", i+1, e.Name, h.view.styles.dim.Render("(rank "+rank+")")))
		}
	}
	if h.status != "" {
		b.WriteString("\n" + h.view.styles.dim.Render(h.status) + "\n")
	}
	b.WriteString("> ")

	fmt.Fprint(h.out, b.String())
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

type command int

const (
	cmdQuery command = iota
	cmdQuit
	cmdHelp
	cmdDate
	cmdToday
	cmdClear
	cmdReset
	cmdPick
	cmdUnknown
)

const helpText = `:date YYYY-MM-DD  load another day
:today            load today
:pick N, #N       jump to suggestion N
:clear            clear the search
:reset            drop the loaded list and the search
:quit             exit
anything else searches the loaded list`

// parseCommand splits a typed line into a command and its argument. Lines
// that are not commands are queries, kept verbatim.
func parseCommand(line string) (command, string) {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "#") {
		return cmdPick, strings.TrimSpace(trimmed[1:])
	}
	if !strings.HasPrefix(trimmed, ":") {
		return cmdQuery, line
	}

	name, arg, _ := strings.Cut(trimmed[1:], " ")
	arg = strings.TrimSpace(arg)
	switch strings.ToLower(name) {
	case "q", "quit", "exit":
		return cmdQuit, ""
	case "h", "help":
		return cmdHelp, ""
	case "d", "date":
		return cmdDate, arg
	case "today":
		return cmdToday, ""
	case "c", "clear":
		return cmdClear, ""
	case "reset":
		return cmdReset, ""
	case "p", "pick":
		return cmdPick, arg
	default:
		return cmdUnknown, trimmed
	}
}
