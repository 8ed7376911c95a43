/*
Package anchor maps ranking entry ids to the rows a renderer drew for them,
so a picked suggestion can be scrolled into view.

The Registry belongs to the rendering layer. Each render pass starts with
Reset, which drops every anchor of the previous pass, then registers one
anchor per drawn row. The Navigator only looks anchors up; it never keeps
one alive past the pass that registered it.

	reg := anchor.NewRegistry()
	nav := anchor.NewNavigator(reg)

	reg.Reset()
	for _, e := range snap.Entries {
		reg.Register(e.ID, rowAnchor(e))
	}
	nav.ResolveAndScroll("730")
*/
package anchor

import "sync"

// Block is the vertical alignment of a scrolled-to row.
type Block string

// Behavior is how the viewport moves.
type Behavior string

const (
	BlockStart  Block = "start"
	BlockCenter Block = "center"
	BlockEnd    Block = "end"

	BehaviorSmooth  Behavior = "smooth"
	BehaviorInstant Behavior = "instant"
)

// ScrollOptions describe a scroll request.
type ScrollOptions struct {
	Block    Block    `json:"block" msgpack:"block"`
	Behavior Behavior `json:"behavior" msgpack:"behavior"`
}

// CenterSmooth is what a suggestion pick asks for.
var CenterSmooth = ScrollOptions{Block: BlockCenter, Behavior: BehaviorSmooth}

// Anchor is a handle on one rendered row.
type Anchor interface {
	ScrollIntoView(opts ScrollOptions)
}

// Func adapts a plain function to Anchor.
type Func func(opts ScrollOptions)

func (f Func) ScrollIntoView(opts ScrollOptions) { f(opts) }

// Registry holds the anchors of the current render pass.
type Registry struct {
	mu         sync.RWMutex
	generation uint64
	anchors    map[string]Anchor
}

// NewRegistry creates an empty registry at generation 0.
func NewRegistry() *Registry {
	return &Registry{anchors: make(map[string]Anchor)}
}

// Reset invalidates every anchor and starts a new render pass.
// It returns the new generation.
func (r *Registry) Reset() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.anchors = make(map[string]Anchor)
	r.generation++
	return r.generation
}

// Register binds id to a for the current pass. A nil anchor removes id,
// for rows that unmount mid-pass.
func (r *Registry) Register(id string, a Anchor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a == nil {
		delete(r.anchors, id)
		return
	}
	r.anchors[id] = a
}

// Lookup finds the anchor registered for id in the current pass.
func (r *Registry) Lookup(id string) (Anchor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.anchors[id]
	return a, ok
}

// Generation counts render passes.
func (r *Registry) Generation() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.generation
}

// Len is the number of anchors in the current pass.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.anchors)
}
