package anchor

import "github.com/charmbracelet/log"

// Navigator scrolls registered rows into view.
type Navigator struct {
	reg *Registry
}

// NewNavigator reads anchors from reg, which stays owned by the renderer.
func NewNavigator(reg *Registry) *Navigator {
	return &Navigator{reg: reg}
}

// ResolveAndScroll centers the row for id with a smooth transition.
// An id without an anchor in the current pass (stale, filtered or never
// drawn) is a silent no-op and reports false.
func (n *Navigator) ResolveAndScroll(id string) bool {
	if n == nil || n.reg == nil {
		return false
	}
	a, ok := n.reg.Lookup(id)
	if !ok {
		log.Debugf("No anchor for id %s in render pass %d", id, n.reg.Generation())
		return false
	}
	a.ScrollIntoView(CenterSmooth)
	return true
}
