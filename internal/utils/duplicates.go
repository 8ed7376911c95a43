package utils

// IDFilter remembers identifiers it has already accepted.
// It is not safe for concurrent use.
type IDFilter struct {
	seen map[string]struct{}
}

// NewIDFilter creates an empty filter.
func NewIDFilter() *IDFilter {
	return &IDFilter{seen: make(map[string]struct{})}
}

// ShouldInclude returns true the first time id is offered, false afterwards.
func (f *IDFilter) ShouldInclude(id string) bool {
	if _, dup := f.seen[id]; dup {
		return false
	}
	f.seen[id] = struct{}{}
	return true
}
