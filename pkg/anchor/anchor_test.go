package anchor

import "testing"

type recorder struct {
	calls []ScrollOptions
}

func (r *recorder) ScrollIntoView(opts ScrollOptions) {
	r.calls = append(r.calls, opts)
}

func TestResolveAndScroll(t *testing.T) {
	reg := NewRegistry()
	nav := NewNavigator(reg)

	reg.Reset()
	alpha, beta := &recorder{}, &recorder{}
	reg.Register("10", alpha)
	reg.Register("20", beta)

	if !nav.ResolveAndScroll("10") {
		t.Fatal("registered id did not resolve")
	}
	if len(alpha.calls) != 1 || alpha.calls[0] != CenterSmooth {
		t.Errorf("alpha scroll calls = %+v, want one centered smooth scroll", alpha.calls)
	}
	if len(beta.calls) != 0 {
		t.Errorf("beta should not scroll: %+v", beta.calls)
	}
}

func TestResolveMissingIsNoop(t *testing.T) {
	reg := NewRegistry()
	nav := NewNavigator(reg)

	testCases := []struct {
		id          string
		description string
	}{
		{"", "Empty id"},
		{"999", "Never rendered"},
		{"10", "Before any render pass"},
	}
	for _, tc := range testCases {
		if nav.ResolveAndScroll(tc.id) {
			t.Errorf("%s: ResolveAndScroll(%q) reported success", tc.description, tc.id)
		}
	}

	var nilNav *Navigator
	if nilNav.ResolveAndScroll("10") {
		t.Error("nil navigator reported success")
	}
}

func TestResetInvalidatesAnchors(t *testing.T) {
	reg := NewRegistry()
	nav := NewNavigator(reg)

	gen := reg.Reset()
	old := &recorder{}
	reg.Register("10", old)

	if next := reg.Reset(); next != gen+1 {
		t.Errorf("generation = %d, want %d", next, gen+1)
	}
	if nav.ResolveAndScroll("10") {
		t.Error("anchor from a previous pass resolved")
	}
	if len(old.calls) != 0 {
		t.Errorf("stale anchor was scrolled: %+v", old.calls)
	}

	fresh := &recorder{}
	reg.Register("10", fresh)
	if !nav.ResolveAndScroll("10") || len(fresh.calls) != 1 {
		t.Error("re-registered anchor did not resolve")
	}
}

func TestRegisterNilUnregisters(t *testing.T) {
	reg := NewRegistry()
	reg.Register("10", &recorder{})
	reg.Register("10", nil)
	if _, ok := reg.Lookup("10"); ok || reg.Len() != 0 {
		t.Error("nil registration should remove the anchor")
	}
}

func TestFuncAnchor(t *testing.T) {
	var got ScrollOptions
	reg := NewRegistry()
	reg.Register("10", Func(func(opts ScrollOptions) { got = opts }))

	NewNavigator(reg).ResolveAndScroll("10")
	if got.Block != BlockCenter || got.Behavior != BehaviorSmooth {
		t.Errorf("options = %+v", got)
	}
}
