package cli

import (
	"fmt"
	"strings"
	"testing"

	"github.com/bastiangx/rankjump/pkg/anchor"
	"github.com/bastiangx/rankjump/pkg/ranking"
)

func testSnapshot(n int) *ranking.Snapshot {
	snap := &ranking.Snapshot{Date: "2025-11-20"}
	for i := range n {
		snap.Entries = append(snap.Entries, ranking.Entry{
			ID:    fmt.Sprintf("%d", 100+i),
			Name:  fmt.Sprintf("Game %02d", i+1),
			Price: ranking.PriceUnknown,
			Rank:  i + 1,
		})
	}
	return snap
}

func TestRenderRegistersEveryRow(t *testing.T) {
	reg := anchor.NewRegistry()
	v := NewListView(5, 4, true)
	v.SetSnapshot(testSnapshot(20))

	out := v.Render(reg)
	if reg.Len() != 20 {
		t.Errorf("registered %d anchors, want 20", reg.Len())
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("rendered %d lines, want 5 rows and a footer:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "Game 01") || !strings.Contains(lines[4], "Game 05") {
		t.Errorf("unexpected window:\n%s", out)
	}
	if !strings.Contains(lines[5], "rows 1-5 of 20") {
		t.Errorf("footer = %q", lines[5])
	}
	if !strings.Contains(lines[0], ranking.PlayersUnknown) {
		t.Errorf("row should show the unknown players sentinel: %q", lines[0])
	}
}

func TestScrollTargets(t *testing.T) {
	tests := []struct {
		description string
		index       int
		block       anchor.Block
		want        int
	}{
		{description: "center middle", index: 10, block: anchor.BlockCenter, want: 8},
		{description: "center near top clamps", index: 1, block: anchor.BlockCenter, want: 0},
		{description: "center near bottom clamps", index: 19, block: anchor.BlockCenter, want: 15},
		{description: "start", index: 7, block: anchor.BlockStart, want: 7},
		{description: "end", index: 7, block: anchor.BlockEnd, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			v := NewListView(5, 1, true)
			v.SetSnapshot(testSnapshot(20))
			v.ScrollTo(tt.index, anchor.ScrollOptions{Block: tt.block, Behavior: anchor.BehaviorInstant})
			if v.Offset() != tt.want {
				t.Errorf("offset = %d, want %d", v.Offset(), tt.want)
			}
			if v.Highlight() != tt.index+1 {
				t.Errorf("highlight = %d, want %d", v.Highlight(), tt.index+1)
			}
		})
	}
}

func TestSmoothScrollLandsOnTarget(t *testing.T) {
	v := NewListView(5, 4, true)
	v.SetSnapshot(testSnapshot(50))
	v.ScrollTo(40, anchor.CenterSmooth)

	if v.Offset() != 0 {
		t.Fatalf("smooth scroll moved before the first frame: offset %d", v.Offset())
	}
	frames := 0
	prev := v.Offset()
	for v.Animating() {
		v.Step()
		frames++
		if v.Offset() < prev {
			t.Fatalf("offset went backwards: %d -> %d", prev, v.Offset())
		}
		prev = v.Offset()
		if frames > 4 {
			t.Fatal("animation ran past its frame count")
		}
	}
	if v.Offset() != 38 {
		t.Errorf("offset = %d, want 38", v.Offset())
	}
	if v.Step() {
		t.Error("Step after the animation ended should report false")
	}
}

func TestAnchorsScrollTheView(t *testing.T) {
	reg := anchor.NewRegistry()
	nav := anchor.NewNavigator(reg)
	v := NewListView(5, 1, true)
	v.SetSnapshot(testSnapshot(30))
	v.Render(reg)

	if !nav.ResolveAndScroll("120") {
		t.Fatal("anchor for id 120 not found")
	}
	if v.Highlight() != 21 || v.Offset() != 18 {
		t.Errorf("highlight = %d, offset = %d, want 21 and 18", v.Highlight(), v.Offset())
	}

	out := v.Render(reg)
	if !strings.Contains(out, ">   21") {
		t.Errorf("highlighted row not marked:\n%s", out)
	}

	// a new list drops the old rows' anchors on the next pass
	v.SetSnapshot(testSnapshot(3))
	v.Render(reg)
	if nav.ResolveAndScroll("120") {
		t.Error("stale anchor still resolves after re-render")
	}
}

func TestRenderWithoutSnapshot(t *testing.T) {
	reg := anchor.NewRegistry()
	reg.Register("1", anchor.Func(func(anchor.ScrollOptions) {}))

	v := NewListView(5, 1, true)
	if out := v.Render(reg); out != "" {
		t.Errorf("render = %q, want empty", out)
	}
	if reg.Len() != 0 {
		t.Errorf("registry kept %d anchors", reg.Len())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		description string
		in          string
		width       int
		want        string
	}{
		{description: "fits", in: "Palworld", width: 10, want: "Palworld"},
		{description: "cut", in: "Counter-Strike 2", width: 8, want: "Counter…"},
		{description: "wide runes", in: "원신원신원신", width: 5, want: "원신…"},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			if got := truncate(tt.in, tt.width); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
		})
	}
}
