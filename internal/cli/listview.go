package cli

import (
	"fmt"
	"strings"

	"github.com/bastiangx/rankjump/pkg/anchor"
	"github.com/bastiangx/rankjump/pkg/ranking"
	"github.com/charmbracelet/lipgloss"
)

const (
	nameWidth    = 36
	priceWidth   = 10
	playersWidth = 12
)

type viewStyles struct {
	header    lipgloss.Style
	rank      lipgloss.Style
	price     lipgloss.Style
	players   lipgloss.Style
	unknown   lipgloss.Style
	highlight lipgloss.Style
	dim       lipgloss.Style
}

func newViewStyles(plain bool) viewStyles {
	if plain {
		s := lipgloss.NewStyle()
		return viewStyles{s, s, s, s, s, s, s}
	}
	text := lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}
	muted := lipgloss.AdaptiveColor{Light: "#9893a5", Dark: "#6e6a86"}
	return viewStyles{
		header:    lipgloss.NewStyle().Bold(true).Foreground(text),
		rank:      lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#286983", Dark: "#9ccfd8"}),
		price:     lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#56949f", Dark: "#31748f"}),
		players:   lipgloss.NewStyle().Foreground(text),
		unknown:   lipgloss.NewStyle().Italic(true).Foreground(muted),
		highlight: lipgloss.NewStyle().Bold(true).Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"}),
		dim:       lipgloss.NewStyle().Foreground(muted),
	}
}

// ListView draws a snapshot as a fixed-height window over its rows.
//
// Every Render is one render pass: the registry is reset and one anchor per
// row is registered, so a selection always resolves against what was last
// drawn. Scrolling is animated over a number of frames advanced by Step.
// A ListView is not safe for concurrent use.
type ListView struct {
	height int
	frames int
	plain  bool
	styles viewStyles

	snap      *ranking.Snapshot
	offset    int
	target    int
	left      int
	highlight int
}

// NewListView creates a view showing height rows, animating smooth scrolls
// over frames steps.
func NewListView(height, frames int, plain bool) *ListView {
	if height < 1 {
		height = 1
	}
	if frames < 1 {
		frames = 1
	}
	return &ListView{
		height: height,
		frames: frames,
		plain:  plain,
		styles: newViewStyles(plain),
	}
}

// SetSnapshot swaps the list, resetting scroll position and highlight.
func (v *ListView) SetSnapshot(snap *ranking.Snapshot) {
	if snap == v.snap {
		return
	}
	v.snap = snap
	v.offset, v.target, v.left, v.highlight = 0, 0, 0, 0
}

// Offset is the index of the first visible row.
func (v *ListView) Offset() int { return v.offset }

// Highlight is the rank of the last row scrolled to, 0 for none.
func (v *ListView) Highlight() int { return v.highlight }

// Animating reports whether a smooth scroll still has frames to run.
func (v *ListView) Animating() bool { return v.left > 0 }

// ScrollTo brings the row at index into view.
func (v *ListView) ScrollTo(index int, opts anchor.ScrollOptions) {
	if v.snap == nil || index < 0 || index >= v.snap.Len() {
		return
	}
	v.highlight = v.snap.Entries[index].Rank
	v.target = v.targetFor(index, opts.Block)
	if opts.Behavior == anchor.BehaviorInstant || v.frames == 1 {
		v.offset = v.target
		v.left = 0
		return
	}
	v.left = v.frames
}

// Step advances the running animation by one frame and reports whether
// more frames remain. The last frame always lands on the target.
func (v *ListView) Step() bool {
	if v.left <= 0 {
		return false
	}
	diff := v.target - v.offset
	step := diff / v.left
	if step == 0 && diff != 0 {
		step = 1
		if diff < 0 {
			step = -1
		}
	}
	v.offset += step
	v.left--
	if v.offset == v.target {
		v.left = 0
	}
	return v.left > 0
}

func (v *ListView) targetFor(index int, block anchor.Block) int {
	var t int
	switch block {
	case anchor.BlockStart:
		t = index
	case anchor.BlockEnd:
		t = index - v.height + 1
	default:
		t = index - v.height/2
	}
	return max(0, min(t, v.maxOffset()))
}

func (v *ListView) maxOffset() int {
	return max(0, v.snap.Len()-v.height)
}

// Render registers anchors for the current snapshot into reg and returns the
// visible window.
func (v *ListView) Render(reg *anchor.Registry) string {
	reg.Reset()
	if v.snap == nil {
		return ""
	}
	for i, e := range v.snap.Entries {
		reg.Register(e.ID, anchor.Func(func(opts anchor.ScrollOptions) {
			v.ScrollTo(i, opts)
		}))
	}

	var b strings.Builder
	end := min(v.offset+v.height, v.snap.Len())
	for _, e := range v.snap.Entries[v.offset:end] {
		b.WriteString(v.row(e))
		b.WriteByte('\n')
	}
	if v.snap.Len() > v.height {
		b.WriteString(v.styles.dim.Render(fmt.Sprintf("rows %d-%d of %d", v.offset+1, end, v.snap.Len())))
		b.WriteByte('\n')
	}
	return b.String()
}

func (v *ListView) row(e ranking.Entry) string {
	marker := "  "
	if e.Rank == v.highlight {
		marker = "> "
	}

	players := e.PlayersDisplay()
	playerStyle := v.styles.players
	if !e.PlayersKnown {
		playerStyle = v.styles.unknown
	}
	priceStyle := v.styles.price
	if e.Price == ranking.PriceUnknown {
		priceStyle = v.styles.unknown
	}

	line := marker +
		v.styles.rank.Render(fmt.Sprintf("%4d", e.Rank)) + "  " +
		padRight(truncate(e.Name, nameWidth), nameWidth) + " " +
		priceStyle.Render(padLeft(e.Price, priceWidth)) + " " +
		playerStyle.Render(padLeft(players, playersWidth))

	if e.Rank == v.highlight {
		return v.styles.highlight.Render(line)
	}
	return line
}

// truncate cuts s to at most width display cells.
func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func padLeft(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return strings.Repeat(" ", width-w) + s
	}
	return s
}
