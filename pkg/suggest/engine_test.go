package suggest

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/bastiangx/rankjump/internal/utils"
	"github.com/bastiangx/rankjump/pkg/ranking"
)

func snapshotOf(names ...string) *ranking.Snapshot {
	entries := make([]ranking.Entry, len(names))
	for i, n := range names {
		entries[i] = ranking.Entry{ID: fmt.Sprintf("%d", (i+1)*10), Name: n, Rank: i + 1}
	}
	return &ranking.Snapshot{Date: "2025-11-20", Entries: entries}
}

var leaderboard = snapshotOf(
	"Counter-Strike 2",
	"Dota 2",
	"PUBG: BATTLEGROUNDS",
	"Apex Legends",
	"Naraka: Bladepoint",
	"Lost Ark",
	"MapleStory",
	"Stardew Valley",
	"Palworld",
	"Dave the Diver",
	"Baldur's Gate 3",
	"Warframe",
	"ＦＩＮＡＬ ＦＡＮＴＡＳＹ XIV",
	"배틀그라운드",
)

func names(entries []ranking.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestSuggest(t *testing.T) {
	testCases := []struct {
		query       string
		want        []string
		description string
	}{
		{"", nil, "Empty query suppresses suggestions"},
		{"   ", nil, "Whitespace query suppresses suggestions"},
		{"dota", []string{"Dota 2"}, "Lowercase query"},
		{"DOTA", []string{"Dota 2"}, "Uppercase query"},
		{"ark", []string{"Lost Ark"}, "Suffix of a word"},
		{"2", []string{"Counter-Strike 2", "Dota 2"}, "Rank order is kept"},
		{"la", []string{"Naraka: Bladepoint"}, "Substring inside a word, not prefix"},
		{"al", []string{"Stardew Valley", "Palworld", "Baldur's Gate 3", "ＦＩＮＡＬ ＦＡＮＴＡＳＹ XIV"}, "Several matches in rank order"},
		{"final fantasy", []string{"ＦＩＮＡＬ ＦＡＮＴＡＳＹ XIV"}, "Full-width name"},
		{"그라운", []string{"배틀그라운드"}, "Hangul name"},
		{"zelda", nil, "No match"},
		{"cs2", nil, "No fuzzy or token matching"},
	}

	for _, tc := range testCases {
		got := names(Suggest(tc.query, leaderboard))
		if len(got) == 0 && len(tc.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("%s: Suggest(%q) = %v, want %v", tc.description, tc.query, got, tc.want)
		}
	}
}

func TestSuggestEmptyIsNotNil(t *testing.T) {
	for _, q := range []string{"", "zzz"} {
		if got := Suggest(q, leaderboard); got == nil || len(got) != 0 {
			t.Errorf("Suggest(%q) = %#v, want an empty non-nil slice", q, got)
		}
	}
	if got := Suggest("a", nil); got == nil || len(got) != 0 {
		t.Errorf("Suggest on nil snapshot = %#v", got)
	}
}

func TestSuggestLimit(t *testing.T) {
	// "a" is in almost every name
	got := Suggest("a", leaderboard)
	if len(got) != DefaultLimit {
		t.Fatalf("len = %d, want %d", len(got), DefaultLimit)
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Rank >= got[i].Rank {
			t.Errorf("suggestions out of rank order: %v", names(got))
		}
	}

	if got := NewEngine(3).Suggest("a", leaderboard); len(got) != 3 {
		t.Errorf("custom limit: len = %d, want 3", len(got))
	}
	if NewEngine(0).Limit() != DefaultLimit {
		t.Errorf("zero limit should fall back to %d", DefaultLimit)
	}
}

func TestSuggestMatchesAreSubstrings(t *testing.T) {
	for _, q := range []string{"a", "e", "st", "RA", "2", "the", " "} {
		got := Suggest(q, leaderboard)
		if len(got) > DefaultLimit {
			t.Errorf("Suggest(%q) returned %d > %d", q, len(got), DefaultLimit)
		}
		for _, e := range got {
			if !utils.ContainsFold(e.Name, q) {
				t.Errorf("Suggest(%q) returned non-matching %q", q, e.Name)
			}
		}
	}
}

func TestSuggestIsPure(t *testing.T) {
	first := Suggest("a", leaderboard)
	second := Suggest("a", leaderboard)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated calls differ: %v vs %v", names(first), names(second))
	}
}

func TestSuggestDuplicateNames(t *testing.T) {
	snap := &ranking.Snapshot{Entries: []ranking.Entry{
		{ID: "1", Name: "Rust", Rank: 1},
		{ID: "2", Name: "Rust", Rank: 2},
	}}
	got := Suggest("rust", snap)
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "2" {
		t.Errorf("duplicate names collapsed or reordered: %+v", got)
	}
}

func TestSuggestEndToEndExample(t *testing.T) {
	snap := &ranking.Snapshot{Entries: []ranking.Entry{
		{ID: "10", Name: "Alpha", Players: 500, PlayersKnown: true, Rank: 1},
		{ID: "20", Name: "Beta", Players: 300, PlayersKnown: true, Rank: 2},
	}}
	got := Suggest("al", snap)
	if len(got) != 1 || got[0].ID != "10" || got[0].Name != "Alpha" {
		t.Errorf("Suggest(al) = %+v, want only Alpha", got)
	}
}

func TestIndexMatchesEngine(t *testing.T) {
	idx := NewIndex(leaderboard, DefaultLimit)
	engine := NewEngine(DefaultLimit)

	queries := []string{"", " ", "a", "A", "2", "dota", "la", "ark", "st", "ve", "e 3",
		"final", "ｆｉｎ", "그라", "zzz", "counter-strike 2", "r"}
	for _, q := range queries {
		want := engine.Suggest(q, leaderboard)
		if got := idx.Suggest(q, leaderboard); !reflect.DeepEqual(got, want) {
			t.Errorf("query %q: index %v, engine %v", q, names(got), names(want))
		}
		if got := idx.Suggest(q, nil); !reflect.DeepEqual(got, want) {
			t.Errorf("query %q with nil snapshot: index %v, engine %v", q, names(got), names(want))
		}
	}
}

func TestIndexForeignSnapshot(t *testing.T) {
	idx := NewIndex(leaderboard, DefaultLimit)
	other := snapshotOf("Alpha", "Beta")

	got := idx.Suggest("al", other)
	if len(got) != 1 || got[0].Name != "Alpha" {
		t.Errorf("stale index answered for another snapshot: %v", names(got))
	}
}

func TestIndexLargeSnapshot(t *testing.T) {
	list := make([]string, 500)
	for i := range list {
		list[i] = fmt.Sprintf("Game %03d %s", i, strings.Repeat("x", i%7))
	}
	snap := snapshotOf(list...)
	idx := NewIndex(snap, 5)

	got := idx.Suggest("xxxxxx", snap)
	want := NewEngine(5).Suggest("xxxxxx", snap)
	if !reflect.DeepEqual(got, want) || len(got) != 5 {
		t.Errorf("index %v, engine %v", names(got), names(want))
	}
}
