package suggest

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/bastiangx/rankjump/internal/utils"
	"github.com/bastiangx/rankjump/pkg/ranking"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

var _ ISuggester = (*Index)(nil)

// Index answers the same queries as Engine.Suggest without scanning every
// name. Every suffix of every folded name is a trie key, so a substring match
// is a prefix walk. An Index belongs to exactly one snapshot; build a new one
// when the snapshot changes.
type Index struct {
	snap  *ranking.Snapshot
	trie  *patricia.Trie
	limit int
}

// NewIndex builds the suffix trie for snap.
func NewIndex(snap *ranking.Snapshot, limit int) *Index {
	if limit <= 0 {
		limit = DefaultLimit
	}
	idx := &Index{
		snap:  snap,
		trie:  patricia.NewTrie(),
		limit: limit,
	}
	if snap == nil {
		return idx
	}

	for pos, entry := range snap.Entries {
		name := utils.FoldString(entry.Name)
		for off := 0; off < len(name); {
			idx.add(name[off:], pos)
			_, size := utf8.DecodeRuneInString(name[off:])
			off += size
		}
	}
	log.Debugf("Indexed %d names for %s", snap.Len(), snap.Date)
	return idx
}

// add records pos under key. Entries are visited in rank order, so each
// position list stays sorted.
func (idx *Index) add(key string, pos int) {
	p := patricia.Prefix(key)
	if item := idx.trie.Get(p); item != nil {
		idx.trie.Set(p, append(item.([]int), pos))
		return
	}
	idx.trie.Insert(p, []int{pos})
}

// Snapshot is the snapshot this index was built for.
func (idx *Index) Snapshot() *ranking.Snapshot { return idx.snap }

func (idx *Index) Limit() int { return idx.limit }

// Suggest returns the same sequence Engine.Suggest would for the indexed
// snapshot. snap must be the indexed snapshot or nil; anything else falls back
// to a scan so a stale index can never answer for a newer snapshot.
func (idx *Index) Suggest(query string, snap *ranking.Snapshot) []ranking.Entry {
	if snap != nil && snap != idx.snap {
		log.Debug("Index queried with a foreign snapshot, scanning instead")
		return NewEngine(idx.limit).Suggest(query, snap)
	}
	if utils.IsBlank(query) || idx.snap.Len() == 0 {
		return []ranking.Entry{}
	}

	needle := utils.FoldString(query)
	seen := make(map[int]struct{})
	err := idx.trie.VisitSubtree(patricia.Prefix(needle), func(_ patricia.Prefix, item patricia.Item) error {
		for _, pos := range item.([]int) {
			seen[pos] = struct{}{}
		}
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting suffix trie: %v", err)
		return []ranking.Entry{}
	}

	positions := make([]int, 0, len(seen))
	for pos := range seen {
		positions = append(positions, pos)
	}
	slices.Sort(positions)
	if len(positions) > idx.limit {
		positions = positions[:idx.limit]
	}

	out := make([]ranking.Entry, len(positions))
	for i, pos := range positions {
		out[i] = idx.snap.Entries[pos]
	}
	return out
}

func containsFolded(name, foldedNeedle string) bool {
	return strings.Contains(utils.FoldString(name), foldedNeedle)
}
