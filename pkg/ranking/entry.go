/*
Package ranking fetches date-scoped leaderboards of concurrently-played games
and keeps the snapshot for the most recently requested date.

Upstream payloads drift between field names (steam_appid vs appid, profile_img
vs img.header_image, numeric vs string prices). All of that is absorbed by
DecodeEntries so the rest of the module only ever sees Entry values.

	store := ranking.NewStore(ranking.NewClient(baseURL))
	snap, err := store.Load(ctx, "2025-11-20")

Load is last-request-wins: when two loads overlap, only the response whose date
still matches the latest requested date is committed.
*/
package ranking

import (
	"time"

	"github.com/bastiangx/rankjump/internal/utils"
)

const (
	// DateLayout is the only accepted date format for Load.
	DateLayout = "2006-01-02"

	PriceUnknown   = "price unknown"
	PriceFree      = "free-to-play"
	PlayersUnknown = "unknown"

	// PlaceholderThumbnail replaces missing or empty thumbnails.
	PlaceholderThumbnail = "https://via.placeholder.com/160x90?text=No+Image"

	storeAppURL = "https://store.steampowered.com/app/"
)

// Entry is one game's row in a snapshot.
type Entry struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Price        string `json:"price"`
	Players      int    `json:"players"`
	PlayersKnown bool   `json:"players_known"`
	Thumbnail    string `json:"thumbnail"`
	// Rank is the 1-based position in the snapshot it came from.
	Rank int `json:"rank"`
}

// PlayersDisplay renders the player count with grouping, or PlayersUnknown.
func (e Entry) PlayersDisplay() string {
	if !e.PlayersKnown {
		return PlayersUnknown
	}
	return utils.FormatWithCommas(e.Players)
}

// StoreURL links to the storefront page of the entry.
func (e Entry) StoreURL() string {
	return storeAppURL + e.ID
}

// Snapshot is the full ranking for one date. It is replaced wholesale, never merged.
type Snapshot struct {
	Date      string    `json:"date"`
	Entries   []Entry   `json:"entries"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Len is nil-safe.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Entries)
}

// Lookup finds an entry by id.
func (s *Snapshot) Lookup(id string) (Entry, bool) {
	if s == nil {
		return Entry{}, false
	}
	for _, e := range s.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// ValidDate reports whether date is a syntactically valid calendar date.
// Whether the API has data for it is not checked here.
func ValidDate(date string) bool {
	_, err := time.Parse(DateLayout, date)
	return err == nil
}

// Today returns the local calendar date in DateLayout.
func Today(now time.Time) string {
	return now.Format(DateLayout)
}
