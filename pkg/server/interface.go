/*
Package server exposes a rankjump session to other processes.

Two transports share one Handler: msgpack IPC over stdin/stdout for editor
and UI front ends, and a small HTTP JSON API.

# IPC

Every request carries an ID that is echoed in its response. Loads run in the
background, so their responses can arrive after later requests' responses;
everything else is answered in order.

	{"id": "1", "action": "load", "date": "2025-11-20"}
	{"id": "2", "action": "suggest", "q": "al"}
	{"id": "3", "action": "select", "entry": "10"}
	{"id": "4", "action": "snapshot"}
	{"id": "5", "action": "status"}

A suggest response lists entries in rank order:

	{"id": "2", "status": "ok", "q": "al", "s": [{"id": "10", "r": 1, "n": "Alpha", ...}], "c": 1, "t": 42}

A select response tells the client which row to bring into view and how:

	{"id": "3", "status": "ok", "scroll": {"r": 1, "block": "center", "behavior": "smooth"}}

When two loads overlap, the one for the older date answers with status
"superseded" and the store keeps the newer date's snapshot.

# HTTP

	GET  /healthz
	GET  /version
	POST /load?date=YYYY-MM-DD
	GET  /snapshot
	GET  /suggest?q=text
	POST /select/:id

Bodies are the same Response shape, JSON encoded.
*/
package server

const (
	StatusOK         = "ok"
	StatusError      = "error"
	StatusSuperseded = "superseded"
	StatusNotFound   = "not_found"
	StatusReady      = "ready"
)

// Request is one IPC message from the client.
type Request struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"action"` // "load", "suggest", "select", "snapshot", "status"
	Date   string `msgpack:"date,omitempty"`
	Query  string `msgpack:"q,omitempty"`
	Entry  string `msgpack:"entry,omitempty"`
}

// EntryPayload is a ranking entry ready for display.
type EntryPayload struct {
	ID        string `msgpack:"id" json:"id"`
	Rank      int    `msgpack:"r" json:"rank"`
	Name      string `msgpack:"n" json:"name"`
	Price     string `msgpack:"p" json:"price"`
	Players   string `msgpack:"pl" json:"players"`
	Thumbnail string `msgpack:"img" json:"thumbnail"`
	StoreURL  string `msgpack:"url" json:"store_url"`
}

// ScrollPayload asks the client to bring a row into view.
type ScrollPayload struct {
	Rank     int    `msgpack:"r" json:"rank"`
	Block    string `msgpack:"block" json:"block"`
	Behavior string `msgpack:"behavior" json:"behavior"`
}

// Response answers one Request.
type Response struct {
	ID        string         `msgpack:"id,omitempty" json:"id,omitempty"`
	Status    string         `msgpack:"status" json:"status"`
	Error     string         `msgpack:"error,omitempty" json:"error,omitempty"`
	State     string         `msgpack:"state,omitempty" json:"state,omitempty"`
	Date      string         `msgpack:"date,omitempty" json:"date,omitempty"`
	Query     string         `msgpack:"q,omitempty" json:"query,omitempty"`
	Entries   []EntryPayload `msgpack:"s,omitempty" json:"entries,omitempty"`
	Count     int            `msgpack:"c" json:"count"`
	Scroll    *ScrollPayload `msgpack:"scroll,omitempty" json:"scroll,omitempty"`
	TimeTaken int64          `msgpack:"t" json:"time_us"`
}
