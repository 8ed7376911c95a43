package ranking

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const (
	DefaultBaseURL      = "https://steamrank-backend.onrender.com/api"
	DefaultRankingsPath = "/rankings"
	DefaultSearchPath   = "/search"

	maxBodyBytes = 8 << 20
)

// Fetcher retrieves the ranking list for one date.
type Fetcher interface {
	FetchRankings(ctx context.Context, date string) ([]Entry, error)
}

// Client talks to the remote ranking API. It implements Fetcher and the
// searcher used by remote suggestion modes.
type Client struct {
	baseURL      string
	rankingsPath string
	searchPath   string
	http         *http.Client
}

// ClientOption customises a Client.
type ClientOption func(*Client)

// WithHTTPClient swaps the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithPaths overrides the endpoint paths; empty values keep the defaults.
func WithPaths(rankings, search string) ClientOption {
	return func(c *Client) {
		if rankings != "" {
			c.rankingsPath = rankings
		}
		if search != "" {
			c.searchPath = search
		}
	}
}

// NewClient builds a Client for baseURL. No timeout is set on the default
// http.Client; callers bound requests through the context.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		rankingsPath: DefaultRankingsPath,
		searchPath:   DefaultSearchPath,
		http:         &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchRankings requests GET {base}/rankings?date=YYYY-MM-DD.
func (c *Client) FetchRankings(ctx context.Context, date string) ([]Entry, error) {
	return c.getEntries(ctx, c.rankingsPath, url.Values{"date": {date}})
}

// Search requests GET {base}/search?q=<text>.
func (c *Client) Search(ctx context.Context, query string) ([]Entry, error) {
	return c.getEntries(ctx, c.searchPath, url.Values{"q": {query}})
}

func (c *Client) getEntries(ctx context.Context, path string, params url.Values) ([]Entry, error) {
	endpoint := c.baseURL + path + "?" + params.Encode()
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &NetworkError{URL: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &HTTPError{URL: endpoint, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &NetworkError{URL: endpoint, Err: err}
	}

	entries, dropped, err := DecodeEntries(body)
	if err != nil {
		return nil, err
	}
	if dropped > 0 {
		log.Warnf("Dropped %d malformed entries from %s", dropped, endpoint)
	}
	log.Debugf("GET %s -> %d entries in [ %v ]", endpoint, len(entries), time.Since(start))
	return entries, nil
}
