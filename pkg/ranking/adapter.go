package ranking

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/bastiangx/rankjump/internal/utils"
	"github.com/charmbracelet/log"
)

// Upstream field names, in order of preference.
var (
	idKeys        = []string{"steam_appid", "appid", "app_id", "id"}
	nameKeys      = []string{"name", "title"}
	playerKeys    = []string{"players", "playerCount", "player_count", "current_players"}
	priceKeys     = []string{"price", "price_display"}
	thumbnailKeys = []string{"profile_img", "thumbnail", "header_image"}
	envelopeKeys  = []string{"rankings", "data", "results", "items"}
)

// DecodeEntries maps an upstream body onto Entry values in upstream order.
//
// The body is either a JSON array or an object wrapping one under a known key.
// Items without a usable id or name are dropped, as are repeated ids after the
// first occurrence; dropped reports how many were skipped. Any other shape is
// a *DecodeError.
func DecodeEntries(body []byte) (entries []Entry, dropped int, err error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, 0, &DecodeError{Err: err}
	}

	items, err := unwrapList(raw)
	if err != nil {
		return nil, 0, &DecodeError{Err: err}
	}

	seen := utils.NewIDFilter()
	entries = make([]Entry, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			log.Debugf("Dropping ranking item %d: not an object (%T)", i, item)
			dropped++
			continue
		}
		e, ok := decodeEntry(obj)
		if !ok {
			log.Debugf("Dropping ranking item %d: missing id or name", i)
			dropped++
			continue
		}
		if !seen.ShouldInclude(e.ID) {
			log.Debugf("Dropping ranking item %d: duplicate id %s", i, e.ID)
			dropped++
			continue
		}
		e.Rank = len(entries) + 1
		entries = append(entries, e)
	}
	return entries, dropped, nil
}

func unwrapList(raw any) ([]any, error) {
	switch v := raw.(type) {
	case []any:
		return v, nil
	case map[string]any:
		for _, key := range envelopeKeys {
			if list, ok := v[key].([]any); ok {
				return list, nil
			}
		}
		return nil, errors.New("object without a rankings list")
	case nil:
		return nil, errors.New("null body")
	default:
		return nil, fmt.Errorf("unexpected top-level %T", raw)
	}
}

func decodeEntry(obj map[string]any) (Entry, bool) {
	id := idString(first(obj, idKeys))
	name := ""
	if s, ok := first(obj, nameKeys).(string); ok {
		name = strings.TrimSpace(s)
	}
	if id == "" || name == "" {
		return Entry{}, false
	}

	e := Entry{
		ID:        id,
		Name:      name,
		Price:     decodePrice(obj),
		Thumbnail: decodeThumbnail(obj),
	}
	e.Players, e.PlayersKnown = playerCount(first(obj, playerKeys))
	return e, true
}

// first returns the value of the first key present and non-null.
func first(obj map[string]any, keys []string) any {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func idString(v any) string {
	switch id := v.(type) {
	case json.Number:
		if n, err := id.Int64(); err == nil {
			return strconv.FormatInt(n, 10)
		}
		return id.String()
	case string:
		return strings.TrimSpace(id)
	default:
		return ""
	}
}

func playerCount(v any) (int, bool) {
	var n int64
	switch p := v.(type) {
	case json.Number:
		i, err := p.Int64()
		if err != nil {
			f, ferr := p.Float64()
			if ferr != nil || math.IsNaN(f) || f < 0 || f >= math.MaxInt64 {
				return 0, false
			}
			i = int64(f)
		}
		n = i
	case string:
		i, err := strconv.ParseInt(strings.ReplaceAll(strings.TrimSpace(p), ",", ""), 10, 64)
		if err != nil {
			return 0, false
		}
		n = i
	default:
		return 0, false
	}
	if n < 0 || n > math.MaxInt {
		return 0, false
	}
	return int(n), true
}

func decodePrice(obj map[string]any) string {
	if v := first(obj, priceKeys); v != nil {
		return NormalizePrice(v)
	}
	if overview, ok := obj["price_overview"].(map[string]any); ok {
		if s, ok := overview["final_formatted"].(string); ok {
			return NormalizePrice(s)
		}
	}
	if free, ok := obj["is_free"].(bool); ok && free {
		return PriceFree
	}
	return PriceUnknown
}

func decodeThumbnail(obj map[string]any) string {
	if s, ok := first(obj, thumbnailKeys).(string); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	switch img := obj["img"].(type) {
	case map[string]any:
		if s, ok := img["header_image"].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	case string:
		if strings.TrimSpace(img) != "" {
			return strings.TrimSpace(img)
		}
	}
	return PlaceholderThumbnail
}
