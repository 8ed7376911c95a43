package ranking

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// freeTokens are the lowercased spellings upstream uses for free games.
var freeTokens = map[string]struct{}{
	"free":         {},
	"free to play": {},
	"free-to-play": {},
	"무료":           {},
	"무료 플레이":       {},
}

// NormalizePrice turns a raw upstream price into its display form.
//
//	nil, "" or blank   -> PriceUnknown
//	"free" (any case)  -> PriceFree
//	19.99 or "19.99"   -> "$19.99"
//	JSON 1e3           -> "$1000"
//	anything else      -> the original string, verbatim
func NormalizePrice(raw any) string {
	switch v := raw.(type) {
	case nil:
		return PriceUnknown
	case json.Number:
		if f, err := v.Float64(); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			return dollars(f)
		}
		return normalizePriceString(v.String())
	case string:
		return normalizePriceString(v)
	case float64:
		return dollars(v)
	case float32:
		return dollars(float64(v))
	case int:
		return dollars(float64(v))
	case int64:
		return dollars(float64(v))
	case bool:
		// is_free style flags
		if v {
			return PriceFree
		}
		return PriceUnknown
	default:
		return fmt.Sprint(v)
	}
}

func normalizePriceString(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return PriceUnknown
	}
	if _, ok := freeTokens[strings.ToLower(s)]; ok {
		return PriceFree
	}
	if isPlainDecimal(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) {
			return dollars(f)
		}
	}
	return raw
}

func dollars(f float64) string {
	return "$" + strconv.FormatFloat(f, 'f', -1, 64)
}

// isPlainDecimal accepts digits with at most one dot, nothing else.
// ParseFloat alone would also take "1e3", "Inf" or hex floats.
func isPlainDecimal(s string) bool {
	digits, dots := 0, 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}
