package pricing

import (
	"math"
	"strconv"
	"strings"
)

// Normalize converts a raw price cell into a numeric amount. Authoring data
// arrives in whatever shape the sales sheet had: plain numbers, strings with
// thousand separators, currency suffixes, stray whitespace. Everything that
// is not a digit, decimal point or minus sign is stripped before parsing.
// The second result is false for empty or unparsable cells; absence of a
// price is a normal state, not an error.
func Normalize(raw string) (float64, bool) {
	if strings.TrimSpace(raw) == "" {
		return 0, false
	}

	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, raw)

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// NormalizeNumber is the passthrough for values that are already numeric.
// Zero and negative amounts pass through unchanged; only NaN and the
// infinities normalize to unknown.
func NormalizeNumber(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
