package match

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reNonAlnum = regexp.MustCompile(`[^a-z0-9 ]`)
	reSpaces   = regexp.MustCompile(`\s+`)
	reNonNum   = regexp.MustCompile(`[^0-9.]`)
	reNonDigit = regexp.MustCompile(`[^0-9]`)
)

// NormalizeText lowercases, strips everything outside [a-z0-9 ], collapses
// whitespace runs and trims. Idempotent.
func NormalizeText(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToLower(s)
	s = reNonAlnum.ReplaceAllString(s, "")
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizeAmount turns a monetary value into a float. Numeric inputs pass
// through; textual inputs are stripped to [0-9.] and parsed. Never fails:
// unparsable input is 0.
func NormalizeAmount(v any) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case string:
		if t == "" {
			return 0
		}
		s := reNonNum.ReplaceAllString(t, "")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// NormalizeQuantity strips non-digits and parses an integer. Never fails:
// unparsable input is 0.
func NormalizeQuantity(s string) int {
	if s == "" {
		return 0
	}
	d := reNonDigit.ReplaceAllString(s, "")
	n, err := strconv.Atoi(d)
	if err != nil {
		return 0
	}
	return n
}
