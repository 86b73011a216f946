package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// strategy is one attempt at pulling a field out of raw text. Strategies for a
// field run in declared order; the first hit wins and later ones are skipped.
type strategy struct {
	name string
	fn   func(text string) (string, bool)
}

// fieldRule binds a field name to its ordered strategy chain.
type fieldRule struct {
	field      string
	strategies []strategy
}

// labelCapture builds a strategy from a compiled pattern: the value is capture
// group `group`, trimmed. Misses when the pattern does not match or the group
// is empty.
func labelCapture(name string, re *regexp.Regexp, group int) strategy {
	return strategy{
		name: name,
		fn: func(text string) (string, bool) {
			m := re.FindStringSubmatch(text)
			if m == nil || strings.TrimSpace(m[group]) == "" {
				return "", false
			}
			return strings.TrimSpace(m[group]), true
		},
	}
}

// blockCapture is labelCapture with embedded line breaks collapsed to single
// spaces, for multi-line party blocks.
func blockCapture(name string, re *regexp.Regexp, group int) strategy {
	return strategy{
		name: name,
		fn: func(text string) (string, bool) {
			m := re.FindStringSubmatch(text)
			if m == nil {
				return "", false
			}
			v := strings.TrimSpace(strings.ReplaceAll(m[group], "\n", " "))
			if v == "" {
				return "", false
			}
			return v, true
		},
	}
}

var reDecimal = regexp.MustCompile(`[\d,]+\.\d{2}`)

// largestDecimal scans every two-decimal figure in the text and returns the
// numerically largest with thousands separators stripped. Grand totals are
// typically the largest monetary figure on the page.
func largestDecimal() strategy {
	return strategy{
		name: "largest-decimal-scan",
		fn: func(text string) (string, bool) {
			var best string
			var bestVal float64
			for _, m := range reDecimal.FindAllString(text, -1) {
				s := strings.ReplaceAll(m, ",", "")
				v, err := strconv.ParseFloat(s, 64)
				if err != nil {
					continue
				}
				if best == "" || v > bestVal {
					best, bestVal = s, v
				}
			}
			return best, best != ""
		},
	}
}

// A table-like row: leading integer quantity column, a few text columns, and a
// trailing two-decimal amount column. Heuristic row detector, not a table
// parser; zero matches simply misses.
var reQtyRow = regexp.MustCompile(`\n\s*(\d{1,5})\s+[A-Za-z ]+\s+[A-Za-z ]+\s+[A-Za-z ]+\s+[\d,]+\.\d{2}`)

// sumQuantityRows sums the leading integers of all table-like rows.
func sumQuantityRows() strategy {
	return strategy{
		name: "table-row-sum",
		fn: func(text string) (string, bool) {
			sum := 0
			n := 0
			for _, m := range reQtyRow.FindAllStringSubmatch(text, -1) {
				q, err := strconv.Atoi(m[1])
				if err != nil {
					continue
				}
				sum += q
				n++
			}
			if n == 0 {
				return "", false
			}
			return strconv.Itoa(sum), true
		},
	}
}

// stripSeparators removes thousands separators from a captured figure.
func stripSeparators(s string) string {
	return strings.ReplaceAll(s, ",", "")
}
