package match

import (
	"math"

	"github.com/agext/levenshtein"
)

// Ratio is whole-string similarity in [0,100]. Identifiers are scored with
// this: end-to-end alignment, penalized for any length or content mismatch.
func Ratio(a, b string) int {
	if a == "" && b == "" {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}
	return int(math.Round(levenshtein.Similarity(a, b, nil) * 100))
}

// PartialRatio is substring-tolerant similarity in [0,100]: the best Ratio of
// the shorter string against every window of the longer with the same length.
// "acme pvt ltd" scores 100 inside "acme pvt ltd vendor address line".
func PartialRatio(a, b string) int {
	if a == "" && b == "" {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}
	short, long := a, b
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == len(long) {
		return Ratio(short, long)
	}
	// never below the whole-string score: a window alignment is a bonus,
	// not a penalty
	best := Ratio(a, b)
	for i := 0; i+len(short) <= len(long); i++ {
		if r := Ratio(short, long[i:i+len(short)]); r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}
