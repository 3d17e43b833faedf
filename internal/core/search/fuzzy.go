package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxPatternRunes is the longest query matched as a single pattern. Longer
// queries are matched word by word.
const maxPatternRunes = 32

// Normalize folds s for matching: compatibility decomposition, combining
// marks removed, lower case.
func Normalize(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// substringDistance returns the smallest edit distance between pattern and
// any substring of text (Sellers' algorithm). An empty pattern has
// distance zero.
func substringDistance(pattern, text []rune) int {
	m := len(pattern)
	if m == 0 {
		return 0
	}

	prev := make([]int, m+1)
	cur := make([]int, m+1)
	for i := range prev {
		prev[i] = i
	}

	best := prev[m]
	for _, tc := range text {
		cur[0] = 0
		for i := 1; i <= m; i++ {
			cost := 1
			if pattern[i-1] == tc {
				cost = 0
			}
			cur[i] = min(prev[i-1]+cost, prev[i]+1, cur[i-1]+1)
		}
		if cur[m] < best {
			best = cur[m]
			if best == 0 {
				return 0
			}
		}
		prev, cur = cur, prev
	}
	return best
}

// score returns the normalized distance of pattern within text, from 0
// (exact substring) to 1 (nothing in common).
func score(pattern, text []rune) float64 {
	if len(pattern) == 0 {
		return 0
	}
	return float64(substringDistance(pattern, text)) / float64(len(pattern))
}
