package catalog

import (
	"errors"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Comparator orders summaries by identity, then display name. Numeric
// identities sort before all others and compare by value; everything else
// compares with a locale-aware collator.
//
// A Comparator is safe for concurrent use.
type Comparator struct {
	mu       sync.Mutex
	collator *collate.Collator
}

// NewComparator returns a comparator collating strings for the given
// language tag. An empty or unparsable tag falls back to the root locale.
func NewComparator(locale string) *Comparator {
	tag := language.Und
	if locale != "" {
		if t, err := language.Parse(locale); err == nil {
			tag = t
		}
	}
	return &Comparator{collator: collate.New(tag)}
}

// Compare returns a negative number when a sorts before b, positive when
// after, and zero only when identity and name are byte-identical.
func (c *Comparator) Compare(a, b TableSummary) int {
	aNum, aIsNum := parseIdentity(a.TableIdentity)
	bNum, bIsNum := parseIdentity(b.TableIdentity)

	switch {
	case aIsNum && bIsNum && aNum != bNum:
		if aNum < bNum {
			return -1
		}
		return 1
	case aIsNum && !bIsNum:
		return -1
	case !aIsNum && bIsNum:
		return 1
	}

	if a.TableIdentity != b.TableIdentity {
		return c.compareStrings(a.TableIdentity, b.TableIdentity)
	}
	return c.compareStrings(a.Name, b.Name)
}

// Sort orders summaries in place. The sort is stable.
func (c *Comparator) Sort(items []TableSummary) {
	slices.SortStableFunc(items, c.Compare)
}

func (c *Comparator) compareStrings(a, b string) int {
	c.mu.Lock()
	r := c.collator.CompareString(a, b)
	c.mu.Unlock()
	if r != 0 {
		return r
	}
	// collation can treat distinct strings as equal; keep the order total
	return strings.Compare(a, b)
}

var (
	defaultComparator     *Comparator
	defaultComparatorOnce sync.Once
)

func comparator() *Comparator {
	defaultComparatorOnce.Do(func() {
		defaultComparator = NewComparator("")
	})
	return defaultComparator
}

// Compare orders two summaries with the root-locale comparator.
func Compare(a, b TableSummary) int {
	return comparator().Compare(a, b)
}

// Sort orders summaries in place with the root-locale comparator.
func Sort(items []TableSummary) {
	comparator().Sort(items)
}

// parseIdentity converts an identity the way a JavaScript Number() call
// does: surrounding whitespace is ignored, an empty identity is 0, and
// Infinity and 0x/0o/0b integer literals are numeric.
func parseIdentity(id string) (float64, bool) {
	s := strings.TrimSpace(id)
	switch s {
	case "":
		return 0, true
	case "Infinity", "+Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}

	if len(s) > 2 && s[0] == '0' {
		switch s[1] {
		case 'x', 'X':
			return parseRadix(s[2:], 16)
		case 'o', 'O':
			return parseRadix(s[2:], 8)
		case 'b', 'B':
			return parseRadix(s[2:], 2)
		}
	}

	// strconv also accepts inf, nan, hex floats and digit separators
	if strings.IndexFunc(s, func(r rune) bool { return !strings.ContainsRune(decimalChars, r) }) >= 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return v, true
}

const decimalChars = "0123456789+-.eE"

// parseRadix reads unsigned integer digits of any length, overflowing to
// a float rather than failing.
func parseRadix(digits string, base int) (float64, bool) {
	var v float64
	for _, r := range digits {
		d, err := strconv.ParseUint(string(r), base, 8)
		if err != nil {
			return 0, false
		}
		v = v*float64(base) + float64(d)
	}
	return v, true
}
