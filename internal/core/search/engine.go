// Package search filters the catalog with approximate matching and tracks
// how much of the filtered list has been revealed.
package search

import (
	"cmp"
	"slices"
	"strings"

	"github.com/colonyops/mort/internal/core/catalog"
)

// DefaultThreshold is the largest normalized distance that still counts as
// a match.
const DefaultThreshold = 0.32

// Options configures an Engine.
type Options struct {
	// Threshold is the match cutoff in [0, 1]. Zero uses DefaultThreshold.
	Threshold float64
}

// Match is a search hit. Position is the index of the item in the catalog.
type Match struct {
	Summary  catalog.TableSummary
	Score    float64
	Position int
}

type indexedItem struct {
	summary catalog.TableSummary
	fields  [][]rune
}

// Engine searches a fixed list of summaries. It is safe for concurrent use
// once built.
type Engine struct {
	threshold float64
	items     []indexedItem
}

// New indexes items for searching. The engine keeps its own copy of the
// list.
func New(items []catalog.TableSummary, opts Options) *Engine {
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	indexed := make([]indexedItem, len(items))
	for i, s := range items {
		fields := make([][]rune, 0, 5+len(s.Keywords))
		for _, f := range []string{s.Name, s.Identifier, s.TableIdentity, s.Provider, s.Summary} {
			fields = append(fields, []rune(Normalize(f)))
		}
		for _, k := range s.Keywords {
			fields = append(fields, []rune(Normalize(k)))
		}
		indexed[i] = indexedItem{summary: s, fields: fields}
	}

	return &Engine{threshold: threshold, items: indexed}
}

// Len returns the number of indexed items.
func (e *Engine) Len() int { return len(e.items) }

// All returns the full catalog in catalog order.
func (e *Engine) All() []catalog.TableSummary {
	out := make([]catalog.TableSummary, len(e.items))
	for i, it := range e.items {
		out[i] = it.summary
	}
	return out
}

// Search returns the summaries matching query, best first. A blank query
// returns the whole catalog in catalog order.
func (e *Engine) Search(query string) []catalog.TableSummary {
	if strings.TrimSpace(query) == "" {
		return e.All()
	}
	matches := e.Matches(query)
	out := make([]catalog.TableSummary, len(matches))
	for i, m := range matches {
		out[i] = m.Summary
	}
	return out
}

// Matches returns scored hits for query, ordered by ascending score with
// ties broken by catalog position. A blank query matches everything with
// score zero.
func (e *Engine) Matches(query string) []Match {
	q := Normalize(strings.TrimSpace(query))
	if q == "" {
		out := make([]Match, len(e.items))
		for i, it := range e.items {
			out[i] = Match{Summary: it.summary, Position: i}
		}
		return out
	}

	patterns := [][]rune{[]rune(q)}
	if len(patterns[0]) > maxPatternRunes {
		patterns = patterns[:0]
		for _, tok := range strings.Fields(q) {
			patterns = append(patterns, []rune(tok))
		}
	}

	var out []Match
	for i, it := range e.items {
		total := 0.0
		matched := true
		for _, p := range patterns {
			s, ok := e.bestField(p, it.fields)
			if !ok {
				matched = false
				break
			}
			total += s
		}
		if matched {
			out = append(out, Match{Summary: it.summary, Score: total / float64(len(patterns)), Position: i})
		}
	}

	slices.SortFunc(out, func(a, b Match) int {
		if c := cmp.Compare(a.Score, b.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Position, b.Position)
	})
	return out
}

func (e *Engine) bestField(pattern []rune, fields [][]rune) (float64, bool) {
	best := 2.0
	for _, f := range fields {
		if s := score(pattern, f); s < best {
			best = s
			if best == 0 {
				break
			}
		}
	}
	return best, best <= e.threshold
}
