// Package ratematrix pivots a table's rate list into an age by duration
// grid and formats rate values for display.
package ratematrix

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/colonyops/mort/internal/core/catalog"
)

// Placeholder is shown for a missing or null rate.
const Placeholder = "—"

// Matrix is the age by duration view of a rate list. Values holds an entry
// only for (age, duration) pairs present in the source; a nil rate means
// the pair was present with a null rate.
type Matrix struct {
	Ages      []float64
	Durations []float64
	Values    map[float64]map[float64]*float64
}

// Build derives the matrix for rates. It reports false when no entry has a
// duration, in which case there is no matrix view.
func Build(rates []catalog.RateEntry) (*Matrix, bool) {
	var durations []float64
	seenDur := map[float64]bool{}
	for _, r := range rates {
		if r.Duration != nil && !seenDur[*r.Duration] {
			seenDur[*r.Duration] = true
			durations = append(durations, *r.Duration)
		}
	}
	if len(durations) == 0 {
		return nil, false
	}
	slices.Sort(durations)

	var ages []float64
	seenAge := map[float64]bool{}
	for _, r := range rates {
		if !seenAge[r.Age] {
			seenAge[r.Age] = true
			ages = append(ages, r.Age)
		}
	}
	slices.Sort(ages)

	values := make(map[float64]map[float64]*float64, len(ages))
	for _, r := range rates {
		if r.Duration == nil {
			continue
		}
		row := values[r.Age]
		if row == nil {
			row = map[float64]*float64{}
			values[r.Age] = row
		}
		var rate *float64
		if r.Rate != nil {
			v := *r.Rate
			rate = &v
		}
		row[*r.Duration] = rate
	}

	return &Matrix{Ages: ages, Durations: durations, Values: values}, true
}

// Lookup returns the rate at (age, duration). ok is false when the pair is
// absent; rate is nil when the pair is present with a null rate.
func (m *Matrix) Lookup(age, duration float64) (rate *float64, ok bool) {
	row, found := m.Values[age]
	if !found {
		return nil, false
	}
	rate, ok = row[duration]
	return rate, ok
}

// Header returns the column titles: "Age" then "Dur N" per duration.
func (m *Matrix) Header() []string {
	out := make([]string, 0, len(m.Durations)+1)
	out = append(out, "Age")
	for _, d := range m.Durations {
		out = append(out, "Dur "+FormatNumber(d))
	}
	return out
}

// Rows returns the formatted grid, one row per age.
func (m *Matrix) Rows() [][]string {
	rows := make([][]string, 0, len(m.Ages))
	for _, age := range m.Ages {
		row := make([]string, 0, len(m.Durations)+1)
		row = append(row, FormatNumber(age))
		for _, d := range m.Durations {
			rate, _ := m.Lookup(age, d)
			row = append(row, FormatRate(rate))
		}
		rows = append(rows, row)
	}
	return rows
}

// HasDuration reports whether any rate in the payload has a duration.
func HasDuration(p *catalog.TablePayload) bool {
	if p == nil {
		return false
	}
	for _, r := range p.Rates {
		if r.Duration != nil {
			return true
		}
	}
	return false
}

// FormatRate renders a rate with six decimals, or the placeholder when nil.
func FormatRate(rate *float64) string {
	if rate == nil {
		return Placeholder
	}
	return strconv.FormatFloat(*rate, 'f', 6, 64)
}

// FormatNumber renders v in the shortest form that round-trips, using
// exponent notation only for very small or very large magnitudes.
func FormatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	abs := math.Abs(v)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(v, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
		return mant + "e" + sign + digits
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
