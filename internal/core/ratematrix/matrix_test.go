package ratematrix

import (
	"testing"

	"github.com/colonyops/mort/internal/core/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(age float64, dur, rate *float64) catalog.RateEntry {
	return catalog.RateEntry{Age: age, Duration: dur, Rate: rate}
}

func TestBuild_RoundTrip(t *testing.T) {
	rates := []catalog.RateEntry{
		entry(30, catalog.Num(2), catalog.Num(0.002)),
		entry(30, catalog.Num(1), catalog.Num(0.001)),
		entry(31, catalog.Num(1), nil),
		entry(29, nil, catalog.Num(0.5)),
	}

	m, ok := Build(rates)
	require.True(t, ok)

	assert.Equal(t, []float64{29, 30, 31}, m.Ages)
	assert.Equal(t, []float64{1, 2}, m.Durations)

	for _, r := range rates {
		if r.Duration == nil {
			continue
		}
		got, ok := m.Lookup(r.Age, *r.Duration)
		require.True(t, ok)
		assert.Equal(t, r.Rate, got)
	}

	t.Run("null rate is present", func(t *testing.T) {
		rate, ok := m.Lookup(31, 1)
		assert.True(t, ok)
		assert.Nil(t, rate)
	})

	t.Run("absent pair is missing", func(t *testing.T) {
		_, ok := m.Lookup(31, 2)
		assert.False(t, ok)
		_, ok = m.Lookup(29, 1)
		assert.False(t, ok)
	})
}

func TestBuild_NoDurations(t *testing.T) {
	m, ok := Build([]catalog.RateEntry{entry(1, nil, catalog.Num(0.1))})
	assert.False(t, ok)
	assert.Nil(t, m)

	_, ok = Build(nil)
	assert.False(t, ok)
}

func TestBuild_LastDuplicateWins(t *testing.T) {
	m, ok := Build([]catalog.RateEntry{
		entry(1, catalog.Num(1), catalog.Num(0.1)),
		entry(1, catalog.Num(1), catalog.Num(0.2)),
	})
	require.True(t, ok)
	rate, _ := m.Lookup(1, 1)
	require.NotNil(t, rate)
	assert.Equal(t, 0.2, *rate)
}

func TestMatrix_Rows(t *testing.T) {
	m, ok := Build([]catalog.RateEntry{
		entry(30, catalog.Num(1), catalog.Num(0.001)),
		entry(31, catalog.Num(2), nil),
	})
	require.True(t, ok)

	assert.Equal(t, []string{"Age", "Dur 1", "Dur 2"}, m.Header())
	assert.Equal(t, [][]string{
		{"30", "0.001000", Placeholder},
		{"31", Placeholder, Placeholder},
	}, m.Rows())
}

func TestHasDuration(t *testing.T) {
	assert.False(t, HasDuration(nil))
	assert.False(t, HasDuration(&catalog.TablePayload{Rates: []catalog.RateEntry{entry(1, nil, nil)}}))
	assert.True(t, HasDuration(&catalog.TablePayload{Rates: []catalog.RateEntry{entry(1, catalog.Num(0), nil)}}))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, Placeholder, FormatRate(nil))
	assert.Equal(t, "0.012346", FormatRate(catalog.Num(0.0123456)))
	assert.Equal(t, "1.000000", FormatRate(catalog.Num(1)))

	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{5, "5"},
		{0.01, "0.01"},
		{-2.5, "-2.5"},
		{1e-7, "1e-7"},
		{1.5e21, "1.5e+21"},
		{123456789, "123456789"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatNumber(tt.in))
	}
}
