package tui

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"

	"github.com/colonyops/mort/internal/core/browse"
	"github.com/colonyops/mort/internal/core/catalog"
	"github.com/colonyops/mort/pkg/tuitest"
)

func fieldKeys(fields []field) []string {
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.key
	}
	return keys
}

func TestClassificationFields(t *testing.T) {
	t.Run("missing provider reads unknown", func(t *testing.T) {
		fields := classificationFields(&catalog.Classification{})
		assert.Equal(t, "Unknown", fields[1].value)
		assert.Equal(t, dash, fields[0].value)
		assert.NotContains(t, fieldKeys(fields), "Comments")
		assert.NotContains(t, fieldKeys(fields), "Keywords")
	})

	t.Run("optional fields appear when set", func(t *testing.T) {
		fields := classificationFields(&catalog.Classification{
			Comments: catalog.Str("Select period **15** years"),
			Keywords: []string{"select", "ultimate"},
		})
		assert.Contains(t, fieldKeys(fields), "Comments")
		assert.Equal(t, "select, ultimate", fields[len(fields)-1].value)
	})

	t.Run("empty comments are skipped", func(t *testing.T) {
		fields := classificationFields(&catalog.Classification{Comments: catalog.Str("")})
		assert.NotContains(t, fieldKeys(fields), "Comments")
	})
}

func TestMetadataFields_Axes(t *testing.T) {
	fields := metadataFields(&catalog.TableMeta{
		Axes: []catalog.AxisDefinition{
			{ID: "age", AxisName: "Age", MinValue: "0", MaxValue: "120", Increment: "1", ScaleType: catalog.ClassifiedValue{Code: "1", Label: "Age"}},
		},
	})

	last := fields[len(fields)-1]
	assert.Equal(t, "Axes", last.key)
	assert.Equal(t, "• Age (age) — 0 to 120 step 1 (Age)", last.value)
}

func TestRenderPlaceholders(t *testing.T) {
	doc := &catalog.ConvertedTable{Tables: []catalog.TablePayload{{}}}

	assert.Equal(t, "No classification data.", tuitest.StripANSI(renderClassification(doc, 80)))
	assert.Equal(t, "No metadata attached to this table.", tuitest.StripANSI(renderMetadata(doc, 0, 80)))
	assert.Equal(t, "No rates found for this table.", tuitest.StripANSI(renderRates(doc, 0, browse.ViewList)))
}

func TestRenderRates(t *testing.T) {
	plain := &catalog.ConvertedTable{Tables: []catalog.TablePayload{{
		Rates: []catalog.RateEntry{{Age: 60, Rate: catalog.Num(0.01)}, {Age: 61}},
	}}}

	t.Run("list without durations", func(t *testing.T) {
		out := tuitest.StripANSI(renderRates(plain, 0, browse.ViewList))
		assert.Contains(t, out, "Age")
		assert.Contains(t, out, "0.010000")
		assert.Contains(t, out, "—")
		assert.NotContains(t, out, "Duration")
	})

	t.Run("matrix falls back to list", func(t *testing.T) {
		out := tuitest.StripANSI(renderRates(plain, 0, browse.ViewMatrix))
		assert.Contains(t, out, "Matrix view is available only when durations are present.")
		assert.Contains(t, out, "0.010000")
	})

	t.Run("matrix pivots durations", func(t *testing.T) {
		doc := sampleProvider().docs["/detail/cso-1980.json"]
		out := tuitest.StripANSI(renderRates(doc, 0, browse.ViewMatrix))
		assert.Contains(t, out, "Dur 1")
		assert.Contains(t, out, "Dur 2")
		assert.Contains(t, out, "0.001500")
	})
}

func TestWarningLines(t *testing.T) {
	tests := []struct {
		name     string
		warnings []string
		want     []string
	}{
		{name: "none", warnings: nil, want: nil},
		{name: "few", warnings: []string{"a", "b"}, want: []string{"! a", "! b"}},
		{name: "collapsed", warnings: []string{"a", "b", "c", "d"}, want: []string{"! b", "! c", "! d", "+1 more"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, warningLines(tt.warnings))
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"abc", 5, "abc  "},
		{"abcdef", 4, "abc…"},
		{"abc", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := truncate(tt.in, tt.width)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.width, ansi.StringWidth(got))
		})
	}
}

func TestTabBar(t *testing.T) {
	out := tuitest.StripANSI(tabBar(browse.TabRates))
	assert.Equal(t, " Classification   Metadata   Rates", out)
}

func TestRenderDocument(t *testing.T) {
	doc := sampleProvider().docs["/detail/cso-1980.json"]

	out := tuitest.StripANSI(RenderDocument(doc, 0, browse.ViewList, 80))

	assert.Contains(t, out, "Classification\n")
	assert.Contains(t, out, "Metadata\n")
	assert.Contains(t, out, "Rates\n")
	assert.Contains(t, out, "Society of Actuaries")
	assert.Contains(t, out, "0.001300")
}
