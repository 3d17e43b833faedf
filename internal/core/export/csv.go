package export

import (
	"strconv"
	"strings"

	"github.com/colonyops/mort/internal/core/catalog"
	"github.com/colonyops/mort/internal/core/ratematrix"
)

var csvHeader = []string{"tableIndex", "age", "duration", "rate"}

// BuildCSV renders one payload of doc as CSV. It returns "" when the
// payload does not exist or has no rates.
//
// Every field is wrapped in double quotes as is; values are never escaped.
func BuildCSV(doc *catalog.ConvertedTable, payload int) string {
	p := doc.Payload(payload)
	if p == nil || len(p.Rates) == 0 {
		return ""
	}

	var b strings.Builder
	if id := doc.ID(); id != "" {
		b.WriteString("# Identifier: " + id + "\n")
	}
	if v := doc.VersionString(); v != "" {
		b.WriteString("# Version: " + v + "\n")
	}

	writeCSVRow(&b, csvHeader)

	tableIndex := strconv.Itoa(p.IndexOr(payload))
	for _, r := range p.Rates {
		b.WriteByte('\n')
		writeCSVRow(&b, []string{
			tableIndex,
			ratematrix.FormatNumber(r.Age),
			optionalNumber(r.Duration),
			optionalNumber(r.Rate),
		})
	}
	b.WriteByte('\n')
	return b.String()
}

func writeCSVRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(f)
		b.WriteByte('"')
	}
}

func optionalNumber(v *float64) string {
	if v == nil {
		return ""
	}
	return ratematrix.FormatNumber(*v)
}
