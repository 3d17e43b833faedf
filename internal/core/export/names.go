package export

import (
	"path"
	"strconv"

	"github.com/colonyops/mort/internal/core/catalog"
)

// Archive names for bulk exports.
const (
	JSONArchiveName = "tables-json.zip"
	CSVArchiveName  = "tables-csv.zip"
)

// Kind selects the export format.
type Kind string

const (
	JSON Kind = "json"
	CSV  Kind = "csv"
)

// ParseKind validates a format name.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case JSON, CSV:
		return Kind(s), true
	}
	return "", false
}

// ArchiveName returns the zip file name for a bulk export of kind.
func (k Kind) ArchiveName() string {
	if k == CSV {
		return CSVArchiveName
	}
	return JSONArchiveName
}

// JSONFileName names a single JSON export. Without an identifier the last
// segment of the detail path is used.
func JSONFileName(detailPath, identifier string) string {
	if identifier != "" {
		return identifier + ".json"
	}
	return path.Base(detailPath)
}

// CSVFileName names a single CSV export of the payload at pos.
func CSVFileName(doc *catalog.ConvertedTable, pos int) string {
	id := doc.ID()
	if id == "" {
		id = "table"
	}
	return id + "_" + strconv.Itoa(payloadNumber(doc, pos)) + ".csv"
}

// BulkJSONEntryName names a document inside a JSON archive.
func BulkJSONEntryName(s catalog.TableSummary) string {
	return firstNonEmpty(s.Identifier, s.TableIdentity) + ".json"
}

// BulkCSVEntryName names a payload inside a CSV archive.
func BulkCSVEntryName(doc *catalog.ConvertedTable, s catalog.TableSummary, pos int) string {
	return firstNonEmpty(doc.ID(), s.TableIdentity) + "_table-" + strconv.Itoa(payloadNumber(doc, pos)) + ".csv"
}

func payloadNumber(doc *catalog.ConvertedTable, pos int) int {
	if p := doc.Payload(pos); p != nil {
		return p.IndexOr(pos) + 1
	}
	return pos + 1
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
