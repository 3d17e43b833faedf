// Package catalog defines the converted mortality-table document model and
// builds the sorted summary index used for listing and searching tables.
package catalog

// ClassifiedValue is a label paired with its XTbML type code.
type ClassifiedValue struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// String renders the value as "Label (Code)".
func (v ClassifiedValue) String() string {
	if v.Code == "" {
		return v.Label
	}
	return v.Label + " (" + v.Code + ")"
}

// AxisDefinition describes one axis of a rate table. Range values are kept
// as the strings found in the source document.
type AxisDefinition struct {
	ID        string          `json:"id"`
	ScaleType ClassifiedValue `json:"scaleType"`
	AxisName  string          `json:"axisName"`
	MinValue  string          `json:"minValue"`
	MaxValue  string          `json:"maxValue"`
	Increment string          `json:"increment"`
}

// TableMeta holds the per-table metadata block.
type TableMeta struct {
	ScalingFactor    *string          `json:"scalingFactor,omitempty"`
	DataType         *ClassifiedValue `json:"dataType,omitempty"`
	Nation           *ClassifiedValue `json:"nation,omitempty"`
	TableDescription *string          `json:"tableDescription,omitempty"`
	Axes             []AxisDefinition `json:"axes,omitempty"`
}

// RateEntry is a single rate observation. Nil Duration or Rate means the
// value is null or absent in the document.
type RateEntry struct {
	Age      float64  `json:"age"`
	Duration *float64 `json:"duration,omitempty"`
	Rate     *float64 `json:"rate,omitempty"`
}

// TablePayload is one rate table variant within a document.
type TablePayload struct {
	Index    *int        `json:"index,omitempty"`
	Metadata *TableMeta  `json:"metadata,omitempty"`
	Rates    []RateEntry `json:"rates,omitempty"`
}

// Classification holds the document-level descriptive metadata. Optional
// fields are pointers so that an absent value can be told apart from an
// empty one.
type Classification struct {
	TableIdentity    *string          `json:"tableIdentity,omitempty"`
	ProviderDomain   *string          `json:"providerDomain,omitempty"`
	ProviderName     *string          `json:"providerName,omitempty"`
	TableReference   *string          `json:"tableReference,omitempty"`
	ContentType      *ClassifiedValue `json:"contentType,omitempty"`
	TableName        *string          `json:"tableName,omitempty"`
	TableDescription *string          `json:"tableDescription,omitempty"`
	Comments         *string          `json:"comments,omitempty"`
	Keywords         []string         `json:"keywords,omitempty"`
}

// ConvertedTable is the full detail document for one table.
type ConvertedTable struct {
	Identifier     *string         `json:"identifier,omitempty"`
	Version        *string         `json:"version,omitempty"`
	Classification *Classification `json:"classification,omitempty"`
	Tables         []TablePayload  `json:"tables,omitempty"`
}

// ID returns the document identifier or "" when absent.
func (t *ConvertedTable) ID() string {
	if t == nil {
		return ""
	}
	return deref(t.Identifier)
}

// VersionString returns the document version or "" when absent.
func (t *ConvertedTable) VersionString() string {
	if t == nil {
		return ""
	}
	return deref(t.Version)
}

// IndexOr returns the payload's declared index, or pos when it has none.
func (p *TablePayload) IndexOr(pos int) int {
	if p.Index != nil {
		return *p.Index
	}
	return pos
}

// Payload returns the table payload at position i, or nil when out of range.
func (t *ConvertedTable) Payload(i int) *TablePayload {
	if t == nil || i < 0 || i >= len(t.Tables) {
		return nil
	}
	return &t.Tables[i]
}

// TableSummary is the lightweight catalog record used for listing,
// searching, and selecting tables. It is keyed by DetailPath.
type TableSummary struct {
	Identifier    string   `json:"identifier"`
	TableIdentity string   `json:"tableIdentity"`
	Name          string   `json:"name"`
	Provider      string   `json:"provider"`
	Summary       string   `json:"summary"`
	Keywords      []string `json:"keywords"`
	Version       string   `json:"version"`
	DetailPath    string   `json:"detailPath"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Str returns a pointer to s. Handy for building documents in code.
func Str(s string) *string {
	return &s
}

// Int returns a pointer to i.
func Int(i int) *int {
	return &i
}

// Num returns a pointer to f.
func Num(f float64) *float64 {
	return &f
}
