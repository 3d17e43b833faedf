package catalog

import (
	"path"
	"strings"
)

// UnknownProvider is used when a document names no provider.
const UnknownProvider = "Unknown provider"

// DetailPrefix is the route prefix under which detail documents are served.
const DetailPrefix = "/detail/"

// documentExts are the file suffixes stripped when deriving an identity from
// a file name, longest first.
var documentExts = []string{".json.gz", ".json.xz", ".json"}

// Summarize builds the catalog record for a detail document. fileName is
// the base name of the file the document was read from and is only used
// when the document carries no identity of its own.
func Summarize(doc *ConvertedTable, fileName string) TableSummary {
	var c Classification
	if doc.Classification != nil {
		c = *doc.Classification
	}

	identity := firstOf(c.TableIdentity, doc.Identifier)
	if identity == nil {
		identity = Str(IdentityFromFileName(fileName))
	}

	name := firstOf(c.TableName, doc.Identifier, identity)
	provider := firstOf(c.ProviderName, Str(UnknownProvider))
	summary := firstOf(c.TableDescription, c.Comments, Str(""))
	identifier := firstOf(doc.Identifier, identity)

	keywords := c.Keywords
	if keywords == nil {
		keywords = []string{}
	}

	return TableSummary{
		Identifier:    *identifier,
		TableIdentity: *identity,
		Name:          *name,
		Provider:      *provider,
		Summary:       *summary,
		Keywords:      keywords,
		Version:       deref(doc.Version),
		DetailPath:    DetailPath(*identifier),
	}
}

// IdentityFromFileName strips the directory and the document extension.
func IdentityFromFileName(fileName string) string {
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	lower := strings.ToLower(base)
	for _, ext := range documentExts {
		if strings.HasSuffix(lower, ext) {
			return base[:len(base)-len(ext)]
		}
	}
	return base
}

// DetailPath returns the canonical retrieval path for an identifier.
func DetailPath(identifier string) string {
	return DetailPrefix + EncodeComponent(identifier) + ".json"
}

// IdentifierFromPath reverses DetailPath. It reports false when p is not a
// detail path or is not validly encoded.
func IdentifierFromPath(p string) (string, bool) {
	if !strings.HasPrefix(p, DetailPrefix) || !strings.HasSuffix(p, ".json") {
		return "", false
	}
	encoded := strings.TrimSuffix(strings.TrimPrefix(p, DetailPrefix), ".json")
	if encoded == "" {
		return "", false
	}
	return DecodeComponent(encoded)
}

const upperHex = "0123456789ABCDEF"

// EncodeComponent percent-encodes s the way browsers encode a URI component:
// everything except ASCII letters, digits and -_.!~*'() is escaped as UTF-8
// bytes.
func EncodeComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreservedComponent(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&15])
	}
	return b.String()
}

// DecodeComponent undoes EncodeComponent.
func DecodeComponent(s string) (string, bool) {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			b.WriteByte(s[i])
			continue
		}
		if i+2 >= len(s) {
			return "", false
		}
		hi, ok1 := unhex(s[i+1])
		lo, ok2 := unhex(s[i+2])
		if !ok1 || !ok2 {
			return "", false
		}
		b.WriteByte(hi<<4 | lo)
		i += 2
	}
	return b.String(), true
}

func unreservedComponent(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

func firstOf(values ...*string) *string {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
