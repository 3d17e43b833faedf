package provider

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/colonyops/mort/internal/core/catalog"
	"github.com/colonyops/mort/internal/core/logging"
	"github.com/rs/zerolog"
	"github.com/ulikunitz/xz"
)

var (
	gzipMagic  = []byte{0x1f, 0x8b}
	bzip2Magic = []byte{0x42, 0x5a, 0x68}
	xzMagic    = []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}
)

// DefaultPattern matches plain and compressed detail documents at any depth.
const DefaultPattern = "**/*.json{,.gz,.xz}"

// ErrNotFound is wrapped by FetchError when a path names no known document.
var ErrNotFound = errors.New("not found")

// Dir serves the catalog from a directory of detail documents. The
// directory is scanned once, on first use.
type Dir struct {
	root    string
	pattern string
	index   *catalog.Index
	log     zerolog.Logger
}

// NewDir returns a provider reading documents under root that match the
// doublestar pattern. An empty pattern uses DefaultPattern; a nil
// comparator sorts with the root locale.
func NewDir(root, pattern string, cmp *catalog.Comparator) *Dir {
	if pattern == "" {
		pattern = DefaultPattern
	}
	d := &Dir{
		root:    root,
		pattern: pattern,
		log:     logging.Component("provider.dir"),
	}
	d.index = catalog.NewIndex(d.scan, cmp)
	return d
}

// Root returns the catalog directory.
func (d *Dir) Root() string { return d.root }

// ListCatalog returns the sorted catalog summaries.
func (d *Dir) ListCatalog(ctx context.Context) ([]catalog.TableSummary, error) {
	return d.index.Summaries(ctx)
}

// Warnings returns the documents that were skipped while scanning.
func (d *Dir) Warnings() []string {
	return d.index.Warnings()
}

// FetchRaw returns the decompressed bytes of the document at a detail path.
func (d *Dir) FetchRaw(ctx context.Context, path string) ([]byte, error) {
	entry, ok, err := d.index.Lookup(ctx, path)
	if err != nil {
		return nil, &FetchError{Path: path, Err: err}
	}
	if !ok {
		return nil, &FetchError{Path: path, Status: 404, Err: ErrNotFound}
	}

	data, err := readDocument(entry.Location)
	if err != nil {
		return nil, &FetchError{Path: path, Err: err}
	}
	return data, nil
}

// FetchDetail returns the decoded document at a detail path.
func (d *Dir) FetchDetail(ctx context.Context, path string) (*catalog.ConvertedTable, error) {
	data, err := d.FetchRaw(ctx, path)
	if err != nil {
		return nil, err
	}
	return decodeDetail(path, data)
}

func (d *Dir) scan(ctx context.Context) (catalog.Scan, error) {
	info, err := os.Stat(d.root)
	if err != nil {
		return catalog.Scan{}, fmt.Errorf("catalog directory: %w", err)
	}
	if !info.IsDir() {
		return catalog.Scan{}, fmt.Errorf("catalog directory: %s is not a directory", d.root)
	}

	matches, err := doublestar.FilepathGlob(filepath.Join(d.root, d.pattern))
	if err != nil {
		return catalog.Scan{}, fmt.Errorf("pattern matching failed: %w", err)
	}
	slices.Sort(matches)

	var result catalog.Scan
	for _, match := range matches {
		if err := ctx.Err(); err != nil {
			return catalog.Scan{}, err
		}

		fi, err := os.Stat(match)
		if err != nil || fi.IsDir() {
			continue
		}

		rel, relErr := filepath.Rel(d.root, match)
		if relErr != nil {
			rel = match
		}

		data, err := readDocument(match)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %v", rel, err))
			continue
		}

		doc, err := decodeDetail(rel, data)
		if err != nil {
			result.Warnings = append(result.Warnings, err.Error())
			continue
		}

		result.Entries = append(result.Entries, catalog.Entry{
			TableSummary: catalog.Summarize(doc, filepath.Base(match)),
			Location:     match,
		})
	}

	d.log.Debug().
		Str("root", d.root).
		Int("documents", len(result.Entries)).
		Int("skipped", len(result.Warnings)).
		Msg("catalog scanned")

	return result, nil
}

// readDocument reads a file, decompressing gzip, xz and bzip2 content.
func readDocument(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	br := bufio.NewReader(f)
	reader, closeFn, err := decompressor(br)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return buf.Bytes(), nil
}

// decompressor picks a reader by the stream's leading magic bytes, so a
// compressed document is decoded whatever its file name says.
func decompressor(br *bufio.Reader) (io.Reader, func(), error) {
	// Short files yield a partial header and io.EOF; detection works on what is there.
	header, _ := br.Peek(len(xzMagic))
	noop := func() {}

	switch {
	case bytes.HasPrefix(header, gzipMagic):
		gzReader, err := gzip.NewReader(br)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return gzReader, func() { _ = gzReader.Close() }, nil
	case bytes.HasPrefix(header, xzMagic):
		xzReader, err := xz.NewReader(br)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to create xz reader: %w", err)
		}
		return xzReader, noop, nil
	case bytes.HasPrefix(header, bzip2Magic):
		return bzip2.NewReader(br), noop, nil
	default:
		return br, noop, nil
	}
}
