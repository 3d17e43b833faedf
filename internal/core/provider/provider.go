// Package provider supplies catalog summaries and detail documents to the
// rest of the application, either from a local directory or from a served
// catalog over HTTP.
package provider

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/colonyops/mort/internal/core/catalog"
)

// Provider is the data source for the catalog and its detail documents.
// Paths passed to FetchDetail and FetchRaw are detail paths as produced by
// catalog.DetailPath.
type Provider interface {
	ListCatalog(ctx context.Context) ([]catalog.TableSummary, error)
	FetchDetail(ctx context.Context, path string) (*catalog.ConvertedTable, error)
	FetchRaw(ctx context.Context, path string) ([]byte, error)
}

// FetchError reports that a document could not be retrieved. Status is the
// HTTP status code when one is known, otherwise zero.
type FetchError struct {
	Path   string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("fetch %s: status %d: %v", e.Path, e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("fetch %s: status %d", e.Path, e.Status)
	default:
		return fmt.Sprintf("fetch %s: %v", e.Path, e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports a document that was retrieved but is not valid JSON
// for its expected shape.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func decodeDetail(path string, data []byte) (*catalog.ConvertedTable, error) {
	var doc catalog.ConvertedTable
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &doc, nil
}
