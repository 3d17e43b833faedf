package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/colonyops/mort/internal/core/catalog"
	"github.com/colonyops/mort/internal/core/logging"
	"github.com/rs/zerolog"
)

// IndexPath is the route that lists the catalog summaries.
const IndexPath = "/index.json"

// HTTP reads the catalog from a served catalog, such as `mort serve` or a
// static host laid out the same way.
type HTTP struct {
	base   string
	client *http.Client
	log    zerolog.Logger

	mu    sync.Mutex
	built bool
	items []catalog.TableSummary
}

// NewHTTP returns a provider rooted at baseURL. A zero timeout means the
// client never times out.
func NewHTTP(baseURL string, timeout time.Duration) *HTTP {
	return &HTTP{
		base:   strings.TrimRight(baseURL, "/"),
		client: &http.Client{Timeout: timeout},
		log:    logging.Component("provider.http"),
	}
}

// ListCatalog fetches the summary list once and serves it from memory for
// the lifetime of the provider. A failed fetch is not cached. The server is
// expected to return the list already sorted.
func (h *HTTP) ListCatalog(ctx context.Context) ([]catalog.TableSummary, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.built {
		return h.items, nil
	}

	data, err := h.get(ctx, IndexPath)
	if err != nil {
		return nil, err
	}

	var items []catalog.TableSummary
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, &ParseError{Path: IndexPath, Err: err}
	}

	h.items = items
	h.built = true
	return h.items, nil
}

// FetchRaw returns the body served at a detail path.
func (h *HTTP) FetchRaw(ctx context.Context, path string) ([]byte, error) {
	return h.get(ctx, path)
}

// FetchDetail fetches and decodes the document at a detail path.
func (h *HTTP) FetchDetail(ctx context.Context, path string) (*catalog.ConvertedTable, error) {
	data, err := h.get(ctx, path)
	if err != nil {
		return nil, err
	}
	return decodeDetail(path, data)
}

func (h *HTTP) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.base+path, nil)
	if err != nil {
		return nil, &FetchError{Path: path, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "mort")

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, &FetchError{Path: path, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			h.log.Debug().Err(err).Str("path", path).Msg("close response body")
		}
	}()

	h.log.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("fetched")

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Path: path, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Path: path, Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	return body, nil
}
