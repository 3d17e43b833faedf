package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/colonyops/mort/internal/core/catalog"
	"github.com/colonyops/mort/internal/core/export"
	"github.com/colonyops/mort/internal/core/provider"
	"github.com/colonyops/mort/pkg/iojson"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	items, err := s.provider.ListCatalog(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, "catalog unavailable", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(items); err != nil {
		s.log.Error().Ctx(r.Context()).Err(err).Msg("write index")
	}
}

// handleDetail serves the raw document for a detail path. The identifier is
// taken from the decoded URL path and re-encoded, so clients may escape it
// however they like.
func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, catalog.DetailPrefix)
	identifier, ok := strings.CutSuffix(name, ".json")
	if !ok || identifier == "" {
		s.writeError(w, r, http.StatusNotFound, "not a detail document", nil)
		return
	}

	path := catalog.DetailPath(identifier)
	data, err := s.provider.FetchRaw(r.Context(), path)
	if err != nil {
		s.writeError(w, r, statusFor(err), "detail unavailable", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

// handleExport builds a zip of the documents named by the repeated "path"
// query parameter.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	kind, ok := export.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		s.writeError(w, r, http.StatusNotFound, "unknown export kind", nil)
		return
	}

	summaries, ok := s.requested(w, r)
	if !ok {
		return
	}

	archive, err := s.exporter.BuildArchive(r.Context(), kind, summaries)
	if err != nil {
		s.writeError(w, r, statusFor(err), "export failed", err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, archive.Name))
	_, _ = w.Write(archive.Data)
}

func (s *Server) handleWorkbook(w http.ResponseWriter, r *http.Request) {
	summaries, ok := s.requested(w, r)
	if !ok {
		return
	}

	data, err := s.exporter.FetchWorkbook(r.Context(), summaries)
	if err != nil {
		s.writeError(w, r, statusFor(err), "export failed", err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.WorkbookName))
	_, _ = w.Write(data)
}

// requested resolves the repeated path query parameter against the catalog.
// It writes the error response itself and returns false on failure.
func (s *Server) requested(w http.ResponseWriter, r *http.Request) ([]catalog.TableSummary, bool) {
	paths := r.URL.Query()["path"]
	if len(paths) == 0 {
		s.writeError(w, r, http.StatusBadRequest, "no tables requested", nil)
		return nil, false
	}

	items, err := s.provider.ListCatalog(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, "catalog unavailable", err)
		return nil, false
	}

	summaries, missing := pick(items, paths)
	if len(missing) > 0 {
		s.writeError(w, r, http.StatusNotFound, "unknown tables", fmt.Errorf("not in catalog: %s", strings.Join(missing, ", ")))
		return nil, false
	}
	return summaries, true
}

// pick returns the summaries for paths in request order, dropping
// duplicates, plus the paths that are not in the catalog.
func pick(items []catalog.TableSummary, paths []string) ([]catalog.TableSummary, []string) {
	byPath := make(map[string]catalog.TableSummary, len(items))
	for _, s := range items {
		byPath[s.DetailPath] = s
	}

	seen := map[string]bool{}
	var out []catalog.TableSummary
	var missing []string
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		s, ok := byPath[p]
		if !ok {
			missing = append(missing, p)
			continue
		}
		out = append(out, s)
	}
	return out, missing
}

func statusFor(err error) int {
	var fe *provider.FetchError
	if errors.As(err, &fe) && fe.Status == http.StatusNotFound {
		return http.StatusNotFound
	}
	if errors.Is(err, provider.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, msg string, err error) {
	var data map[string]any
	if err != nil {
		data = map[string]any{"error": err.Error()}
		s.log.Error().Ctx(r.Context()).Err(err).Int("status", status).Str("path", r.URL.Path).Msg(msg)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if werr := iojson.WriteErrorTo(w, msg, data); werr != nil {
		s.log.Debug().Err(werr).Msg("write error response")
	}
}
