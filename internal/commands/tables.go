package commands

import (
	"fmt"
	"strings"

	"github.com/colonyops/mort/internal/core/catalog"
)

// findTable resolves key to one catalog entry. Detail paths, identities and
// identifiers match exactly first, then identities and identifiers match
// ignoring case.
func findTable(items []catalog.TableSummary, key string) (catalog.TableSummary, error) {
	for _, s := range items {
		if s.DetailPath == key || s.TableIdentity == key || s.Identifier == key {
			return s, nil
		}
	}

	var found []catalog.TableSummary
	for _, s := range items {
		if strings.EqualFold(s.TableIdentity, key) || strings.EqualFold(s.Identifier, key) {
			found = append(found, s)
		}
	}

	switch len(found) {
	case 0:
		return catalog.TableSummary{}, fmt.Errorf("no table %q in the catalog", key)
	case 1:
		return found[0], nil
	default:
		return catalog.TableSummary{}, fmt.Errorf("%q matches %d tables; use the identifier or detail path", key, len(found))
	}
}

// findTables resolves every key, dropping duplicates. The first key that
// does not resolve fails the whole lookup.
func findTables(items []catalog.TableSummary, keys []string) ([]catalog.TableSummary, error) {
	seen := map[string]bool{}
	var out []catalog.TableSummary
	for _, k := range keys {
		s, err := findTable(items, k)
		if err != nil {
			return nil, err
		}
		if seen[s.DetailPath] {
			continue
		}
		seen[s.DetailPath] = true
		out = append(out, s)
	}
	return out, nil
}
