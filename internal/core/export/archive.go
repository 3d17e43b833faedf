package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"time"
)

type archiveEntry struct {
	name string
	data []byte
}

// archive collects entries in insertion order. Adding a name twice
// replaces the data but keeps the first position.
type archive struct {
	entries []archiveEntry
	byName  map[string]int
}

func newArchive() *archive {
	return &archive{byName: map[string]int{}}
}

func (a *archive) add(name string, data []byte) {
	if i, ok := a.byName[name]; ok {
		a.entries[i].data = data
		return
	}
	a.byName[name] = len(a.entries)
	a.entries = append(a.entries, archiveEntry{name: name, data: data})
}

func (a *archive) names() []string {
	out := make([]string, len(a.entries))
	for i, e := range a.entries {
		out[i] = e.name
	}
	return out
}

// bytes writes the zip container. Entries carry the given modification
// time so identical inputs produce identical archives.
func (a *archive) bytes(modified time.Time) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range a.entries {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return nil, fmt.Errorf("add %s to archive: %w", e.name, err)
		}
		if _, err := w.Write(e.data); err != nil {
			return nil, fmt.Errorf("add %s to archive: %w", e.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}
	return buf.Bytes(), nil
}
