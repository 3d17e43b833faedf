package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Sink receives exported files.
type Sink interface {
	// Save stores data under name and returns the name actually used.
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// DirSink writes files into a directory, creating it when needed. Unless
// Overwrite is set an existing file is kept and the new one is saved as
// "name (1).ext", "name (2).ext", and so on.
type DirSink struct {
	Dir       string
	Overwrite bool
}

// Save implements Sink.
func (s DirSink) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	target := filepath.Join(s.Dir, filepath.Base(name))
	if !s.Overwrite {
		free, err := freeName(target)
		if err != nil {
			return "", err
		}
		target = free
	}

	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", filepath.Base(target), err)
	}
	return filepath.Base(target), nil
}

// Exists reports which of names already exist in the directory.
func (s DirSink) Exists(names ...string) []string {
	var out []string
	for _, n := range names {
		if _, err := os.Stat(filepath.Join(s.Dir, filepath.Base(n))); err == nil {
			out = append(out, n)
		}
	}
	return out
}

func freeName(target string) (string, error) {
	dir, base := filepath.Split(target)
	ext := fileExt(base)
	stem := strings.TrimSuffix(base, ext)

	candidate := target
	for i := 1; ; i++ {
		_, err := os.Stat(candidate)
		if errors.Is(err, os.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", candidate, err)
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, i, ext))
	}
}

// fileExt returns the extension of name, keeping compressed document
// suffixes whole.
func fileExt(name string) string {
	lower := strings.ToLower(name)
	for _, ext := range []string{".json.gz", ".json.xz"} {
		if strings.HasSuffix(lower, ext) {
			return name[len(name)-len(ext):]
		}
	}
	return filepath.Ext(name)
}

// MemorySink keeps saved files in memory, in save order.
type MemorySink struct {
	mu    sync.Mutex
	names []string
	files map[string][]byte
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{files: map[string][]byte{}}
}

// Save implements Sink. Saving a name twice replaces the earlier data.
func (s *MemorySink) Save(_ context.Context, name string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[name]; !ok {
		s.names = append(s.names, name)
	}
	s.files[name] = append([]byte(nil), data...)
	return name, nil
}

// Names returns the saved names in first-save order.
func (s *MemorySink) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.names...)
}

// File returns the data saved under name.
func (s *MemorySink) File(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[name]
	return data, ok
}
