package provider

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/colonyops/mort/internal/core/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

const docT1 = `{"identifier":"T1","version":"2","classification":{"tableIdentity":"10","tableName":"Ten"},"tables":[{"index":0,"rates":[{"age":5,"rate":0.01}]}]}`

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func gzipBytes(t *testing.T, data string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func xzBytes(t *testing.T, data string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	require.NoError(t, err)
	_, err = w.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func newTestDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "t1.json"), []byte(docT1))
	writeFile(t, filepath.Join(root, "nested", "two.json.gz"), gzipBytes(t, `{"identifier":"two","classification":{"tableIdentity":"2"}}`))
	writeFile(t, filepath.Join(root, "nested", "deep", "alpha.json.xz"), xzBytes(t, `{"classification":{"tableName":"Alpha"}}`))
	writeFile(t, filepath.Join(root, "broken.json"), []byte(`{"identifier":`))
	writeFile(t, filepath.Join(root, "notes.txt"), []byte("ignored"))
	return root
}

func TestDir_ListCatalog(t *testing.T) {
	d := NewDir(newTestDir(t), "", nil)

	items, err := d.ListCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "2", items[0].TableIdentity)
	assert.Equal(t, "10", items[1].TableIdentity)
	assert.Equal(t, "alpha", items[2].TableIdentity)
	assert.Equal(t, "Alpha", items[2].Name)
	assert.Equal(t, "/detail/alpha.json", items[2].DetailPath)

	warnings := d.Warnings()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "broken.json")
}

func TestDir_FetchDetail(t *testing.T) {
	d := NewDir(newTestDir(t), "", nil)
	ctx := context.Background()

	doc, err := d.FetchDetail(ctx, catalog.DetailPath("T1"))
	require.NoError(t, err)
	assert.Equal(t, "T1", doc.ID())
	require.Len(t, doc.Tables, 1)
	assert.Equal(t, 0.01, *doc.Tables[0].Rates[0].Rate)

	raw, err := d.FetchRaw(ctx, catalog.DetailPath("two"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"identifier":"two","classification":{"tableIdentity":"2"}}`, string(raw))
}

func TestDir_FetchMissing(t *testing.T) {
	d := NewDir(newTestDir(t), "", nil)

	_, err := d.FetchDetail(context.Background(), "/detail/nope.json")
	require.Error(t, err)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 404, fe.Status)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDir_CustomPattern(t *testing.T) {
	d := NewDir(newTestDir(t), "*.json", nil)

	items, err := d.ListCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "T1", items[0].Identifier)
}

func TestDir_MissingRoot(t *testing.T) {
	d := NewDir(filepath.Join(t.TempDir(), "missing"), "", nil)

	_, err := d.ListCatalog(context.Background())
	require.Error(t, err)
}

func TestDir_DetectsCompressionByContent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "packed.json"), gzipBytes(t, `{"identifier":"packed"}`))
	writeFile(t, filepath.Join(root, "squeezed.json"), xzBytes(t, `{"identifier":"squeezed"}`))
	writeFile(t, filepath.Join(root, "plain.json.gz"), []byte(`{"identifier":"plain"}`))

	d := NewDir(root, "", nil)
	ctx := context.Background()

	for _, id := range []string{"packed", "squeezed", "plain"} {
		t.Run(id, func(t *testing.T) {
			raw, err := d.FetchRaw(ctx, catalog.DetailPath(id))
			require.NoError(t, err)
			assert.JSONEq(t, `{"identifier":"`+id+`"}`, string(raw))
		})
	}
}
