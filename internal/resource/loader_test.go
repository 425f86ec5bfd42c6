package resource

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/file"

	oerrors "github.com/opmodel/confgraph/internal/errors"
)

func upload(t *testing.T, fs afs.Service, URL, content string) {
	t.Helper()
	require.NoError(t, fs.Upload(context.Background(), URL, file.DefaultFileOsMode, bytes.NewReader([]byte(content))))
}

func TestLoaderLoad(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	upload(t, fs, "mem://localhost/loader/app/defs.yaml", "definitions: []")

	l := NewLoaderWithService(fs, "mem://localhost/loader/app")
	assert.Equal(t, "mem://localhost/loader/app/defs.yaml", l.Resolve("defs.yaml"))
	assert.Equal(t, "mem://localhost/other.yaml", l.Resolve("mem://localhost/other.yaml"))

	data, err := l.Load(ctx, "defs.yaml")
	require.NoError(t, err)
	assert.Equal(t, "definitions: []", string(data))
	assert.True(t, l.Exists(ctx, "defs.yaml"))

	_, err = l.Load(ctx, "missing.yaml")
	assert.True(t, errors.Is(err, oerrors.ErrNotFound))
	assert.False(t, l.Exists(ctx, "missing.yaml"))

	rel := l.Relative("defs.yaml")
	assert.Equal(t, "mem://localhost/loader/app", rel.Base())
}

func TestLoaderList(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	upload(t, fs, "mem://localhost/list/catalogs/b.yaml", "types: []")
	upload(t, fs, "mem://localhost/list/catalogs/a.cue", "types: []")
	upload(t, fs, "mem://localhost/list/catalogs/nested/c.yml", "types: []")
	upload(t, fs, "mem://localhost/list/catalogs/README.md", "docs")

	l := NewLoaderWithService(fs, "mem://localhost/list")
	urls, err := l.List(ctx, "catalogs", ".yaml", ".yml", ".cue")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"mem://localhost/list/catalogs/a.cue",
		"mem://localhost/list/catalogs/b.yaml",
		"mem://localhost/list/catalogs/nested/c.yml",
	}, urls)
}
