// Package resource resolves resource locators through viant/afs, so
// catalogs, property files and definition files may live on local disk,
// in memory, or in any storage afs supports.
package resource

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/url"

	oerrors "github.com/opmodel/confgraph/internal/errors"
)

// Loader reads resources relative to a base URL.
type Loader struct {
	fs   afs.Service
	base string
}

// NewLoader creates a loader resolving relative locators against base.
func NewLoader(base string) *Loader {
	return &Loader{fs: afs.New(), base: base}
}

// NewLoaderWithService creates a loader over an existing afs service.
func NewLoaderWithService(fs afs.Service, base string) *Loader {
	return &Loader{fs: fs, base: base}
}

// Base returns the base URL.
func (l *Loader) Base() string { return l.base }

// Service exposes the underlying afs service.
func (l *Loader) Service() afs.Service { return l.fs }

// Resolve turns a locator into an absolute URL.
func (l *Loader) Resolve(location string) string {
	if l.base != "" && url.IsRelative(location) {
		return url.Join(l.base, location)
	}
	return location
}

// Relative returns a loader whose base is the directory of location.
func (l *Loader) Relative(location string) *Loader {
	resolved := l.Resolve(location)
	base, _ := url.Split(resolved, file.Scheme)
	return &Loader{fs: l.fs, base: base}
}

// Exists reports whether the resource exists.
func (l *Loader) Exists(ctx context.Context, location string) bool {
	ok, err := l.fs.Exists(ctx, l.Resolve(location))
	return err == nil && ok
}

// Load returns the content of a resource. A missing resource is a not-found error.
func (l *Loader) Load(ctx context.Context, location string) ([]byte, error) {
	resolved := l.Resolve(location)
	if !l.Exists(ctx, location) {
		return nil, oerrors.NewNotFoundError(fmt.Sprintf("resource %s does not exist", resolved), location, "")
	}
	data, err := l.fs.DownloadWithURL(ctx, resolved)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", resolved, err)
	}
	return data, nil
}

// List returns the URLs of the files under location, recursively, whose
// extension is one of exts. A file locator lists itself. Results are sorted.
func (l *Loader) List(ctx context.Context, location string, exts ...string) ([]string, error) {
	resolved := l.Resolve(location)
	objects, err := l.fs.List(ctx, resolved, option.NewRecursive(true))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", resolved, err)
	}

	var out []string
	for _, obj := range objects {
		if obj.IsDir() || !hasExt(obj.Name(), exts) {
			continue
		}
		out = append(out, obj.URL())
	}
	sort.Strings(out)
	return out, nil
}

func hasExt(name string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := strings.ToLower(path.Ext(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
