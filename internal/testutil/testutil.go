// Package testutil provides fixture helpers shared by package tests.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
)

// EnvVars lists the environment variables read by the configuration layer.
var EnvVars = []string{
	"CONFGRAPH_CONFIG",
	"CONFGRAPH_ALLOWOVERRIDING",
	"CONFGRAPH_FAILONPROBLEMS",
	"CONFGRAPH_PROFILES",
	"CONFGRAPH_CACHETTL",
	"CONFGRAPH_OUTPUT",
	"CONFGRAPH_LOG_TIMESTAMPS",
}

// ClearEnv unsets the configuration environment variables for the duration
// of the test.
func ClearEnv(t *testing.T) {
	t.Helper()
	for _, name := range EnvVars {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

// UploadFiles stores files under the base URL, in name order, and returns the
// service holding them. A nil fs uses a new default service.
func UploadFiles(t *testing.T, fs afs.Service, base string, files map[string]string) afs.Service {
	t.Helper()
	if fs == nil {
		fs = afs.New()
	}
	ctx := context.Background()
	for _, name := range sortedNames(files) {
		URL := base + "/" + name
		if err := fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader([]byte(files[name]))); err != nil {
			t.Fatalf("failed to upload %s: %v", URL, err)
		}
	}
	return fs
}

// WriteFiles writes files below dir, creating parent directories, and
// returns dir.
func WriteFiles(t *testing.T, dir string, files map[string]string) string {
	t.Helper()
	for _, name := range sortedNames(files) {
		WriteFile(t, dir, name, files[name])
	}
	return dir
}

// WriteFile creates a file with the given content in the specified directory.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dirs for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}

func sortedNames(files map[string]string) []string {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
