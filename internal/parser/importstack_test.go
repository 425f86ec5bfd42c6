package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opmodel/confgraph/internal/metadata"
)

func TestImportStack(t *testing.T) {
	a := NewUnit(&metadata.TypeMetadata{Name: "example.com/app.A"}, "a")
	b := NewUnit(&metadata.TypeMetadata{Name: "example.com/app.B"}, "b")

	s := NewImportStack()
	assert.Nil(t, s.Top())
	assert.Nil(t, s.Pop())

	s.Push(a)
	s.Push(b)
	assert.Equal(t, 2, s.Len())
	assert.Same(t, b, s.Top())
	assert.True(t, s.Contains("example.com/app.A"))
	assert.False(t, s.Contains("example.com/app.C"))
	assert.Equal(t, "[example.com/app.A->example.com/app.B]", s.Path())

	s.RegisterImport(a.Metadata, "example.com/app.B")
	assert.False(t, s.ChainedImport("example.com/app.A"))
	s.RegisterImport(b.Metadata, "example.com/app.A")
	assert.True(t, s.ChainedImport("example.com/app.A"))
	assert.True(t, s.ChainedImport("example.com/app.B"))

	require.NotNil(t, s.ImportingFor("example.com/app.B"))
	assert.Equal(t, "example.com/app.A", s.ImportingFor("example.com/app.B").Name)

	s.RemoveImportingType("example.com/app.A")
	assert.Nil(t, s.ImportingFor("example.com/app.B"))
	assert.False(t, s.ChainedImport("example.com/app.A"))

	assert.Same(t, b, s.Pop())
	assert.Same(t, a, s.Pop())
	assert.Zero(t, s.Len())
}

func TestFilterOr(t *testing.T) {
	isA := Filter(func(name string) bool { return name == "a" })
	isB := Filter(func(name string) bool { return name == "b" })

	var none Filter
	assert.Nil(t, none.Or(nil))
	assert.True(t, none.Or(isA)("a"))
	assert.True(t, isA.Or(nil)("a"))

	both := isA.Or(isB)
	assert.True(t, both("a"))
	assert.True(t, both("b"))
	assert.False(t, both("c"))

	assert.True(t, DefaultExclusionFilter("confgraph.Import"))
	assert.True(t, DefaultExclusionFilter("builtin.Object"))
	assert.False(t, DefaultExclusionFilter("example.com/app.A"))
}
