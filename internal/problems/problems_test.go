package problems

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/opmodel/confgraph/internal/errors"
)

func TestCollector(t *testing.T) {
	c := NewCollector()
	assert.NoError(t, c.Err())
	assert.False(t, c.HasErrors())

	c.Warning(Problem{Kind: KindVoidProducer, Message: "producer returns nothing"})
	assert.False(t, c.HasErrors())
	assert.NoError(t, c.Err())

	c.Error(Problem{Kind: KindCircularImport, Message: "a.A imports b.B imports a.A", Location: "a.yaml"})
	c.Error(Problem{Kind: KindFinalConfiguration, Message: "final", Location: "b.yaml"})

	list := c.Problems()
	require.Len(t, list, 3)
	assert.Equal(t, SeverityWarning, list[0].Severity)
	assert.Equal(t, SeverityError, list[1].Severity)
	assert.True(t, c.HasErrors())

	err := c.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrValidation))
	assert.Contains(t, err.Error(), "2 configuration problem(s)")
	assert.Contains(t, err.Error(), "a.A imports b.B imports a.A (a.yaml)")
}
