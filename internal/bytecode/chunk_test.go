package bytecode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rslox/internal/bytecode"
)

func TestWriteByteTracksLines(t *testing.T) {
	c := bytecode.NewChunk()
	c.WriteOp(bytecode.OpNil, 1)
	c.WriteOp(bytecode.OpReturn, 2)

	require.Len(t, c.Code, 2)
	require.Len(t, c.Lines, 2)
	assert.Equal(t, 1, c.Line(0))
	assert.Equal(t, 2, c.Line(1))
}

func TestAddConstantIndexesSequentially(t *testing.T) {
	c := bytecode.NewChunk()
	idx0, err := c.AddConstant("a")
	require.NoError(t, err)
	idx1, err := c.AddConstant("b")
	require.NoError(t, err)

	assert.Equal(t, 0, idx0)
	assert.Equal(t, 1, idx1)
}

func TestAddConstantRejectsBeyondLimit(t *testing.T) {
	c := bytecode.NewChunk()
	for i := 0; i < bytecode.MaxConstants; i++ {
		_, err := c.AddConstant(i)
		require.NoError(t, err)
	}

	_, err := c.AddConstant("overflow")
	require.Error(t, err)
	assert.Equal(t, "Too many constants in one chunk.", err.Error())
}
