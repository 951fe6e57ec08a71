package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangle() *Mesh {
	return &Mesh{
		Positions: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Normals:   []float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
		Colors:    []float32{1, 0, 0, 0, 1, 0, 0, 0, 1},
		Indices:   []uint16{0, 1, 2},
	}
}

func TestMeshCounts(t *testing.T) {
	m := triangle()
	assert.Equal(t, 3, m.VertexCount())
	assert.Equal(t, uint32(3), m.IndexCount())
	assert.Len(t, m.PositionBytes(), 36)
	assert.Len(t, m.NormalBytes(), 36)
	assert.Len(t, m.ColorBytes(), 36)
}

func TestIndexBytesPadding(t *testing.T) {
	m := triangle()
	b := m.IndexBytes()
	require.Len(t, b, 8)
	assert.Equal(t, []byte{0, 0, 1, 0, 2, 0, 0, 0}, b)

	m.Indices = []uint16{0, 1, 2, 2, 1, 0}
	assert.Len(t, m.IndexBytes(), 12)
}

func TestValidate(t *testing.T) {
	require.NoError(t, triangle().Validate(true))

	m := triangle()
	m.Indices = nil
	assert.ErrorIs(t, m.Validate(false), ErrEmptyMesh)

	m = triangle()
	m.Normals = m.Normals[:6]
	assert.ErrorIs(t, m.Validate(false), ErrStreamMismatch)

	m = triangle()
	m.Indices = []uint16{0, 1}
	assert.ErrorIs(t, m.Validate(false), ErrIndexCount)

	m = triangle()
	m.Indices = []uint16{0, 1, 3}
	assert.ErrorIs(t, m.Validate(true), ErrIndexOutOfRange)
	assert.NoError(t, m.Validate(false), "bounds are only checked on request")
}
