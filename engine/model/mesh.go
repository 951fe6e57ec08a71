package model

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-lite/common"
)

// ComponentsPerVertex is the number of float32 values per vertex in each attribute stream.
const ComponentsPerVertex = 3

// VertexStride is the byte stride of a single vertex in each attribute stream.
const VertexStride = ComponentsPerVertex * 4

var (
	// ErrEmptyMesh is returned when a mesh has no vertices or no indices.
	ErrEmptyMesh = errors.New("mesh has no vertices or indices")
	// ErrStreamMismatch is returned when the attribute streams are not index-aligned.
	ErrStreamMismatch = errors.New("vertex attribute streams differ in length")
	// ErrIndexCount is returned when the index count is not a multiple of three.
	ErrIndexCount = errors.New("index count is not a multiple of 3")
	// ErrIndexOutOfRange is returned when an index references a vertex past the end of the streams.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Mesh holds an indexed triangle list as three parallel vertex attribute streams.
// Every stream holds ComponentsPerVertex float32 values per vertex in vertex order.
type Mesh struct {
	// Positions is the position stream (x, y, z per vertex).
	Positions []float32

	// Normals is the normal stream (x, y, z per vertex).
	Normals []float32

	// Colors is the color stream (r, g, b per vertex).
	Colors []float32

	// Indices is the triangle list, three entries per triangle.
	Indices []uint16
}

// VertexCount returns the number of vertices described by the position stream.
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / ComponentsPerVertex
}

// IndexCount returns the number of indices to draw.
func (m *Mesh) IndexCount() uint32 {
	return uint32(len(m.Indices))
}

// Validate checks that the mesh can be uploaded and drawn as an indexed triangle list.
// Bounds checking of index values against the vertex count is only performed when checkBounds is set;
// without it an out-of-range index is the geometry source's responsibility.
//
// Parameters:
//   - checkBounds: whether every index must reference an existing vertex
//
// Returns:
//   - error: a wrapped sentinel describing the first problem found, or nil
func (m *Mesh) Validate(checkBounds bool) error {
	if len(m.Positions) == 0 || len(m.Indices) == 0 {
		return ErrEmptyMesh
	}
	if len(m.Normals) != len(m.Positions) || len(m.Colors) != len(m.Positions) {
		return fmt.Errorf("%w: %d positions, %d normals, %d colors",
			ErrStreamMismatch, len(m.Positions), len(m.Normals), len(m.Colors))
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w: got %d", ErrIndexCount, len(m.Indices))
	}
	if !checkBounds {
		return nil
	}
	vertices := m.VertexCount()
	for i, idx := range m.Indices {
		if int(idx) >= vertices {
			return fmt.Errorf("%w: indices[%d] = %d with %d vertices", ErrIndexOutOfRange, i, idx, vertices)
		}
	}
	return nil
}

// PositionBytes returns the position stream as raw bytes for GPU upload.
func (m *Mesh) PositionBytes() []byte {
	return common.SliceToBytes(m.Positions)
}

// NormalBytes returns the normal stream as raw bytes for GPU upload.
func (m *Mesh) NormalBytes() []byte {
	return common.SliceToBytes(m.Normals)
}

// ColorBytes returns the color stream as raw bytes for GPU upload.
func (m *Mesh) ColorBytes() []byte {
	return common.SliceToBytes(m.Colors)
}

// IndexBytes returns the index stream as a new byte slice zero-padded to a 4-byte boundary,
// since queue writes must be a multiple of 4 bytes.
//
// Returns:
//   - []byte: the padded index data
func (m *Mesh) IndexBytes() []byte {
	raw := common.SliceToBytes(m.Indices)
	out := make([]byte, common.CeilToMultiple(uint32(len(raw)), 4))
	copy(out, raw)
	return out
}
