package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const singleVertex = `[points]
0.0 0.0 0.0
[colors]
1.0 1.0 1.0
[normals]
0.0 0.0 1.0
[indices]
0 0 0
`

func TestParseSingleVertex(t *testing.T) {
	mesh, err := ParseGeometry(strings.NewReader(singleVertex))
	require.NoError(t, err)

	assert.Equal(t, []float32{0, 0, 0}, mesh.Positions)
	assert.Equal(t, []float32{1, 1, 1}, mesh.Colors)
	assert.Equal(t, []float32{0, 0, 1}, mesh.Normals)
	assert.Equal(t, []uint16{0, 0, 0}, mesh.Indices)
	assert.Equal(t, uint32(3), mesh.IndexCount())
}

func TestParseCRLFMatchesLF(t *testing.T) {
	lf, err := ParseGeometry(strings.NewReader(singleVertex))
	require.NoError(t, err)
	crlf, err := ParseGeometry(strings.NewReader(strings.ReplaceAll(singleVertex, "\n", "\r\n")))
	require.NoError(t, err)
	assert.Equal(t, lf, crlf)
}

func TestParseIgnoresCommentsAndBlanks(t *testing.T) {
	src := `# leading comment
1 2 3
[points]

# inside a section
1 2 3

4 5 6
[indices]
# triangle
0 1 1
`
	mesh, err := ParseGeometry(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, mesh.Positions)
	assert.Equal(t, []uint16{0, 1, 1}, mesh.Indices)
	assert.Empty(t, mesh.Colors)
	assert.Empty(t, mesh.Normals)
}

func TestParseUnknownSectionIsInert(t *testing.T) {
	src := "[points]\n1 1 1\n[normal]\n9 9 9\nnot even numbers\n[points]\n2 2 2\n"
	mesh, err := ParseGeometry(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 1, 1, 2, 2, 2}, mesh.Positions)
	assert.Empty(t, mesh.Normals)
}

func TestParseHeadersAreExact(t *testing.T) {
	src := "[Points]\n1 1 1\n [points]\n2 2 2\n"
	mesh, err := ParseGeometry(strings.NewReader(src))
	require.NoError(t, err)
	assert.Empty(t, mesh.Positions)
}

func TestParseMalformed(t *testing.T) {
	cases := map[string]string{
		"too few":        "[points]\n1 2\n",
		"too many":       "[points]\n1 2 3 4\n",
		"not a float":    "[colors]\n1 x 3\n",
		"negative index": "[indices]\n0 -1 2\n",
		"index overflow": "[indices]\n0 1 65536\n",
		"float index":    "[indices]\n0 1 2.5\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseGeometry(strings.NewReader(src))
			assert.ErrorIs(t, err, ErrMalformedLine)
			assert.Contains(t, err.Error(), "line 2")
		})
	}
}

func TestParseCountsFollowLineCounts(t *testing.T) {
	for _, n := range []int{1, 2, 7, 50} {
		var b strings.Builder
		b.WriteString("[points]\n")
		for i := 0; i < n; i++ {
			fmt.Fprintf(&b, "%d.5 %d %d\n", i, i+1, -i)
		}
		b.WriteString("[indices]\n")
		for i := 0; i < n; i++ {
			fmt.Fprintf(&b, "%d %d %d\n", i, i, i)
		}

		mesh, err := ParseGeometry(strings.NewReader(b.String()))
		require.NoError(t, err)
		assert.Len(t, mesh.Positions, n*3)
		assert.Len(t, mesh.Indices, n*3)
		assert.Zero(t, len(mesh.Indices)%3)
	}
}

func TestLoadGeometryMissingFile(t *testing.T) {
	_, err := LoadGeometry(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadBundledPyramid(t *testing.T) {
	mesh, err := LoadGeometry(filepath.Join("..", "..", "resources", "pyramid.txt"))
	require.NoError(t, err)
	assert.Equal(t, 16, mesh.VertexCount())
	assert.Len(t, mesh.Indices, 18)
	assert.NoError(t, mesh.Validate(true))
}
