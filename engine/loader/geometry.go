package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-lite/engine/model"
)

// ErrMalformedLine is returned when a data line inside a section does not hold exactly three parseable values.
var ErrMalformedLine = errors.New("malformed geometry line")

// section identifies which stream data lines are appended to.
type section int

const (
	sectionNone section = iota
	sectionPoints
	sectionColors
	sectionNormals
	sectionIndices
)

// sectionHeaders maps the exact header text to the section it opens.
var sectionHeaders = map[string]section{
	"[points]":  sectionPoints,
	"[colors]":  sectionColors,
	"[normals]": sectionNormals,
	"[indices]": sectionIndices,
}

// LoadGeometry opens and parses a geometry text file.
//
// Parameters:
//   - path: the file path to the geometry description
//
// Returns:
//   - *model.Mesh: the parsed attribute and index streams
//   - error: error if the file cannot be opened or a data line is malformed
func LoadGeometry(path string) (*model.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open geometry %q: %w", path, err)
	}
	defer f.Close()

	mesh, err := ParseGeometry(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse geometry %q: %w", path, err)
	}
	return mesh, nil
}

// ParseGeometry reads a sectioned geometry description line by line.
//
// A line equal to [points], [colors], [normals] or [indices] switches the active section. Any other
// bracketed line opens an inert section whose lines are skipped until the next recognized header.
// Lines before the first header are inert. Trailing carriage returns are stripped, and blank lines or
// lines starting with '#' are skipped. Every remaining line must hold exactly three whitespace-separated
// values: float32 in the vertex sections, uint16 in [indices].
//
// Index values are not checked against the vertex count here; see model.Mesh.Validate.
//
// Parameters:
//   - r: the source to read
//
// Returns:
//   - *model.Mesh: the parsed streams, in file order
//   - error: ErrMalformedLine wrapped with the line number, or a read error
func ParseGeometry(r io.Reader) (*model.Mesh, error) {
	mesh := &model.Mesh{}
	current := sectionNone

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")

		if s, ok := sectionHeaders[line]; ok {
			current = s
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			current = sectionNone
			continue
		}
		if current == sectionNone || strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != model.ComponentsPerVertex {
			return nil, fmt.Errorf("%w: line %d: want 3 values, got %d", ErrMalformedLine, lineNo, len(fields))
		}

		var err error
		switch current {
		case sectionPoints:
			mesh.Positions, err = appendFloats(mesh.Positions, fields)
		case sectionColors:
			mesh.Colors, err = appendFloats(mesh.Colors, fields)
		case sectionNormals:
			mesh.Normals, err = appendFloats(mesh.Normals, fields)
		case sectionIndices:
			mesh.Indices, err = appendIndices(mesh.Indices, fields)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedLine, lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return mesh, nil
}

func appendFloats(dst []float32, fields []string) ([]float32, error) {
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return dst, err
		}
		dst = append(dst, float32(v))
	}
	return dst, nil
}

func appendIndices(dst []uint16, fields []string) ([]uint16, error) {
	for _, f := range fields {
		v, err := strconv.ParseUint(f, 10, 16)
		if err != nil {
			return dst, err
		}
		dst = append(dst, uint16(v))
	}
	return dst, nil
}
