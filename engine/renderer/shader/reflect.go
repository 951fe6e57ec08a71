package shader

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Interface is what a program declares to the pipeline: its entry points, its vertex inputs and
// the uniform block at group 0, binding 0.
type Interface struct {
	// VertexEntryPoints and FragmentEntryPoints are the names of every @vertex and @fragment function.
	VertexEntryPoints   []string
	FragmentEntryPoints []string

	// Inputs maps each @location of the vertex entry point's input to its WGSL type.
	Inputs map[uint32]string

	// UniformType is the type of the group 0, binding 0 uniform, empty if there is none.
	UniformType string

	// UniformSize is the host-shareable size of UniformType, 0 if it could not be resolved.
	// Member @align and @size attributes are honored when their argument is an integer literal.
	UniformSize uint64
}

// layout is the size and alignment of a WGSL type in the uniform address space.
type layout struct {
	size  uint64
	align uint64
}

// primitiveLayouts holds the host-shareable types a uniform block is built from.
var primitiveLayouts = map[string]layout{
	"f32": {4, 4}, "i32": {4, 4}, "u32": {4, 4},
	"vec2f": {8, 8}, "vec2<f32>": {8, 8},
	"vec3f": {12, 16}, "vec3<f32>": {12, 16},
	"vec4f": {16, 16}, "vec4<f32>": {16, 16},
	"vec4u": {16, 16}, "vec4<u32>": {16, 16},
	"mat3x3f": {48, 16}, "mat3x3<f32>": {48, 16},
	"mat4x4f": {64, 16}, "mat4x4<f32>": {64, 16},
}

// vec3Float are the accepted spellings of a three-component float vertex input.
var vec3Float = map[string]bool{"vec3f": true, "vec3<f32>": true}

var (
	lineCommentRegex  = regexp.MustCompile(`//[^\n]*`)
	blockCommentRegex = regexp.MustCompile(`(?s)/\*.*?\*/`)

	// structRegex captures a struct's name and body.
	structRegex = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)

	// memberRegex captures the attributes, name and type of one struct member or parameter.
	memberRegex = regexp.MustCompile(`^\s*((?:@\w+(?:\([^)]*\))?\s*)*)(\w+)\s*:\s*(.+?)\s*$`)

	locationRegex = regexp.MustCompile(`@location\((\d+)\)`)
	alignRegex    = regexp.MustCompile(`@align\(\s*([^)]*?)\s*\)`)
	sizeRegex     = regexp.MustCompile(`@size\(\s*([^)]*?)\s*\)`)

	// entryRegex captures the stage and name of an entry point and its parameter list.
	entryRegex = regexp.MustCompile(`@(vertex|fragment)\s+fn\s+(\w+)\s*\(((?:[^()]|\([^()]*\))*)\)`)

	// uniformRegex captures the type of the group 0, binding 0 uniform.
	uniformRegex = regexp.MustCompile(`@group\(0\)\s*@binding\(0\)\s*var<uniform>\s+\w+\s*:\s*(\w+)\s*;`)
)

type member struct {
	attributes string
	name       string
	typeName   string
}

// Reflect extracts the pipeline-facing declarations from the program. The WGSL is matched textually,
// so it should be validated first.
//
// Parameters:
//   - s: the program
//
// Returns:
//   - Interface: the declarations found
func Reflect(s Source) Interface {
	code := blockCommentRegex.ReplaceAllString(lineCommentRegex.ReplaceAllString(s.Code, ""), "")
	structs := parseStructs(code)

	iface := Interface{Inputs: make(map[uint32]string)}
	for _, m := range entryRegex.FindAllStringSubmatch(code, -1) {
		stage, name, params := m[1], m[2], m[3]
		if stage == "fragment" {
			iface.FragmentEntryPoints = append(iface.FragmentEntryPoints, name)
			continue
		}
		iface.VertexEntryPoints = append(iface.VertexEntryPoints, name)
		if name != s.VertexEntryPoint {
			continue
		}
		for _, p := range splitMembers(params, ",") {
			if loc, ok := location(p); ok {
				iface.Inputs[loc] = p.typeName
				continue
			}
			// A struct parameter contributes its located members.
			for _, f := range structs[p.typeName] {
				if loc, ok := location(f); ok {
					iface.Inputs[loc] = f.typeName
				}
			}
		}
	}

	if m := uniformRegex.FindStringSubmatch(code); m != nil {
		iface.UniformType = m[1]
		if l, ok := resolveLayout(m[1], structs, 0); ok {
			iface.UniformSize = l.size
		}
	}
	return iface
}

// CheckInterface verifies the program fits the fixed pipeline: the configured entry points exist,
// the vertex entry point reads vec3 floats at locations 0, 1 and 2, and the uniform at group 0,
// binding 0 is blockSize bytes.
//
// Parameters:
//   - s: the program
//   - blockSize: the size of the uniform block the host writes
//
// Returns:
//   - error: an error wrapping ErrInvalidShader describing the first mismatch
func CheckInterface(s Source, blockSize uint64) error {
	iface := Reflect(s)
	if !contains(iface.VertexEntryPoints, s.VertexEntryPoint) {
		return fmt.Errorf("%w: %s: no @vertex entry point %q", ErrInvalidShader, s.Key, s.VertexEntryPoint)
	}
	if !contains(iface.FragmentEntryPoints, s.FragmentEntryPoint) {
		return fmt.Errorf("%w: %s: no @fragment entry point %q", ErrInvalidShader, s.Key, s.FragmentEntryPoint)
	}
	for loc := uint32(0); loc < 3; loc++ {
		typeName, ok := iface.Inputs[loc]
		if !ok {
			return fmt.Errorf("%w: %s: %s reads nothing at @location(%d)", ErrInvalidShader, s.Key, s.VertexEntryPoint, loc)
		}
		if !vec3Float[typeName] {
			return fmt.Errorf("%w: %s: @location(%d) is %s, want vec3f", ErrInvalidShader, s.Key, loc, typeName)
		}
	}
	switch {
	case iface.UniformType == "":
		return fmt.Errorf("%w: %s: no uniform at @group(0) @binding(0)", ErrInvalidShader, s.Key)
	case iface.UniformSize == 0:
		return fmt.Errorf("%w: %s: cannot resolve the layout of uniform %s", ErrInvalidShader, s.Key, iface.UniformType)
	case iface.UniformSize != blockSize:
		return fmt.Errorf("%w: %s: uniform %s is %d bytes, want %d", ErrInvalidShader, s.Key, iface.UniformType, iface.UniformSize, blockSize)
	}
	return nil
}

func parseStructs(code string) map[string][]member {
	structs := make(map[string][]member)
	for _, m := range structRegex.FindAllStringSubmatch(code, -1) {
		structs[m[1]] = splitMembers(m[2], ",;")
	}
	return structs
}

func splitMembers(body, separators string) []member {
	var out []member
	for _, part := range strings.FieldsFunc(body, func(r rune) bool { return strings.ContainsRune(separators, r) }) {
		if m := memberRegex.FindStringSubmatch(part); m != nil {
			out = append(out, member{attributes: m[1], name: m[2], typeName: m[3]})
		}
	}
	return out
}

func location(m member) (uint32, bool) {
	sub := locationRegex.FindStringSubmatch(m.attributes)
	if sub == nil {
		return 0, false
	}
	loc, err := strconv.ParseUint(sub[1], 10, 32)
	return uint32(loc), err == nil
}

// resolveLayout applies the WGSL struct layout rules: each member sits at the next offset aligned to
// its type or its @align, takes its type's size or its @size, and the struct size rounds up to the
// largest member alignment.
func resolveLayout(typeName string, structs map[string][]member, depth int) (layout, bool) {
	if l, ok := primitiveLayouts[typeName]; ok {
		return l, true
	}
	members, ok := structs[typeName]
	if !ok || depth > len(structs) {
		return layout{}, false
	}
	var offset, align uint64 = 0, 1
	for _, m := range members {
		l, ok := resolveLayout(m.typeName, structs, depth+1)
		if !ok {
			return layout{}, false
		}
		if l, ok = applyAttributes(m.attributes, l); !ok {
			return layout{}, false
		}
		offset = roundUp(offset, l.align) + l.size
		align = max(align, l.align)
	}
	return layout{size: roundUp(offset, align), align: align}, true
}

// applyAttributes overrides l with the member's @align and @size. An @align must be a power of two and an
// @size at least the type's size.
func applyAttributes(attributes string, l layout) (layout, bool) {
	if m := alignRegex.FindStringSubmatch(attributes); m != nil {
		n, err := strconv.ParseUint(m[1], 10, 32)
		if err != nil || n == 0 || n&(n-1) != 0 {
			return layout{}, false
		}
		l.align = n
	}
	if m := sizeRegex.FindStringSubmatch(attributes); m != nil {
		n, err := strconv.ParseUint(m[1], 10, 32)
		if err != nil || n < l.size {
			return layout{}, false
		}
		l.size = n
	}
	return l, true
}

func roundUp(value, alignment uint64) uint64 {
	return (value + alignment - 1) / alignment * alignment
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
