package common

import (
	"unsafe"

	"github.com/chewxy/math32"
)

// Identity resets a 4x4 matrix (flat slice) to the identity matrix.
// The matrix is stored in column-major order.
//
// Parameters:
//   - m: destination slice (must be at least 16 elements)
func Identity(m []float32) {
	for i := range m {
		m[i] = 0
	}
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), int(size)*len(data))
}

// StructToBytes reinterprets a pointer to a value as a raw byte slice using unsafe.
// The returned slice has length equal to the value's size in memory.
//
// Parameters:
//   - v: pointer to the value to reinterpret
//
// Returns:
//   - []byte: byte slice view of the value's memory
func StructToBytes[T any](v *T) []byte {
	size := unsafe.Sizeof(*v)
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(size))
}

// Mul4 multiplies two 4x4 matrices and stores the result in out.
// All matrices are stored in column-major order (WebGPU convention).
// Result: out = a * b. out may alias a or b.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - a: left-hand matrix (16 elements)
//   - b: right-hand matrix (16 elements)
func Mul4(out, a, b []float32) {
	var buf [16]float32
	for i := 0; i < 4; i++ { // column of B
		for j := 0; j < 4; j++ { // row of A
			sum := float32(0)
			for k := 0; k < 4; k++ {
				sum += a[k*4+j] * b[i*4+k]
			}
			buf[i*4+j] = sum
		}
	}
	copy(out, buf[:])
}

// Translation writes a translation matrix into out.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - x, y, z: translation along each axis
func Translation(out []float32, x, y, z float32) {
	Identity(out)
	out[12], out[13], out[14] = x, y, z
}

// Scaling writes a non-uniform scale matrix into out.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - x, y, z: scale factor along each axis
func Scaling(out []float32, x, y, z float32) {
	Identity(out)
	out[0], out[5], out[10] = x, y, z
}

// RotationX writes a right-handed rotation of angle radians about the X axis into out.
func RotationX(out []float32, angle float32) {
	c, s := math32.Cos(angle), math32.Sin(angle)
	Identity(out)
	out[5], out[6] = c, s
	out[9], out[10] = -s, c
}

// RotationZ writes a right-handed rotation of angle radians about the Z axis into out.
func RotationZ(out []float32, angle float32) {
	c, s := math32.Cos(angle), math32.Sin(angle)
	Identity(out)
	out[0], out[1] = c, s
	out[4], out[5] = -s, c
}

// FocalPerspective writes a left-handed perspective projection defined by a focal length
// rather than a field of view. Depth maps to the WebGPU clip range [0, 1] over [near, far]
// measured from the focal plane.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - aspect: viewport aspect ratio (width/height)
//   - focal: focal length
//   - near: near plane distance (must be less than far)
//   - far: far plane distance
func FocalPerspective(out []float32, aspect, focal, near, far float32) {
	div := 1 / (focal * (far - near))
	for i := range out[:16] {
		out[i] = 0
	}
	out[0] = 1
	out[5] = aspect
	out[10] = far * div
	out[11] = 1 / focal
	out[14] = -far * near * div
}

// CeilToMultiple rounds value up to the nearest multiple of step.
// A zero step returns value unchanged.
//
// Parameters:
//   - value: the value to round
//   - step: the required multiple
//
// Returns:
//   - uint32: the smallest multiple of step that is >= value
func CeilToMultiple(value, step uint32) uint32 {
	if step == 0 {
		return value
	}
	n := value / step
	if value%step != 0 {
		n++
	}
	return n * step
}
