package common

import (
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// FallbackDirection is returned by Normalize for degenerate input so that
// downstream projection math never sees a NaN component. It points down the
// camera's view axis.
var FallbackDirection = mgl32.Vec3{0, 0, -1}

// Normalize returns v scaled to unit length.
// Degenerate input (zero or negative length) yields FallbackDirection instead
// of dividing by zero.
//
// Parameters:
//   - v: the vector to normalize
//
// Returns:
//   - mgl32.Vec3: a unit-length vector, or FallbackDirection for degenerate input
func Normalize(v mgl32.Vec3) mgl32.Vec3 {
	length := v.Len()
	if length <= 0 {
		return FallbackDirection
	}
	return v.Mul(1.0 / length)
}

// RotateX rotates v about the X axis by the given angle in degrees.
//
// Parameters:
//   - v: the vector to rotate
//   - degrees: signed rotation angle in degrees
//
// Returns:
//   - mgl32.Vec3: the rotated vector
func RotateX(v mgl32.Vec3, degrees float32) mgl32.Vec3 {
	return mgl32.Rotate3DX(mgl32.DegToRad(degrees)).Mul3x1(v)
}

// RotateY rotates v about the Y axis by the given angle in degrees.
//
// Parameters:
//   - v: the vector to rotate
//   - degrees: signed rotation angle in degrees
//
// Returns:
//   - mgl32.Vec3: the rotated vector
func RotateY(v mgl32.Vec3, degrees float32) mgl32.Vec3 {
	return mgl32.Rotate3DY(mgl32.DegToRad(degrees)).Mul3x1(v)
}

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

// Mul4 multiplies two 4x4 matrices and stores the result in out.
// All matrices are stored in column-major order (WebGPU convention).
// Result: out = a * b
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

// Perspective creates a perspective projection matrix.
// Uses depth range convention compatible with WebGPU clip space [0, 1].
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
func Perspective(out []float32, fovY, aspect, near, far float32) {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))
	Identity(out)

	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	out[15] = 0.0
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
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// StructToBytes reinterprets a pointer to a struct as a raw byte slice using unsafe.
// The returned slice has length equal to the struct's size in memory.
//
// Parameters:
//   - v: pointer to the struct to reinterpret
//
// Returns:
//   - []byte: byte slice view of the struct's memory
func StructToBytes[T any](v *T) []byte {
	size := unsafe.Sizeof(*v)
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(size))
}
