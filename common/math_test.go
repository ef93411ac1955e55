package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func vecClose(a, b mgl32.Vec3, tol float32) bool {
	return a.Sub(b).Len() < tol
}

func TestNormalize(t *testing.T) {
	v := Normalize(mgl32.Vec3{3, 0, 4})
	if math.Abs(float64(v.Len()-1)) > 1e-6 {
		t.Fatalf("normalized length %v", v.Len())
	}
	if !vecClose(v, mgl32.Vec3{0.6, 0, 0.8}, 1e-6) {
		t.Fatalf("direction %v", v)
	}
}

func TestNormalizeDegenerateFallsBack(t *testing.T) {
	if got := Normalize(mgl32.Vec3{}); got != FallbackDirection {
		t.Fatalf("zero vector normalized to %v", got)
	}
}

func TestRotateY(t *testing.T) {
	got := RotateY(mgl32.Vec3{0, 0, -1}, 90)
	if !vecClose(got, mgl32.Vec3{-1, 0, 0}, 1e-5) {
		t.Fatalf("rotated vector %v, want (-1, 0, 0)", got)
	}
}

func TestRotateXPreservesX(t *testing.T) {
	got := RotateX(mgl32.Vec3{0, 0, -1}, 90)
	if !vecClose(got, mgl32.Vec3{0, 1, 0}, 1e-5) {
		t.Fatalf("rotated vector %v, want (0, 1, 0)", got)
	}
}

func TestMul4Identity(t *testing.T) {
	var id, m, out [16]float32
	Identity(id[:])
	for i := range m {
		m[i] = float32(i) * 0.5
	}
	Mul4(out[:], id[:], m[:])
	if out != m {
		t.Fatalf("I*M != M: %v", out)
	}
}

func TestMul4InPlace(t *testing.T) {
	var a, b, want [16]float32
	for i := range a {
		a[i] = float32(i%5) + 1
		b[i] = float32(i%3) + 1
	}
	Mul4(want[:], a[:], b[:])

	// Writing the result over an operand must not corrupt it.
	Mul4(a[:], a[:], b[:])
	if a != want {
		t.Fatalf("in-place multiply differs: %v vs %v", a, want)
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	var m [16]float32
	Perspective(m[:], float32(math.Pi/2), 16.0/9.0, 0.1, 100)

	// A point on the near plane should map to depth 0, the far plane to 1
	// (after perspective divide), per the WebGPU clip-space convention.
	nearZ := m[10]*(-0.1) + m[14]
	nearW := m[11] * (-0.1)
	if math.Abs(float64(nearZ/nearW)) > 1e-5 {
		t.Fatalf("near plane depth %v, want 0", nearZ/nearW)
	}
	farZ := m[10]*(-100) + m[14]
	farW := m[11] * (-100)
	if math.Abs(float64(farZ/farW-1)) > 1e-4 {
		t.Fatalf("far plane depth %v, want 1", farZ/farW)
	}
}

func TestSliceToBytes(t *testing.T) {
	data := []uint32{0x04030201}
	b := SliceToBytes(data)
	if len(b) != 4 {
		t.Fatalf("length %d", len(b))
	}
	if b[0] != 1 || b[3] != 4 {
		t.Fatalf("little-endian view %v", b)
	}
	if SliceToBytes([]float32(nil)) != nil {
		t.Fatal("empty slice should yield nil")
	}
}
