package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func vecClose(a, b mgl32.Vec3, tol float32) bool {
	return a.Sub(b).Len() < tol
}

func TestPitchClamps(t *testing.T) {
	c := NewCamera()

	c.AddPitch(500)
	if got := c.Pitch(); got != MaxPitchDeg {
		t.Fatalf("pitch clamped high: %v", got)
	}
	c.AddPitch(-500)
	if got := c.Pitch(); got != MinPitchDeg {
		t.Fatalf("pitch clamped low: %v", got)
	}
}

func TestFovClamps(t *testing.T) {
	c := NewCamera()

	if got := c.AddFov(500); got != MaxFovDeg {
		t.Fatalf("fov clamped high: %v", got)
	}
	if got := c.AddFov(-500); got != MinFovDeg {
		t.Fatalf("fov clamped low: %v", got)
	}
}

func TestYawAccumulates(t *testing.T) {
	c := NewCamera(WithYaw(10))
	c.AddYaw(15)
	if got := c.Yaw(); math.Abs(float64(got-25)) > 1e-5 {
		t.Fatalf("yaw = %v, want 25", got)
	}
}

func TestPickRayCenterLooksForward(t *testing.T) {
	c := NewCamera()

	// The center sample of an even-sized viewport sits half a pixel off
	// exact center, so allow a sub-pixel tolerance.
	dir, ok := c.PickRay(639.5, 359.5, 1280, 720)
	if !ok {
		t.Fatal("pick ray failed")
	}
	if !vecClose(dir, mgl32.Vec3{0, 0, -1}, 1e-3) {
		t.Fatalf("center ray = %v, want -Z", dir)
	}
}

func TestPickRayFollowsYaw(t *testing.T) {
	c := NewCamera(WithYaw(90))

	dir, ok := c.PickRay(639.5, 359.5, 1280, 720)
	if !ok {
		t.Fatal("pick ray failed")
	}
	// Yawing 90° left swings the forward ray from -Z to -X.
	if !vecClose(dir, mgl32.Vec3{-1, 0, 0}, 1e-3) {
		t.Fatalf("yawed center ray = %v, want -X", dir)
	}
}

func TestPickRayFollowsPitch(t *testing.T) {
	c := NewCamera(WithPitch(89))
	dir, ok := c.PickRay(639.5, 359.5, 1280, 720)
	if !ok {
		t.Fatal("pick ray failed")
	}
	if dir.Y() < 0.99 {
		t.Fatalf("pitched-up center ray = %v, want nearly +Y", dir)
	}
}

func TestPickRayRejectsZeroViewport(t *testing.T) {
	c := NewCamera()
	if _, ok := c.PickRay(0, 0, 0, 0); ok {
		t.Fatal("zero-area viewport accepted")
	}
}

func TestPickRayEdgeMatchesFov(t *testing.T) {
	// With a square viewport and 90° vertical fov, the top-center ray should
	// be pitched 45° up from forward.
	c := NewCamera(WithFov(90))
	dir, ok := c.PickRay(499.5, 0.5, 1000, 1000)
	if !ok {
		t.Fatal("pick ray failed")
	}
	angle := math.Atan2(float64(dir.Y()), float64(-dir.Z())) * 180 / math.Pi
	if math.Abs(angle-45) > 0.2 {
		t.Fatalf("top-center ray elevation %.2f°, want ~45°", angle)
	}
}

func TestViewProjectionIsFinite(t *testing.T) {
	c := NewCamera(WithYaw(30), WithPitch(-20))
	m := c.ViewProjection(1280, 720)
	for i, v := range m {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("matrix element %d is %v", i, v)
		}
	}
}
