package input

import (
	"testing"

	"github.com/spheredesk/spheredesk/engine/camera"
	"github.com/spheredesk/spheredesk/engine/projection"
)

func TestMapCursorCenterOfSphere(t *testing.T) {
	cam := camera.NewCamera()
	surf := projection.NewSurface(projection.WithMode(projection.ModeSphere))
	m := NewMapper(cam, surf)

	// The view center looks along -Z, which lands at u=0.75, v=0.5.
	px, py, ok := m.MapCursor(639.5, 359.5, 1280, 720, 1000, 500)
	if !ok {
		t.Fatal("center cursor did not map")
	}
	if px != 750 || py != 250 {
		t.Fatalf("center maps to (%d, %d), want (750, 250)", px, py)
	}
}

func TestMapCursorRejectsOutsideClampBand(t *testing.T) {
	// Pitch the camera well above a narrow clamp band so the center ray
	// misses the surface.
	cam := camera.NewCamera(camera.WithPitch(60))
	surf := projection.NewSurface(
		projection.WithMode(projection.ModeSphereClamp),
		projection.WithClampAngle(30),
	)
	m := NewMapper(cam, surf)

	if _, _, ok := m.MapCursor(639.5, 359.5, 1280, 720, 1000, 500); ok {
		t.Fatal("cursor above the clamp band mapped to a pixel")
	}
}

func TestMapCursorRejectsEmptyImage(t *testing.T) {
	cam := camera.NewCamera()
	surf := projection.NewSurface()
	m := NewMapper(cam, surf)

	if _, _, ok := m.MapCursor(639.5, 359.5, 1280, 720, 0, 0); ok {
		t.Fatal("empty capture image mapped to a pixel")
	}
}

func TestMapCursorClampsToImageBounds(t *testing.T) {
	cam := camera.NewCamera()
	surf := projection.NewSurface()
	m := NewMapper(cam, surf)

	width, height := uint32(640), uint32(480)
	for _, pos := range [][2]float64{
		{0.5, 0.5}, {1279.5, 0.5}, {0.5, 719.5}, {1279.5, 719.5}, {639.5, 359.5},
	} {
		px, py, ok := m.MapCursor(pos[0], pos[1], 1280, 720, width, height)
		if !ok {
			continue
		}
		if px < 0 || px >= int(width) || py < 0 || py >= int(height) {
			t.Fatalf("cursor %v maps to out-of-bounds pixel (%d, %d)", pos, px, py)
		}
	}
}
