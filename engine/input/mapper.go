// Package input maps pointer positions on the curved surface back to pixel
// coordinates in the captured window, and injects synthetic pointer events
// into it over the XTEST extension.
package input

import (
	"github.com/spheredesk/spheredesk/engine/camera"
	"github.com/spheredesk/spheredesk/engine/projection"
)

// Mapper converts window cursor positions into captured-window pixel
// coordinates by casting a ray through the camera and intersecting it with
// the projection surface.
type Mapper struct {
	camera  camera.Camera
	surface *projection.Surface
}

// NewMapper builds a mapper over the given camera and surface.
//
// Parameters:
//   - cam: the camera the cursor ray is cast through
//   - surf: the surface the ray is intersected with
//
// Returns:
//   - *Mapper: the mapper
func NewMapper(cam camera.Camera, surf *projection.Surface) *Mapper {
	return &Mapper{camera: cam, surface: surf}
}

// MapCursor maps a cursor position in window pixels to a pixel coordinate in
// the captured image. It fails when the cursor ray misses the surface, e.g.
// outside the clamped band or behind the cylinder's vertical extent.
//
// Parameters:
//   - cursorX: cursor x in window pixels
//   - cursorY: cursor y in window pixels
//   - viewWidth: window width in pixels
//   - viewHeight: window height in pixels
//   - imageWidth: captured image width in pixels
//   - imageHeight: captured image height in pixels
//
// Returns:
//   - int: target pixel x, clamped to the image
//   - int: target pixel y, clamped to the image
//   - bool: false when the ray misses the surface
func (m *Mapper) MapCursor(cursorX, cursorY float64, viewWidth, viewHeight int, imageWidth, imageHeight uint32) (int, int, bool) {
	if imageWidth == 0 || imageHeight == 0 {
		return 0, 0, false
	}

	dir, ok := m.camera.PickRay(cursorX, cursorY, viewWidth, viewHeight)
	if !ok {
		return 0, 0, false
	}
	u, v, ok := m.surface.UVFromDirection(dir)
	if !ok {
		return 0, 0, false
	}

	px := clampPixel(int(u*float32(imageWidth)), int(imageWidth))
	py := clampPixel(int(v*float32(imageHeight)), int(imageHeight))
	return px, py, true
}

func clampPixel(p, dim int) int {
	if p < 0 {
		return 0
	}
	if p >= dim {
		return dim - 1
	}
	return p
}
