package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spheredesk/spheredesk/common"
)

// PickRay converts a pointer position in render-surface pixels to the unit
// world-space direction that the rendered pixel looks along. The pipeline:
//
//  1. pixel (sampled at its center, +0.5) → normalized device coordinates
//     in [−1, 1]², Y up;
//  2. NDC → camera-space direction through the pinhole model, matching the
//     perspective projection used for rendering;
//  3. pitch rotation about X, then yaw rotation about Y, into the surface's
//     model space.
//
// The caller must hand in physical pixel coordinates; any window-to-
// framebuffer scaling is applied before this point.
func (c *cameraImpl) PickRay(x, y float64, width, height int) (mgl32.Vec3, bool) {
	if width <= 0 || height <= 0 {
		return mgl32.Vec3{}, false
	}

	c.mu.Lock()
	yaw, pitch, fov := c.yawDeg, c.pitchDeg, c.fovYDeg
	c.mu.Unlock()

	ndcX := float32(2.0*(x+0.5)/float64(width) - 1.0)
	ndcY := float32(1.0 - 2.0*(y+0.5)/float64(height))

	aspect := float32(width) / float32(height)
	tanHalfFovY := math32.Tan(mgl32.DegToRad(fov) * 0.5)
	dirCam := common.Normalize(mgl32.Vec3{
		ndcX * tanHalfFovY * aspect,
		ndcY * tanHalfFovY,
		-1.0,
	})

	dirWorld := common.RotateY(common.RotateX(dirCam, pitch), yaw)
	return common.Normalize(dirWorld), true
}
