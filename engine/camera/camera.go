// Package camera holds the view state for the curved-monitor scene: yaw and
// pitch in degrees and a vertical field of view. The camera sits at the
// origin inside the surface and only rotates, so there is no position or
// look-at target: the view matrix is a pure rotation and the pick ray is a
// direction.
package camera

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spheredesk/spheredesk/common"
)

// Rotation and zoom limits. Producers clamp rather than error.
const (
	MinPitchDeg float32 = -89.0
	MaxPitchDeg float32 = 89.0
	MinFovDeg   float32 = 30.0
	MaxFovDeg   float32 = 120.0
)

// Near/far planes for the perspective projection. The surface radius sits
// comfortably inside this range in every mode.
const (
	nearPlane float32 = 0.1
	farPlane  float32 = 100.0
)

type cameraImpl struct {
	mu *sync.Mutex

	yawDeg   float32 // unbounded; wraps via trigonometric periodicity
	pitchDeg float32 // clamped to [MinPitchDeg, MaxPitchDeg]
	fovYDeg  float32 // clamped to [MinFovDeg, MaxFovDeg]
}

// Camera is the mutable view state read by the render loop and the pointer
// mapping path. The tick loop is the single writer; reads may come from the
// window event thread.
type Camera interface {
	// Yaw returns the rotation around the Y axis in degrees.
	Yaw() float32

	// Pitch returns the rotation around the X axis in degrees.
	Pitch() float32

	// Fov returns the vertical field of view in degrees.
	Fov() float32

	// AddYaw adjusts the yaw by delta degrees. Yaw is unbounded.
	//
	// Parameters:
	//   - delta: signed yaw change in degrees
	AddYaw(delta float32)

	// AddPitch adjusts the pitch by delta degrees, clamped to [-89, 89].
	//
	// Parameters:
	//   - delta: signed pitch change in degrees
	AddPitch(delta float32)

	// AddFov adjusts the field of view by delta degrees, clamped to [30, 120],
	// and returns the resulting value.
	//
	// Parameters:
	//   - delta: signed field-of-view change in degrees
	//
	// Returns:
	//   - float32: the clamped field of view after the change
	AddFov(delta float32) float32

	// ViewProjection computes the combined view-projection matrix for the
	// given render-surface pixel dimensions (column-major, WebGPU depth
	// convention).
	//
	// Parameters:
	//   - width: render surface width in pixels
	//   - height: render surface height in pixels
	//
	// Returns:
	//   - [16]float32: the combined view-projection matrix
	ViewProjection(width, height int) [16]float32

	// PickRay reconstructs the world-space view ray under a pointer position.
	// See ray.go for the pixel → NDC → pinhole → rotation pipeline.
	//
	// Parameters:
	//   - x, y: pointer position in render-surface pixels
	//   - width, height: render surface dimensions in pixels
	//
	// Returns:
	//   - mgl32.Vec3: unit world-space direction
	//   - bool: false when the render surface has zero area
	PickRay(x, y float64, width, height int) (mgl32.Vec3, bool)
}

var _ Camera = &cameraImpl{}

// CameraOption is a functional option for configuring a Camera.
type CameraOption func(c *cameraImpl)

// WithYaw sets the initial yaw in degrees.
//
// Parameters:
//   - deg: yaw in degrees
//
// Returns:
//   - CameraOption: option function to apply
func WithYaw(deg float32) CameraOption {
	return func(c *cameraImpl) {
		c.yawDeg = deg
	}
}

// WithPitch sets the initial pitch in degrees, clamped to [-89, 89].
//
// Parameters:
//   - deg: pitch in degrees
//
// Returns:
//   - CameraOption: option function to apply
func WithPitch(deg float32) CameraOption {
	return func(c *cameraImpl) {
		c.pitchDeg = mgl32.Clamp(deg, MinPitchDeg, MaxPitchDeg)
	}
}

// WithFov sets the initial vertical field of view in degrees, clamped to [30, 120].
//
// Parameters:
//   - deg: field of view in degrees
//
// Returns:
//   - CameraOption: option function to apply
func WithFov(deg float32) CameraOption {
	return func(c *cameraImpl) {
		c.fovYDeg = mgl32.Clamp(deg, MinFovDeg, MaxFovDeg)
	}
}

// NewCamera creates a Camera with the provided options.
// Defaults: yaw 0, pitch 0, field of view 90°.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the configured camera
func NewCamera(options ...CameraOption) Camera {
	c := &cameraImpl{
		mu:      &sync.Mutex{},
		fovYDeg: 90.0,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *cameraImpl) Yaw() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.yawDeg
}

func (c *cameraImpl) Pitch() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pitchDeg
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fovYDeg
}

func (c *cameraImpl) AddYaw(delta float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.yawDeg += delta
}

func (c *cameraImpl) AddPitch(delta float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pitchDeg = mgl32.Clamp(c.pitchDeg+delta, MinPitchDeg, MaxPitchDeg)
}

func (c *cameraImpl) AddFov(delta float32) float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fovYDeg = mgl32.Clamp(c.fovYDeg+delta, MinFovDeg, MaxFovDeg)
	return c.fovYDeg
}

func (c *cameraImpl) ViewProjection(width, height int) [16]float32 {
	c.mu.Lock()
	yaw, pitch, fov := c.yawDeg, c.pitchDeg, c.fovYDeg
	c.mu.Unlock()

	aspect := float32(1)
	if width > 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}

	var proj [16]float32
	common.Perspective(proj[:], mgl32.DegToRad(fov), aspect, nearPlane, farPlane)

	// The camera only rotates, so the view matrix is the inverse rotation:
	// undo pitch about X, then yaw about Y.
	view := mgl32.HomogRotate3DX(mgl32.DegToRad(-pitch)).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(-yaw)))

	var out [16]float32
	common.Mul4(out[:], proj[:], view[:])
	return out
}
