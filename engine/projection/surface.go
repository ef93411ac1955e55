package projection

import (
	"sync"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultRadius is the surface radius shared by every projection mode so that
// all four projections cover the same angular-to-linear V range and remain
// visually comparable. Used both for rendering and for ray mapping.
const DefaultRadius float32 = 5.0

// Clamp half-angle bounds in degrees. Values outside are clamped on write.
const (
	minClampAngleDeg = 1.0
	maxClampAngleDeg = 89.9
)

// Surface holds the mutable shape state shared by the mesh generator and the
// inverse ray mapping: the active projection mode, the cylinder↔sphere blend
// factor, and the clamped-sphere half-angle. All numeric writes clamp to the
// valid range rather than failing. Safe for concurrent use; the tick loop is
// the single writer, the render and pointer paths read.
type Surface struct {
	mu sync.Mutex

	mode       Mode
	sphericity float32 // 0 = cylinder-like, 1 = sphere-like
	thetaMax   float32 // clamp half-angle in radians
	radius     float32
}

// SurfaceOption is a functional option for configuring a Surface.
// Use the With* functions to create options.
type SurfaceOption func(s *Surface)

// WithMode sets the initial projection mode.
//
// Parameters:
//   - m: the projection mode
//
// Returns:
//   - SurfaceOption: option function to apply
func WithMode(m Mode) SurfaceOption {
	return func(s *Surface) {
		s.mode = m
	}
}

// WithSphericity sets the initial morph blend factor, clamped to [0, 1].
//
// Parameters:
//   - v: blend factor (0 = cylinder-like, 1 = sphere-like)
//
// Returns:
//   - SurfaceOption: option function to apply
func WithSphericity(v float32) SurfaceOption {
	return func(s *Surface) {
		s.sphericity = mgl32.Clamp(v, 0, 1)
	}
}

// WithClampAngle sets the clamped-sphere half-angle from a value in degrees,
// clamped to [1, 89.9].
//
// Parameters:
//   - degrees: half-angle in degrees
//
// Returns:
//   - SurfaceOption: option function to apply
func WithClampAngle(degrees float32) SurfaceOption {
	return func(s *Surface) {
		s.thetaMax = mgl32.DegToRad(mgl32.Clamp(degrees, minClampAngleDeg, maxClampAngleDeg))
	}
}

// WithRadius sets the surface radius. Non-positive values are ignored.
//
// Parameters:
//   - r: the radius
//
// Returns:
//   - SurfaceOption: option function to apply
func WithRadius(r float32) SurfaceOption {
	return func(s *Surface) {
		if r > 0 {
			s.radius = r
		}
	}
}

// NewSurface creates a Surface with the provided options.
// Defaults: sphere mode, sphericity 1, clamp half-angle 80°, radius DefaultRadius.
//
// Parameters:
//   - options: functional options to configure the surface
//
// Returns:
//   - *Surface: the configured surface
func NewSurface(options ...SurfaceOption) *Surface {
	s := &Surface{
		mode:       ModeSphere,
		sphericity: 1.0,
		thetaMax:   mgl32.DegToRad(80.0),
		radius:     DefaultRadius,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Mode returns the active projection mode.
func (s *Surface) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetMode switches the active projection mode.
func (s *Surface) SetMode(m Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = m
}

// CycleMode advances to the next mode in the fixed cycle and returns it.
func (s *Surface) CycleMode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = s.mode.Next()
	return s.mode
}

// Sphericity returns the morph blend factor in [0, 1].
func (s *Surface) Sphericity() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sphericity
}

// SetSphericity sets the morph blend factor, clamped to [0, 1].
func (s *Surface) SetSphericity(v float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sphericity = mgl32.Clamp(v, 0, 1)
}

// AddSphericity adjusts the blend factor by delta, clamps, and returns the
// resulting value.
func (s *Surface) AddSphericity(delta float32) float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sphericity = mgl32.Clamp(s.sphericity+delta, 0, 1)
	return s.sphericity
}

// ThetaMax returns the clamp half-angle in radians.
func (s *Surface) ThetaMax() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.thetaMax
}

// ClampAngleDeg returns the clamp half-angle in degrees.
func (s *Surface) ClampAngleDeg() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return mgl32.RadToDeg(s.thetaMax)
}

// SetClampAngleDeg sets the clamp half-angle from degrees, clamped to [1, 89.9].
func (s *Surface) SetClampAngleDeg(degrees float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.thetaMax = mgl32.DegToRad(mgl32.Clamp(degrees, minClampAngleDeg, maxClampAngleDeg))
}

// Radius returns the surface radius.
func (s *Surface) Radius() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.radius
}

// params is an immutable snapshot of the surface state, taken once per
// operation so the per-vertex and per-ray math runs lock-free.
type params struct {
	mode       Mode
	sphericity float32
	thetaMax   float32
	radius     float32
}

func (s *Surface) params() params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return params{
		mode:       s.mode,
		sphericity: s.sphericity,
		thetaMax:   clampThetaMax(s.thetaMax),
		radius:     s.radius,
	}
}

// clampThetaMax keeps the half-angle strictly inside (0, π/2) so the clamped
// V denominator never reaches zero.
func clampThetaMax(t float32) float32 {
	return mgl32.Clamp(t, 0.01, math32.Pi/2-0.001)
}
