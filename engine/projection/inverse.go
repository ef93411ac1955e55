package projection

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// horizontalEps rejects rays whose horizontal magnitude is too small to
	// intersect a rotationally-symmetric surface away from the axis.
	horizontalEps = 1e-6

	// poleEps keeps the morph root search strictly inside (−π/2, π/2).
	poleEps = 1e-4

	// morphIterations is the fixed bisection count for the morph solve.
	// Resolution after 40 halvings of a π-wide interval is far below float32
	// precision, and the fixed count keeps per-pointer-event cost bounded and
	// deterministic.
	morphIterations = 40
)

// UVFromDirection resolves a normalized world-space direction to the texture
// coordinate of the point where the ray from the origin strikes the active
// surface. Returns ok = false when the direction cannot strike the surface:
// rays parallel to the axis of symmetry, latitudes outside the clamp band, or
// a morph solve with no sign change. Callers treat that as "no mapping" and
// drop the pointer event.
//
// Parameters:
//   - dir: unit direction in the surface's model space
//
// Returns:
//   - u: azimuthal texture coordinate in [0, 1)
//   - v: polar/height texture coordinate in [0, 1]
//   - ok: false when the ray does not resolve to a surface point
func (s *Surface) UVFromDirection(dir mgl32.Vec3) (u, v float32, ok bool) {
	p := s.params()
	switch p.mode {
	case ModeCylinder:
		return p.inverseCylinder(dir)
	case ModeMorph:
		return p.inverseMorph(dir)
	default:
		return p.inverseSphere(dir)
	}
}

// azimuthU converts atan2 output in [−π, π] to u in [0, 1).
func azimuthU(z, x float32) float32 {
	phi := math32.Atan2(z, x)
	if phi < 0 {
		phi += 2 * math32.Pi
	}
	return phi / (2 * math32.Pi)
}

func (p params) inverseSphere(dir mgl32.Vec3) (float32, float32, bool) {
	theta := math32.Asin(mgl32.Clamp(dir.Y(), -1, 1))
	u := azimuthU(dir.Z(), dir.X())

	if p.mode == ModeSphereClamp {
		if theta < -p.thetaMax || theta > p.thetaMax {
			return 0, 0, false
		}
		return u, 1.0 - (theta+p.thetaMax)/(2*p.thetaMax), true
	}
	return u, sphereV(theta), true
}

func (p params) inverseCylinder(dir mgl32.Vec3) (float32, float32, bool) {
	dxz := math32.Sqrt(dir.X()*dir.X() + dir.Z()*dir.Z())
	if dxz < horizontalEps {
		// Parallel to the cylinder axis, no intersection.
		return 0, 0, false
	}

	// Scale the ray so its horizontal component reaches the radius, then read
	// the height of the hit point.
	t := p.radius / dxz
	hitY := dir.Y() * t
	theta := hitY / p.radius
	if theta < -math32.Pi/2 || theta > math32.Pi/2 {
		return 0, 0, false
	}

	return azimuthU(dir.Z()*t, dir.X()*t), sphereV(theta), true
}

// inverseMorph solves for the latitude of the ray's hit point on the blended
// surface. The surface is the generating curve
//
//	r(θ) = (1−k) + k·cosθ,  y(θ) = (1−k)·θ + k·sinθ
//
// revolved around the vertical axis and scaled by the radius. A ray with
// vertical slope dy/dxz strikes it where dy·r(θ) − dxz·y(θ) = 0. There is no
// closed form for θ, and f is only guaranteed a single sign change (y/r is
// strictly increasing), so a fixed-count bisection is used rather than a
// derivative-based solver.
func (p params) inverseMorph(dir mgl32.Vec3) (float32, float32, bool) {
	dxz := math32.Sqrt(dir.X()*dir.X() + dir.Z()*dir.Z())
	if dxz < horizontalEps {
		return 0, 0, false
	}
	u := azimuthU(dir.Z(), dir.X())

	k := p.sphericity
	f := func(theta float32) float32 {
		r := (1-k)*1.0 + k*math32.Cos(theta)
		y := (1-k)*theta + k*math32.Sin(theta)
		return dir.Y()*r - dxz*y
	}

	lo := float32(-math32.Pi/2 + poleEps)
	hi := float32(math32.Pi/2 - poleEps)
	flo := f(lo)
	fhi := f(hi)
	if flo == 0 {
		return u, sphereV(lo), true
	}
	if fhi == 0 {
		return u, sphereV(hi), true
	}
	if (flo > 0 && fhi > 0) || (flo < 0 && fhi < 0) {
		// No sign change: the ray cannot graze this surface at this azimuth
		// under this blend.
		return 0, 0, false
	}

	for i := 0; i < morphIterations; i++ {
		mid := 0.5 * (lo + hi)
		fmid := f(mid)
		if (flo > 0 && fmid > 0) || (flo < 0 && fmid < 0) {
			lo = mid
			flo = fmid
		} else {
			hi = mid
		}
	}

	return u, sphereV(0.5 * (lo + hi)), true
}
