package projection

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is one evaluated surface sample: a model-space position and the
// texture coordinate that belongs to it.
type Vertex struct {
	Position mgl32.Vec3
	U, V     float32
}

// Eval evaluates the forward parameterization of the active mode.
// ring ∈ [0, 1] maps to the latitude-like angle θ of the mode's band, sector
// ∈ [0, 1] maps to the azimuth φ = 2π·sector. The returned U is sector itself
// (φ/2π, deliberately not wrapped, so the seam vertex at sector = 1 carries
// U = 1 and the last sector band interpolates forward instead of backwards).
//
// Parameters:
//   - ring: latitude parameter in [0, 1]
//   - sector: azimuth parameter in [0, 1]
//
// Returns:
//   - Vertex: the evaluated position and UV
func (s *Surface) Eval(ring, sector float32) Vertex {
	return s.params().eval(ring, sector)
}

func (p params) eval(ring, sector float32) Vertex {
	phi := sector * 2 * math32.Pi
	switch p.mode {
	case ModeSphereClamp:
		return p.evalSphereClamp(ring, phi, sector)
	case ModeCylinder:
		return p.evalCylinder(ring, phi, sector)
	case ModeMorph:
		return p.evalMorph(ring, phi, sector)
	default:
		return p.evalSphere(ring, phi, sector)
	}
}

// spherePoint is the full-sphere position for (θ, φ).
func (p params) spherePoint(theta, phi float32) mgl32.Vec3 {
	return mgl32.Vec3{
		p.radius * math32.Cos(theta) * math32.Cos(phi),
		p.radius * math32.Sin(theta),
		p.radius * math32.Cos(theta) * math32.Sin(phi),
	}
}

// cylinderPoint maps θ linearly to height so the cylinder spans the same
// vertical range as the sphere's latitude arc: y = R·θ.
func (p params) cylinderPoint(theta, phi float32) mgl32.Vec3 {
	return mgl32.Vec3{
		p.radius * math32.Cos(phi),
		p.radius * theta,
		p.radius * math32.Sin(phi),
	}
}

// sphereV is the equirectangular V for θ ∈ [−π/2, π/2], top-to-bottom.
func sphereV(theta float32) float32 {
	return 1.0 - (theta+math32.Pi/2)/math32.Pi
}

func (p params) evalSphere(ring, phi, u float32) Vertex {
	theta := ring*math32.Pi - math32.Pi/2
	return Vertex{Position: p.spherePoint(theta, phi), U: u, V: sphereV(theta)}
}

func (p params) evalSphereClamp(ring, phi, u float32) Vertex {
	theta := -p.thetaMax + ring*(2*p.thetaMax)
	return Vertex{
		Position: p.spherePoint(theta, phi),
		U:        u,
		V:        1.0 - (theta+p.thetaMax)/(2*p.thetaMax),
	}
}

func (p params) evalCylinder(ring, phi, u float32) Vertex {
	theta := ring*math32.Pi - math32.Pi/2
	return Vertex{Position: p.cylinderPoint(theta, phi), U: u, V: sphereV(theta)}
}

// evalMorph lerps the cylinder and sphere positions computed from the same
// (θ, φ) pair; UV comes from the sphere formulas so the texture deforms
// continuously with the shape.
func (p params) evalMorph(ring, phi, u float32) Vertex {
	theta := ring*math32.Pi - math32.Pi/2
	sp := p.spherePoint(theta, phi)
	cp := p.cylinderPoint(theta, phi)
	k := p.sphericity
	return Vertex{
		Position: cp.Mul(1 - k).Add(sp.Mul(k)),
		U:        u,
		V:        sphereV(theta),
	}
}
