// Package projection implements the bidirectional mapping between the curved
// display surface and capture texture space. The forward direction evaluates a
// parametric surface coordinate to a model-space position and UV (consumed by
// the mesh generator); the inverse direction resolves a view ray back to the
// same UV (consumed by pointer picking). Both directions must agree for every
// direction they can both resolve; that contract is what keeps clicks landing
// on the right capture pixel regardless of camera or surface shape.
package projection

// Mode selects the active surface parameterization. Exactly one mode is
// active at a time; switching is instantaneous and stateless.
type Mode int

const (
	// ModeSphere maps the capture equirectangularly onto a full sphere.
	ModeSphere Mode = iota
	// ModeSphereClamp restricts the sphere to a latitude band of ±thetaMax,
	// removing polar-singularity artifacts while keeping the equirectangular
	// UV layout within the band.
	ModeSphereClamp
	// ModeCylinder maps the capture onto a cylinder whose height spans the
	// same vertical range as the sphere's latitude arc.
	ModeCylinder
	// ModeMorph blends per-vertex between the cylinder and sphere positions
	// by the surface's sphericity factor.
	ModeMorph
)

// String returns the configuration name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeSphere:
		return "sphere"
	case ModeSphereClamp:
		return "sphere_clamp"
	case ModeCylinder:
		return "cylinder"
	case ModeMorph:
		return "morph"
	default:
		return "sphere"
	}
}

// Next returns the following mode in the fixed cycle
// sphere → sphere_clamp → cylinder → morph → sphere.
func (m Mode) Next() Mode {
	switch m {
	case ModeSphere:
		return ModeSphereClamp
	case ModeSphereClamp:
		return ModeCylinder
	case ModeCylinder:
		return ModeMorph
	default:
		return ModeSphere
	}
}

// ParseMode maps a configuration string to a Mode.
// Unknown strings return (ModeSphere, false) so callers can log a diagnostic
// and continue with the default.
//
// Parameters:
//   - s: configuration value ("sphere", "sphere_clamp", "cylinder", "morph")
//
// Returns:
//   - Mode: the parsed mode, or ModeSphere when unrecognized
//   - bool: true if the string named a known mode
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "sphere":
		return ModeSphere, true
	case "sphere_clamp":
		return ModeSphereClamp, true
	case "cylinder":
		return ModeCylinder, true
	case "morph":
		return ModeMorph, true
	default:
		return ModeSphere, false
	}
}
