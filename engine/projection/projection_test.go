package projection

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const uvTolerance = 1e-3

// wrapDiff measures the distance between two azimuthal coordinates on the
// unit circle, so 0.999 and 0.001 compare as close.
func wrapDiff(a, b float32) float32 {
	d := float32(math.Abs(float64(a - b)))
	if d > 0.5 {
		d = 1 - d
	}
	return d
}

func normalize(v mgl32.Vec3) mgl32.Vec3 {
	return v.Mul(1 / v.Len())
}

func roundTrip(t *testing.T, s *Surface) {
	t.Helper()

	// Stay off the exact poles where the azimuth is undefined.
	rings := []float32{0.05, 0.2, 0.35, 0.5, 0.65, 0.8, 0.95}
	sectors := []float32{0, 0.1, 0.25, 0.4, 0.5, 0.6, 0.75, 0.9, 0.99}

	for _, ring := range rings {
		for _, sector := range sectors {
			vert := s.Eval(ring, sector)
			u, v, ok := s.UVFromDirection(normalize(vert.Position))
			if !ok {
				t.Fatalf("ring=%v sector=%v: inverse rejected its own forward point %+v", ring, sector, vert.Position)
			}
			if wrapDiff(u, vert.U) > uvTolerance {
				t.Fatalf("ring=%v sector=%v: u mismatch, forward %v inverse %v", ring, sector, vert.U, u)
			}
			if math.Abs(float64(v-vert.V)) > uvTolerance {
				t.Fatalf("ring=%v sector=%v: v mismatch, forward %v inverse %v", ring, sector, vert.V, v)
			}
		}
	}
}

func TestSphereRoundTrip(t *testing.T) {
	roundTrip(t, NewSurface(WithMode(ModeSphere)))
}

func TestSphereClampRoundTrip(t *testing.T) {
	roundTrip(t, NewSurface(WithMode(ModeSphereClamp), WithClampAngle(80)))
}

func TestCylinderRoundTrip(t *testing.T) {
	roundTrip(t, NewSurface(WithMode(ModeCylinder)))
}

func TestMorphRoundTrip(t *testing.T) {
	for _, k := range []float32{0.1, 0.25, 0.5, 0.75, 0.9} {
		roundTrip(t, NewSurface(WithMode(ModeMorph), WithSphericity(k)))
	}
}

func TestSphereKnownDirections(t *testing.T) {
	s := NewSurface(WithMode(ModeSphere))

	cases := []struct {
		name string
		dir  mgl32.Vec3
		u, v float32
	}{
		{"forward", mgl32.Vec3{0, 0, -1}, 0.75, 0.5},
		{"backward", mgl32.Vec3{0, 0, 1}, 0.25, 0.5},
		{"left", mgl32.Vec3{-1, 0, 0}, 0.5, 0.5},
		{"right", mgl32.Vec3{1, 0, 0}, 0, 0.5},
	}
	for _, tc := range cases {
		u, v, ok := s.UVFromDirection(tc.dir)
		if !ok {
			t.Fatalf("%s: rejected", tc.name)
		}
		if wrapDiff(u, tc.u) > uvTolerance || math.Abs(float64(v-tc.v)) > uvTolerance {
			t.Fatalf("%s: got (%v, %v), want (%v, %v)", tc.name, u, v, tc.u, tc.v)
		}
	}
}

func TestSpherePoles(t *testing.T) {
	s := NewSurface(WithMode(ModeSphere))

	_, v, ok := s.UVFromDirection(mgl32.Vec3{0, 1, 0})
	if !ok || math.Abs(float64(v)) > uvTolerance {
		t.Fatalf("north pole: ok=%v v=%v", ok, v)
	}
	_, v, ok = s.UVFromDirection(mgl32.Vec3{0, -1, 0})
	if !ok || math.Abs(float64(v-1)) > uvTolerance {
		t.Fatalf("south pole: ok=%v v=%v", ok, v)
	}
}

func TestSphereClampRejectsOutsideBand(t *testing.T) {
	s := NewSurface(WithMode(ModeSphereClamp), WithClampAngle(80))

	theta := float32(85 * math.Pi / 180)
	dir := mgl32.Vec3{float32(math.Cos(float64(theta))), float32(math.Sin(float64(theta))), 0}
	if _, _, ok := s.UVFromDirection(dir); ok {
		t.Fatal("direction above the clamp band was accepted")
	}

	theta = float32(75 * math.Pi / 180)
	dir = mgl32.Vec3{float32(math.Cos(float64(theta))), float32(math.Sin(float64(theta))), 0}
	if _, _, ok := s.UVFromDirection(dir); !ok {
		t.Fatal("direction inside the clamp band was rejected")
	}
}

func TestSphereClampVMonotonic(t *testing.T) {
	s := NewSurface(WithMode(ModeSphereClamp), WithClampAngle(70))

	prev := float32(2)
	for deg := -65; deg <= 65; deg += 5 {
		theta := float64(deg) * math.Pi / 180
		dir := mgl32.Vec3{float32(math.Cos(theta)), float32(math.Sin(theta)), 0}
		_, v, ok := s.UVFromDirection(dir)
		if !ok {
			t.Fatalf("theta=%d° rejected", deg)
		}
		if v >= prev {
			t.Fatalf("v not strictly decreasing with latitude: v(%d°)=%v, previous %v", deg, v, prev)
		}
		prev = v
	}
}

func TestCylinderKnownDirections(t *testing.T) {
	s := NewSurface(WithMode(ModeCylinder))

	u, v, ok := s.UVFromDirection(mgl32.Vec3{1, 0, 0})
	if !ok {
		t.Fatal("horizontal +X ray rejected")
	}
	if wrapDiff(u, 0) > uvTolerance || math.Abs(float64(v-0.5)) > uvTolerance {
		t.Fatalf("(1,0,0): got (%v, %v), want (0, 0.5)", u, v)
	}

	u, v, ok = s.UVFromDirection(mgl32.Vec3{0, 0, -1})
	if !ok {
		t.Fatal("horizontal -Z ray rejected")
	}
	if wrapDiff(u, 0.75) > uvTolerance || math.Abs(float64(v-0.5)) > uvTolerance {
		t.Fatalf("(0,0,-1): got (%v, %v), want (0.75, 0.5)", u, v)
	}
}

func TestCylinderRejectsAxialAndSteepRays(t *testing.T) {
	s := NewSurface(WithMode(ModeCylinder))

	if _, _, ok := s.UVFromDirection(mgl32.Vec3{0, 1, 0}); ok {
		t.Fatal("axial ray accepted")
	}
	// Slope far above the cylinder's vertical extent.
	if _, _, ok := s.UVFromDirection(normalize(mgl32.Vec3{0.1, 1, 0})); ok {
		t.Fatal("ray beyond the cylinder rim accepted")
	}
}

func TestMorphMatchesSphereAtFullSphericity(t *testing.T) {
	morph := NewSurface(WithMode(ModeMorph), WithSphericity(1))
	sphere := NewSurface(WithMode(ModeSphere))

	dirs := []mgl32.Vec3{
		normalize(mgl32.Vec3{0.3, 0.5, -1}),
		normalize(mgl32.Vec3{-1, -0.4, 0.2}),
		{0, 0, -1},
	}
	for _, dir := range dirs {
		mu, mv, mok := morph.UVFromDirection(dir)
		su, sv, sok := sphere.UVFromDirection(dir)
		if mok != sok {
			t.Fatalf("dir %v: acceptance differs, morph %v sphere %v", dir, mok, sok)
		}
		if wrapDiff(mu, su) > uvTolerance || math.Abs(float64(mv-sv)) > uvTolerance {
			t.Fatalf("dir %v: morph (%v, %v) vs sphere (%v, %v)", dir, mu, mv, su, sv)
		}
	}
}

func TestMorphMatchesCylinderAtZeroSphericity(t *testing.T) {
	morph := NewSurface(WithMode(ModeMorph), WithSphericity(0))
	cylinder := NewSurface(WithMode(ModeCylinder))

	dirs := []mgl32.Vec3{
		normalize(mgl32.Vec3{0.3, 0.5, -1}),
		normalize(mgl32.Vec3{-1, -0.4, 0.2}),
		{0, 0, -1},
	}
	for _, dir := range dirs {
		mu, mv, mok := morph.UVFromDirection(dir)
		cu, cv, cok := cylinder.UVFromDirection(dir)
		if mok != cok {
			t.Fatalf("dir %v: acceptance differs, morph %v cylinder %v", dir, mok, cok)
		}
		if wrapDiff(mu, cu) > uvTolerance || math.Abs(float64(mv-cv)) > uvTolerance {
			t.Fatalf("dir %v: morph (%v, %v) vs cylinder (%v, %v)", dir, mu, mv, cu, cv)
		}
	}
}

func TestMorphRejectsRayBeyondSurface(t *testing.T) {
	// At sphericity 0 the root condition degenerates to the cylinder's, so a
	// slope above π/2 produces no sign change in the bracket.
	s := NewSurface(WithMode(ModeMorph), WithSphericity(0))
	if _, _, ok := s.UVFromDirection(normalize(mgl32.Vec3{1, 2, 0})); ok {
		t.Fatal("steep ray accepted at sphericity 0")
	}
	if _, _, ok := s.UVFromDirection(mgl32.Vec3{0, 1, 0}); ok {
		t.Fatal("axial ray accepted")
	}
}

func TestEvalSeamCarriesUnwrappedU(t *testing.T) {
	s := NewSurface(WithMode(ModeSphere))
	if got := s.Eval(0.5, 1).U; got != 1 {
		t.Fatalf("seam U = %v, want 1", got)
	}
	if got := s.Eval(0.5, 0).U; got != 0 {
		t.Fatalf("start U = %v, want 0", got)
	}
}

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{
		"sphere":       ModeSphere,
		"sphere_clamp": ModeSphereClamp,
		"cylinder":     ModeCylinder,
		"morph":        ModeMorph,
	}
	for name, want := range cases {
		got, ok := ParseMode(name)
		if !ok || got != want {
			t.Fatalf("ParseMode(%q) = %v, %v", name, got, ok)
		}
	}
	if _, ok := ParseMode("donut"); ok {
		t.Fatal("ParseMode accepted an unknown mode")
	}
}

func TestCycleModeVisitsAllModes(t *testing.T) {
	s := NewSurface(WithMode(ModeSphere))
	seen := map[Mode]bool{s.Mode(): true}
	for i := 0; i < 3; i++ {
		seen[s.CycleMode()] = true
	}
	if len(seen) != 4 {
		t.Fatalf("cycle visited %d modes, want 4", len(seen))
	}
	if s.CycleMode() != ModeSphere {
		t.Fatal("cycle did not wrap back to sphere")
	}
}

func TestSurfaceSettersClamp(t *testing.T) {
	s := NewSurface()

	s.SetSphericity(2)
	if got := s.Sphericity(); got != 1 {
		t.Fatalf("sphericity clamped high: %v", got)
	}
	s.SetSphericity(-1)
	if got := s.Sphericity(); got != 0 {
		t.Fatalf("sphericity clamped low: %v", got)
	}
	if got := s.AddSphericity(0.35); math.Abs(float64(got-0.35)) > 1e-6 {
		t.Fatalf("AddSphericity returned %v", got)
	}

	s.SetClampAngleDeg(150)
	if got := s.ClampAngleDeg(); got >= 90 {
		t.Fatalf("clamp angle not limited below 90°: %v", got)
	}
	s.SetClampAngleDeg(-10)
	if got := s.ClampAngleDeg(); got <= 0 {
		t.Fatalf("clamp angle not limited above 0°: %v", got)
	}
}
