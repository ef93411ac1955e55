package mesh

import (
	"testing"

	"github.com/spheredesk/spheredesk/engine/projection"
)

func TestGenerateCounts(t *testing.T) {
	surf := projection.NewSurface()
	rings, sectors := 8, 16

	vertices, indices := Generate(surf, rings, sectors)
	if got, want := len(vertices), (rings+1)*(sectors+1); got != want {
		t.Fatalf("vertex count %d, want %d", got, want)
	}
	if got, want := len(indices), rings*sectors*6; got != want {
		t.Fatalf("index count %d, want %d", got, want)
	}
}

func TestGenerateIndexBounds(t *testing.T) {
	surf := projection.NewSurface(projection.WithMode(projection.ModeCylinder))
	vertices, indices := Generate(surf, 4, 6)

	for i, idx := range indices {
		if int(idx) >= len(vertices) {
			t.Fatalf("index %d at position %d out of bounds (%d vertices)", idx, i, len(vertices))
		}
	}
}

func TestGenerateSeamColumn(t *testing.T) {
	surf := projection.NewSurface()
	rings, sectors := 4, 8
	vertices, _ := Generate(surf, rings, sectors)

	stride := sectors + 1
	for r := 0; r <= rings; r++ {
		first := vertices[r*stride]
		last := vertices[r*stride+sectors]

		if first.TexCoord[0] != 0 {
			t.Fatalf("ring %d: first column U = %v, want 0", r, first.TexCoord[0])
		}
		if last.TexCoord[0] != 1 {
			t.Fatalf("ring %d: seam column U = %v, want 1", r, last.TexCoord[0])
		}
		// The duplicated seam vertex sits at the same position as column 0.
		for i := 0; i < 3; i++ {
			d := first.Position[i] - last.Position[i]
			if d > 1e-4 || d < -1e-4 {
				t.Fatalf("ring %d: seam position differs from column 0 on axis %d: %v vs %v",
					r, i, first.Position, last.Position)
			}
		}
	}
}

func TestGenerateFallsBackToDefaults(t *testing.T) {
	surf := projection.NewSurface()
	vertices, _ := Generate(surf, 0, 0)
	if got, want := len(vertices), (DefaultRings+1)*(DefaultSectors+1); got != want {
		t.Fatalf("vertex count %d, want default resolution %d", got, want)
	}
}
