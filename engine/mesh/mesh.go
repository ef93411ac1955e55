// Package mesh tessellates the active projection surface into an indexed
// triangle list the renderer can upload directly. Pure function of the
// surface parameters and the requested resolution; no state is kept between
// frames, so a shape change is handled by simply regenerating.
package mesh

import (
	"github.com/spheredesk/spheredesk/engine/projection"
)

// Default tessellation resolution. Matches the visual density the projection
// modes were tuned against.
const (
	DefaultRings   = 64
	DefaultSectors = 128
)

// Vertex is the GPU-aligned representation of a single surface vertex.
// Matches the WGSL VertexInput struct layout exactly (20 bytes, position at
// offset 0, texcoord at offset 12).
type Vertex struct {
	Position [3]float32 // offset  0: vertex position in model space (12 bytes)
	TexCoord [2]float32 // offset 12: UV texture coordinate (8 bytes)
}

// Generate emits the surface tessellation for the given resolution: a
// (rings+1)×(sectors+1) vertex grid evaluated through the surface's forward
// parameterization, and a triangle index list with two triangles per grid
// cell. The seam column is duplicated (sector 0 and sector N are distinct
// vertices) so U interpolates monotonically across the last band.
//
// Parameters:
//   - surf: the surface to evaluate
//   - rings: latitude subdivisions (values < 1 fall back to DefaultRings)
//   - sectors: azimuth subdivisions (values < 3 fall back to DefaultSectors)
//
// Returns:
//   - []Vertex: the vertex grid, row-major by ring
//   - []uint32: triangle list indices into the vertex slice
func Generate(surf *projection.Surface, rings, sectors int) ([]Vertex, []uint32) {
	if rings < 1 {
		rings = DefaultRings
	}
	if sectors < 3 {
		sectors = DefaultSectors
	}

	vertices := make([]Vertex, 0, (rings+1)*(sectors+1))
	for r := 0; r <= rings; r++ {
		ring := float32(r) / float32(rings)
		for s := 0; s <= sectors; s++ {
			sector := float32(s) / float32(sectors)
			v := surf.Eval(ring, sector)
			vertices = append(vertices, Vertex{
				Position: [3]float32{v.Position.X(), v.Position.Y(), v.Position.Z()},
				TexCoord: [2]float32{v.U, v.V},
			})
		}
	}

	stride := uint32(sectors + 1)
	indices := make([]uint32, 0, rings*sectors*6)
	for r := 0; r < rings; r++ {
		for s := 0; s < sectors; s++ {
			i0 := uint32(r)*stride + uint32(s)
			i1 := i0 + 1
			i2 := i0 + stride
			i3 := i2 + 1
			indices = append(indices, i0, i2, i1, i1, i2, i3)
		}
	}

	return vertices, indices
}
