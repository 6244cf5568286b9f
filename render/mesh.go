package render

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/rtsviewer/asset"
)

// Mesh is triangle geometry in model space.
type Mesh struct {
	Positions []mgl32.Vec3
	// Indices lists triangle corners, three per triangle.
	Indices []uint32
}

// Triangles returns the number of complete triangles.
func (m *Mesh) Triangles() int {
	return len(m.Indices) / 3
}

// Edges returns each unique triangle edge once, as index pairs with the
// smaller index first.
func (m *Mesh) Edges() [][2]uint32 {
	seen := make(map[[2]uint32]struct{}, len(m.Indices))
	edges := make([][2]uint32, 0, len(m.Indices))
	for t := 0; t+2 < len(m.Indices); t += 3 {
		tri := [3]uint32{m.Indices[t], m.Indices[t+1], m.Indices[t+2]}
		for i := range 3 {
			a, b := tri[i], tri[(i+1)%3]
			if a > b {
				a, b = b, a
			}
			e := [2]uint32{a, b}
			if _, ok := seen[e]; ok {
				continue
			}
			seen[e] = struct{}{}
			edges = append(edges, e)
		}
	}
	return edges
}

// Mesh3d is the component drawing a Mesh at the entity's GlobalTransform.
type Mesh3d struct {
	Handle asset.Handle[Mesh]
}
