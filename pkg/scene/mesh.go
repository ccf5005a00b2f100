package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Face is one polygon of a mesh. Verts index into the mesh vertex list,
// wound counter-clockwise seen from outside. UVs align with Verts
// one-to-one when present; nil means the face carries no UV data.
// Material indexes the mesh material slot list; -1 means no material.
type Face struct {
	Verts    []int
	UVs      []mgl64.Vec2
	Material int
	Group    string
}

// MeshData is polygonal geometry in object-local coordinates. Materials
// maps slot indices to registered material names.
type MeshData struct {
	Vertices  []mgl64.Vec3
	Faces     []Face
	Materials []string
}

// MaterialOf returns the material name for a face, or "" when the face
// has no valid slot.
func (m *MeshData) MaterialOf(f Face) string {
	if f.Material < 0 || f.Material >= len(m.Materials) {
		return ""
	}
	return m.Materials[f.Material]
}

// Transformed returns a copy with the transform baked into the vertices.
// A mirroring transform (negative determinant) reverses every face
// winding so normals keep pointing out of the solid.
func (m *MeshData) Transformed(t mgl64.Mat4) *MeshData {
	out := &MeshData{
		Vertices:  make([]mgl64.Vec3, len(m.Vertices)),
		Faces:     make([]Face, len(m.Faces)),
		Materials: append([]string(nil), m.Materials...),
	}
	for i, v := range m.Vertices {
		out.Vertices[i] = TransformPoint(t, v)
	}
	mirror := t.Det() < 0
	for i, f := range m.Faces {
		nf := Face{
			Verts:    append([]int(nil), f.Verts...),
			Material: f.Material,
			Group:    f.Group,
		}
		if f.UVs != nil {
			nf.UVs = append([]mgl64.Vec2(nil), f.UVs...)
		}
		if mirror {
			reverseInts(nf.Verts)
			reverseVec2s(nf.UVs)
		}
		out.Faces[i] = nf
	}
	return out
}

// Snapped returns a copy with every vertex rounded to the nearest
// multiple of grid. A non-positive grid returns the mesh unchanged.
func (m *MeshData) Snapped(grid float64) *MeshData {
	if grid <= 0 {
		return m
	}
	out := &MeshData{
		Vertices:  make([]mgl64.Vec3, len(m.Vertices)),
		Faces:     m.Faces,
		Materials: m.Materials,
	}
	for i, v := range m.Vertices {
		out.Vertices[i] = SnapPoint(v, grid)
	}
	return out
}

// SnapPoint rounds a position to the nearest grid multiple per axis.
func SnapPoint(p mgl64.Vec3, grid float64) mgl64.Vec3 {
	return mgl64.Vec3{
		snap(p.X(), grid),
		snap(p.Y(), grid),
		snap(p.Z(), grid),
	}
}

// snap rounds half-to-even, so a vertex exactly between two grid lines
// lands on the even multiple instead of drifting outward.
func snap(v, grid float64) float64 {
	return math.RoundToEven(v/grid) * grid
}

// FaceVerts resolves a face's vertex positions in winding order.
func (m *MeshData) FaceVerts(f Face) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(f.Verts))
	for i, vi := range f.Verts {
		out[i] = m.Vertices[vi]
	}
	return out
}

func reverseInts(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func reverseVec2s(s []mgl64.Vec2) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
