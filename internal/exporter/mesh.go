package exporter

import (
	"github.com/Faultbox/mapforge/pkg/geometry"
	"github.com/Faultbox/mapforge/pkg/scene"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// Corner angles below spikeEpsilon mark zero-area slivers; the face
	// is dropped. Matches rounding the angle to 4 decimals.
	spikeEpsilon = 5e-5
	// Corner angles within straightEpsilon of π mark a vertex sitting in
	// the middle of a straight edge. Matches rounding to 5 decimals.
	straightEpsilon = 5e-6
)

// hasSpike reports whether any corner of the face has effectively zero
// area.
func hasSpike(verts []mgl64.Vec3) bool {
	n := len(verts)
	if n < 3 {
		return true
	}
	for i := range verts {
		if geometry.CornerAngle(verts[(i+n-1)%n], verts[i], verts[(i+1)%n]) < spikeEpsilon {
			return true
		}
	}
	return false
}

// splitStraightCorners triangulates faces carrying a vertex in the
// middle of a straight edge, so neighbouring brushes cannot crack open
// along the shared edge.
func splitStraightCorners(m *scene.MeshData) *scene.MeshData {
	out := &scene.MeshData{Vertices: m.Vertices, Materials: m.Materials}
	for _, f := range m.Faces {
		verts := m.FaceVerts(f)
		if len(verts) > 3 && geometry.HasStraightCorner(verts, straightEpsilon) {
			out.Faces = append(out.Faces, triangulateFace(m, f)...)
		} else {
			out.Faces = append(out.Faces, f)
		}
	}
	return out
}

// splitIrregular triangulates concave and non-planar faces. Everything
// that comes out supports a single plane and winds convexly, which the
// per-face brush modes require.
func splitIrregular(m *scene.MeshData) *scene.MeshData {
	out := &scene.MeshData{Vertices: m.Vertices, Materials: m.Materials}
	for _, f := range m.Faces {
		verts := m.FaceVerts(f)
		if len(verts) <= 3 {
			out.Faces = append(out.Faces, f)
			continue
		}
		pl, err := geometry.PlaneFromFace(verts)
		if err != nil {
			// Keep it; the sliver filter drops it at assembly.
			out.Faces = append(out.Faces, f)
			continue
		}
		if geometry.IsPlanar(verts, pl, geometry.PlanarTolerance) && geometry.IsConvex(verts, pl.Normal) {
			out.Faces = append(out.Faces, f)
			continue
		}
		out.Faces = append(out.Faces, triangulateFace(m, f)...)
	}
	return out
}

// triangulateFace splits one face into triangles, carrying UVs and the
// material and group assignments through by vertex.
func triangulateFace(m *scene.MeshData, f scene.Face) []scene.Face {
	verts := m.FaceVerts(f)
	normal := geometry.NewellNormal(verts)
	if normal.Dot(normal) == 0 {
		return []scene.Face{f}
	}
	tris := geometry.Triangulate(verts, normal.Normalize())
	out := make([]scene.Face, 0, len(tris))
	for _, tri := range tris {
		nf := scene.Face{
			Verts:    []int{f.Verts[tri[0]], f.Verts[tri[1]], f.Verts[tri[2]]},
			Material: f.Material,
			Group:    f.Group,
		}
		if f.UVs != nil {
			nf.UVs = []mgl64.Vec2{f.UVs[tri[0]], f.UVs[tri[1]], f.UVs[tri[2]]}
		}
		out = append(out, nf)
	}
	return out
}
