package exporter

import (
	"fmt"

	"github.com/Faultbox/mapforge/pkg/geometry"
	"github.com/Faultbox/mapforge/pkg/mapfile"
	"github.com/Faultbox/mapforge/pkg/scene"
	"github.com/go-gl/mathgl/mgl64"
)

// faceSurface builds the serializable surface of one normalized face:
// the supporting plane, a maximally spread point triple for the
// three-point form, the texture basis and the resolved texture name.
func (e *exportRun) faceSurface(obj *scene.Object, m *scene.MeshData, f scene.Face) (mapfile.Surface, error) {
	verts := m.FaceVerts(f)
	pl, err := geometry.PlaneFromFace(verts)
	if err != nil {
		return mapfile.Surface{}, err
	}
	pts, err := geometry.PlanePoints(verts, pl.Normal)
	if err != nil {
		return mapfile.Surface{}, err
	}
	tex, w, h := e.texture(m, f)
	return mapfile.Surface{
		Points:  pts,
		Plane:   pl,
		Texture: tex,
		Basis:   e.faceBasis(verts, f.UVs, pl.Normal, w, h),
		Detail:  e.isDetail(obj, f.Group),
	}, nil
}

// faceBasis projects the first three winding corners and their UVs into
// the active convention. Faces without UV data take the neutral basis.
func (e *exportRun) faceBasis(verts []mgl64.Vec3, uvs []mgl64.Vec2, normal mgl64.Vec3, w, h int) geometry.TexBasis {
	if len(verts) < 3 || len(uvs) < 3 {
		return geometry.DummyBasis(e.conv, w, h)
	}
	return geometry.ProjectBasis(e.conv,
		[3]mgl64.Vec3{verts[0], verts[1], verts[2]},
		[3]mgl64.Vec2{uvs[0], uvs[1], uvs[2]},
		normal, w, h, e.cfg.Texturing.Precision)
}

// assembleBrush suppresses duplicate planes and verifies the surfaces
// bound a convex solid. Coincident opposing planes and brushes that end
// up with fewer than four planes are rejected.
func assembleBrush(surfaces []mapfile.Surface) (mapfile.Brush, error) {
	var b mapfile.Brush
	for _, s := range surfaces {
		dup := false
		for i := range b.Surfaces {
			if b.Surfaces[i].Plane.Same(s.Plane) {
				dup = true
				break
			}
			if b.Surfaces[i].Plane.Opposes(s.Plane) {
				return mapfile.Brush{}, ErrEmptyBrush
			}
		}
		if !dup {
			b.Surfaces = append(b.Surfaces, s)
		}
	}
	if len(b.Surfaces) < 4 {
		return mapfile.Brush{}, fmt.Errorf("%w: %d planes", ErrOpenBrush, len(b.Surfaces))
	}
	if err := checkConvex(b.Surfaces); err != nil {
		return mapfile.Brush{}, err
	}
	return b, nil
}

// checkConvex verifies that every surface's defining points lie on or
// behind every other plane. The tolerance scales with the brush extent.
func checkConvex(surfaces []mapfile.Surface) error {
	extent := 0.0
	for i := range surfaces {
		for _, p := range surfaces[i].Points {
			for _, c := range p {
				if c < 0 {
					c = -c
				}
				if c > extent {
					extent = c
				}
			}
		}
	}
	tol := 1e-6 * (1 + extent)

	for i := range surfaces {
		for j := range surfaces {
			if i == j {
				continue
			}
			for _, p := range surfaces[j].Points {
				if surfaces[i].Plane.DistanceTo(p) > tol {
					return ErrNotConvex
				}
			}
		}
	}
	return nil
}

// hullBrush wraps the object's vertex cloud in a single convex brush.
// Authored faces lying on a hull plane donate their texture and UVs;
// hull planes no authored face touches take the fallback texture with
// the neutral basis.
func (e *exportRun) hullBrush(obj *scene.Object, m *scene.MeshData) ([]mapfile.Brush, error) {
	facets, err := geometry.ConvexHull(m.Vertices)
	if err != nil {
		return nil, err
	}

	// Group facets by supporting plane, in first-seen order. The grouping
	// is what merges coplanar hull triangles into one brush plane.
	var planes []geometry.Plane
	var members [][]int
	var seen []map[int]bool
	for _, facet := range facets {
		pl, perr := geometry.PlaneFromFace([]mgl64.Vec3{
			m.Vertices[facet[0]], m.Vertices[facet[1]], m.Vertices[facet[2]],
		})
		if perr != nil {
			continue
		}
		idx := -1
		for i := range planes {
			if planes[i].Same(pl) {
				idx = i
				break
			}
		}
		if idx < 0 {
			planes = append(planes, pl)
			members = append(members, nil)
			seen = append(seen, make(map[int]bool))
			idx = len(planes) - 1
		}
		for _, vi := range facet {
			if !seen[idx][vi] {
				seen[idx][vi] = true
				members[idx] = append(members[idx], vi)
			}
		}
	}

	donors := e.donorFaces(m)
	fw, fh := e.cfg.Texturing.FallbackWidth, e.cfg.Texturing.FallbackHeight

	surfaces := make([]mapfile.Surface, 0, len(planes))
	for i, pl := range planes {
		verts := make([]mgl64.Vec3, len(members[i]))
		for j, vi := range members[i] {
			verts[j] = m.Vertices[vi]
		}
		pts, perr := geometry.PlanePoints(verts, pl.Normal)
		if perr != nil {
			continue
		}

		s := mapfile.Surface{
			Points:  pts,
			Plane:   pl,
			Texture: e.cfg.Texturing.Fallback,
			Basis:   geometry.DummyBasis(e.conv, fw, fh),
			Detail:  e.isDetail(obj, ""),
		}
		for _, d := range donors {
			if !pl.Same(d.plane) {
				continue
			}
			dverts := m.FaceVerts(d.face)
			tex, w, h := e.texture(m, d.face)
			s.Texture = tex
			s.Basis = e.faceBasis(dverts, d.face.UVs, d.plane.Normal, w, h)
			s.Detail = e.isDetail(obj, d.face.Group)
			break
		}
		surfaces = append(surfaces, s)
	}

	b, err := assembleBrush(surfaces)
	if err != nil {
		return nil, err
	}
	return []mapfile.Brush{b}, nil
}

type donorFace struct {
	face  scene.Face
	plane geometry.Plane
}

// donorFaces pairs each authored face with its supporting plane, for
// texture donation onto matching hull planes.
func (e *exportRun) donorFaces(m *scene.MeshData) []donorFace {
	out := make([]donorFace, 0, len(m.Faces))
	for _, f := range m.Faces {
		pl, err := geometry.PlaneFromFace(m.FaceVerts(f))
		if err != nil {
			continue
		}
		out = append(out, donorFace{face: f, plane: pl})
	}
	return out
}

// pyramidBrushes builds one thin brush per face: the face itself plus
// side planes meeting at an apex poked Depth units behind it. Sliver
// faces are dropped and reported once per object.
func (e *exportRun) pyramidBrushes(obj *scene.Object, m *scene.MeshData) ([]mapfile.Brush, error) {
	var out []mapfile.Brush
	skipped := 0
	for _, f := range m.Faces {
		verts := m.FaceVerts(f)
		if hasSpike(verts) {
			skipped++
			continue
		}
		b, err := e.pyramidBrush(obj, m, f, verts)
		if err != nil {
			skipped++
			continue
		}
		out = append(out, b)
	}
	if len(out) == 0 {
		return nil, ErrNoGeometry
	}
	if skipped > 0 {
		e.warn(obj.Name, fmt.Errorf("skipped %d degenerate faces", skipped))
	}
	return out, nil
}

func (e *exportRun) pyramidBrush(obj *scene.Object, m *scene.MeshData, f scene.Face, verts []mgl64.Vec3) (mapfile.Brush, error) {
	top, err := e.faceSurface(obj, m, f)
	if err != nil {
		return mapfile.Brush{}, err
	}

	var centroid mgl64.Vec3
	for _, v := range verts {
		centroid = centroid.Add(v)
	}
	centroid = centroid.Mul(1 / float64(len(verts)))
	apex := centroid.Sub(top.Plane.Normal.Mul(e.cfg.Geometry.Depth))
	if g := e.cfg.Geometry.Grid; g > 0 {
		apex = scene.SnapPoint(apex, g)
	}

	fw, fh := e.cfg.Texturing.FallbackWidth, e.cfg.Texturing.FallbackHeight
	surfaces := []mapfile.Surface{top}
	for i := range verts {
		// Side triangle wound outward: the face edge reversed, then the
		// apex.
		side := []mgl64.Vec3{verts[(i+1)%len(verts)], verts[i], apex}
		pl, perr := geometry.PlaneFromFace(side)
		if perr != nil {
			return mapfile.Brush{}, perr
		}
		pts, perr := geometry.PlanePoints(side, pl.Normal)
		if perr != nil {
			return mapfile.Brush{}, perr
		}
		surfaces = append(surfaces, mapfile.Surface{
			Points:  pts,
			Plane:   pl,
			Texture: e.cfg.Texturing.Fallback,
			Basis:   geometry.DummyBasis(e.conv, fw, fh),
			Detail:  top.Detail,
		})
	}
	return assembleBrush(surfaces)
}

// asisBrush treats the object's faces as the finished boundary of one
// convex solid. The planes must close a convex volume or the object is
// rejected.
func (e *exportRun) asisBrush(obj *scene.Object, m *scene.MeshData) ([]mapfile.Brush, error) {
	var surfaces []mapfile.Surface
	for _, f := range m.Faces {
		verts := m.FaceVerts(f)
		if hasSpike(verts) {
			continue
		}
		s, err := e.faceSurface(obj, m, f)
		if err != nil {
			continue
		}
		surfaces = append(surfaces, s)
	}
	if len(surfaces) == 0 {
		return nil, ErrNoGeometry
	}
	b, err := assembleBrush(surfaces)
	if err != nil {
		return nil, err
	}
	return []mapfile.Brush{b}, nil
}
