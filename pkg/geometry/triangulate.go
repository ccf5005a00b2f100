package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tchayen/triangolatte"
)

// PlanarTolerance is the maximum distance a vertex may sit off its face
// plane before the face counts as non-planar and is triangulated.
const PlanarTolerance = 1e-6

// PlaneBasis returns two orthonormal in-plane axes for a unit normal. The
// seed axis is the world axis least aligned with the normal, so the basis
// is deterministic for a given plane.
func PlaneBasis(normal mgl64.Vec3) (u, v mgl64.Vec3) {
	seed := mgl64.Vec3{1, 0, 0}
	ax, ay, az := math.Abs(normal.X()), math.Abs(normal.Y()), math.Abs(normal.Z())
	if ay <= ax && ay <= az {
		seed = mgl64.Vec3{0, 1, 0}
	} else if az <= ax && az <= ay {
		seed = mgl64.Vec3{0, 0, 1}
	}
	u = seed.Cross(normal).Normalize()
	v = normal.Cross(u)
	return u, v
}

// Project2D maps face vertices into the (u,v) plane basis of the given
// normal. The winding keeps its orientation: a counter-clockwise face
// stays counter-clockwise in 2-D.
func Project2D(verts []mgl64.Vec3, normal mgl64.Vec3) []mgl64.Vec2 {
	u, v := PlaneBasis(normal)
	out := make([]mgl64.Vec2, len(verts))
	for i, p := range verts {
		out[i] = mgl64.Vec2{p.Dot(u), p.Dot(v)}
	}
	return out
}

// CornerAngle returns the interior angle at vertex v between edges toward
// prev and next, in [0,π]. Angles near zero mark zero-area spikes; angles
// near π mark collinear mid-edge vertices (T-junction points).
func CornerAngle(prev, v, next mgl64.Vec3) float64 {
	a := prev.Sub(v)
	b := next.Sub(v)
	la, lb := a.Len(), b.Len()
	if la == 0 || lb == 0 {
		return 0
	}
	cos := a.Dot(b) / (la * lb)
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos)
}

// IsPlanar reports whether every vertex lies within tol of the face plane.
func IsPlanar(verts []mgl64.Vec3, plane Plane, tol float64) bool {
	for _, p := range verts {
		d := plane.DistanceTo(p)
		if d > tol || d < -tol {
			return false
		}
	}
	return true
}

// IsConvex reports whether the polygon winds convexly around its normal.
// Collinear vertices are allowed; reflex corners are not.
func IsConvex(verts []mgl64.Vec3, normal mgl64.Vec3) bool {
	n := len(verts)
	for i := 0; i < n; i++ {
		a := verts[i]
		b := verts[(i+1)%n]
		c := verts[(i+2)%n]
		cross := b.Sub(a).Cross(c.Sub(b))
		if cross.Dot(normal) < -areaEpsilon {
			return false
		}
	}
	return true
}

// HasStraightCorner reports whether any interior angle is within eps of π,
// i.e. a vertex splits an otherwise straight edge. Such faces are
// triangulated when T-junction splitting is enabled so neighbouring brushes
// cannot crack along the shared edge.
func HasStraightCorner(verts []mgl64.Vec3, eps float64) bool {
	n := len(verts)
	for i := 0; i < n; i++ {
		ang := CornerAngle(verts[(i+n-1)%n], verts[i], verts[(i+1)%n])
		if math.Abs(ang-math.Pi) < eps {
			return true
		}
	}
	return false
}

// Triangulate splits a planar polygon into triangles and returns index
// triples into verts. Ear clipping (triangolatte) does the work; the
// outline is retried reversed because the library only accepts one
// winding direction, and every result is validated by area before it is
// trusted. When both passes fail, a fan from a strictly convex corner
// covers the convex remainder cases the normalizer feeds through here.
func Triangulate(verts []mgl64.Vec3, normal mgl64.Vec3) [][3]int {
	if len(verts) == 3 {
		return [][3]int{{0, 1, 2}}
	}
	flat := Project2D(verts, normal)

	if tris, ok := earClip(flat, verts, normal, false); ok {
		return tris
	}
	if tris, ok := earClip(flat, verts, normal, true); ok {
		return tris
	}
	return fan(flat, len(verts))
}

// earClip runs triangolatte over the projected outline and maps the
// returned coordinates back to vertex indices. A triangulation is
// accepted only when it uses all vertices, contains no zero-area
// triangles and its triangles add up to the polygon area. The area check
// rejects the overlapping output a wrong-winding pass produces.
func earClip(flat []mgl64.Vec2, verts []mgl64.Vec3, normal mgl64.Vec3, reversed bool) ([][3]int, bool) {
	n := len(flat)
	points := make([]triangolatte.Point, n)
	index := make(map[triangolatte.Point]int, n)
	for i, p := range flat {
		pt := triangolatte.Point{X: p.X(), Y: p.Y()}
		if _, dup := index[pt]; dup {
			return nil, false
		}
		index[pt] = i
		if reversed {
			points[n-1-i] = pt
		} else {
			points[i] = pt
		}
	}

	coords, err := triangolatte.Polygon(points)
	if err != nil || len(coords) != 6*(n-2) {
		return nil, false
	}

	tris := make([][3]int, 0, n-2)
	total := 0.0
	for i := 0; i+5 < len(coords); i += 6 {
		var tri [3]int
		for j := 0; j < 3; j++ {
			idx, found := index[triangolatte.Point{X: coords[i+2*j], Y: coords[i+2*j+1]}]
			if !found {
				return nil, false
			}
			tri[j] = idx
		}
		area := triArea2(flat, tri)
		if area < areaEpsilon {
			return nil, false
		}
		total += area
		tris = append(tris, orient(tri, verts, normal))
	}

	want := math.Abs(signedArea2(flat))
	if math.Abs(total-want) > want*1e-9+areaEpsilon {
		return nil, false
	}
	return tris, true
}

// fan triangulates from a corner whose fan produces no collinear triple.
// For the convex polygons that reach this fallback such a corner always
// exists unless the outline itself is degenerate.
func fan(flat []mgl64.Vec2, n int) [][3]int {
	apex := 0
	for k := 0; k < n; k++ {
		ok := true
		for i := 1; i+1 < n; i++ {
			tri := [3]int{k, (k + i) % n, (k + i + 1) % n}
			if triArea2(flat, tri) < areaEpsilon {
				ok = false
				break
			}
		}
		if ok {
			apex = k
			break
		}
	}

	tris := make([][3]int, 0, n-2)
	for i := 1; i+1 < n; i++ {
		tris = append(tris, [3]int{apex, (apex + i) % n, (apex + i + 1) % n})
	}
	return tris
}

// orient flips a triangle that ear clipping returned with the winding
// opposite to the face normal.
func orient(tri [3]int, verts []mgl64.Vec3, normal mgl64.Vec3) [3]int {
	a, b, c := verts[tri[0]], verts[tri[1]], verts[tri[2]]
	if b.Sub(a).Cross(c.Sub(a)).Dot(normal) < 0 {
		tri[1], tri[2] = tri[2], tri[1]
	}
	return tri
}

// signedArea2 is twice the signed outline area, positive for
// counter-clockwise outlines.
func signedArea2(flat []mgl64.Vec2) float64 {
	a := 0.0
	for i := range flat {
		j := (i + 1) % len(flat)
		a += flat[i].X()*flat[j].Y() - flat[j].X()*flat[i].Y()
	}
	return a
}

// triArea2 is twice the unsigned area of one index triple.
func triArea2(flat []mgl64.Vec2, tri [3]int) float64 {
	a, b, c := flat[tri[0]], flat[tri[1]], flat[tri[2]]
	return math.Abs((b.X()-a.X())*(c.Y()-a.Y()) - (c.X()-a.X())*(b.Y()-a.Y()))
}
