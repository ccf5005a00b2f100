package geometry

import "github.com/go-gl/mathgl/mgl64"

// ConvexHull computes the 3-D convex hull of a point cloud and returns its
// facets as index triples into pts, wound counter-clockwise seen from
// outside. Interior points are discarded. Collinear and coplanar clouds
// have no volume and return ErrHullDegenerate.
//
// The construction is the classic incremental algorithm: seed tetrahedron
// from extreme points, then fold each remaining point over its horizon.
// Points are visited in index order, so the result is deterministic for a
// given input. Runtime is O(n²) in the worst case, fine for the mesh sizes
// an export sees.
func ConvexHull(pts []mgl64.Vec3) ([][3]int, error) {
	if len(pts) < 4 {
		return nil, ErrHullDegenerate
	}

	eps := hullEpsilon(pts)

	t0, t1, t2, t3, err := seedTetrahedron(pts, eps)
	if err != nil {
		return nil, err
	}

	faces := make([]hullFace, 0, 4)
	addFace := func(a, b, c int) {
		pl, perr := PlaneFromPoints(pts[c], pts[b], pts[a])
		if perr != nil {
			return
		}
		faces = append(faces, hullFace{verts: [3]int{a, b, c}, plane: pl})
	}
	// Outward orientation: t3 must sit behind (t0,t1,t2).
	base, err := PlaneFromPoints(pts[t2], pts[t1], pts[t0])
	if err != nil {
		return nil, ErrHullDegenerate
	}
	if base.DistanceTo(pts[t3]) > 0 {
		t1, t2 = t2, t1
	}
	addFace(t0, t1, t2)
	addFace(t0, t3, t1)
	addFace(t1, t3, t2)
	addFace(t2, t3, t0)

	seed := map[int]bool{t0: true, t1: true, t2: true, t3: true}
	for pi := range pts {
		if seed[pi] {
			continue
		}
		p := pts[pi]

		visible := make([]bool, len(faces))
		any := false
		for fi, f := range faces {
			if f.plane.DistanceTo(p) > eps {
				visible[fi] = true
				any = true
			}
		}
		if !any {
			continue
		}

		// Horizon edges: directed edges of visible faces whose twin
		// belongs to a face that stays.
		hidden := make(map[[2]int]bool)
		for fi, f := range faces {
			if visible[fi] {
				continue
			}
			for e := 0; e < 3; e++ {
				hidden[[2]int{f.verts[e], f.verts[(e+1)%3]}] = true
			}
		}
		var horizon [][2]int
		for fi, f := range faces {
			if !visible[fi] {
				continue
			}
			for e := 0; e < 3; e++ {
				a, b := f.verts[e], f.verts[(e+1)%3]
				if hidden[[2]int{b, a}] {
					horizon = append(horizon, [2]int{a, b})
				}
			}
		}

		kept := faces[:0]
		for fi, f := range faces {
			if !visible[fi] {
				kept = append(kept, f)
			}
		}
		faces = kept
		for _, e := range horizon {
			addFace(e[0], e[1], pi)
		}
	}

	// Closure check: every directed edge needs its twin, otherwise the
	// facet set does not bound a solid and the brush would be open.
	edges := make(map[[2]int]int)
	for _, f := range faces {
		for e := 0; e < 3; e++ {
			edges[[2]int{f.verts[e], f.verts[(e+1)%3]}]++
		}
	}
	for e, n := range edges {
		if n != 1 || edges[[2]int{e[1], e[0]}] != 1 {
			return nil, ErrHullDegenerate
		}
	}

	out := make([][3]int, len(faces))
	for i, f := range faces {
		out[i] = f.verts
	}
	return out, nil
}

type hullFace struct {
	verts [3]int
	plane Plane
}

// hullEpsilon scales the on-plane tolerance with the cloud's extent so
// large maps and tiny props both merge coplanar facets cleanly.
func hullEpsilon(pts []mgl64.Vec3) float64 {
	min, max := pts[0], pts[0]
	for _, p := range pts[1:] {
		for i := 0; i < 3; i++ {
			if p[i] < min[i] {
				min[i] = p[i]
			}
			if p[i] > max[i] {
				max[i] = p[i]
			}
		}
	}
	return 1e-9 + 1e-7*max.Sub(min).Len()
}

// seedTetrahedron picks four non-coplanar points: the most separated axis
// pair, the point farthest from their line, and the point farthest from
// the resulting plane.
func seedTetrahedron(pts []mgl64.Vec3, eps float64) (int, int, int, int, error) {
	i0, i1 := 0, 0
	best := -1.0
	for axis := 0; axis < 3; axis++ {
		lo, hi := 0, 0
		for i, p := range pts {
			if p[axis] < pts[lo][axis] {
				lo = i
			}
			if p[axis] > pts[hi][axis] {
				hi = i
			}
		}
		d := pts[hi].Sub(pts[lo]).Dot(pts[hi].Sub(pts[lo]))
		if d > best {
			best = d
			i0, i1 = lo, hi
		}
	}
	if best <= eps*eps {
		return 0, 0, 0, 0, ErrHullDegenerate
	}

	dir := pts[i1].Sub(pts[i0])
	i2 := -1
	best = eps * eps
	for i, p := range pts {
		if i == i0 || i == i1 {
			continue
		}
		c := dir.Cross(p.Sub(pts[i0]))
		if d := c.Dot(c); d > best {
			best = d
			i2 = i
		}
	}
	if i2 < 0 {
		return 0, 0, 0, 0, ErrHullDegenerate
	}

	pl, err := PlaneFromPoints(pts[i0], pts[i1], pts[i2])
	if err != nil {
		return 0, 0, 0, 0, ErrHullDegenerate
	}
	i3 := -1
	best = eps
	for i, p := range pts {
		if i == i0 || i == i1 || i == i2 {
			continue
		}
		d := pl.DistanceTo(p)
		if d < 0 {
			d = -d
		}
		if d > best {
			best = d
			i3 = i
		}
	}
	if i3 < 0 {
		return 0, 0, 0, 0, ErrHullDegenerate
	}
	return i0, i1, i2, i3, nil
}
