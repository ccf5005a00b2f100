// Package geometry derives brush planes and texture bases from polygonal
// faces. All math is double precision; the serializer decides how many
// digits survive.
package geometry

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

// Geometry errors.
var (
	ErrDegenerateFace = errors.New("degenerate face")
	ErrCollinear      = errors.New("collinear plane points")
	ErrHullDegenerate = errors.New("vertex cloud has no volume")
)

const (
	// Two plane normals count as parallel when their dot product is
	// within normalEpsilon of unity.
	normalEpsilon = 1e-9
	// Base tolerance for comparing plane offsets; scaled by magnitude.
	distEpsilon = 1e-6
	// Squared-area guard below which a point triple is collinear.
	areaEpsilon = 1e-10
)

// Plane is a face-supporting plane in coefficient form. Normal is unit
// length and faces out of the solid; points p on the plane satisfy
// Normal·p = Dist.
type Plane struct {
	Normal mgl64.Vec3
	Dist   float64
}

// PlaneFromPoints builds a plane from three points ordered in the .map
// convention: the points wind clockwise when viewed from the front
// (outside), giving Normal = (p0−p1)×(p2−p1).
func PlaneFromPoints(p0, p1, p2 mgl64.Vec3) (Plane, error) {
	n := p0.Sub(p1).Cross(p2.Sub(p1))
	if n.Dot(n) < areaEpsilon {
		return Plane{}, ErrCollinear
	}
	n = n.Normalize()
	return Plane{Normal: n, Dist: n.Dot(p1)}, nil
}

// PlaneFromFace derives the plane of a polygon via Newell's method, which
// stays stable for nearly planar n-gons where a single cross product does
// not. The winding must be counter-clockwise viewed from outside.
func PlaneFromFace(verts []mgl64.Vec3) (Plane, error) {
	if len(verts) < 3 {
		return Plane{}, ErrDegenerateFace
	}
	n := NewellNormal(verts)
	if n.Dot(n) < areaEpsilon {
		return Plane{}, ErrDegenerateFace
	}
	n = n.Normalize()

	var c mgl64.Vec3
	for _, v := range verts {
		c = c.Add(v)
	}
	c = c.Mul(1 / float64(len(verts)))
	return Plane{Normal: n, Dist: n.Dot(c)}, nil
}

// NewellNormal returns the unnormalized polygon normal by Newell's method.
func NewellNormal(verts []mgl64.Vec3) mgl64.Vec3 {
	var n mgl64.Vec3
	for i, a := range verts {
		b := verts[(i+1)%len(verts)]
		n[0] += (a.Y() - b.Y()) * (a.Z() + b.Z())
		n[1] += (a.Z() - b.Z()) * (a.X() + b.X())
		n[2] += (a.X() - b.X()) * (a.Y() + b.Y())
	}
	return n
}

// DistanceTo returns the signed distance of pt from the plane; positive
// values lie in front (outside).
func (p Plane) DistanceTo(pt mgl64.Vec3) float64 {
	return p.Normal.Dot(pt) - p.Dist
}

// Coefficients returns (a b c d) with a·x+b·y+c·z+d = 0, the form written
// by idTech4 map files.
func (p Plane) Coefficients() [4]float64 {
	return [4]float64{p.Normal.X(), p.Normal.Y(), p.Normal.Z(), -p.Dist}
}

// Same reports whether q bounds the same half-space as p within tolerance:
// normals parallel and offsets equal. Used for duplicate-plane suppression
// inside one brush.
func (p Plane) Same(q Plane) bool {
	if p.Normal.Dot(q.Normal) < 1-normalEpsilon {
		return false
	}
	d := p.Dist - q.Dist
	if d < 0 {
		d = -d
	}
	lim := p.Dist
	if lim < 0 {
		lim = -lim
	}
	return d <= distEpsilon*(1+lim)
}

// Opposes reports whether q is the same geometric plane with the opposite
// orientation. A brush containing such a pair has an empty interior.
func (p Plane) Opposes(q Plane) bool {
	if p.Normal.Dot(q.Normal) > -(1 - normalEpsilon) {
		return false
	}
	d := p.Dist + q.Dist
	if d < 0 {
		d = -d
	}
	lim := p.Dist
	if lim < 0 {
		lim = -lim
	}
	return d <= distEpsilon*(1+lim)
}

// PlanePoints selects three vertices of a face for the three-point plane
// form. The triple is chosen maximally spread: the farthest vertex pair,
// then the vertex maximizing triangle area. A wide triangle loses the
// least orientation accuracy when its coordinates are rounded for output.
// Ties break on the lowest vertex index. The returned points are ordered
// for the .map winding convention (clockwise seen from outside).
func PlanePoints(verts []mgl64.Vec3, normal mgl64.Vec3) ([3]mgl64.Vec3, error) {
	var pts [3]mgl64.Vec3
	if len(verts) < 3 {
		return pts, ErrDegenerateFace
	}

	ai, bi := 0, 1
	best := -1.0
	for i := 0; i < len(verts); i++ {
		for j := i + 1; j < len(verts); j++ {
			d := verts[j].Sub(verts[i]).Dot(verts[j].Sub(verts[i]))
			if d > best {
				best = d
				ai, bi = i, j
			}
		}
	}
	if best < areaEpsilon {
		return pts, ErrDegenerateFace
	}

	ci := -1
	best = areaEpsilon
	ab := verts[bi].Sub(verts[ai])
	for k := 0; k < len(verts); k++ {
		if k == ai || k == bi {
			continue
		}
		c := ab.Cross(verts[k].Sub(verts[ai]))
		if a := c.Dot(c); a > best {
			best = a
			ci = k
		}
	}
	if ci < 0 {
		return pts, ErrDegenerateFace
	}

	pts = [3]mgl64.Vec3{verts[ci], verts[bi], verts[ai]}
	pl, err := PlaneFromPoints(pts[0], pts[1], pts[2])
	if err != nil {
		return pts, err
	}
	if pl.Normal.Dot(normal) < 0 {
		pts[0], pts[2] = pts[2], pts[0]
	}
	return pts, nil
}
