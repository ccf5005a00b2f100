package geometry

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"
)

// Convention selects how a face's texture alignment is expressed.
type Convention int

const (
	// ConventionStandard is the legacy Quake offset/rotation/scale
	// projection along the dominant axis. Shear cannot be represented
	// and is discarded.
	ConventionStandard Convention = iota
	// ConventionValve is the Valve220 face-bound projection: two free
	// 3-D axes with offsets, preserving the full affine mapping.
	ConventionValve
	// ConventionBrushPrimitives is the Radiant brushDef 2×3 matrix in
	// normalized texture space, equivalent in power to Valve220.
	ConventionBrushPrimitives
)

// String returns the configuration name of the convention.
func (c Convention) String() string {
	switch c {
	case ConventionStandard:
		return "standard"
	case ConventionValve:
		return "valve"
	case ConventionBrushPrimitives:
		return "brushprims"
	}
	return fmt.Sprintf("Convention(%d)", int(c))
}

// ParseConvention resolves a configuration string to a Convention.
func ParseConvention(s string) (Convention, error) {
	switch s {
	case "standard", "quake":
		return ConventionStandard, nil
	case "valve", "valve220":
		return ConventionValve, nil
	case "brushprims", "brushprimitives", "bprim":
		return ConventionBrushPrimitives, nil
	}
	return 0, fmt.Errorf("unknown UV convention %q", s)
}

// TexBasis is the per-face texture alignment in one of the three
// conventions. Only the fields of the active convention are meaningful.
type TexBasis struct {
	Convention Convention

	// Standard and Valve: pixel offsets, rotation in degrees, scale.
	Offset   mgl64.Vec2
	Rotation float64
	Scale    mgl64.Vec2

	// Valve: the 3-D texture axes the offsets apply along.
	UAxis mgl64.Vec3
	VAxis mgl64.Vec3

	// Brush primitives: 2×3 affine matrix from plane space to
	// normalized texture space.
	BP [2][3]float64
}

// DummyBasis is the neutral alignment written when a face has no usable
// UV data or the projection system is singular.
func DummyBasis(c Convention, texW, texH int) TexBasis {
	b := TexBasis{
		Convention: c,
		Scale:      mgl64.Vec2{1, 1},
		UAxis:      mgl64.Vec3{1, 0, 0},
		VAxis:      mgl64.Vec3{0, -1, 0},
	}
	if texW > 0 {
		b.BP[0][0] = 1 / float64(texW)
	} else {
		b.BP[0][0] = 1
	}
	if texH > 0 {
		b.BP[1][1] = 1 / float64(texH)
	} else {
		b.BP[1][1] = 1
	}
	return b
}

// ProjectBasis derives the texture basis for a face from its first three
// winding vertices and their UVs. The mapping is exact for the triangle
// those vertices span; faces whose UVs are not affine over the plane keep
// the alignment of that triangle (a documented approximation, since none
// of the target grammars can express a non-affine warp). The texture size
// scales UV space into pixels for the Standard and Valve conventions.
// prec matters only for Standard's dominant-axis pick, which the original
// projection rounds before comparing.
func ProjectBasis(c Convention, verts [3]mgl64.Vec3, uvs [3]mgl64.Vec2, normal mgl64.Vec3, texW, texH, prec int) TexBasis {
	switch c {
	case ConventionValve:
		return valveBasis(verts, uvs, normal, texW, texH)
	case ConventionBrushPrimitives:
		return brushPrimitivesBasis(verts, uvs, normal, texW, texH)
	default:
		return standardBasis(verts, uvs, normal, texW, texH, prec)
	}
}

// solveUV finds the 2-D linear map (m11 m12; m21 m22) taking the plane
// edges a and b onto the UV edges p and q. This is the linear system the
// original projection hands to numpy.
func solveUV(a, b, p, q mgl64.Vec2) ([4]float64, bool) {
	var m [4]float64
	sys := mat.NewDense(4, 4, []float64{
		a.X(), a.Y(), 0, 0,
		0, 0, a.X(), a.Y(),
		b.X(), b.Y(), 0, 0,
		0, 0, b.X(), b.Y(),
	})
	rhs := mat.NewVecDense(4, []float64{p.X(), p.Y(), q.X(), q.Y()})
	var x mat.VecDense
	if err := x.SolveVec(sys, rhs); err != nil {
		return m, false
	}
	for i := range m {
		m[i] = x.AtVec(i)
		if math.IsNaN(m[i]) || math.IsInf(m[i], 0) {
			return m, false
		}
	}
	return m, true
}

func standardBasis(v [3]mgl64.Vec3, t [3]mgl64.Vec2, normal mgl64.Vec3, texW, texH, prec int) TexBasis {
	w, h := float64(texW), float64(texH)

	// Dominant projection axis, Z then X then Y on rounded ties so 45°
	// slopes project the way the classic editors expect.
	maxn := 0.0
	for i := 0; i < 3; i++ {
		if r := roundTo(math.Abs(normal[i]), prec); r > maxn {
			maxn = r
		}
	}
	axis := 2
	for _, i := range [3]int{2, 0, 1} {
		if roundTo(math.Abs(normal[i]), prec) == maxn {
			axis = i
			break
		}
	}
	drop := func(p mgl64.Vec3) mgl64.Vec2 {
		switch axis {
		case 0:
			return mgl64.Vec2{p.Y(), p.Z()}
		case 1:
			return mgl64.Vec2{p.X(), p.Z()}
		default:
			return mgl64.Vec2{p.X(), p.Y()}
		}
	}

	a := drop(v[1].Sub(v[0]))
	b := drop(v[2].Sub(v[0]))
	p := mgl64.Vec2{(t[1].X() - t[0].X()) * w, (t[1].Y() - t[0].Y()) * h}
	q := mgl64.Vec2{(t[2].X() - t[0].X()) * w, (t[2].Y() - t[0].Y()) * h}

	m, ok := solveUV(a, b, p, q)
	if !ok {
		return DummyBasis(ConventionStandard, texW, texH)
	}

	// Invert the map; nudge the diagonal when the UVs collapse, the way
	// a safe inverse does, instead of failing the face.
	det := m[0]*m[3] - m[1]*m[2]
	inv := m
	if math.Abs(det) < 1e-12 {
		inv[0] += 1e-8
		inv[3] += 1e-8
	}
	idet := inv[0]*inv[3] - inv[1]*inv[2]
	if math.Abs(idet) < 1e-15 {
		return DummyBasis(ConventionStandard, texW, texH)
	}
	inv = [4]float64{inv[3] / idet, -inv[1] / idet, -inv[2] / idet, inv[0] / idet}

	rotation := math.Atan2(inv[2], inv[0]) * 180 / math.Pi
	sx := math.Hypot(inv[0], inv[2])
	sy := math.Hypot(inv[1], inv[3])
	if det < 0 {
		sx = -sx
	}

	t0 := mgl64.Vec2{t[0].X() * w, t[0].Y() * h}
	v0 := drop(v[0])
	rad := -rotation * math.Pi / 180
	cr, sr := math.Cos(rad), math.Sin(rad)
	v0 = mgl64.Vec2{v0.X()*cr - v0.Y()*sr, v0.X()*sr + v0.Y()*cr}
	v0 = mgl64.Vec2{v0.X() / sx, v0.Y() / sy}

	return TexBasis{
		Convention: ConventionStandard,
		Offset:     mgl64.Vec2{t0.X() - v0.X(), -(t0.Y() - v0.Y())},
		Rotation:   rotation,
		Scale:      mgl64.Vec2{sx, sy},
	}
}

func valveBasis(v [3]mgl64.Vec3, t [3]mgl64.Vec2, normal mgl64.Vec3, texW, texH int) TexBasis {
	w := float64(texW)
	h := -float64(texH) // V runs down the texture, Blender-style UVs run up

	world01 := v[1].Sub(v[0])
	world02 := v[2].Sub(v[0])
	l01, l02 := world01.Len(), world02.Len()
	if l01 < 1e-12 || l02 < 1e-12 {
		return DummyBasis(ConventionValve, texW, texH)
	}

	// Flatten the triangle into a 2-D frame with edge 01 along X.
	cos := world01.Dot(world02) / (l01 * l02)
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	angle := math.Acos(cos)
	if normal.Dot(world01.Cross(world02)) < 0 {
		angle = -angle
	}
	a := mgl64.Vec2{l01, 0}
	b := mgl64.Vec2{math.Cos(angle) * l02, math.Sin(angle) * l02}

	p := mgl64.Vec2{(t[1].X() - t[0].X()) * w, (t[1].Y() - t[0].Y()) * h}
	q := mgl64.Vec2{(t[2].X() - t[0].X()) * w, (t[2].Y() - t[0].Y()) * h}

	m, ok := solveUV(a, b, p, q)
	if !ok {
		return DummyBasis(ConventionValve, texW, texH)
	}
	right := mgl64.Vec2{m[0], m[1]}
	up := mgl64.Vec2{m[2], m[3]}

	sx := 1 / math.Max(1e-5, right.Len())
	sy := 1 / math.Max(1e-5, up.Len())

	// Texture axes live in the plane: rotate the 01 edge direction by
	// each axis' angle in the 2-D frame.
	rightAngle := math.Atan2(right.Y(), right.X())
	upAngle := math.Atan2(up.Y(), up.X())
	dir := world01.Mul(1 / l01)
	uAxis := mgl64.QuatRotate(rightAngle, normal).Rotate(dir)
	vAxis := mgl64.QuatRotate(upAngle, normal).Rotate(dir)

	testS := v[0].Dot(uAxis) / (w * sx)
	testT := v[0].Dot(vAxis) / (h * sy)

	return TexBasis{
		Convention: ConventionValve,
		UAxis:      uAxis,
		VAxis:      vAxis,
		Offset: mgl64.Vec2{
			(t[0].X() - testS) * w,
			(t[0].Y() - testT) * h,
		},
		Rotation: 0,
		Scale:    mgl64.Vec2{sx, sy},
	}
}

// AxisBase returns the Radiant brush-primitive reference axes for a plane
// normal. Faces with the same normal share these axes; the 2×3 matrix is
// expressed relative to them.
func AxisBase(normal mgl64.Vec3) (texS, texT mgl64.Vec3) {
	n := normal
	for i := 0; i < 3; i++ {
		if math.Abs(n[i]) < 1e-6 {
			n[i] = 0
		}
	}
	rotY := -math.Atan2(n.Z(), math.Hypot(n.X(), n.Y()))
	rotZ := math.Atan2(n.Y(), n.X())
	texS = mgl64.Vec3{-math.Sin(rotZ), math.Cos(rotZ), 0}
	texT = mgl64.Vec3{
		-math.Sin(rotY) * math.Cos(rotZ),
		-math.Sin(rotY) * math.Sin(rotZ),
		-math.Cos(rotY),
	}
	return texS, texT
}

func brushPrimitivesBasis(v [3]mgl64.Vec3, t [3]mgl64.Vec2, normal mgl64.Vec3, texW, texH int) TexBasis {
	texS, texT := AxisBase(normal)

	// Three point correspondences pin the affine map exactly: plane
	// coordinates (s,t) to normalized texture coordinates (u,-v).
	sys := mat.NewDense(3, 3, nil)
	rhs := mat.NewDense(3, 2, nil)
	for i := 0; i < 3; i++ {
		sys.Set(i, 0, v[i].Dot(texS))
		sys.Set(i, 1, v[i].Dot(texT))
		sys.Set(i, 2, 1)
		rhs.Set(i, 0, t[i].X())
		rhs.Set(i, 1, -t[i].Y())
	}
	var x mat.Dense
	if err := x.Solve(sys, rhs); err != nil {
		return DummyBasis(ConventionBrushPrimitives, texW, texH)
	}

	b := TexBasis{Convention: ConventionBrushPrimitives}
	for col := 0; col < 3; col++ {
		b.BP[0][col] = x.At(col, 0)
		b.BP[1][col] = x.At(col, 1)
	}
	for r := 0; r < 2; r++ {
		for c := 0; c < 3; c++ {
			if math.IsNaN(b.BP[r][c]) || math.IsInf(b.BP[r][c], 0) {
				return DummyBasis(ConventionBrushPrimitives, texW, texH)
			}
		}
	}
	return b
}

// roundTo rounds to a number of decimal places, clamped to a sane range.
func roundTo(x float64, digits int) float64 {
	if digits < 0 {
		digits = 0
	} else if digits > 15 {
		digits = 15
	}
	p := math.Pow(10, float64(digits))
	return math.Round(x*p) / p
}
