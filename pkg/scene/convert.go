package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Conversion errors. The exporter downgrades them to per-object warnings.
var (
	ErrFlatCurve  = errors.New("curve has neither width nor extrude")
	ErrEmptyShape = errors.New("object has no geometry to convert")
)

// CurveSpline is one sampled polyline of a curve object.
type CurveSpline struct {
	Points []mgl64.Vec3
	Cyclic bool
}

// CurveData is a curve object reduced to sampled splines. Width is the
// total lateral extent of the swept ribbon; Extrude is the half-height
// along local Z, so the solid spans 2×Extrude like the source tools do.
type CurveData struct {
	Splines  []CurveSpline
	Width    float64
	Extrude  float64
	Material string
}

// MetaballElement is one blob of a metaball object, in local coordinates.
type MetaballElement struct {
	Center mgl64.Vec3
	Radius float64
}

// MetaballData approximates each element as a sphere. Resolution is the
// latitude band count of the generated spheres.
type MetaballData struct {
	Elements   []MetaballElement
	Resolution int
	Material   string
}

// NurbsData is a NURBS surface patch: a control grid indexed [u][v] with
// optional per-point weights, spline orders (degree+1) and sample counts
// per axis.
type NurbsData struct {
	ControlPoints [][]mgl64.Vec3
	Weights       [][]float64
	OrderU        int
	OrderV        int
	ResolutionU   int
	ResolutionV   int
	Material      string
}

// ToMesh converts a convertible object payload into mesh data. Mesh
// payloads pass through unchanged; point payloads (lights, cameras,
// empties) return ErrEmptyShape because they never become brushes.
func ToMesh(data ObjectData) (*MeshData, error) {
	switch d := data.(type) {
	case *MeshData:
		return d, nil
	case *CurveData:
		return d.Mesh()
	case *MetaballData:
		return d.Mesh()
	case *NurbsData:
		return d.Mesh()
	default:
		return nil, ErrEmptyShape
	}
}

// Mesh sweeps each spline into a ribbon or slab. A curve with width and
// extrude builds a closed rectangular tube; with only one of the two it
// builds a flat sheet. Sheets have an arbitrary facing and are meant for
// hull mode.
func (c *CurveData) Mesh() (*MeshData, error) {
	if c.Width <= 0 && c.Extrude <= 0 {
		return nil, ErrFlatCurve
	}
	out := &MeshData{}
	if c.Material != "" {
		out.Materials = []string{c.Material}
	}
	for _, sp := range c.Splines {
		if len(sp.Points) < 2 {
			continue
		}
		c.sweepSpline(out, sp)
	}
	if len(out.Vertices) == 0 {
		return nil, ErrEmptyShape
	}
	return out, nil
}

func (c *CurveData) sweepSpline(out *MeshData, sp CurveSpline) {
	hw := c.Width / 2
	ez := c.Extrude
	up := mgl64.Vec3{0, 0, 1}

	// Cross-section ring per sample point, counter-clockwise looking
	// along the travel direction: bottom edge first, then up the far
	// side. A sheet degenerates the ring to its two ends.
	ring := func(p, side mgl64.Vec3) []mgl64.Vec3 {
		s := side.Mul(hw)
		z := up.Mul(ez)
		switch {
		case hw > 0 && ez > 0:
			return []mgl64.Vec3{
				p.Sub(s).Sub(z), p.Add(s).Sub(z), p.Add(s).Add(z), p.Sub(s).Add(z),
			}
		case hw > 0:
			return []mgl64.Vec3{p.Sub(s), p.Add(s)}
		default:
			return []mgl64.Vec3{p.Sub(z), p.Add(z)}
		}
	}

	mat := -1
	if c.Material != "" {
		mat = 0
	}
	base := len(out.Vertices)
	var ringSize int
	for i, p := range sp.Points {
		side := splineSide(sp, i, up)
		r := ring(p, side)
		ringSize = len(r)
		out.Vertices = append(out.Vertices, r...)
	}

	sections := len(sp.Points)
	link := func(a, b int) {
		if ringSize == 2 {
			out.Faces = append(out.Faces, Face{
				Verts:    []int{base + a*2, base + a*2 + 1, base + b*2 + 1, base + b*2},
				Material: mat,
			})
			return
		}
		for j := 0; j < ringSize; j++ {
			k := (j + 1) % ringSize
			out.Faces = append(out.Faces, Face{
				Verts: []int{
					base + a*ringSize + k, base + a*ringSize + j,
					base + b*ringSize + j, base + b*ringSize + k,
				},
				Material: mat,
			})
		}
	}
	for i := 0; i+1 < sections; i++ {
		link(i, i+1)
	}
	if sp.Cyclic {
		link(sections-1, 0)
	} else if ringSize == 4 {
		first := base
		last := base + (sections-1)*ringSize
		out.Faces = append(out.Faces,
			Face{Verts: []int{first, first + 1, first + 2, first + 3}, Material: mat},
			Face{Verts: []int{last + 3, last + 2, last + 1, last}, Material: mat},
		)
	}
}

// splineSide returns the lateral sweep direction at sample i: the tangent
// crossed with local Z, averaged over adjacent segments.
func splineSide(sp CurveSpline, i int, up mgl64.Vec3) mgl64.Vec3 {
	n := len(sp.Points)
	prev, next := i-1, i+1
	if sp.Cyclic {
		prev = (i - 1 + n) % n
		next = (i + 1) % n
	} else {
		if prev < 0 {
			prev = 0
		}
		if next >= n {
			next = n - 1
		}
	}
	tangent := sp.Points[next].Sub(sp.Points[prev])
	side := tangent.Cross(up)
	if l := side.Len(); l > 1e-12 {
		return side.Mul(1 / l)
	}
	return mgl64.Vec3{1, 0, 0}
}

// Mesh builds a latitude/longitude sphere per element. The result is
// watertight with outward faces, so both hull and faces modes work.
func (m *MetaballData) Mesh() (*MeshData, error) {
	if len(m.Elements) == 0 {
		return nil, ErrEmptyShape
	}
	bands := m.Resolution
	if bands < 3 {
		bands = 3
	}
	segs := bands * 2

	out := &MeshData{}
	mat := -1
	if m.Material != "" {
		out.Materials = []string{m.Material}
		mat = 0
	}
	for _, el := range m.Elements {
		if el.Radius <= 0 {
			continue
		}
		addSphere(out, el.Center, el.Radius, bands, segs, mat)
	}
	if len(out.Vertices) == 0 {
		return nil, ErrEmptyShape
	}
	return out, nil
}

func addSphere(out *MeshData, center mgl64.Vec3, radius float64, bands, segs, mat int) {
	base := len(out.Vertices)

	// North pole, interior rings top to bottom, south pole.
	out.Vertices = append(out.Vertices, center.Add(mgl64.Vec3{0, 0, radius}))
	for r := 1; r < bands; r++ {
		theta := math.Pi * float64(r) / float64(bands)
		st, ct := math.Sin(theta), math.Cos(theta)
		for s := 0; s < segs; s++ {
			phi := 2 * math.Pi * float64(s) / float64(segs)
			out.Vertices = append(out.Vertices, center.Add(mgl64.Vec3{
				radius * st * math.Cos(phi),
				radius * st * math.Sin(phi),
				radius * ct,
			}))
		}
	}
	south := len(out.Vertices)
	out.Vertices = append(out.Vertices, center.Add(mgl64.Vec3{0, 0, -radius}))

	ringStart := func(r int) int { return base + 1 + (r-1)*segs }
	for s := 0; s < segs; s++ {
		sn := (s + 1) % segs
		out.Faces = append(out.Faces, Face{
			Verts:    []int{base, ringStart(1) + s, ringStart(1) + sn},
			Material: mat,
		})
		out.Faces = append(out.Faces, Face{
			Verts:    []int{south, ringStart(bands-1) + sn, ringStart(bands-1) + s},
			Material: mat,
		})
	}
	for r := 1; r+1 < bands; r++ {
		a, b := ringStart(r), ringStart(r+1)
		for s := 0; s < segs; s++ {
			sn := (s + 1) % segs
			out.Faces = append(out.Faces, Face{
				Verts:    []int{a + s, b + s, b + sn, a + sn},
				Material: mat,
			})
		}
	}
}

// Mesh samples the patch on a uniform parameter grid and links the samples
// into quads. Sample UVs mirror the parameter values, so textures follow
// the patch parameterization.
func (n *NurbsData) Mesh() (*MeshData, error) {
	nu := len(n.ControlPoints)
	if nu == 0 {
		return nil, ErrEmptyShape
	}
	nv := len(n.ControlPoints[0])
	for _, row := range n.ControlPoints {
		if len(row) != nv {
			return nil, fmt.Errorf("ragged control grid")
		}
	}
	ku, kv := n.OrderU, n.OrderV
	if ku < 2 || kv < 2 {
		return nil, fmt.Errorf("spline order must be at least 2, got %dx%d", ku, kv)
	}
	if nu < ku || nv < kv {
		return nil, fmt.Errorf("control grid %dx%d too small for order %dx%d", nu, nv, ku, kv)
	}
	if n.Weights != nil {
		if len(n.Weights) != nu {
			return nil, fmt.Errorf("weight grid does not match %dx%d control grid", nu, nv)
		}
		for _, row := range n.Weights {
			if len(row) != nv {
				return nil, fmt.Errorf("weight grid does not match %dx%d control grid", nu, nv)
			}
		}
	}

	ru, rv := n.ResolutionU, n.ResolutionV
	if ru < 2 {
		ru = 2
	}
	if rv < 2 {
		rv = 2
	}

	knotsU := clampedKnots(nu, ku)
	knotsV := clampedKnots(nv, kv)

	out := &MeshData{}
	mat := -1
	if n.Material != "" {
		out.Materials = []string{n.Material}
		mat = 0
	}
	for i := 0; i < ru; i++ {
		u := float64(i) / float64(ru-1)
		bu, su := bsplineBasis(u, ku, knotsU)
		for j := 0; j < rv; j++ {
			v := float64(j) / float64(rv-1)
			bv, sv := bsplineBasis(v, kv, knotsV)

			var acc mgl64.Vec3
			var wsum float64
			for a := 0; a < ku; a++ {
				ci := su - ku + 1 + a
				for b := 0; b < kv; b++ {
					cj := sv - kv + 1 + b
					w := 1.0
					if n.Weights != nil {
						w = n.Weights[ci][cj]
					}
					f := bu[a] * bv[b] * w
					acc = acc.Add(n.ControlPoints[ci][cj].Mul(f))
					wsum += f
				}
			}
			if wsum != 0 {
				acc = acc.Mul(1 / wsum)
			}
			out.Vertices = append(out.Vertices, acc)
		}
	}

	for i := 0; i+1 < ru; i++ {
		for j := 0; j+1 < rv; j++ {
			u0 := float64(i) / float64(ru-1)
			u1 := float64(i+1) / float64(ru-1)
			v0 := float64(j) / float64(rv-1)
			v1 := float64(j+1) / float64(rv-1)
			out.Faces = append(out.Faces, Face{
				Verts: []int{
					i*rv + j, (i+1)*rv + j, (i+1)*rv + j + 1, i*rv + j + 1,
				},
				UVs: []mgl64.Vec2{
					{u0, v0}, {u1, v0}, {u1, v1}, {u0, v1},
				},
				Material: mat,
			})
		}
	}
	return out, nil
}

// clampedKnots builds the clamped uniform knot vector on [0,1] for n
// control points of order k.
func clampedKnots(n, k int) []float64 {
	spans := n - k + 1
	knots := make([]float64, n+k)
	for i := range knots {
		switch {
		case i < k:
			knots[i] = 0
		case i >= n:
			knots[i] = 1
		default:
			knots[i] = float64(i-k+1) / float64(spans)
		}
	}
	return knots
}

// bsplineBasis evaluates the k non-zero basis functions at u and returns
// them with the knot span index (Cox-de Boor recursion).
func bsplineBasis(u float64, k int, knots []float64) ([]float64, int) {
	n := len(knots) - k
	// Find the span [knots[s], knots[s+1]) containing u; the final span
	// is closed so u=1 evaluates on the last segment.
	s := k - 1
	for s < n-1 && u >= knots[s+1] {
		s++
	}

	basis := make([]float64, k)
	left := make([]float64, k)
	right := make([]float64, k)
	basis[0] = 1
	for j := 1; j < k; j++ {
		left[j] = u - knots[s+1-j]
		right[j] = knots[s+j] - u
		saved := 0.0
		for r := 0; r < j; r++ {
			den := right[r+1] + left[j-r]
			var term float64
			if den != 0 {
				term = basis[r] / den
			}
			basis[r] = saved + right[r+1]*term
			saved = left[j-r] * term
		}
		basis[j] = saved
	}
	return basis, s
}
