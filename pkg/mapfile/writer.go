package mapfile

import (
	"strconv"
	"strings"

	"github.com/Faultbox/mapforge/pkg/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// Marshal renders the document in the given grammar. Every numeric field
// is formatted to prec significant digits ('g' form, so integral values
// print bare). prec is clamped to [1,17]; the low clamp mirrors printf
// %.0g behaving as %.1g.
func Marshal(m *Map, f Format, prec int) string {
	w := &writer{format: f, prec: prec}

	if h := f.VersionHeader(); h != "" {
		w.line(h)
	}
	for i, e := range m.Entities {
		w.entity(i, e)
	}
	return w.sb.String()
}

// FormatNum renders one value the way Marshal does. Entity key values
// assembled outside the serializer use it so numbers agree everywhere in
// the document.
func FormatNum(v float64, prec int) string {
	if prec < 1 {
		prec = 1
	} else if prec > 17 {
		prec = 17
	}
	return strconv.FormatFloat(v, 'g', prec, 64)
}

type writer struct {
	sb     strings.Builder
	format Format
	prec   int
}

func (w *writer) line(s string) {
	w.sb.WriteString(s)
	w.sb.WriteByte('\n')
}

func (w *writer) ftoa(v float64) string {
	return FormatNum(v, w.prec)
}

func (w *writer) vec3(v mgl64.Vec3) string {
	return w.ftoa(v.X()) + " " + w.ftoa(v.Y()) + " " + w.ftoa(v.Z())
}

func (w *writer) entity(idx int, e *Entity) {
	idTech4 := w.format.VersionHeader() != ""
	if idTech4 {
		w.line("// entity " + strconv.Itoa(idx))
	}
	w.line("{")
	for _, kv := range e.Keys {
		w.line(`"` + kv.Key + `" "` + kv.Value + `"`)
	}
	for bi, b := range e.Brushes {
		if idTech4 {
			w.line("// primitive " + strconv.Itoa(bi))
			w.brushDef3(&b)
			continue
		}
		if w.format == FormatQuake3 && brushConvention(&b) == geometry.ConventionBrushPrimitives {
			w.brushDef(&b)
			continue
		}
		w.brushClassic(&b)
	}
	w.line("}")
}

// brushConvention reports the alignment convention a brush was built
// with. Surfaces of one brush always share it.
func brushConvention(b *Brush) geometry.Convention {
	if len(b.Surfaces) == 0 {
		return geometry.ConventionStandard
	}
	return b.Surfaces[0].Basis.Convention
}

func (w *writer) brushClassic(b *Brush) {
	w.line("{")
	for i := range b.Surfaces {
		s := &b.Surfaces[i]
		var sb strings.Builder
		w.points(&sb, s)
		sb.WriteString(s.Texture)
		switch s.Basis.Convention {
		case geometry.ConventionValve:
			sb.WriteString(" [ " + w.vec3(s.Basis.UAxis) + " " + w.ftoa(s.Basis.Offset.X()) + " ]")
			sb.WriteString(" [ " + w.vec3(s.Basis.VAxis) + " " + w.ftoa(s.Basis.Offset.Y()) + " ]")
			sb.WriteString(" " + w.ftoa(s.Basis.Rotation))
			sb.WriteString(" " + w.ftoa(s.Basis.Scale.X()) + " " + w.ftoa(s.Basis.Scale.Y()))
		default:
			sb.WriteString(" " + w.ftoa(s.Basis.Offset.X()) + " " + w.ftoa(s.Basis.Offset.Y()))
			sb.WriteString(" " + w.ftoa(s.Basis.Rotation))
			sb.WriteString(" " + w.ftoa(s.Basis.Scale.X()) + " " + w.ftoa(s.Basis.Scale.Y()))
		}
		if w.format.SurfaceTriple() {
			sb.WriteString(" " + strconv.Itoa(w.format.DetailContents(s.Detail)) + " 0 0")
		}
		w.line(sb.String())
	}
	w.line("}")
}

// brushDef is the Radiant brush-primitive block used by Quake 3.
func (w *writer) brushDef(b *Brush) {
	w.line("{")
	w.line("brushDef")
	w.line("{")
	for i := range b.Surfaces {
		s := &b.Surfaces[i]
		var sb strings.Builder
		w.points(&sb, s)
		w.bpMatrix(&sb, s)
		sb.WriteString(" " + s.Texture)
		sb.WriteString(" " + strconv.Itoa(w.format.DetailContents(s.Detail)) + " 0 0")
		w.line(sb.String())
	}
	w.line("}")
	w.line("}")
}

// brushDef3 is the idTech4 block with coefficient planes; the layout
// matches the engine's own editor output, single-space indents included.
func (w *writer) brushDef3(b *Brush) {
	w.line("{")
	w.line(" brushDef3")
	w.line(" {")
	for i := range b.Surfaces {
		s := &b.Surfaces[i]
		var sb strings.Builder
		sb.WriteString("  ( ")
		c := s.Plane.Coefficients()
		for j, v := range c {
			if j > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(w.ftoa(v))
		}
		sb.WriteString(" ) ")
		w.bpMatrix(&sb, s)
		sb.WriteString(` "` + s.Texture + `"`)
		if w.format.SurfaceTriple() {
			sb.WriteString(" 0 0 0")
		}
		w.line(sb.String())
	}
	w.line(" }")
	w.line("}")
}

func (w *writer) points(sb *strings.Builder, s *Surface) {
	for _, p := range s.Points {
		sb.WriteString("( " + w.vec3(p) + " ) ")
	}
}

// bpMatrix writes the 2×3 block `( ( a b c ) ( d e f ) )` with no outer
// padding; callers place the separating spaces.
func (w *writer) bpMatrix(sb *strings.Builder, s *Surface) {
	sb.WriteString("( ")
	for r := 0; r < 2; r++ {
		sb.WriteString("( ")
		for c := 0; c < 3; c++ {
			sb.WriteString(w.ftoa(s.Basis.BP[r][c]) + " ")
		}
		sb.WriteString(") ")
	}
	sb.WriteString(")")
}
