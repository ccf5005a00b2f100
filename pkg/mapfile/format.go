package mapfile

import (
	"fmt"

	"github.com/Faultbox/mapforge/pkg/geometry"
)

// Format selects the target .map grammar.
type Format int

const (
	FormatQuake Format = iota
	FormatHalfLife
	FormatQuake2
	FormatQuake3
	FormatDoom3
	FormatQuake4
)

// ContentsDetail is the idTech2/3 detail content bit carried in the
// trailing surface triple.
const ContentsDetail = 0x8000000

func (f Format) String() string {
	switch f {
	case FormatQuake:
		return "quake"
	case FormatHalfLife:
		return "halflife"
	case FormatQuake2:
		return "quake2"
	case FormatQuake3:
		return "quake3"
	case FormatDoom3:
		return "doom3"
	case FormatQuake4:
		return "quake4"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat resolves a configuration string to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "quake", "q1":
		return FormatQuake, nil
	case "halflife", "hl", "goldsrc":
		return FormatHalfLife, nil
	case "quake2", "q2":
		return FormatQuake2, nil
	case "quake3", "q3":
		return FormatQuake3, nil
	case "doom3", "d3":
		return FormatDoom3, nil
	case "quake4", "q4":
		return FormatQuake4, nil
	}
	return 0, fmt.Errorf("unknown map format %q", s)
}

// SupportsConvention reports whether the format's grammar can encode the
// given texture alignment convention.
func (f Format) SupportsConvention(c geometry.Convention) bool {
	switch f {
	case FormatQuake, FormatQuake2:
		return c == geometry.ConventionStandard || c == geometry.ConventionValve
	case FormatHalfLife:
		return c == geometry.ConventionValve
	case FormatQuake3:
		return true
	case FormatDoom3, FormatQuake4:
		return c == geometry.ConventionBrushPrimitives
	}
	return false
}

// DefaultConvention is the alignment used when the configuration leaves
// the UV convention on auto.
func (f Format) DefaultConvention() geometry.Convention {
	switch f {
	case FormatQuake, FormatHalfLife:
		return geometry.ConventionValve
	case FormatQuake2, FormatQuake3:
		return geometry.ConventionStandard
	default:
		return geometry.ConventionBrushPrimitives
	}
}

// CoefficientPlanes reports whether faces carry ( a b c d ) plane
// equations instead of three points.
func (f Format) CoefficientPlanes() bool {
	return f == FormatDoom3 || f == FormatQuake4
}

// VersionHeader returns the first line of the file, or "" for formats
// without one.
func (f Format) VersionHeader() string {
	switch f {
	case FormatDoom3:
		return "Version 2"
	case FormatQuake4:
		return "Version 3"
	}
	return ""
}

// SurfaceTriple reports whether faces end in the `contents flags value`
// triple. Doom 3 kept the field but its tools ignore it.
func (f Format) SurfaceTriple() bool {
	return f == FormatQuake2 || f == FormatQuake3 || f == FormatDoom3
}

// DetailContents returns the contents value encoding the detail flag for
// this format. Formats without a live detail bit return zero, which drops
// the flag silently.
func (f Format) DetailContents(detail bool) int {
	if detail && (f == FormatQuake2 || f == FormatQuake3) {
		return ContentsDetail
	}
	return 0
}

// QuotedTextures reports whether material names are written in quotes
// (idTech4 grammars).
func (f Format) QuotedTextures() bool {
	return f == FormatDoom3 || f == FormatQuake4
}
