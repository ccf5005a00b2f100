// Package scene is the neutral 3-D scene model the exporter consumes:
// objects with transforms, mesh data or convertible primitives, materials
// and custom properties. Loaders in pkg/formats fill it; nothing in here
// depends on any input format.
package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Mode selects how an object's geometry becomes brushes.
type Mode int

const (
	// ModeUnset defers to the export-wide default.
	ModeUnset Mode = iota
	// ModeHull wraps the object's vertex cloud in one convex hull brush.
	ModeHull
	// ModeFaces extrudes every face into a thin pyramid brush.
	ModeFaces
	// ModeAsIs treats the object's faces as the finished boundary of a
	// single convex brush. The exporter validates convexity.
	ModeAsIs
)

func (m Mode) String() string {
	switch m {
	case ModeUnset:
		return "unset"
	case ModeHull:
		return "hull"
	case ModeFaces:
		return "faces"
	case ModeAsIs:
		return "asis"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode resolves a configuration string to a Mode. The empty string
// parses to ModeUnset so per-object overrides can be omitted.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "":
		return ModeUnset, nil
	case "hull", "brush":
		return ModeHull, nil
	case "faces", "pyramid":
		return ModeFaces, nil
	case "asis":
		return ModeAsIs, nil
	}
	return 0, fmt.Errorf("unknown brush mode %q", s)
}

// ObjectData is the sealed set of geometry payloads an Object can carry.
type ObjectData interface {
	isObjectData()
}

func (*MeshData) isObjectData()     {}
func (*CurveData) isObjectData()    {}
func (*MetaballData) isObjectData() {}
func (*NurbsData) isObjectData()    {}
func (*LightData) isObjectData()    {}
func (*CameraData) isObjectData()   {}
func (*EmptyData) isObjectData()    {}

// Object is one scene node. Transform maps local coordinates to world
// space; Collections is the chain of group names the object belongs to,
// outermost first.
type Object struct {
	Name        string
	Collections []string
	Transform   mgl64.Mat4
	Properties  Properties
	Mode        Mode
	Data        ObjectData
}

// Material describes one texture slot target. Width and Height are texel
// dimensions; zero means unknown and defers to the export fallback size.
type Material struct {
	Name   string
	Image  string
	Width  int
	Height int
}

// Scene is a full extracted scene.
type Scene struct {
	Name      string
	Objects   []Object
	Materials []Material
}

// MaterialByName returns the registered material, or nil.
func (s *Scene) MaterialByName(name string) *Material {
	for i := range s.Materials {
		if s.Materials[i].Name == name {
			return &s.Materials[i]
		}
	}
	return nil
}

// IdentityTransform returns the identity object transform.
func IdentityTransform() mgl64.Mat4 {
	return mgl64.Ident4()
}

// TransformPoint applies a 4×4 transform to a position.
func TransformPoint(m mgl64.Mat4, p mgl64.Vec3) mgl64.Vec3 {
	v := m.Mul4x1(mgl64.Vec4{p.X(), p.Y(), p.Z(), 1})
	return mgl64.Vec3{v.X(), v.Y(), v.Z()}
}

// TransformDirection applies the rotational part of a transform to a
// direction vector, ignoring translation.
func TransformDirection(m mgl64.Mat4, d mgl64.Vec3) mgl64.Vec3 {
	v := m.Mul4x1(mgl64.Vec4{d.X(), d.Y(), d.Z(), 0})
	return mgl64.Vec3{v.X(), v.Y(), v.Z()}
}

// LightType distinguishes the light shapes the exporter understands.
type LightType int

const (
	LightPoint LightType = iota
	LightSpot
	LightSun
)

func (t LightType) String() string {
	switch t {
	case LightPoint:
		return "point"
	case LightSpot:
		return "spot"
	case LightSun:
		return "sun"
	}
	return fmt.Sprintf("LightType(%d)", int(t))
}

// ParseLightType resolves a loader string to a LightType.
func ParseLightType(s string) (LightType, error) {
	switch s {
	case "point", "":
		return LightPoint, nil
	case "spot":
		return LightSpot, nil
	case "sun":
		return LightSun, nil
	}
	return 0, fmt.Errorf("unknown light type %q", s)
}

// LightData is a light source. Energy is the source strength before the
// exporter's scaling; Color is linear RGB in [0,1]; SpotAngle is the full
// cone angle in radians and only meaningful for spots. The beam direction
// comes from the object transform's -Z axis.
type LightData struct {
	Type      LightType
	Energy    float64
	Color     [3]float64
	SpotAngle float64
}

// CameraData is a viewpoint. FOV is the horizontal field of view in
// degrees; zero means unset.
type CameraData struct {
	FOV float64
}

// EmptyData is a plain locator with no geometry.
type EmptyData struct{}
