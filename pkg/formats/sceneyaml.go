package formats

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/mapforge/pkg/scene"
)

// ErrSceneDocument is returned when a YAML scene document is structurally
// invalid: unknown modes, dangling indices, or an object without exactly
// one data block.
var ErrSceneDocument = errors.New("invalid scene document")

// The YAML scene document mirrors the scene model one to one. An object
// carries exactly one of the data blocks (mesh, curve, metaball, nurbs,
// light, camera, empty); faces name materials instead of holding slot
// numbers, and angles are written in degrees.
type sceneDoc struct {
	Name      string        `yaml:"name"`
	Materials []materialDoc `yaml:"materials"`
	Objects   []objectDoc   `yaml:"objects"`
}

type materialDoc struct {
	Name   string `yaml:"name"`
	Image  string `yaml:"image"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type objectDoc struct {
	Name        string        `yaml:"name"`
	Collections []string      `yaml:"collections"`
	Mode        string        `yaml:"mode"`
	Properties  propertyList  `yaml:"properties"`
	Transform   *transformDoc `yaml:"transform"`

	Mesh     *meshDoc     `yaml:"mesh"`
	Curve    *curveDoc    `yaml:"curve"`
	Metaball *metaballDoc `yaml:"metaball"`
	Nurbs    *nurbsDoc    `yaml:"nurbs"`
	Light    *lightDoc    `yaml:"light"`
	Camera   *cameraDoc   `yaml:"camera"`
	Empty    *struct{}    `yaml:"empty"`
}

type transformDoc struct {
	Translate *[3]float64 `yaml:"translate"`
	Rotate    *[3]float64 `yaml:"rotate"` // XYZ euler, degrees
	Scale     *[3]float64 `yaml:"scale"`
}

type meshDoc struct {
	Vertices [][3]float64 `yaml:"vertices"`
	Faces    []faceDoc    `yaml:"faces"`
}

type faceDoc struct {
	Verts    []int        `yaml:"verts"`
	UVs      [][2]float64 `yaml:"uvs"`
	Material string       `yaml:"material"`
	Group    string       `yaml:"group"`
}

type curveDoc struct {
	Width    float64     `yaml:"width"`
	Extrude  float64     `yaml:"extrude"`
	Material string      `yaml:"material"`
	Splines  []splineDoc `yaml:"splines"`
}

type splineDoc struct {
	Points [][3]float64 `yaml:"points"`
	Cyclic bool         `yaml:"cyclic"`
}

type metaballDoc struct {
	Resolution int          `yaml:"resolution"`
	Material   string       `yaml:"material"`
	Elements   []elementDoc `yaml:"elements"`
}

type elementDoc struct {
	Center [3]float64 `yaml:"center"`
	Radius float64    `yaml:"radius"`
}

type nurbsDoc struct {
	Points      [][][3]float64 `yaml:"points"` // rows along u, columns along v
	Weights     [][]float64    `yaml:"weights"`
	OrderU      int            `yaml:"order_u"`
	OrderV      int            `yaml:"order_v"`
	ResolutionU int            `yaml:"resolution_u"`
	ResolutionV int            `yaml:"resolution_v"`
	Material    string         `yaml:"material"`
}

type lightDoc struct {
	Type      string      `yaml:"type"`
	Energy    float64     `yaml:"energy"`
	Color     *[3]float64 `yaml:"color"`
	SpotAngle float64     `yaml:"spot_angle"` // degrees, full cone
}

type cameraDoc struct {
	FOV float64 `yaml:"fov"`
}

// propertyList preserves the file order of the properties mapping, which
// plain map decoding would lose.
type propertyList struct {
	props scene.Properties
}

func (p *propertyList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("properties must be a mapping, got %s", value.Tag)
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		k, v := value.Content[i], value.Content[i+1]
		var pv scene.PropValue
		switch v.Tag {
		case "!!int", "!!float":
			f, err := strconv.ParseFloat(v.Value, 64)
			if err != nil {
				return fmt.Errorf("property %q: %v", k.Value, err)
			}
			pv = scene.NumberValue(f)
		case "!!bool":
			b, err := strconv.ParseBool(v.Value)
			if err != nil {
				return fmt.Errorf("property %q: %v", k.Value, err)
			}
			pv = scene.BoolValue(b)
		default:
			pv = scene.StringValue(v.Value)
		}
		p.props.Set(k.Value, pv)
	}
	return nil
}

// ParseSceneYAML parses a YAML scene document into the scene model.
func ParseSceneYAML(data []byte) (*scene.Scene, error) {
	var doc sceneDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSceneDocument, err)
	}

	s := &scene.Scene{Name: doc.Name}
	for _, m := range doc.Materials {
		s.Materials = append(s.Materials, scene.Material{
			Name:   m.Name,
			Image:  m.Image,
			Width:  m.Width,
			Height: m.Height,
		})
	}

	for i, od := range doc.Objects {
		obj, err := od.object()
		if err != nil {
			return nil, fmt.Errorf("object %d (%s): %w", i, od.Name, err)
		}
		registerMaterials(s, obj)
		s.Objects = append(s.Objects, obj)
	}
	return s, nil
}

// ParseSceneYAMLFile parses a YAML scene document from disk.
func ParseSceneYAMLFile(path string) (*scene.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene file: %w", err)
	}
	return ParseSceneYAML(data)
}

func (od *objectDoc) object() (scene.Object, error) {
	obj := scene.Object{
		Name:        od.Name,
		Collections: od.Collections,
		Transform:   od.Transform.matrix(),
		Properties:  od.Properties.props,
	}

	mode, err := scene.ParseMode(od.Mode)
	if err != nil {
		return scene.Object{}, fmt.Errorf("%w: %v", ErrSceneDocument, err)
	}
	obj.Mode = mode

	data, err := od.data()
	if err != nil {
		return scene.Object{}, err
	}
	obj.Data = data
	return obj, nil
}

// data picks the single populated block and converts it.
func (od *objectDoc) data() (scene.ObjectData, error) {
	var (
		out   scene.ObjectData
		count int
		err   error
	)
	if od.Mesh != nil {
		count++
		out, err = od.Mesh.data()
	}
	if od.Curve != nil {
		count++
		out = od.Curve.data()
	}
	if od.Metaball != nil {
		count++
		out = od.Metaball.data()
	}
	if od.Nurbs != nil {
		count++
		out = od.Nurbs.data()
	}
	if od.Light != nil {
		count++
		out, err = od.Light.data()
	}
	if od.Camera != nil {
		count++
		out = &scene.CameraData{FOV: od.Camera.FOV}
	}
	if od.Empty != nil {
		count++
		out = &scene.EmptyData{}
	}
	if err != nil {
		return nil, err
	}
	if count != 1 {
		return nil, fmt.Errorf("%w: object needs exactly one data block, has %d", ErrSceneDocument, count)
	}
	return out, nil
}

func (t *transformDoc) matrix() mgl64.Mat4 {
	if t == nil {
		return scene.IdentityTransform()
	}
	m := mgl64.Ident4()
	if t.Translate != nil {
		m = mgl64.Translate3D(t.Translate[0], t.Translate[1], t.Translate[2])
	}
	if t.Rotate != nil {
		rx := mgl64.DegToRad(t.Rotate[0])
		ry := mgl64.DegToRad(t.Rotate[1])
		rz := mgl64.DegToRad(t.Rotate[2])
		// XYZ euler order: X is applied first.
		m = m.Mul4(mgl64.HomogRotate3DZ(rz)).Mul4(mgl64.HomogRotate3DY(ry)).Mul4(mgl64.HomogRotate3DX(rx))
	}
	if t.Scale != nil {
		m = m.Mul4(mgl64.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
	}
	return m
}

func (md *meshDoc) data() (scene.ObjectData, error) {
	mesh := &scene.MeshData{}
	for _, v := range md.Vertices {
		mesh.Vertices = append(mesh.Vertices, mgl64.Vec3{v[0], v[1], v[2]})
	}

	slots := map[string]int{}
	for fi, fd := range md.Faces {
		face := scene.Face{Material: -1, Group: fd.Group}
		for _, vi := range fd.Verts {
			if vi < 0 || vi >= len(mesh.Vertices) {
				return nil, fmt.Errorf("%w: face %d references vertex %d of %d", ErrSceneDocument, fi, vi, len(mesh.Vertices))
			}
			face.Verts = append(face.Verts, vi)
		}
		if len(fd.UVs) > 0 {
			if len(fd.UVs) != len(fd.Verts) {
				return nil, fmt.Errorf("%w: face %d has %d uvs for %d vertices", ErrSceneDocument, fi, len(fd.UVs), len(fd.Verts))
			}
			for _, uv := range fd.UVs {
				face.UVs = append(face.UVs, mgl64.Vec2{uv[0], uv[1]})
			}
		}
		if fd.Material != "" {
			slot, ok := slots[fd.Material]
			if !ok {
				slot = len(mesh.Materials)
				slots[fd.Material] = slot
				mesh.Materials = append(mesh.Materials, fd.Material)
			}
			face.Material = slot
		}
		mesh.Faces = append(mesh.Faces, face)
	}
	return mesh, nil
}

func (cd *curveDoc) data() scene.ObjectData {
	curve := &scene.CurveData{
		Width:    cd.Width,
		Extrude:  cd.Extrude,
		Material: cd.Material,
	}
	for _, sd := range cd.Splines {
		sp := scene.CurveSpline{Cyclic: sd.Cyclic}
		for _, p := range sd.Points {
			sp.Points = append(sp.Points, mgl64.Vec3{p[0], p[1], p[2]})
		}
		curve.Splines = append(curve.Splines, sp)
	}
	return curve
}

func (md *metaballDoc) data() scene.ObjectData {
	mb := &scene.MetaballData{
		Resolution: md.Resolution,
		Material:   md.Material,
	}
	for _, ed := range md.Elements {
		mb.Elements = append(mb.Elements, scene.MetaballElement{
			Center: mgl64.Vec3{ed.Center[0], ed.Center[1], ed.Center[2]},
			Radius: ed.Radius,
		})
	}
	return mb
}

func (nd *nurbsDoc) data() scene.ObjectData {
	nurbs := &scene.NurbsData{
		OrderU:      nd.OrderU,
		OrderV:      nd.OrderV,
		ResolutionU: nd.ResolutionU,
		ResolutionV: nd.ResolutionV,
		Material:    nd.Material,
	}
	for _, row := range nd.Points {
		var pts []mgl64.Vec3
		for _, p := range row {
			pts = append(pts, mgl64.Vec3{p[0], p[1], p[2]})
		}
		nurbs.ControlPoints = append(nurbs.ControlPoints, pts)
	}
	nurbs.Weights = nd.Weights
	return nurbs
}

func (ld *lightDoc) data() (scene.ObjectData, error) {
	typ, err := scene.ParseLightType(ld.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSceneDocument, err)
	}
	light := &scene.LightData{
		Type:      typ,
		Energy:    ld.Energy,
		Color:     [3]float64{1, 1, 1},
		SpotAngle: ld.SpotAngle * math.Pi / 180,
	}
	if ld.Color != nil {
		light.Color = *ld.Color
	}
	return light, nil
}

// registerMaterials appends object-referenced material names that the
// materials section did not declare, so sizing falls back cleanly.
func registerMaterials(s *scene.Scene, obj scene.Object) {
	var names []string
	switch d := obj.Data.(type) {
	case *scene.MeshData:
		names = d.Materials
	case *scene.CurveData:
		names = []string{d.Material}
	case *scene.MetaballData:
		names = []string{d.Material}
	case *scene.NurbsData:
		names = []string{d.Material}
	}
	for _, name := range names {
		if name != "" && s.MaterialByName(name) == nil {
			s.Materials = append(s.Materials, scene.Material{Name: name})
		}
	}
}
