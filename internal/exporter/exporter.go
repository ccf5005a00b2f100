// Package exporter runs the conversion pipeline: normalize scene
// geometry per brush mode, derive planes and texture bases, assemble
// brushes and entities, serialize the document.
package exporter

import (
	"errors"
	"strings"
	"time"

	"github.com/Faultbox/mapforge/internal/config"
	"github.com/Faultbox/mapforge/pkg/geometry"
	"github.com/Faultbox/mapforge/pkg/mapfile"
	"github.com/Faultbox/mapforge/pkg/scene"
	"github.com/go-gl/mathgl/mgl64"
)

// Per-object failure causes. They arrive in Result.Warnings wrapped with
// the object's name.
var (
	// ErrNoGeometry flags an object whose mesh kept no usable faces.
	ErrNoGeometry = errors.New("no usable geometry")
	// ErrEmptyBrush flags coincident opposing planes, which leave the
	// brush without an interior.
	ErrEmptyBrush = errors.New("opposing planes leave an empty brush")
	// ErrOpenBrush flags a brush with fewer than four distinct planes.
	ErrOpenBrush = errors.New("fewer than four planes cannot close a brush")
	// ErrNotConvex flags faces that do not bound a convex solid.
	ErrNotConvex = errors.New("faces do not bound a convex solid")
)

// Warning is one per-object problem the export survived.
type Warning struct {
	Object string
	Err    error
}

func (w Warning) String() string {
	return w.Object + ": " + w.Err.Error()
}

// Stats summarizes one export run. Objects counts scene objects that
// contributed output; Skipped counts objects dropped with a warning.
type Stats struct {
	Objects       int
	Brushes       int
	PointEntities int
	Skipped       int
	Elapsed       time.Duration
}

// Result is the outcome of an export: the finished document text plus
// everything non-fatal that went wrong on the way there.
type Result struct {
	Text     string
	Warnings []Warning
	Stats    Stats
}

// Export converts a scene into map text. Configuration problems are
// fatal and surface before any geometry work; per-object geometry
// failures become warnings and the export continues without the object.
func Export(s *scene.Scene, cfg config.Config) (*Result, error) {
	start := time.Now()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	format, err := cfg.Format()
	if err != nil {
		return nil, err
	}
	conv, err := cfg.Convention()
	if err != nil {
		return nil, err
	}
	mode, err := cfg.Mode()
	if err != nil {
		return nil, err
	}

	e := &exportRun{
		scene:  s,
		cfg:    cfg,
		format: format,
		conv:   conv,
		mode:   mode,
		doc:    &mapfile.Map{},
	}

	world := e.doc.Worldspawn()
	if conv == geometry.ConventionValve {
		world.Set("mapversion", "220")
	}
	for i := range s.Objects {
		e.object(&s.Objects[i])
	}

	res := &Result{
		Text:     mapfile.Marshal(e.doc, format, cfg.Texturing.Precision),
		Warnings: e.warnings,
		Stats:    e.stats,
	}
	res.Stats.Elapsed = time.Since(start)
	return res, nil
}

// exportRun carries the state of one export pass.
type exportRun struct {
	scene  *scene.Scene
	cfg    config.Config
	format mapfile.Format
	conv   geometry.Convention
	mode   scene.Mode

	doc      *mapfile.Map
	warnings []Warning
	stats    Stats
}

func (e *exportRun) warn(object string, err error) {
	e.warnings = append(e.warnings, Warning{Object: object, Err: err})
}

func (e *exportRun) skip(object string, err error) {
	e.warn(object, err)
	e.stats.Skipped++
}

func (e *exportRun) object(obj *scene.Object) {
	switch data := obj.Data.(type) {
	case *scene.LightData:
		e.light(obj, data)
	case *scene.CameraData:
		e.camera(obj, data)
	case *scene.EmptyData:
		e.empty(obj)
	default:
		e.solid(obj)
	}
}

// solid runs the geometry path: convert the payload to a mesh, bake
// transforms, normalize for the resolved brush mode and assemble.
func (e *exportRun) solid(obj *scene.Object) {
	mesh, err := scene.ToMesh(obj.Data)
	if err != nil {
		e.skip(obj.Name, err)
		return
	}
	mesh = e.bake(obj, mesh)

	mode := obj.Mode
	if mode == scene.ModeUnset {
		mode = e.mode
	}

	var brushes []mapfile.Brush
	switch mode {
	case scene.ModeHull:
		mesh = mesh.Snapped(e.cfg.Geometry.Grid)
		brushes, err = e.hullBrush(obj, mesh)
	case scene.ModeAsIs:
		mesh = mesh.Snapped(e.cfg.Geometry.Grid)
		mesh = splitIrregular(mesh)
		brushes, err = e.asisBrush(obj, mesh)
	default:
		if e.cfg.Geometry.TriangulateTJs {
			mesh = splitStraightCorners(mesh)
		}
		mesh = mesh.Snapped(e.cfg.Geometry.Grid)
		mesh = splitIrregular(mesh)
		brushes, err = e.pyramidBrushes(obj, mesh)
	}
	if err != nil {
		e.skip(obj.Name, err)
		return
	}

	e.stats.Objects++
	e.stats.Brushes += len(brushes)
	target := e.target(obj)
	target.Brushes = append(target.Brushes, brushes...)
}

// bake folds the object transform and the global scale into the mesh
// vertices. Scale applies even when the transform is left alone, since
// it converts scene units into map units.
func (e *exportRun) bake(obj *scene.Object, m *scene.MeshData) *scene.MeshData {
	s := e.cfg.Geometry.Scale
	t := mgl64.Scale3D(s, s, s)
	if e.cfg.Geometry.ApplyTransform {
		t = t.Mul4(obj.Transform)
	}
	return m.Transformed(t)
}

// target picks the entity that owns an object's brushes. Objects with
// custom properties become their own brush entity; a missing classname
// falls back to func_group, which compilers fold back into the world.
func (e *exportRun) target(obj *scene.Object) *mapfile.Entity {
	if len(obj.Properties) == 0 {
		return e.doc.Worldspawn()
	}
	ent := mapfile.NewEntity("func_group")
	e.applyProperties(ent, obj.Properties)
	e.doc.Append(ent)
	return ent
}

// applyProperties copies custom properties onto an entity in author
// order. Keys may override generated ones, classname included.
func (e *exportRun) applyProperties(ent *mapfile.Entity, props scene.Properties) {
	for _, p := range props {
		ent.Set(p.Key, e.propValue(p.Value))
	}
}

func (e *exportRun) propValue(v scene.PropValue) string {
	switch v.Kind {
	case scene.PropNumber:
		return e.num(v.Num)
	case scene.PropBool:
		if v.Bool {
			return "1"
		}
		return "0"
	default:
		return v.Str
	}
}

// texture resolves a face's texture name and pixel size. Unassigned
// faces take the fallback texture; materials without a usable image size
// take the fallback size. Spaces in material names become underscores
// because the grammars split fields on whitespace.
func (e *exportRun) texture(m *scene.MeshData, f scene.Face) (string, int, int) {
	name := m.MaterialOf(f)
	if name == "" {
		return e.cfg.Texturing.Fallback, e.cfg.Texturing.FallbackWidth, e.cfg.Texturing.FallbackHeight
	}
	w, h := e.cfg.Texturing.FallbackWidth, e.cfg.Texturing.FallbackHeight
	if mat := e.scene.MaterialByName(name); mat != nil && mat.Width > 0 && mat.Height > 0 {
		w, h = mat.Width, mat.Height
	}
	return strings.ReplaceAll(name, " ", "_"), w, h
}

// isDetail matches the configured substring against the object's naming
// chain: object name, every collection it sits in, then the face group.
func (e *exportRun) isDetail(obj *scene.Object, group string) bool {
	match := strings.ToLower(e.cfg.Entities.DetailMatch)
	if strings.Contains(strings.ToLower(obj.Name), match) {
		return true
	}
	for _, c := range obj.Collections {
		if strings.Contains(strings.ToLower(c), match) {
			return true
		}
	}
	return group != "" && strings.Contains(strings.ToLower(group), match)
}

func (e *exportRun) num(v float64) string {
	return mapfile.FormatNum(v, e.cfg.Texturing.Precision)
}

func (e *exportRun) vec(p mgl64.Vec3) string {
	return e.num(p.X()) + " " + e.num(p.Y()) + " " + e.num(p.Z())
}
