package exporter

import (
	"math"

	"github.com/Faultbox/mapforge/pkg/mapfile"
	"github.com/Faultbox/mapforge/pkg/scene"
	"github.com/go-gl/mathgl/mgl64"
)

// light emits one light source. Point and spot lights become light
// entities; a sun folds into worldspawn keys understood by the modern
// Quake light compilers, since idTech maps have no sun entity.
func (e *exportRun) light(obj *scene.Object, d *scene.LightData) {
	value := d.Energy * e.cfg.Entities.LightScale * e.cfg.Geometry.Scale

	if d.Type == scene.LightSun {
		world := e.doc.Worldspawn()
		world.Set("_sunlight", e.num(value))
		world.Set("_sun_mangle", e.mangle(obj))
		if !whiteColor(d.Color) {
			world.Set("_sunlight_color", e.color(d.Color))
		}
		e.applyProperties(world, obj.Properties)
		e.stats.Objects++
		return
	}

	ent := mapfile.NewEntity("light")
	ent.Set("origin", e.origin(obj))
	ent.Set("light", e.num(value))
	if !whiteColor(d.Color) {
		ent.Set("_color", e.color(d.Color))
	}
	if d.Type == scene.LightSpot {
		ent.Set("mangle", e.mangle(obj))
		ent.Set("angle", e.num(d.SpotAngle*180/math.Pi))
	}
	e.finishPoint(ent, obj)
}

// camera becomes an intermission viewpoint looking down its -Z axis.
func (e *exportRun) camera(obj *scene.Object, d *scene.CameraData) {
	ent := mapfile.NewEntity("info_intermission")
	ent.Set("origin", e.origin(obj))
	ent.Set("mangle", e.mangle(obj))
	if d.FOV > 0 {
		ent.Set("fov", e.num(d.FOV))
	}
	e.finishPoint(ent, obj)
}

// empty becomes a bare positional marker.
func (e *exportRun) empty(obj *scene.Object) {
	ent := mapfile.NewEntity("info_null")
	ent.Set("origin", e.origin(obj))
	e.finishPoint(ent, obj)
}

func (e *exportRun) finishPoint(ent *mapfile.Entity, obj *scene.Object) {
	e.applyProperties(ent, obj.Properties)
	e.doc.Append(ent)
	e.stats.Objects++
	e.stats.PointEntities++
}

// origin is the transform translation scaled to map units. Point
// entities never grid-snap: a light nudged off the grid stays where the
// author put it.
func (e *exportRun) origin(obj *scene.Object) string {
	p := scene.TransformPoint(obj.Transform, mgl64.Vec3{}).Mul(e.cfg.Geometry.Scale)
	return e.vec(p)
}

// mangle renders the object's -Z axis as "yaw pitch roll" degrees with
// roll pinned to zero. A degenerate axis aims straight down.
func (e *exportRun) mangle(obj *scene.Object) string {
	d := scene.TransformDirection(obj.Transform, mgl64.Vec3{0, 0, -1})
	if d.Len() < 1e-12 {
		return "0 -90 0"
	}
	d = d.Normalize()
	yaw := math.Atan2(d.Y(), d.X()) * 180 / math.Pi
	z := d.Z()
	if z > 1 {
		z = 1
	} else if z < -1 {
		z = -1
	}
	pitch := math.Asin(z) * 180 / math.Pi
	return e.num(yaw) + " " + e.num(pitch) + " 0"
}

func whiteColor(c [3]float64) bool {
	return c == [3]float64{1, 1, 1}
}

func (e *exportRun) color(c [3]float64) string {
	return e.num(c[0]) + " " + e.num(c[1]) + " " + e.num(c[2])
}
