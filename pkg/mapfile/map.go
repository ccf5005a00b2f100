// Package mapfile holds the brush/entity document model for idTech .map
// files and the serializer that renders it in the supported grammars. The
// model is plain data; building it is the exporter's job.
package mapfile

import (
	"github.com/Faultbox/mapforge/pkg/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// KeyValue is one entity key. Order is preserved in the output.
type KeyValue struct {
	Key   string
	Value string
}

// Surface is one face of a brush: the supporting plane in both encodings,
// the texture alignment, and the detail marker. Points are ordered in the
// .map winding convention (clockwise seen from the front).
type Surface struct {
	Points  [3]mgl64.Vec3
	Plane   geometry.Plane
	Texture string
	Basis   geometry.TexBasis
	Detail  bool
}

// Brush is an ordered set of surfaces bounding one convex solid.
type Brush struct {
	Surfaces []Surface
}

// Entity is one map entity: ordered keys plus brushes. Point entities
// carry no brushes.
type Entity struct {
	Keys    []KeyValue
	Brushes []Brush
}

// NewEntity returns an entity with its classname set.
func NewEntity(classname string) *Entity {
	return &Entity{Keys: []KeyValue{{Key: "classname", Value: classname}}}
}

// Set overrides an existing key in place or appends a new one, keeping
// the original position of overridden keys.
func (e *Entity) Set(key, value string) {
	for i := range e.Keys {
		if e.Keys[i].Key == key {
			e.Keys[i].Value = value
			return
		}
	}
	e.Keys = append(e.Keys, KeyValue{Key: key, Value: value})
}

// Get returns the value for key and whether it is present.
func (e *Entity) Get(key string) (string, bool) {
	for i := range e.Keys {
		if e.Keys[i].Key == key {
			return e.Keys[i].Value, true
		}
	}
	return "", false
}

// Classname returns the entity's classname key, or "".
func (e *Entity) Classname() string {
	v, _ := e.Get("classname")
	return v
}

// Map is a whole map document. The worldspawn entity comes first.
type Map struct {
	Entities []*Entity
}

// Worldspawn returns the first entity, creating it on first use.
func (m *Map) Worldspawn() *Entity {
	if len(m.Entities) == 0 {
		m.Entities = append(m.Entities, NewEntity("worldspawn"))
	}
	return m.Entities[0]
}

// Append adds a non-world entity.
func (m *Map) Append(e *Entity) {
	m.Entities = append(m.Entities, e)
}

// BrushCount totals the brushes across all entities.
func (m *Map) BrushCount() int {
	n := 0
	for _, e := range m.Entities {
		n += len(e.Brushes)
	}
	return n
}
