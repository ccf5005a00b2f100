package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/mapforge/pkg/scene"
)

// OBJ format errors.
var (
	ErrMalformedOBJ = errors.New("malformed OBJ statement")
	ErrOBJIndex     = errors.New("OBJ face index out of range")
)

// OBJFaceVert references one corner of a face. Indices are 0-based after
// parsing; TexCoord is -1 when the corner carries no vt reference.
type OBJFaceVert struct {
	Vertex   int
	TexCoord int
}

// OBJFace is a single f statement together with the material and group
// state that was active when it appeared.
type OBJFace struct {
	Verts    []OBJFaceVert
	Material string
	Group    string
}

// OBJObject collects the faces of one o block.
type OBJObject struct {
	Name  string
	Faces []OBJFace
}

// OBJ represents a parsed Wavefront OBJ document. The vertex and texture
// coordinate pools are file-global, as in the format itself; objects only
// reference into them.
type OBJ struct {
	Vertices  []mgl64.Vec3
	TexCoords []mgl64.Vec2
	Objects   []OBJObject
	MTLLibs   []string
}

// ParseOBJ parses a Wavefront OBJ document from raw bytes. Geometry
// statements (v, vt, f) and grouping statements (o, g, usemtl, mtllib)
// are interpreted; normals, smoothing groups, points and lines are
// skipped. Face indices may be negative (relative to the current pool
// size) and are validated against the pools.
func ParseOBJ(data []byte) (*OBJ, error) {
	obj := &OBJ{}
	cur := -1 // index into obj.Objects, -1 before the first o statement
	material := ""
	group := ""

	ensure := func() *OBJObject {
		if cur < 0 {
			obj.Objects = append(obj.Objects, OBJObject{Name: "default"})
			cur = len(obj.Objects) - 1
		}
		return &obj.Objects[cur]
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	ln := 0
	for scanner.Scan() {
		ln++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		keyword, args := fields[0], fields[1:]

		switch keyword {
		case "v":
			v, err := parseVec3(args)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w: v: %v", ln, ErrMalformedOBJ, err)
			}
			obj.Vertices = append(obj.Vertices, v)

		case "vt":
			if len(args) < 2 {
				return nil, fmt.Errorf("line %d: %w: vt needs 2 coordinates", ln, ErrMalformedOBJ)
			}
			u, err1 := strconv.ParseFloat(args[0], 64)
			v, err2 := strconv.ParseFloat(args[1], 64)
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("line %d: %w: vt: bad coordinate", ln, ErrMalformedOBJ)
			}
			obj.TexCoords = append(obj.TexCoords, mgl64.Vec2{u, v})

		case "f":
			if len(args) < 3 {
				return nil, fmt.Errorf("line %d: %w: face needs 3 corners", ln, ErrMalformedOBJ)
			}
			face := OBJFace{Material: material, Group: group}
			for _, ref := range args {
				fv, err := obj.parseFaceVert(ref)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", ln, err)
				}
				face.Verts = append(face.Verts, fv)
			}
			o := ensure()
			o.Faces = append(o.Faces, face)

		case "o":
			name := strings.Join(args, " ")
			if name == "" {
				name = "default"
			}
			obj.Objects = append(obj.Objects, OBJObject{Name: name})
			cur = len(obj.Objects) - 1

		case "g":
			group = strings.Join(args, " ")

		case "usemtl":
			material = strings.Join(args, " ")

		case "mtllib":
			obj.MTLLibs = append(obj.MTLLibs, args...)

		default:
			// vn, s, l, p and vendor extensions carry nothing a brush
			// converter can use.
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ data: %w", err)
	}
	return obj, nil
}

// ParseOBJFile parses an OBJ document from disk.
func ParseOBJFile(path string) (*OBJ, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OBJ file: %w", err)
	}
	return ParseOBJ(data)
}

func parseVec3(args []string) (mgl64.Vec3, error) {
	if len(args) < 3 {
		return mgl64.Vec3{}, errors.New("needs 3 coordinates")
	}
	var v mgl64.Vec3
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return mgl64.Vec3{}, fmt.Errorf("bad coordinate %q", args[i])
		}
		v[i] = f
	}
	return v, nil
}

// parseFaceVert resolves one v, v/vt, v//vn or v/vt/vn reference against
// the current pool sizes. OBJ indices are 1-based; negative values count
// back from the end of the pool.
func (o *OBJ) parseFaceVert(ref string) (OBJFaceVert, error) {
	parts := strings.Split(ref, "/")
	vi, err := resolveIndex(parts[0], len(o.Vertices))
	if err != nil {
		return OBJFaceVert{}, fmt.Errorf("%w: vertex %q", ErrOBJIndex, ref)
	}
	fv := OBJFaceVert{Vertex: vi, TexCoord: -1}
	if len(parts) > 1 && parts[1] != "" {
		ti, err := resolveIndex(parts[1], len(o.TexCoords))
		if err != nil {
			return OBJFaceVert{}, fmt.Errorf("%w: texcoord %q", ErrOBJIndex, ref)
		}
		fv.TexCoord = ti
	}
	return fv, nil
}

func resolveIndex(s string, pool int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("bad index %q", s)
	}
	if n < 0 {
		n = pool + n + 1
	}
	if n < 1 || n > pool {
		return 0, fmt.Errorf("index %d outside pool of %d", n, pool)
	}
	return n - 1, nil
}

// Scene converts the document into the exporter's scene model. Each o
// block becomes one object with its own vertex pool; objects without
// faces are dropped. Per-face UVs are carried only when every corner of
// the face references a texture coordinate.
func (o *OBJ) Scene() *scene.Scene {
	s := &scene.Scene{}
	seenMaterials := map[string]bool{}

	for _, src := range o.Objects {
		if len(src.Faces) == 0 {
			continue
		}
		mesh := &scene.MeshData{}
		local := map[int]int{}
		slots := map[string]int{}

		for _, f := range src.Faces {
			face := scene.Face{Material: -1, Group: f.Group}
			withUV := true
			for _, fv := range f.Verts {
				li, ok := local[fv.Vertex]
				if !ok {
					li = len(mesh.Vertices)
					local[fv.Vertex] = li
					mesh.Vertices = append(mesh.Vertices, o.Vertices[fv.Vertex])
				}
				face.Verts = append(face.Verts, li)
				if fv.TexCoord < 0 {
					withUV = false
				}
			}
			if withUV {
				for _, fv := range f.Verts {
					face.UVs = append(face.UVs, o.TexCoords[fv.TexCoord])
				}
			}
			if f.Material != "" {
				slot, ok := slots[f.Material]
				if !ok {
					slot = len(mesh.Materials)
					slots[f.Material] = slot
					mesh.Materials = append(mesh.Materials, f.Material)
				}
				face.Material = slot
				if !seenMaterials[f.Material] {
					seenMaterials[f.Material] = true
					s.Materials = append(s.Materials, scene.Material{Name: f.Material})
				}
			}
			mesh.Faces = append(mesh.Faces, face)
		}

		s.Objects = append(s.Objects, scene.Object{
			Name:      src.Name,
			Transform: scene.IdentityTransform(),
			Data:      mesh,
		})
	}
	return s
}
