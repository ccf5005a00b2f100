package formats

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/mapforge/pkg/scene"
)

const cubeOBJ = `# two quads sharing vertices
mtllib cube.mtl
o slab
v 0 0 0
v 64 0 0
v 64 64 0
v 0 64 0
v 0 0 32
vt 0 0
vt 1 0
vt 1 1
vt 0 1
usemtl wall
f 1/1 2/2 3/3 4/4
g trim
f -5/-4 -1/-1 -2/-2
`

func TestParseOBJ_ValidFile(t *testing.T) {
	obj, err := ParseOBJ([]byte(cubeOBJ))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}

	if len(obj.Vertices) != 5 {
		t.Errorf("expected 5 vertices, got %d", len(obj.Vertices))
	}
	if len(obj.TexCoords) != 4 {
		t.Errorf("expected 4 texcoords, got %d", len(obj.TexCoords))
	}
	if len(obj.MTLLibs) != 1 || obj.MTLLibs[0] != "cube.mtl" {
		t.Errorf("expected mtllib cube.mtl, got %v", obj.MTLLibs)
	}
	if len(obj.Objects) != 1 {
		t.Fatalf("expected 1 object, got %d", len(obj.Objects))
	}

	o := obj.Objects[0]
	if o.Name != "slab" {
		t.Errorf("object name = %q, want slab", o.Name)
	}
	if len(o.Faces) != 2 {
		t.Fatalf("expected 2 faces, got %d", len(o.Faces))
	}
	if o.Faces[0].Material != "wall" || o.Faces[1].Material != "wall" {
		t.Errorf("expected both faces on material wall, got %q and %q", o.Faces[0].Material, o.Faces[1].Material)
	}
	if o.Faces[0].Group != "" || o.Faces[1].Group != "trim" {
		t.Errorf("expected group change before second face, got %q and %q", o.Faces[0].Group, o.Faces[1].Group)
	}
}

func TestParseOBJ_NegativeIndices(t *testing.T) {
	obj, err := ParseOBJ([]byte(cubeOBJ))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}

	// f -5/-4 -1/-1 -2/-2 against pools of 5 vertices and 4 texcoords.
	face := obj.Objects[0].Faces[1]
	wantVerts := []int{0, 4, 3}
	wantTexco := []int{0, 3, 2}
	for i, fv := range face.Verts {
		if fv.Vertex != wantVerts[i] {
			t.Errorf("corner %d vertex = %d, want %d", i, fv.Vertex, wantVerts[i])
		}
		if fv.TexCoord != wantTexco[i] {
			t.Errorf("corner %d texcoord = %d, want %d", i, fv.TexCoord, wantTexco[i])
		}
	}
}

func TestParseOBJ_IndexOutOfRange(t *testing.T) {
	tests := []string{
		"v 0 0 0\nf 1 2 3\n",
		"v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n",
		"v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1/1 2/1 3/1\n",
		"v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n",
	}
	for _, src := range tests {
		if _, err := ParseOBJ([]byte(src)); !errors.Is(err, ErrOBJIndex) {
			t.Errorf("expected ErrOBJIndex for %q, got %v", src, err)
		}
	}
}

func TestParseOBJ_Malformed(t *testing.T) {
	tests := []string{
		"v 1 2\n",
		"v a b c\n",
		"vt 0.5\n",
		"v 0 0 0\nv 1 0 0\nf 1 2\n",
	}
	for _, src := range tests {
		if _, err := ParseOBJ([]byte(src)); !errors.Is(err, ErrMalformedOBJ) {
			t.Errorf("expected ErrMalformedOBJ for %q, got %v", src, err)
		}
	}
}

func TestParseOBJ_SkipsUnknownStatements(t *testing.T) {
	src := "vn 0 0 1\ns off\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1//1 2//1 3//1\n"
	obj, err := ParseOBJ([]byte(src))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	face := obj.Objects[0].Faces[0]
	for i, fv := range face.Verts {
		if fv.TexCoord != -1 {
			t.Errorf("corner %d: v//vn reference must leave texcoord at -1, got %d", i, fv.TexCoord)
		}
	}
}

func TestOBJ_Scene(t *testing.T) {
	obj, err := ParseOBJ([]byte(cubeOBJ))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	s := obj.Scene()

	if len(s.Objects) != 1 {
		t.Fatalf("expected 1 scene object, got %d", len(s.Objects))
	}
	mesh, ok := s.Objects[0].Data.(*scene.MeshData)
	if !ok {
		t.Fatalf("expected mesh data, got %T", s.Objects[0].Data)
	}
	if len(mesh.Vertices) != 5 {
		t.Errorf("expected all 5 used vertices in local pool, got %d", len(mesh.Vertices))
	}
	if len(mesh.Faces) != 2 {
		t.Fatalf("expected 2 faces, got %d", len(mesh.Faces))
	}

	quad := mesh.Faces[0]
	if len(quad.UVs) != 4 {
		t.Fatalf("expected quad UVs carried, got %d", len(quad.UVs))
	}
	if quad.UVs[2] != (mgl64.Vec2{1, 1}) {
		t.Errorf("quad UV[2] = %v, want (1,1)", quad.UVs[2])
	}
	if quad.Material != 0 || mesh.Materials[0] != "wall" {
		t.Errorf("expected material slot 0 = wall, got slot %d of %v", quad.Material, mesh.Materials)
	}

	if len(s.Materials) != 1 || s.Materials[0].Name != "wall" {
		t.Errorf("expected scene material registry [wall], got %v", s.Materials)
	}
	if s.Objects[0].Transform != scene.IdentityTransform() {
		t.Error("OBJ objects must carry the identity transform")
	}
}

func TestOBJ_SceneDropsEmptyObjects(t *testing.T) {
	src := "o empty\no full\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"
	obj, err := ParseOBJ([]byte(src))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	s := obj.Scene()
	if len(s.Objects) != 1 || s.Objects[0].Name != "full" {
		t.Errorf("expected only the object with faces, got %d objects", len(s.Objects))
	}

	mesh := s.Objects[0].Data.(*scene.MeshData)
	if len(mesh.Faces[0].UVs) != 0 {
		t.Errorf("faces without vt references must carry no UVs, got %d", len(mesh.Faces[0].UVs))
	}
}
