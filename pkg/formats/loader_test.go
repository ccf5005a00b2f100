package formats

import (
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

const roomOBJ = `mtllib room.mtl
o floor
v 0 0 0
v 64 0 0
v 64 64 0
usemtl wall
f 1 2 3
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s failed: %v", path, err)
	}
}

func TestLoadScene_OBJWithMaterials(t *testing.T) {
	dir := t.TempDir()
	writeTestImage(t, filepath.Join(dir, "wall.png"), png.Encode)
	writeFile(t, filepath.Join(dir, "room.mtl"), "newmtl wall\nmap_Kd wall.png\n")
	writeFile(t, filepath.Join(dir, "room.obj"), roomOBJ)

	s, err := LoadScene(filepath.Join(dir, "room.obj"))
	if err != nil {
		t.Fatalf("LoadScene failed: %v", err)
	}

	if s.Name != "room" {
		t.Errorf("scene name = %q, want room", s.Name)
	}
	mat := s.MaterialByName("wall")
	if mat == nil {
		t.Fatal("material wall missing from the registry")
	}
	if mat.Image != "wall.png" {
		t.Errorf("material image = %q, want wall.png", mat.Image)
	}
	if mat.Width != 48 || mat.Height != 32 {
		t.Errorf("probed size = %dx%d, want 48x32", mat.Width, mat.Height)
	}
}

func TestLoadScene_MissingMTLIsIgnored(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "room.obj"), roomOBJ)

	s, err := LoadScene(filepath.Join(dir, "room.obj"))
	if err != nil {
		t.Fatalf("LoadScene failed: %v", err)
	}
	mat := s.MaterialByName("wall")
	if mat == nil || mat.Image != "" || mat.Width != 0 {
		t.Errorf("material without library must stay unsized, got %+v", mat)
	}
}

func TestLoadScene_YAMLProbesImages(t *testing.T) {
	dir := t.TempDir()
	writeTestImage(t, filepath.Join(dir, "floor.png"), png.Encode)
	writeFile(t, filepath.Join(dir, "level.yaml"), `materials:
  - name: floor
    image: floor.png
objects:
  - name: origin
    empty: {}
`)

	s, err := LoadScene(filepath.Join(dir, "level.yaml"))
	if err != nil {
		t.Fatalf("LoadScene failed: %v", err)
	}
	if s.Name != "level" {
		t.Errorf("scene name = %q, want level from the file name", s.Name)
	}
	mat := s.MaterialByName("floor")
	if mat == nil || mat.Width != 48 || mat.Height != 32 {
		t.Errorf("expected probed 48x32 floor material, got %+v", mat)
	}
}

func TestLoadScene_ExplicitSizeSkipsProbe(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "level.yaml"), `materials:
  - name: floor
    image: absent.png
    width: 256
    height: 128
objects:
  - name: origin
    empty: {}
`)

	s, err := LoadScene(filepath.Join(dir, "level.yaml"))
	if err != nil {
		t.Fatalf("LoadScene failed: %v", err)
	}
	mat := s.MaterialByName("floor")
	if mat == nil || mat.Width != 256 || mat.Height != 128 {
		t.Errorf("explicit size must survive a missing image, got %+v", mat)
	}
}

func TestLoadScene_UnsupportedExtension(t *testing.T) {
	if _, err := LoadScene("scene.fbx"); !errors.Is(err, ErrUnsupportedScene) {
		t.Errorf("expected ErrUnsupportedScene, got %v", err)
	}
}
