package formats

import (
	"errors"
	"testing"
)

func TestParseMTL_ValidFile(t *testing.T) {
	src := `# library
newmtl wall
Kd 0.8 0.8 0.8
map_Kd textures/wall 01.png

newmtl trim
map_Kd -clamp on trim.tga
`
	mtl, err := ParseMTL([]byte(src))
	if err != nil {
		t.Fatalf("ParseMTL failed: %v", err)
	}

	if len(mtl.Materials) != 2 {
		t.Fatalf("expected 2 materials, got %d", len(mtl.Materials))
	}
	if got := mtl.Materials[0].DiffuseMap; got != "textures/wall 01.png" {
		t.Errorf("plain map_Kd path = %q, want path with spaces intact", got)
	}
	if got := mtl.Materials[1].DiffuseMap; got != "trim.tga" {
		t.Errorf("optioned map_Kd path = %q, want trim.tga", got)
	}
}

func TestParseMTL_MapBeforeNewmtl(t *testing.T) {
	if _, err := ParseMTL([]byte("map_Kd wall.png\n")); !errors.Is(err, ErrMalformedMTL) {
		t.Errorf("expected ErrMalformedMTL, got %v", err)
	}
}

func TestParseMTL_NewmtlWithoutName(t *testing.T) {
	if _, err := ParseMTL([]byte("newmtl\n")); !errors.Is(err, ErrMalformedMTL) {
		t.Errorf("expected ErrMalformedMTL, got %v", err)
	}
}

func TestMTL_Lookup(t *testing.T) {
	mtl := &MTL{Materials: []MTLMaterial{{Name: "wall", DiffuseMap: "wall.png"}}}

	if m := mtl.Lookup("wall"); m == nil || m.DiffuseMap != "wall.png" {
		t.Errorf("Lookup(wall) = %v, want the wall entry", m)
	}
	if m := mtl.Lookup("missing"); m != nil {
		t.Errorf("Lookup(missing) = %v, want nil", m)
	}
}
