package mapfile

import (
	"testing"
)

func TestEntitySetOverridesInPlace(t *testing.T) {
	e := NewEntity("light")
	e.Set("origin", "0 0 32")
	e.Set("classname", "light_torch")

	if len(e.Keys) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(e.Keys))
	}
	if e.Keys[0].Key != "classname" || e.Keys[0].Value != "light_torch" {
		t.Errorf("expected classname overridden in place, got %+v", e.Keys[0])
	}
	if e.Classname() != "light_torch" {
		t.Errorf("Classname() = %q, want light_torch", e.Classname())
	}
	if _, ok := e.Get("missing"); ok {
		t.Error("expected missing key to report absent")
	}
}

func TestMapWorldspawn(t *testing.T) {
	var m Map
	ws := m.Worldspawn()
	if ws.Classname() != "worldspawn" {
		t.Errorf("expected worldspawn classname, got %q", ws.Classname())
	}
	if m.Worldspawn() != ws {
		t.Error("Worldspawn must return the same entity on repeat calls")
	}

	m.Append(NewEntity("info_null"))
	if len(m.Entities) != 2 {
		t.Errorf("expected 2 entities, got %d", len(m.Entities))
	}
}

func TestBrushCount(t *testing.T) {
	var m Map
	ws := m.Worldspawn()
	ws.Brushes = append(ws.Brushes, Brush{}, Brush{})
	e := NewEntity("func_detail")
	e.Brushes = append(e.Brushes, Brush{})
	m.Append(e)

	if got := m.BrushCount(); got != 3 {
		t.Errorf("BrushCount() = %d, want 3", got)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"quake", FormatQuake},
		{"q1", FormatQuake},
		{"halflife", FormatHalfLife},
		{"goldsrc", FormatHalfLife},
		{"quake2", FormatQuake2},
		{"quake3", FormatQuake3},
		{"doom3", FormatDoom3},
		{"quake4", FormatQuake4},
	}
	for _, tc := range tests {
		got, err := ParseFormat(tc.in)
		if err != nil {
			t.Errorf("ParseFormat(%q) failed: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	if _, err := ParseFormat("quake5"); err == nil {
		t.Error("expected error for unknown format")
	}
}
