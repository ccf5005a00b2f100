package mapfile

import (
	"testing"

	"github.com/Faultbox/mapforge/pkg/geometry"
)

func TestSupportsConvention(t *testing.T) {
	tests := []struct {
		format Format
		conv   geometry.Convention
		want   bool
	}{
		{FormatQuake, geometry.ConventionStandard, true},
		{FormatQuake, geometry.ConventionValve, true},
		{FormatQuake, geometry.ConventionBrushPrimitives, false},
		{FormatHalfLife, geometry.ConventionValve, true},
		{FormatHalfLife, geometry.ConventionStandard, false},
		{FormatQuake2, geometry.ConventionStandard, true},
		{FormatQuake2, geometry.ConventionBrushPrimitives, false},
		{FormatQuake3, geometry.ConventionStandard, true},
		{FormatQuake3, geometry.ConventionValve, true},
		{FormatQuake3, geometry.ConventionBrushPrimitives, true},
		{FormatDoom3, geometry.ConventionBrushPrimitives, true},
		{FormatDoom3, geometry.ConventionValve, false},
		{FormatQuake4, geometry.ConventionBrushPrimitives, true},
		{FormatQuake4, geometry.ConventionStandard, false},
	}
	for _, tc := range tests {
		if got := tc.format.SupportsConvention(tc.conv); got != tc.want {
			t.Errorf("%v.SupportsConvention(%v) = %v, want %v", tc.format, tc.conv, got, tc.want)
		}
	}
}

func TestDefaultConventionIsSupported(t *testing.T) {
	formats := []Format{FormatQuake, FormatHalfLife, FormatQuake2, FormatQuake3, FormatDoom3, FormatQuake4}
	for _, f := range formats {
		if !f.SupportsConvention(f.DefaultConvention()) {
			t.Errorf("%v default convention %v is not encodable in its own grammar", f, f.DefaultConvention())
		}
	}
}

func TestDetailContents(t *testing.T) {
	if got := FormatQuake2.DetailContents(true); got != ContentsDetail {
		t.Errorf("quake2 detail contents = %d, want %d", got, ContentsDetail)
	}
	if got := FormatQuake3.DetailContents(true); got != ContentsDetail {
		t.Errorf("quake3 detail contents = %d, want %d", got, ContentsDetail)
	}
	if got := FormatQuake2.DetailContents(false); got != 0 {
		t.Errorf("non-detail contents = %d, want 0", got)
	}
	// Doom 3 writes the triple but has no detail bit in it.
	if got := FormatDoom3.DetailContents(true); got != 0 {
		t.Errorf("doom3 detail contents = %d, want 0", got)
	}
}

func TestVersionHeader(t *testing.T) {
	if got := FormatDoom3.VersionHeader(); got != "Version 2" {
		t.Errorf("doom3 header = %q", got)
	}
	if got := FormatQuake4.VersionHeader(); got != "Version 3" {
		t.Errorf("quake4 header = %q", got)
	}
	if got := FormatQuake.VersionHeader(); got != "" {
		t.Errorf("quake header = %q, want empty", got)
	}
}
