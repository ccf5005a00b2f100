// Package formats loads scene input files into the neutral scene model:
// Wavefront OBJ with sibling MTL libraries, YAML scene documents, and
// texture image size probing for the loaded materials.
package formats

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/mapforge/pkg/scene"
)

// ErrUnsupportedScene is returned for input extensions without a codec.
var ErrUnsupportedScene = errors.New("unsupported scene format")

// LoadScene reads a scene from disk, choosing the codec by extension:
// .obj (with sibling .mtl libraries) or .yaml/.yml scene documents.
// Material image sizes are probed after loading; materials whose images
// cannot be read keep zero dimensions and fall back to the configured
// texture size at export time.
func LoadScene(path string) (*scene.Scene, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		return loadOBJScene(path)
	case ".yaml", ".yml":
		return loadYAMLScene(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScene, ext)
	}
}

func loadOBJScene(path string) (*scene.Scene, error) {
	obj, err := ParseOBJFile(path)
	if err != nil {
		return nil, err
	}
	s := obj.Scene()
	s.Name = sceneName(path)

	dir := filepath.Dir(path)
	for _, lib := range obj.MTLLibs {
		mtl, err := ParseMTLFile(filepath.Join(dir, lib))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("material library %s: %w", lib, err)
		}
		for i := range s.Materials {
			if m := mtl.Lookup(s.Materials[i].Name); m != nil && m.DiffuseMap != "" {
				s.Materials[i].Image = m.DiffuseMap
			}
		}
	}

	resolveMaterialSizes(s, dir)
	return s, nil
}

func loadYAMLScene(path string) (*scene.Scene, error) {
	s, err := ParseSceneYAMLFile(path)
	if err != nil {
		return nil, err
	}
	if s.Name == "" {
		s.Name = sceneName(path)
	}
	resolveMaterialSizes(s, filepath.Dir(path))
	return s, nil
}

func sceneName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// resolveMaterialSizes probes image dimensions for materials that have an
// image but no explicit size. Probe failures are not errors here; the
// exporter substitutes its fallback size for zero dimensions.
func resolveMaterialSizes(s *scene.Scene, dir string) {
	for i := range s.Materials {
		m := &s.Materials[i]
		if m.Image == "" || (m.Width > 0 && m.Height > 0) {
			continue
		}
		p := m.Image
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		if w, h, err := ProbeImageSize(p); err == nil {
			m.Width, m.Height = w, h
		}
	}
}
