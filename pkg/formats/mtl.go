package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrMalformedMTL is returned for statements outside a newmtl block.
var ErrMalformedMTL = errors.New("malformed MTL statement")

// MTLMaterial is one newmtl block reduced to what texture sizing needs.
type MTLMaterial struct {
	Name       string
	DiffuseMap string
}

// MTL represents a parsed material library.
type MTL struct {
	Materials []MTLMaterial
}

// Lookup returns the material with the given name, or nil.
func (m *MTL) Lookup(name string) *MTLMaterial {
	for i := range m.Materials {
		if m.Materials[i].Name == name {
			return &m.Materials[i]
		}
	}
	return nil
}

// ParseMTL parses a Wavefront material library. Only newmtl and map_Kd
// are interpreted; shading coefficients have no brush equivalent. map_Kd
// option flags are not evaluated: when present, the last token is taken
// as the image path, otherwise the full remainder (paths may contain
// spaces).
func ParseMTL(data []byte) (*MTL, error) {
	mtl := &MTL{}
	cur := -1

	scanner := bufio.NewScanner(bytes.NewReader(data))
	ln := 0
	for scanner.Scan() {
		ln++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		keyword, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch keyword {
		case "newmtl":
			if rest == "" {
				return nil, fmt.Errorf("line %d: %w: newmtl without a name", ln, ErrMalformedMTL)
			}
			mtl.Materials = append(mtl.Materials, MTLMaterial{Name: rest})
			cur = len(mtl.Materials) - 1

		case "map_Kd":
			if cur < 0 {
				return nil, fmt.Errorf("line %d: %w: map_Kd before newmtl", ln, ErrMalformedMTL)
			}
			mtl.Materials[cur].DiffuseMap = diffuseMapPath(rest)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading MTL data: %w", err)
	}
	return mtl, nil
}

// ParseMTLFile parses a material library from disk.
func ParseMTLFile(path string) (*MTL, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading MTL file: %w", err)
	}
	return ParseMTL(data)
}

func diffuseMapPath(rest string) string {
	if !strings.HasPrefix(rest, "-") {
		return rest
	}
	fields := strings.Fields(rest)
	return fields[len(fields)-1]
}
