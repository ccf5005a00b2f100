package formats

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
)

// ErrUnsupportedImage is returned for image extensions without a decoder.
var ErrUnsupportedImage = errors.New("unsupported image format")

// ProbeImageSize reads just enough of an image file to report its pixel
// dimensions. The decoder is picked by extension; TGA in particular has
// no magic bytes to sniff.
func ProbeImageSize(path string) (width, height int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("probing image size: %w", err)
	}
	defer f.Close()

	var cfg image.Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		cfg, err = png.DecodeConfig(f)
	case ".jpg", ".jpeg":
		cfg, err = jpeg.DecodeConfig(f)
	case ".bmp":
		cfg, err = bmp.DecodeConfig(f)
	case ".tga":
		cfg, err = tga.DecodeConfig(f)
	default:
		return 0, 0, fmt.Errorf("%w: %q", ErrUnsupportedImage, ext)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("probing %s: %w", filepath.Base(path), err)
	}
	return cfg.Width, cfg.Height, nil
}
