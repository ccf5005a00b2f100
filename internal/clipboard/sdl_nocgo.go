//go:build !cgo

package clipboard

import "fmt"

// Write reports that the SDL transport needs cgo to reach SDL.
func (s *SDLSink) Write(text string) error {
	return fmt.Errorf("%w: the SDL clipboard destination requires cgo", ErrUnavailable)
}
