//go:build !linux

package clipboard

import "fmt"

// Write reports that the GTK transport is Linux-only.
func (s *GTKSink) Write(text string) error {
	return fmt.Errorf("%w: the GTK clipboard destination requires Linux", ErrUnavailable)
}
