//go:build linux

package clipboard

import (
	"bytes"
	"fmt"
	"os/exec"
)

// Write serializes text into GTK's rich text format and hands it to
// xclip, which forks a child to own the selection after we exit.
func (s *GTKSink) Write(text string) error {
	if _, err := exec.LookPath("xclip"); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	cmd := exec.Command("xclip", "-selection", "clipboard", "-t", gtkRichTextTarget)
	cmd.Stdin = bytes.NewReader(gtkTextBufferContents(text))
	// No stdout or stderr pipes: the forked selection owner inherits
	// them and Run would block on the open descriptors.
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("xclip failed: %w", err)
	}

	return nil
}
