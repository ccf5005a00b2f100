//go:build cgo

package clipboard

import (
	"fmt"
	"runtime"
	"time"

	"github.com/veandco/go-sdl2/sdl"
)

func init() {
	// SDL video calls must be made from the main thread
	runtime.LockOSThread()
}

// Write places text on the clipboard. It initializes and shuts down the
// SDL video subsystem around the call.
func (s *SDLSink) Write(text string) error {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return fmt.Errorf("%w: SDL_Init failed: %v", ErrUnavailable, err)
	}
	defer sdl.Quit()

	if err := sdl.SetClipboardText(text); err != nil {
		return fmt.Errorf("SDL_SetClipboardText failed: %w", err)
	}

	deadline := time.Now().Add(s.HoldTime)
	for time.Now().Before(deadline) {
		for sdl.PollEvent() != nil {
		}
		sdl.Delay(20)
	}

	return nil
}
