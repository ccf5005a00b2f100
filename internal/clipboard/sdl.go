package clipboard

import "time"

// defaultHoldTime is how long the SDL sink keeps the video subsystem
// alive after the write. X11 selection ownership dies with the owning
// process, so the pause gives a clipboard manager a chance to claim the
// contents before we quit.
const defaultHoldTime = 500 * time.Millisecond

// SDLSink stores plain text on the system clipboard through SDL.
type SDLSink struct {
	HoldTime time.Duration
}

// NewSDLSink returns an SDL clipboard sink with the default hold time.
func NewSDLSink() *SDLSink {
	return &SDLSink{HoldTime: defaultHoldTime}
}
