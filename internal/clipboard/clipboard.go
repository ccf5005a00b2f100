// Package clipboard delivers exported map text to the system clipboard.
//
// Two sinks are available: an SDL one that stores plain text and works
// wherever SDL has a video driver, and a GTK one that stores the text in
// GTK's serialized text buffer format so GTK-based editors paste it
// directly.
package clipboard

import "errors"

// ErrUnavailable reports that a clipboard transport cannot run on this
// system.
var ErrUnavailable = errors.New("clipboard unavailable")

// Sink stores a finished map document somewhere other than a file.
type Sink interface {
	Write(text string) error
}
