package clipboard

import (
	"bytes"
	"strings"
)

// gtkRichTextTarget is the selection target GTK text widgets request
// when pasting rich text.
const gtkRichTextTarget = "application/x-gtk-text-buffer-rich-text"

// gtkHeader opens every serialized text buffer. GTK rejects payloads
// that do not start with it.
const gtkHeader = "GTKTEXTBUFFERCONTENTS-0001"

// GTKSink stores text on the clipboard in GTK's serialized text buffer
// format. GTK editors, GtkRadiant among them, deserialize that target on
// paste. The transport only exists on Linux.
type GTKSink struct{}

// NewGTKSink returns a GTK clipboard sink.
func NewGTKSink() *GTKSink {
	return &GTKSink{}
}

// gtkTextBufferContents wraps plain text in GTK's rich text
// serialization: the version header, an empty tag table and the text as
// escaped PCDATA.
func gtkTextBufferContents(text string) []byte {
	var buf bytes.Buffer
	buf.WriteString(gtkHeader)
	buf.WriteString("<text_view_markup>\n <tags>\n </tags>\n <text>")
	buf.WriteString(markupEscaper.Replace(text))
	buf.WriteString("</text>\n</text_view_markup>\n")
	return buf.Bytes()
}

// markupEscaper covers the characters a g_markup parser treats
// specially in PCDATA. Newlines and quotes pass through untouched.
var markupEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
