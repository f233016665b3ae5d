/*
	MIT License

	Copyright (c) 2019 Christian Muehlhaeuser

	Permission is hereby granted, free of charge, to any person obtaining a copy
	of this software and associated documentation files (the "Software"), to deal
	in the Software without restriction, including without limitation the rights
	to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
	copies of the Software, and to permit persons to whom the Software is
	furnished to do so, subject to the following conditions:

	The above copyright notice and this permission notice shall be included in all
	copies or substantial portions of the Software.

	THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
	IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
	FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
	AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
	LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
	OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
	SOFTWARE.
*/

package logfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// SGR parameter codes. Formatter only ever reaches for bold and blink,
// the two defaultStyle in styleconfig.go actually uses.
const (
	esc = '\x1b'
	csi = string(esc) + "["

	reset = "0"
	bold  = "1"
	blink = "5"
)

// TextStyle is a stack of SGR codes applied together as one span -
// a level tag plus its fields, in Formatter's case.
type TextStyle struct {
	styles []string
}

// WriteStyled writes text to out wrapped in this TextStyle's escape
// sequence, or unstyled if no codes have been applied (a terminal
// termenv decides doesn't support color).
func (t TextStyle) WriteStyled(out io.Writer, text string) (int, error) {
	if len(t.styles) == 0 {
		return fmt.Fprint(out, text)
	}

	seq := strings.Join(t.styles, ";")
	if seq == "" {
		return fmt.Fprint(out, text)
	}

	return fmt.Fprintf(out, "%s%sm%s%sm", csi, seq, text, csi+reset)
}

// foreground sets a foreground color.
func (t TextStyle) foreground(c termenv.Color) TextStyle {
	if c != nil {
		t.styles = append(t.styles, c.Sequence(false))
	}
	return t
}

// background sets a background color.
func (t TextStyle) background(c termenv.Color) TextStyle {
	if c != nil {
		t.styles = append(t.styles, c.Sequence(true))
	}
	return t
}

// Bold enables bold rendering.
func (t TextStyle) Bold() TextStyle {
	t.styles = append(t.styles, bold)
	return t
}

// Blink enables blink mode - reserved for the panic level, so it's the
// one line in a scrolling terminal that's hard to miss.
func (t TextStyle) Blink() TextStyle {
	t.styles = append(t.styles, blink)
	return t
}
