package dot

import (
	"fmt"
	"io"
	"strings"
)

// defaultIndent is the number of spaces added per indentation level.
const defaultIndent = 2

// Writer is an indentation-tracking text sink. It prefixes each line with
// the current indentation and latches the first write error: once a write
// fails, every later call is a no-op and Err returns the original failure.
//
// The writer exists purely for readability of the emitted document; the
// exporter never depends on indentation for correctness.
type Writer struct {
	w           io.Writer
	indent      int
	atLineStart bool
	err         error
}

// NewWriter wraps w in an indentation-tracking writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, atLineStart: true}
}

// Printf formats and writes text at the current indentation. Embedded
// newlines start fresh lines that are indented when the next text arrives.
func (w *Writer) Printf(format string, args ...any) {
	w.write(fmt.Sprintf(format, args...))
}

// Indent increases the indentation by one level.
func (w *Writer) Indent() { w.indent += defaultIndent }

// Unindent decreases the indentation by one level, never below zero.
func (w *Writer) Unindent() {
	w.indent -= defaultIndent
	if w.indent < 0 {
		w.indent = 0
	}
}

// Scope writes open, runs body one level deeper, and writes close. The
// indentation is restored even when the body fails partway through.
func (w *Writer) Scope(open, close string, body func()) {
	w.write(open)
	w.Indent()
	defer func() {
		w.Unindent()
		w.write(close)
	}()
	body()
}

// Err returns the first write error, if any.
func (w *Writer) Err() error { return w.err }

func (w *Writer) write(s string) {
	if w.err != nil {
		return
	}
	for len(s) > 0 {
		if w.atLineStart && s[0] != '\n' {
			if _, err := io.WriteString(w.w, strings.Repeat(" ", w.indent)); err != nil {
				w.err = err
				return
			}
			w.atLineStart = false
		}

		line := s
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			line = s[:i+1]
			w.atLineStart = true
		}
		s = s[len(line):]

		if _, err := io.WriteString(w.w, line); err != nil {
			w.err = err
			return
		}
	}
}
