// Package diagnostic renders positioned errors as annotated source
// snippets.
package diagnostic

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/cera-lang/cera/core/text"
	"github.com/cera-lang/cera/runtime/lexer"
)

const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorGray   = "\033[90m"
)

// Colorize wraps text in ANSI color codes if color is enabled.
func Colorize(text, color string, useColor bool) string {
	if !useColor {
		return text
	}
	return color + text + ColorReset
}

// Diagnostic is an error message anchored to a region of a source file.
type Diagnostic struct {
	File    string
	Message string
	Span    text.Span
	Hint    string
}

type spanner interface {
	Span() text.Span
}

// FromError builds a diagnostic for err. Errors without a span point at
// the start of the source. When no token matched, the hint echoes the
// unmatched remainder of the line.
func FromError(file string, idx *text.Index, err error) Diagnostic {
	d := Diagnostic{File: file, Message: err.Error()}
	var s spanner
	if errors.As(err, &s) {
		d.Span = clampSpan(s.Span(), len(idx.Source()))
	}
	if errors.Is(err, lexer.ErrNoMatch) {
		if rest := remainderOfLine(idx, d.Span.Offset); rest != "" {
			d.Hint = fmt.Sprintf("unmatched input: %q", rest)
		}
	}
	return d
}

// Render writes d in the style
//
//	error: message
//	  --> file:line:column
//	   |
//	 2 | source line
//	   |     ^~~
func Render(w io.Writer, idx *text.Index, d Diagnostic, useColor bool) error {
	var b strings.Builder
	b.WriteString(Colorize("error: ", ColorRed, useColor))
	b.WriteString(d.Message)
	b.WriteString("\n")

	line, column := idx.Location(d.Span.Offset)
	location := fmt.Sprintf("%d:%d", line, column)
	if d.File != "" {
		location = d.File + ":" + location
	}

	gutter := len(fmt.Sprint(line))
	pad := strings.Repeat(" ", gutter)
	bar := Colorize("|", ColorBlue, useColor)

	fmt.Fprintf(&b, "%s%s %s\n", pad, Colorize("-->", ColorBlue, useColor), location)

	content, ok := idx.Line(line - 1)
	if ok {
		content = strings.TrimRight(content, "\r\n")
		fmt.Fprintf(&b, "%s %s\n", pad, bar)
		fmt.Fprintf(&b, "%s %s %s\n", Colorize(fmt.Sprint(line), ColorBlue, useColor), bar, content)
		marker := caret(idx, d.Span)
		fmt.Fprintf(&b, "%s %s %s%s\n", pad, bar, strings.Repeat(" ", column-1), Colorize(marker, ColorRed, useColor))
	}

	if d.Hint != "" {
		fmt.Fprintf(&b, "%s %s %s\n", pad, Colorize("=", ColorBlue, useColor), Colorize("hint: "+d.Hint, ColorYellow, useColor))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// caret underlines the span on its first line: one '^' followed by a '~'
// for every further rune.
func caret(idx *text.Index, span text.Span) string {
	covered := span.Slice(idx.Source())
	if i := strings.IndexByte(covered, '\n'); i >= 0 {
		covered = covered[:i]
	}
	width := max(utf8.RuneCountInString(strings.TrimRight(covered, "\r")), 1)
	return "^" + strings.Repeat("~", width-1)
}

func remainderOfLine(idx *text.Index, offset int) string {
	rest := idx.Source()[offset:]
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[:i]
	}
	return strings.TrimRight(rest, "\r")
}

func clampSpan(s text.Span, size int) text.Span {
	s.Offset = min(max(s.Offset, 0), size)
	s.Len = min(max(s.Len, 0), size-s.Offset)
	return s
}
