// Package output renders command results, notices and errors for the CLI in
// either plain text or indented JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Format selects how command output is rendered.
type Format string

// Recognized formats. FormatAuto resolves at startup: text when stdout is a
// terminal, JSON when output is piped.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatAuto Format = "auto"
)

// Formatter writes command output in one resolved format.
type Formatter struct {
	format Format
	writer io.Writer
}

// NewFormatter returns a formatter bound to w.
func NewFormatter(format Format, w io.Writer) *Formatter {
	return &Formatter{format: format, writer: w}
}

// Format reports the resolved output format.
func (f *Formatter) Format() Format {
	return f.format
}

// Writer exposes the destination for helpers that render directly.
func (f *Formatter) Writer() io.Writer {
	return f.writer
}

// IsJSON reports whether output is rendered as JSON.
func (f *Formatter) IsJSON() bool {
	return f.format == FormatJSON
}

// Print renders v: indented JSON in JSON mode, a plain line otherwise.
func (f *Formatter) Print(v any) error {
	if f.format == FormatJSON {
		enc := json.NewEncoder(f.writer)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	switch val := v.(type) {
	case string:
		_, err := fmt.Fprintln(f.writer, val)
		return err
	case fmt.Stringer:
		_, err := fmt.Fprintln(f.writer, val.String())
		return err
	default:
		_, err := fmt.Fprintf(f.writer, "%v\n", val)
		return err
	}
}

// Printf writes formatted text output.
func (f *Formatter) Printf(format string, args ...any) error {
	_, err := fmt.Fprintf(f.writer, format, args...)
	return err
}

// Println writes a line of text output.
func (f *Formatter) Println(args ...any) error {
	_, err := fmt.Fprintln(f.writer, args...)
	return err
}

// DetectFormat resolves FormatAuto against the destination: text for a
// terminal, JSON for anything else. Explicit formats pass through.
func DetectFormat(w io.Writer, explicit Format) Format {
	if explicit != FormatAuto {
		return explicit
	}

	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) { //nolint:gosec // G115: Fd fits an int on supported platforms
		return FormatText
	}
	return FormatJSON
}

// ParseFormat maps a user-supplied format name to a Format, falling back to
// auto-detection for anything unrecognized.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON
	case "text":
		return FormatText
	default:
		return FormatAuto
	}
}
