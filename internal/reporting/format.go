package reporting

import (
	"fmt"
	"io"
	"strings"
)

// Format selects how a Result is written.
type Format string

const (
	FormatText  Format = "text"
	FormatHTML  Format = "html"
	FormatJSON  Format = "json"
	FormatJUnit Format = "junit"
)

// Formats lists the supported output formats.
func Formats() []Format {
	return []Format{FormatText, FormatHTML, FormatJSON, FormatJUnit}
}

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (want one of text, html, json, junit)", s)
}

// Options tune text output.
type Options struct {
	Color bool
	// Width truncates table cells to fit; zero disables truncation.
	Width int
}

// Write renders res to w in the given format.
func Write(w io.Writer, res *Result, f Format, opts Options) error {
	switch f {
	case FormatText:
		return WriteText(w, res, opts)
	case FormatHTML:
		return WriteHTML(w, res)
	case FormatJSON:
		return WriteJSON(w, res)
	case FormatJUnit:
		return WriteJUnit(w, res)
	default:
		return fmt.Errorf("unknown output format %q", f)
	}
}
