// Package report defines the renderable results produced by checks.
//
// A [Report] is anything that can render itself to a display string. The
// variants in this package cover plain summaries, lists of findings,
// rendered markdown and the [ErrorReport] the check manager synthesizes
// when a check fails.
package report

// Report is the result of a single check.
type Report interface {
	// Render returns the display form of the report. It must be pure:
	// repeated calls return identical output.
	Render() string
}

// Format describes the markup a report renders to.
type Format string

const (
	FormatText Format = "text"
	FormatHTML Format = "html"
)

// Named is implemented by reports that carry a display name.
type Named interface {
	Name() string
}

// Formatted is implemented by reports whose Render output is not plain text.
type Formatted interface {
	Format() Format
}

// NameOf returns the report's name, or "" when it has none.
func NameOf(r Report) string {
	if n, ok := r.(Named); ok {
		return n.Name()
	}
	return ""
}

// FormatOf returns the report's format, defaulting to [FormatText].
func FormatOf(r Report) Format {
	if f, ok := r.(Formatted); ok {
		return f.Format()
	}
	return FormatText
}

// IsError reports whether r was synthesized from a failing check.
func IsError(r Report) bool {
	_, ok := r.(*ErrorReport)
	return ok
}
