package report

import (
	"fmt"
	"html"
	"html/template"
	"strings"
)

// Severity classifies a single finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Finding is one line item of a [Findings] report.
type Finding struct {
	Severity Severity
	// Path is relative to the checked directory. Optional.
	Path    string
	Message string
}

func (f Finding) String() string {
	if f.Path == "" {
		return fmt.Sprintf("%s: %s", f.Severity, f.Message)
	}
	return fmt.Sprintf("%s: %s: %s", f.Severity, f.Path, f.Message)
}

// listTemplate renders findings as an unstyled list, one <li> per line. An
// empty list renders as "<ul class=\"list-unstyled\"></ul>".
var listTemplate = template.Must(template.New("list").Parse(
	"<ul class=\"list-unstyled\">{{range .}}\n" +
		"\t<li><span class=\"{{.Severity}} label\">{{.Severity}}</span>{{if .Path}}<code>{{.Path}}</code> {{end}}{{.Message}}</li>" +
		"{{end}}{{if .}}\n{{end}}</ul>"))

func renderList(items []Finding) string {
	var b strings.Builder
	if err := listTemplate.Execute(&b, items); err != nil {
		return html.EscapeString(err.Error())
	}
	return b.String()
}

// Findings is a titled list of findings, rendered as HTML.
type Findings struct {
	Title string
	Items []Finding
}

var _ Report = (*Findings)(nil)

func (f *Findings) Name() string   { return f.Title }
func (f *Findings) Format() Format { return FormatHTML }
func (f *Findings) Render() string { return renderList(f.Items) }

// Count returns the number of findings with the given severity.
func (f *Findings) Count(sev Severity) int {
	n := 0
	for _, it := range f.Items {
		if it.Severity == sev {
			n++
		}
	}
	return n
}
