package report

import (
	"bytes"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdownRenderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Markdown is a report whose body is markdown source, rendered to HTML.
// Raw HTML in the source is not passed through.
type Markdown struct {
	Title  string
	Source []byte
}

var _ Report = (*Markdown)(nil)

func (m *Markdown) Name() string   { return m.Title }
func (m *Markdown) Format() Format { return FormatHTML }

func (m *Markdown) Render() string {
	var buf bytes.Buffer
	if err := markdownRenderer.Convert(m.Source, &buf); err != nil {
		return "<pre>" + html.EscapeString(string(m.Source)) + "</pre>"
	}
	return buf.String()
}
