package report

import "strings"

// Summary is a one-line report: the title followed by its lines, comma separated.
type Summary struct {
	Title string
	Lines []string
}

var _ Report = (*Summary)(nil)

// NewSummary creates a [Summary] report.
func NewSummary(title string, lines ...string) *Summary {
	return &Summary{Title: title, Lines: lines}
}

func (s *Summary) Name() string { return s.Title }

func (s *Summary) Render() string {
	parts := make([]string, 0, len(s.Lines)+1)
	parts = append(parts, s.Title)
	parts = append(parts, s.Lines...)
	return strings.Join(parts, ", ")
}
