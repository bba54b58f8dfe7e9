package reporting

import (
	"encoding/json"
	"io"
	"time"

	"github.com/spboyer/dircheck/internal/report"
)

type jsonResult struct {
	ID         string      `json:"id"`
	Dir        string      `json:"dir"`
	Profile    string      `json:"profile"`
	Timestamp  time.Time   `json:"timestamp"`
	DurationMs int64       `json:"duration_ms"`
	Failures   int         `json:"failures"`
	Checks     []jsonEntry `json:"checks"`
}

type jsonEntry struct {
	Check  string   `json:"check"`
	Status string   `json:"status"`
	Name   string   `json:"name,omitempty"`
	Format string   `json:"format,omitempty"`
	Body   string   `json:"body,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

// WriteJSON writes res as an indented JSON document.
func WriteJSON(w io.Writer, res *Result) error {
	out := jsonResult{
		ID:         res.ID,
		Dir:        res.Dir,
		Profile:    res.Profile,
		Timestamp:  res.Started.UTC(),
		DurationMs: res.Duration.Milliseconds(),
		Failures:   res.Failures(),
		Checks:     make([]jsonEntry, 0, len(res.Entries)),
	}
	for _, e := range res.Entries {
		je := jsonEntry{Check: e.CheckID, Status: string(e.Status)}
		if e.Report != nil {
			je.Name = report.NameOf(e.Report)
			je.Format = string(report.FormatOf(e.Report))
			je.Body = e.Report.Render()
		}
		if er, ok := e.Report.(*report.ErrorReport); ok {
			for _, err := range er.Errors() {
				if err != nil {
					je.Errors = append(je.Errors, err.Error())
				}
			}
		}
		out.Checks = append(out.Checks, je)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
