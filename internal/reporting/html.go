package reporting

import (
	"html/template"
	"io"
	"time"

	"github.com/spboyer/dircheck/internal/report"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>dircheck: {{.Profile}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
.label { display: inline-block; padding: 0 .4em; margin-right: .5em; border-radius: 3px; color: #fff; font-size: 80%; }
.error { background: #c0392b; }
.warning { background: #d68910; }
.info { background: #2e86c1; }
.list-unstyled { list-style: none; padding-left: 0; }
section.failed h2 { color: #c0392b; }
{{range .Styles}}{{.}}
{{end}}</style>
</head>
<body>
<h1>{{.Profile}}</h1>
<p>{{.Dir}} &middot; {{.Started}} &middot; run {{.ID}}</p>
<p><strong>{{.Verdict}}</strong></p>
{{range .Sections}}<section class="{{.Status}}">
<h2>{{.CheckID}}</h2>
{{.Body}}
</section>
{{end}}</body>
</html>
`))

type htmlSection struct {
	CheckID string
	Status  string
	Body    template.HTML
}

type htmlPage struct {
	ID       string
	Profile  string
	Dir      string
	Started  string
	Verdict  string
	Styles   []template.CSS
	Sections []htmlSection
}

// WriteHTML writes res as a standalone HTML page. Reports that render HTML
// are embedded as they are; text reports are escaped into a <pre> block.
func WriteHTML(w io.Writer, res *Result) error {
	page := htmlPage{
		ID:      res.ID,
		Profile: res.Profile,
		Dir:     res.Dir,
		Started: res.Started.Format(time.RFC3339),
		Verdict: res.Verdict(),
	}
	for _, css := range res.Stylesheets {
		page.Styles = append(page.Styles, template.CSS(css)) //nolint:gosec
	}
	for _, e := range res.Entries {
		if e.Report == nil {
			continue
		}
		page.Sections = append(page.Sections, htmlSection{
			CheckID: e.CheckID,
			Status:  string(e.Status),
			Body:    htmlBody(e.Report),
		})
	}
	return pageTemplate.Execute(w, page)
}

func htmlBody(r report.Report) template.HTML {
	if report.FormatOf(r) == report.FormatHTML {
		return template.HTML(r.Render()) //nolint:gosec
	}
	return template.HTML("<pre>" + template.HTMLEscapeString(r.Render()) + "</pre>") //nolint:gosec
}
