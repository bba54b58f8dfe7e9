package reporting

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"

	"github.com/spboyer/dircheck/internal/manager"
	"github.com/spboyer/dircheck/internal/report"
)

type textStyles struct {
	title   lipgloss.Style
	heading lipgloss.Style
	ok      lipgloss.Style
	failed  lipgloss.Style
	muted   lipgloss.Style
}

func newTextStyles(w io.Writer, color bool) textStyles {
	if !color {
		plain := lipgloss.NewStyle()
		return textStyles{title: plain, heading: plain, ok: plain, failed: plain, muted: plain}
	}
	r := lipgloss.NewRenderer(w)
	return textStyles{
		title:   r.NewStyle().Bold(true),
		heading: r.NewStyle().Bold(true).Underline(true),
		ok:      r.NewStyle().Foreground(lipgloss.Color("2")),
		failed:  r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		muted:   r.NewStyle().Faint(true),
	}
}

func (s textStyles) status(st manager.Status) string {
	switch st {
	case manager.StatusFailed:
		return s.failed.Render("FAIL")
	case manager.StatusIgnored:
		return s.muted.Render("skip")
	default:
		return s.ok.Render("ok")
	}
}

// WriteText writes a human-readable rendering of res: one section per
// report followed by a summary table.
func WriteText(w io.Writer, res *Result, opts Options) error {
	st := newTextStyles(w, opts.Color)
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", st.title.Render("dircheck"), st.muted.Render(fmt.Sprintf("profile %s in %s", res.Profile, res.Dir)))

	for _, e := range res.Entries {
		if e.Report == nil {
			continue
		}
		fmt.Fprintf(&b, "\n%s %s\n", st.heading.Render(e.CheckID), st.status(e.Status))
		for _, line := range textBody(e.Report) {
			fmt.Fprintf(&b, "  %s\n", line)
		}
	}
	b.WriteString("\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"#", "Check", "Status", "Summary"})
	for i, e := range res.Entries {
		tw.AppendRow(table.Row{i + 1, e.CheckID, st.status(e.Status), truncate(synopsis(e), opts.Width)})
	}
	tw.Render()

	verdict := res.Verdict()
	if res.Failures() > 0 {
		verdict = st.failed.Render(verdict)
	} else {
		verdict = st.ok.Render(verdict)
	}
	_, err := fmt.Fprintf(w, "\n%s\n", verdict)
	return err
}

// textBody returns the plain-text lines for a report.
func textBody(r report.Report) []string {
	switch rep := r.(type) {
	case *report.ErrorReport:
		var lines []string
		for _, err := range rep.Errors() {
			if err != nil {
				lines = append(lines, "✗ "+err.Error())
			}
		}
		return lines
	case *report.Findings:
		lines := make([]string, 0, len(rep.Items))
		for _, f := range rep.Items {
			lines = append(lines, f.String())
		}
		if len(lines) == 0 {
			lines = append(lines, rep.Title+": no findings")
		}
		return lines
	case *report.Markdown:
		return strings.Split(strings.TrimRight(string(rep.Source), "\n"), "\n")
	default:
		return strings.Split(strings.TrimRight(r.Render(), "\n"), "\n")
	}
}

// truncate shortens s to fit in the cell budget left over from width, using
// display width so wide runes are accounted for.
func truncate(s string, width int) string {
	const reserved = 30 // index, check id, status and borders
	if width <= 0 {
		return s
	}
	limit := width - reserved
	if limit < 10 {
		limit = 10
	}
	return runewidth.Truncate(s, limit, "…")
}
