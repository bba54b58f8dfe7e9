// Package reporting renders the outcome of a run as text, HTML, JSON or
// JUnit XML.
package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spboyer/dircheck/internal/manager"
	"github.com/spboyer/dircheck/internal/report"
)

// Entry is the outcome of one check of the profile.
type Entry struct {
	CheckID string
	Status  manager.Status
	// Report is nil when the check had nothing to report.
	Report report.Report
}

// Failed reports whether the entry holds an error report.
func (e Entry) Failed() bool {
	return e.Status == manager.StatusFailed || report.IsError(e.Report)
}

// Result is one completed run.
type Result struct {
	ID       string
	Dir      string
	Profile  string
	Started  time.Time
	Duration time.Duration
	Entries  []Entry
	// Stylesheets are extra CSS rules for the HTML page, contributed by the
	// checks of the run.
	Stylesheets []string
}

// NewResult pairs the checks of a run with the reports the manager
// delivered. statuses holds the settled status of each check by profile
// position; reports holds only the non-ignored ones, in order. Without
// statuses, entries are derived from the reports alone.
func NewResult(dir, profileName string, ids []string, statuses []manager.Status, reports []report.Report) *Result {
	res := &Result{
		ID:      uuid.NewString(),
		Dir:     dir,
		Profile: profileName,
		Started: time.Now(),
	}

	if len(statuses) != len(ids) {
		for _, r := range reports {
			st := manager.StatusSucceeded
			if report.IsError(r) {
				st = manager.StatusFailed
			}
			res.Entries = append(res.Entries, Entry{CheckID: report.NameOf(r), Status: st, Report: r})
		}
		return res
	}

	next := 0
	for i, id := range ids {
		e := Entry{CheckID: id, Status: statuses[i]}
		if e.Status != manager.StatusIgnored && next < len(reports) {
			e.Report = reports[next]
			next++
		}
		res.Entries = append(res.Entries, e)
	}
	return res
}

// Failures returns the number of failed checks.
func (r *Result) Failures() int {
	n := 0
	for _, e := range r.Entries {
		if e.Failed() {
			n++
		}
	}
	return n
}

// Verdict returns a one-line plain-language summary of the run.
func (r *Result) Verdict() string {
	total := len(r.Entries)
	failed := r.Failures()
	switch {
	case total == 0:
		return "No checks configured"
	case failed == 0:
		return fmt.Sprintf("All %d checks passed", total)
	case failed == total:
		return fmt.Sprintf("All %d checks failed", total)
	default:
		return fmt.Sprintf("%d of %d checks failed", failed, total)
	}
}

// synopsis condenses an entry to a single line for tables.
func synopsis(e Entry) string {
	switch rep := e.Report.(type) {
	case nil:
		return "nothing to report"
	case *report.ErrorReport:
		var msgs []string
		for _, err := range rep.Errors() {
			msgs = append(msgs, err.Error())
		}
		return strings.Join(msgs, "; ")
	case *report.Findings:
		return fmt.Sprintf("%s: %d errors, %d warnings",
			rep.Title, rep.Count(report.SeverityError), rep.Count(report.SeverityWarning))
	case *report.Markdown:
		return "rendered " + rep.Title
	default:
		if report.FormatOf(rep) == report.FormatHTML {
			return report.NameOf(rep)
		}
		return firstLine(rep.Render())
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
