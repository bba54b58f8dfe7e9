package report

// ErrorReport renders the errors of a failed check in place of its own report.
type ErrorReport struct {
	name   string
	errors []error
}

var _ Report = (*ErrorReport)(nil)

// NewErrorReport creates an [ErrorReport] for the check called name.
func NewErrorReport(name string, errs []error) *ErrorReport {
	return &ErrorReport{name: name, errors: errs}
}

func (r *ErrorReport) Name() string    { return r.name }
func (r *ErrorReport) Errors() []error { return r.errors }
func (r *ErrorReport) Format() Format  { return FormatHTML }

// Render lists each error message on its own line. Nil errors are skipped.
func (r *ErrorReport) Render() string {
	items := make([]Finding, 0, len(r.errors))
	for _, err := range r.errors {
		if err == nil {
			continue
		}
		items = append(items, Finding{Severity: SeverityError, Message: err.Error()})
	}
	return renderList(items)
}
