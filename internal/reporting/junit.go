package reporting

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spboyer/dircheck/internal/manager"
	"github.com/spboyer/dircheck/internal/report"
)

// JUnit XML schema types

// JUnitTestSuites is the top-level container.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Time       float64          `xml:"time,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite maps to one run of a profile.
type JUnitTestSuite struct {
	XMLName    xml.Name        `xml:"testsuite"`
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Errors     int             `xml:"errors,attr"`
	Skipped    int             `xml:"skipped,attr"`
	Time       float64         `xml:"time,attr"`
	Timestamp  string          `xml:"timestamp,attr"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	TestCases  []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase maps to one check.
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
	SystemOut string        `xml:"system-out,omitempty"`
}

// JUnitFailure represents a failed check.
type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitSkipped marks a check that had nothing to report.
type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// JUnitProperty is a key-value metadata entry.
type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// ConvertToJUnit converts a Result to JUnit XML structures.
func ConvertToJUnit(res *Result) *JUnitTestSuites {
	durationSec := res.Duration.Seconds()

	suite := JUnitTestSuite{
		Name:      res.Profile,
		Tests:     len(res.Entries),
		Failures:  res.Failures(),
		Time:      durationSec,
		Timestamp: res.Started.Format(time.RFC3339),
		Properties: []JUnitProperty{
			{Name: "run_id", Value: res.ID},
			{Name: "dir", Value: res.Dir},
		},
	}

	for _, e := range res.Entries {
		tc := JUnitTestCase{
			Name:      e.CheckID,
			Classname: "dircheck." + res.Profile,
		}
		switch {
		case e.Failed():
			tc.Failure = buildFailure(e)
		case e.Status == manager.StatusIgnored || e.Report == nil:
			tc.Skipped = &JUnitSkipped{Message: "nothing to report"}
			suite.Skipped++
		default:
			tc.SystemOut = strings.Join(textBody(e.Report), "\n")
		}
		suite.TestCases = append(suite.TestCases, tc)
	}

	return &JUnitTestSuites{
		Tests:      suite.Tests,
		Failures:   suite.Failures,
		Time:       durationSec,
		TestSuites: []JUnitTestSuite{suite},
	}
}

func buildFailure(e Entry) *JUnitFailure {
	var msgs []string
	if er, ok := e.Report.(*report.ErrorReport); ok {
		for _, err := range er.Errors() {
			if err != nil {
				msgs = append(msgs, err.Error())
			}
		}
	}
	if len(msgs) == 0 {
		msgs = []string{"check failed"}
	}

	return &JUnitFailure{
		Message: msgs[0],
		Type:    "CheckError",
		Body:    strings.Join(msgs, "\n"),
	}
}

// WriteJUnit writes res as JUnit XML.
func WriteJUnit(w io.Writer, res *Result) error {
	data, err := xml.MarshalIndent(ConvertToJUnit(res), "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JUnit XML: %w", err)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}
