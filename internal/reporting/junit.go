package reporting

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strings"
)

// JUnit XML schema types. Each ranked model is one test case.

// JUnitTestSuites is the top-level container.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite maps to one evaluation run.
type JUnitTestSuite struct {
	XMLName    xml.Name        `xml:"testsuite"`
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Skipped    int             `xml:"skipped,attr"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	TestCases  []JUnitTestCase `xml:"testcase"`
	SystemErr  string          `xml:"system-err,omitempty"`
}

// JUnitTestCase maps to one model.
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
}

// JUnitFailure marks a model whose INF is undefined.
type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitSkipped marks a run that could not be ranked.
type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// JUnitProperty is a key-value metadata entry.
type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// ConvertToJUnit converts a report to JUnit XML types.
func ConvertToJUnit(r *Report) *JUnitTestSuites {
	suite := JUnitTestSuite{
		Name: "rnative " + r.Mode,
		Properties: []JUnitProperty{
			{Name: "run_id", Value: r.RunID},
			{Name: "mode", Value: r.Mode},
			{Name: "confidence", Value: fmt.Sprintf("%.4f", r.Confidence)},
			{Name: "threshold", Value: fmt.Sprintf("%d", r.Threshold)},
			{Name: "consensus_size", Value: fmt.Sprintf("%d", len(r.Interactions))},
			{Name: "warnings", Value: fmt.Sprintf("%d", len(r.Warnings))},
		},
		SystemErr: strings.Join(r.Warnings, "\n"),
	}

	if !r.Rankable {
		suite.Tests = 1
		suite.Skipped = 1
		suite.TestCases = []JUnitTestCase{{
			Name:      "ranking",
			Classname: r.Mode,
			Skipped:   &JUnitSkipped{Message: "not enough models to rank"},
		}}
	}

	for _, row := range r.Ranking {
		tc := JUnitTestCase{
			Name:      row.Model,
			Classname: r.Mode,
		}
		if math.IsNaN(row.INF) {
			tc.Failure = &JUnitFailure{
				Message: fmt.Sprintf("%s: INF undefined", row.Model),
				Type:    "UndefinedScore",
				Body:    "the model and the consensus share no comparable interactions",
			}
			suite.Failures++
		}
		suite.TestCases = append(suite.TestCases, tc)
		suite.Tests++
	}

	return &JUnitTestSuites{
		Tests:      suite.Tests,
		Failures:   suite.Failures,
		TestSuites: []JUnitTestSuite{suite},
	}
}

// WriteJUnit writes the report as JUnit XML.
func WriteJUnit(w io.Writer, r *Report) error {
	data, err := xml.MarshalIndent(ConvertToJUnit(r), "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JUnit XML: %w", err)
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
