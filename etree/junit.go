// Package etree renders crawl reports as JUnit XML using etree, so CI
// systems can show each broken link as a failed test.
package etree

import (
	"fmt"
	"io"
	"strconv"

	"github.com/beevik/etree"
	"github.com/fwojciec/deadlinks"
)

// Ensure JUnitWriter implements deadlinks.ReportWriter at compile time.
var _ deadlinks.ReportWriter = (*JUnitWriter)(nil)

// JUnitWriter writes a report as a single JUnit test suite. Each finding is
// a failed test case whose class is the page it was found on. A report
// without findings has one passing case for the seed.
type JUnitWriter struct{}

// NewJUnitWriter creates a new JUnitWriter.
func NewJUnitWriter() *JUnitWriter {
	return &JUnitWriter{}
}

// WriteReport writes the report as indented JUnit XML.
func (jw *JUnitWriter) WriteReport(w io.Writer, report *deadlinks.Report) error {
	doc := Document(report)
	_, err := doc.WriteTo(w)
	return err
}

// Document builds the JUnit document for a report.
func Document(report *deadlinks.Report) *etree.Document {
	links := append([]deadlinks.BrokenLink(nil), report.Broken...)
	deadlinks.SortBrokenLinks(links)

	tests := len(links)
	if tests == 0 {
		tests = 1
	}
	seconds := formatSeconds(report.Duration().Seconds())

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	suites := doc.CreateElement("testsuites")
	suites.CreateAttr("name", "deadlinks")
	suites.CreateAttr("tests", strconv.Itoa(tests))
	suites.CreateAttr("failures", strconv.Itoa(len(links)))
	suites.CreateAttr("time", seconds)

	suite := suites.CreateElement("testsuite")
	suite.CreateAttr("name", report.Seed)
	suite.CreateAttr("id", report.RunID)
	suite.CreateAttr("tests", strconv.Itoa(tests))
	suite.CreateAttr("failures", strconv.Itoa(len(links)))
	suite.CreateAttr("errors", "0")
	suite.CreateAttr("time", seconds)
	if !report.StartedAt.IsZero() {
		suite.CreateAttr("timestamp", report.StartedAt.UTC().Format("2006-01-02T15:04:05"))
	}

	props := suite.CreateElement("properties")
	addProperty(props, "domain", report.Domain)
	addProperty(props, "visited", strconv.Itoa(report.Visited))
	addProperty(props, "digest", report.Digest)

	if len(links) == 0 {
		tc := suite.CreateElement("testcase")
		tc.CreateAttr("classname", report.Seed)
		tc.CreateAttr("name", "no broken links")
	}

	for _, l := range links {
		kind, url, reason := deadlinks.ParseDetail(l.Detail)
		name := url
		if name == "" {
			name = l.Detail
		}

		tc := suite.CreateElement("testcase")
		tc.CreateAttr("classname", l.Origin)
		tc.CreateAttr("name", name)

		failure := tc.CreateElement("failure")
		failure.CreateAttr("message", reason)
		if kind != "" {
			failure.CreateAttr("type", string(kind))
		}
		failure.SetText(l.String())
	}

	doc.Indent(2)
	return doc
}

func addProperty(props *etree.Element, name, value string) {
	p := props.CreateElement("property")
	p.CreateAttr("name", name)
	p.CreateAttr("value", value)
}

func formatSeconds(s float64) string {
	return fmt.Sprintf("%.3f", s)
}
