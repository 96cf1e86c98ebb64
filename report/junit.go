/*
NaiveSystems Analyze - A tool for static code analysis
Copyright (C) 2023  Naive Systems Ltd.

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package report

import (
	"encoding/xml"
	"fmt"
	"html"
)

type JUnitReport struct {
	XMLName    xml.Name          `xml:"testsuites"`
	Testsuites []*JUnitTestsuite `xml:"testsuite"`
}

type JUnitTestsuite struct {
	XMLName   xml.Name         `xml:"testsuite"`
	Name      string           `xml:"name,attr"`
	Tests     int              `xml:"tests,attr"`
	Failures  int              `xml:"failures,attr"`
	Testcases []*JUnitTestcase `xml:"testcase"`
}

type JUnitTestcase struct {
	XMLName xml.Name      `xml:"testcase"`
	Name    string        `xml:"name,attr"`
	Failure *JUnitFailure `xml:"failure"`
}

type JUnitFailure struct {
	XMLName xml.Name `xml:"failure"`
	Message string   `xml:"message,attr"`
	Type    string   `xml:"type,attr"`
	Text    string   `xml:",innerxml"`
}

// GenerateJUnitReport has one test suite per check and one failed test
// case per finding.
func GenerateJUnitReport(r *Report) JUnitReport {
	var xmlReport JUnitReport
	testsuites := map[string]int{}
	for _, f := range r.Findings {
		name := f.Check
		if name == "" {
			name = f.Severity.String()
		}
		index, ok := testsuites[name]
		if !ok {
			xmlReport.Testsuites = append(xmlReport.Testsuites, &JUnitTestsuite{Name: name})
			index = len(xmlReport.Testsuites) - 1
			testsuites[name] = index
		}
		failure := &JUnitFailure{
			Message: f.Message,
			Type:    f.Severity.String(),
			Text:    html.EscapeString(fmt.Sprintf("[%s:%d] - %s (%s)", f.Path, f.Line, f.Message, joinTools(f.Origins))),
		}
		testcase := &JUnitTestcase{Name: fmt.Sprintf("%s:%d", f.Path, f.Line), Failure: failure}
		suite := xmlReport.Testsuites[index]
		suite.Testcases = append(suite.Testcases, testcase)
		suite.Tests++
		suite.Failures++
	}
	return xmlReport
}
