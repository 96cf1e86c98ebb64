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

package cppcheck

import (
	"encoding/xml"
	"fmt"
	"strconv"

	"naive.systems/staticanalysis/finding"
)

type CppCheckXMLLocation struct {
	File   string `xml:"file,attr"`
	Line   int    `xml:"line,attr"`
	Column string `xml:"column,attr"`
	Info   string `xml:"info,attr"`
}

type CppCheckXMLError struct {
	Id       string                `xml:"id,attr"`
	Severity string                `xml:"severity,attr"`
	Msg      string                `xml:"msg,attr"`
	Verbose  string                `xml:"verbose,attr"`
	Location []CppCheckXMLLocation `xml:"location"`
}

type CppCheckXMLReport struct {
	Errors  []CppCheckXMLError `xml:"errors>error"`
	Version struct {
		Version string `xml:"version,attr"`
	} `xml:"cppcheck"`
}

// ParseXML converts an xml version 2 report. The primary location is the
// first one; the others become notes.
func ParseXML(data []byte) ([]*finding.Finding, error) {
	report := CppCheckXMLReport{}
	if err := xml.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("unmarshal cppcheck errors xml: %v", err)
	}
	var findings []*finding.Finding
	for _, e := range report.Errors {
		if len(e.Location) == 0 {
			// checker-level messages such as missingIncludeSystem
			continue
		}
		severity, ok := finding.ParseSeverity(e.Severity)
		if !ok {
			severity = finding.SeverityWarning
		}
		primary := e.Location[0]
		column, _ := strconv.Atoi(primary.Column)
		f := &finding.Finding{
			Path:     primary.File,
			Line:     primary.Line,
			Column:   column,
			Severity: severity,
			Message:  e.Msg,
			Check:    e.Id,
			Origins:  []finding.Tool{finding.Cppcheck},
		}
		for _, loc := range e.Location[1:] {
			note := fmt.Sprintf("%s:%d: note: %s", loc.File, loc.Line, loc.Info)
			f.Notes = append(f.Notes, note)
		}
		findings = append(findings, f)
	}
	return findings, nil
}
