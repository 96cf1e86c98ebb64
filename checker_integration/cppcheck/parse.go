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
	"bufio"
	"bytes"
	"errors"
	"strings"

	"github.com/golang/glog"
	"naive.systems/staticanalysis/finding"
)

// cppcheck reports problems not bound to a file under this name
const noFile = "nofile"

// ParseText parses output produced with Template. Lines that are not
// diagnostics (code echoes, carets, progress) are returned as ParseErrors.
// note lines are attached to the finding before them.
func ParseText(output []byte) ([]*finding.Finding, []*finding.ParseError) {
	var findings []*finding.Finding
	var parseErrors []*finding.ParseError
	scanner := bufio.NewScanner(bytes.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNumber := 0
	// notes attach to the diagnostic they follow, nil after a skipped one
	var last *finding.Finding
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		f, err := finding.ParseDiagnosticLine(finding.Cppcheck, lineNumber, line)
		if err != nil {
			var parseErr *finding.ParseError
			if errors.As(err, &parseErr) {
				parseErrors = append(parseErrors, parseErr)
			}
			continue
		}
		if f.Severity == finding.SeverityNote {
			if last != nil {
				last.Notes = append(last.Notes, f.String())
			}
			continue
		}
		if f.Path == noFile {
			glog.Infof("cppcheck: skipped %s", line)
			last = nil
			continue
		}
		findings = append(findings, f)
		last = f
	}
	if err := scanner.Err(); err != nil {
		parseErrors = append(parseErrors, &finding.ParseError{Tool: finding.Cppcheck, LineNumber: lineNumber, Reason: err.Error()})
	}
	for _, parseErr := range parseErrors {
		glog.V(1).Info(parseErr)
	}
	return findings, parseErrors
}
