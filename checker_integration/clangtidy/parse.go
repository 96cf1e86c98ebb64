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

package clangtidy

import (
	"bufio"
	"bytes"
	"errors"
	"regexp"
	"strings"

	"github.com/golang/glog"
	"naive.systems/staticanalysis/finding"
)

// lines closing a diagnostic block
var summaryRes = []*regexp.Regexp{
	regexp.MustCompile(`^\d+ (warnings?|errors?)( and \d+ (warnings?|errors?))? generated\.$`),
	regexp.MustCompile(`^Suppressed \d+ warnings?`),
	regexp.MustCompile(`^Use -header-filter=`),
	regexp.MustCompile(`^Error while processing `),
	regexp.MustCompile(`^Found compiler errors?`),
	regexp.MustCompile(`^Running without flags\.`),
	regexp.MustCompile(`^Error: no checks enabled\.`),
	regexp.MustCompile(`^\[\d+/\d+\] Processing file `),
}

func isSummary(line string) bool {
	for _, re := range summaryRes {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// Parse reads clang-tidy output. A diagnostic block starts with a header
// line and continues with the source echo, the caret line and fix-it
// hints, which are skipped. note headers attach to the finding of the
// block. Lines outside any block are returned as ParseErrors.
func Parse(output []byte) ([]*finding.Finding, []*finding.ParseError) {
	var findings []*finding.Finding
	var parseErrors []*finding.ParseError
	var current *finding.Finding
	inBlock := false
	scanner := bufio.NewScanner(bytes.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if isSummary(line) {
			inBlock = false
			continue
		}
		f, err := finding.ParseDiagnosticLine(finding.ClangTidy, lineNumber, line)
		if err != nil {
			var parseErr *finding.ParseError
			if !inBlock && errors.As(err, &parseErr) {
				parseErrors = append(parseErrors, parseErr)
			}
			continue
		}
		inBlock = true
		if f.Severity == finding.SeverityNote {
			if current != nil {
				current.Notes = append(current.Notes, f.String())
			}
			continue
		}
		findings = append(findings, f)
		current = f
	}
	if err := scanner.Err(); err != nil {
		parseErrors = append(parseErrors, &finding.ParseError{Tool: finding.ClangTidy, LineNumber: lineNumber, Reason: err.Error()})
	}
	for _, parseErr := range parseErrors {
		glog.V(1).Info(parseErr)
	}
	return findings, parseErrors
}
