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

package finding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ParseError describes a line of checker output that is not a diagnostic.
// It is recovered by the parsers and never returned to their callers.
type ParseError struct {
	Tool       Tool
	LineNumber int
	Line       string
	Reason     string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s output line %d: %s: %q", e.Tool, e.LineNumber, e.Reason, e.Line)
}

// file:line[:column]: severity: message [check]
var diagnosticRe = regexp.MustCompile(`^(.+?):(\d+):(?:(\d+):)? ([a-zA-Z][a-zA-Z ]*?): (.*?)(?: \[([^\[\]\s]+)\])?\s*$`)

// ParseDiagnosticLine parses one gcc-style diagnostic line. The returned
// error is always a *ParseError.
func ParseDiagnosticLine(tool Tool, lineNumber int, line string) (*Finding, error) {
	match := diagnosticRe.FindStringSubmatch(strings.TrimRight(line, "\r"))
	if match == nil {
		return nil, &ParseError{Tool: tool, LineNumber: lineNumber, Line: line, Reason: "not a diagnostic"}
	}
	severity, ok := ParseSeverity(match[4])
	if !ok {
		return nil, &ParseError{Tool: tool, LineNumber: lineNumber, Line: line, Reason: "unknown severity " + match[4]}
	}
	linenum, err := strconv.Atoi(match[2])
	if err != nil {
		return nil, &ParseError{Tool: tool, LineNumber: lineNumber, Line: line, Reason: err.Error()}
	}
	column := 0
	if match[3] != "" {
		column, err = strconv.Atoi(match[3])
		if err != nil {
			return nil, &ParseError{Tool: tool, LineNumber: lineNumber, Line: line, Reason: err.Error()}
		}
	}
	return &Finding{
		Path:     strings.TrimSpace(match[1]),
		Line:     linenum,
		Column:   column,
		Severity: severity,
		Message:  strings.TrimSpace(match[5]),
		Check:    match[6],
		Origins:  []Tool{tool},
	}, nil
}
