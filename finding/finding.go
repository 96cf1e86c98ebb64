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
	"sort"
	"strings"
)

// Tool identifies the checker a finding came from.
type Tool string

const (
	Cppcheck  Tool = "cppcheck"
	ClangTidy Tool = "clang-tidy"
)

// ToolOrder is the order origins and report sections are listed in.
var ToolOrder = []Tool{Cppcheck, ClangTidy}

func toolIndex(t Tool) int {
	for i, tool := range ToolOrder {
		if tool == t {
			return i
		}
	}
	return len(ToolOrder)
}

type Severity int

const (
	SeverityUnknown Severity = iota
	SeverityNote
	SeverityInformation
	SeverityStyle
	SeverityPerformance
	SeverityPortability
	SeverityWarning
	SeverityError
)

var severityNames = map[Severity]string{
	SeverityUnknown:     "unknown",
	SeverityNote:        "note",
	SeverityInformation: "information",
	SeverityStyle:       "style",
	SeverityPerformance: "performance",
	SeverityPortability: "portability",
	SeverityWarning:     "warning",
	SeverityError:       "error",
}

// aliases used by the gcc-style diagnostics of clang-tidy
var severityAliases = map[string]Severity{
	"fatal error": SeverityError,
	"remark":      SeverityNote,
	"info":        SeverityInformation,
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return severityNames[SeverityUnknown]
}

// Rank orders severities for merging and sorting. style, performance and
// portability share a rank.
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 5
	case SeverityWarning:
		return 4
	case SeverityStyle, SeverityPerformance, SeverityPortability:
		return 3
	case SeverityInformation:
		return 2
	case SeverityNote:
		return 1
	default:
		return 0
	}
}

func (s Severity) IsError() bool {
	return s == SeverityError
}

func ParseSeverity(text string) (Severity, bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	for severity, name := range severityNames {
		if name == text && severity != SeverityUnknown {
			return severity, true
		}
	}
	if severity, ok := severityAliases[text]; ok {
		return severity, true
	}
	return SeverityUnknown, false
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	severity, ok := ParseSeverity(string(text))
	if !ok {
		return fmt.Errorf("unknown severity %q", string(text))
	}
	*s = severity
	return nil
}

// Finding is one diagnostic reported by a checker.
type Finding struct {
	ID           string   `json:"id,omitempty" yaml:"id,omitempty"`
	Path         string   `json:"path" yaml:"path"`
	Line         int      `json:"line" yaml:"line"`
	Column       int      `json:"column,omitempty" yaml:"column,omitempty"`
	Severity     Severity `json:"severity" yaml:"severity"`
	Message      string   `json:"message" yaml:"message"`
	Check        string   `json:"check,omitempty" yaml:"check,omitempty"`
	Origins      []Tool   `json:"origins" yaml:"origins"`
	Notes        []string `json:"notes,omitempty" yaml:"notes,omitempty"`
	CodeLineHash string   `json:"code_line_hash,omitempty" yaml:"code_line_hash,omitempty"`
}

func (f *Finding) HasOrigin(tool Tool) bool {
	for _, origin := range f.Origins {
		if origin == tool {
			return true
		}
	}
	return false
}

func (f *Finding) addOrigins(tools ...Tool) {
	for _, tool := range tools {
		if !f.HasOrigin(tool) {
			f.Origins = append(f.Origins, tool)
		}
	}
	sort.SliceStable(f.Origins, func(i, j int) bool {
		return toolIndex(f.Origins[i]) < toolIndex(f.Origins[j])
	})
}

func (f *Finding) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%d: %s: %s", f.Path, f.Line, f.Severity, f.Message)
	if f.Check != "" {
		fmt.Fprintf(&b, " [%s]", f.Check)
	}
	return b.String()
}

// Sort orders findings by path, line and message, then by column.
func Sort(findings []*Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		x := findings[i]
		y := findings[j]
		if x.Path != y.Path {
			return x.Path < y.Path
		}
		if x.Line != y.Line {
			return x.Line < y.Line
		}
		if x.Message != y.Message {
			return x.Message < y.Message
		}
		return x.Column < y.Column
	})
}

// HasErrors reports whether any finding has error severity.
func HasErrors(findings []*Finding) bool {
	for _, f := range findings {
		if f.Severity.IsError() {
			return true
		}
	}
	return false
}

// ByTool returns the findings that carry tool among their origins.
func ByTool(findings []*Finding, tool Tool) []*Finding {
	selected := []*Finding{}
	for _, f := range findings {
		if f.HasOrigin(tool) {
			selected = append(selected, f)
		}
	}
	return selected
}
