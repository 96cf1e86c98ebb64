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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSet(t *testing.T) {
	set := NewSet()
	set.Add(&Finding{Path: "file_a", Line: 2, Message: "error_a", Severity: SeverityWarning, Origins: []Tool{Cppcheck}})
	set.Add(&Finding{Path: "file_a", Line: 2, Message: "error_a", Severity: SeverityWarning, Origins: []Tool{Cppcheck}})
	set.Add(&Finding{Path: "file_a", Line: 2, Message: "error_b", Severity: SeverityWarning, Origins: []Tool{Cppcheck}})
	if set.Len() != 2 {
		t.Fatalf("Set is not a set, expect size: 2, actual: %d", set.Len())
	}
}

func TestSetMergesOrigins(t *testing.T) {
	set := NewSetFromList([]*Finding{
		{Path: "/repo/foo.c", Line: 10, Message: "null deref", Severity: SeverityWarning, Origins: []Tool{ClangTidy}, Notes: []string{"note: assuming p is null"}},
		{Path: "/repo/foo.c", Line: 10, Column: 3, Message: "null deref", Severity: SeverityError, Check: "nullPointer", Origins: []Tool{Cppcheck}},
	})
	expected := []*Finding{{
		Path:     "/repo/foo.c",
		Line:     10,
		Column:   3,
		Message:  "null deref",
		Severity: SeverityError,
		Check:    "nullPointer",
		Origins:  []Tool{Cppcheck, ClangTidy},
		Notes:    []string{"note: assuming p is null"},
	}}
	if diff := cmp.Diff(expected, set.Findings); diff != "" {
		t.Errorf("unexpected merge (-want +got):\n%s", diff)
	}
}

func TestSort(t *testing.T) {
	findings := []*Finding{
		{Path: "b.c", Line: 1, Message: "x"},
		{Path: "a.c", Line: 9, Message: "x"},
		{Path: "a.c", Line: 2, Message: "z"},
		{Path: "a.c", Line: 2, Message: "y"},
	}
	Sort(findings)
	got := []string{}
	for _, f := range findings {
		got = append(got, f.String())
	}
	expected := []string{
		"a.c:2: unknown: y",
		"a.c:2: unknown: z",
		"a.c:9: unknown: x",
		"b.c:1: unknown: x",
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("unexpected order (-want +got):\n%s", diff)
	}
}

func TestHasErrors(t *testing.T) {
	for _, testCase := range [...]struct {
		name     string
		findings []*Finding
		expected bool
	}{
		{name: "empty", findings: nil, expected: false},
		{name: "style only", findings: []*Finding{{Severity: SeverityStyle}}, expected: false},
		{name: "warning only", findings: []*Finding{{Severity: SeverityWarning}, {Severity: SeverityNote}}, expected: false},
		{name: "one error", findings: []*Finding{{Severity: SeverityWarning}, {Severity: SeverityError}}, expected: true},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			if got := HasErrors(testCase.findings); got != testCase.expected {
				t.Errorf("unexpected result for %v. got: %v. expected: %v.", testCase.name, got, testCase.expected)
			}
		})
	}
}
