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
	"testing"

	"github.com/google/go-cmp/cmp"
	"naive.systems/staticanalysis/finding"
)

func TestArgs(t *testing.T) {
	for _, testCase := range []struct {
		name     string
		opts     Options
		files    []string
		expected []string
	}{
		{
			name:     "compile metadata",
			opts:     Options{BuildDir: "/repo/build", ExtraArgs: []string{"--checks=-*,bugprone-*"}},
			files:    []string{"/repo/a.c"},
			expected: []string{"-p=/repo/build", "--checks=-*,bugprone-*", "/repo/a.c"},
		},
		{
			name:     "file list",
			opts:     Options{ExtraArgs: []string{"--quiet"}},
			files:    []string{"/repo/a.c", "/repo/b.c"},
			expected: []string{"--quiet", "/repo/a.c", "/repo/b.c", "--"},
		},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			if diff := cmp.Diff(testCase.expected, Args(testCase.opts, testCase.files)); diff != "" {
				t.Errorf("Args() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

const output = `Running without flags.
/repo/src/a.c:10:5: warning: Dereference of null pointer (loaded from variable 'p') [clang-analyzer-core.NullDereference]
   10 |     *p = 1;
      |     ~~^
/repo/src/a.c:8:5: note: 'p' initialized to a null pointer value
    8 |     int *p = NULL;
      |     ^~~~~~
/repo/src/a.c:20:1: error: use of undeclared identifier 'foo' [clang-diagnostic-error]
   20 | foo();
      | ^
3 warnings and 1 error generated.
Error while processing /repo/src/a.c.
Suppressed 1 warnings (1 in non-user code).
Use -header-filter=.* to display errors from all non-system headers. Use -system-headers to display errors from system headers as well.
unexpected banner
`

func TestParse(t *testing.T) {
	findings, parseErrors := Parse([]byte(output))
	expected := []*finding.Finding{
		{
			Path:     "/repo/src/a.c",
			Line:     10,
			Column:   5,
			Severity: finding.SeverityWarning,
			Message:  "Dereference of null pointer (loaded from variable 'p')",
			Check:    "clang-analyzer-core.NullDereference",
			Origins:  []finding.Tool{finding.ClangTidy},
			Notes:    []string{"/repo/src/a.c:8: note: 'p' initialized to a null pointer value"},
		},
		{
			Path:     "/repo/src/a.c",
			Line:     20,
			Column:   1,
			Severity: finding.SeverityError,
			Message:  "use of undeclared identifier 'foo'",
			Check:    "clang-diagnostic-error",
			Origins:  []finding.Tool{finding.ClangTidy},
		},
	}
	if diff := cmp.Diff(expected, findings); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
	if len(parseErrors) != 1 || parseErrors[0].Line != "unexpected banner" {
		t.Errorf("parseErrors = %v, want only the trailing banner", parseErrors)
	}
}

func TestParseMessageWithoutColumn(t *testing.T) {
	findings, _ := Parse([]byte("foo.c:10: error: null deref\n"))
	if len(findings) != 1 {
		t.Fatalf("Parse() = %v", findings)
	}
	f := findings[0]
	if f.Path != "foo.c" || f.Line != 10 || f.Message != "null deref" || !f.Severity.IsError() {
		t.Errorf("Parse() = %+v", f)
	}
	if !HasDiagnostics([]byte("foo.c:10: error: null deref\n")) {
		t.Error("HasDiagnostics() = false")
	}
}
