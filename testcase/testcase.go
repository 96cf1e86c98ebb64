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

/*
Package testcase loads aggregation scenarios from a testdata directory and
compares the outcome with the expected.yaml stored beside them.

A scenario directory holds:

	case.yaml      the tree layout and flags of the run
	cppcheck.txt   raw cppcheck output, optional
	clang_tidy.txt raw clang-tidy output, optional
	expected.yaml  the findings and exit code the run must produce
*/
package testcase

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v2"
	"naive.systems/staticanalysis/finding"
)

type Case struct {
	// Root is the primary workspace.
	Root string `yaml:"root"`
	// ExtraDir is the secondary checkout the checkers ran against.
	ExtraDir   string `yaml:"extra_dir"`
	ExcludeDir string `yaml:"exclude_dir"`
	// Files are created under the analysis root, relative to it.
	Files []string `yaml:"files"`
}

type ExpectedFinding struct {
	Path     string   `yaml:"path"`
	Line     int      `yaml:"line"`
	Severity string   `yaml:"severity"`
	Message  string   `yaml:"message"`
	Origins  []string `yaml:"origins"`
}

type Expected struct {
	ExitCode int               `yaml:"exit_code"`
	Findings []ExpectedFinding `yaml:"findings"`
}

type TestCase struct {
	t      *testing.T
	Srcdir string
	Case   Case
}

func New(t *testing.T, dirname string) TestCase {
	srcdir, err := filepath.Abs(dirname)
	if err != nil {
		t.Fatalf("filepath.Abs(%s): %v", dirname, err)
	}
	tc := TestCase{t: t, Srcdir: srcdir}
	tc.unmarshal("case.yaml", &tc.Case)
	return tc
}

func (tc *TestCase) unmarshal(name string, out interface{}) {
	path := filepath.Join(tc.Srcdir, name)
	bytes, err := os.ReadFile(path)
	if err != nil {
		tc.t.Fatalf("os.ReadFile(%s): %v", path, err)
	}
	if err := yaml.UnmarshalStrict(bytes, out); err != nil {
		tc.t.Fatalf("yaml.Unmarshal(%s): %v", path, err)
	}
}

// Output returns the raw checker output stored as name, nil when absent.
func (tc *TestCase) Output(name string) []byte {
	bytes, err := os.ReadFile(filepath.Join(tc.Srcdir, name))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		tc.t.Fatalf("os.ReadFile(%s): %v", name, err)
	}
	return bytes
}

func toExpected(findings []*finding.Finding, root string) []ExpectedFinding {
	actual := []ExpectedFinding{}
	for _, f := range findings {
		origins := []string{}
		for _, origin := range f.Origins {
			origins = append(origins, string(origin))
		}
		path := f.Path
		if rel, err := filepath.Rel(root, f.Path); err == nil && !strings.HasPrefix(rel, "..") {
			path = filepath.ToSlash(rel)
		}
		actual = append(actual, ExpectedFinding{
			Path:     path,
			Line:     f.Line,
			Severity: f.Severity.String(),
			Message:  f.Message,
			Origins:  origins,
		})
	}
	return actual
}

func (tc *TestCase) dumpYAML(v interface{}) {
	bytes, err := yaml.Marshal(v)
	if err == nil {
		tc.t.Log(string(bytes))
	} else {
		tc.t.Errorf("yaml.Marshal: %v", err)
	}
}

// ExpectOK compares the findings, with paths relative to the primary
// workspace, and the exit code with expected.yaml.
func (tc *TestCase) ExpectOK(findings []*finding.Finding, exitCode int, err error) {
	if err != nil {
		tc.t.Fatalf("aggregation returned error: %v", err)
	}
	expected := Expected{}
	tc.unmarshal("expected.yaml", &expected)
	if expected.Findings == nil {
		expected.Findings = []ExpectedFinding{}
	}
	actual := Expected{ExitCode: exitCode, Findings: toExpected(findings, tc.Case.Root)}
	if diff := cmp.Diff(expected, actual); diff != "" {
		tc.dumpYAML(actual)
		tc.t.Fatalf("aggregation mismatch (-want +got):\n%s", diff)
	}
}
