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

package checker_integration

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func hasErrorLine(output []byte) bool {
	return bytes.Contains(output, []byte(": error: "))
}

func TestExecuteOutcome(t *testing.T) {
	for _, testCase := range []struct {
		name     string
		script   string
		expected Outcome
		exitCode int
	}{
		{
			name:     "clean",
			script:   "echo checking a.c",
			expected: OutcomeClean,
		},
		{
			name:     "findings",
			script:   "echo 'a.c:1:2: error: null deref [nullPointer]'; exit 1",
			expected: OutcomeFindings,
			exitCode: 1,
		},
		{
			name:     "non-zero without diagnostics",
			script:   "echo 'cannot open compile_commands.json' >&2; exit 2",
			expected: OutcomeCrashed,
			exitCode: 2,
		},
		{
			name:     "crash marker on exit 0",
			script:   "echo 'Stack dump:' >&2",
			expected: OutcomeCrashed,
		},
		{
			name:     "crash marker wins over diagnostics",
			script:   "echo 'a.c:1:2: error: x [y]'; echo 'PLEASE submit a bug report' >&2; exit 1",
			expected: OutcomeCrashed,
			exitCode: 1,
		},
		{
			name:     "killed by signal",
			script:   "kill -SEGV $$",
			expected: OutcomeCrashed,
			exitCode: -1,
		},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			runner := &Runner{Tool: "test", Bin: "sh", HasDiagnostics: hasErrorLine}
			result, err := runner.Execute(context.Background(), []string{"-c", testCase.script})
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if result.Outcome != testCase.expected {
				t.Errorf("Outcome = %v, want %v (reason %q)", result.Outcome, testCase.expected, result.Reason)
			}
			if result.ExitCode != testCase.exitCode {
				t.Errorf("ExitCode = %d, want %d", result.ExitCode, testCase.exitCode)
			}
		})
	}
}

func TestExecuteKeepsStreamsApart(t *testing.T) {
	runner := &Runner{Tool: "test", Bin: "sh"}
	result, err := runner.Execute(context.Background(), []string{"-c", "echo out; echo err >&2"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if string(result.Stdout) != "out\n" || string(result.Stderr) != "err\n" {
		t.Errorf("Stdout = %q, Stderr = %q", result.Stdout, result.Stderr)
	}
	if string(result.Combined()) != "out\nerr\n" {
		t.Errorf("Combined() = %q", result.Combined())
	}
}

func TestExecuteMissingBinary(t *testing.T) {
	for _, bin := range []string{"", "/nonexistent/cppcheck", "./nonexistent/cppcheck", "definitely-not-a-checker-binary"} {
		runner := &Runner{Tool: "cppcheck", Bin: bin}
		_, err := runner.Execute(context.Background(), nil)
		var invocationErr *ToolInvocationError
		if !errors.As(err, &invocationErr) {
			t.Errorf("Execute() with bin %q error = %v, want *ToolInvocationError", bin, err)
			continue
		}
		if invocationErr.Tool != "cppcheck" {
			t.Errorf("Tool = %q", invocationErr.Tool)
		}
	}
}

func TestCrashMarker(t *testing.T) {
	for _, testCase := range []struct {
		output   string
		expected string
	}{
		{"", ""},
		{"a.c:1:1: warning: x [y]\n", ""},
		{"Segmentation fault (core dumped)\n", "Segmentation fault"},
		{"Traceback (most recent call last):\n  File \"x.py\"", "Traceback (most recent call last):"},
		{"cppcheck: internal error: bad token", "internal error"},
	} {
		if got := CrashMarker([]byte(testCase.output)); got != testCase.expected {
			t.Errorf("CrashMarker(%q) = %q, want %q", testCase.output, got, testCase.expected)
		}
	}
}
