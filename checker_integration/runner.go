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
Package checker_integration runs the external checkers. Arguments are always
passed as a list, never through a shell.
*/
package checker_integration

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/golang/glog"
)

type Outcome int

const (
	// OutcomeClean: the checker exited 0.
	OutcomeClean Outcome = iota
	// OutcomeFindings: the checker exited non-zero because it reported issues.
	OutcomeFindings
	// OutcomeCrashed: the checker died or reported an internal failure.
	OutcomeCrashed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeClean:
		return "clean"
	case OutcomeFindings:
		return "findings"
	case OutcomeCrashed:
		return "crashed"
	}
	return "unknown"
}

// crash markers printed by the checkers or their runtimes
var kCrashMarkers = []string{
	"Segmentation fault",
	"Stack dump:",
	"PLEASE submit a bug report",
	"Traceback (most recent call last):",
	"internal error",
	"terminate called after throwing",
	"std::bad_alloc",
}

type Result struct {
	Outcome  Outcome
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	// Reason explains OutcomeCrashed.
	Reason string
}

// Combined returns stdout followed by stderr.
func (r *Result) Combined() []byte {
	return append(append([]byte{}, r.Stdout...), r.Stderr...)
}

// Runner executes one checker binary.
type Runner struct {
	Tool string
	Bin  string
	// Dir is the working directory of the checker.
	Dir string
	// HasDiagnostics tells whether output contains at least one diagnostic,
	// which separates "found issues" from "failed" on a non-zero exit.
	HasDiagnostics func(output []byte) bool
}

// Execute runs the checker with args. The error is a *ToolInvocationError
// when the binary cannot be resolved or started. A crash is not an error:
// it is reported through Result.Outcome so partial output is kept.
func (r *Runner) Execute(ctx context.Context, args []string) (*Result, error) {
	bin, err := ResolveBinaryPath(r.Bin)
	if err != nil {
		return nil, &ToolInvocationError{Tool: r.Tool, Bin: r.Bin, Err: err}
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = r.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	glog.Info("executing: ", cmd.String())
	err = cmd.Run()
	result := &Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		result.Outcome = OutcomeClean
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		return nil, &ToolInvocationError{Tool: r.Tool, Bin: bin, Err: err}
	}
	r.classify(result, exitErr)
	switch result.Outcome {
	case OutcomeCrashed:
		glog.Warningf("%s execution error: executing %s, %s, reported:\n%s", r.Tool, cmd.String(), result.Reason, string(result.Stderr))
	default:
		glog.Infof("%s finished: %s (exit code %d)", r.Tool, result.Outcome, result.ExitCode)
	}
	return result, nil
}

func (r *Runner) classify(result *Result, exitErr *exec.ExitError) {
	if exitErr != nil {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			result.Outcome = OutcomeCrashed
			result.Reason = fmt.Sprintf("killed by signal %v", status.Signal())
			return
		}
	}
	if marker := CrashMarker(result.Combined()); marker != "" {
		result.Outcome = OutcomeCrashed
		result.Reason = fmt.Sprintf("output contains %q", marker)
		return
	}
	if exitErr == nil {
		result.Outcome = OutcomeClean
		return
	}
	if r.HasDiagnostics != nil && r.HasDiagnostics(result.Combined()) {
		result.Outcome = OutcomeFindings
		return
	}
	result.Outcome = OutcomeCrashed
	result.Reason = fmt.Sprintf("exit code %d without any diagnostic", result.ExitCode)
}

// CrashMarker returns the first crash marker found in output.
func CrashMarker(output []byte) string {
	for _, marker := range kCrashMarkers {
		if bytes.Contains(output, []byte(marker)) {
			return marker
		}
	}
	return ""
}

func ResolveBinaryPath(binPath string) (string, error) {
	if binPath == "" {
		return "", fmt.Errorf("empty binary path")
	}
	if filepath.IsAbs(binPath) {
		if _, err := os.Stat(binPath); err != nil {
			return binPath, fmt.Errorf("when resolving %s, os.Stat failed: %v", binPath, err)
		}
		return binPath, nil
	}
	// exec.LookPath will silently allow relative path, so we manually check it.
	if strings.Contains(binPath, string(filepath.Separator)) {
		absBinPath, err := filepath.Abs(binPath)
		if err != nil {
			return binPath, fmt.Errorf("when resolving %s, failed to convert to abs path: %v", binPath, err)
		}
		if _, err := os.Stat(absBinPath); err != nil {
			return absBinPath, fmt.Errorf("when resolving %s, os.Stat failed: %v", binPath, err)
		}
		return absBinPath, nil
	}
	if _, err := exec.LookPath(binPath); err != nil {
		return binPath, fmt.Errorf("when resolving %s, not found in $PATH: %v", binPath, err)
	}
	return binPath, nil
}
