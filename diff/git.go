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

package diff

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/golang/glog"
)

// GitDiff returns the zero-context diff between the merge base of base and
// head, and head, as produced by git in dir.
func GitDiff(ctx context.Context, dir, base, head string) (string, error) {
	if base == "" {
		return "", fmt.Errorf("no base to diff against")
	}
	revisions := base + "..."
	if head != "" {
		revisions += head
	} else {
		revisions += "HEAD"
	}
	cmd := exec.CommandContext(ctx, "git", "diff", "-U0", "--no-color", "--no-ext-diff", revisions, "--")
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	glog.Info("executing: ", cmd.String())
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s: %v: %s", cmd.String(), err, stderr.String())
	}
	return stdout.String(), nil
}

// ChangedLinesBetween runs GitDiff and indexes its result.
func ChangedLinesBetween(ctx context.Context, dir, base, head string) (ChangedLines, error) {
	out, err := GitDiff(ctx, dir, base, head)
	if err != nil {
		return nil, err
	}
	patch, err := Parse(out)
	if err != nil {
		return nil, fmt.Errorf("diff.Parse: %v", err)
	}
	return patch.ChangedLines(), nil
}
