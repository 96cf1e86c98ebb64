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
	"context"
	"fmt"

	"naive.systems/staticanalysis/checker_integration"
	"naive.systems/staticanalysis/finding"
)

type Options struct {
	Bin string
	Dir string
	// BuildDir holds compile_commands.json; empty means no compile metadata.
	BuildDir  string
	ExtraArgs []string
}

// Args builds the clang-tidy argument list. Without compile metadata a
// trailing "--" keeps clang-tidy from searching for a database.
func Args(opts Options, files []string) []string {
	args := []string{}
	if opts.BuildDir != "" {
		args = append(args, fmt.Sprintf("-p=%s", opts.BuildDir))
	}
	args = append(args, opts.ExtraArgs...)
	args = append(args, files...)
	if opts.BuildDir == "" {
		args = append(args, "--")
	}
	return args
}

// Exec runs clang-tidy over files and returns stdout followed by stderr.
func Exec(ctx context.Context, opts Options, files []string) ([]byte, *checker_integration.Result, error) {
	runner := &checker_integration.Runner{
		Tool:           string(finding.ClangTidy),
		Bin:            opts.Bin,
		Dir:            opts.Dir,
		HasDiagnostics: HasDiagnostics,
	}
	result, err := runner.Execute(ctx, Args(opts, files))
	if err != nil {
		return nil, nil, err
	}
	return result.Combined(), result, nil
}

func HasDiagnostics(output []byte) bool {
	findings, _ := Parse(output)
	return len(findings) > 0
}
