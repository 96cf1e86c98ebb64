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

package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"naive.systems/staticanalysis/options"
)

func newTestPipeline(fs afero.Fs, config *options.Config, prepared *bool) (*pipeline, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &pipeline{
		fs:     fs,
		config: config,
		stdout: &stdout,
		stderr: &stderr,
		prepare: func(ctx context.Context) (string, error) {
			*prepared = true
			return "", nil
		},
	}, &stdout, &stderr
}

func testConfig(root, exclude string) *options.Config {
	return &options.Config{
		SrcDir:     root,
		ExcludeDir: exclude,
		Lang:       "en",
		Checkers: options.CheckerConfig{
			CppcheckBin:     "cppcheck",
			CppcheckOutput:  "/out/cppcheck.txt",
			ClangTidyBin:    "clang-tidy",
			ClangTidyOutput: "/out/clang_tidy.txt",
		},
		Output: options.OutputConfig{Console: true, NoColor: true},
		GitHub: options.GitHubConfig{CommentStyle: options.CommentStyleBoth},
	}
}

func TestRunInvalidPathBeforeBootstrap(t *testing.T) {
	for _, testCase := range []struct {
		name    string
		root    string
		exclude string
	}{
		{"missing root", "/missing", ""},
		{"missing exclusion", "/repo", "vendor"},
		{"exclusion outside root", "/repo", "/other"},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			for _, dir := range []string{"/repo/src", "/other"} {
				if err := fs.MkdirAll(dir, 0755); err != nil {
					t.Fatal(err)
				}
			}
			prepared := false
			p, _, stderr := newTestPipeline(fs, testConfig(testCase.root, testCase.exclude), &prepared)
			if code := p.run(context.Background()); code != 2 {
				t.Errorf("run() = %d, want 2", code)
			}
			if prepared {
				t.Error("toolchain bootstrapped despite an invalid path")
			}
			if !strings.Contains(stderr.String(), "invalid path") {
				t.Errorf("stderr = %q", stderr.String())
			}
		})
	}
}

func TestRunEmptyTree(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll("/repo/docs", 0755); err != nil {
		t.Fatal(err)
	}
	prepared := false
	p, stdout, _ := newTestPipeline(fs, testConfig("/repo", ""), &prepared)
	if code := p.run(context.Background()); code != 0 {
		t.Errorf("run() = %d, want 0", code)
	}
	if !prepared {
		t.Error("toolchain not bootstrapped")
	}
	if got := stdout.String(); got != "No files to check.\n" {
		t.Errorf("stdout = %q", got)
	}
}
