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

package bootstrap

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"naive.systems/staticanalysis/options"
)

type recorder struct {
	calls []string
	fs    afero.Fs
	fail  string
}

func (r *recorder) run(ctx context.Context, dir, name string, args ...string) error {
	call := dir + "$ " + strings.Join(append([]string{name}, args...), " ")
	r.calls = append(r.calls, call)
	if r.fail != "" && name == r.fail {
		return errors.New("exit status 1")
	}
	if name == "cmake" {
		return afero.WriteFile(r.fs, args[3]+"/compile_commands.json", []byte("[]"), 0644)
	}
	return nil
}

func newBootstrapper(fs afero.Fs, config options.BootstrapConfig) (*Bootstrapper, *recorder) {
	r := &recorder{fs: fs}
	b := New(fs, "/repo", config)
	b.Run = r.run
	return b, r
}

func TestPrepare(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/repo/ci/init.sh", []byte("echo init"), 0755); err != nil {
		t.Fatal(err)
	}
	b, r := newBootstrapper(fs, options.BootstrapConfig{
		ToolchainRepo:    "https://example.com/sdk.git",
		ToolchainVersion: "v2.1",
		ToolchainDir:     "sdk",
		InitScript:       "ci/init.sh",
		UseCMake:         true,
		CMakeArgs:        []string{"-DBOARD=esp32"},
		BuildDir:         "build",
	})
	path, err := b.Prepare(context.Background())
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if path != "/repo/build/compile_commands.json" {
		t.Errorf("Prepare() = %s", path)
	}
	expected := []string{
		"/repo$ git clone --recursive --depth 1 --branch v2.1 https://example.com/sdk.git /repo/sdk",
		"/repo$ bash /repo/ci/init.sh",
		"/repo$ cmake -S /repo -B /repo/build -DCMAKE_EXPORT_COMPILE_COMMANDS=ON -DBOARD=esp32",
	}
	if diff := cmp.Diff(expected, r.calls); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
}

func TestPrepareExistingCheckout(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll("/repo/sdk/.git", 0755); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, "/repo/sdk/install.sh", []byte("true"), 0755); err != nil {
		t.Fatal(err)
	}
	b, r := newBootstrapper(fs, options.BootstrapConfig{ToolchainRepo: "https://example.com/sdk.git", ToolchainDir: "sdk"})
	path, err := b.Prepare(context.Background())
	if err != nil || path != "" {
		t.Fatalf("Prepare() = %q, %v", path, err)
	}
	if diff := cmp.Diff([]string{"/repo/sdk$ bash /repo/sdk/install.sh"}, r.calls); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
}

func TestPrepareSkip(t *testing.T) {
	fs := afero.NewMemMapFs()
	b, r := newBootstrapper(fs, options.BootstrapConfig{
		Skip:          true,
		ToolchainRepo: "https://example.com/sdk.git",
		InitScript:    "missing.sh",
		UseCMake:      true,
		BuildDir:      "/out",
	})
	path, err := b.Prepare(context.Background())
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if path != "/out/compile_commands.json" || len(r.calls) != 1 {
		t.Errorf("Prepare() = %s, calls %v", path, r.calls)
	}
}

func TestPrepareFailures(t *testing.T) {
	for _, testCase := range []struct {
		name   string
		config options.BootstrapConfig
		fail   string
	}{
		{"clone", options.BootstrapConfig{ToolchainRepo: "https://example.com/sdk.git", ToolchainDir: "sdk"}, "git"},
		{"missing init script", options.BootstrapConfig{InitScript: "nope.sh"}, ""},
		{"cmake", options.BootstrapConfig{UseCMake: true, BuildDir: "build"}, "cmake"},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			b, r := newBootstrapper(afero.NewMemMapFs(), testCase.config)
			r.fail = testCase.fail
			if _, err := b.Prepare(context.Background()); err == nil {
				t.Error("Prepare() error = nil")
			}
		})
	}
}
