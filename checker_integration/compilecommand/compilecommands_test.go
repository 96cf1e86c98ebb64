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

package compilecommand

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"naive.systems/staticanalysis/selector"
)

const ccJSON = `[
  {"directory": "/repo/build", "command": "gcc -I\"/repo/inc dir\" -c ../src/a.c", "file": "../src/a.c"},
  {"directory": "/repo/build", "arguments": ["gcc", "-c", "/repo/vendor/b.c"], "file": "/repo/vendor/b.c"},
  {"directory": "/repo/build", "arguments": ["clang", "-cc1", "/repo/src/c.c"], "file": "/repo/src/c.c"},
  {"directory": "/repo", "arguments": ["gcc", "-c", "src/d.c"], "file": "src/d.c"}
]`

func TestArgs(t *testing.T) {
	cc := CompileCommand{Command: `gcc -I"/repo/inc dir" -DNAME='a b' -c a.c`}
	args, err := cc.Args()
	if err != nil {
		t.Fatal(err)
	}
	expected := []string{"gcc", "-I/repo/inc dir", "-DNAME=a b", "-c", "a.c"}
	if diff := cmp.Diff(expected, args); diff != "" {
		t.Errorf("Args() mismatch (-want +got):\n%s", diff)
	}
}

func TestFilteredCompileCommands(t *testing.T) {
	fs := afero.NewMemMapFs()
	ccPath := "/repo/build/compile_commands.json"
	if err := afero.WriteFile(fs, ccPath, []byte(ccJSON), 0644); err != nil {
		t.Fatal(err)
	}
	index := selector.NewIndex([]string{"/repo/src/a.c", "/repo/src/c.c", "/repo/src/d.c"})
	dir, err := CreateTempFolderContainsFilteredCompileCommandsJsonFile(fs, ccPath, index.Contains)
	if err != nil {
		t.Fatalf("CreateTempFolderContainsFilteredCompileCommandsJsonFile() error = %v", err)
	}
	if filepath.Dir(dir) != "/repo/build" {
		t.Errorf("temp dir %s is not beside %s", dir, ccPath)
	}
	commands, err := ReadCompileCommandsFromFile(fs, filepath.Join(dir, CCJson))
	if err != nil {
		t.Fatal(err)
	}
	files := []string{}
	for _, cc := range commands {
		files = append(files, cc.AbsFile())
	}
	if diff := cmp.Diff([]string{"/repo/src/a.c", "/repo/src/d.c"}, files); diff != "" {
		t.Errorf("kept files mismatch (-want +got):\n%s", diff)
	}
}

func TestReadInvalid(t *testing.T) {
	fs := afero.NewMemMapFs()
	if _, err := ReadCompileCommandsFromFile(fs, "/missing.json"); err == nil {
		t.Error("expected error for a missing file")
	}
	if err := afero.WriteFile(fs, "/bad.json", []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadCompileCommandsFromFile(fs, "/bad.json"); err == nil {
		t.Error("expected error for invalid json")
	}
}
