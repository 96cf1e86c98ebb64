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

package atomic

import (
	"testing"

	"github.com/spf13/afero"
)

func TestWrite(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll("/out", 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	for _, testCase := range [...]struct {
		name    string
		content string
	}{
		{name: "create", content: "first"},
		{name: "overwrite", content: "second"},
		{name: "empty", content: ""},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			if err := Write(fs, "/out/results.json", []byte(testCase.content)); err != nil {
				t.Fatalf("Write: %v", err)
			}
			got, err := afero.ReadFile(fs, "/out/results.json")
			if err != nil {
				t.Fatalf("ReadFile: %v", err)
			}
			if string(got) != testCase.content {
				t.Errorf("unexpected content. got: %q. expected: %q.", got, testCase.content)
			}
			entries, err := afero.ReadDir(fs, "/out")
			if err != nil {
				t.Fatalf("ReadDir: %v", err)
			}
			if len(entries) != 1 {
				t.Errorf("temporary files left behind: %d entries", len(entries))
			}
		})
	}
}

func TestWriteStringCreatesDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := WriteString(fs, "/a/b/cppcheck.txt", "x"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	if ok, _ := afero.Exists(fs, "/a/b/cppcheck.txt"); !ok {
		t.Errorf("file was not written")
	}
}
