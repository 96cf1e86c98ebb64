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

package stats

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"naive.systems/staticanalysis/finding"
)

func TestCountSeverityAndWrite(t *testing.T) {
	findings := []*finding.Finding{
		{Severity: finding.SeverityError},
		{Severity: finding.SeverityError},
		{Severity: finding.SeverityStyle},
		{Severity: finding.SeverityPortability},
		{Severity: finding.SeverityUnknown},
	}
	fs := afero.NewMemMapFs()
	if err := CountSeverityAndWrite(fs, findings, "/results"); err != nil {
		t.Fatalf("CountSeverityAndWrite() error = %v", err)
	}
	data, err := afero.ReadFile(fs, "/results/"+SeverityStatsFile)
	if err != nil {
		t.Fatal(err)
	}
	var got SeverityCount
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	expected := SeverityCount{Error: 2, Style: 1, Portability: 1, Unknown: 1}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("severity stats mismatch (-want +got):\n%s", diff)
	}
	if got.Total() != len(findings) {
		t.Errorf("Total() = %d", got.Total())
	}
}

func TestCountLines(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "a.c")
	contents := "// comment\nint main(void) {\n\n  return 0;\n}\n"
	if err := os.WriteFile(source, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	loc, err := CountLines([]string{source})
	if err != nil {
		t.Fatalf("CountLines() error = %v", err)
	}
	if loc.Files != 1 || loc.Code != 3 || loc.Comments != 1 || loc.Blanks != 1 {
		t.Errorf("CountLines() = %+v", loc)
	}
	fs := afero.NewMemMapFs()
	if err := WriteLOC(fs, "/results", loc); err != nil {
		t.Fatal(err)
	}
	if exists, _ := afero.Exists(fs, "/results/"+LOCFile); !exists {
		t.Error("loc file not written")
	}
}

func TestCountLinesEmpty(t *testing.T) {
	loc, err := CountLines(nil)
	if err != nil || loc.Files != 0 {
		t.Errorf("CountLines(nil) = %+v, %v", loc, err)
	}
}
