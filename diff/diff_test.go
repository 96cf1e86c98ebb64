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
	"testing"

	"github.com/google/go-cmp/cmp"
)

const samplePatch = `diff --git a/main/app.c b/main/app.c
index 602565a30b39..9ff7b4d33b07 100644
--- a/main/app.c
+++ b/main/app.c
@@ -12,0 +13,2 @@ void app_main(void)
+    int *p = NULL;
+    *p = 1;
@@ -30 +32 @@ static void loop(void)
-    delay(10);
+    delay(20);
@@ -40,3 +41,0 @@
-a
-b
-c
diff --git a/main/new.c b/main/new.c
new file mode 100644
index 000000000000..dad6695563d6
--- /dev/null
+++ b/main/new.c
@@ -0,0 +1,3 @@
+int a;
+int b;
+int c;
diff --git a/old.c b/old.c
deleted file mode 100644
--- a/old.c
+++ /dev/null
@@ -1 +0,0 @@
-int gone;
`

func TestParse(t *testing.T) {
	patch, err := Parse(samplePatch)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	expected := &Patch{Files: []*File{
		{OldName: "main/app.c", NewName: "main/app.c", Hunks: []*Hunk{
			{OldPos: 12, OldLines: 0, NewPos: 13, NewLines: 2},
			{OldPos: 30, OldLines: 1, NewPos: 32, NewLines: 1},
			{OldPos: 40, OldLines: 3, NewPos: 41, NewLines: 0},
		}},
		{OldName: "", NewName: "main/new.c", Hunks: []*Hunk{
			{OldPos: 0, OldLines: 0, NewPos: 1, NewLines: 3},
		}},
		{OldName: "old.c", NewName: "", Hunks: []*Hunk{
			{OldPos: 1, OldLines: 1, NewPos: 0, NewLines: 0},
		}},
	}}
	if diff := cmp.Diff(expected, patch); diff != "" {
		t.Errorf("unexpected patch (-want +got):\n%s", diff)
	}
}

func TestChangedLines(t *testing.T) {
	patch, err := Parse(samplePatch)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	changed := patch.ChangedLines()
	for _, testCase := range [...]struct {
		path     string
		line     int
		expected bool
	}{
		{"main/app.c", 12, false},
		{"main/app.c", 13, true},
		{"main/app.c", 14, true},
		{"main/app.c", 15, false},
		{"main/app.c", 32, true},
		{"main/app.c", 41, false},
		{"main/new.c", 3, true},
		{"old.c", 1, false},
		{"other.c", 1, false},
	} {
		if got := changed.Contains(testCase.path, testCase.line); got != testCase.expected {
			t.Errorf("Contains(%s, %d) = %v, expected %v", testCase.path, testCase.line, got, testCase.expected)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	for _, testCase := range [...]struct {
		name string
		diff string
	}{
		{name: "old name without prefix", diff: "--- main/app.c\n"},
		{name: "hunk before file", diff: "@@ -1 +1 @@\n"},
		{name: "broken hunk", diff: "--- a/x.c\n+++ b/x.c\n@@ -a +1 @@\n"},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			if _, err := Parse(testCase.diff); err == nil {
				t.Errorf("expected an error")
			}
		})
	}
}
