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
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type Hunk struct {
	OldPos, OldLines, NewPos, NewLines int
}

type File struct {
	NewName string
	OldName string
	Hunks   []*Hunk
}

type Patch struct {
	Files []*File
}

var hunkRe = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

/*
Parse parses the diff into a patch struct.

It goes over the lines in the diff and maintain an implicit state machine. It
only cares about lines that start with "--- ", "+++ ", or "@@ -", and ignores
everything else.

For a particular file in the diff, there are three cases to consider:

1. File modification

	diff --git a/main/app.c b/main/app.c
	index 602565a30b39..9ff7b4d33b07 100644
	--- a/main/app.c
	+++ b/main/app.c
	@@ -12,0 +13,2 @@ void app_main(void)
	+    int *p = NULL;
	+    *p = 1;

Lines starting with "diff" or "index" are ignored. With -U0 a pure
insertion has OldLines 0 and a pure deletion has NewLines 0.

2. File addition

	--- /dev/null
	+++ b/main/new.c
	@@ -0,0 +1,27 @@

OldName is set to the empty string in this case.

3. File deletion

	--- a/main/old.c
	+++ /dev/null
	@@ -1 +0,0 @@

NewName is set to the empty string in this case.
*/
func Parse(diff string) (*Patch, error) {
	lines := strings.Split(diff, "\n")
	var p Patch
	var f *File
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "--- "):
			f = &File{}
			name, err := fileName(line, "--- ", "a/")
			if err != nil {
				return nil, fmt.Errorf("invalid line %d '%s'", i, line)
			}
			f.OldName = name
			p.Files = append(p.Files, f)
		case strings.HasPrefix(line, "+++ "):
			if f == nil || len(f.Hunks) > 0 {
				return nil, fmt.Errorf("unexpected line %d '%s'", i, line)
			}
			name, err := fileName(line, "+++ ", "b/")
			if err != nil {
				return nil, fmt.Errorf("invalid line %d '%s'", i, line)
			}
			f.NewName = name
		case strings.HasPrefix(line, "@@ -"):
			if f == nil {
				return nil, fmt.Errorf("f is nil but line %d is '%s'", i, line)
			}
			hunk, err := parseHunkHeader(line)
			if err != nil {
				return nil, err
			}
			f.Hunks = append(f.Hunks, hunk)
		}
	}
	return &p, nil
}

// fileName returns "" for /dev/null.
func fileName(line, marker, prefix string) (string, error) {
	name := strings.TrimPrefix(line, marker)
	// git appends a tab when the name contains spaces
	name = strings.TrimSuffix(name, "\t")
	if name == "/dev/null" {
		return "", nil
	}
	if !strings.HasPrefix(name, prefix) {
		return "", fmt.Errorf("missing %s prefix", prefix)
	}
	return strings.TrimPrefix(name, prefix), nil
}

func parseHunkHeader(line string) (*Hunk, error) {
	match := hunkRe.FindStringSubmatch(line)
	if match == nil {
		return nil, fmt.Errorf("could not extract hunk info from line '%s'", line)
	}
	var values [4]int
	for i, defaultValue := range [4]int{0, 1, 0, 1} {
		values[i] = defaultValue
		if match[i+1] == "" {
			continue
		}
		v, err := strconv.Atoi(match[i+1])
		if err != nil {
			return nil, fmt.Errorf("error converting %q to integer in '%s': %v", match[i+1], line, err)
		}
		values[i] = v
	}
	return &Hunk{values[0], values[1], values[2], values[3]}, nil
}

// LineRange is an inclusive range of line numbers in the new file.
type LineRange struct {
	Start, End int
}

// ChangedLines maps repository-relative paths to the line ranges the patch
// adds or modifies.
type ChangedLines map[string][]LineRange

func (p *Patch) ChangedLines() ChangedLines {
	changed := ChangedLines{}
	for _, f := range p.Files {
		if f.NewName == "" {
			continue
		}
		for _, h := range f.Hunks {
			if h.NewLines == 0 {
				continue
			}
			changed[f.NewName] = append(changed[f.NewName], LineRange{h.NewPos, h.NewPos + h.NewLines - 1})
		}
	}
	return changed
}

func (c ChangedLines) Contains(path string, line int) bool {
	for _, r := range c[path] {
		if line >= r.Start && line <= r.End {
			return true
		}
	}
	return false
}
