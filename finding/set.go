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

package finding

type findingBlood struct {
	path    string
	line    int
	message string
}

// Set identifies unique findings by path, line and message. It preserves the
// adding order. A duplicate is merged into the stored finding: origins are
// united, the more severe severity wins and notes are appended.
type Set struct {
	Findings []*Finding
	stored   map[findingBlood]*Finding
}

func NewSet() *Set {
	set := Set{}
	set.stored = make(map[findingBlood]*Finding)
	return &set
}

func NewSetFromList(list []*Finding) *Set {
	set := NewSet()
	set.AddList(list)
	return set
}

// Add returns false when f was merged into an existing entry.
func (s *Set) Add(f *Finding) bool {
	blood := findingBlood{
		path:    f.Path,
		line:    f.Line,
		message: f.Message,
	}
	stored, reported := s.stored[blood]
	if !reported {
		s.stored[blood] = f
		s.Findings = append(s.Findings, f)
		return true
	}
	stored.addOrigins(f.Origins...)
	if f.Severity.Rank() > stored.Severity.Rank() {
		stored.Severity = f.Severity
	}
	if stored.Check == "" {
		stored.Check = f.Check
	}
	if stored.Column == 0 {
		stored.Column = f.Column
	}
	for _, note := range f.Notes {
		if !containsString(stored.Notes, note) {
			stored.Notes = append(stored.Notes, note)
		}
	}
	return false
}

func (s *Set) AddList(list []*Finding) {
	for _, f := range list {
		s.Add(f)
	}
}

func (s *Set) Len() int {
	return len(s.Findings)
}

func containsString(list []string, str string) bool {
	for _, item := range list {
		if item == str {
			return true
		}
	}
	return false
}
