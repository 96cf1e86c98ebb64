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

/*
Package report renders the merged findings of a run: the console report,
the pull request comment body and the machine readable report files.
*/
package report

import (
	"naive.systems/staticanalysis/finding"
	"naive.systems/staticanalysis/stats"
)

// Report is the outcome of one run.
type Report struct {
	// Findings are sorted by path, line and message.
	Findings []*finding.Finding
	// Warnings are report-level problems such as a checker that failed.
	Warnings     []string
	Counts       stats.SeverityCount
	FilesChecked int
}

type FileGroup struct {
	Path     string
	Findings []*finding.Finding
}

func New(findings []*finding.Finding, warnings []string, filesChecked int) *Report {
	sorted := append([]*finding.Finding{}, findings...)
	finding.Sort(sorted)
	return &Report{
		Findings:     sorted,
		Warnings:     warnings,
		Counts:       stats.CountBySeverity(sorted),
		FilesChecked: filesChecked,
	}
}

func (r *Report) HasErrors() bool {
	return finding.HasErrors(r.Findings)
}

// ExitCode is 1 when an error severity finding exists. Warnings and tool
// failures never change it.
func (r *Report) ExitCode() int {
	if r.HasErrors() {
		return 1
	}
	return 0
}

// ByFile groups the findings per file, keeping the sort order.
func (r *Report) ByFile() []FileGroup {
	groups := []FileGroup{}
	for _, f := range r.Findings {
		if len(groups) == 0 || groups[len(groups)-1].Path != f.Path {
			groups = append(groups, FileGroup{Path: f.Path})
		}
		last := &groups[len(groups)-1]
		last.Findings = append(last.Findings, f)
	}
	return groups
}
