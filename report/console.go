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

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/text/message"
	"naive.systems/staticanalysis/finding"
	"naive.systems/staticanalysis/i18n"
)

// ErrorHeadline is the workflow command GitHub Actions shows as an error.
const ErrorHeadline = "##[error] "

type palette struct {
	red    *color.Color
	yellow *color.Color
	green  *color.Color
	bold   *color.Color
}

func newPalette(enableColor bool) palette {
	p := palette{
		red:    color.New(color.FgRed, color.Bold),
		yellow: color.New(color.FgYellow),
		green:  color.New(color.FgGreen),
		bold:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.red, p.yellow, p.green, p.bold} {
		if enableColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s finding.Severity) *color.Color {
	switch {
	case s.IsError():
		return p.red
	case s == finding.SeverityWarning:
		return p.yellow
	}
	return p.bold
}

func writeWarnings(b *strings.Builder, colors palette, warnings []string) {
	for _, warning := range warnings {
		colors.yellow.Fprintf(b, "warning: %s\n", warning)
	}
}

// WriteWarnings prints the report-level warnings alone, for runs whose
// findings went to the pull request.
func WriteWarnings(w io.Writer, warnings []string, enableColor bool) error {
	var b strings.Builder
	writeWarnings(&b, newPalette(enableColor), warnings)
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteConsole writes the flat human readable report.
func WriteConsole(w io.Writer, r *Report, printer *message.Printer, enableColor bool) error {
	colors := newPalette(enableColor)
	var b strings.Builder
	writeWarnings(&b, colors, r.Warnings)
	if len(r.Findings) == 0 {
		if r.FilesChecked == 0 {
			colors.green.Fprintln(&b, printer.Sprintf(i18n.NoFilesToCheck))
		} else {
			colors.green.Fprintln(&b, printer.Sprintf(i18n.NoIssuesFound))
			fmt.Fprintln(&b, printer.Sprintf(i18n.FilesChecked, r.FilesChecked))
		}
		_, err := io.WriteString(w, b.String())
		return err
	}
	colors.red.Fprintln(&b, ErrorHeadline+printer.Sprintf(i18n.IssuesFound))
	groups := r.ByFile()
	for _, group := range groups {
		fmt.Fprintln(&b)
		colors.bold.Fprintln(&b, group.Path)
		for _, f := range group.Findings {
			fmt.Fprintf(&b, "%s:%d: ", f.Path, f.Line)
			colors.severity(f.Severity).Fprint(&b, f.Severity.String())
			fmt.Fprintf(&b, ": %s", f.Message)
			if f.Check != "" {
				fmt.Fprintf(&b, " [%s]", f.Check)
			}
			fmt.Fprintf(&b, " (%s)\n", joinTools(f.Origins))
			for _, note := range f.Notes {
				fmt.Fprintf(&b, "    %s\n", note)
			}
		}
	}
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, printer.Sprintf(i18n.SummaryHeader))
	fmt.Fprintln(&b, printer.Sprintf(i18n.FindingsInFiles, len(r.Findings), len(groups)))
	for _, count := range severityCounts(r) {
		fmt.Fprintf(&b, "  %s\n", printer.Sprintf(i18n.SeverityCount, count.severity, count.n))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func joinTools(tools []finding.Tool) string {
	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		names = append(names, string(tool))
	}
	return strings.Join(names, ", ")
}

type severityCount struct {
	severity finding.Severity
	n        int
}

// non-zero counts, most severe first
func severityCounts(r *Report) []severityCount {
	all := []severityCount{
		{finding.SeverityError, r.Counts.Error},
		{finding.SeverityWarning, r.Counts.Warning},
		{finding.SeverityStyle, r.Counts.Style},
		{finding.SeverityPerformance, r.Counts.Performance},
		{finding.SeverityPortability, r.Counts.Portability},
		{finding.SeverityInformation, r.Counts.Information},
		{finding.SeverityNote, r.Counts.Note},
		{finding.SeverityUnknown, r.Counts.Unknown},
	}
	counts := []severityCount{}
	for _, c := range all {
		if c.n > 0 {
			counts = append(counts, c)
		}
	}
	return counts
}
