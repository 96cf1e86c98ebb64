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
Package aggregator turns the raw checker outputs of a run into one report
and delivers it to the console or to the pull request.
*/
package aggregator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/spf13/afero"
	"naive.systems/staticanalysis/checker_integration/clangtidy"
	"naive.systems/staticanalysis/checker_integration/cppcheck"
	"naive.systems/staticanalysis/diff"
	"naive.systems/staticanalysis/finding"
	"naive.systems/staticanalysis/options"
	"naive.systems/staticanalysis/report"
	"naive.systems/staticanalysis/selector"
)

// Input is the raw output file of one checker.
type Input struct {
	Tool finding.Tool
	Path string
}

// ChangedLinesFunc lists the lines touched by the pull request, keyed by
// repository relative path.
type ChangedLinesFunc func(ctx context.Context) (diff.ChangedLines, error)

type Aggregator struct {
	Fs     afero.Fs
	Config *options.Config
	// Selection is the file list the checkers were given, in the layout of
	// the analysis root.
	Selection []string
	// Warnings already known, such as checkers that failed to run.
	Warnings     []string
	ChangedLines ChangedLinesFunc
}

func New(fs afero.Fs, config *options.Config, selection []string, warnings []string) *Aggregator {
	a := &Aggregator{Fs: fs, Config: config, Selection: selection, Warnings: warnings}
	a.ChangedLines = func(ctx context.Context) (diff.ChangedLines, error) {
		gh := config.GitHub
		return diff.ChangedLinesBetween(ctx, config.AnalysisRoot(), gh.CommonAncestor, gh.HeadRef)
	}
	return a
}

// Inputs lists the configured checker outputs.
func Inputs(config *options.Config) []Input {
	return []Input{
		{Tool: finding.Cppcheck, Path: config.Checkers.CppcheckOutput},
		{Tool: finding.ClangTidy, Path: config.Checkers.ClangTidyOutput},
	}
}

// ParseOutput parses the output of tool. Malformed lines are recovered and
// only counted.
func ParseOutput(tool finding.Tool, output []byte) ([]*finding.Finding, []*finding.ParseError) {
	switch tool {
	case finding.Cppcheck:
		return cppcheck.Parse(output)
	case finding.ClangTidy:
		return clangtidy.Parse(output)
	}
	return nil, []*finding.ParseError{{Tool: tool, Reason: "unknown checker"}}
}

// RewritePrefix moves path from the from tree to the to tree, matching
// whole path components. Paths outside from, including those already in
// the to layout, are returned unchanged.
func RewritePrefix(path, from, to string) string {
	if from == "" || to == "" {
		return path
	}
	from = filepath.Clean(from)
	to = filepath.Clean(to)
	path = filepath.Clean(path)
	if path == from {
		return to
	}
	if !selector.IsUnder(path, from) {
		return path
	}
	return filepath.Join(to, strings.TrimPrefix(path, from+string(filepath.Separator)))
}

func (a *Aggregator) rewrite(path string) string {
	if !a.Config.UseExtraDir {
		return path
	}
	return RewritePrefix(path, a.Config.ExtraDir, a.Config.SrcDir)
}

func (a *Aggregator) readInput(input Input) ([]*finding.Finding, error) {
	if input.Path == "" {
		return nil, nil
	}
	output, err := afero.ReadFile(a.Fs, input.Path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%s output %s not found", input.Tool, input.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s output: %v", input.Tool, err)
	}
	findings, parseErrors := ParseOutput(input.Tool, output)
	if len(parseErrors) > 0 {
		glog.Infof("%d unparsable lines in %s output skipped", len(parseErrors), input.Tool)
	}
	return findings, nil
}

// Aggregate builds the report from the checker outputs: paths are resolved
// against the analysis root, rewritten to the primary workspace, limited to
// the selection and, when requested, to the lines the pull request changed.
// Duplicates across checkers are merged.
func (a *Aggregator) Aggregate(ctx context.Context, inputs []Input) (*report.Report, error) {
	root := a.Config.AnalysisRoot()
	warnings := append([]string{}, a.Warnings...)
	var all []*finding.Finding
	for _, input := range inputs {
		findings, err := a.readInput(input)
		if err != nil {
			glog.Warning(err)
			warnings = append(warnings, err.Error())
			continue
		}
		for _, f := range findings {
			if !filepath.IsAbs(f.Path) {
				f.Path = filepath.Join(root, f.Path)
			}
			f.Path = filepath.Clean(f.Path)
		}
		all = append(all, findings...)
	}
	finding.AddCodeLineHash(a.Fs, all)

	selected := make([]string, 0, len(a.Selection))
	for _, path := range a.Selection {
		selected = append(selected, a.rewrite(path))
	}
	index := selector.NewIndex(selected)

	var changed diff.ChangedLines
	if a.Config.GitHub.OnlyPRChanges && !a.Config.ToConsole() && a.ChangedLines != nil {
		var err error
		changed, err = a.ChangedLines(ctx)
		if err != nil {
			glog.Warningf("pull request changes unknown, reporting all findings: %v", err)
			warnings = append(warnings, fmt.Sprintf("pull request changes unknown: %v", err))
			changed = nil
		}
	}

	set := finding.NewSet()
	for _, f := range all {
		f.Path = a.rewrite(f.Path)
		if !index.Contains(f.Path) {
			glog.Infof("finding outside the selection dropped: %s", f)
			continue
		}
		if changed != nil && !changed.Contains(report.RelPath(a.Config.SrcDir, f.Path), f.Line) {
			glog.V(1).Infof("finding outside the pull request changes dropped: %s", f)
			continue
		}
		set.Add(f)
	}
	findings := set.Findings
	finding.AddID(findings)
	return report.New(findings, warnings, len(a.Selection)), nil
}
