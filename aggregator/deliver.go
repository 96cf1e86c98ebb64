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

package aggregator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/golang/glog"
	"github.com/spf13/afero"
	"naive.systems/staticanalysis/atomic"
	"naive.systems/staticanalysis/finding"
	"naive.systems/staticanalysis/github"
	"naive.systems/staticanalysis/i18n"
	"naive.systems/staticanalysis/options"
	"naive.systems/staticanalysis/report"
	"naive.systems/staticanalysis/stats"
)

// Publisher posts a report on the pull request.
type Publisher interface {
	PostInline(ctx context.Context, findings []*finding.Finding, root string) (int, error)
	UpsertSummary(ctx context.Context, title, body string) error
}

var errNoPublisher = errors.New("no pull request client")

// NewPublisher connects to the pull request named by config.
func NewPublisher(ctx context.Context, config *options.Config) (Publisher, error) {
	gh := config.GitHub
	client, err := github.New(ctx, gh.Token, gh.APIURL)
	if err != nil {
		return nil, err
	}
	poster, err := github.NewPoster(client, gh.Repository, gh.PRNumber, gh.SHA)
	if err != nil {
		return nil, err
	}
	return poster, nil
}

func (a *Aggregator) enableColor() bool {
	return !a.Config.Output.NoColor && !color.NoColor
}

// WriteFiles writes the report file and the metadata files that are
// configured. Failures are logged only.
func (a *Aggregator) WriteFiles(r *report.Report) {
	out := a.Config.Output
	if out.ReportPath != "" {
		format := out.ReportFormat
		if format == "" {
			format = "json"
		}
		var buf bytes.Buffer
		if err := report.WriteReport(&buf, format, r, a.Config.SrcDir); err != nil {
			glog.Errorf("render %s report: %v", format, err)
		} else if err := atomic.WriteString(a.Fs, out.ReportPath, buf.String()); err != nil {
			glog.Errorf("write report %s: %v", out.ReportPath, err)
		}
	}
	if out.ResultsDir == "" {
		return
	}
	if err := a.Fs.MkdirAll(out.ResultsDir, 0755); err != nil {
		glog.Errorf("create results dir: %v", err)
		return
	}
	if err := stats.CountSeverityAndWrite(a.Fs, r.Findings, out.ResultsDir); err != nil {
		glog.Error(err)
	}
	loc, err := stats.CountLines(a.Selection)
	if err != nil {
		glog.Error(err)
		return
	}
	if err := stats.WriteLOC(a.Fs, out.ResultsDir, loc); err != nil {
		glog.Error(err)
	}
}

func (a *Aggregator) commentOptions() report.CommentOptions {
	gh := a.Config.GitHub
	return report.CommentOptions{
		Title:       gh.CommentTitle,
		Repository:  gh.HeadRepository,
		SHA:         gh.SHA,
		Root:        a.Config.SrcDir,
		Snippets:    a.Config.IsFork(),
		SnippetRoot: a.Config.AnalysisRoot(),
		Sources:     report.NewSourceCache(a.Fs, a.Config.Output.SourceCharset),
	}
}

func (a *Aggregator) post(ctx context.Context, r *report.Report, publisher Publisher) error {
	if publisher == nil {
		return errNoPublisher
	}
	if a.Config.CommentsInline() && len(r.Findings) > 0 {
		if _, err := publisher.PostInline(ctx, r.Findings, a.Config.SrcDir); err != nil {
			return err
		}
	}
	if a.Config.CommentsSummary() {
		body := report.CommentBody(r, a.commentOptions())
		if err := publisher.UpsertSummary(ctx, a.Config.GitHub.CommentTitle, body); err != nil {
			return err
		}
	}
	return nil
}

// Deliver prints r or posts it on the pull request. When posting fails the
// report is printed instead. Warnings are printed in both cases. The exit
// code depends on the findings only.
func (a *Aggregator) Deliver(ctx context.Context, r *report.Report, stdout io.Writer, publisher Publisher) int {
	printer := i18n.GetPrinter(a.Config.Lang)
	if !a.Config.ToConsole() {
		err := a.post(ctx, r, publisher)
		if err == nil {
			if err := report.WriteWarnings(stdout, r.Warnings, a.enableColor()); err != nil {
				glog.Errorf("write warnings: %v", err)
			}
			return r.ExitCode()
		}
		glog.Errorf("failed to post on pull request #%d: %v", a.Config.GitHub.PRNumber, err)
		r.Warnings = append(r.Warnings, printer.Sprintf(i18n.PostFailed, err))
	}
	if err := report.WriteConsole(stdout, r, printer, a.enableColor()); err != nil {
		glog.Errorf("write console report: %v", err)
		for _, f := range r.Findings {
			fmt.Fprintln(stdout, f.String())
		}
	}
	return r.ExitCode()
}

// Run aggregates the checker outputs, writes the configured files and
// delivers the report. It returns the exit code of the process.
func Run(ctx context.Context, fs afero.Fs, config *options.Config, selection, warnings []string, stdout io.Writer) int {
	a := New(fs, config, selection, warnings)
	r, err := a.Aggregate(ctx, Inputs(config))
	if err != nil {
		glog.Errorf("aggregate: %v", err)
		return 1
	}
	a.WriteFiles(r)
	var publisher Publisher
	if !config.ToConsole() {
		publisher, err = NewPublisher(ctx, config)
		if err != nil {
			glog.Errorf("pull request client: %v", err)
		}
	}
	return a.Deliver(ctx, r, stdout, publisher)
}
