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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"
	"github.com/spf13/afero"
	"naive.systems/staticanalysis/aggregator"
	"naive.systems/staticanalysis/bootstrap"
	"naive.systems/staticanalysis/checker_integration/analysis"
	"naive.systems/staticanalysis/options"
	"naive.systems/staticanalysis/selector"
)

type pipeline struct {
	fs     afero.Fs
	config *options.Config
	stdout io.Writer
	stderr io.Writer
	// prepare sets up the toolchain and returns the compilation database,
	// empty when none was generated.
	prepare func(ctx context.Context) (string, error)
}

func newPipeline(fs afero.Fs, config *options.Config) *pipeline {
	return &pipeline{
		fs:      fs,
		config:  config,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		prepare: bootstrap.New(fs, config.AnalysisRoot(), config.Bootstrap).Prepare,
	}
}

func (p *pipeline) selectorOptions() selector.Options {
	return selector.Options{
		Root:              p.config.AnalysisRoot(),
		ExcludeDir:        p.config.ExcludeDir,
		IgnoreDirPatterns: p.config.IgnoreDirPatterns,
	}
}

// run validates the paths, bootstraps, selects, analyzes and reports. It
// returns the exit code: 2 for invalid paths, 1 for error findings or a
// failed setup, 0 otherwise.
func (p *pipeline) run(ctx context.Context) int {
	// invalid paths abort before any tool runs
	if _, _, err := selector.Resolve(p.fs, p.selectorOptions()); err != nil {
		fmt.Fprintln(p.stderr, err)
		return 2
	}

	compileCommands, err := p.prepare(ctx)
	if err != nil {
		glog.Errorf("bootstrap: %v", err)
		fmt.Fprintln(p.stderr, err)
		return 1
	}

	selection, err := selector.Select(p.fs, p.selectorOptions())
	var invalidPath *selector.InvalidPathError
	if errors.As(err, &invalidPath) {
		fmt.Fprintln(p.stderr, err)
		return 2
	}
	if err != nil {
		glog.Errorf("selector.Select: %v", err)
		fmt.Fprintln(p.stderr, err)
		return 1
	}
	glog.Infof("%d files selected under %s", len(selection), p.config.AnalysisRoot())

	analysis.RemoveOutputs(p.fs, p.config)
	warnings, err := analysis.New(p.fs, p.config, selection, compileCommands).Run(ctx)
	if err != nil {
		glog.Errorf("analysis: %v", err)
		fmt.Fprintln(p.stderr, err)
		return 1
	}
	return aggregator.Run(ctx, p.fs, p.config, selection, warnings, p.stdout)
}

func main() {
	sharedOptions := options.NewSharedOptions(flag.CommandLine,
		options.SelectionGroup, options.CheckerGroup, options.AggregationGroup, options.BootstrapGroup)
	flag.Parse()
	defer glog.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fs := afero.NewOsFs()
	cfg, err := options.Build(fs, flag.CommandLine, sharedOptions, os.Getenv)
	if err != nil {
		glog.Fatalf("options.Build: %v", err)
	}
	code := newPipeline(fs, cfg).run(ctx)
	glog.Flush()
	os.Exit(code)
}
