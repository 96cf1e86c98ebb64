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
	"os"

	"github.com/golang/glog"
	"github.com/spf13/afero"
	"naive.systems/staticanalysis/aggregator"
	"naive.systems/staticanalysis/options"
	"naive.systems/staticanalysis/selector"
)

func main() {
	sharedOptions := options.NewSharedOptions(flag.CommandLine, options.SelectionGroup, options.AggregationGroup)
	flag.Parse()
	defer glog.Flush()

	fs := afero.NewOsFs()
	cfg, err := options.Build(fs, flag.CommandLine, sharedOptions, os.Getenv)
	if err != nil {
		glog.Fatalf("options.Build: %v", err)
	}
	// the selection the checkers were given, recomputed over the same tree
	selection, err := selector.Select(fs, selector.Options{
		Root:              cfg.AnalysisRoot(),
		ExcludeDir:        cfg.ExcludeDir,
		IgnoreDirPatterns: cfg.IgnoreDirPatterns,
	})
	var invalidPath *selector.InvalidPathError
	if errors.As(err, &invalidPath) {
		fmt.Fprintln(os.Stderr, err)
		glog.Flush()
		os.Exit(2)
	}
	if err != nil {
		glog.Fatalf("selector.Select: %v", err)
	}
	code := aggregator.Run(context.Background(), fs, cfg, selection, nil, os.Stdout)
	glog.Flush()
	os.Exit(code)
}
