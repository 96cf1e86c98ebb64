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
Package analysis runs both checkers over the selected files and stores their
raw outputs for the aggregator.
*/
package analysis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang/glog"
	"github.com/spf13/afero"
	"naive.systems/staticanalysis/atomic"
	"naive.systems/staticanalysis/checker_integration"
	"naive.systems/staticanalysis/checker_integration/clangtidy"
	"naive.systems/staticanalysis/checker_integration/compilecommand"
	"naive.systems/staticanalysis/checker_integration/cppcheck"
	"naive.systems/staticanalysis/finding"
	"naive.systems/staticanalysis/i18n"
	"naive.systems/staticanalysis/options"
	"naive.systems/staticanalysis/selector"
)

type Analysis struct {
	Fs     afero.Fs
	Config *options.Config
	// Selection is the File Selector result over the analysis root.
	Selection []string
	// CompileCommands is the generated compilation database, empty when the
	// checkers are given the file list.
	CompileCommands string
}

func New(fs afero.Fs, config *options.Config, selection []string, compileCommands string) *Analysis {
	return &Analysis{Fs: fs, Config: config, Selection: selection, CompileCommands: compileCommands}
}

// execFunc runs one checker and returns its raw output.
type execFunc func(ctx context.Context) ([]byte, *checker_integration.Result, error)

// Run executes the checkers and writes their outputs. A checker that cannot
// be started or that crashes produces a warning, never an error. The error
// is reserved for outputs that cannot be stored.
func (a *Analysis) Run(ctx context.Context) ([]string, error) {
	checkers := a.Config.Checkers
	if len(a.Selection) == 0 {
		glog.Info("no files selected, checkers not invoked")
		for _, path := range []string{checkers.CppcheckOutput, checkers.ClangTidyOutput} {
			if err := a.write(path, nil); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}

	var warnings []string
	buildDir := ""
	if a.CompileCommands != "" {
		index := selector.NewIndex(a.Selection)
		dir, err := compilecommand.CreateTempFolderContainsFilteredCompileCommandsJsonFile(a.Fs, a.CompileCommands, index.Contains)
		if err != nil {
			glog.Warningf("compilation database unusable, checking the file list: %v", err)
			warnings = append(warnings, fmt.Sprintf("compilation database %s unusable: %v", a.CompileCommands, err))
		} else {
			defer a.Fs.RemoveAll(dir)
			buildDir = dir
		}
	}

	root := a.Config.AnalysisRoot()
	cppcheckOpts := cppcheck.Options{
		Bin:       checkers.CppcheckBin,
		Dir:       root,
		XML:       checkers.CppcheckXML,
		ExtraArgs: checkers.CppcheckArgs,
	}
	if buildDir != "" {
		cppcheckOpts.CompileCommands = filepath.Join(buildDir, compilecommand.CCJson)
		cppcheckOpts.ExcludeDir = a.excludeDir()
	}
	clangTidyOpts := clangtidy.Options{
		Bin:       checkers.ClangTidyBin,
		Dir:       root,
		BuildDir:  buildDir,
		ExtraArgs: checkers.ClangTidyArgs,
	}

	for _, checker := range []struct {
		tool   finding.Tool
		output string
		exec   execFunc
	}{
		{finding.Cppcheck, checkers.CppcheckOutput, func(ctx context.Context) ([]byte, *checker_integration.Result, error) {
			return cppcheck.Exec(ctx, cppcheckOpts, a.Selection)
		}},
		{finding.ClangTidy, checkers.ClangTidyOutput, func(ctx context.Context) ([]byte, *checker_integration.Result, error) {
			return clangtidy.Exec(ctx, clangTidyOpts, a.Selection)
		}},
	} {
		output, result, err := checker.exec(ctx)
		var invocationErr *checker_integration.ToolInvocationError
		switch {
		case errors.As(err, &invocationErr):
			glog.Warning(err)
			warnings = append(warnings, err.Error())
		case err != nil:
			return warnings, err
		case result.Outcome == checker_integration.OutcomeCrashed:
			warnings = append(warnings, i18n.GetPrinter(a.Config.Lang).Sprintf(i18n.ToolFailed, checker.tool, result.Reason))
		}
		if err := a.write(checker.output, output); err != nil {
			return warnings, err
		}
	}
	return warnings, nil
}

func (a *Analysis) excludeDir() string {
	exclude := a.Config.ExcludeDir
	if exclude == "" || filepath.IsAbs(exclude) {
		return exclude
	}
	return filepath.Join(a.Config.AnalysisRoot(), exclude)
}

func (a *Analysis) write(path string, output []byte) error {
	if path == "" {
		return nil
	}
	if err := atomic.WriteString(a.Fs, path, string(output)); err != nil {
		return fmt.Errorf("write checker output %s: %v", path, err)
	}
	glog.Infof("%d bytes written to %s", len(output), path)
	return nil
}

// RemoveOutputs deletes stale outputs of a previous run.
func RemoveOutputs(fs afero.Fs, config *options.Config) {
	for _, path := range []string{config.Checkers.CppcheckOutput, config.Checkers.ClangTidyOutput} {
		if path == "" {
			continue
		}
		if err := fs.Remove(path); err != nil && !os.IsNotExist(err) {
			glog.Warningf("remove stale output %s: %v", path, err)
		}
	}
}
