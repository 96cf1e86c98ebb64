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

package cppcheck

import (
	"bytes"
	"context"
	"path/filepath"

	"github.com/golang/glog"
	"naive.systems/staticanalysis/checker_integration"
	"naive.systems/staticanalysis/finding"
)

const Template = "{file}:{line}:{column}: {severity}: {message} [{id}]"

type Options struct {
	Bin string
	// Dir is the working directory, normally the analysis root.
	Dir string
	// CompileCommands switches from the file list to --project.
	CompileCommands string
	// ExcludeDir is passed as -i when --project is used.
	ExcludeDir string
	XML        bool
	ExtraArgs  []string
}

// Args builds the cppcheck argument list. files is ignored in project mode.
func Args(opts Options, files []string) []string {
	args := []string{"--enable=all", "--inline-suppr", "--quiet"}
	if opts.XML {
		args = append(args, "--xml")
	} else {
		args = append(args, "--template="+Template)
	}
	args = append(args, opts.ExtraArgs...)
	if opts.CompileCommands != "" {
		args = append(args, "--project="+opts.CompileCommands)
		if opts.ExcludeDir != "" {
			args = append(args, "-i"+filepath.Clean(opts.ExcludeDir))
		}
		return args
	}
	return append(args, files...)
}

// Exec runs cppcheck and returns the raw report: the XML document in XML
// mode, stdout followed by stderr otherwise.
func Exec(ctx context.Context, opts Options, files []string) ([]byte, *checker_integration.Result, error) {
	runner := &checker_integration.Runner{
		Tool:           string(finding.Cppcheck),
		Bin:            opts.Bin,
		Dir:            opts.Dir,
		HasDiagnostics: HasDiagnostics,
	}
	result, err := runner.Execute(ctx, Args(opts, files))
	if err != nil {
		return nil, nil, err
	}
	if opts.XML {
		return result.Stderr, result, nil
	}
	return result.Combined(), result, nil
}

// HasDiagnostics reports whether output holds at least one cppcheck finding.
func HasDiagnostics(output []byte) bool {
	var findings []*finding.Finding
	if IsXMLReport(output) {
		findings, _ = ParseXML(output)
	} else {
		findings, _ = ParseText(output)
	}
	return len(findings) > 0
}

// Parse picks the XML or the text parser by looking at the content.
func Parse(output []byte) ([]*finding.Finding, []*finding.ParseError) {
	if IsXMLReport(output) {
		findings, err := ParseXML(output)
		if err != nil {
			glog.Warningf("cppcheck xml report: %v", err)
			return nil, []*finding.ParseError{{Tool: finding.Cppcheck, Reason: err.Error()}}
		}
		return findings, nil
	}
	return ParseText(output)
}

func IsXMLReport(output []byte) bool {
	return bytes.HasPrefix(bytes.TrimSpace(output), []byte("<?xml"))
}
