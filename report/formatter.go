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
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"

	"gopkg.in/yaml.v2"
	"naive.systems/staticanalysis/finding"
	"naive.systems/staticanalysis/i18n"
)

// Formats accepted by WriteReport.
var Formats = []string{"text", "json", "yaml", "junit-xml", "sarif"}

func IsFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// document is the shape of the json and yaml reports
type document struct {
	Findings     []*finding.Finding `json:"findings" yaml:"findings"`
	Warnings     []string           `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Counts       interface{}        `json:"counts" yaml:"counts"`
	FilesChecked int                `json:"files_checked" yaml:"files_checked"`
}

// WriteReport writes r in format. Paths in sarif are made relative to root.
func WriteReport(w io.Writer, format string, r *Report, root string) error {
	var err error
	switch format {
	case "json":
		err = writeJSON(w, r)
	case "yaml":
		err = writeYAML(w, r)
	case "junit-xml":
		err = writeJUnit(w, r)
	case "sarif":
		err = writeSarif(w, r, root)
	case "text":
		err = WriteConsole(w, r, i18n.GetPrinter("en"), false)
	default:
		err = fmt.Errorf("unknown report format %q", format)
	}
	return err
}

func newDocument(r *Report) document {
	findings := r.Findings
	if findings == nil {
		findings = []*finding.Finding{}
	}
	return document{Findings: findings, Warnings: r.Warnings, Counts: r.Counts, FilesChecked: r.FilesChecked}
}

func writeJSON(w io.Writer, r *Report) error {
	raw, err := json.MarshalIndent(newDocument(r), "", "\t")
	if err != nil {
		return err
	}
	_, err = w.Write(append(raw, '\n'))
	return err
}

func writeYAML(w io.Writer, r *Report) error {
	raw, err := yaml.Marshal(newDocument(r))
	if err != nil {
		return err
	}
	_, err = w.Write(raw)
	return err
}

func writeJUnit(w io.Writer, r *Report) error {
	raw, err := xml.MarshalIndent(GenerateJUnitReport(r), "", "\t")
	if err != nil {
		return err
	}
	xmlHeader := []byte("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	_, err = w.Write(append(xmlHeader, raw...))
	return err
}

func writeSarif(w io.Writer, r *Report, root string) error {
	raw, err := json.MarshalIndent(GenerateSarifReport(r, root), "", "\t")
	if err != nil {
		return err
	}
	_, err = w.Write(raw)
	return err
}
