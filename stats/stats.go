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

package stats

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/golang/glog"
	"github.com/hhatto/gocloc"
	"github.com/spf13/afero"
	"naive.systems/staticanalysis/atomic"
	"naive.systems/staticanalysis/finding"
)

const (
	SeverityStatsFile = "severity_stats.json"
	LOCFile           = "loc.json"
)

// languages counted by CountLines
var kCountLangs = []string{"C", "C++", "C Header", "C++ Header"}

type SeverityCount struct {
	Error       int `json:"error"`
	Warning     int `json:"warning"`
	Style       int `json:"style"`
	Performance int `json:"performance"`
	Portability int `json:"portability"`
	Information int `json:"information"`
	Note        int `json:"note"`
	Unknown     int `json:"unknown"`
}

func (c SeverityCount) Total() int {
	return c.Error + c.Warning + c.Style + c.Performance + c.Portability + c.Information + c.Note + c.Unknown
}

func AccumulateBySeverity(cnt *SeverityCount, f *finding.Finding) {
	switch f.Severity {
	case finding.SeverityError:
		cnt.Error++
	case finding.SeverityWarning:
		cnt.Warning++
	case finding.SeverityStyle:
		cnt.Style++
	case finding.SeverityPerformance:
		cnt.Performance++
	case finding.SeverityPortability:
		cnt.Portability++
	case finding.SeverityInformation:
		cnt.Information++
	case finding.SeverityNote:
		cnt.Note++
	default:
		glog.Warningf("undefined severity of finding %s", f.ID)
		cnt.Unknown++
	}
}

func CountBySeverity(findings []*finding.Finding) SeverityCount {
	var cnt SeverityCount
	for _, f := range findings {
		AccumulateBySeverity(&cnt, f)
	}
	return cnt
}

func CountSeverityAndWrite(fs afero.Fs, findings []*finding.Finding, resultDir string) error {
	statsBytes, err := json.Marshal(CountBySeverity(findings))
	if err != nil {
		return fmt.Errorf("json.Marshal: %v", err)
	}
	statsFile := filepath.Join(resultDir, SeverityStatsFile)
	if err := atomic.Write(fs, statsFile, statsBytes); err != nil {
		return fmt.Errorf("failed to write to file %s: %v", statsFile, err)
	}
	return nil
}

type LOC struct {
	Files    int            `json:"files"`
	Code     int            `json:"code"`
	Comments int            `json:"comments"`
	Blanks   int            `json:"blanks"`
	ByLang   map[string]int `json:"by_language,omitempty"`
}

// CountLines counts the lines of the selected files with gocloc. It reads
// the real filesystem.
func CountLines(files []string) (*LOC, error) {
	loc := &LOC{ByLang: map[string]int{}}
	if len(files) == 0 {
		return loc, nil
	}
	clocOpts := gocloc.NewClocOptions()
	languages := gocloc.NewDefinedLanguages()
	for _, lang := range kCountLangs {
		if _, exists := languages.Langs[lang]; exists {
			clocOpts.IncludeLangs[lang] = struct{}{}
		}
	}
	processor := gocloc.NewProcessor(languages, clocOpts)
	result, err := processor.Analyze(files)
	if err != nil {
		return nil, fmt.Errorf("gocloc fail: %v", err)
	}
	for _, file := range result.Files {
		loc.Files++
		loc.Code += int(file.Code)
		loc.Comments += int(file.Comments)
		loc.Blanks += int(file.Blanks)
		loc.ByLang[file.Lang] += int(file.Code)
	}
	return loc, nil
}

func WriteLOC(fs afero.Fs, resultDir string, loc *LOC) error {
	data, err := json.Marshal(loc)
	if err != nil {
		return fmt.Errorf("json.Marshal: %v", err)
	}
	path := filepath.Join(resultDir, LOCFile)
	if err := atomic.Write(fs, path, data); err != nil {
		return fmt.Errorf("failed to write to file %s: %v", path, err)
	}
	return nil
}
