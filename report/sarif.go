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
	"sort"

	"naive.systems/staticanalysis/finding"
)

const (
	SarifVersion = "2.1.0"
	SarifSchema  = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
)

type SarifLevel string

const (
	SarifNone    = SarifLevel("none")
	SarifNote    = SarifLevel("note")
	SarifWarning = SarifLevel("warning")
	SarifError   = SarifLevel("error")
)

type SarifReport struct {
	Version string      `json:"version"`
	Schema  string      `json:"$schema"`
	Runs    []*SarifRun `json:"runs"`
}

type SarifRun struct {
	Tool    *SarifTool     `json:"tool"`
	Results []*SarifResult `json:"results"`
}

type SarifTool struct {
	Driver *SarifToolComponent `json:"driver"`
}

type SarifToolComponent struct {
	Name  string                     `json:"name"`
	Rules []*SarifReportingDescriptor `json:"rules,omitempty"`
}

type SarifReportingDescriptor struct {
	ID string `json:"id"`
}

type SarifMessage struct {
	Text string `json:"text"`
}

type SarifResult struct {
	RuleID    string           `json:"ruleId,omitempty"`
	RuleIndex int              `json:"ruleIndex"`
	Level     SarifLevel       `json:"level"`
	Message   *SarifMessage    `json:"message"`
	Locations []*SarifLocation `json:"locations"`
}

type SarifLocation struct {
	PhysicalLocation *SarifPhysicalLocation `json:"physicalLocation"`
}

type SarifPhysicalLocation struct {
	ArtifactLocation *SarifArtifactLocation `json:"artifactLocation"`
	Region           *SarifRegion           `json:"region"`
}

type SarifArtifactLocation struct {
	URI string `json:"uri"`
}

type SarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
}

func getSarifLevel(s finding.Severity) SarifLevel {
	switch s {
	case finding.SeverityError:
		return SarifError
	case finding.SeverityWarning, finding.SeverityPerformance, finding.SeverityPortability:
		return SarifWarning
	case finding.SeverityStyle, finding.SeverityInformation, finding.SeverityNote:
		return SarifNote
	default:
		return SarifNone
	}
}

// GenerateSarifReport emits one run per checker. A finding reported by both
// checkers appears in both runs.
func GenerateSarifReport(r *Report, root string) *SarifReport {
	report := &SarifReport{Version: SarifVersion, Schema: SarifSchema, Runs: []*SarifRun{}}
	for _, tool := range finding.ToolOrder {
		findings := finding.ByTool(r.Findings, tool)
		ruleIDs := []string{}
		seen := map[string]bool{}
		for _, f := range findings {
			if f.Check != "" && !seen[f.Check] {
				seen[f.Check] = true
				ruleIDs = append(ruleIDs, f.Check)
			}
		}
		sort.Strings(ruleIDs)
		rules := make([]*SarifReportingDescriptor, 0, len(ruleIDs))
		ruleIndices := map[string]int{}
		for i, id := range ruleIDs {
			rules = append(rules, &SarifReportingDescriptor{ID: id})
			ruleIndices[id] = i
		}
		results := []*SarifResult{}
		for _, f := range findings {
			index := -1
			if i, ok := ruleIndices[f.Check]; ok {
				index = i
			}
			results = append(results, &SarifResult{
				RuleID:    f.Check,
				RuleIndex: index,
				Level:     getSarifLevel(f.Severity),
				Message:   &SarifMessage{Text: f.Message},
				Locations: []*SarifLocation{{
					PhysicalLocation: &SarifPhysicalLocation{
						ArtifactLocation: &SarifArtifactLocation{URI: RelPath(root, f.Path)},
						Region:           &SarifRegion{StartLine: f.Line, StartColumn: f.Column},
					},
				}},
			})
		}
		report.Runs = append(report.Runs, &SarifRun{
			Tool:    &SarifTool{Driver: &SarifToolComponent{Name: string(tool), Rules: rules}},
			Results: results,
		})
	}
	return report
}
