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
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"naive.systems/staticanalysis/finding"
)

const (
	// MaxCommentLength stays below the 65536 characters GitHub accepts.
	MaxCommentLength = 65000
	MaxLengthReached = "!Maximum character count per GitHub comment has been reached! Not all warnings/errors has been parsed!"
	HereMarker       = "<---- HERE"
	DefaultServerURL = "https://github.com"
)

type CommentOptions struct {
	Title     string
	ServerURL string
	// Repository hosts the revision the links point to, as owner/name.
	Repository string
	SHA        string
	// Root is the workspace the finding paths live in.
	Root string
	// Snippets embeds the offending code, used when the pull request comes
	// from a fork and links alone do not show the change.
	Snippets bool
	// SnippetRoot is where the sources are read from, Root when empty.
	SnippetRoot string
	Sources     *SourceCache
	MaxLength   int
}

// TitleLine is the first line of the summary comment. It also identifies
// the comment to update on the next run.
func TitleLine(title string, clean bool) string {
	if clean {
		return fmt.Sprintf(`## <p align="center"><b> :white_check_mark: %s - no issues found! :white_check_mark: </b></p>`, title)
	}
	return fmt.Sprintf(`## <p align="center"><b> :zap: %s :zap: </b></p>`, title)
}

// RelPath returns path relative to root with forward slashes. Paths outside
// root are returned unchanged.
func RelPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func (opts CommentOptions) serverURL() string {
	if opts.ServerURL == "" {
		return DefaultServerURL
	}
	return strings.TrimSuffix(opts.ServerURL, "/")
}

func (opts CommentOptions) FileURL(relPath string, start, end int) string {
	url := fmt.Sprintf("%s/%s/blob/%s/%s#L%d", opts.serverURL(), opts.Repository, opts.SHA, relPath, start)
	if end > start {
		url += fmt.Sprintf("-L%d", end)
	}
	return url
}

// Describe is the one line text of a finding used in comments.
func Describe(f *finding.Finding) string {
	text := fmt.Sprintf("%s: %s", f.Severity, f.Message)
	if f.Check != "" {
		text += fmt.Sprintf(" [%s]", f.Check)
	}
	if len(f.Origins) > 1 {
		text += fmt.Sprintf(" (%s)", joinTools(f.Origins))
	}
	return text
}

// primary tool of a finding, the section it is listed under
func primary(f *finding.Finding) finding.Tool {
	if len(f.Origins) == 0 {
		return finding.ToolOrder[0]
	}
	return f.Origins[0]
}

func (opts CommentOptions) entry(f *finding.Finding) string {
	rel := RelPath(opts.Root, f.Path)
	var b strings.Builder
	if opts.Snippets && opts.Sources != nil {
		source := f.Path
		if opts.SnippetRoot != "" {
			source = filepath.Join(opts.SnippetRoot, filepath.FromSlash(rel))
		}
		end := opts.Sources.EndLine(source, f.Line)
		code, err := opts.Sources.GetCode(source, f.Line, end, HereMarker)
		if err != nil {
			glog.Warningf("no snippet for %s: %v", f.Path, err)
		}
		fmt.Fprintf(&b, "\n\n------\n\n <b><i>Issue found in file</b></i> [%s/%s](%s)\n", opts.Repository, rel, opts.FileURL(rel, f.Line, 0))
		fmt.Fprintf(&b, "```cpp\n%s\n``` \n%s <br>\n", code, Describe(f))
	} else {
		end := f.Line
		if opts.Sources != nil {
			end = opts.Sources.EndLine(f.Path, f.Line)
		}
		fmt.Fprintf(&b, "\n\n%s %s <br>\n", opts.FileURL(rel, f.Line, end), Describe(f))
	}
	for _, note := range f.Notes {
		fmt.Fprintf(&b, "%s <br>\n", note)
	}
	return b.String()
}

func section(tool finding.Tool, count int, entries string) string {
	issues := "issue"
	if count > 1 {
		issues = "issues"
	}
	return fmt.Sprintf("<details> <summary> <b> :red_circle: %s found %d %s! Click here to see details. </b> </summary> <br>%s </details>", tool, count, issues, entries)
}

// warningsBlock lists the report-level warnings, such as a checker that did
// not run.
func warningsBlock(warnings []string) string {
	if len(warnings) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(":warning: <b>The analysis is incomplete:</b>\n```diff\n")
	for _, warning := range warnings {
		fmt.Fprintf(&b, "- warning: %s\n", warning)
	}
	b.WriteString("```\n\n")
	return b.String()
}

// CommentBody renders the summary comment. Entries that do not fit in
// MaxLength are dropped and a notice is appended. The clean title is only
// used when there are neither findings nor warnings.
func CommentBody(r *Report, opts CommentOptions) string {
	if len(r.Findings) == 0 && len(r.Warnings) == 0 {
		return TitleLine(opts.Title, true)
	}
	warnings := warningsBlock(r.Warnings)
	maxLength := opts.MaxLength
	if maxLength <= 0 {
		maxLength = MaxCommentLength
	}
	// room for the title, warnings, section wrappers and the notice
	budget := maxLength - len(TitleLine(opts.Title, false)) - len(warnings) - len(MaxLengthReached) - 600
	truncated := false
	var sections []string
	for _, tool := range finding.ToolOrder {
		var entries strings.Builder
		count := 0
		for _, f := range r.Findings {
			if primary(f) != tool || truncated {
				continue
			}
			e := opts.entry(f)
			if len(e) > budget {
				truncated = true
				continue
			}
			budget -= len(e)
			entries.WriteString(e)
			count++
		}
		if count > 0 {
			sections = append(sections, section(tool, count, entries.String()))
		}
	}
	body := TitleLine(opts.Title, false) + " \n\n" + warnings + strings.Join(sections, "\n\n *** \n")
	if truncated {
		body += fmt.Sprintf("\n```diff\n%s\n```", MaxLengthReached)
	}
	return body
}

// InlineBody is the text of a review comment anchored on the finding line.
func InlineBody(f *finding.Finding) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**: %s", f.Severity, f.Message)
	if f.Check != "" {
		fmt.Fprintf(&b, " `[%s]`", f.Check)
	}
	fmt.Fprintf(&b, "\n\n_%s_", joinTools(f.Origins))
	for _, note := range f.Notes {
		fmt.Fprintf(&b, "\n> %s", note)
	}
	return b.String()
}
