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

package options

import (
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/google/shlex"
	"github.com/spf13/afero"
	"naive.systems/staticanalysis/report"
)

const (
	CommentStyleInline  = "inline"
	CommentStyleSummary = "summary"
	CommentStyleBoth    = "both"
)

// Config is assembled once by a command and handed to the components.
type Config struct {
	// SrcDir is the primary workspace, the layout findings are reported in.
	SrcDir string
	// ExtraDir is the secondary checkout analyzed in the fork flow.
	ExtraDir          string
	UseExtraDir       bool
	ExcludeDir        string
	IgnoreDirPatterns []string
	Lang              string

	Checkers  CheckerConfig
	Output    OutputConfig
	GitHub    GitHubConfig
	Bootstrap BootstrapConfig
}

type CheckerConfig struct {
	CppcheckBin     string
	CppcheckArgs    []string
	CppcheckXML     bool
	CppcheckOutput  string
	ClangTidyBin    string
	ClangTidyArgs   []string
	ClangTidyOutput string
}

type OutputConfig struct {
	Console       bool
	NoColor       bool
	ReportFormat  string
	ReportPath    string
	ResultsDir    string
	// SourceCharset decodes the sources quoted in comments, UTF-8 when
	// empty.
	SourceCharset string
}

type GitHubConfig struct {
	Token     string
	APIURL    string
	EventName string
	// Repository is where the pull request lives, as owner/name.
	Repository string
	// HeadRepository hosts the pull request head. It differs from
	// Repository in the fork flow.
	HeadRepository string
	PRNumber       int
	SHA            string
	CommentTitle   string
	CommentStyle   string
	OnlyPRChanges  bool
	CommonAncestor string
	HeadRef        string
}

type BootstrapConfig struct {
	Skip             bool
	ToolchainRepo    string
	ToolchainVersion string
	ToolchainDir     string
	InitScript       string
	UseCMake         bool
	CMakeArgs        []string
	BuildDir         string
}

// AnalysisRoot is the tree the checkers ran against.
func (c *Config) AnalysisRoot() string {
	if c.UseExtraDir && c.ExtraDir != "" {
		return c.ExtraDir
	}
	return c.SrcDir
}

// IsPullRequestEvent reports whether the triggering workflow event can be
// commented on. Runs outside GitHub Actions have no event name and rely on
// the pull request number alone.
func (c *Config) IsPullRequestEvent() bool {
	switch c.GitHub.EventName {
	case "", "pull_request", "pull_request_target":
		return true
	}
	return false
}

// ToConsole reports whether the report goes to standard output. A run
// without a known pull request, or triggered by another event, always
// prints.
func (c *Config) ToConsole() bool {
	return c.Output.Console || c.GitHub.PRNumber <= 0 || !c.IsPullRequestEvent()
}

// IsFork reports whether the pull request head lives in another repository.
func (c *Config) IsFork() bool {
	return c.GitHub.HeadRepository != "" && c.GitHub.HeadRepository != c.GitHub.Repository
}

func (c *Config) CommentsInline() bool {
	return c.GitHub.CommentStyle == CommentStyleInline || c.GitHub.CommentStyle == CommentStyleBoth
}

func (c *Config) CommentsSummary() bool {
	return c.GitHub.CommentStyle == CommentStyleSummary || c.GitHub.CommentStyle == CommentStyleBoth
}

// flags falling back to the action inputs when not given on the command line
var envFallbacks = map[string]string{
	"src_dir":           "GITHUB_WORKSPACE",
	"exclude_dir":       "INPUT_EXCLUDE_DIR",
	"use_extra_dir":     "INPUT_USE_EXTRA_DIR",
	"cppcheck_args":     "INPUT_CPPCHECK_ARGS",
	"clang_tidy_args":   "INPUT_CLANG_TIDY_ARGS",
	"comment_title":     "INPUT_COMMENT_TITLE",
	"comment_style":     "INPUT_COMMENT_STYLE",
	"only_pr_changes":   "INPUT_ONLY_PR_CHANGES",
	"pr_num":            "INPUT_PR_NUM",
	"pr_repo":           "INPUT_PR_REPO",
	"report_format":     "INPUT_REPORT_FORMAT",
	"source_charset":    "INPUT_SOURCE_CHARSET",
	"toolchain_repo":    "INPUT_TOOLCHAIN_REPO",
	"toolchain_version": "INPUT_TOOLCHAIN_VERSION",
	"init_script":       "INPUT_INIT_SCRIPT",
	"use_cmake":         "INPUT_USE_CMAKE",
	"cmake_args":        "INPUT_CMAKE_ARGS",
}

// Build turns parsed flags, the environment and the GitHub event payload into
// a Config. getEnv is os.Getenv in production.
func Build(fs afero.Fs, flagSet *flag.FlagSet, s *SharedOptions, getEnv func(string) string) (*Config, error) {
	if err := applyEnvFallbacks(flagSet, getEnv); err != nil {
		return nil, err
	}
	srcDir, err := filepath.Abs(s.GetSrcDir())
	if err != nil {
		return nil, fmt.Errorf("filepath.Abs(%s): %v", s.GetSrcDir(), err)
	}
	cfg := &Config{
		SrcDir:            srcDir,
		UseExtraDir:       s.GetUseExtraDir(),
		ExcludeDir:        s.GetExcludeDir(),
		IgnoreDirPatterns: s.GetIgnoreDirPatterns(),
		Lang:              s.GetLang(),
	}
	if extraDir := s.GetExtraDir(); extraDir != "" {
		if !filepath.IsAbs(extraDir) {
			extraDir = filepath.Join(srcDir, extraDir)
		}
		cfg.ExtraDir = filepath.Clean(extraDir)
	}

	cfg.Checkers = CheckerConfig{
		CppcheckBin:     s.GetCppcheckBin(),
		CppcheckXML:     s.GetCppcheckXML(),
		CppcheckOutput:  s.GetCppcheckOutput(),
		ClangTidyBin:    s.GetClangTidyBin(),
		ClangTidyOutput: s.GetClangTidyOutput(),
	}
	if cfg.Checkers.CppcheckArgs, err = SplitArgs(s.GetCppcheckArgs()); err != nil {
		return nil, err
	}
	if cfg.Checkers.ClangTidyArgs, err = SplitArgs(s.GetClangTidyArgs()); err != nil {
		return nil, err
	}

	cfg.Output = OutputConfig{
		Console:       s.GetOutputToConsole(),
		NoColor:       s.GetNoColor(),
		ReportFormat:  s.GetReportFormat(),
		ReportPath:    s.GetReportPath(),
		ResultsDir:    s.GetResultsDir(),
		SourceCharset: s.GetSourceCharset(),
	}

	cfg.GitHub = buildGitHubConfig(fs, s, getEnv)

	cfg.Bootstrap = BootstrapConfig{
		Skip:             s.GetSkipBootstrap(),
		ToolchainRepo:    s.GetToolchainRepo(),
		ToolchainVersion: s.GetToolchainVersion(),
		ToolchainDir:     s.GetToolchainDir(),
		InitScript:       s.GetInitScript(),
		UseCMake:         s.GetUseCMake(),
		BuildDir:         s.GetBuildDir(),
	}
	if cfg.Bootstrap.CMakeArgs, err = SplitArgs(s.GetCMakeArgs()); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvFallbacks(flagSet *flag.FlagSet, getEnv func(string) string) error {
	explicit := map[string]bool{}
	flagSet.Visit(func(f *flag.Flag) {
		explicit[f.Name] = true
	})
	for name, env := range envFallbacks {
		if explicit[name] || flagSet.Lookup(name) == nil {
			continue
		}
		value := getEnv(env)
		if value == "" {
			continue
		}
		if err := flagSet.Set(name, value); err != nil {
			return fmt.Errorf("invalid value %q of %s for -%s: %v", value, env, name, err)
		}
	}
	return nil
}

func buildGitHubConfig(fs afero.Fs, s *SharedOptions, getEnv func(string) string) GitHubConfig {
	gh := GitHubConfig{
		Token:          getEnv("INPUT_GITHUB_TOKEN"),
		APIURL:         getEnv("GITHUB_API_URL"),
		EventName:      getEnv("GITHUB_EVENT_NAME"),
		Repository:     getEnv("GITHUB_REPOSITORY"),
		PRNumber:       s.GetPRNumber(),
		SHA:            getEnv("GITHUB_SHA"),
		CommentTitle:   s.GetCommentTitle(),
		CommentStyle:   s.GetCommentStyle(),
		OnlyPRChanges:  s.GetOnlyPRChanges(),
		CommonAncestor: s.GetCommonAncestor(),
		HeadRef:        s.GetHeadRef(),
	}
	if gh.Token == "" {
		gh.Token = getEnv("GITHUB_TOKEN")
	}
	if eventPath := getEnv("GITHUB_EVENT_PATH"); eventPath != "" {
		ev := &Event{}
		if err := ReadEvent(fs, ev, eventPath); err != nil {
			// the event only completes what flags and env did not give
			glog.Warningf("ignoring event payload: %v", err)
		} else {
			if gh.PRNumber == 0 {
				gh.PRNumber = ev.PRNumber()
			}
			if sha := ev.SHA(); sha != "" {
				gh.SHA = sha
			}
			if gh.Repository == "" {
				gh.Repository = ev.RepoFullName()
			}
			if gh.HeadRef == "" {
				gh.HeadRef = ev.HeadRef()
			}
			gh.HeadRepository = ev.HeadRepoFullName()
		}
	}
	if s.GetUseExtraDir() && s.GetPRRepo() != "" {
		gh.HeadRepository = s.GetPRRepo()
	}
	if gh.HeadRepository == "" {
		gh.HeadRepository = gh.Repository
	}
	return gh
}

func (c *Config) Validate() error {
	switch c.GitHub.CommentStyle {
	case CommentStyleInline, CommentStyleSummary, CommentStyleBoth:
	default:
		return fmt.Errorf("unknown comment style %q", c.GitHub.CommentStyle)
	}
	if c.GitHub.Repository != "" {
		if _, _, err := SplitRepository(c.GitHub.Repository); err != nil {
			return err
		}
	}
	if c.UseExtraDir && c.ExtraDir == "" {
		return fmt.Errorf("use_extra_dir requires extra_dir")
	}
	if c.Output.ReportFormat != "" && !report.IsFormat(c.Output.ReportFormat) {
		return fmt.Errorf("unknown report format %q, expected one of %s", c.Output.ReportFormat, strings.Join(report.Formats, ", "))
	}
	if c.Output.ReportFormat != "" && c.Output.ReportPath == "" {
		return fmt.Errorf("report_format %s requires report_path", c.Output.ReportFormat)
	}
	return nil
}

// SplitArgs splits a pass-through argument string with shell quoting rules.
func SplitArgs(args string) ([]string, error) {
	if strings.TrimSpace(args) == "" {
		return nil, nil
	}
	split, err := shlex.Split(args)
	if err != nil {
		return nil, fmt.Errorf("shlex.Split(%q): %v", args, err)
	}
	return split, nil
}

func SplitRepository(repository string) (owner, name string, err error) {
	owner, name, ok := strings.Cut(repository, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("invalid repository %q, expected owner/name", repository)
	}
	return owner, name, nil
}
