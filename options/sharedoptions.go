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
	"strings"
)

type ArrayFlags []string

func (i *ArrayFlags) String() string {
	return strings.Join(*i, ",")
}

func (i *ArrayFlags) Set(value string) error {
	*i = append(*i, value)
	return nil
}

// Group selects which flags a command registers.
type Group int

const (
	SelectionGroup Group = iota
	CheckerGroup
	AggregationGroup
	BootstrapGroup
)

// SharedOptions holds the flags of every command. Fields of groups a command
// did not register stay nil and their getters return the defaults.
type SharedOptions struct {
	BuildDir          *string
	ClangTidyArgs     *string
	ClangTidyBin      *string
	ClangTidyOutput   *string
	CMakeArgs         *string
	CommentStyle      *string
	CommentTitle      *string
	CommonAncestor    *string
	CppcheckArgs      *string
	CppcheckBin       *string
	CppcheckOutput    *string
	CppcheckXML       *bool
	ExcludeDir        *string
	ExtraDir          *string
	HeadRef           *string
	IgnoreDirPatterns ArrayFlags
	InitScript        *string
	Lang              *string
	NoColor           *bool
	OnlyPRChanges     *bool
	OutputToConsole   *bool
	PRNumber          *int
	PRRepo            *string
	ReportFormat      *string
	ReportPath        *string
	ResultsDir        *string
	SkipBootstrap     *bool
	SourceCharset     *string
	SrcDir            *string
	ToolchainDir      *string
	ToolchainRepo     *string
	ToolchainVersion  *string
	UseCMake          *bool
	UseExtraDir       *bool
}

type DefaultOptionValues struct {
	BuildDir          string
	ClangTidyArgs     string
	ClangTidyBin      string
	ClangTidyOutput   string
	CMakeArgs         string
	CommentStyle      string
	CommentTitle      string
	CommonAncestor    string
	CppcheckArgs      string
	CppcheckBin       string
	CppcheckOutput    string
	CppcheckXML       bool
	ExcludeDir        string
	ExtraDir          string
	HeadRef           string
	IgnoreDirPatterns ArrayFlags
	InitScript        string
	Lang              string
	NoColor           bool
	OnlyPRChanges     bool
	OutputToConsole   bool
	PRNumber          int
	PRRepo            string
	ReportFormat      string
	ReportPath        string
	ResultsDir        string
	SkipBootstrap     bool
	SourceCharset     string
	SrcDir            string
	ToolchainDir      string
	ToolchainRepo     string
	ToolchainVersion  string
	UseCMake          bool
	UseExtraDir       bool
}

var Defaults = DefaultOptionValues{
	BuildDir:          "build",
	ClangTidyArgs:     "",
	ClangTidyBin:      "clang-tidy",
	ClangTidyOutput:   "clang_tidy.txt",
	CMakeArgs:         "",
	CommentStyle:      CommentStyleBoth,
	CommentTitle:      "Static analysis result",
	CommonAncestor:    "",
	CppcheckArgs:      "",
	CppcheckBin:       "cppcheck",
	CppcheckOutput:    "cppcheck.txt",
	CppcheckXML:       false,
	ExcludeDir:        "",
	ExtraDir:          "pr_tree",
	HeadRef:           "",
	IgnoreDirPatterns: ArrayFlags{},
	InitScript:        "",
	Lang:              "en",
	NoColor:           false,
	OnlyPRChanges:     false,
	OutputToConsole:   false,
	PRNumber:          0,
	PRRepo:            "",
	ReportFormat:      "",
	ReportPath:        "",
	ResultsDir:        "",
	SkipBootstrap:     false,
	SourceCharset:     "",
	SrcDir:            ".",
	ToolchainDir:      "",
	ToolchainRepo:     "",
	ToolchainVersion:  "",
	UseCMake:          false,
	UseExtraDir:       false,
}

func NewSharedOptions(fs *flag.FlagSet, groups ...Group) *SharedOptions {
	option := &SharedOptions{}

	option.SrcDir = fs.String("src_dir", Defaults.SrcDir, "Absolute path to the workspace root")
	option.Lang = fs.String("lang", Defaults.Lang, "Language of console messages. Support en and zh")
	for _, group := range groups {
		switch group {
		case SelectionGroup:
			option.ExcludeDir = fs.String("exclude_dir", Defaults.ExcludeDir, "Directory beneath src_dir that is neither selected nor analyzed")
			fs.Var(&option.IgnoreDirPatterns, "ignore_dir", "Shell file name pattern to a directory that will be ignored")
			option.ExtraDir = fs.String("extra_dir", Defaults.ExtraDir, "Secondary checkout analyzed instead of src_dir in the fork flow, relative to src_dir")
			option.UseExtraDir = fs.Bool("use_extra_dir", Defaults.UseExtraDir, "Analysis ran against extra_dir, rewrite its paths to the src_dir layout")
		case CheckerGroup:
			option.CppcheckBin = fs.String("cppcheck_bin", Defaults.CppcheckBin, "Cppcheck binary location")
			option.CppcheckArgs = fs.String("cppcheck_args", Defaults.CppcheckArgs, "Extra arguments passed to cppcheck")
			option.CppcheckXML = fs.Bool("cppcheck_xml", Defaults.CppcheckXML, "Ask cppcheck for XML output instead of text")
			option.ClangTidyBin = fs.String("clang_tidy_bin", Defaults.ClangTidyBin, "Clang-tidy binary location")
			option.ClangTidyArgs = fs.String("clang_tidy_args", Defaults.ClangTidyArgs, "Extra arguments passed to clang-tidy")
			option.registerOutputs(fs)
		case AggregationGroup:
			option.registerOutputs(fs)
			option.OutputToConsole = fs.Bool("output_to_console", Defaults.OutputToConsole, "Print the report instead of commenting on the pull request")
			option.NoColor = fs.Bool("no_color", Defaults.NoColor, "Disable colored console output")
			option.ReportFormat = fs.String("report_format", Defaults.ReportFormat, "Also write the report as text, json, yaml, junit-xml or sarif")
			option.ReportPath = fs.String("report_path", Defaults.ReportPath, "Path of the report written with report_format")
			option.ResultsDir = fs.String("results_dir", Defaults.ResultsDir, "Absolute path to the directory of results metadata files")
			option.SourceCharset = fs.String("source_charset", Defaults.SourceCharset, "Charset of the source files quoted in pull request comments, such as GBK. Empty means UTF-8")
			option.CommentTitle = fs.String("comment_title", Defaults.CommentTitle, "Title identifying the summary comment")
			option.CommentStyle = fs.String("comment_style", Defaults.CommentStyle, "Pull request comments to post: inline, summary or both")
			option.OnlyPRChanges = fs.Bool("only_pr_changes", Defaults.OnlyPRChanges, "Only report findings on lines changed by the pull request")
			option.CommonAncestor = fs.String("common_ancestor", Defaults.CommonAncestor, "Common ancestor of the base and head branches")
			option.HeadRef = fs.String("head_ref", Defaults.HeadRef, "Head branch of the pull request")
			option.PRNumber = fs.Int("pr_num", Defaults.PRNumber, "Pull request number. Console output is forced when it is unknown")
			option.PRRepo = fs.String("pr_repo", Defaults.PRRepo, "Head repository of the pull request in the fork flow, as owner/name")
		case BootstrapGroup:
			option.SkipBootstrap = fs.Bool("skip_bootstrap", Defaults.SkipBootstrap, "Do not set up the toolchain")
			option.ToolchainRepo = fs.String("toolchain_repo", Defaults.ToolchainRepo, "Git URL of the firmware SDK")
			option.ToolchainVersion = fs.String("toolchain_version", Defaults.ToolchainVersion, "Branch or tag of the firmware SDK to clone")
			option.ToolchainDir = fs.String("toolchain_dir", Defaults.ToolchainDir, "Directory the firmware SDK is cloned into")
			option.InitScript = fs.String("init_script", Defaults.InitScript, "Script run in src_dir before the analysis")
			option.UseCMake = fs.Bool("use_cmake", Defaults.UseCMake, "Configure the project with CMake and analyze with compile_commands.json")
			option.CMakeArgs = fs.String("cmake_args", Defaults.CMakeArgs, "Extra arguments passed to cmake")
			option.BuildDir = fs.String("build_dir", Defaults.BuildDir, "CMake build directory, relative to the analyzed tree")
		}
	}
	return option
}

// both the checkers and the aggregator use the output paths
func (option *SharedOptions) registerOutputs(fs *flag.FlagSet) {
	if option.CppcheckOutput != nil {
		return
	}
	option.CppcheckOutput = fs.String("cppcheck_output", Defaults.CppcheckOutput, "Path of the cppcheck output file")
	option.ClangTidyOutput = fs.String("clang_tidy_output", Defaults.ClangTidyOutput, "Path of the clang-tidy output file")
}

func stringValue(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

func boolValue(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func (s SharedOptions) GetBuildDir() string {
	return stringValue(s.BuildDir, Defaults.BuildDir)
}

func (s SharedOptions) GetClangTidyArgs() string {
	return stringValue(s.ClangTidyArgs, Defaults.ClangTidyArgs)
}

func (s SharedOptions) GetClangTidyBin() string {
	return stringValue(s.ClangTidyBin, Defaults.ClangTidyBin)
}

func (s SharedOptions) GetClangTidyOutput() string {
	return stringValue(s.ClangTidyOutput, Defaults.ClangTidyOutput)
}

func (s SharedOptions) GetCMakeArgs() string {
	return stringValue(s.CMakeArgs, Defaults.CMakeArgs)
}

func (s SharedOptions) GetCommentStyle() string {
	return stringValue(s.CommentStyle, Defaults.CommentStyle)
}

func (s SharedOptions) GetCommentTitle() string {
	return stringValue(s.CommentTitle, Defaults.CommentTitle)
}

func (s SharedOptions) GetCommonAncestor() string {
	return stringValue(s.CommonAncestor, Defaults.CommonAncestor)
}

func (s SharedOptions) GetCppcheckArgs() string {
	return stringValue(s.CppcheckArgs, Defaults.CppcheckArgs)
}

func (s SharedOptions) GetCppcheckBin() string {
	return stringValue(s.CppcheckBin, Defaults.CppcheckBin)
}

func (s SharedOptions) GetCppcheckOutput() string {
	return stringValue(s.CppcheckOutput, Defaults.CppcheckOutput)
}

func (s SharedOptions) GetCppcheckXML() bool {
	return boolValue(s.CppcheckXML, Defaults.CppcheckXML)
}

func (s SharedOptions) GetExcludeDir() string {
	return stringValue(s.ExcludeDir, Defaults.ExcludeDir)
}

func (s SharedOptions) GetExtraDir() string {
	return stringValue(s.ExtraDir, Defaults.ExtraDir)
}

func (s SharedOptions) GetHeadRef() string {
	return stringValue(s.HeadRef, Defaults.HeadRef)
}

func (s SharedOptions) GetIgnoreDirPatterns() ArrayFlags {
	return s.IgnoreDirPatterns
}

func (s SharedOptions) GetInitScript() string {
	return stringValue(s.InitScript, Defaults.InitScript)
}

func (s SharedOptions) GetLang() string {
	return stringValue(s.Lang, Defaults.Lang)
}

func (s SharedOptions) GetNoColor() bool {
	return boolValue(s.NoColor, Defaults.NoColor)
}

func (s SharedOptions) GetOnlyPRChanges() bool {
	return boolValue(s.OnlyPRChanges, Defaults.OnlyPRChanges)
}

func (s SharedOptions) GetOutputToConsole() bool {
	return boolValue(s.OutputToConsole, Defaults.OutputToConsole)
}

func (s SharedOptions) GetPRNumber() int {
	if s.PRNumber == nil {
		return Defaults.PRNumber
	}
	return *s.PRNumber
}

func (s SharedOptions) GetPRRepo() string {
	return stringValue(s.PRRepo, Defaults.PRRepo)
}

func (s SharedOptions) GetReportFormat() string {
	return stringValue(s.ReportFormat, Defaults.ReportFormat)
}

func (s SharedOptions) GetReportPath() string {
	return stringValue(s.ReportPath, Defaults.ReportPath)
}

func (s SharedOptions) GetResultsDir() string {
	return stringValue(s.ResultsDir, Defaults.ResultsDir)
}

func (s SharedOptions) GetSkipBootstrap() bool {
	return boolValue(s.SkipBootstrap, Defaults.SkipBootstrap)
}

func (s SharedOptions) GetSourceCharset() string {
	return stringValue(s.SourceCharset, Defaults.SourceCharset)
}

func (s SharedOptions) GetSrcDir() string {
	return stringValue(s.SrcDir, Defaults.SrcDir)
}

func (s SharedOptions) GetToolchainDir() string {
	return stringValue(s.ToolchainDir, Defaults.ToolchainDir)
}

func (s SharedOptions) GetToolchainRepo() string {
	return stringValue(s.ToolchainRepo, Defaults.ToolchainRepo)
}

func (s SharedOptions) GetToolchainVersion() string {
	return stringValue(s.ToolchainVersion, Defaults.ToolchainVersion)
}

func (s SharedOptions) GetUseCMake() bool {
	return boolValue(s.UseCMake, Defaults.UseCMake)
}

func (s SharedOptions) GetUseExtraDir() bool {
	return boolValue(s.UseExtraDir, Defaults.UseExtraDir)
}
