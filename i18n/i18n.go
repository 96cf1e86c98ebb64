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

package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var languageMap = map[string]language.Tag{"en": language.English, "zh": language.Chinese}

// Message keys of the console report. The English text is the key itself.
const (
	IssuesFound     = "Issues found!"
	NoIssuesFound   = "No issues found."
	FindingsInFiles = "%d findings in %d files"
	SeverityCount   = "%s: %d"
	SummaryHeader   = "Summary"
	ToolFailed      = "%s did not run cleanly: %s"
	NoFilesToCheck  = "No files to check."
	PostFailed      = "Posting to the pull request failed: %v"
	FilesChecked    = "%d files checked"
)

var zh = map[string]string{
	IssuesFound:     "发现问题！",
	NoIssuesFound:   "未发现问题。",
	FindingsInFiles: "%[2]d 个文件中有 %[1]d 个问题",
	SeverityCount:   "%s：%d",
	SummaryHeader:   "汇总",
	ToolFailed:      "%s 未能正常运行：%s",
	NoFilesToCheck:  "没有需要检查的文件。",
	PostFailed:      "发布到拉取请求失败：%v",
	FilesChecked:    "已检查 %d 个文件",
}

func init() {
	for key, text := range zh {
		if err := message.SetString(language.Chinese, key, text); err != nil {
			panic(err)
		}
	}
}

// GetPrinter returns the printer for lang, English when lang is unknown.
func GetPrinter(lang string) *message.Printer {
	langTag, exist := languageMap[lang]
	if !exist {
		langTag = languageMap["en"]
	}
	return message.NewPrinter(langTag)
}
