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
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/golang/glog"
	"github.com/spf13/afero"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// lines after a finding shown in links and snippets
const kContextLines = 5

func convertCharset(b []byte, charset string) string {
	e, err := ianaindex.MIME.Encoding(charset)
	if err != nil {
		glog.Warning("ianaindex.MIME.Encoding err, the charset is considered as UTF-8 by default")
		return string(b)
	}
	if e == nil {
		glog.Warning("charset not found, the charset is considered as UTF-8 by default")
		return string(b)
	}
	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(b), e.NewDecoder()))
	if err != nil {
		glog.Warning("io.ReadAll err, the charset is considered as UTF-8 by default")
		return string(b)
	}
	return string(out)
}

// SourceCache reads source files once per run.
type SourceCache struct {
	fs      afero.Fs
	charset string
	files   map[string][]string
}

func NewSourceCache(fs afero.Fs, charset string) *SourceCache {
	return &SourceCache{fs: fs, charset: charset, files: map[string][]string{}}
}

func (c *SourceCache) lines(path string) ([]string, error) {
	if lines, ok := c.files[path]; ok {
		return lines, nil
	}
	file, err := c.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	lines := []string{}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		if c.charset == "" || strings.EqualFold(c.charset, "utf8") || strings.EqualFold(c.charset, "utf-8") {
			lines = append(lines, scanner.Text())
		} else {
			lines = append(lines, convertCharset(scanner.Bytes(), c.charset))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	c.files[path] = lines
	return lines, nil
}

// EndLine is the last line of the range shown for a finding on line,
// bounded by the end of the file.
func (c *SourceCache) EndLine(path string, line int) int {
	end := line + kContextLines
	lines, err := c.lines(path)
	if err != nil {
		return end
	}
	if end > len(lines) {
		end = len(lines)
	}
	if end < line {
		end = line
	}
	return end
}

// GetCode returns lines start to end, 1-based and inclusive, with a marker
// after the first one.
func (c *SourceCache) GetCode(path string, start, end int, marker string) (string, error) {
	lines, err := c.lines(path)
	if err != nil {
		return "", err
	}
	if start < 1 || start > len(lines) {
		return "", fmt.Errorf("line %d out of range in %s (%d lines)", start, path, len(lines))
	}
	if end > len(lines) {
		end = len(lines)
	}
	var b strings.Builder
	for i := start; i <= end; i++ {
		b.WriteString(lines[i-1])
		if i == start && marker != "" {
			b.WriteString(" " + marker)
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}
