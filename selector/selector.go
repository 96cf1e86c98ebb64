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
Package selector decides which source files are handed to the checkers.
*/
package selector

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/golang/glog"
	"github.com/spf13/afero"
	"golang.org/x/exp/slices"
)

var KSupportImplementationSuffixs = []string{"c", "cpp", "cc", "cxx", "c++"}
var KSupportHeaderSuffixs = []string{"h", "hh", "hpp", "hxx", "hcc"}

// directories never holding sources to analyze, at any depth
var kVCSDirs = []string{".git", ".svn", ".hg"}

// directories pruned only directly below the root
var kRootBuildDirs = []string{"build"}

func IsCCFile(path string) bool {
	return hasSuffix(path, KSupportImplementationSuffixs)
}

func IsHeaderFile(path string) bool {
	return hasSuffix(path, KSupportHeaderSuffixs)
}

func IsSourceFile(path string) bool {
	return IsCCFile(path) || IsHeaderFile(path)
}

func hasSuffix(path string, suffixs []string) bool {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return false
	}
	for _, suffix := range suffixs {
		if ext == suffix {
			return true
		}
	}
	return false
}

type Options struct {
	// Root is the workspace root. It must be an existing directory.
	Root string
	// ExcludeDir is pruned from the traversal. It may be relative to Root.
	ExcludeDir string
	// IgnoreDirPatterns are doublestar patterns matched against absolute paths.
	IgnoreDirPatterns []string
}

// Resolve validates opts and returns the absolute root and exclusion paths.
func Resolve(fs afero.Fs, opts Options) (root, exclude string, err error) {
	if opts.Root == "" {
		return "", "", &InvalidPathError{Path: opts.Root, Reason: "workspace root is empty"}
	}
	root, err = filepath.Abs(opts.Root)
	if err != nil {
		return "", "", &InvalidPathError{Path: opts.Root, Reason: "cannot make absolute", Err: err}
	}
	if err := checkDir(fs, root); err != nil {
		return "", "", err
	}
	if opts.ExcludeDir == "" {
		return root, "", nil
	}
	exclude = opts.ExcludeDir
	if !filepath.IsAbs(exclude) {
		exclude = filepath.Join(root, exclude)
	}
	exclude = filepath.Clean(exclude)
	if !IsUnder(exclude, root) || exclude == root {
		return "", "", &InvalidPathError{Path: opts.ExcludeDir, Reason: "exclusion is not beneath " + root}
	}
	if err := checkDir(fs, exclude); err != nil {
		return "", "", err
	}
	return root, exclude, nil
}

func checkDir(fs afero.Fs, dir string) error {
	fi, err := fs.Stat(dir)
	if err != nil {
		return &InvalidPathError{Path: dir, Reason: "does not exist", Err: err}
	}
	if !fi.IsDir() {
		return &InvalidPathError{Path: dir, Reason: "not a directory"}
	}
	return nil
}

// IsUnder reports whether path equals dir or lies below it, comparing whole
// path components.
func IsUnder(path, dir string) bool {
	path = filepath.Clean(path)
	dir = filepath.Clean(dir)
	if path == dir {
		return true
	}
	if dir == string(filepath.Separator) {
		return strings.HasPrefix(path, dir)
	}
	return strings.HasPrefix(path, dir+string(filepath.Separator))
}

// Select walks the root and returns the sorted, deduplicated absolute paths
// of the source files to analyze. An empty result is not an error.
func Select(fs afero.Fs, opts Options) ([]string, error) {
	root, exclude, err := Resolve(fs, opts)
	if err != nil {
		return nil, err
	}
	files := []string{}
	err = afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// unreadable entries below the root are skipped, not fatal
			glog.Warningf("walk %s: %v", path, err)
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			if path == root {
				return nil
			}
			if pruned(path, root, exclude, info.Name()) {
				glog.Infof("Directory %s pruned", path)
				return filepath.SkipDir
			}
			matched, err := MatchIgnoreDirPatterns(opts.IgnoreDirPatterns, path)
			if err != nil {
				return err
			}
			if matched {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() || !IsSourceFile(path) {
			return nil
		}
		matched, err := MatchIgnoreDirPatterns(opts.IgnoreDirPatterns, path)
		if err != nil {
			return err
		}
		if !matched {
			files = append(files, filepath.Clean(path))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %v", root, err)
	}
	slices.Sort(files)
	files = slices.Compact(files)
	return files, nil
}

func pruned(path, root, exclude, name string) bool {
	if exclude != "" && path == exclude {
		return true
	}
	for _, vcs := range kVCSDirs {
		if name == vcs {
			return true
		}
	}
	if filepath.Dir(path) == root {
		for _, build := range kRootBuildDirs {
			if name == build {
				return true
			}
		}
	}
	return false
}

func MatchIgnoreDirPatterns(ignoreDirPatterns []string, filePath string) (bool, error) {
	matched := false
	var err error
	for _, ignoreDirPattern := range ignoreDirPatterns {
		matched, err = doublestar.Match(ignoreDirPattern, filePath)
		if err != nil {
			return matched, fmt.Errorf("malformed ignore_dir pattern %s", ignoreDirPattern)
		}
		if matched {
			glog.Infof("Source file %s ignored due to pattern %s", filePath, ignoreDirPattern)
			break
		}
	}
	return matched, nil
}

// Index is a membership view over a selection.
type Index map[string]struct{}

func NewIndex(files []string) Index {
	index := Index{}
	for _, file := range files {
		index[filepath.Clean(file)] = struct{}{}
	}
	return index
}

func (i Index) Contains(path string) bool {
	_, ok := i[filepath.Clean(path)]
	return ok
}
