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

package compilecommand

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/golang/glog"
	"github.com/google/shlex"
	"github.com/spf13/afero"
	"naive.systems/staticanalysis/atomic"
)

const CCJson = "compile_commands.json"

type CompileCommand struct {
	Command   string   `json:"command,omitempty"`
	Arguments []string `json:"arguments,omitempty"`
	File      string   `json:"file"`
	Directory string   `json:"directory"`
	Output    string   `json:"output,omitempty"`
}

const CC1 string = "-cc1"

// Args returns the compiler invocation, splitting Command when Arguments
// is absent.
func (cc CompileCommand) Args() ([]string, error) {
	if len(cc.Arguments) > 0 {
		return cc.Arguments, nil
	}
	args, err := shlex.Split(cc.Command)
	if err != nil {
		return nil, fmt.Errorf("split command of %s: %v", cc.File, err)
	}
	return args, nil
}

func (cc CompileCommand) ContainsCC1() bool {
	args, err := cc.Args()
	if err != nil {
		return false
	}
	for _, v := range args {
		if v == CC1 {
			return true
		}
	}
	return false
}

// AbsFile resolves File against Directory.
func (cc CompileCommand) AbsFile() string {
	if filepath.IsAbs(cc.File) {
		return filepath.Clean(cc.File)
	}
	return filepath.Join(cc.Directory, cc.File)
}

func ReadCompileCommandsFromFile(fs afero.Fs, compileCommandsPath string) ([]CompileCommand, error) {
	byteContent, err := afero.ReadFile(fs, compileCommandsPath)
	if err != nil {
		glog.Error(err)
		return nil, err
	}
	commands := []CompileCommand{}
	err = json.Unmarshal(byteContent, &commands)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %v", compileCommandsPath, err)
	}
	return commands, nil
}

// Filter keeps the entries for which keep returns true and drops -cc1
// invocations.
func Filter(commands []CompileCommand, keep func(file string) bool) []CompileCommand {
	kept := []CompileCommand{}
	for _, cc := range commands {
		if cc.ContainsCC1() {
			continue
		}
		if !keep(cc.AbsFile()) {
			glog.V(1).Infof("compile command for %s pruned", cc.File)
			continue
		}
		kept = append(kept, cc)
	}
	return kept
}

// CreateTempFolderContainsFilteredCompileCommandsJsonFile writes the
// entries accepted by keep to compile_commands.json in a new temporary
// directory beside compileCommandsPath and returns that directory.
func CreateTempFolderContainsFilteredCompileCommandsJsonFile(fs afero.Fs, compileCommandsPath string, keep func(file string) bool) (string, error) {
	commands, err := ReadCompileCommandsFromFile(fs, compileCommandsPath)
	if err != nil {
		return "", err
	}
	filtered := Filter(commands, keep)
	glog.Infof("%d of %d compile commands kept", len(filtered), len(commands))
	tmpDir, err := afero.TempDir(fs, filepath.Dir(compileCommandsPath), "filtered")
	if err != nil {
		return "", err
	}
	contents, err := json.MarshalIndent(filtered, "", "  ")
	if err != nil {
		return "", err
	}
	if err := atomic.Write(fs, filepath.Join(tmpDir, CCJson), contents); err != nil {
		return "", err
	}
	return tmpDir, nil
}
