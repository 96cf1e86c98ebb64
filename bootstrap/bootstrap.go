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
Package bootstrap prepares the toolchain and, optionally, the compilation
database the checkers consume.
*/
package bootstrap

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/golang/glog"
	"github.com/spf13/afero"
	"naive.systems/staticanalysis/checker_integration/compilecommand"
	"naive.systems/staticanalysis/options"
)

// CommandFunc runs name with args in dir.
type CommandFunc func(ctx context.Context, dir, name string, args ...string) error

type Bootstrapper struct {
	Config options.BootstrapConfig
	// Root is the tree to configure, the analysis root.
	Root string
	Fs   afero.Fs
	Run  CommandFunc
}

func New(fs afero.Fs, root string, config options.BootstrapConfig) *Bootstrapper {
	return &Bootstrapper{Config: config, Root: root, Fs: fs, Run: PrintCmdOutput}
}

// PrintCmdOutput runs the command with its output on our stdout and
// stderr. Stderr is also kept for the error message.
func PrintCmdOutput(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stdout = os.Stdout
	cmd.Stderr = io.MultiWriter(os.Stderr, &stderr)
	glog.Info("executing: ", cmd.String())
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %v: %s", cmd.String(), err, stderr.String())
	}
	return nil
}

// Prepare installs the toolchain and runs the init script unless skipped,
// then generates the compilation database when cmake is enabled. It
// returns the database path, empty when none was generated.
func (b *Bootstrapper) Prepare(ctx context.Context) (string, error) {
	if b.Config.Skip {
		glog.Info("toolchain bootstrap skipped")
	} else {
		if err := b.installToolchain(ctx); err != nil {
			return "", err
		}
		if err := b.runInitScript(ctx); err != nil {
			return "", err
		}
	}
	if !b.Config.UseCMake {
		return "", nil
	}
	return b.CreateCompilationDatabaseByCMake(ctx)
}

func (b *Bootstrapper) toolchainDir() string {
	if filepath.IsAbs(b.Config.ToolchainDir) {
		return b.Config.ToolchainDir
	}
	return filepath.Join(b.Root, b.Config.ToolchainDir)
}

func (b *Bootstrapper) installToolchain(ctx context.Context) error {
	if b.Config.ToolchainRepo == "" {
		return nil
	}
	dir := b.toolchainDir()
	if exists, _ := afero.DirExists(b.Fs, filepath.Join(dir, ".git")); exists {
		glog.Infof("toolchain already checked out in %s", dir)
	} else {
		args := []string{"clone", "--recursive", "--depth", "1"}
		if b.Config.ToolchainVersion != "" {
			args = append(args, "--branch", b.Config.ToolchainVersion)
		}
		args = append(args, b.Config.ToolchainRepo, dir)
		if err := b.Run(ctx, b.Root, "git", args...); err != nil {
			return fmt.Errorf("clone toolchain: %v", err)
		}
	}
	installScript := filepath.Join(dir, "install.sh")
	if exists, _ := afero.Exists(b.Fs, installScript); !exists {
		return nil
	}
	if err := b.Run(ctx, dir, "bash", installScript); err != nil {
		return fmt.Errorf("install toolchain: %v", err)
	}
	return nil
}

func (b *Bootstrapper) runInitScript(ctx context.Context) error {
	if b.Config.InitScript == "" {
		return nil
	}
	script := b.Config.InitScript
	if !filepath.IsAbs(script) {
		script = filepath.Join(b.Root, script)
	}
	if exists, _ := afero.Exists(b.Fs, script); !exists {
		return fmt.Errorf("init script %s not found", script)
	}
	if err := b.Run(ctx, b.Root, "bash", script); err != nil {
		return fmt.Errorf("init script: %v", err)
	}
	return nil
}

func (b *Bootstrapper) buildDir() string {
	if filepath.IsAbs(b.Config.BuildDir) {
		return b.Config.BuildDir
	}
	return filepath.Join(b.Root, b.Config.BuildDir)
}

// CreateCompilationDatabaseByCMake configures the root with cmake and
// returns the exported compile_commands.json.
func (b *Bootstrapper) CreateCompilationDatabaseByCMake(ctx context.Context) (string, error) {
	buildDir := b.buildDir()
	args := []string{"-S", b.Root, "-B", buildDir, "-DCMAKE_EXPORT_COMPILE_COMMANDS=ON"}
	args = append(args, b.Config.CMakeArgs...)
	if err := b.Run(ctx, b.Root, "cmake", args...); err != nil {
		return "", fmt.Errorf("failed to execute cmake: %v", err)
	}
	compileCommandsPath := filepath.Join(buildDir, compilecommand.CCJson)
	if exists, _ := afero.Exists(b.Fs, compileCommandsPath); !exists {
		return "", fmt.Errorf("cmake did not export %s", compileCommandsPath)
	}
	return compileCommandsPath, nil
}
