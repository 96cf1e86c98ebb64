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

package atomic

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Write replaces name with data so that readers never observe a partially
// written file. The temporary file is created next to name to keep the
// rename on the same filesystem.
func Write(fs afero.Fs, name string, data []byte) error {
	pattern := "tmp-*-" + filepath.Base(name)
	f, err := afero.TempFile(fs, filepath.Dir(name), pattern)
	if err != nil {
		return fmt.Errorf("afero.TempFile: %v", err)
	}
	tmpName := f.Name()
	defer fs.Remove(tmpName)
	if _, err = f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write to file %s: %v", tmpName, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("failed to close file %s: %v", tmpName, err)
	}
	// Explicitly set the permissions of the temporary file to 0644
	if err := fs.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("chmod: %v", err)
	}
	if err = fs.Rename(tmpName, name); err != nil {
		return fmt.Errorf("failed to rename file %s to %s: %v", tmpName, name, err)
	}
	return nil
}

// WriteString is Write for text outputs such as checker logs.
func WriteString(fs afero.Fs, name, data string) error {
	if err := fs.MkdirAll(filepath.Dir(name), os.ModePerm); err != nil {
		return fmt.Errorf("mkdir %s: %v", filepath.Dir(name), err)
	}
	return Write(fs, name, []byte(data))
}
