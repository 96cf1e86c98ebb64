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

package finding

import (
	"bufio"
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

func AddID(findings []*Finding) {
	for _, f := range findings {
		id, err := uuid.NewRandom()
		if err != nil {
			// report entries without an id are still rendered
			glog.Warningf("uuid.NewRandom: %v", err)
			continue
		}
		f.ID = id.String()
	}
}

// AddCodeLineHash stores the first 16 hex chars of the sha1 of the trimmed
// source line each finding points to. Every file is scanned once.
func AddCodeLineHash(fs afero.Fs, findings []*Finding) {
	byPath := map[string][]*Finding{}
	for _, f := range findings {
		byPath[f.Path] = append(byPath[f.Path], f)
	}
	for path, pathFindings := range byPath {
		wanted := map[int][]*Finding{}
		for _, f := range pathFindings {
			wanted[f.Line] = append(wanted[f.Line], f)
		}
		file, err := fs.Open(path)
		if err != nil {
			glog.Errorf("open '%s': %v", path, err)
			continue
		}
		scanner := bufio.NewScanner(file)
		count := 0
		for scanner.Scan() && len(wanted) > 0 {
			count++
			lineFindings, ok := wanted[count]
			if !ok {
				continue
			}
			h := sha1.New()
			h.Write([]byte(strings.TrimSpace(scanner.Text())))
			lineHash := hex.EncodeToString(h.Sum(nil))[:16]
			for _, f := range lineFindings {
				f.CodeLineHash = lineHash
			}
			delete(wanted, count)
		}
		if err := scanner.Err(); err != nil {
			glog.Errorf("scan '%s': %v", path, err)
		}
		file.Close()
	}
}
