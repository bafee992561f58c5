/*
Copyright © 2025 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

package write

import (
	"fmt"
	"path"

	"bennypowers.dev/webxtract/internal/platform"
)

// canonicalSubdirs are created (empty) under the output root on every
// run, regardless of whether the build actually populates them.
var canonicalSubdirs = []string{"components", "styles", "assets", "dependencies"}

// PrepareOutputDir clears outputDir of any prior contents and recreates
// it with the canonical subdirectory layout the writer dispatches into.
func PrepareOutputDir(fsys platform.FileSystem, outputDir string) error {
	if err := removeAll(fsys, outputDir); err != nil {
		return fmt.Errorf("%w: clearing %s: %v", ErrIO, outputDir, err)
	}
	for _, sub := range canonicalSubdirs {
		if err := fsys.MkdirAll(path.Join(outputDir, sub), 0o755); err != nil {
			return fmt.Errorf("%w: creating %s: %v", ErrIO, sub, err)
		}
	}
	return nil
}

// removeAll recursively deletes dir and everything under it. FileSystem
// has no native recursive remove (Remove mirrors os.Remove, which
// refuses a non-empty directory), so this walks bottom-up by hand.
func removeAll(fsys platform.FileSystem, dir string) error {
	if !fsys.Exists(dir) {
		return nil
	}
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		p := path.Join(dir, e.Name())
		if e.IsDir() {
			if err := removeAll(fsys, p); err != nil {
				return err
			}
			continue
		}
		if err := fsys.Remove(p); err != nil {
			return err
		}
	}
	return fsys.Remove(dir)
}
