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

package urlmap

import (
	"fmt"

	"bennypowers.dev/webxtract/internal/logging"
	"bennypowers.dev/webxtract/internal/platform"
)

// Reader orchestrates parsing jar manifests and build-description
// files into a single URLMap, per spec.md §4.1.
type Reader struct {
	FS      platform.FileSystem
	WorkDir string
	// Scheme is the internal URL scheme synthesized for registered
	// content/skin/locale entries (defaults to "chrome" — see
	// SPEC_FULL.md §4.1 on making this configurable rather than
	// hard-wired to one product's scheme name).
	Scheme string
	// Flags overrides DefaultFlags(); entries here win on collision.
	Flags map[string]bool
}

func NewReader(fs platform.FileSystem, workDir string) *Reader {
	return &Reader{FS: fs, WorkDir: workDir, Scheme: "chrome"}
}

// Read parses every jar manifest and build-description path, merging
// their URL map entries. A manifest or build-description file that
// does not exist at all is a warning, not an error (spec.md §7); a
// missing #include or a manifest grammar violation is fatal.
func (r *Reader) Read(jarManifests, buildDescriptions []string) (URLMap, error) {
	scheme := r.Scheme
	if scheme == "" {
		scheme = "chrome"
	}
	flags := mergeFlags(r.Flags)

	urls := make(URLMap)

	for _, jarPath := range jarManifests {
		if !r.FS.Exists(jarPath) {
			logging.Warning("jar manifest not found, skipping: %s", jarPath)
			continue
		}
		content, err := resolveIncludes(r.FS, r.WorkDir, jarPath)
		if err != nil {
			return nil, fmt.Errorf("reading jar manifest %s: %w", jarPath, err)
		}
		parsed, err := parseJarManifest(content, jarPath, r.WorkDir, scheme, flags)
		if err != nil {
			return nil, fmt.Errorf("parsing jar manifest %s: %w", jarPath, err)
		}
		urls.Merge(parsed)
	}

	for _, buildPath := range buildDescriptions {
		if !r.FS.Exists(buildPath) {
			logging.Warning("build description not found, skipping: %s", buildPath)
			continue
		}
		data, err := r.FS.ReadFile(buildPath)
		if err != nil {
			logging.Warning("build description unreadable, skipping: %s", buildPath)
			continue
		}
		urls.Merge(parseBuildDescription(string(data), buildPath))
	}

	return urls, nil
}
