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

// Package buildgraph implements the Graph Builder: it seeds a
// dependency graph from component and global-stylesheet globs, then
// discovers the transitive closure by running the JS/CSS dependency
// extractors and the URL resolver over a worklist.
package buildgraph

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/sabhiram/go-gitignore"
)

// expandGlobs resolves a pattern list against fsys. A pattern prefixed
// with "!" excludes matches of the unprefixed pattern from the final
// result instead of contributing matches itself, letting callers carve
// out generated or vendored subtrees without a second glob phase.
func expandGlobs(fsys fs.FS, patterns []string) ([]string, error) {
	var positive, negated []string
	for _, p := range patterns {
		if strings.HasPrefix(p, "!") {
			negated = append(negated, strings.TrimPrefix(p, "!"))
		} else {
			positive = append(positive, p)
		}
	}

	seen := make(map[string]bool)
	var matches []string
	for _, p := range positive {
		m, err := doublestar.Glob(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("buildgraph: invalid glob %q: %w", p, err)
		}
		for _, f := range m {
			if !seen[f] {
				seen[f] = true
				matches = append(matches, f)
			}
		}
	}
	sort.Strings(matches)

	if len(negated) == 0 {
		return matches, nil
	}
	ignorer := gitignore.CompileIgnoreLines(negated...)
	out := make([]string, 0, len(matches))
	for _, f := range matches {
		if !ignorer.MatchesPath(f) {
			out = append(out, f)
		}
	}
	return out, nil
}
