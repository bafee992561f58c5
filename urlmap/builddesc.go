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
	"path"
	"strings"
)

// contentAccessibleSymbol is the well-known build-description symbol
// this parser watches for, matching the reference build system's
// CONTENT_ACCESSIBLE_FILES list.
const contentAccessibleSymbol = "CONTENT_ACCESSIBLE_FILES"

// parseBuildDescription scans content for assignments to
// CONTENT_ACCESSIBLE_FILES, handling both the inline
// `SYMBOL += ["a", "b"]` form and the multi-line form (bracket tracked
// across lines), and inserts one resource://content-accessible/<basename>
// entry per listed string literal.
func parseBuildDescription(content, buildPath string) URLMap {
	buildDir := path.Dir(buildPath)
	urls := make(URLMap)

	lines := strings.Split(content, "\n")
	for i := 0; i < len(lines); {
		line := strings.TrimSpace(lines[i])

		if !strings.HasPrefix(line, contentAccessibleSymbol) ||
			!(strings.Contains(line, "+=") || strings.Contains(line, "=")) {
			i++
			continue
		}

		if strings.Contains(line, "[") {
			i = consumeList(lines, i, buildDir, urls)
		} else {
			i++
			for i < len(lines) {
				next := strings.TrimSpace(lines[i])
				if strings.Contains(next, "[") {
					i = consumeList(lines, i, buildDir, urls)
					break
				}
				i++
			}
		}
	}

	return urls
}

// consumeList reads a bracketed string-literal list starting at line
// index i (which contains the opening "["), across as many subsequent
// lines as needed to find the matching "]", and returns the index of
// the line following the list.
func consumeList(lines []string, i int, buildDir string, urls URLMap) int {
	inList := false
	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])

		if strings.Contains(line, "[") {
			inList = true
			afterBracket := line[strings.Index(line, "[")+1:]
			if closeIdx := strings.Index(afterBracket, "]"); closeIdx >= 0 {
				parseFileList(afterBracket[:closeIdx], buildDir, urls)
				return i + 1
			}
			parseFileList(afterBracket, buildDir, urls)
			continue
		}

		if !inList {
			continue
		}

		if closeIdx := strings.Index(line, "]"); closeIdx >= 0 {
			parseFileList(line[:closeIdx], buildDir, urls)
			return i + 1
		}
		parseFileList(line, buildDir, urls)
	}
	return i
}

func parseFileList(fragment, buildDir string, urls URLMap) {
	for _, part := range strings.Split(fragment, ",") {
		literal := strings.Trim(strings.TrimSpace(part), `"'`)
		if literal == "" {
			continue
		}
		// buildDir is already workDir-relative (buildPath was passed
		// in workDir-relative), so the literal only needs joining to it.
		sourcePath := path.Join(buildDir, literal)
		basename := path.Base(literal)
		url := fmt.Sprintf("resource://content-accessible/%s", basename)
		urls[url] = sourcePath
	}
}
