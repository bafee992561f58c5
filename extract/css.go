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

package extract

import (
	"fmt"
	"strings"

	"bennypowers.dev/webxtract/queries"
)

// skipPrefixes are import targets a CSS file references that never
// name a file this tool should track: already-absolute or data URLs.
var skipPrefixes = []string{"data:", "http:", "https:", "//"}

func skippableTarget(v string) bool {
	for _, p := range skipPrefixes {
		if strings.HasPrefix(v, p) {
			return true
		}
	}
	return false
}

// stripSuffix removes a trailing `?query` or `#fragment` so the
// extracted text names only the file path.
func stripSuffix(v string) string {
	if i := strings.IndexAny(v, "?#"); i >= 0 {
		return v[:i]
	}
	return v
}

// CSSExtractor implements the CSS Dependency Extractor of spec.md §4.3:
// url(...) targets first, then @import targets, each list deduplicated
// independently (a path that appears as both a url() and an @import
// target is reported once per kind, not merged across kinds).
type CSSExtractor struct {
	qm *queries.QueryManager
}

func NewCSSExtractor(qm *queries.QueryManager) *CSSExtractor {
	return &CSSExtractor{qm: qm}
}

func (e *CSSExtractor) Extract(pathName string, source []byte) ([]string, error) {
	parser := queries.GetCSSParser()
	defer queries.PutCSSParser(parser)
	tree := parser.Parse(source, nil)
	defer tree.Close()
	root := tree.RootNode()

	var out []string
	seen := make(map[string]bool)

	urlMatcher, err := queries.NewQueryMatcher(e.qm, "css", "urls")
	if err != nil {
		return nil, fmt.Errorf("css extractor %s: %w", pathName, err)
	}
	defer urlMatcher.Close()
	for cm := range urlMatcher.AllCaptures(root, source) {
		for _, c := range cm["url.value"] {
			// The url() argument of an @import rule is reported once, as
			// an @import target below, not also as a url() target.
			inImport := false
			for n := root.DescendantForByteRange(c.StartByte, c.EndByte); n != nil; n = n.Parent() {
				if n.Kind() == "import_statement" {
					inImport = true
					break
				}
			}
			if inImport {
				continue
			}
			addTarget(&out, seen, unquote(c.Text))
		}
	}

	importMatcher, err := queries.NewQueryMatcher(e.qm, "css", "imports")
	if err != nil {
		return nil, fmt.Errorf("css extractor %s: %w", pathName, err)
	}
	defer importMatcher.Close()
	importSeen := make(map[string]bool)
	for cm := range importMatcher.AllCaptures(root, source) {
		for _, c := range cm["import.value"] {
			addTarget(&out, importSeen, unquote(c.Text))
		}
	}

	return out, nil
}

// unquote strips the surrounding quote characters tree-sitter-css's
// string_value node keeps as part of its text; plain_value (an
// unquoted url() argument) passes through unchanged.
func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'') && first == last {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func addTarget(out *[]string, seen map[string]bool, raw string) {
	v := stripSuffix(raw)
	if v == "" || skippableTarget(v) || seen[v] {
		return
	}
	seen[v] = true
	*out = append(*out, v)
}
