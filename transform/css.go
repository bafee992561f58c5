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

package transform

import (
	"fmt"
	"strings"

	"bennypowers.dev/webxtract/queries"
)

var cssSkipPrefixes = []string{"data:", "http:", "https:", "//"}

func cssSkippable(v string) bool {
	for _, p := range cssSkipPrefixes {
		if strings.HasPrefix(v, p) {
			return true
		}
	}
	return false
}

// splitSuffix splits v at the first "?" or "#", returning the base and
// the suffix (including the delimiter, or "" if none).
func splitSuffix(v string) (base, suffix string) {
	if i := strings.IndexAny(v, "?#"); i >= 0 {
		return v[:i], v[i:]
	}
	return v, ""
}

type splice struct {
	start, end uint
	text       string
}

// CSSTransformer implements the CSS Transformer of spec.md §4.6.
type CSSTransformer struct {
	qm *queries.QueryManager
}

func NewCSSTransformer(qm *queries.QueryManager) *CSSTransformer {
	return &CSSTransformer{qm: qm}
}

// Transform rewrites every url()/@import target in cssText that has an
// entry in replacements, leaving data:/http(s):///-prefixed targets
// untouched. A target with neither is ErrUrlNotFound.
func (t *CSSTransformer) Transform(cssText string, replacements map[string]string) (string, error) {
	source := []byte(cssText)
	parser := queries.GetCSSParser()
	defer queries.PutCSSParser(parser)
	tree := parser.Parse(source, nil)
	defer tree.Close()
	root := tree.RootNode()

	var splices []splice

	collect := func(queryName, captureName string) error {
		matcher, err := queries.NewQueryMatcher(t.qm, "css", queryName)
		if err != nil {
			return err
		}
		defer matcher.Close()
		for cm := range matcher.AllCaptures(root, source) {
			for _, c := range cm[captureName] {
				quote := byte(0)
				inner := c.Text
				if len(inner) >= 2 && (inner[0] == '"' || inner[0] == '\'') && inner[0] == inner[len(inner)-1] {
					quote = inner[0]
					inner = inner[1 : len(inner)-1]
				}
				base, suffix := splitSuffix(inner)
				if base == "" || cssSkippable(base) {
					continue
				}
				replacement, ok := replacements[base]
				if !ok {
					return fmt.Errorf("%w: %s", ErrUrlNotFound, base)
				}
				newInner := replacement + suffix
				if quote != 0 {
					newInner = string(quote) + newInner + string(quote)
				}
				splices = append(splices, splice{start: c.StartByte, end: c.EndByte, text: newInner})
			}
		}
		return nil
	}

	if err := collect("urls", "url.value"); err != nil {
		return "", err
	}
	if err := collect("imports", "import.value"); err != nil {
		return "", err
	}

	return applySplices(source, splices), nil
}

// applySplices rewrites source by replacing each non-overlapping
// byte range with its replacement text, in ascending start order.
func applySplices(source []byte, splices []splice) string {
	if len(splices) == 0 {
		return string(source)
	}
	sorted := make([]splice, len(splices))
	copy(sorted, splices)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1].start > sorted[j].start; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}

	var b strings.Builder
	var cursor uint
	for _, s := range sorted {
		if s.start < cursor {
			continue // overlapping splice from a duplicate match; skip
		}
		b.Write(source[cursor:s.start])
		b.WriteString(s.text)
		cursor = s.end
	}
	b.Write(source[cursor:])
	return b.String()
}
