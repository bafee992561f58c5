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
	"path"
	"regexp"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	ts "github.com/tree-sitter/go-tree-sitter"

	"bennypowers.dev/webxtract/internal/logging"
	"bennypowers.dev/webxtract/queries"
)

var (
	stylesheetHrefRe = regexp.MustCompile(`<link\b[^>]*\brel=["']stylesheet["'][^>]*\bhref=["']([^"']+)["']`)
	genericAssetRe   = regexp.MustCompile(`\b(?:src|href|iconsrc)=["']([^"']+)["']`)
)

func isInternalURLPrefix(v string) bool {
	return strings.HasPrefix(v, "chrome://") || strings.HasPrefix(v, "resource://")
}

func isAbsoluteHTTP(v string) bool {
	return strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://")
}

// JSExtractor implements the JS/TS Dependency Extractor of spec.md §4.3.
type JSExtractor struct {
	qm *queries.QueryManager
}

func NewJSExtractor(qm *queries.QueryManager) *JSExtractor {
	return &JSExtractor{qm: qm}
}

func loaderForPath(p string) api.Loader {
	switch path.Ext(p) {
	case ".ts":
		return api.LoaderTS
	default:
		return api.LoaderJS
	}
}

// Extract returns every discovered import specifier: import and
// export-from sources and literal dynamic import() arguments, stylesheet hrefs and generic asset references found inside
// template-literal fragments, and bare internal-URL string literals.
// Empty results are already excluded by construction. A parser panic
// is ErrParsePanic; an esbuild syntax diagnostic is ErrParseDiagnostic
// — both fatal. A malformed html-tagged fragment is logged and that
// fragment's regex extraction is skipped, per spec.md §4.3's
// "recoverable parser diagnostics produce a soft error."
func (e *JSExtractor) Extract(pathName string, source []byte) (imports []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w in %s: %v", ErrParsePanic, pathName, r)
		}
	}()

	result := api.Transform(string(source), api.TransformOptions{
		Loader:     loaderForPath(pathName),
		Sourcefile: pathName,
	})
	if len(result.Errors) > 0 {
		msg := result.Errors[0]
		return nil, fmt.Errorf("%w: %s (%s:%d)", ErrParseDiagnostic, msg.Text, msg.Location.File, msg.Location.Line)
	}

	parser := queries.GetTypeScriptParser()
	defer queries.PutTypeScriptParser(parser)
	tree := parser.Parse(source, nil)
	defer tree.Close()
	root := tree.RootNode()

	var out []string

	importMatcher, err := queries.NewQueryMatcher(e.qm, "typescript", "imports")
	if err != nil {
		return nil, err
	}
	defer importMatcher.Close()
	for cm := range importMatcher.AllCaptures(root, source) {
		for _, c := range cm["import.text"] {
			out = append(out, c.Text)
		}
	}

	templates, err := e.collectTemplates(root, source)
	if err != nil {
		return nil, err
	}
	for _, tpl := range templates {
		text := tpl.text
		if tpl.tag == "html" {
			if diag, ok := e.firstHTMLFragmentError(text); ok {
				logging.Warning("%s: malformed html fragment, skipping asset scan at byte %d", pathName, diag)
				continue
			}
		}
		for _, m := range stylesheetHrefRe.FindAllStringSubmatch(text, -1) {
			out = append(out, m[1])
		}
		for _, m := range genericAssetRe.FindAllStringSubmatch(text, -1) {
			v := m[1]
			if path.Ext(v) == "" {
				continue
			}
			if isInternalURLPrefix(v) || !isAbsoluteHTTP(v) {
				out = append(out, v)
			}
		}
	}

	stringMatcher, err := queries.NewQueryMatcher(e.qm, "typescript", "stringLiterals")
	if err != nil {
		return nil, err
	}
	defer stringMatcher.Close()
	for cm := range stringMatcher.AllCaptures(root, source) {
		for _, c := range cm["string.text"] {
			if isInternalURLPrefix(c.Text) {
				out = append(out, c.Text)
			}
		}
	}

	return filterEmpty(out), nil
}

type templateLiteral struct {
	nodeID int
	tag    string
	text   string
}

// collectTemplates returns each distinct template_string node once,
// merging the tagged and untagged query patterns of templateLiterals.scm
// (the untagged pattern also matches template_string nodes that a
// tagged match already captured, so de-dup by tree-sitter node id).
func (e *JSExtractor) collectTemplates(root *ts.Node, source []byte) ([]templateLiteral, error) {
	matcher, err := queries.NewQueryMatcher(e.qm, "typescript", "templateLiterals")
	if err != nil {
		return nil, err
	}
	defer matcher.Close()

	seen := make(map[int]*templateLiteral)
	var order []int

	for cm := range matcher.AllCaptures(root, source) {
		if bodies, ok := cm["template.body"]; ok {
			var tag string
			if tags, ok := cm["template.tag"]; ok && len(tags) > 0 {
				tag = tags[0].Text
			}
			for _, b := range bodies {
				if existing, ok := seen[b.NodeId]; ok {
					existing.tag = tag
					continue
				}
				seen[b.NodeId] = &templateLiteral{nodeID: b.NodeId, tag: tag, text: b.Text}
				order = append(order, b.NodeId)
			}
		}
		if anys, ok := cm["template.any"]; ok {
			for _, a := range anys {
				if _, ok := seen[a.NodeId]; ok {
					continue
				}
				seen[a.NodeId] = &templateLiteral{nodeID: a.NodeId, text: a.Text}
				order = append(order, a.NodeId)
			}
		}
	}

	out := make([]templateLiteral, 0, len(order))
	for _, id := range order {
		out = append(out, *seen[id])
	}
	return out, nil
}

// firstHTMLFragmentError parses an html-tagged template literal's raw
// text and reports the byte offset of the first syntax problem, either
// an (ERROR) node the errors.scm query matches or a MISSING node found
// by walking the tree (queries cannot select MISSING nodes directly).
func (e *JSExtractor) firstHTMLFragmentError(text string) (uint, bool) {
	parser := queries.GetHTMLParser()
	defer queries.PutHTMLParser(parser)
	source := []byte(text)
	tree := parser.Parse(source, nil)
	defer tree.Close()
	root := tree.RootNode()

	if n := firstMissingNode(root); n != nil {
		return n.StartByte(), true
	}

	matcher, err := queries.NewQueryMatcher(e.qm, "html", "errors")
	if err != nil {
		return 0, false
	}
	defer matcher.Close()
	for cm := range matcher.AllCaptures(root, source) {
		for _, captures := range cm {
			if len(captures) > 0 {
				return captures[0].StartByte, true
			}
		}
	}
	return 0, false
}

func firstMissingNode(n *ts.Node) *ts.Node {
	if n.IsMissing() {
		return n
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		if found := firstMissingNode(child); found != nil {
			return found
		}
	}
	return nil
}

func filterEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
