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
	"regexp"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"bennypowers.dev/webxtract/queries"
)

const litAllSpecifier = "lit.all.mjs"

var (
	linkStylesheetRe = regexp.MustCompile(`<link\s+rel=["']stylesheet["']\s+href=["']([^"']+)["']\s*/?>`)
	assetAttrRe      = regexp.MustCompile(`\b(?:src|iconsrc)=["']([^"']+)["']`)
	namedCSSRe       = regexp.MustCompile(`\bcss\b`)
)

// JSTransformer implements the JS Transformer of spec.md §4.7: four
// fixed-order passes, each re-parsing the previous pass's output since
// this tree-sitter binding has no AST-to-source printer.
type JSTransformer struct {
	qm *queries.QueryManager
}

func NewJSTransformer(qm *queries.QueryManager) *JSTransformer {
	return &JSTransformer{qm: qm}
}

// Transform applies, in order: (a) inline-stylesheet injection, (b) the
// `css` import into the lit.all.mjs specifier, (c) import-specifier
// rewriting, (d) asset-reference rewriting. Tabs in the final text are
// normalized to two spaces.
func (t *JSTransformer) Transform(jsText string, importReplacements map[string]string, stylesheetInlines map[string]string) (result string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrParsePanic, r)
		}
	}()

	source := jsText

	if len(stylesheetInlines) > 0 {
		injected, didInject, ierr := t.injectStylesheets(source, stylesheetInlines)
		if ierr != nil {
			return "", ierr
		}
		source = injected
		if didInject {
			source, err = t.injectCSSImport(source)
			if err != nil {
				return "", err
			}
		}
	}

	source, err = t.rewriteImportSpecifiers(source, importReplacements)
	if err != nil {
		return "", err
	}

	source, err = t.rewriteAssetReferences(source, importReplacements)
	if err != nil {
		return "", err
	}

	return strings.ReplaceAll(source, "\t", "  "), nil
}

// injectStylesheets implements pass (a). It walks every class
// declaration, finds html-tagged template literals in its body, strips
// any `<link rel="stylesheet" href="X">` whose X is a key of inlines,
// and appends a static `styles` field per class that had a match.
func (t *JSTransformer) injectStylesheets(jsText string, inlines map[string]string) (string, bool, error) {
	source := []byte(jsText)
	parser := queries.GetTypeScriptParser()
	defer queries.PutTypeScriptParser(parser)
	tree := parser.Parse(source, nil)
	defer tree.Close()
	root := tree.RootNode()

	var classes []*stylesheetClassInfo

	classMatcher, err := queries.NewQueryMatcher(t.qm, "typescript", "classes")
	if err != nil {
		return "", false, err
	}
	defer classMatcher.Close()
	for cm := range classMatcher.AllCaptures(root, source) {
		bodies, ok := cm["class.body"]
		if !ok || len(bodies) == 0 {
			continue
		}
		ci := &stylesheetClassInfo{
			bodyStart: bodies[0].StartByte,
			bodyEnd:   bodies[0].EndByte,
			seenRef:   make(map[string]bool),
		}
		if sups, ok := cm["class.superclass"]; ok && len(sups) > 0 {
			ci.superclass = sups[0].Text
		}
		classes = append(classes, ci)
	}

	templates, err := collectTemplateLiterals(t.qm, root, source)
	if err != nil {
		return "", false, err
	}

	var splices []splice
	for _, tpl := range templates {
		if tpl.tag != "html" {
			continue
		}
		ci := enclosingClass(classes, tpl.startByte)
		if ci == nil {
			continue
		}
		matches := linkStylesheetRe.FindAllStringSubmatchIndex(tpl.text, -1)
		for _, m := range matches {
			href := tpl.text[m[2]:m[3]]
			if _, ok := inlines[href]; !ok {
				continue
			}
			splices = append(splices, splice{
				start: tpl.startByte + uint(m[0]),
				end:   tpl.startByte + uint(m[1]),
				text:  "",
			})
			if !ci.seenRef[href] {
				ci.seenRef[href] = true
				ci.refs = append(ci.refs, href)
			}
		}
	}

	didInject := false
	for _, ci := range classes {
		if len(ci.refs) == 0 {
			continue
		}
		didInject = true
		var body strings.Builder
		for _, href := range ci.refs {
			fmt.Fprintf(&body, "/* From %s */\n%s\n", href, inlines[href])
		}
		var field string
		if ci.superclass != "" {
			field = fmt.Sprintf("\n  static styles = [...(%s.styles ?? []), css`%s`];\n", ci.superclass, body.String())
		} else {
			field = fmt.Sprintf("\n  static styles = [css`%s`];\n", body.String())
		}
		splices = append(splices, splice{start: ci.bodyEnd - 1, end: ci.bodyEnd - 1, text: field})
	}

	return applySplices(source, splices), didInject, nil
}

// stylesheetClassInfo tracks, per class declaration, where its body
// lies and which stylesheet hrefs pass (a) has inlined into it so far.
type stylesheetClassInfo struct {
	bodyStart, bodyEnd uint
	superclass         string
	refs               []string
	seenRef            map[string]bool
}

func enclosingClass(classes []*stylesheetClassInfo, pos uint) *stylesheetClassInfo {
	for _, c := range classes {
		if pos >= c.bodyStart && pos < c.bodyEnd {
			return c
		}
	}
	return nil
}

// injectCSSImport implements pass (b): adds a named `css` specifier to
// the first lit.all.mjs import lacking one, exactly once across the
// module, only ever invoked when pass (a) injected a styles field.
func (t *JSTransformer) injectCSSImport(jsText string) (string, error) {
	source := []byte(jsText)
	parser := queries.GetTypeScriptParser()
	defer queries.PutTypeScriptParser(parser)
	tree := parser.Parse(source, nil)
	defer tree.Close()
	root := tree.RootNode()

	matcher, err := queries.NewQueryMatcher(t.qm, "typescript", "imports")
	if err != nil {
		return "", err
	}
	defer matcher.Close()

	alreadyHasCSS := false
	var insertAt uint = 0
	found := false
	for cm := range matcher.AllCaptures(root, source) {
		texts, ok := cm["import.text"]
		nodes, ok2 := cm["import.node"]
		if !ok || !ok2 || len(texts) == 0 || len(nodes) == 0 {
			continue
		}
		if !strings.HasSuffix(texts[0].Text, litAllSpecifier) {
			continue
		}
		// import.node is the source string; the specifier list is part
		// of the enclosing import statement.
		stmt := root.DescendantForByteRange(nodes[0].StartByte, nodes[0].EndByte)
		if stmt != nil {
			stmt = stmt.Parent()
		}
		if stmt == nil {
			continue
		}
		nodeText := stmt.Utf8Text(source)
		if namedCSSRe.MatchString(nodeText) {
			alreadyHasCSS = true
			break
		}
		if !found {
			if idx := strings.Index(nodeText, "{"); idx >= 0 {
				insertAt = stmt.StartByte() + uint(idx) + 1
				found = true
			}
		}
	}

	if alreadyHasCSS || !found {
		return jsText, nil
	}
	splices := []splice{{start: insertAt, end: insertAt, text: " css,"}}
	return applySplices(source, splices), nil
}

// rewriteImportSpecifiers implements pass (c): replace the source string
// of every import and export-from statement, and of every literal
// dynamic import() argument, with its replacement, except the hardcoded
// lit.all.mjs exception.
func (t *JSTransformer) rewriteImportSpecifiers(jsText string, replacements map[string]string) (string, error) {
	source := []byte(jsText)
	parser := queries.GetTypeScriptParser()
	defer queries.PutTypeScriptParser(parser)
	tree := parser.Parse(source, nil)
	defer tree.Close()
	root := tree.RootNode()

	matcher, err := queries.NewQueryMatcher(t.qm, "typescript", "imports")
	if err != nil {
		return "", err
	}
	defer matcher.Close()

	var splices []splice
	for cm := range matcher.AllCaptures(root, source) {
		for _, c := range cm["import.text"] {
			if c.Text == litAllSpecifier {
				continue
			}
			replacement, ok := replacements[c.Text]
			if !ok {
				return "", fmt.Errorf("%w: %s", ErrReplacementNotFound, c.Text)
			}
			splices = append(splices, splice{start: c.StartByte, end: c.EndByte, text: replacement})
		}
	}
	return applySplices(source, splices), nil
}

// rewriteAssetReferences implements pass (d): string literals in
// array/object/variable-declarator/assignment position, and src=/
// iconsrc= attribute values inside html-tagged template literals, that
// match a replacement key are rewritten into a `new URL(...).href`
// expression (or its template-interpolated equivalent).
func (t *JSTransformer) rewriteAssetReferences(jsText string, replacements map[string]string) (string, error) {
	source := []byte(jsText)
	parser := queries.GetTypeScriptParser()
	defer queries.PutTypeScriptParser(parser)
	tree := parser.Parse(source, nil)
	defer tree.Close()
	root := tree.RootNode()

	var splices []splice

	matcher, err := queries.NewQueryMatcher(t.qm, "typescript", "stringLiterals")
	if err != nil {
		return "", err
	}
	defer matcher.Close()
	for cm := range matcher.AllCaptures(root, source) {
		texts, ok := cm["string.text"]
		nodes, ok2 := cm["string.node"]
		if !ok || !ok2 {
			continue
		}
		for i, c := range texts {
			replacement, found := replacements[c.Text]
			if !found {
				continue
			}
			node := nodes[i]
			expr := fmt.Sprintf("new URL(%q, import.meta.url).href", replacement)
			splices = append(splices, splice{start: node.StartByte, end: node.EndByte, text: expr})
		}

		keys, ok := cm["string.key"]
		if !ok {
			continue
		}
		for _, key := range keys {
			replacement, found := replacements[unquoteJSString(key.Text)]
			if !found {
				continue
			}
			expr := fmt.Sprintf("[new URL(%q, import.meta.url).href]", replacement)
			splices = append(splices, splice{start: key.StartByte, end: key.EndByte, text: expr})
		}
	}

	templates, err := collectTemplateLiterals(t.qm, root, source)
	if err != nil {
		return "", err
	}
	for _, tpl := range templates {
		if tpl.tag != "html" {
			continue
		}
		matches := assetAttrRe.FindAllStringSubmatchIndex(tpl.text, -1)
		for _, m := range matches {
			v := tpl.text[m[2]:m[3]]
			replacement, ok := replacements[v]
			if !ok {
				continue
			}
			expr := fmt.Sprintf("${new URL(%q, import.meta.url).href}", replacement)
			splices = append(splices, splice{
				start: tpl.startByte + uint(m[2]),
				end:   tpl.startByte + uint(m[3]),
				text:  expr,
			})
		}
	}

	return applySplices(source, splices), nil
}

// unquoteJSString strips a string node's surrounding quote characters
// (single, double) so its text can be looked up in a replacement map
// keyed by bare specifier text. A key that is not itself a quoted
// string (a bare identifier, a number, a computed key, ...) is
// returned unchanged and simply will not match any replacement.
func unquoteJSString(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'') && first == last {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// templateLiteralNode mirrors extract's internal templateLiteral type,
// duplicated here (rather than imported) since extract's
// collectTemplates and this package's collectTemplateLiterals operate on independently-parsed trees at different pipeline
// stages and have no other reason to share a dependency edge.
type templateLiteralNode struct {
	tag       string
	text      string
	startByte uint
}

func collectTemplateLiterals(qm *queries.QueryManager, root *ts.Node, source []byte) ([]templateLiteralNode, error) {
	matcher, err := queries.NewQueryMatcher(qm, "typescript", "templateLiterals")
	if err != nil {
		return nil, err
	}
	defer matcher.Close()

	seen := make(map[int]*templateLiteralNode)
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
				seen[b.NodeId] = &templateLiteralNode{tag: tag, text: b.Text, startByte: b.StartByte}
				order = append(order, b.NodeId)
			}
		}
		if anys, ok := cm["template.any"]; ok {
			for _, a := range anys {
				if _, ok := seen[a.NodeId]; ok {
					continue
				}
				seen[a.NodeId] = &templateLiteralNode{text: a.Text, startByte: a.StartByte}
				order = append(order, a.NodeId)
			}
		}
	}

	out := make([]templateLiteralNode, 0, len(order))
	for _, id := range order {
		out = append(out, *seen[id])
	}
	return out, nil
}
