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

// Package queries wraps go-tree-sitter parser pools and embedded
// tree-sitter query (.scm) files for the two structural languages this
// tool reads (TypeScript/JS and CSS) plus HTML, used only to validate
// that a template-literal fragment tagged `html` is well-formed enough
// to report a recoverable parse diagnostic instead of a hard failure.
package queries

import (
	"embed"
	"errors"
	"fmt"
	"iter"
	"path"
	"slices"
	"sync"
	"time"

	"github.com/pterm/pterm"

	ts "github.com/tree-sitter/go-tree-sitter"
	tsCss "github.com/tree-sitter/tree-sitter-css/bindings/go"
	tsHtml "github.com/tree-sitter/tree-sitter-html/bindings/go"
	tsTypescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

//go:embed */*.scm
var queryFiles embed.FS

var ErrNoQueryManager = errors.New("QueryManager is nil")

type NoCaptureError struct {
	Capture string
	Query   string
}

func (e *NoCaptureError) Error() string {
	return fmt.Sprintf("no nodes for capture %s in query %s", e.Capture, e.Query)
}

var languages = struct {
	typescript *ts.Language
	css        *ts.Language
	html       *ts.Language
}{
	ts.NewLanguage(tsTypescript.LanguageTypescript()),
	ts.NewLanguage(tsCss.Language()),
	ts.NewLanguage(tsHtml.Language()),
}

var typescriptParserPool = sync.Pool{
	New: func() any {
		parser := ts.NewParser()
		if err := parser.SetLanguage(languages.typescript); err != nil {
			panic(fmt.Sprintf("failed to set TypeScript language: %v", err))
		}
		return parser
	},
}

var cssParserPool = sync.Pool{
	New: func() any {
		parser := ts.NewParser()
		if err := parser.SetLanguage(languages.css); err != nil {
			panic(fmt.Sprintf("failed to set CSS language: %v", err))
		}
		return parser
	},
}

var htmlParserPool = sync.Pool{
	New: func() any {
		parser := ts.NewParser()
		if err := parser.SetLanguage(languages.html); err != nil {
			panic(fmt.Sprintf("failed to set HTML language: %v", err))
		}
		return parser
	},
}

// GetTypeScriptParser returns a pooled TypeScript/JS parser. Always call
// PutTypeScriptParser when done.
func GetTypeScriptParser() *ts.Parser {
	return typescriptParserPool.Get().(*ts.Parser)
}

func PutTypeScriptParser(parser *ts.Parser) {
	parser.Reset()
	typescriptParserPool.Put(parser)
}

// GetCSSParser returns a pooled CSS parser. Always call PutCSSParser when done.
func GetCSSParser() *ts.Parser {
	return cssParserPool.Get().(*ts.Parser)
}

func PutCSSParser(parser *ts.Parser) {
	parser.Reset()
	cssParserPool.Put(parser)
}

// GetHTMLParser returns a pooled HTML parser. Always call PutHTMLParser when done.
func GetHTMLParser() *ts.Parser {
	return htmlParserPool.Get().(*ts.Parser)
}

func PutHTMLParser(parser *ts.Parser) {
	parser.Reset()
	htmlParserPool.Put(parser)
}

// QuerySelector lists which named queries to load, per language, so a
// caller only pays the parse cost for queries it will actually run.
type QuerySelector struct {
	TypeScript []string
	CSS        []string
	HTML       []string
}

// ExtractorQueries is the query set the dependency extractors and the
// JS/CSS transformers need.
func ExtractorQueries() QuerySelector {
	return QuerySelector{
		TypeScript: []string{"imports", "templateLiterals", "stringLiterals", "classes"},
		CSS:        []string{"urls", "imports"},
		HTML:       []string{"errors"},
	}
}

type QueryManager struct {
	typescript map[string]*ts.Query
	css        map[string]*ts.Query
	html       map[string]*ts.Query
}

func NewQueryManager(selector QuerySelector) (*QueryManager, error) {
	start := time.Now()
	qm := &QueryManager{
		typescript: make(map[string]*ts.Query),
		css:        make(map[string]*ts.Query),
		html:       make(map[string]*ts.Query),
	}

	for _, name := range selector.TypeScript {
		if err := qm.loadQuery("typescript", name); err != nil {
			qm.Close()
			return nil, fmt.Errorf("failed to load TypeScript query %s: %w", name, err)
		}
	}
	for _, name := range selector.CSS {
		if err := qm.loadQuery("css", name); err != nil {
			qm.Close()
			return nil, fmt.Errorf("failed to load CSS query %s: %w", name, err)
		}
	}
	for _, name := range selector.HTML {
		if err := qm.loadQuery("html", name); err != nil {
			qm.Close()
			return nil, fmt.Errorf("failed to load HTML query %s: %w", name, err)
		}
	}

	pterm.Debug.Println("Constructing selected queries took", time.Since(start))
	return qm, nil
}

func (qm *QueryManager) loadQuery(language, queryName string) error {
	// path.Join (not filepath.Join): embed.FS requires POSIX separators.
	queryPath := path.Join(language, queryName+".scm")
	data, err := queryFiles.ReadFile(queryPath)
	if err != nil {
		return fmt.Errorf("failed to read query file %s: %w", queryPath, err)
	}

	var lang *ts.Language
	switch language {
	case "typescript":
		lang = languages.typescript
	case "css":
		lang = languages.css
	case "html":
		lang = languages.html
	default:
		return fmt.Errorf("unknown language %s", language)
	}

	query, qerr := ts.NewQuery(lang, string(data))
	if qerr != nil {
		return fmt.Errorf("failed to parse query %s: %w", queryName, qerr)
	}

	switch language {
	case "typescript":
		qm.typescript[queryName] = query
	case "css":
		qm.css[queryName] = query
	case "html":
		qm.html[queryName] = query
	}
	return nil
}

func (qm *QueryManager) Close() {
	for _, q := range qm.typescript {
		q.Close()
	}
	for _, q := range qm.css {
		q.Close()
	}
	for _, q := range qm.html {
		q.Close()
	}
}

func (qm *QueryManager) getQuery(queryName, language string) (*ts.Query, error) {
	var q *ts.Query
	var ok bool
	switch language {
	case "typescript":
		q, ok = qm.typescript[queryName]
	case "css":
		q, ok = qm.css[queryName]
	case "html":
		q, ok = qm.html[queryName]
	}
	if !ok {
		return nil, fmt.Errorf("unknown query %s for language %s", queryName, language)
	}
	return q, nil
}

type CaptureInfo struct {
	NodeId    int
	Text      string
	StartByte uint
	EndByte   uint
}

type CaptureMap = map[string][]CaptureInfo

// QueryMatcher pairs a loaded query with a fresh cursor. Cursors are
// stateful, so unlike parsers they are never pooled: always construct
// a new one per query run.
type QueryMatcher struct {
	query  *ts.Query
	cursor *ts.QueryCursor
}

func NewQueryMatcher(manager *QueryManager, language, queryName string) (*QueryMatcher, error) {
	if manager == nil {
		return nil, ErrNoQueryManager
	}
	query, err := manager.getQuery(queryName, language)
	if err != nil {
		return nil, err
	}
	return &QueryMatcher{query, ts.NewQueryCursor()}, nil
}

func (qm *QueryMatcher) Close() {
	qm.cursor.Close()
}

func (qm *QueryMatcher) CaptureIndexForName(name string) (uint, bool) {
	return qm.query.CaptureIndexForName(name)
}

func (q *QueryMatcher) AllQueryMatches(node *ts.Node, text []byte) iter.Seq[*ts.QueryMatch] {
	matches := q.cursor.Matches(q.query, node, text)
	return func(yield func(*ts.QueryMatch) bool) {
		for {
			m := matches.Next()
			if m == nil {
				break
			}
			if !yield(m) {
				return
			}
		}
	}
}

// AllCaptures flattens every match of a query into one CaptureMap per
// match, ordered by the start byte of the match's first capture. Most
// extractor/transformer queries in this codebase have no meaningful
// "parent" node to group by (unlike the teacher's class-member
// queries), so captures are grouped per match only.
func (q *QueryMatcher) AllCaptures(root *ts.Node, code []byte) iter.Seq[CaptureMap] {
	names := q.query.CaptureNames()

	type entry struct {
		capMap    CaptureMap
		startByte uint
	}
	var entries []entry

	for match := range q.AllQueryMatches(root, code) {
		capMap := make(CaptureMap)
		var startByte uint
		first := true
		for _, cap := range match.Captures {
			name := names[cap.Index]
			text := cap.Node.Utf8Text(code)
			ci := CaptureInfo{
				NodeId:    int(cap.Node.Id()),
				Text:      text,
				StartByte: cap.Node.StartByte(),
				EndByte:   cap.Node.EndByte(),
			}
			capMap[name] = append(capMap[name], ci)
			if first || cap.Node.StartByte() < startByte {
				startByte = cap.Node.StartByte()
			}
			first = false
		}
		entries = append(entries, entry{capMap, startByte})
	}

	slices.SortStableFunc(entries, func(a, b entry) int {
		return int(a.startByte) - int(b.startByte)
	})

	return func(yield func(CaptureMap) bool) {
		for _, e := range entries {
			if !yield(e.capMap) {
				return
			}
		}
	}
}
