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

package buildgraph

import (
	"path"
	"strings"

	"bennypowers.dev/webxtract/extract"
	"bennypowers.dev/webxtract/graph"
	"bennypowers.dev/webxtract/internal/logging"
	"bennypowers.dev/webxtract/internal/platform"
	"bennypowers.dev/webxtract/resolve"
)

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".svg":  true,
}

// Builder implements spec.md §4.5's seed-then-worklist traversal.
type Builder struct {
	FS       platform.FileSystem
	Resolver *resolve.Resolver
	JS       *extract.JSExtractor
	CSS      *extract.CSSExtractor
}

func New(fs platform.FileSystem, resolver *resolve.Resolver, js *extract.JSExtractor, css *extract.CSSExtractor) *Builder {
	return &Builder{FS: fs, Resolver: resolver, JS: js, CSS: css}
}

// Build seeds the graph from component and global-stylesheet globs and
// discovers the transitive closure via the extractors and resolver.
func (b *Builder) Build(componentGlobs, globalStylesheetGlobs []string) (*graph.Graph, error) {
	g := graph.New()
	var worklist []string

	componentFiles, err := expandGlobs(b.FS, componentGlobs)
	if err != nil {
		return nil, err
	}
	for _, p := range componentFiles {
		kind, ok := classifyComponentFile(p)
		if !ok {
			continue
		}
		dest := graph.NewComponentDestination(path.Base(path.Dir(p)))
		node := g.AddFile(p, kind, dest)
		worklist = append(worklist, node.Path)
	}

	stylesheetFiles, err := expandGlobs(b.FS, globalStylesheetGlobs)
	if err != nil {
		return nil, err
	}
	for _, p := range stylesheetFiles {
		node := g.AddFile(p, graph.Stylesheet, graph.GlobalStyles)
		worklist = append(worklist, node.Path)
	}

	processed := make(map[string]bool)
	for len(worklist) > 0 {
		current := worklist[0]
		worklist = worklist[1:]
		if processed[current] {
			continue
		}
		processed[current] = true

		node, ok := g.Get(current)
		if !ok {
			continue
		}

		imports, err := b.extract(node)
		if err != nil {
			return nil, err
		}

		for _, importText := range imports {
			resolved, err := b.Resolver.Resolve(node.Path, importText)
			if err != nil {
				logging.Warning("%s: %v", node.Path, err)
				continue
			}

			_, existed := g.Get(resolved)
			kind := classifyImportKind(resolved)
			dest := classifyDestination(node.Kind, kind, resolved)
			target := g.AddFile(resolved, kind, dest)
			if _, err := g.AddEdge(node.Path, target.Path, importText); err != nil {
				return nil, err
			}
			if !existed {
				worklist = append(worklist, target.Path)
			}
		}
	}

	return g, nil
}

// classifyComponentFile implements spec.md §4.5 step 1's per-extension
// rule; ok is false when the file is skipped entirely (.css, .ts).
func classifyComponentFile(p string) (graph.Kind, bool) {
	ext := path.Ext(p)
	switch ext {
	case ".css", ".ts":
		return 0, false
	}
	base := path.Base(p)
	if strings.HasSuffix(base, ".stories.mjs") || strings.HasSuffix(base, ".story.mjs") {
		return graph.Script, true
	}
	if ext == ".mjs" {
		return graph.ComponentRoot, true
	}
	return graph.Opaque, true
}

func classifyImportKind(p string) graph.Kind {
	switch path.Ext(p) {
	case ".css":
		return graph.Stylesheet
	case ".js", ".mjs":
		return graph.Script
	default:
		return graph.Opaque
	}
}

func classifyDestination(fromKind, targetKind graph.Kind, targetPath string) graph.Destination {
	if fromKind == graph.ComponentRoot && targetKind == graph.Stylesheet {
		return graph.Omit
	}
	if imageExtensions[path.Ext(targetPath)] {
		return graph.Asset
	}
	return graph.Dependency
}

// extract dispatches to the JS or CSS extractor by node kind; Opaque
// nodes have no dependencies to discover.
func (b *Builder) extract(node *graph.Node) ([]string, error) {
	switch node.Kind {
	case graph.ComponentRoot, graph.Script:
		source, err := b.FS.ReadFile(node.Path)
		if err != nil {
			return nil, err
		}
		return b.JS.Extract(node.Path, source)
	case graph.Stylesheet:
		source, err := b.FS.ReadFile(node.Path)
		if err != nil {
			return nil, err
		}
		return b.CSS.Extract(node.Path, source)
	default:
		return nil, nil
	}
}
