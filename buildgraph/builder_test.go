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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/webxtract/extract"
	"bennypowers.dev/webxtract/graph"
	"bennypowers.dev/webxtract/internal/platform"
	"bennypowers.dev/webxtract/queries"
	"bennypowers.dev/webxtract/resolve"
	"bennypowers.dev/webxtract/urlmap"
)

func newTestBuilder(t *testing.T, files map[string]string, urls urlmap.URLMap) *Builder {
	t.Helper()
	fs := platform.NewMapFS(files)
	qm, err := queries.NewQueryManager(queries.ExtractorQueries())
	require.NoError(t, err)
	t.Cleanup(qm.Close)
	resolver := resolve.New(fs, ".", urls)
	return New(fs, resolver, extract.NewJSExtractor(qm), extract.NewCSSExtractor(qm))
}

func TestBuildClassifiesComponentRootAndDependency(t *testing.T) {
	b := newTestBuilder(t, map[string]string{
		"src/a/x.mjs":    `import "./util.mjs";`,
		"src/a/util.mjs": `export const x = 1;`,
	}, nil)

	g, err := b.Build([]string{"src/a/x.mjs"}, nil)
	require.NoError(t, err)

	root, ok := g.Get("src/a/x.mjs")
	require.True(t, ok)
	assert.Equal(t, graph.ComponentRoot, root.Kind)
	assert.Equal(t, "Component(a)", root.Destination.String())

	dep, ok := g.Get("src/a/util.mjs")
	require.True(t, ok)
	assert.Equal(t, graph.Script, dep.Kind)
	assert.Equal(t, graph.Dependency, dep.Destination)
}

func TestBuildOmitsComponentOwnedStylesheet(t *testing.T) {
	b := newTestBuilder(t, map[string]string{
		"src/a/x.mjs": "const t = html`<link rel=\"stylesheet\" href=\"./s.css\">`;\n",
		"src/a/s.css": `.a { color: red; }`,
	}, nil)

	g, err := b.Build([]string{"src/a/*.mjs"}, nil)
	require.NoError(t, err)

	style, ok := g.Get("src/a/s.css")
	require.True(t, ok)
	assert.Equal(t, graph.Omit, style.Destination)
}

func TestBuildPromotesSharedStylesheetToDependency(t *testing.T) {
	b := newTestBuilder(t, map[string]string{
		"src/a/x.mjs":    "import \"../util.mjs\";\nconst t = html`<link rel=\"stylesheet\" href=\"../shared.css\">`;\n",
		"src/util.mjs":   "import \"./shared.css\";",
		"src/shared.css": `.a { color: red; }`,
	}, nil)

	g, err := b.Build([]string{"src/a/*.mjs"}, nil)
	require.NoError(t, err)

	style, ok := g.Get("src/shared.css")
	require.True(t, ok)
	assert.Equal(t, graph.Dependency, style.Destination)
}

func TestBuildSeedsGlobalStylesheets(t *testing.T) {
	b := newTestBuilder(t, map[string]string{
		"themes/base.css": `.a { color: red; }`,
	}, nil)

	g, err := b.Build(nil, []string{"themes/*.css"})
	require.NoError(t, err)

	node, ok := g.Get("themes/base.css")
	require.True(t, ok)
	assert.Equal(t, graph.Stylesheet, node.Kind)
	assert.Equal(t, graph.GlobalStyles, node.Destination)
}

func TestBuildClassifiesAssetByImageExtension(t *testing.T) {
	b := newTestBuilder(t, map[string]string{
		"src/a/x.mjs":   "const t = html`<img src=\"./icon.svg\">`;\n",
		"src/a/icon.svg": `<svg></svg>`,
	}, nil)

	g, err := b.Build([]string{"src/a/*.mjs"}, nil)
	require.NoError(t, err)

	asset, ok := g.Get("src/a/icon.svg")
	require.True(t, ok)
	assert.Equal(t, graph.Asset, asset.Destination)
}

func TestBuildSkipsUnresolvableImportInsteadOfFailing(t *testing.T) {
	b := newTestBuilder(t, map[string]string{
		"src/a/x.mjs": `import "./missing.mjs";`,
	}, nil)

	g, err := b.Build([]string{"src/a/*.mjs"}, nil)
	require.NoError(t, err)
	_, ok := g.Get("src/a/missing.mjs")
	assert.False(t, ok)
}

func TestBuildResolvesInternalURLsThroughTheURLMap(t *testing.T) {
	b := newTestBuilder(t, map[string]string{
		"src/a/x.mjs":    `import "chrome://browser/content/panel.mjs";`,
		"src/panel.mjs": `export const x = 1;`,
	}, urlmap.URLMap{"chrome://browser/content/panel.mjs": "src/panel.mjs"})

	g, err := b.Build([]string{"src/a/*.mjs"}, nil)
	require.NoError(t, err)
	_, ok := g.Get("src/panel.mjs")
	assert.True(t, ok)
}

func TestBuildSkipsComponentGlobMatchesWithExcludedGlob(t *testing.T) {
	b := newTestBuilder(t, map[string]string{
		"src/a/x.mjs":          `export const x = 1;`,
		"src/a/generated/y.mjs": `export const y = 1;`,
	}, nil)

	g, err := b.Build([]string{"src/a/**/*.mjs", "!src/a/generated/**"}, nil)
	require.NoError(t, err)
	_, ok := g.Get("src/a/generated/y.mjs")
	assert.False(t, ok)
	_, ok = g.Get("src/a/x.mjs")
	assert.True(t, ok)
}
