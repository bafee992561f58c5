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

package write

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/webxtract/graph"
	"bennypowers.dev/webxtract/internal/platform"
	"bennypowers.dev/webxtract/queries"
	"bennypowers.dev/webxtract/transform"
)

func newTestWriter(t *testing.T, fsys platform.FileSystem, g *graph.Graph, outputDir string) *Writer {
	t.Helper()
	qm, err := queries.NewQueryManager(queries.ExtractorQueries())
	require.NoError(t, err)
	t.Cleanup(qm.Close)
	return &Writer{
		FS:         fsys,
		Graph:      g,
		OutputDir:  outputDir,
		CSS:        transform.NewCSSTransformer(qm),
		JS:         transform.NewJSTransformer(qm),
		Sequential: true,
	}
}

func TestWriteAllInlinesStylesheetIntoComponentRoot(t *testing.T) {
	src := "import { html } from \"lit.all.mjs\";\n" +
		"class XFoo extends HTMLElement {\n" +
		"  render() {\n" +
		"    return html`<link rel=\"stylesheet\" href=\"./x-foo.css\"><div></div>`;\n" +
		"  }\n" +
		"}\n"

	fsys := platform.NewMapFS(map[string]string{
		"src/x-foo/x-foo.mjs": src,
		"src/x-foo/x-foo.css": ".a { color: red; }",
	})

	g := graph.New()
	root := g.AddFile("src/x-foo/x-foo.mjs", graph.ComponentRoot, graph.NewComponentDestination("x-foo"))
	g.AddFile("src/x-foo/x-foo.css", graph.Stylesheet, graph.Omit)
	_, err := g.AddEdge(root.Path, "src/x-foo/x-foo.css", "./x-foo.css")
	require.NoError(t, err)

	w := newTestWriter(t, fsys, g, "out")
	require.NoError(t, w.WriteAll())

	out, err := fsys.ReadFile("out/components/x-foo/x-foo.mjs")
	require.NoError(t, err)
	assert.NotContains(t, string(out), `<link rel="stylesheet"`)
	assert.Contains(t, string(out), "static styles = [...(HTMLElement.styles ?? []), css`")
	assert.Contains(t, string(out), "import { css, html } from \"lit.all.mjs\";")

	assert.False(t, fsys.Exists("out/components/x-foo/x-foo.css"))
}

func TestWriteAllRewritesSharedStylesheetAsDependency(t *testing.T) {
	fsys := platform.NewMapFS(map[string]string{
		"src/x-foo/x-foo.mjs": "import \"./shared.css\";\n",
		"src/shared.css":       `.b { background: url("icon.svg"); }`,
		"src/icon.svg":         "<svg/>",
	})

	g := graph.New()
	root := g.AddFile("src/x-foo/x-foo.mjs", graph.ComponentRoot, graph.NewComponentDestination("x-foo"))
	g.AddFile("src/shared.css", graph.Stylesheet, graph.Dependency)
	g.AddFile("src/icon.svg", graph.Opaque, graph.Asset)
	_, err := g.AddEdge(root.Path, "src/shared.css", "./shared.css")
	require.NoError(t, err)
	_, err = g.AddEdge("src/shared.css", "src/icon.svg", "icon.svg")
	require.NoError(t, err)

	w := newTestWriter(t, fsys, g, "out")
	require.NoError(t, w.WriteAll())

	rootOut, err := fsys.ReadFile("out/components/x-foo/x-foo.mjs")
	require.NoError(t, err)
	assert.Contains(t, string(rootOut), `"../../dependencies/shared.css"`)

	cssOut, err := fsys.ReadFile("out/dependencies/shared.css")
	require.NoError(t, err)
	assert.Contains(t, string(cssOut), `url("../assets/icon.svg")`)
}

func TestWriteAllCopiesOpaqueAssetsByteForByte(t *testing.T) {
	fsys := platform.NewMapFS(map[string]string{
		"src/icon.svg": "<svg>raw</svg>",
	})

	g := graph.New()
	g.AddFile("src/icon.svg", graph.Opaque, graph.Asset)

	w := newTestWriter(t, fsys, g, "out")
	require.NoError(t, w.WriteAll())

	out, err := fsys.ReadFile("out/assets/icon.svg")
	require.NoError(t, err)
	assert.Equal(t, "<svg>raw</svg>", string(out))
}
