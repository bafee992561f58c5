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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/webxtract/queries"
)

func newTestJSTransformer(t *testing.T) *JSTransformer {
	t.Helper()
	qm, err := queries.NewQueryManager(queries.ExtractorQueries())
	require.NoError(t, err)
	t.Cleanup(qm.Close)
	return NewJSTransformer(qm)
}

func TestJSTransformerRewritesImportSpecifiers(t *testing.T) {
	tr := newTestJSTransformer(t)
	out, err := tr.Transform(`import "./util.mjs";`, map[string]string{
		"./util.mjs": "../../dependencies/util.mjs",
	}, nil)
	require.NoError(t, err)
	assert.Contains(t, out, `"../../dependencies/util.mjs"`)
}

func TestJSTransformerLeavesLitAllSpecifierUnchanged(t *testing.T) {
	tr := newTestJSTransformer(t)
	out, err := tr.Transform(`import { html } from "lit.all.mjs";`, map[string]string{}, nil)
	require.NoError(t, err)
	assert.Contains(t, out, `"lit.all.mjs"`)
}

func TestJSTransformerFailsOnMissingReplacement(t *testing.T) {
	tr := newTestJSTransformer(t)
	_, err := tr.Transform(`import "./missing.mjs";`, map[string]string{}, nil)
	require.ErrorIs(t, err, ErrReplacementNotFound)
}

func TestJSTransformerInlinesStylesheetAndAddsCSSImport(t *testing.T) {
	tr := newTestJSTransformer(t)
	src := "import { html } from \"lit.all.mjs\";\n" +
		"class XFoo extends HTMLElement {\n" +
		"  render() {\n" +
		"    return html`<link rel=\"stylesheet\" href=\"s.css\"><div></div>`;\n" +
		"  }\n" +
		"}\n"
	out, err := tr.Transform(src, map[string]string{}, map[string]string{
		"s.css": ".a { color: red; }",
	})
	require.NoError(t, err)
	assert.NotContains(t, out, `<link rel="stylesheet"`)
	assert.Contains(t, out, "static styles = [...(HTMLElement.styles ?? []), css`")
	assert.Contains(t, out, "/* From s.css */")
	assert.Contains(t, out, "import { css, html } from \"lit.all.mjs\";")
}

func TestJSTransformerRewritesAssetReferenceInArray(t *testing.T) {
	tr := newTestJSTransformer(t)
	out, err := tr.Transform(`const icons = ["icon.svg"];`, map[string]string{
		"icon.svg": "../assets/icon.svg",
	}, nil)
	require.NoError(t, err)
	assert.Contains(t, out, `new URL("../assets/icon.svg", import.meta.url).href`)
}

func TestJSTransformerRewritesAssetReferenceInTemplateAttribute(t *testing.T) {
	tr := newTestJSTransformer(t)
	src := "const t = html`<img src=\"icon.svg\">`;\n"
	out, err := tr.Transform(src, map[string]string{
		"icon.svg": "../assets/icon.svg",
	}, nil)
	require.NoError(t, err)
	assert.Contains(t, out, `src="${new URL("../assets/icon.svg", import.meta.url).href}"`)
}

func TestJSTransformerRewritesAssetReferenceUsedAsObjectKey(t *testing.T) {
	tr := newTestJSTransformer(t)
	out, err := tr.Transform(`const icons = {"icon.svg": "home"};`, map[string]string{
		"icon.svg": "../assets/icon.svg",
	}, nil)
	require.NoError(t, err)
	assert.Contains(t, out, `[new URL("../assets/icon.svg", import.meta.url).href]: "home"`)
}

func TestJSTransformerNormalizesTabsToSpaces(t *testing.T) {
	tr := newTestJSTransformer(t)
	out, err := tr.Transform("const\tx = 1;", map[string]string{}, nil)
	require.NoError(t, err)
	assert.NotContains(t, out, "\t")
}
