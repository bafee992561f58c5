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

package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/webxtract/internal/platform"
	"bennypowers.dev/webxtract/urlmap"
)

func newTestResolver(urls urlmap.URLMap, files map[string]string) *Resolver {
	fs := platform.NewMapFS(files)
	return New(fs, ".", urls)
}

func TestResolveInternalURL(t *testing.T) {
	r := newTestResolver(
		urlmap.URLMap{"chrome://browser/content/panel.mjs": "src/panel.mjs"},
		map[string]string{"src/panel.mjs": ""},
	)
	p, err := r.Resolve("src/x.mjs", "chrome://browser/content/panel.mjs")
	require.NoError(t, err)
	assert.Equal(t, "src/panel.mjs", p)
}

func TestResolveInternalURLMissReturnsChromeMappingNotFound(t *testing.T) {
	r := newTestResolver(urlmap.URLMap{}, map[string]string{})
	_, err := r.Resolve("src/x.mjs", "chrome://browser/content/panel.mjs")
	require.ErrorIs(t, err, ErrChromeMappingNotFound)
}

func TestResolveRelativePath(t *testing.T) {
	r := newTestResolver(nil, map[string]string{"src/a/util.mjs": ""})
	p, err := r.Resolve("src/a/x.mjs", "./util.mjs")
	require.NoError(t, err)
	assert.Equal(t, "src/a/util.mjs", p)
}

func TestResolveRelativePathWithParentTraversal(t *testing.T) {
	r := newTestResolver(nil, map[string]string{"src/shared/util.mjs": ""})
	p, err := r.Resolve("src/a/x.mjs", "../shared/util.mjs")
	require.NoError(t, err)
	assert.Equal(t, "src/shared/util.mjs", p)
}

func TestResolveLeadingSlashResolvesFromWorkDir(t *testing.T) {
	r := newTestResolver(nil, map[string]string{"src/a/util.mjs": ""})
	p, err := r.Resolve("src/b/x.mjs", "/src/a/util.mjs")
	require.NoError(t, err)
	assert.Equal(t, "src/a/util.mjs", p)
}

func TestResolveUnsupportedFormat(t *testing.T) {
	r := newTestResolver(nil, map[string]string{})
	_, err := r.Resolve("src/x.mjs", "some-bare-specifier")
	require.ErrorIs(t, err, ErrUnsupportedImportFormat)
}

func TestResolveMissingFileReturnsFileNotFound(t *testing.T) {
	r := newTestResolver(nil, map[string]string{})
	_, err := r.Resolve("src/a/x.mjs", "./missing.mjs")
	require.ErrorIs(t, err, ErrFileNotFound)
}

func TestResolveDidYouMeanHint(t *testing.T) {
	r := newTestResolver(nil, map[string]string{})
	r.KnownPaths = []string{"src/a/utill.mjs"}
	_, err := r.Resolve("src/a/x.mjs", "./util.mjs")
	require.ErrorIs(t, err, ErrFileNotFound)
	assert.Contains(t, err.Error(), "did you mean")
}
