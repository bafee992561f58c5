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

package urlmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/webxtract/internal/platform"
)

func TestReadRegistersChromeURLFromFileMapping(t *testing.T) {
	fs := platform.NewMapFS(map[string]string{
		"browser/base/content/browser.manifest": "" +
			"% skin browser classic skin/classic/browser/\n" +
			"browser.jar:\n" +
			"  skin/classic/browser/foo.png (themes/foo.png)\n",
	})
	r := NewReader(fs, ".")

	urls, err := r.Read([]string{"browser/base/content/browser.manifest"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "browser/base/content/themes/foo.png", urls["chrome://browser/skin/foo.png"])
}

func TestReadDefaultsSourceToJarDirAndDestBasename(t *testing.T) {
	fs := platform.NewMapFS(map[string]string{
		"browser/base/content/browser.manifest": "" +
			"% skin browser classic skin/classic/browser/\n" +
			"browser.jar:\n" +
			"  skin/classic/browser/foo.png\n",
	})
	r := NewReader(fs, ".")

	urls, err := r.Read([]string{"browser/base/content/browser.manifest"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "browser/base/content/foo.png", urls["chrome://browser/skin/foo.png"])
}

func TestReadHandlesFileMappingWithExplicitSource(t *testing.T) {
	fs := platform.NewMapFS(map[string]string{
		"browser/base/m.manifest": "" +
			"% content browser content/browser/\n" +
			"browser.jar:\n" +
			"  content/browser/panel.mjs (../src/panel.mjs)\n",
	})
	r := NewReader(fs, ".")

	urls, err := r.Read([]string{"browser/base/m.manifest"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "browser/src/panel.mjs", urls["chrome://browser/content/panel.mjs"])
}

func TestConditionalManifestExcludesDisabledBlock(t *testing.T) {
	fs := platform.NewMapFS(map[string]string{
		"m.manifest": "" +
			"% content browser content/browser/\n" +
			"browser.jar:\n" +
			"#ifdef ANDROID\n" +
			"  content/browser/android-only.mjs\n" +
			"#endif\n" +
			"  content/browser/always.mjs\n",
	})
	r := NewReader(fs, ".") // ANDROID defaults to false

	urls, err := r.Read([]string{"m.manifest"}, nil)
	require.NoError(t, err)
	_, hasAndroidOnly := urls["chrome://browser/content/android-only.mjs"]
	assert.False(t, hasAndroidOnly)
	_, hasAlways := urls["chrome://browser/content/always.mjs"]
	assert.True(t, hasAlways)
}

func TestConditionalManifestHonorsOverrideFlags(t *testing.T) {
	fs := platform.NewMapFS(map[string]string{
		"m.manifest": "" +
			"% content browser content/browser/\n" +
			"browser.jar:\n" +
			"#ifdef ANDROID\n" +
			"  content/browser/android-only.mjs\n" +
			"#endif\n",
	})
	r := NewReader(fs, ".")
	r.Flags = map[string]bool{"ANDROID": true}

	urls, err := r.Read([]string{"m.manifest"}, nil)
	require.NoError(t, err)
	_, ok := urls["chrome://browser/content/android-only.mjs"]
	assert.True(t, ok)
}

func TestUnknownIfdefFlagIsFatal(t *testing.T) {
	fs := platform.NewMapFS(map[string]string{
		"m.manifest": "#ifdef NOT_A_REAL_FLAG\nfoo\n#endif\n",
	})
	r := NewReader(fs, ".")

	_, err := r.Read([]string{"m.manifest"}, nil)
	require.ErrorIs(t, err, ErrUnknownFlag)
}

func TestUnmatchedEndifIsFatal(t *testing.T) {
	fs := platform.NewMapFS(map[string]string{
		"m.manifest": "#endif\n",
	})
	r := NewReader(fs, ".")

	_, err := r.Read([]string{"m.manifest"}, nil)
	require.ErrorIs(t, err, ErrUnmatchedEndif)
}

func TestIncludeSplicesReferencedFile(t *testing.T) {
	fs := platform.NewMapFS(map[string]string{
		"m.manifest": "" +
			"#include sub.inc\n",
		"sub.inc": "" +
			"% content browser content/browser/\n" +
			"browser.jar:\n" +
			"  content/browser/x.mjs\n",
	})
	r := NewReader(fs, ".")

	urls, err := r.Read([]string{"m.manifest"}, nil)
	require.NoError(t, err)
	_, ok := urls["chrome://browser/content/x.mjs"]
	assert.True(t, ok)
}

func TestMissingIncludeIsFatal(t *testing.T) {
	fs := platform.NewMapFS(map[string]string{
		"m.manifest": "#include nope.inc\n",
	})
	r := NewReader(fs, ".")

	_, err := r.Read([]string{"m.manifest"}, nil)
	require.ErrorIs(t, err, ErrIncludeNotFound)
}

func TestMissingManifestIsWarningNotError(t *testing.T) {
	fs := platform.NewMapFS(map[string]string{})
	r := NewReader(fs, ".")

	urls, err := r.Read([]string{"missing.manifest"}, nil)
	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestBuildDescriptionInlineList(t *testing.T) {
	fs := platform.NewMapFS(map[string]string{
		"browser/components/moz.build": `CONTENT_ACCESSIBLE_FILES += ["content/panel.mjs", "content/other.mjs"]` + "\n",
	})
	r := NewReader(fs, ".")

	urls, err := r.Read(nil, []string{"browser/components/moz.build"})
	require.NoError(t, err)
	assert.Equal(t, "browser/components/content/panel.mjs", urls["resource://content-accessible/panel.mjs"])
	assert.Equal(t, "browser/components/content/other.mjs", urls["resource://content-accessible/other.mjs"])
}

func TestBuildDescriptionMultiLineList(t *testing.T) {
	fs := platform.NewMapFS(map[string]string{
		"browser/components/moz.build": "" +
			"CONTENT_ACCESSIBLE_FILES += [\n" +
			"    'content/a.mjs',\n" +
			"    'content/b.mjs',\n" +
			"]\n",
	})
	r := NewReader(fs, ".")

	urls, err := r.Read(nil, []string{"browser/components/moz.build"})
	require.NoError(t, err)
	assert.Equal(t, "browser/components/content/a.mjs", urls["resource://content-accessible/a.mjs"])
	assert.Equal(t, "browser/components/content/b.mjs", urls["resource://content-accessible/b.mjs"])
}

func TestMissingBuildDescriptionIsWarningNotError(t *testing.T) {
	fs := platform.NewMapFS(map[string]string{})
	r := NewReader(fs, ".")

	urls, err := r.Read(nil, []string{"missing/moz.build"})
	require.NoError(t, err)
	assert.Empty(t, urls)
}
