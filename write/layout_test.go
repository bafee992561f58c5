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

	"bennypowers.dev/webxtract/internal/platform"
)

func TestPrepareOutputDirCreatesCanonicalSubdirs(t *testing.T) {
	fsys := platform.NewMapFS(nil)
	require.NoError(t, PrepareOutputDir(fsys, "out"))

	for _, sub := range canonicalSubdirs {
		assert.True(t, fsys.Exists("out/"+sub))
	}
}

func TestPrepareOutputDirClearsStaleContent(t *testing.T) {
	fsys := platform.NewMapFS(map[string]string{
		"out/components/x-foo/x-foo.mjs": "stale",
		"out/stray.txt":                  "stale",
	})
	require.NoError(t, PrepareOutputDir(fsys, "out"))

	assert.False(t, fsys.Exists("out/stray.txt"))
	assert.False(t, fsys.Exists("out/components/x-foo/x-foo.mjs"))
	assert.True(t, fsys.Exists("out/components"))
}
