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

// Package resolve implements the URL Resolver: given a source file and
// an import specifier, returns the filesystem path the specifier
// refers to, handling both the internal URL-registry scheme and
// ordinary relative paths.
package resolve

import (
	"fmt"
	"path"
	"strings"

	"github.com/agext/levenshtein"
	"github.com/dunglas/go-urlpattern"

	"bennypowers.dev/webxtract/internal/platform"
	"bennypowers.dev/webxtract/urlmap"
)

// recognizedExtensions are the source/asset extensions that make an
// extension-bearing, scheme-less specifier look like a relative path
// rather than something unsupported.
var recognizedExtensions = map[string]bool{
	".mjs":  true,
	".js":   true,
	".ts":   true,
	".css":  true,
	".svg":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".json": true,
}

// internalSchemePatterns recognizes the registry-addressed internal
// URL scheme(s) this build targets declaratively, rather than via
// ad hoc strings.HasPrefix chains — extending the recognized-scheme
// set is then a matter of adding a pattern, not branching code.
var internalSchemePatterns = compileInternalSchemePatterns()

func compileInternalSchemePatterns() []*urlpattern.URLPattern {
	patterns := make([]*urlpattern.URLPattern, 0, 2)
	for _, p := range []string{"chrome://*/*/**", "resource://**"} {
		compiled, err := urlpattern.New(p, "")
		if err != nil {
			// The pattern set above is a fixed, known-valid literal;
			// a failure here means the pattern table itself is broken.
			panic(fmt.Sprintf("resolve: invalid built-in URL pattern %q: %v", p, err))
		}
		patterns = append(patterns, compiled)
	}
	return patterns
}

func looksLikeInternalURL(importText string) bool {
	if !strings.Contains(importText, "://") {
		return false
	}
	for _, p := range internalSchemePatterns {
		if ok, _ := p.Test(importText, ""); ok {
			return true
		}
	}
	return false
}

func looksLikeRelativePath(importText string) bool {
	if strings.HasPrefix(importText, "./") || strings.HasPrefix(importText, "../") || strings.HasPrefix(importText, "/") {
		return true
	}
	if strings.Contains(importText, "://") {
		return false
	}
	ext := path.Ext(importText)
	return recognizedExtensions[ext] || strings.Contains(importText, "/")
}

// Resolver resolves import specifiers against a URL map and the
// filesystem, verifying the target exists.
type Resolver struct {
	FS      platform.FileSystem
	WorkDir string
	URLs    urlmap.URLMap

	// KnownPaths, if set, is consulted on a FileNotFound miss to offer
	// a "did you mean" suggestion by edit distance. Purely diagnostic:
	// it never changes resolution behavior or graph shape.
	KnownPaths []string
}

func New(fs platform.FileSystem, workDir string, urls urlmap.URLMap) *Resolver {
	return &Resolver{FS: fs, WorkDir: workDir, URLs: urls}
}

// Resolve implements spec.md §4.2's resolve(current_file, import_text) -> path.
func (r *Resolver) Resolve(currentFile, importText string) (string, error) {
	var resolved string

	switch {
	case looksLikeInternalURL(importText):
		p, ok := r.URLs[importText]
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrChromeMappingNotFound, importText)
		}
		resolved = p

	case looksLikeRelativePath(importText):
		var base string
		if strings.HasPrefix(importText, "/") {
			base = r.WorkDir
		} else {
			base = path.Dir(currentFile)
		}
		resolved = path.Join(base, importText)

	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedImportFormat, importText)
	}

	resolved = path.Clean(resolved)

	if !r.FS.Exists(resolved) {
		if hint := r.didYouMean(resolved); hint != "" {
			return "", fmt.Errorf("%w: %s (did you mean %s?)", ErrFileNotFound, resolved, hint)
		}
		return "", fmt.Errorf("%w: %s", ErrFileNotFound, resolved)
	}
	return resolved, nil
}

func (r *Resolver) didYouMean(missing string) string {
	if len(r.KnownPaths) == 0 {
		return ""
	}
	best := ""
	bestDistance := -1
	for _, candidate := range r.KnownPaths {
		d := levenshtein.Distance(missing, candidate, nil)
		if bestDistance == -1 || d < bestDistance {
			bestDistance = d
			best = candidate
		}
	}
	return best
}
