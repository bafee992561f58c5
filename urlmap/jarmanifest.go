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
	"fmt"
	"path"
	"strings"

	"bennypowers.dev/webxtract/internal/platform"
)

// registration records one `%content`/`%skin`/`%locale` line. Path may
// itself carry a literal leading "%" (a real convention in the
// manifests this grammar is modeled on); it is trimmed at match time.
type registration struct {
	kind string // "content", "skin", "locale"
	pkg  string
	path string
}

// resolveIncludes recursively splices `#include <path>` directives,
// returning the fully flattened manifest text. Relative include paths
// resolve against the including file's own directory; a leading "/"
// resolves against workDir. Missing includes are a hard error.
func resolveIncludes(fs platform.FileSystem, workDir, filePath string) (string, error) {
	data, err := fs.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrIncludeNotFound, filePath)
	}

	fileDir := path.Dir(filePath)
	var out strings.Builder
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if after, ok := strings.CutPrefix(trimmed, "#include "); ok {
			includePath := strings.TrimSpace(after)
			var resolved string
			if strings.HasPrefix(includePath, "/") {
				resolved = path.Join(workDir, strings.TrimPrefix(includePath, "/"))
			} else {
				resolved = path.Join(fileDir, includePath)
			}
			if !fs.Exists(resolved) {
				return "", fmt.Errorf("%w: %s", ErrIncludeNotFound, resolved)
			}
			included, err := resolveIncludes(fs, workDir, resolved)
			if err != nil {
				return "", err
			}
			out.WriteString(included)
			out.WriteByte('\n')
			continue
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}
	return out.String(), nil
}

// parseJarManifest parses the fully-spliced content of a jar manifest
// into URL map entries. jarPath is the original (pre-splice) manifest
// path; every relative src/registration path is resolved against
// jarPath's own directory regardless of which physical file a spliced
// line originated in — this mirrors the reference implementation,
// which flattens #include textually before parsing ever sees
// directory context.
func parseJarManifest(content, jarPath, workDir, scheme string, flags map[string]bool) (URLMap, error) {
	jarDir := path.Dir(jarPath)
	urls := make(URLMap)
	var registrations []registration
	var currentJar string
	var ifdefStack []bool
	active := true

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)

		if line == "" || strings.HasPrefix(line, "#") {
			switch {
			case strings.HasPrefix(line, "#ifdef "), strings.HasPrefix(line, "#ifndef "):
				isIfdef := strings.HasPrefix(line, "#ifdef ")
				var condition string
				if isIfdef {
					condition = strings.TrimSpace(strings.TrimPrefix(line, "#ifdef "))
				} else {
					condition = strings.TrimSpace(strings.TrimPrefix(line, "#ifndef "))
				}
				value, ok := flags[condition]
				if !ok {
					return nil, fmt.Errorf("%w: %s", ErrUnknownFlag, condition)
				}
				shouldInclude := value
				if !isIfdef {
					shouldInclude = !value
				}
				ifdefStack = append(ifdefStack, active)
				active = active && shouldInclude
			case line == "#endif":
				if len(ifdefStack) == 0 {
					return nil, ErrUnmatchedEndif
				}
				active = ifdefStack[len(ifdefStack)-1]
				ifdefStack = ifdefStack[:len(ifdefStack)-1]
			}
			continue
		}

		if !active {
			continue
		}

		if strings.HasPrefix(line, "*") {
			continue
		}

		if strings.HasSuffix(line, ".jar:") {
			currentJar = strings.TrimSuffix(line, ":")
			continue
		}

		if strings.HasPrefix(line, "%") {
			if reg, ok := parseRegistrationLine(line); ok {
				registrations = append(registrations, reg)
			}
			continue
		}

		if currentJar != "" && strings.Contains(line, "/") {
			if u, src, ok := parseFileMappingLine(line, jarDir, workDir, scheme, registrations); ok {
				urls[u] = src
			}
		}
	}

	if len(ifdefStack) > 0 {
		return nil, ErrUnmatchedEndif
	}
	return urls, nil
}

func parseRegistrationLine(line string) (registration, bool) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(line, "%"))
	parts := strings.Fields(trimmed)
	if len(parts) < 3 {
		return registration{}, false
	}

	kind := parts[0]
	pkg := parts[1]

	var regPath string
	if kind == "content" {
		regPath = parts[2]
	} else {
		if len(parts) < 4 {
			return registration{}, false
		}
		regPath = parts[3]
	}

	return registration{kind: kind, pkg: pkg, path: regPath}, true
}

func parseFileMappingLine(line, jarDir, workDir, scheme string, registrations []registration) (url, srcRel string, ok bool) {
	var dest, src string
	if open := strings.Index(line, "("); open >= 0 {
		if closeIdx := strings.Index(line, ")"); closeIdx > open {
			dest = strings.TrimSpace(line[:open])
			src = strings.TrimSpace(line[open+1 : closeIdx])
		}
	}
	if dest == "" {
		dest = line
	}

	var srcPath string
	switch {
	case src == "":
		srcPath = path.Join(jarDir, path.Base(dest))
	case strings.HasPrefix(src, "/"):
		srcPath = path.Join(workDir, strings.TrimPrefix(src, "/"))
	default:
		srcPath = path.Join(jarDir, src)
	}

	u, found := buildURL(dest, scheme, registrations)
	if !found {
		return "", "", false
	}
	return u, srcPath, true
}

// buildURL mirrors the reference resolver's build_chrome_url: the
// destination's leading path segment names the registration "type",
// and the first registration of that type whose (trimmed) path is a
// prefix of dest wins.
func buildURL(dest, scheme string, registrations []registration) (string, bool) {
	segments := strings.SplitN(dest, "/", 2)
	if len(segments) == 0 {
		return "", false
	}
	kind := segments[0]

	for _, reg := range registrations {
		if reg.kind != kind {
			continue
		}
		regPath := strings.TrimPrefix(reg.path, "%")
		regPath = strings.TrimSuffix(regPath, "/")
		if strings.HasPrefix(dest, regPath) {
			relative := strings.TrimPrefix(strings.TrimPrefix(dest, regPath), "/")
			return fmt.Sprintf("%s://%s/%s/%s", scheme, reg.pkg, kind, relative), true
		}
	}
	return "", false
}
