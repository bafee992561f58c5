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

// Package urlmap implements the Manifest Reader: parsing jar manifests
// (conditional-compilation, include splicing, chrome/skin/locale
// registrations) and build-description files into a single map from
// opaque internal URL to on-disk path.
package urlmap

// URLMap maps an opaque internal URL (e.g. "chrome://browser/content/x.mjs")
// to a filesystem path relative to the working directory. It is built
// once by the Manifest Reader and is read-only thereafter.
type URLMap map[string]string

// Merge copies every entry of other into m, overwriting on collision.
func (m URLMap) Merge(other URLMap) {
	for k, v := range other {
		m[k] = v
	}
}

// DefaultFlags returns the default #ifdef/#ifndef feature-flag values,
// overridable by the caller.
func DefaultFlags() map[string]bool {
	return map[string]bool{
		"MOZILLA_OFFICIAL":  true,
		"RELEASE_OR_BETA":   true,
		"ANDROID":           false,
		"XP_MACOSX":         false,
		"MOZ_GLEAN_ANDROID": false,
		"MOZ_FENNEC":        false,
	}
}

// mergeFlags returns DefaultFlags() overridden by overrides.
func mergeFlags(overrides map[string]bool) map[string]bool {
	flags := DefaultFlags()
	for k, v := range overrides {
		flags[k] = v
	}
	return flags
}
