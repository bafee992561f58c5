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

// Package transform implements the CSS and JS Transformers: rewriting
// url()/@import targets and import specifiers against a per-file
// replacement map, and, for components, inlining stylesheets and
// rewriting asset references embedded in html-tagged template literals.
package transform

import "errors"

var (
	// ErrUrlNotFound is fatal: a CSS url()/@import target has no entry
	// in the replacement map.
	ErrUrlNotFound = errors.New("transform: url has no replacement")
	// ErrReplacementNotFound is fatal: a JS import specifier has no
	// entry in the replacement map (excluding the lit.all.mjs exception).
	ErrReplacementNotFound = errors.New("transform: import specifier has no replacement")
	// ErrParsePanic mirrors extract.ErrParsePanic for the transform
	// stage's own re-parses between passes.
	ErrParsePanic = errors.New("transform: parser panic")
)
