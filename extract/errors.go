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

// Package extract implements the JS/TS and CSS dependency extractors:
// given a parsed source file, return every import specifier, stylesheet
// href, and asset reference it contains.
package extract

import "errors"

var (
	// ErrParsePanic is fatal: the extractor's parser panicked on the
	// input (recovered at the call boundary).
	ErrParsePanic = errors.New("extract: parser panic")
	// ErrParseDiagnostic is fatal: the parser produced a syntax error
	// diagnostic describing the first failure site.
	ErrParseDiagnostic = errors.New("extract: parse diagnostic")
)
