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

import "errors"

// Sentinel error kinds, matching the Manifest Reader row of the error
// handling table: ManifestIO is a warning (logged, never returned),
// the rest are hard errors that abort the read.
var (
	ErrIncludeNotFound = errors.New("urlmap: #include file not found")
	ErrUnknownFlag     = errors.New("urlmap: unknown #ifdef/#ifndef flag")
	ErrUnmatchedEndif  = errors.New("urlmap: unmatched #endif")
)
