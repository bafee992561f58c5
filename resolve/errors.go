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

import "errors"

// Sentinel error kinds for the URL Resolver. During graph construction
// these are logged and skipped (the edge is simply not added); during
// transformation they are never reached, since the graph is closed by
// then.
var (
	ErrChromeMappingNotFound  = errors.New("resolve: no URL map entry for internal URL")
	ErrUnsupportedImportFormat = errors.New("resolve: import text is neither an internal URL nor a relative path")
	ErrFileNotFound           = errors.New("resolve: resolved path does not exist on disk")
)
