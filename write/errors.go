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

// Package write implements the Output Writer: it computes each graph
// node's destination within the canonical output layout and dispatches
// to the CSS/JS transformers or a byte-copy, optionally fanning the
// per-node work out across goroutines once the graph is frozen.
package write

import "errors"

// ErrIO is fatal: a filesystem operation (read, write, mkdir) failed.
var ErrIO = errors.New("write: I/O failure")
