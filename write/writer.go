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
	"fmt"
	"path"
	"runtime"

	"github.com/pterm/pterm"
	"golang.org/x/sync/errgroup"

	"bennypowers.dev/webxtract/graph"
	"bennypowers.dev/webxtract/internal/platform"
	"bennypowers.dev/webxtract/transform"
)

// Writer dispatches every non-Omit graph node to the appropriate
// transformer (or a byte-copy) and writes the result under OutputDir.
type Writer struct {
	FS        platform.FileSystem
	Graph     *graph.Graph
	OutputDir string
	CSS       *transform.CSSTransformer
	JS        *transform.JSTransformer

	// Sequential forces single-threaded dispatch, for reproducible
	// debugging and for hosts where goroutine scheduling is undesirable.
	Sequential bool

	// Progress, if set, is advanced by one for every node written. Left
	// nil in tests; the CLI wires in a pterm progress bar.
	Progress *pterm.ProgressbarPrinter
}

// WriteAll walks every non-Omit node and writes its transformed (or
// copied) content under w.OutputDir, fanning the work out across a
// bounded goroutine pool unless Sequential is set.
func (w *Writer) WriteAll() error {
	nodes := w.Graph.Nodes()

	limit := runtime.NumCPU()
	if w.Sequential {
		limit = 1
	}

	g := new(errgroup.Group)
	g.SetLimit(limit)

	for _, n := range nodes {
		n := n
		if n.Destination.Kind == graph.DestOmit {
			continue
		}
		g.Go(func() error {
			err := w.writeNode(n)
			if w.Progress != nil {
				w.Progress.Increment()
			}
			return err
		})
	}
	return g.Wait()
}

func (w *Writer) writeNode(n *graph.Node) error {
	destPath, ok := graph.DestinationPath(n)
	if !ok {
		return nil
	}
	outPath := path.Join(w.OutputDir, destPath)
	if err := w.FS.MkdirAll(path.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("%w: creating parent dir for %s: %v", ErrIO, outPath, err)
	}

	switch n.Kind {
	case graph.ComponentRoot, graph.Script:
		return w.writeScript(n, destPath, outPath)
	case graph.Stylesheet:
		return w.writeStylesheet(n, outPath)
	default:
		return w.writeOpaque(n, outPath)
	}
}

func (w *Writer) writeScript(n *graph.Node, destPath, outPath string) error {
	source, err := w.FS.ReadFile(n.Path)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %v", ErrIO, n.Path, err)
	}

	importReplacements := w.Graph.ReplacementMap(n.Path)

	var stylesheetInlines map[string]string
	if n.Kind == graph.ComponentRoot {
		stylesheetInlines, err = w.inlineStylesheets(n, destPath)
		if err != nil {
			return err
		}
	}

	transformed, err := w.JS.Transform(string(source), importReplacements, stylesheetInlines)
	if err != nil {
		return err
	}

	if err := w.FS.WriteFile(outPath, []byte(transformed), 0o644); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrIO, outPath, err)
	}
	return nil
}

// inlineStylesheets runs the CSS Transformer over every stylesheet
// still destined for Omit from n, computing that stylesheet's own
// url()/@import replacements relative to n's destination-path rather
// than the stylesheet's own (the stylesheet is never written as a
// file, so it has no destination-path of its own to be relative to).
func (w *Writer) inlineStylesheets(n *graph.Node, destPath string) (map[string]string, error) {
	edges := w.Graph.OmitOutEdges(n.Path)
	if len(edges) == 0 {
		return nil, nil
	}

	out := make(map[string]string, len(edges))
	for _, e := range edges {
		target, ok := w.Graph.Get(e.To)
		if !ok {
			continue
		}
		source, err := w.FS.ReadFile(target.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrIO, target.Path, err)
		}
		replacements := w.Graph.ReplacementMapFrom(target.Path, destPath)
		transformed, err := w.CSS.Transform(string(source), replacements)
		if err != nil {
			return nil, err
		}
		out[e.ImportText] = transformed
	}
	return out, nil
}

func (w *Writer) writeStylesheet(n *graph.Node, outPath string) error {
	source, err := w.FS.ReadFile(n.Path)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %v", ErrIO, n.Path, err)
	}
	replacements := w.Graph.ReplacementMap(n.Path)
	transformed, err := w.CSS.Transform(string(source), replacements)
	if err != nil {
		return err
	}
	if err := w.FS.WriteFile(outPath, []byte(transformed), 0o644); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrIO, outPath, err)
	}
	return nil
}

func (w *Writer) writeOpaque(n *graph.Node, outPath string) error {
	source, err := w.FS.ReadFile(n.Path)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %v", ErrIO, n.Path, err)
	}
	if err := w.FS.WriteFile(outPath, source, 0o644); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrIO, outPath, err)
	}
	return nil
}
