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

package graph

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

var ErrUnknownEndpoint = errors.New("graph: edge endpoint has not been added")

// Node is a file in the dependency graph. Kind is immutable once set;
// Destination may be upgraded from Omit to Dependency exactly once, by
// the edge-insertion rule.
type Node struct {
	Path        string
	Kind        Kind
	Destination Destination

	// InEdges is the ordered list of source paths that import this
	// node, kept only for "who pulled this file in" diagnostics.
	InEdges []string

	// seq makes iteration and cycle_check order deterministic across
	// runs, independent of Go's randomized map iteration.
	seq int
}

// Edge is a directed import from From to To, carrying the exact
// specifier text written in From's source. Parallel edges (same pair,
// different or identical text) are permitted and not deduplicated.
type Edge struct {
	From       string
	To         string
	ImportText string
}

// Graph is the dependency graph. It is not safe for concurrent use:
// construction (Manifest Reader -> URL Resolver -> Graph Builder) is
// single-threaded per spec, and the graph is frozen before the Output
// Writer may parallelize per-node transforms.
type Graph struct {
	nodes    map[string]*Node
	outEdges map[string][]*Edge
	nextSeq  int
}

func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		outEdges: make(map[string][]*Edge),
	}
}

// AddFile is idempotent: if path is already present, the existing node
// is returned unchanged, preserving its original kind and destination.
func (g *Graph) AddFile(p string, kind Kind, destination Destination) *Node {
	if n, ok := g.nodes[p]; ok {
		return n
	}
	n := &Node{Path: p, Kind: kind, Destination: destination, seq: g.nextSeq}
	g.nextSeq++
	g.nodes[p] = n
	return n
}

// Get returns the node at path, if any.
func (g *Graph) Get(p string) (*Node, bool) {
	n, ok := g.nodes[p]
	return n, ok
}

// AddEdge adds a directed edge; both endpoints must already exist.
// Applies the edge-insertion rule: a non-ComponentRoot source depending
// on an Omit-destined target promotes that target's destination to
// Dependency, exactly once.
func (g *Graph) AddEdge(from, to, importText string) (*Edge, error) {
	fromNode, ok := g.nodes[from]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEndpoint, from)
	}
	toNode, ok := g.nodes[to]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEndpoint, to)
	}

	if fromNode.Kind != ComponentRoot && toNode.Destination.Kind == DestOmit {
		toNode.Destination = Dependency
	}

	e := &Edge{From: from, To: to, ImportText: importText}
	g.outEdges[from] = append(g.outEdges[from], e)
	toNode.InEdges = append(toNode.InEdges, from)
	return e, nil
}

// OutEdges returns the out-edges of path in insertion order.
func (g *Graph) OutEdges(p string) []*Edge {
	return g.outEdges[p]
}

// OmitOutEdges returns the out-edges of path whose target's destination
// is still Omit — the stylesheets slated for inlining.
func (g *Graph) OmitOutEdges(p string) []*Edge {
	var out []*Edge
	for _, e := range g.outEdges[p] {
		target, ok := g.nodes[e.To]
		if ok && target.Destination.Kind == DestOmit {
			out = append(out, e)
		}
	}
	return out
}

// DestinationPath returns the output-tree-relative path for a node, or
// ("", false) for a node destined for Omit (no file is ever written).
func DestinationPath(n *Node) (string, bool) {
	basename := path.Base(n.Path)
	switch n.Destination.Kind {
	case DestComponent:
		return path.Join("components", n.Destination.Component, basename), true
	case DestGlobalStyles:
		return path.Join("styles", basename), true
	case DestAsset:
		return path.Join("assets", basename), true
	case DestDependency:
		return path.Join("dependencies", basename), true
	case DestOmit:
		return "", false
	default:
		return "", false
	}
}

// CycleCheck reports whether the graph contains a cycle. Cycles are
// permitted (CSS @import and JS circular modules both occur); this is
// diagnostic only and never aborts a build.
func (g *Graph) CycleCheck() bool {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(g.nodes))

	paths := make([]string, 0, len(g.nodes))
	for p := range g.nodes {
		paths = append(paths, p)
	}
	// Deterministic traversal order, keyed by insertion sequence.
	sortBySeq(g, paths)

	var visit func(p string) bool
	visit = func(p string) bool {
		color[p] = gray
		for _, e := range g.outEdges[p] {
			switch color[e.To] {
			case gray:
				return true
			case white:
				if visit(e.To) {
					return true
				}
			}
		}
		color[p] = black
		return false
	}

	for _, p := range paths {
		if color[p] == white {
			if visit(p) {
				return true
			}
		}
	}
	return false
}

func sortBySeq(g *Graph, paths []string) {
	for i := 1; i < len(paths); i++ {
		for j := i; j > 0 && g.nodes[paths[j-1]].seq > g.nodes[paths[j]].seq; j-- {
			paths[j-1], paths[j] = paths[j], paths[j-1]
		}
	}
}

// ReplacementMap builds the per-file replacement map for F per spec:
// for each out-edge F->T with text t, compute the relative path from
// F's destination-path to T's destination-path, prefixed with "./"
// when it does not already start with "." or "/". Edges to Omit
// targets are excluded. Keyed by original import text: identical texts
// pointing at distinct targets collapse onto whichever is seen last.
func (g *Graph) ReplacementMap(f string) map[string]string {
	fNode, ok := g.nodes[f]
	if !ok {
		return nil
	}
	fDest, ok := DestinationPath(fNode)
	if !ok {
		return nil
	}
	return g.ReplacementMapFrom(f, fDest)
}

// ReplacementMapFrom is ReplacementMap computed as though F's own
// destination-path were fromDestPath instead of F's actual one. The
// Output Writer uses this for an Omit-destined stylesheet being
// inlined into a component: the stylesheet's own url()/@import targets
// must resolve relative to the *component's* destination-path, since
// the stylesheet itself is never materialized as a file.
func (g *Graph) ReplacementMapFrom(f string, fromDestPath string) map[string]string {
	fDir := path.Dir(fromDestPath)

	out := make(map[string]string)
	for _, e := range g.outEdges[f] {
		target, ok := g.nodes[e.To]
		if !ok {
			continue
		}
		tDest, ok := DestinationPath(target)
		if !ok {
			continue
		}
		out[e.ImportText] = relativize(fDir, tDest)
	}
	return out
}

// Nodes returns every node in insertion-sequence order, for callers
// (the Output Writer) that need a deterministic full traversal.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].seq > out[j].seq; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// relativize computes a relative path from directory fromDir to file
// target, both expressed as slash-separated, output-tree-relative
// virtual paths (never OS paths — the output tree's separators are
// always "/", regardless of host platform).
func relativize(fromDir, target string) string {
	fromParts := splitClean(fromDir)
	toParts := splitClean(target)

	i := 0
	for i < len(fromParts) && i < len(toParts) && fromParts[i] == toParts[i] {
		i++
	}

	up := len(fromParts) - i
	var rel []string
	for range up {
		rel = append(rel, "..")
	}
	rel = append(rel, toParts[i:]...)

	result := strings.Join(rel, "/")
	if result == "" {
		result = "."
	}
	if !strings.HasPrefix(result, ".") && !strings.HasPrefix(result, "/") {
		result = "./" + result
	}
	return result
}

func splitClean(p string) []string {
	p = path.Clean(p)
	if p == "." || p == "" {
		return nil
	}
	return strings.Split(strings.TrimPrefix(p, "/"), "/")
}
