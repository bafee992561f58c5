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

// Package graph implements the typed, directed dependency graph: file
// nodes classified by role and output destination, import edges that
// preserve original specifier text, and the replacement-map computation
// the Output Writer uses to rewrite each file's imports.
package graph

import "fmt"

// Kind classifies the role a file plays in the source tree.
type Kind int

const (
	ComponentRoot Kind = iota
	Script
	Stylesheet
	Opaque
)

func (k Kind) String() string {
	switch k {
	case ComponentRoot:
		return "ComponentRoot"
	case Script:
		return "Script"
	case Stylesheet:
		return "Stylesheet"
	case Opaque:
		return "Opaque"
	default:
		return "Unknown"
	}
}

// DestinationKind classifies where a node ends up in the output layout.
type DestinationKind int

const (
	DestComponent DestinationKind = iota
	DestGlobalStyles
	DestAsset
	DestDependency
	DestOmit
)

// Destination pairs a DestinationKind with the component name when the
// kind is DestComponent.
type Destination struct {
	Kind DestinationKind
	// Component is only meaningful when Kind == DestComponent.
	Component string
}

func (d Destination) String() string {
	switch d.Kind {
	case DestComponent:
		return fmt.Sprintf("Component(%s)", d.Component)
	case DestGlobalStyles:
		return "GlobalStyles"
	case DestAsset:
		return "Asset"
	case DestDependency:
		return "Dependency"
	case DestOmit:
		return "Omit"
	default:
		return "Unknown"
	}
}

func NewComponentDestination(name string) Destination {
	return Destination{Kind: DestComponent, Component: name}
}

var (
	GlobalStyles = Destination{Kind: DestGlobalStyles}
	Asset        = Destination{Kind: DestAsset}
	Dependency   = Destination{Kind: DestDependency}
	Omit         = Destination{Kind: DestOmit}
)
