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

// Package config is the thin shell between the YAML/flag surface and
// the core extraction pipeline: it only names the structured inputs
// (globs, manifest paths, ifdef flags) the core packages already
// expect, and has no opinion on jar-manifest or build-description
// grammar itself.
package config

// WebxtractConfig is the shape of webxtract.yaml / $XDG_CONFIG_HOME/webxtract/config.yaml.
type WebxtractConfig struct {
	ProjectDir string `mapstructure:"projectDir" yaml:"projectDir"`
	ConfigFile string `mapstructure:"configFile" yaml:"configFile"`
	// Output is the directory the extracted tree is written into.
	Output string `mapstructure:"output" yaml:"output"`
	// Components are globs (relative to ProjectDir) of component-root
	// candidate files.
	Components []string `mapstructure:"components" yaml:"components"`
	// GlobalStylesheets are globs seeding Stylesheet nodes with
	// destination GlobalStyles rather than waiting to be discovered as
	// a dependency of some component.
	GlobalStylesheets []string `mapstructure:"globalStylesheets" yaml:"globalStylesheets"`
	// JarManifests are jar-manifest files read by the Manifest Reader.
	JarManifests []string `mapstructure:"jarManifests" yaml:"jarManifests"`
	// BuildDescriptions are moz.build-style files read by the Manifest Reader.
	BuildDescriptions []string `mapstructure:"buildDescriptions" yaml:"buildDescriptions"`
	// Defines overrides the default #ifdef flags used while parsing
	// jar manifests.
	Defines map[string]bool `mapstructure:"defines" yaml:"defines"`
	// Sequential forces single-threaded Output Writer dispatch.
	Sequential bool `mapstructure:"sequential" yaml:"sequential"`
	Debug      bool `mapstructure:"debug" yaml:"debug"`
	Quiet      bool `mapstructure:"quiet" yaml:"quiet"`
}

func (c *WebxtractConfig) Clone() *WebxtractConfig {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Components = cloneSlice(c.Components)
	clone.GlobalStylesheets = cloneSlice(c.GlobalStylesheets)
	clone.JarManifests = cloneSlice(c.JarManifests)
	clone.BuildDescriptions = cloneSlice(c.BuildDescriptions)
	if c.Defines != nil {
		clone.Defines = make(map[string]bool, len(c.Defines))
		for k, v := range c.Defines {
			clone.Defines[k] = v
		}
	}
	return &clone
}

func cloneSlice(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
