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

// Package version exposes build-time version information, set via
// -ldflags at release build time and falling back to Go's embedded
// module build info otherwise.
package version

import "runtime/debug"

// version is overridden at release build time via:
//
//	-ldflags "-X bennypowers.dev/webxtract/internal/version.version=v1.2.3"
var version = "dev"

// BuildInfo is the shape printed by `webxtract version --output json`.
type BuildInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	GoVersion string `json:"goVersion"`
}

// GetVersion returns the release version, or "dev" plus the VCS
// revision when running an unreleased build.
func GetVersion() string {
	if version != "dev" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if rev := settingValue(info, "vcs.revision"); rev != "" {
			if len(rev) > 12 {
				rev = rev[:12]
			}
			return "dev+" + rev
		}
	}
	return version
}

// GetBuildInfo assembles the full version/commit/date/toolchain record.
func GetBuildInfo() BuildInfo {
	b := BuildInfo{Version: GetVersion()}
	if info, ok := debug.ReadBuildInfo(); ok {
		b.Commit = settingValue(info, "vcs.revision")
		b.Date = settingValue(info, "vcs.time")
		b.GoVersion = info.GoVersion
	}
	return b
}

func settingValue(info *debug.BuildInfo, key string) string {
	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}
