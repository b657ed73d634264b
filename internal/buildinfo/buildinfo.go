// seehuhn.de/go/facturx - embed and extract XML in hybrid PDF/A-3 files
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package buildinfo reports the version of this module, as recorded by the
// Go toolchain in the running binary.
package buildinfo

import (
	"runtime/debug"
)

// ModulePath is the import path of this module.
const ModulePath = "seehuhn.de/go/facturx"

// Version returns the version of this module.
//
// If the module is a dependency of the main program, the version from the
// dependency list is used.  Otherwise the module version or, for
// development builds, the VCS revision of the main module is returned.
// The result is "devel" if no version information is available.
func Version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "devel"
	}

	for _, dep := range info.Deps {
		if dep.Path != ModulePath {
			continue
		}
		if dep.Replace != nil && dep.Replace.Version != "" {
			return dep.Replace.Version
		}
		if dep.Version != "" {
			return dep.Version
		}
	}

	if info.Main.Path != ModulePath {
		return "devel"
	}
	version := info.Main.Version
	if version != "" && version != "(devel)" {
		return version
	}

	// fall back to VCS revision
	var rev string
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if rev == "" {
		return "devel"
	}
	if len(rev) > 8 {
		rev = rev[:8]
	}
	if dirty {
		rev += "+dirty"
	}
	return rev
}

// Producer returns the value used for the /Producer and /Creator entries
// of generated PDF files, e.g. "seehuhn.de/go/facturx v0.1.0".
func Producer() string {
	return ModulePath + " " + Version()
}

// Short returns a short version string for a CLI tool, e.g.
// "facturx (seehuhn.de/go/facturx v0.1.0)".
func Short(toolName string) string {
	return toolName + " (" + Producer() + ")"
}
