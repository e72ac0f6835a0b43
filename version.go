// Copyright ©2026 The dgemm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dgemm

import (
	"fmt"
	"runtime/debug"
)

const root = "github.com/LynnColeArt/dgemm"

// Version returns the module version and checksum, and the version of the
// gonum module backing the reference kernel. The returned values are only
// valid in binaries built with module support.
//
// The exact version format returned by Version may change in future.
func Version() (version, sum, gonum string) {
	b, ok := debug.ReadBuildInfo()
	if !ok {
		return "", "", ""
	}
	if b.Main.Path == root {
		version, sum = b.Main.Version, b.Main.Sum
	}
	for _, m := range b.Deps {
		switch m.Path {
		case root:
			version, sum = moduleVersion(m)
		case "gonum.org/v1/gonum":
			gonum, _ = moduleVersion(m)
		}
	}
	return version, sum, gonum
}

func moduleVersion(m *debug.Module) (string, string) {
	if m.Replace != nil {
		switch {
		case m.Replace.Version != "" && m.Replace.Path != "":
			return fmt.Sprintf("%s=>%s %s", m.Version, m.Replace.Path, m.Replace.Version), m.Replace.Sum
		case m.Replace.Version != "":
			return fmt.Sprintf("%s=>%s", m.Version, m.Replace.Version), m.Replace.Sum
		case m.Replace.Path != "":
			return fmt.Sprintf("%s=>%s", m.Version, m.Replace.Path), m.Replace.Sum
		default:
			return m.Version + "*", m.Sum + "*"
		}
	}
	return m.Version, m.Sum
}
