// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sonar

import (
	"runtime/debug"
	"testing"
)

func TestVersionOf(t *testing.T) {
	const root = "github.com/go-lpc/sonar"
	dep := func(m debug.Module) *debug.BuildInfo {
		return &debug.BuildInfo{
			Deps: []*debug.Module{
				{Path: "golang.org/x/sys", Version: "v0.7.0", Sum: "h1:sys"},
				&m,
			},
		}
	}

	for _, tc := range []struct {
		name string
		info *debug.BuildInfo
		vers string
		sum  string
	}{
		{
			name: "nil",
		},
		{
			name: "no-dep",
			info: &debug.BuildInfo{},
		},
		{
			name: "plain",
			info: dep(debug.Module{Path: root, Version: "v0.1.0", Sum: "h1:sonar"}),
			vers: "v0.1.0",
			sum:  "h1:sonar",
		},
		{
			name: "replace-path-version",
			info: dep(debug.Module{
				Path: root, Version: "v0.1.0",
				Replace: &debug.Module{Path: "example.org/sonar", Version: "v0.2.0", Sum: "h1:fork"},
			}),
			vers: "example.org/sonar v0.2.0",
			sum:  "h1:fork",
		},
		{
			name: "replace-version",
			info: dep(debug.Module{
				Path: root, Version: "v0.1.0",
				Replace: &debug.Module{Version: "v0.3.0", Sum: "h1:v3"},
			}),
			vers: "v0.3.0",
			sum:  "h1:v3",
		},
		{
			name: "replace-path",
			info: dep(debug.Module{
				Path: root, Version: "v0.1.0",
				Replace: &debug.Module{Path: "../sonar", Sum: "h1:local"},
			}),
			vers: "../sonar",
			sum:  "h1:local",
		},
		{
			name: "replace-empty",
			info: dep(debug.Module{
				Path: root, Version: "v0.1.0",
				Replace: &debug.Module{},
			}),
			vers: "v0.1.0*",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			vers, sum := versionOf(tc.info)
			if vers != tc.vers {
				t.Fatalf("invalid version: got=%q, want=%q", vers, tc.vers)
			}
			if sum != tc.sum {
				t.Fatalf("invalid sum: got=%q, want=%q", sum, tc.sum)
			}
		})
	}
}
