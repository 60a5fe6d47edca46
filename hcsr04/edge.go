// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hcsr04

import (
	"fmt"
)

// Window is the echo pulse located in a waveform, in samples.
// Start is the first high sample, End the last one.
type Window struct {
	Start int
	End   int
}

// Width returns the number of samples between both edges.
func (w Window) Width() int { return w.End - w.Start }

func (w Window) String() string {
	return fmt.Sprintf("%d-%d", w.Start, w.End)
}

// LocateEdges scans a fully captured waveform for the echo pulse.
//
// Within a byte, the sample offset is the index of the highest set bit
// (see hsb), for both edges.
//
// A pulse starting at sample 0 is reported as ErrNoPulseStart, like a
// waveform without any high sample.
// TODO: sample 0 is a valid rising edge. Report it once callers stop
// treating Start == 0 as "no pulse".
func LocateEdges(p []byte) (Window, error) {
	var (
		win = Window{}
		beg = -1
	)

	for i, b := range p {
		if b == 0 {
			continue
		}
		beg = i
		win.Start = i*8 + hsb(b)
		break
	}
	if beg < 0 || win.Start == 0 {
		return win, ErrNoPulseStart
	}

	// bytes at or before beg can only yield End <= Start.
	for i := len(p) - 1; i > beg; i-- {
		b := p[i]
		if b == 0 {
			continue
		}
		win.End = i*8 + hsb(b)
		return win, nil
	}

	return win, ErrNoPulseEnd
}

// hsb returns the number of right shifts needed to clear b,
// minus one: the index of the highest set bit of b.
// hsb returns 0 for b == 0.
func hsb(b byte) int {
	n := 0
	for b >>= 1; b != 0; b >>= 1 {
		n++
	}
	return n
}
