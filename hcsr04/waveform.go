// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hcsr04

import (
	"io"
)

// Waveform is a fixed-capacity buffer of packed echo samples,
// 8 samples per byte.
// The capacity never changes: a partial capture is described by the
// number of filled bytes, not by a shorter buffer.
type Waveform struct {
	p []byte
	c int
}

// NewWaveform returns a zero-filled waveform holding n bytes of samples.
func NewWaveform(n int) *Waveform {
	return &Waveform{p: make([]byte, n)}
}

// Write appends p at the current fill offset.
// Write returns io.EOF once the waveform is full.
//
// Write is the entry point to replay a recorded waveform offline;
// live captures are filled by the sampler.
func (w *Waveform) Write(p []byte) (int, error) {
	if w.c >= len(w.p) {
		return 0, io.EOF
	}
	n := copy(w.p[w.c:], p)
	w.c += n
	return n, nil
}

// Reset zero-fills the waveform and rewinds its fill offset.
func (w *Waveform) Reset() {
	for i := range w.p {
		w.p[i] = 0
	}
	w.c = 0
}

func (w *Waveform) Len() int { return w.c }
func (w *Waveform) Cap() int { return len(w.p) }
func (w *Waveform) Full() bool { return w.c == len(w.p) }
func (w *Waveform) Samples() int { return 8 * len(w.p) }

// Bytes returns the filled part of the waveform.
func (w *Waveform) Bytes() []byte { return w.p[:w.c] }

// Raw returns the whole waveform, filled or not.
func (w *Waveform) Raw() []byte { return w.p }

// free returns the unfilled tail of the waveform.
func (w *Waveform) free() []byte { return w.p[w.c:] }
