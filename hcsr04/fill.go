// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hcsr04

import (
	"io"
	"time"

	"golang.org/x/xerrors"
)

// fill reads samples from r into w until w is full or timeout elapsed.
//
// r is expected to be non-blocking: it may return 0 bytes and no error when
// nothing is available yet. Empty reads are followed by a poll delay.
// fill returns the number of filled bytes.
func fill(r io.Reader, w *Waveform, timeout, poll time.Duration) (int, error) {
	start := time.Now()
	for !w.Full() {
		n, err := r.Read(w.free())
		w.c += n
		if err != nil {
			return w.c, &TransportError{Op: "read samples", Err: err}
		}
		if w.Full() {
			break
		}

		if time.Since(start) > timeout {
			return w.c, xerrors.Errorf(
				"hcsr04: could not fill waveform within %v (%d/%d bytes): %w",
				timeout, w.c, w.Cap(), ErrTimeout,
			)
		}

		if n == 0 && poll > 0 {
			time.Sleep(poll)
		}
	}
	return w.c, nil
}
