// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hcsr04

import (
	"errors"
	"io"
)

var (
	// ErrTransport is reported when a command frame could not be
	// transmitted to the adapter, or when reading samples failed.
	ErrTransport = errors.New("hcsr04: transport error")

	// ErrTimeout is reported when the waveform could not be filled before
	// the capture deadline. Usually the echo never came back: the object
	// is out of range or absent.
	ErrTimeout = errors.New("hcsr04: capture deadline exceeded")

	// ErrNoPulseStart is reported when the waveform holds no rising edge.
	ErrNoPulseStart = errors.New("hcsr04: no pulse detected")

	// ErrNoPulseEnd is reported when an echo started but never returned to
	// zero within the capture window.
	ErrNoPulseEnd = errors.New("hcsr04: no pulse end detected")
)

// TransportError describes a failed exchange with the adapter.
type TransportError struct {
	Op  string // operation that failed (e.g. "write trigger-high frame")
	Err error  // underlying error
}

func (e *TransportError) Error() string {
	return "hcsr04: could not " + e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is makes every TransportError match ErrTransport.
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// writeFrame sends a whole frame, turning short writes into transport errors.
func writeFrame(w io.Writer, op string, f Frame) error {
	n, err := w.Write(f[:])
	switch {
	case err != nil:
		return &TransportError{Op: op, Err: err}
	case n != len(f):
		return &TransportError{Op: op, Err: io.ErrShortWrite}
	}
	return nil
}

// Status returns a short name for the failure kind carried by err.
func Status(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrNoPulseStart):
		return "no-pulse-start"
	case errors.Is(err, ErrNoPulseEnd):
		return "no-pulse-end"
	default:
		return "error"
	}
}
