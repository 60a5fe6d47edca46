// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hcsr04

import (
	"fmt"
	"io"
	"time"

	"golang.org/x/xerrors"
)

const (
	opSetBitsLow = 0x80 // set value and direction of the ADBUS[0:7] lines
	opReadBytes  = 0x2c // clock bytes in, -ve edge, LSB first

	trigMask = 0x10 // GPIOL0: trigger line, the only output
	trigHigh = 0xff // drive outputs high
	trigLow  = 0x00 // drive outputs low

	// MaxCaptureSize is the largest number of bytes one capture command
	// can request.
	MaxCaptureSize = 0x10000
)

// Frame is a 3-byte MPSSE command.
type Frame [3]byte

func (f Frame) String() string {
	return fmt.Sprintf("[0x%02x 0x%02x 0x%02x]", f[0], f[1], f[2])
}

func gpioFrame(value, dir byte) Frame {
	return Frame{opSetBitsLow, value, dir}
}

// captureFrame returns the command clocking n bytes of samples in.
func captureFrame(n int) (Frame, error) {
	if n < 1 || n > MaxCaptureSize {
		return Frame{}, xerrors.Errorf("hcsr04: invalid capture size %d (want 1..%d)", n, MaxCaptureSize)
	}
	v := n - 1
	return Frame{opReadBytes, byte(v), byte(v >> 8)}, nil
}

var sleep = nanosleep

// trigger emits the trigger pulse: trigger line high, wait, trigger line low.
func trigger(w io.Writer, width time.Duration) error {
	err := writeFrame(w, "write trigger-high frame", gpioFrame(trigHigh, trigMask))
	if err != nil {
		return err
	}

	sleep(width)

	return writeFrame(w, "write trigger-low frame", gpioFrame(trigLow, trigMask))
}

// capture asks the adapter to stream n bytes of samples of the echo line.
func capture(w io.Writer, n int) error {
	f, err := captureFrame(n)
	if err != nil {
		return err
	}
	return writeFrame(w, "write capture frame", f)
}
