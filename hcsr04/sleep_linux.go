// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux

package hcsr04

import (
	"time"

	"golang.org/x/sys/unix"
)

// nanosleep suspends the calling thread for d.
// The trigger width is a protocol requirement of the sensor: this is a real
// sleep and never a spin loop.
func nanosleep(d time.Duration) {
	ts := unix.NsecToTimespec(d.Nanoseconds())
	for {
		err := unix.Nanosleep(&ts, &ts)
		if err != unix.EINTR {
			return
		}
	}
}
