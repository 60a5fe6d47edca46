// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hcsr04

import (
	"time"
)

const (
	// DefaultBufferSize is the number of bytes of samples captured per cycle.
	DefaultBufferSize = 0x10000
	// DefaultTimeout is the capture deadline.
	DefaultTimeout = 1 * time.Second
	// DefaultPulseWidth is the width of the trigger pulse.
	DefaultPulseWidth = 10 * time.Microsecond
	// DefaultPollDelay is the pause after an empty read during a capture.
	DefaultPollDelay = 50 * time.Microsecond
)

type config struct {
	calib   float64       // samples per meter
	size    int           // waveform size, in bytes
	timeout time.Duration // capture deadline
	width   time.Duration // trigger pulse width
	poll    time.Duration // pause after an empty read
}

func newConfig() config {
	return config{
		calib:   DefaultCalibration,
		size:    DefaultBufferSize,
		timeout: DefaultTimeout,
		width:   DefaultPulseWidth,
		poll:    DefaultPollDelay,
	}
}

// Option configures a Sampler.
type Option func(*config)

// WithCalibration sets the number of samples per meter.
func WithCalibration(v float64) Option {
	return func(cfg *config) {
		cfg.calib = v
	}
}

// WithBufferSize sets the number of bytes of samples captured per cycle.
func WithBufferSize(n int) Option {
	return func(cfg *config) {
		cfg.size = n
	}
}

// WithTimeout sets the capture deadline.
func WithTimeout(d time.Duration) Option {
	return func(cfg *config) {
		cfg.timeout = d
	}
}

// WithPulseWidth sets the width of the trigger pulse.
func WithPulseWidth(d time.Duration) Option {
	return func(cfg *config) {
		cfg.width = d
	}
}

// WithPollDelay sets the pause after an empty read. Zero disables it.
func WithPollDelay(d time.Duration) Option {
	return func(cfg *config) {
		cfg.poll = d
	}
}
