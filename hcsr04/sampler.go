// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hcsr04

import (
	"context"
	"io"
	"time"

	"github.com/go-daq/tdaq/log"
	"golang.org/x/xerrors"
)

// Sampler repeatedly triggers the sensor and measures the echo.
//
// A Sampler is not safe for concurrent use: cycles run one after the other
// and share a single waveform.
type Sampler struct {
	dev io.ReadWriter
	msg log.MsgStream
	cfg config

	buf   *Waveform
	cycle uint64
}

// NewSampler creates a sampler driving the adapter dev.
// dev must already be configured in MPSSE mode.
func NewSampler(dev io.ReadWriter, msg log.MsgStream, opts ...Option) (*Sampler, error) {
	cfg := newConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	switch {
	case cfg.calib <= 0:
		return nil, xerrors.Errorf("hcsr04: invalid calibration %v", cfg.calib)
	case cfg.size < 1 || cfg.size > MaxCaptureSize:
		return nil, xerrors.Errorf("hcsr04: invalid buffer size %d (want 1..%d)", cfg.size, MaxCaptureSize)
	case cfg.timeout <= 0:
		return nil, xerrors.Errorf("hcsr04: invalid capture timeout %v", cfg.timeout)
	}

	return &Sampler{
		dev: dev,
		msg: msg,
		cfg: cfg,
		buf: NewWaveform(cfg.size),
	}, nil
}

// Waveform returns the waveform of the last cycle.
// It is overwritten by the next cycle.
func (smp *Sampler) Waveform() *Waveform { return smp.buf }

// Cycle runs one full measurement: trigger, capture, decode.
// Failures are reported in the returned measurement.
func (smp *Sampler) Cycle() Measurement {
	smp.cycle++
	m := Measurement{
		Cycle: smp.cycle,
		Time:  time.Now(),
	}

	smp.buf.Reset()
	m.Window, m.Err = smp.measure()
	if m.Err != nil {
		return m
	}

	m.Dist = Distance(m.Window, smp.cfg.calib)
	return m
}

func (smp *Sampler) measure() (Window, error) {
	err := trigger(smp.dev, smp.cfg.width)
	if err != nil {
		return Window{}, err
	}

	err = capture(smp.dev, smp.buf.Cap())
	if err != nil {
		return Window{}, err
	}

	n, err := fill(smp.dev, smp.buf, smp.cfg.timeout, smp.cfg.poll)
	if err != nil {
		return Window{}, err
	}
	smp.msg.Debugf("cycle %d: read %d bytes", smp.cycle, n)

	return LocateEdges(smp.buf.Raw())
}

// Run runs cycles until ctx is canceled, handing each measurement to sink.
// Cancellation is only checked between cycles: an ongoing cycle always
// completes. Run returns nil once ctx is done.
func (smp *Sampler) Run(ctx context.Context, sink func(m Measurement)) error {
	for {
		select {
		case <-ctx.Done():
			smp.msg.Infof("sampling stopped after %d cycles", smp.cycle)
			return nil
		default:
		}

		m := smp.Cycle()
		if m.Err != nil {
			smp.msg.Errorf("cycle %d: %s: %+v", m.Cycle, Status(m.Err), m.Err)
		}
		sink(m)
	}
}
