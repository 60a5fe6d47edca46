// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hcsr04

import (
	"bytes"
	"time"

	"github.com/go-daq/tdaq"
	"golang.org/x/xerrors"
)

// Server exposes a sampler as a TDAQ process.
//
//   - /config scans the USB bus,
//   - /init opens the adapter,
//   - /start, /stop drive the sampling loop,
//   - /distance publishes measurements.
type Server struct {
	vid  uint16
	pid  uint16
	opts []Option

	devs []DeviceInfo
	dev  *Device
	smp  *Sampler

	n    int // number of measurements in the current run, written by Run
	data chan Measurement
}

// NewServer creates a TDAQ server for the FTDI adapter (vid, pid).
func NewServer(vid, pid uint16, opts ...Option) *Server {
	return &Server{
		vid:  vid,
		pid:  pid,
		opts: opts,
	}
}

func (srv *Server) scanDevices(ctx tdaq.Context) error {
	devs, err := ListDevices(srv.vid)
	if err != nil {
		return xerrors.Errorf("could not build list of connected FTDI devices: %w", err)
	}

	srv.devs = srv.devs[:0]
	for _, dev := range devs {
		if dev.ProdID != srv.pid {
			continue
		}
		ctx.Msg.Infof("found FTDI device 0x%x (serial=%q)", dev.ProdID, dev.Serial)
		srv.devs = append(srv.devs, dev)
	}

	if len(srv.devs) == 0 {
		return xerrors.Errorf("no FTDI device with vid=0x%x, pid=0x%x", srv.vid, srv.pid)
	}

	return nil
}

func (srv *Server) close() error {
	if srv.dev == nil {
		return nil
	}
	err := srv.dev.Close()
	srv.dev = nil
	srv.smp = nil
	return err
}

func (srv *Server) OnConfig(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /config command...")
	err := srv.scanDevices(ctx)
	if err != nil {
		ctx.Msg.Errorf("could not scan devices: %+v", err)
		return xerrors.Errorf("could not scan devices: %w", err)
	}

	return nil
}

func (srv *Server) OnInit(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /init command...")
	if srv.dev != nil {
		ctx.Msg.Errorf("FTDI device already opened")
		return xerrors.Errorf("FTDI device already opened")
	}

	dev, err := Open(srv.vid, srv.pid)
	if err != nil {
		ctx.Msg.Errorf("could not open FTDI device: %+v", err)
		return xerrors.Errorf("could not open FTDI device: %w", err)
	}

	smp, err := NewSampler(dev, ctx.Msg, srv.opts...)
	if err != nil {
		_ = dev.Close()
		ctx.Msg.Errorf("could not create sampler: %+v", err)
		return xerrors.Errorf("could not create sampler: %w", err)
	}

	srv.dev = dev
	srv.smp = smp
	srv.data = make(chan Measurement, 1024)
	srv.n = 0

	return nil
}

func (srv *Server) OnReset(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /reset command...")
	err := srv.close()
	if err != nil {
		return xerrors.Errorf("could not close FTDI device: %w", err)
	}
	return nil
}

func (srv *Server) OnStart(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /start command...")
	if srv.smp == nil {
		return xerrors.Errorf("could not start run: device not initialized")
	}
	srv.n = 0
	return nil
}

func (srv *Server) OnStop(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	// tdaq waits for the run handle to return before invoking /stop:
	// Run no longer updates n.
	n := srv.n
	ctx.Msg.Debugf("received /stop command... -> n=%d", n)
	return nil
}

func (srv *Server) OnQuit(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /quit command...")
	err := srv.close()
	if err != nil {
		return xerrors.Errorf("could not close FTDI device: %w", err)
	}
	return nil
}

// Distance publishes the next measurement on its output port.
func (srv *Server) Distance(ctx tdaq.Context, dst *tdaq.Frame) error {
	select {
	case <-ctx.Ctx.Done():
		dst.Body = nil
		return nil
	case m := <-srv.data:
		raw, err := m.MarshalTDAQ()
		if err != nil {
			return xerrors.Errorf("could not encode measurement %d: %w", m.Cycle, err)
		}
		dst.Body = raw
	}
	return nil
}

// Run runs the sampling loop until the run is stopped.
func (srv *Server) Run(ctx tdaq.Context) error {
	if srv.smp == nil {
		return xerrors.Errorf("could not run: device not initialized")
	}
	return srv.smp.Run(ctx.Ctx, func(m Measurement) {
		srv.n++
		select {
		case srv.data <- m:
		default:
			ctx.Msg.Errorf("dropping measurement %d: output queue full", m.Cycle)
		}
	})
}

// MarshalTDAQ encodes the measurement for a TDAQ frame.
// Failures are encoded by their Status name only.
func (m Measurement) MarshalTDAQ() ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := tdaq.NewEncoder(buf)
	enc.WriteU64(m.Cycle)
	enc.WriteI64(m.Time.UnixNano())
	enc.WriteI64(int64(m.Window.Start))
	enc.WriteI64(int64(m.Window.End))
	enc.WriteF64(m.Dist)
	enc.WriteStr(Status(m.Err))
	return buf.Bytes(), enc.Err()
}

// UnmarshalTDAQ decodes a measurement from a TDAQ frame.
func (m *Measurement) UnmarshalTDAQ(p []byte) error {
	dec := tdaq.NewDecoder(bytes.NewReader(p))
	m.Cycle = dec.ReadU64()
	m.Time = time.Unix(0, dec.ReadI64()).UTC()
	m.Window.Start = int(dec.ReadI64())
	m.Window.End = int(dec.ReadI64())
	m.Dist = dec.ReadF64()
	status := dec.ReadStr()
	if err := dec.Err(); err != nil {
		return xerrors.Errorf("could not decode measurement: %w", err)
	}
	switch status {
	case "ok":
		m.Err = nil
	case "transport":
		m.Err = ErrTransport
	case "timeout":
		m.Err = ErrTimeout
	case "no-pulse-start":
		m.Err = ErrNoPulseStart
	case "no-pulse-end":
		m.Err = ErrNoPulseEnd
	default:
		m.Err = xerrors.Errorf("hcsr04: cycle failed (%s)", status)
	}
	return nil
}
