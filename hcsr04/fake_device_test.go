// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hcsr04

import (
	"io"
	"sync"
	"time"

	"github.com/ziutek/ftdi"
)

type ierr struct {
	n int
	e error
}

// failingRW replays a stack of read/write results.
type failingRW struct {
	rs []ierr
	ws []ierr
}

func (rw *failingRW) Read(p []byte) (int, error) {
	i := len(rw.rs)
	rs := rw.rs[i-1]
	rw.rs = rw.rs[:i-1]
	return rs.n, rs.e
}

func (rw *failingRW) Write(p []byte) (int, error) {
	i := len(rw.ws)
	ws := rw.ws[i-1]
	rw.ws = rw.ws[:i-1]
	return ws.n, ws.e
}

// fakeSensor emulates an adapter wired to a sensor: every capture command
// makes the echo waveform available, chunk bytes per read.
type fakeSensor struct {
	mu     sync.Mutex
	echo   []byte // waveform returned for each capture
	chunk  int    // max number of bytes per read
	cmds   []Frame
	stream []byte
}

func (fs *fakeSensor) Write(p []byte) (int, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	var f Frame
	copy(f[:], p)
	fs.cmds = append(fs.cmds, f)
	if f[0] == opReadBytes {
		n := (int(f[1]) | int(f[2])<<8) + 1
		fs.stream = make([]byte, n)
		copy(fs.stream, fs.echo)
	}
	return len(p), nil
}

func (fs *fakeSensor) Read(p []byte) (int, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	n := len(fs.stream)
	if n > fs.chunk {
		n = fs.chunk
	}
	n = copy(p, fs.stream[:n])
	fs.stream = fs.stream[n:]
	return n, nil
}

func (fs *fakeSensor) frames() []Frame {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]Frame(nil), fs.cmds...)
}

// emptySource never has any sample available.
type emptySource struct{ n int }

func (src *emptySource) Read(p []byte) (int, error) {
	src.n++
	return 0, nil
}

type fakeDevice struct {
	buf   io.ReadWriter
	calls []string
	fail  string
}

func (dev *fakeDevice) call(name string) error {
	dev.calls = append(dev.calls, name)
	if name == dev.fail {
		return io.ErrUnexpectedEOF
	}
	return nil
}

func (dev *fakeDevice) Reset() error { return dev.call("reset") }
func (dev *fakeDevice) SetBitmode(iomask byte, mode ftdi.Mode) error {
	return dev.call("bitmode")
}
func (dev *fakeDevice) SetLatencyTimer(lt int) error { return dev.call("latency") }
func (dev *fakeDevice) SetWriteChunkSize(cs int) error { return dev.call("wchunk") }
func (dev *fakeDevice) SetReadChunkSize(cs int) error { return dev.call("rchunk") }
func (dev *fakeDevice) PurgeBuffers() error { return dev.call("purge") }
func (dev *fakeDevice) Read(p []byte) (int, error) { return dev.buf.Read(p) }
func (dev *fakeDevice) Write(p []byte) (int, error) { return dev.buf.Write(p) }
func (dev *fakeDevice) Close() error { return nil }

func ftdiOpenTest(vid, pid uint16) (ftdiDevice, error) {
	return &fakeDevice{buf: &fakeSensor{chunk: 4096}}, nil
}

// recordSleep replaces the trigger sleep for the duration of a test.
func recordSleep(ds *[]time.Duration) func() {
	sleep = func(d time.Duration) { *ds = append(*ds, d) }
	return func() { sleep = nanosleep }
}

var (
	_ ftdiDevice = (*fakeDevice)(nil)
)
