// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hcsr04

import (
	"fmt"
	"io"

	"github.com/ziutek/ftdi"
)

const (
	// VendorID is the USB vendor ID of FTDI.
	VendorID = 0x0403
	// ProductID is the USB product ID of the FT232H, found in the
	// C232HM-EDHSL-0 cable.
	ProductID = 0x6014

	mpsseMask = 0xfb // ADBUS2 (TDI) is the echo input
)

type ftdiDevice interface {
	Reset() error

	SetBitmode(iomask byte, mode ftdi.Mode) error
	SetLatencyTimer(lt int) error
	SetWriteChunkSize(cs int) error
	SetReadChunkSize(cs int) error
	PurgeBuffers() error

	io.Writer
	io.Reader
	io.Closer
}

// Device is an FTDI adapter in MPSSE mode, wired to an HC-SR04:
//
//	VCC  - VCC    (red)
//	Trig - GPIOL0 (gray)
//	Echo - TDI    (green)
//	GND  - GND    (black)
//
// Reads never block: they return whatever samples are available.
type Device struct {
	vid uint16     // vendor ID
	pid uint16     // product ID
	ft  ftdiDevice // handle to the FTDI device
}

var (
	ftdiOpen = ftdiOpenImpl
)

func ftdiOpenImpl(vid, pid uint16) (ftdiDevice, error) {
	dev, err := ftdi.OpenFirst(int(vid), int(pid), ftdi.ChannelA)
	return dev, err
}

// Open opens and configures the first FTDI device matching vid and pid.
func Open(vid, pid uint16) (*Device, error) {
	ft, err := ftdiOpen(vid, pid)
	if err != nil {
		return nil, fmt.Errorf("could not open FTDI device (vid=0x%x, pid=0x%x): %w", vid, pid, err)
	}

	dev := &Device{vid: vid, pid: pid, ft: ft}
	err = dev.init()
	if err != nil {
		ft.Close()
		return nil, fmt.Errorf("could not initialize FTDI device (vid=0x%x, pid=0x%x): %w", vid, pid, err)
	}

	return dev, nil
}

func (dev *Device) init() error {
	var err error

	err = dev.ft.Reset()
	if err != nil {
		return fmt.Errorf("could not reset USB: %w", err)
	}

	err = dev.ft.SetLatencyTimer(1)
	if err != nil {
		return fmt.Errorf("could not set latency timer to 1: %w", err)
	}

	err = dev.ft.SetWriteChunkSize(0xffff)
	if err != nil {
		return fmt.Errorf("could not set write chunk-size to 0xffff: %w", err)
	}

	err = dev.ft.SetReadChunkSize(0xffff)
	if err != nil {
		return fmt.Errorf("could not set read chunk-size to 0xffff: %w", err)
	}

	err = dev.ft.PurgeBuffers()
	if err != nil {
		return fmt.Errorf("could not purge USB buffers: %w", err)
	}

	err = dev.ft.SetBitmode(mpsseMask, ftdi.ModeMPSSE)
	if err != nil {
		return fmt.Errorf("could not enable MPSSE mode: %w", err)
	}

	return nil
}

func (dev *Device) Read(p []byte) (int, error)  { return dev.ft.Read(p) }
func (dev *Device) Write(p []byte) (int, error) { return dev.ft.Write(p) }

// Close releases the USB device.
func (dev *Device) Close() error {
	return dev.ft.Close()
}

// DeviceInfo describes an FTDI device found on the USB bus.
type DeviceInfo struct {
	VendorID uint16
	ProdID   uint16
	Serial   string
	Desc     string
}

// ListDevices returns the FT232H and FT232R devices of vendor vid.
func ListDevices(vid uint16) ([]DeviceInfo, error) {
	var devs []DeviceInfo

	add := func(vid, pid uint16) error {
		lst, err := ftdiFindAll(vid, pid)
		if err != nil {
			return fmt.Errorf("could not list FTDI devices (vid=0x%x, pid=0x%x): %w", vid, pid, err)
		}
		for _, dev := range lst {
			devs = append(devs, DeviceInfo{
				VendorID: vid,
				ProdID:   pid,
				Serial:   dev.Serial,
				Desc:     dev.Description,
			})
			dev.Close()
		}
		return nil
	}

	for _, pid := range []uint16{
		0x6001, // usb-1
		0x6014, // usb-2
	} {
		err := add(vid, pid)
		if err != nil {
			return nil, err
		}
	}

	return devs, nil
}

var ftdiFindAll = func(vid, pid uint16) ([]*ftdi.USBDev, error) {
	return ftdi.FindAll(int(vid), int(pid))
}
