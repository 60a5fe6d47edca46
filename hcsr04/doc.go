// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hcsr04 measures distances with an HC-SR04 ultrasonic sensor
// driven by an FTDI adapter in MPSSE mode.
//
// Each cycle pulses the sensor trigger line through a GPIO command, then
// asks the adapter to sample the echo line at a fixed rate into a
// Waveform. The echo pulse is located in the packed samples and its width
// converted into meters with a calibration constant.
package hcsr04 // import "github.com/go-lpc/sonar/hcsr04"
