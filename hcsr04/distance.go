// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hcsr04

import (
	"fmt"
	"time"
)

const (
	// DefaultCalibration is the number of samples per meter of distance,
	// corrected by hand against a tape measure.
	DefaultCalibration = 31750

	// TheoreticalCalibration is the number of samples per meter derived
	// from the 6MHz sampling clock and the datasheet formula cm = us/58:
	//  m = us/5800 = (samps/6e6)*1e6/5800 = samps/34800
	TheoreticalCalibration = 34800
)

// Distance converts the width of an echo pulse into meters, using calib
// samples per meter.
func Distance(w Window, calib float64) float64 {
	return float64(w.End-w.Start) / calib
}

// Measurement is the outcome of one sampling cycle.
type Measurement struct {
	Cycle  uint64    // cycle number, starting at 1
	Time   time.Time // time the trigger was sent
	Window Window    // echo pulse, in samples
	Dist   float64   // distance, in meters
	Err    error     // cycle failure, if any
}

// OK reports whether the cycle produced a distance.
func (m Measurement) OK() bool { return m.Err == nil }

// InMeters returns the measured distance in meters.
func (m Measurement) InMeters() float64 { return m.Dist }

// InCentimeters returns the measured distance in centimeters.
func (m Measurement) InCentimeters() float64 { return m.Dist * 100 }

// InInches returns the measured distance in inches.
func (m Measurement) InInches() float64 { return m.Dist * 100 / 2.54 }

func (m Measurement) String() string {
	if m.Err != nil {
		return fmt.Sprintf("cycle=%d error=%v", m.Cycle, m.Err)
	}
	return fmt.Sprintf("cycle=%d pulse=%v (%d) dist=%f", m.Cycle, m.Window, m.Window.Width(), m.Dist)
}
