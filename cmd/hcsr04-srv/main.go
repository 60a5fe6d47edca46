// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command hcsr04-srv starts a TDAQ server driving an HC-SR04 sensor.
//
// Measurements are published on the "/distance" output end-point.
// The calibration (samples per meter) may be overridden with the
// HCSR04_CALIB environment variable.
package main // import "github.com/go-lpc/sonar/cmd/hcsr04-srv"

import (
	"context"
	"log"
	"os"
	"strconv"

	"github.com/go-daq/tdaq"
	"github.com/go-daq/tdaq/flags"
	"github.com/go-lpc/sonar"
	"github.com/go-lpc/sonar/hcsr04"
)

func main() {
	cmd := flags.New()

	vers, sum := sonar.Version()
	log.Printf("hcsr04-srv version=%q sum=%q", vers, sum)

	var opts []hcsr04.Option
	if v := os.Getenv("HCSR04_CALIB"); v != "" {
		calib, err := strconv.ParseFloat(v, 64)
		if err != nil {
			log.Panicf("could not parse HCSR04_CALIB=%q: %+v", v, err)
		}
		opts = append(opts, hcsr04.WithCalibration(calib))
	}

	dev := hcsr04.NewServer(hcsr04.VendorID, hcsr04.ProductID, opts...)

	srv := tdaq.New(cmd, os.Stdout)
	srv.CmdHandle("/config", dev.OnConfig)
	srv.CmdHandle("/init", dev.OnInit)
	srv.CmdHandle("/reset", dev.OnReset)
	srv.CmdHandle("/start", dev.OnStart)
	srv.CmdHandle("/stop", dev.OnStop)
	srv.CmdHandle("/quit", dev.OnQuit)

	srv.OutputHandle("/distance", dev.Distance)

	srv.RunHandle(dev.Run)

	err := srv.Run(context.Background())
	if err != nil {
		log.Panicf("error: %+v", err)
	}
}
