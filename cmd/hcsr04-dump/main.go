// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// hcsr04-dump decodes and displays raw HC-SR04 waveform files.
//
// Usage: hcsr04-dump [OPTIONS] FILE1 [FILE2 [FILE3 ...]]
//
// Example:
//
//	$> hcsr04-dump ./waveform-000001.raw
//	=== waveform-000001.raw ===
//	samples:      524288 (65536 bytes)
//	status:           ok
//	pulse:      807-3975 (3168 samples)
//	dist:       0.099780 m
package main // import "github.com/go-lpc/sonar/cmd/hcsr04-dump"

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/go-lpc/sonar/hcsr04"
	"github.com/go-lpc/sonar/internal/mmap"
)

func main() {
	log.SetPrefix("hcsr04-dump: ")
	log.SetFlags(0)

	var (
		calib = flag.Float64("calib", hcsr04.DefaultCalibration, "calibration (samples per meter)")
		bits  = flag.Bool("bits", false, "display the samples of each byte, MSB first")
	)

	flag.Usage = func() {
		fmt.Printf(`hcsr04-dump decodes and displays raw HC-SR04 waveform files.

Usage: hcsr04-dump [OPTIONS] FILE1 [FILE2 [FILE3 ...]]

Example:

 $> hcsr04-dump ./waveform-000001.raw
 === waveform-000001.raw ===
 samples:      524288 (65536 bytes)
 status:           ok
 pulse:      807-3975 (3168 samples)
 dist:       0.099780 m

`)
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		log.Fatalf("missing path to input waveform file")
	}

	for _, fname := range flag.Args() {
		err := process(os.Stdout, fname, *calib, *bits)
		if err != nil {
			log.Fatalf("could not dump file %q: %+v", fname, err)
		}
	}
}

func process(w io.Writer, fname string, calib float64, bits bool) error {
	wbuf := bufio.NewWriter(w)
	defer wbuf.Flush()

	f, err := mmap.Open(fname)
	if err != nil {
		return fmt.Errorf("could not open %q: %w", fname, err)
	}
	defer f.Close()

	wave := hcsr04.NewWaveform(f.Len())
	_, err = io.Copy(wave, io.NewSectionReader(f, 0, int64(f.Len())))
	if err != nil {
		return fmt.Errorf("could not replay waveform %q: %w", fname, err)
	}
	if !wave.Full() {
		return fmt.Errorf("could not replay waveform %q: %d/%d bytes", fname, wave.Len(), wave.Cap())
	}
	raw := wave.Raw()

	fmt.Fprintf(wbuf, "=== %s ===\n", filepath.Base(fname))
	if bits {
		for i, b := range raw {
			fmt.Fprintf(wbuf, "%06d: %s\n", i, bitRow(b))
		}
	}
	fmt.Fprintf(wbuf, "samples:  %10d (%d bytes)\n", 8*len(raw), len(raw))

	win, err := hcsr04.LocateEdges(raw)
	fmt.Fprintf(wbuf, "status:   %10s\n", hcsr04.Status(err))
	if err != nil {
		return nil
	}
	fmt.Fprintf(wbuf, "pulse:    %10s (%d samples)\n", win, win.Width())
	fmt.Fprintf(wbuf, "dist:     %10f m\n", hcsr04.Distance(win, calib))

	return nil
}

// bitRow displays the 8 samples of b, most significant bit first.
func bitRow(b byte) string {
	o := make([]byte, 0, 15)
	for i := 7; i >= 0; i-- {
		if i < 7 {
			o = append(o, ' ')
		}
		o = append(o, '0'+(b>>i)&1)
	}
	return string(o)
}
