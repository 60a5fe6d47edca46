// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command hcsr04-daq measures distances with an HC-SR04 sensor wired to an
// FTDI C232HM cable, until interrupted.
//
// Usage: hcsr04-daq [OPTIONS]
//
// Example:
//
//	$> hcsr04-daq -calib=31750 -n=10
//	cycle=1 pulse=807-3975 (3168) dist=0.099780
//	cycle=2 pulse=806-3975 (3169) dist=0.099811
//	cycle=3 error=hcsr04: could not fill waveform within 1s (12288/65536 bytes): hcsr04: capture deadline exceeded
//	[...]
//	cycles:   10
//	  ok:              9
//	  timeout:         1
//	dist:     0.099795 +/- 0.000016 m
package main // import "github.com/go-lpc/sonar/cmd/hcsr04-daq"

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"time"

	tlog "github.com/go-daq/tdaq/log"
	"github.com/go-lpc/sonar"
	"github.com/go-lpc/sonar/hcsr04"
	"github.com/go-lpc/sonar/rangedb"
	"github.com/sbinet/pmon"
	"go-hep.org/x/hep/hbook"
	"golang.org/x/sync/errgroup"
)

func main() {
	var (
		vid     = flag.Uint("vid", hcsr04.VendorID, "USB vendor ID of the FTDI adapter")
		pid     = flag.Uint("pid", hcsr04.ProductID, "USB product ID of the FTDI adapter")
		calib   = flag.Float64("calib", hcsr04.DefaultCalibration, "calibration (samples per meter)")
		size    = flag.Int("size", hcsr04.DefaultBufferSize, "number of bytes of samples per capture")
		timeout = flag.Duration("timeout", hcsr04.DefaultTimeout, "capture deadline")
		ncycles = flag.Int("n", 0, "number of cycles to run (0: until interrupted)")
		dbname  = flag.String("db", "", "name of the MySQL database to store measurements into")
		odir    = flag.String("dump", "", "directory where to dump raw waveforms")
		alert   = flag.Int("alert", 0, "send a mail alert after that many consecutive failures (0: disabled)")
		doMon   = flag.Bool("pmon", false, "enable pmon monitoring")
		doFreq  = flag.Duration("freq", 1*time.Second, "pmon frequency")
		verbose = flag.Bool("v", false, "enable verbose mode")
		version = flag.Bool("version", false, "print version and exit")
	)

	log.SetPrefix("hcsr04-daq: ")
	log.SetFlags(0)

	flag.Parse()

	if *version {
		printVersion(os.Stdout)
		return
	}

	dev, err := hcsr04.Open(uint16(*vid), uint16(*pid))
	if err != nil {
		log.Fatalf("could not open sensor: %+v", err)
	}
	defer dev.Close()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	defer signal.Stop(stop)

	err = run(os.Stdout, dev, stop, config{
		calib:   *calib,
		size:    *size,
		timeout: *timeout,
		ncycles: *ncycles,
		dbname:  *dbname,
		odir:    *odir,
		alert:   *alert,
		pmon:    *doMon,
		freq:    *doFreq,
		verbose: *verbose,
	})
	if err != nil {
		log.Fatalf("could not run hcsr04-daq: %+v", err)
	}
}

func printVersion(w io.Writer) {
	vers, sum := sonar.Version()
	if vers == "" {
		vers = "(devel)"
	}
	if sum != "" {
		vers += " " + sum
	}
	fmt.Fprintf(w, "hcsr04-daq %s\n", vers)
}

type config struct {
	calib   float64
	size    int
	timeout time.Duration
	ncycles int

	dbname string
	odir   string
	alert  int

	pmon bool
	freq time.Duration

	verbose bool
}

func run(w io.Writer, dev io.ReadWriter, stop chan os.Signal, cfg config) error {
	lvl := tlog.LvlInfo
	if cfg.verbose {
		lvl = tlog.LvlDebug
	}
	msg := tlog.NewMsgStream("hcsr04-daq", lvl, os.Stderr)

	smp, err := hcsr04.NewSampler(
		dev, msg,
		hcsr04.WithCalibration(cfg.calib),
		hcsr04.WithBufferSize(cfg.size),
		hcsr04.WithTimeout(cfg.timeout),
	)
	if err != nil {
		return fmt.Errorf("could not create sampler: %w", err)
	}

	acq := newDAQ(w, smp, cfg)
	if cfg.dbname != "" {
		db, err := rangedb.Open(cfg.dbname)
		if err != nil {
			return fmt.Errorf("could not open measurements db: %w", err)
		}
		defer db.Close()
		acq.db = db
	}

	if cfg.odir != "" {
		err = os.MkdirAll(cfg.odir, 0755)
		if err != nil {
			return fmt.Errorf("could not create dump directory: %w", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	acq.cancel = cancel

	// a failing monitor stops the acquisition at the next cycle boundary.
	grp, gctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		select {
		case <-stop:
			log.Printf("stopping at the end of the current cycle...")
			cancel()
		case <-gctx.Done():
		}
		return nil
	})

	if cfg.pmon {
		grp.Go(func() error {
			return pmonitor(gctx, cfg.odir, cfg.freq)
		})
	}

	grp.Go(func() error {
		defer cancel()
		return smp.Run(gctx, func(m hcsr04.Measurement) {
			acq.process(ctx, m)
		})
	})

	err = grp.Wait()
	if err != nil {
		return fmt.Errorf("could not run acquisition: %w", err)
	}

	acq.summary()
	return nil
}

type daq struct {
	w   io.Writer
	smp *hcsr04.Sampler
	cfg config
	db  *rangedb.DB

	cancel context.CancelFunc

	n     int            // number of cycles
	fails int            // number of consecutive failures
	stats map[string]int // number of cycles per status
	hist  *hbook.H1D     // distance distribution

	sendAlert func(m hcsr04.Measurement, fails int) error
}

func newDAQ(w io.Writer, smp *hcsr04.Sampler, cfg config) *daq {
	return &daq{
		w:         w,
		smp:       smp,
		cfg:       cfg,
		stats:     make(map[string]int),
		hist:      hbook.NewH1D(400, 0, 4), // sensor range is 2cm-4m
		sendAlert: alertMail,
	}
}

func (acq *daq) process(ctx context.Context, m hcsr04.Measurement) {
	acq.n++
	acq.stats[hcsr04.Status(m.Err)]++
	fmt.Fprintf(acq.w, "%v\n", m)

	switch m.Err {
	case nil:
		acq.fails = 0
		acq.hist.Fill(m.Dist, 1)
	default:
		acq.fails++
		if acq.cfg.alert > 0 && acq.fails == acq.cfg.alert {
			err := acq.sendAlert(m, acq.fails)
			if err != nil {
				log.Printf("could not send alert: %+v", err)
			}
		}
	}

	if acq.cfg.odir != "" {
		err := acq.dump(m)
		if err != nil {
			log.Printf("could not dump waveform of cycle %d: %+v", m.Cycle, err)
		}
	}

	if acq.db != nil {
		err := acq.db.Insert(ctx, m)
		if err != nil {
			log.Printf("could not store measurement: %+v", err)
		}
	}

	if acq.cfg.ncycles > 0 && acq.n >= acq.cfg.ncycles {
		acq.cancel()
	}
}

func (acq *daq) dump(m hcsr04.Measurement) error {
	fname := filepath.Join(acq.cfg.odir, fmt.Sprintf("waveform-%06d.raw", m.Cycle))
	err := os.WriteFile(fname, acq.smp.Waveform().Raw(), 0644)
	if err != nil {
		return fmt.Errorf("could not write %q: %w", fname, err)
	}
	return nil
}

func (acq *daq) summary() {
	fmt.Fprintf(acq.w, "cycles:   %d\n", acq.n)

	names := make([]string, 0, len(acq.stats))
	for k := range acq.stats {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Fprintf(acq.w, "  %-15s %d\n", k+":", acq.stats[k])
	}

	if acq.hist.Entries() == 0 {
		return
	}
	fmt.Fprintf(acq.w, "dist:     %f +/- %f m\n", acq.hist.XMean(), acq.hist.XStdDev())
}

var pmonitor = monitor

func monitor(ctx context.Context, dir string, freq time.Duration) error {
	pid := os.Getpid()
	p, err := pmon.Monitor(pid)
	if err != nil {
		return fmt.Errorf("could not start monitoring (pid=%d): %w", pid, err)
	}

	p.W = os.Stderr
	if dir != "" {
		f, err := os.Create(filepath.Join(dir, "hcsr04-daq-pmon.log"))
		if err != nil {
			return fmt.Errorf("could not create pmon log file: %w", err)
		}
		defer f.Close()
		p.W = f
	}
	p.Freq = freq

	go func() {
		err := p.Run()
		if err != nil {
			log.Printf("could not run monitoring: %+v", err)
		}
	}()

	<-ctx.Done()

	err = p.Kill()
	if err != nil {
		return fmt.Errorf("could not stop monitoring: %w", err)
	}
	return nil
}
