package main

import (
	"flag"
	"fmt"

	"github.com/fako1024/hx711/pkg/hx711"
	"github.com/fako1024/hx711/pkg/scale"
	"github.com/fatih/stopwatch"
	"github.com/sirupsen/logrus"
)

type config struct {
	chip     string
	dataPin  int
	clockPin int

	unit     string
	refUnit  float64
	offset   float64
	samples  int
	readType string

	zero   bool
	timing bool
	debug  bool
}

var log = logrus.New()

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() (err error) {

	// Parse command line options
	var cfg config

	flag.StringVar(&cfg.chip, "chip", "gpiochip0", "GPIO character device")
	flag.IntVar(&cfg.dataPin, "data", 5, "Data (DOUT) pin")
	flag.IntVar(&cfg.clockPin, "clock", 6, "Clock (PD_SCK) pin")

	flag.StringVar(&cfg.unit, "unit", "g", "Mass unit of the output")
	flag.Float64Var(&cfg.refUnit, "ref", 1, "Reference unit (raw counts per mass unit)")
	flag.Float64Var(&cfg.offset, "offset", 0, "Raw offset corresponding to zero mass")
	flag.IntVar(&cfg.samples, "samples", 3, "Number of samples per reading")
	flag.StringVar(&cfg.readType, "type", "median", "Aggregation type (median / average)")

	flag.BoolVar(&cfg.zero, "zero", false, "Zero the scale before reading")
	flag.BoolVar(&cfg.timing, "timing", false, "Collect acquisition timing diagnostics")
	flag.BoolVar(&cfg.debug, "debug", false, "Enable debug logging")
	flag.Parse()

	rt, err := scale.ParseReadType(cfg.readType)
	if err != nil {
		return err
	}

	dev := hx711.New(cfg.dataPin, cfg.clockPin,
		hx711.WithChip(cfg.chip),
		hx711.WithLogger(scale.NewDefaultLogger(cfg.debug)),
	)
	if err := dev.Begin(); err != nil {
		return fmt.Errorf("failed to initialize sensor: %w", err)
	}
	defer func() {
		if cerr := dev.Close(); cerr != nil {
			err = cerr
			return
		}
	}()

	if cfg.timing {
		return runTiming(dev, cfg.samples)
	}

	s, err := scale.New(dev, scale.Unit(cfg.unit), cfg.refUnit, cfg.offset)
	if err != nil {
		return err
	}

	if cfg.zero {
		if err := s.Zero(rt, cfg.samples); err != nil {
			return fmt.Errorf("failed to zero scale: %w", err)
		}
		log.Infof("Scale zeroed, offset: %v", s.Offset())
	}

	mass, err := s.Weight(rt, cfg.samples)
	if err != nil {
		return fmt.Errorf("failed to read weight: %w", err)
	}
	log.Infof("Weight: %s (%s of %d samples)", mass, rt, cfg.samples)

	return nil
}

func runTiming(dev *hx711.HX711, samples int) error {

	sw := stopwatch.Start(0)
	timings, err := dev.ReadTimings(samples)
	sw.Stop()
	if err != nil {
		return fmt.Errorf("failed to collect timings: %w", err)
	}

	log.Infof("Collected %d timing samples in %v", len(timings), sw.ElapsedTime())
	for i, t := range timings {
		log.Infof("sample %d: ready after %v, read took %v, next value after %v",
			i,
			t.DataReady.Sub(t.CycleStart),
			t.ReadComplete.Sub(t.DataReady),
			t.NextReady.Sub(t.ReadComplete),
		)
	}

	return nil
}
