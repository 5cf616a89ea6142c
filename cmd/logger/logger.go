package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/fako1024/hx711/pkg/hx711"
	"github.com/fako1024/hx711/pkg/scale"
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
	interval time.Duration

	broker string
	topic  string
}

type dataPoint struct {
	TimeStamp time.Time  `json:"timestamp"`
	Weight    float64    `json:"weight"`
	Unit      scale.Unit `json:"unit"`
}

var log = logrus.New()

func main() {

	// Parse command line options
	var cfg config

	flag.StringVar(&cfg.chip, "chip", "gpiochip0", "GPIO character device")
	flag.IntVar(&cfg.dataPin, "data", 5, "data (DOUT) pin")
	flag.IntVar(&cfg.clockPin, "clock", 6, "clock (PD_SCK) pin")

	flag.StringVar(&cfg.unit, "unit", "g", "mass unit of the output")
	flag.Float64Var(&cfg.refUnit, "ref", 1, "reference unit (raw counts per mass unit)")
	flag.Float64Var(&cfg.offset, "offset", 0, "raw offset corresponding to zero mass")
	flag.IntVar(&cfg.samples, "samples", 3, "number of samples per reading")
	flag.StringVar(&cfg.readType, "type", "median", "aggregation type (median / average)")
	flag.DurationVar(&cfg.interval, "interval", time.Second, "logging interval")

	flag.StringVar(&cfg.broker, "broker", "", "MQTT broker to publish readings to (optional)")
	flag.StringVar(&cfg.topic, "topic", "sensors/scale/weight", "MQTT topic for readings")
	flag.Parse()

	rt, err := scale.ParseReadType(cfg.readType)
	if err != nil {
		log.Fatal(err)
	}

	dev := hx711.New(cfg.dataPin, cfg.clockPin, hx711.WithChip(cfg.chip))
	if err := dev.Begin(); err != nil {
		log.Fatalf("Failed to initialize sensor: %s", err)
	}

	s, err := scale.New(dev, scale.Unit(cfg.unit), cfg.refUnit, cfg.offset)
	if err != nil {
		log.Fatal(err)
	}

	var client paho.Client
	if cfg.broker != "" {
		if client, err = newMQTTClient(cfg.broker); err != nil {
			log.Fatalf("Failed to connect to MQTT broker %s: %s", cfg.broker, err)
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		log.Infof("Got signal, terminating connection to device")
		if client != nil {
			client.Disconnect(1000)
		}
		if err := dev.Close(); err != nil {
			log.Errorf("Failed to close sensor: %s", err)
		}
		os.Exit(0)
	}()

	for range time.Tick(cfg.interval) {

		mass, err := s.Weight(rt, cfg.samples)
		if err != nil {
			log.Warnf("Failed to read weight: %s", err)
			continue
		}
		log.Infof("Weight: %s", mass)

		if client != nil {
			if err := publish(client, cfg.topic, mass); err != nil {
				log.Warnf("Failed to publish reading: %s", err)
			}
		}
	}
}

func newMQTTClient(broker string) (paho.Client, error) {

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("hx711-logger").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return client, nil
}

func publish(client paho.Client, topic string, mass scale.Mass) error {

	payload, err := json.Marshal(dataPoint{
		TimeStamp: time.Now(),
		Weight:    mass.Value,
		Unit:      mass.Unit,
	})
	if err != nil {
		return err
	}

	// QoS 0 (at-most-once), not retained
	token := client.Publish(topic, 0, false, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}

	return token.Error()
}
