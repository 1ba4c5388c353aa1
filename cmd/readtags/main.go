// go-qrg2
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-qrg2.
//
// go-qrg2 is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-qrg2 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-qrg2; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

// readtags runs a single inventory or monitors the tag population of a
// QRG2 UHF reader.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	qrg2 "github.com/ZaparooProject/go-qrg2"
	"github.com/ZaparooProject/go-qrg2/detection"
	"github.com/ZaparooProject/go-qrg2/polling"
	"github.com/ZaparooProject/go-qrg2/transport/uart"
	"github.com/rs/zerolog"
)

type config struct {
	devicePath *string
	region     *string
	power      *int
	monitor    *bool
	interval   *time.Duration
	debug      *bool
}

func parseFlags() *config {
	cfg := &config{
		devicePath: flag.String("device", "",
			"Serial device path (e.g. /dev/ttyACM0 or COM3). Leave empty for auto-detection."),
		region:   flag.String("region", "", "UHF regulatory region to configure (e.g. ETSI, FCC)"),
		power:    flag.Int("power", 0, "Antenna output power in dBm (0 keeps the reader setting)"),
		monitor:  flag.Bool("monitor", false, "Keep running and report tag arrivals and departures"),
		interval: flag.Duration("interval", 100*time.Millisecond, "Inventory interval in monitor mode"),
		debug:    flag.Bool("debug", false, "Enable protocol debug output"),
	}
	flag.Parse()

	if *cfg.debug {
		qrg2.SetDebugEnabled(true)
	}
	return cfg
}

func openDevice(cfg *config, log zerolog.Logger) (*qrg2.Device, error) {
	path := *cfg.devicePath
	if path == "" {
		log.Info().Msg("auto-detecting reader port")
		info, err := detection.Detect(nil)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", info.Path).Str("adapter", info.Name).Msg("using detected port")
		path = info.Path
	}

	transport, err := uart.New(path)
	if err != nil {
		return nil, err
	}
	device, err := qrg2.NewQRG2(transport)
	if err != nil {
		_ = transport.Close()
		return nil, err
	}
	return device, nil
}

func setup(cfg *config, device *qrg2.Device, log zerolog.Logger) error {
	if err := device.Init(); err != nil {
		return err
	}
	info, err := device.GetReaderInfo()
	if err != nil {
		return err
	}
	log.Info().
		Str("firmware", info.Firmware).
		Str("version", info.FirmwareVersion).
		Str("serial", info.SerialNumber).
		Msg("reader connected")

	if *cfg.region != "" {
		if err := device.SetRegion(*cfg.region); err != nil {
			return err
		}
	}
	if *cfg.power != 0 {
		if err := device.SetPower(*cfg.power); err != nil {
			return err
		}
	}
	return nil
}

func runOnce(device *qrg2.Device, log zerolog.Logger) error {
	tags, err := device.GetInventory()
	if err != nil {
		return err
	}
	if len(tags) == 0 {
		log.Info().Msg("no tags found")
		return nil
	}
	for _, tag := range tags {
		log.Info().
			Str("epc", tag.EPC).
			Str("tid", tag.TID).
			Int("rssi", tag.RSSI).
			Int("antenna", tag.Antenna).
			Msg("tag")
	}
	return nil
}

func runMonitor(ctx context.Context, cfg *config, device *qrg2.Device, log zerolog.Logger) error {
	monitor := polling.NewMonitor(device, &polling.Config{
		Interval:           *cfg.interval,
		DepartureThreshold: 3,
	})
	monitor.OnTagArrived = func(tag *qrg2.UhfTag) {
		log.Info().Str("epc", tag.EPC).Int("rssi", tag.RSSI).Msg("tag arrived")
	}
	monitor.OnTagDeparted = func(tag *qrg2.UhfTag) {
		log.Info().Str("epc", tag.EPC).Int("count", tag.SeenCount).Msg("tag departed")
	}
	monitor.OnError = func(err error) {
		log.Warn().Err(err).Msg("inventory pass failed")
	}

	log.Info().Dur("interval", *cfg.interval).Msg("monitoring, press Ctrl+C to stop")
	if err := monitor.Start(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	cfg := parseFlags()

	device, err := openDevice(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open reader")
	}
	defer func() { _ = device.Close() }()

	if err := setup(cfg, device, log); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize reader")
	}

	if !*cfg.monitor {
		if err := runOnce(device, log); err != nil {
			log.Fatal().Err(err).Msg("inventory failed")
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := runMonitor(ctx, cfg, device, log); err != nil {
		log.Fatal().Err(err).Msg("monitoring failed")
	}
}
