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

// epctool inspects and rewrites the EPC of UHF transponders. Without
// -write it lists the tags in the field with their TID so a single tag
// can be targeted; with -write it rewrites the EPC and the PC length
// field of the selected population.
package main

import (
	"flag"
	"os"

	qrg2 "github.com/ZaparooProject/go-qrg2"
	"github.com/ZaparooProject/go-qrg2/detection"
	"github.com/ZaparooProject/go-qrg2/transport/uart"
	"github.com/rs/zerolog"
)

type config struct {
	devicePath *string
	newEPC     *string
	tid        *string
	start      *int
	debug      *bool
}

func parseFlags() *config {
	cfg := &config{
		devicePath: flag.String("device", "",
			"Serial device path (e.g. /dev/ttyACM0 or COM3). Leave empty for auto-detection."),
		newEPC: flag.String("write", "",
			"New EPC as hex, length a multiple of 4 digits. Omit to only list tags."),
		tid: flag.String("tid", "",
			"Target only the tag with this TID (recommended with more than one tag in the field)"),
		start: flag.Int("start", 0, "Word offset inside the EPC field to write at"),
		debug: flag.Bool("debug", false, "Enable protocol debug output"),
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
		info, err := detection.Detect(nil)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", info.Path).Msg("using detected port")
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

func listTags(device *qrg2.Device, log zerolog.Logger) error {
	tags, err := device.GetInventory()
	if err != nil {
		return err
	}
	if len(tags) == 0 {
		log.Info().Msg("no tags found")
		return nil
	}
	for _, tag := range tags {
		log.Info().Str("epc", tag.EPC).Str("tid", tag.TID).Int("rssi", tag.RSSI).Msg("tag")
	}
	return nil
}

func rewriteEPC(cfg *config, device *qrg2.Device, log zerolog.Logger) error {
	tags, err := device.WriteTagEPC(*cfg.tid, *cfg.newEPC, *cfg.start)
	if err != nil {
		return err
	}
	if len(tags) == 0 {
		log.Info().Msg("no tags found")
		return nil
	}
	for _, tag := range tags {
		if tag.HasError() {
			log.Error().Str("epc", tag.EPC).Str("error", tag.ErrorMessage()).Msg("rewrite failed")
			continue
		}
		log.Info().Str("old_epc", tag.OldEPC).Str("epc", tag.EPC).Msg("rewrite done")
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

	if err := device.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize reader")
	}
	if _, err := device.GetReaderInfo(); err != nil {
		log.Fatal().Err(err).Msg("reader verification failed")
	}

	if *cfg.newEPC == "" {
		if err := listTags(device, log); err != nil {
			log.Fatal().Err(err).Msg("inventory failed")
		}
		return
	}
	if err := rewriteEPC(cfg, device, log); err != nil {
		log.Fatal().Err(err).Msg("epc rewrite failed")
	}
}
