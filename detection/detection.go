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

// Package detection finds serial ports that may have a QRG2 reader
// attached. It only inspects USB descriptors; confirming that a port
// actually speaks the reader protocol is left to Device.GetReaderInfo.
package detection

import (
	"fmt"
	"sort"
	"strings"

	qrg2 "github.com/ZaparooProject/go-qrg2"
	"go.bug.st/serial/enumerator"
)

// DeviceInfo describes a detected serial port
type DeviceInfo struct {
	// Path is the device path to open, e.g. /dev/ttyACM0 or COM3
	Path string
	// Name describes the USB product when known
	Name string
	// VIDPID is the USB vendor:product pair, uppercase hex
	VIDPID string
	// SerialNumber is the USB serial number when the descriptor carries one
	SerialNumber string
	// Known is true when the VID:PID matches a known reader adapter
	Known bool
}

// Options controls detection behavior. The zero value applies the
// default blocklist and returns every candidate port.
type Options struct {
	// Blocklist overrides DefaultBlocklist when non-nil
	Blocklist []string
	// IgnorePaths skips specific device paths
	IgnorePaths []string
	// KnownOnly restricts results to known reader adapters
	KnownOnly bool
}

// knownAdapters maps USB VID:PID pairs of serial adapters that QRG2
// readers and evaluation boards ship with.
var knownAdapters = map[string]string{
	"0483:5740": "STM32 Virtual COM Port",
	"0403:6001": "FTDI FT232R",
	"0403:6015": "FTDI FT231X",
	"10C4:EA60": "Silicon Labs CP210x",
	"1A86:7523": "QinHeng CH340",
}

// DetectAll returns every serial port that could host a reader, known
// adapters first. Ports without USB descriptors are skipped.
func DetectAll(opts *Options) ([]DeviceInfo, error) {
	if opts == nil {
		opts = &Options{}
	}
	blocklist := opts.Blocklist
	if blocklist == nil {
		blocklist = DefaultBlocklist()
	}

	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("enumerate serial ports: %w", err)
	}

	devices := make([]DeviceInfo, 0, len(ports))
	for _, port := range ports {
		if !port.IsUSB {
			continue
		}
		if IsPathIgnored(port.Name, opts.IgnorePaths) {
			continue
		}

		vidpid := strings.ToUpper(port.VID + ":" + port.PID)
		if IsBlocked(vidpid, blocklist) {
			continue
		}

		name, known := knownAdapters[vidpid]
		if opts.KnownOnly && !known {
			continue
		}
		if name == "" {
			name = port.Product
		}
		devices = append(devices, DeviceInfo{
			Path:         port.Name,
			Name:         name,
			VIDPID:       vidpid,
			SerialNumber: port.SerialNumber,
			Known:        known,
		})
	}

	sort.SliceStable(devices, func(i, j int) bool {
		return devices[i].Known && !devices[j].Known
	})
	return devices, nil
}

// Detect returns the most likely reader port, or ErrDeviceNotFound when
// no candidate port exists.
func Detect(opts *Options) (DeviceInfo, error) {
	devices, err := DetectAll(opts)
	if err != nil {
		return DeviceInfo{}, err
	}
	if len(devices) == 0 {
		return DeviceInfo{}, qrg2.ErrDeviceNotFound
	}
	return devices[0], nil
}
