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

/*
Package qrg2 provides a pure Go driver for QRG2-generation UHF RFID reader
modules that speak the textual AT command protocol over a serial link.

The QRG2 is an integrated UHF Gen2 reader/writer module. Commands are ASCII
lines ("AT+INV", "AT+WRT=USR,0,1234", ...) terminated by a carriage return;
the module echoes the command, streams response lines and terminates every
exchange with a literal OK or ERROR line. This library frames commands,
drives the echo/accumulate/terminate read loop and decodes the heterogeneous
response formats into typed transponder records.

Features:
  - Inventory (single pass and timed report with per-tag seen counts)
  - Tag memory access for the PC, EPC, USR and TID banks
  - EPC rewrite with automatic PC length-field update
  - Kill, lock/unlock (including permanent) and access password changes
  - Byte- and bit-aligned select masks
  - Reader identity verification against expected firmware/hardware
  - Retry logic with configurable backoff for idempotent queries

Basic Usage:

	import (
	    "github.com/ZaparooProject/go-qrg2"
	    "github.com/ZaparooProject/go-qrg2/transport/uart"
	)

	// Create a UART transport
	transport, err := uart.New("/dev/ttyUSB0")
	if err != nil {
	    log.Fatal(err)
	}
	defer transport.Close()

	// Create and initialize the reader
	device, err := qrg2.NewQRG2(transport)
	if err != nil {
	    log.Fatal(err)
	}
	if err := device.Init(); err != nil {
	    log.Fatal(err)
	}

	// Read the current inventory
	tags, err := device.GetInventory()
	if err != nil {
	    log.Fatal(err)
	}
	for _, tag := range tags {
	    fmt.Printf("EPC %s RSSI %d\n", tag.EPC, tag.RSSI)
	}

Error Handling:

All operations return meaningful errors that can be inspected:

	if errors.Is(err, qrg2.ErrNoResponse) {
	    // Handle timeout
	}

Per-tag failures inside batch operations (write, lock, kill, ...) never
abort the call; they are reported as error state on the individual UhfTag
records so partial success across a tag population stays visible.

Thread Safety:

Device operations are not thread-safe. The AT protocol has no request
identifiers, so at most one command may be outstanding per transport; if
you need concurrent access, serialize the whole command/response cycle in
your application.
*/
package qrg2
