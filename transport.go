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

package qrg2

import (
	"time"
)

// Parity is the serial parity setting
type Parity string

const (
	// ParityNone disables parity checking.
	ParityNone Parity = "N"
	// ParityEven selects even parity.
	ParityEven Parity = "E"
	// ParityOdd selects odd parity.
	ParityOdd Parity = "O"
)

// SerialConfig carries the serial channel settings applied by
// Transport.Configure.
type SerialConfig struct {
	Parity      Parity
	BaudRate    int
	DataBits    int
	StopBits    int
	ReadTimeout time.Duration
}

// DefaultSerialConfig returns the settings the QRG2 module ships with:
// 115200 baud, 8 data bits, no parity, one stop bit.
func DefaultSerialConfig() SerialConfig {
	return SerialConfig{
		BaudRate:    115200,
		DataBits:    8,
		Parity:      ParityNone,
		StopBits:    1,
		ReadTimeout: 500 * time.Millisecond,
	}
}

// Transport defines the line-oriented serial boundary of the driver.
// This can be implemented by UART/USB-CDC backends or by mocks.
type Transport interface {
	// WriteString writes raw bytes to the device. The caller appends the
	// protocol's carriage-return terminator; WriteString adds nothing.
	WriteString(s string) error

	// ReadLine returns one received line with the trailing line
	// terminators stripped. Internal carriage returns of a multi-line
	// block are preserved. ok is false when no full line arrived within
	// the per-call timeout; the driver's deadline loop polls again.
	ReadLine(timeout time.Duration) (line string, ok bool, err error)

	// Configure applies serial channel settings
	Configure(config SerialConfig) error

	// Close closes the transport connection
	Close() error

	// IsConnected returns true if the transport is connected
	IsConnected() bool

	// Type returns the transport type
	Type() TransportType
}

// TransportType represents the type of transport
type TransportType string

const (
	// TransportUART represents UART/serial transport.
	TransportUART TransportType = "uart"
	// TransportMock represents a mock transport for testing
	TransportMock TransportType = "mock"
)
