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

// Package uart provides a UART transport for QRG2 readers connected via
// serial or USB-CDC ports.
package uart

import (
	"bytes"
	"strings"
	"sync"
	"time"

	qrg2 "github.com/ZaparooProject/go-qrg2"
	"go.bug.st/serial"
)

// Transport implements qrg2.Transport over a serial port
type Transport struct {
	port     serial.Port
	portName string

	mu        sync.Mutex
	pending   []byte
	connected bool
}

// New creates a new UART transport and opens the serial port with the
// module's default settings. Configure can change them afterwards.
func New(portName string) (*Transport, error) {
	config := qrg2.DefaultSerialConfig()
	port, err := serial.Open(portName, toMode(config))
	if err != nil {
		return nil, qrg2.NewTransportError("open", portName, err, qrg2.ErrorTypePermanent)
	}
	if err := port.SetReadTimeout(config.ReadTimeout); err != nil {
		_ = port.Close()
		return nil, qrg2.NewTransportError("open", portName, err, qrg2.ErrorTypePermanent)
	}

	return &Transport{
		port:      port,
		portName:  portName,
		connected: true,
	}, nil
}

// WriteString writes raw bytes to the serial port
func (t *Transport) WriteString(s string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.connected {
		return qrg2.NewTransportError("write", t.portName, qrg2.ErrTransportWrite, qrg2.ErrorTypePermanent)
	}
	if _, err := t.port.Write([]byte(s)); err != nil {
		return qrg2.NewTransportError("write", t.portName, err, qrg2.ErrorTypeTransient)
	}
	return nil
}

// ReadLine returns one newline-terminated line with the line terminators
// stripped. A single trailing carriage return is removed; internal
// carriage returns of multi-line response blocks are preserved so the
// protocol layer can split on them. ok is false when no complete line
// arrived within the timeout.
func (t *Transport) ReadLine(timeout time.Duration) (string, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.connected {
		return "", false, qrg2.NewTransportError("read", t.portName, qrg2.ErrTransportRead, qrg2.ErrorTypePermanent)
	}

	if line, found := t.takeLine(); found {
		return line, true, nil
	}

	if err := t.port.SetReadTimeout(timeout); err != nil {
		return "", false, qrg2.NewTransportError("read", t.portName, err, qrg2.ErrorTypeTransient)
	}

	deadline := time.Now().Add(timeout)
	buf := make([]byte, 256)
	for {
		n, err := t.port.Read(buf)
		if err != nil {
			return "", false, qrg2.NewTransportError("read", t.portName, err, qrg2.ErrorTypeTransient)
		}
		if n > 0 {
			t.pending = append(t.pending, buf[:n]...)
			if line, found := t.takeLine(); found {
				return line, true, nil
			}
		}
		// n == 0 means the port-level timeout expired
		if n == 0 || !time.Now().Before(deadline) {
			return "", false, nil
		}
	}
}

// takeLine cuts the next newline-terminated line out of the pending
// buffer. Caller holds the mutex.
func (t *Transport) takeLine() (string, bool) {
	idx := bytes.IndexByte(t.pending, '\n')
	if idx < 0 {
		return "", false
	}
	line := string(t.pending[:idx])
	t.pending = t.pending[idx+1:]
	return strings.TrimSuffix(line, "\r"), true
}

// Configure applies serial channel settings to the open port
func (t *Transport) Configure(config qrg2.SerialConfig) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.connected {
		return qrg2.NewTransportError("configure", t.portName, qrg2.ErrTransportWrite, qrg2.ErrorTypePermanent)
	}
	if err := t.port.SetMode(toMode(config)); err != nil {
		return qrg2.NewTransportError("configure", t.portName, err, qrg2.ErrorTypePermanent)
	}
	if config.ReadTimeout > 0 {
		if err := t.port.SetReadTimeout(config.ReadTimeout); err != nil {
			return qrg2.NewTransportError("configure", t.portName, err, qrg2.ErrorTypePermanent)
		}
	}
	return nil
}

// Close closes the serial port
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.connected {
		return nil
	}
	t.connected = false
	if err := t.port.Close(); err != nil {
		return qrg2.NewTransportError("close", t.portName, err, qrg2.ErrorTypePermanent)
	}
	return nil
}

// IsConnected returns true if the port is open
func (t *Transport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.connected
}

// Type returns the transport type
func (t *Transport) Type() qrg2.TransportType {
	return qrg2.TransportUART
}

func toMode(config qrg2.SerialConfig) *serial.Mode {
	mode := &serial.Mode{
		BaudRate: config.BaudRate,
		DataBits: config.DataBits,
	}

	switch config.Parity {
	case qrg2.ParityEven:
		mode.Parity = serial.EvenParity
	case qrg2.ParityOdd:
		mode.Parity = serial.OddParity
	default:
		mode.Parity = serial.NoParity
	}

	if config.StopBits == 2 {
		mode.StopBits = serial.TwoStopBits
	} else {
		mode.StopBits = serial.OneStopBit
	}

	return mode
}
