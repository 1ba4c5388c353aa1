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

package uart

import (
	"testing"

	qrg2 "github.com/ZaparooProject/go-qrg2"
	"github.com/stretchr/testify/assert"
	"go.bug.st/serial"
)

func TestToMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		config qrg2.SerialConfig
		want   serial.Mode
	}{
		{
			name:   "Defaults",
			config: qrg2.DefaultSerialConfig(),
			want: serial.Mode{
				BaudRate: 115200,
				DataBits: 8,
				Parity:   serial.NoParity,
				StopBits: serial.OneStopBit,
			},
		},
		{
			name:   "Even_Parity_Two_Stop_Bits",
			config: qrg2.SerialConfig{BaudRate: 9600, DataBits: 7, Parity: qrg2.ParityEven, StopBits: 2},
			want: serial.Mode{
				BaudRate: 9600,
				DataBits: 7,
				Parity:   serial.EvenParity,
				StopBits: serial.TwoStopBits,
			},
		},
		{
			name:   "Odd_Parity",
			config: qrg2.SerialConfig{BaudRate: 57600, DataBits: 8, Parity: qrg2.ParityOdd, StopBits: 1},
			want: serial.Mode{
				BaudRate: 57600,
				DataBits: 8,
				Parity:   serial.OddParity,
				StopBits: serial.OneStopBit,
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, *toMode(tt.config))
		})
	}
}

func TestTakeLine(t *testing.T) {
	t.Parallel()

	transport := &Transport{connected: true}

	// No full line buffered yet.
	transport.pending = []byte("+INV: AAAA")
	_, found := transport.takeLine()
	assert.False(t, found)

	// One CRLF-terminated line, internal carriage returns preserved.
	transport.pending = []byte("+INV: AAAA\r+INV: BBBB\r\nOK\r\npartial")
	line, found := transport.takeLine()
	assert.True(t, found)
	assert.Equal(t, "+INV: AAAA\r+INV: BBBB", line)

	line, found = transport.takeLine()
	assert.True(t, found)
	assert.Equal(t, "OK", line)

	_, found = transport.takeLine()
	assert.False(t, found)
	assert.Equal(t, "partial", string(transport.pending))
}

func TestTransport_Type(t *testing.T) {
	t.Parallel()

	transport := &Transport{}
	assert.Equal(t, qrg2.TransportUART, transport.Type())
}

func TestNew_MissingPort(t *testing.T) {
	t.Parallel()

	_, err := New("/dev/definitely-not-a-port")
	assert.Error(t, err)
}
