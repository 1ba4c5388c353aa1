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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const newEPC16 = "AAAABBBBCCCCDDDD"

func TestWriteTagEPC(t *testing.T) {
	t.Parallel()

	// 16 hex digits = 4 words, so the PC length field becomes
	// (4/2)<<12 = 0x2000 on top of the zero base.
	transport := NewScriptedTransport()
	transport.Script("AT+READ=PC,0,2", "+READ: "+testEPC2+",OK,3000", "OK")
	transport.Script("AT+WRT=EPC,0,"+newEPC16, "+WRT: "+testEPC2+",OK", "OK")
	transport.Script("AT+WRT=PC,0,2000", "+WRT: "+testEPC2+",OK", "OK")
	device := newTestDevice(t, transport)

	tags, err := device.WriteTagEPC("", newEPC16, 0)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, newEPC16, tags[0].EPC)
	assert.Equal(t, testEPC2, tags[0].OldEPC)
	assert.False(t, tags[0].HasError())
	assert.Equal(t,
		[]string{"AT+READ=PC,0,2", "AT+WRT=EPC,0," + newEPC16, "AT+WRT=PC,0,2000"},
		transport.Commands())
}

func TestWriteTagEPC_OddWordCount(t *testing.T) {
	t.Parallel()

	// 12 hex digits = 3 words: (3/2)<<12 plus the odd-word flag = 0x1800.
	newEPC := "AAAABBBBCCCC"
	transport := NewScriptedTransport()
	transport.Script("AT+READ=PC,0,2", "+READ: "+testEPC2+",OK,3000", "OK")
	transport.Script("AT+WRT=EPC,0,"+newEPC, "+WRT: "+testEPC2+",OK", "OK")
	transport.Script("AT+WRT=PC,0,1800", "+WRT: "+testEPC2+",OK", "OK")
	device := newTestDevice(t, transport)

	tags, err := device.WriteTagEPC("", newEPC, 0)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, newEPC, tags[0].EPC)
}

func TestWriteTagEPC_TwoWordLengthBits(t *testing.T) {
	t.Parallel()

	// 8 hex digits = 2 words: length bits are exactly 1<<12.
	newEPC := "AAAABBBB"
	transport := NewScriptedTransport()
	transport.Script("AT+READ=PC,0,2", "+READ: "+testEPC2+",OK,3000", "OK")
	transport.Script("AT+WRT=EPC,0,"+newEPC, "+WRT: "+testEPC2+",OK", "OK")
	transport.Script("AT+WRT=PC,0,1000", "+WRT: "+testEPC2+",OK", "OK")
	device := newTestDevice(t, transport)

	_, err := device.WriteTagEPC("", newEPC, 0)
	require.NoError(t, err)
	assert.Equal(t, "AT+WRT=PC,0,1000", transport.Commands()[2])
}

func TestWriteTagEPC_PreservesPCBase(t *testing.T) {
	t.Parallel()

	// Non-length PC bits (e.g. a set user memory indicator) survive the
	// rewrite: base 0x0400 merged with length bits 0x2000.
	transport := NewScriptedTransport()
	transport.Script("AT+READ=PC,0,2", "+READ: "+testEPC2+",OK,3400", "OK")
	transport.Script("AT+WRT=EPC,0,"+newEPC16, "+WRT: "+testEPC2+",OK", "OK")
	transport.Script("AT+WRT=PC,0,2400", "+WRT: "+testEPC2+",OK", "OK")
	device := newTestDevice(t, transport)

	tags, err := device.WriteTagEPC("", newEPC16, 0)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.False(t, tags[0].HasError())
}

func TestWriteTagEPC_InvalidLength(t *testing.T) {
	t.Parallel()

	device := newTestDevice(t, NewScriptedTransport())

	_, err := device.WriteTagEPC("", "ABC", 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.Contains(t, err.Error(), "the new epc length must be a multiple of 4")
}

func TestWriteTagEPC_MixedPopulation(t *testing.T) {
	t.Parallel()

	transport := NewScriptedTransport()
	transport.Script("AT+READ=PC,0,2",
		"+READ: "+testEPC1+",OK,3000\r+READ: "+testEPC2+",OK,3001",
		"OK")
	device := newTestDevice(t, transport)

	_, err := device.WriteTagEPC("", newEPC16, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMixedTagPopulation)
	// Nothing may be written after the abort.
	assert.Equal(t, []string{"AT+READ=PC,0,2"}, transport.Commands())
}

func TestWriteTagEPC_BadPCValue(t *testing.T) {
	t.Parallel()

	transport := NewScriptedTransport()
	transport.Script("AT+READ=PC,0,2", "+READ: "+testEPC2+",OK,ZZZZ", "OK")
	device := newTestDevice(t, transport)

	_, err := device.WriteTagEPC("", newEPC16, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedResponse)
}

func TestWriteTagEPC_NoTags(t *testing.T) {
	t.Parallel()

	transport := NewScriptedTransport()
	transport.Script("AT+READ=PC,0,2", "+READ: <NO TAGS FOUND>", "OK")
	device := newTestDevice(t, transport)

	tags, err := device.WriteTagEPC("", newEPC16, 0)
	require.NoError(t, err)
	assert.Empty(t, tags)
	assert.Equal(t, []string{"AT+READ=PC,0,2"}, transport.Commands())
}

func TestWriteTagEPC_TIDMaskInstalledAndRestored(t *testing.T) {
	t.Parallel()

	transport := NewScriptedTransport()
	transport.Script("AT+MSK?", "+MSK: EPC,0,3034", "OK")
	transport.Script("AT+MSK=TID,0,"+testTID, "OK")
	transport.Script("AT+READ=PC,0,2", "+READ: "+testEPC2+",OK,3000", "OK")
	transport.Script("AT+WRT=EPC,0,"+newEPC16, "+WRT: "+testEPC2+",OK", "OK")
	transport.Script("AT+WRT=PC,0,2000", "+WRT: "+testEPC2+",OK", "OK")
	transport.Script("AT+MSK=EPC,0,3034", "OK")
	device := newTestDevice(t, transport)

	tags, err := device.WriteTagEPC(testTID, newEPC16, 0)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "AT+MSK=EPC,0,3034", transport.Commands()[5])
}

func TestWriteTagEPC_TIDMaskResetWhenNoneWasActive(t *testing.T) {
	t.Parallel()

	transport := NewScriptedTransport()
	transport.Script("AT+MSK?", "+MSK: OFF", "OK")
	transport.Script("AT+MSK=TID,0,"+testTID, "OK")
	transport.Script("AT+READ=PC,0,2", "+READ: "+testEPC2+",OK,3000", "OK")
	transport.Script("AT+WRT=EPC,0,"+newEPC16, "+WRT: "+testEPC2+",OK", "OK")
	transport.Script("AT+WRT=PC,0,2000", "+WRT: "+testEPC2+",OK", "OK")
	transport.Script("AT+MSK=OFF", "OK")
	device := newTestDevice(t, transport)

	_, err := device.WriteTagEPC(testTID, newEPC16, 0)
	require.NoError(t, err)
	assert.Equal(t, "AT+MSK=OFF", transport.Commands()[5])
}

func TestWriteTagEPC_Reconciliation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		epcResp   string
		pcResp    string
		wantError string
		wantEPC   string
	}{
		{
			name:      "Length_Update_Failed",
			epcResp:   "+WRT: " + testEPC2 + ",OK",
			pcResp:    "+WRT: " + testEPC2 + ",ACCESS ERROR",
			wantError: "epc written, epc length not updated!",
			wantEPC:   newEPC16,
		},
		{
			name:      "Both_Writes_Failed",
			epcResp:   "+WRT: " + testEPC2 + ",ACCESS ERROR",
			pcResp:    "+WRT: " + testEPC2 + ",ACCESS ERROR",
			wantError: "epc not written - ACCESS ERROR",
			wantEPC:   testEPC2,
		},
		{
			name:      "Only_Length_Updated",
			epcResp:   "+WRT: <NO TAGS FOUND>",
			pcResp:    "+WRT: " + testEPC2 + ",OK",
			wantError: "epc not written, but epc length updated!",
			wantEPC:   testEPC2,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			transport := NewScriptedTransport()
			transport.Script("AT+READ=PC,0,2", "+READ: "+testEPC2+",OK,3000", "OK")
			transport.Script("AT+WRT=EPC,0,"+newEPC16, tt.epcResp, "OK")
			transport.Script("AT+WRT=PC,0,2000", tt.pcResp, "OK")
			device := newTestDevice(t, transport)

			tags, err := device.WriteTagEPC("", newEPC16, 0)
			require.NoError(t, err)
			require.Len(t, tags, 1)
			assert.Equal(t, tt.wantEPC, tags[0].EPC)
			assert.True(t, tags[0].HasError())
			assert.Equal(t, tt.wantError, tags[0].ErrorMessage())
		})
	}
}
