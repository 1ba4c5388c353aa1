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
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTagResponses(t *testing.T) {
	t.Parallel()

	lines := []string{
		"+KILL: " + testEPC2 + ",OK",
		"+KILL: " + testEPC1 + ",ACCESS ERROR",
		"+KILL: <NO TAGS FOUND>",
	}

	tags, err := parseTagResponses(lines, prefixKill, time.Now().Unix())
	require.NoError(t, err)
	require.Len(t, tags, 2)

	assert.Equal(t, testEPC2, tags[0].EPC)
	assert.False(t, tags[0].HasError())

	assert.Equal(t, testEPC1, tags[1].EPC)
	assert.True(t, tags[1].HasError())
	assert.Equal(t, "ACCESS ERROR", tags[1].ErrorMessage())
}

func TestParseTagResponses_Malformed(t *testing.T) {
	t.Parallel()

	_, err := parseTagResponses([]string{"+KILL: " + testEPC2}, prefixKill, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedResponse)
}

func TestParseTagResponses_ShortLinesSkipped(t *testing.T) {
	t.Parallel()

	tags, err := parseTagResponses([]string{"", "+KILL"}, prefixKill, 0)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestKillTag(t *testing.T) {
	t.Parallel()

	transport := NewScriptedTransport()
	transport.Script("AT+KILL=1234ABCD", "+KILL: "+testEPC2+",OK", "OK")
	device := newTestDevice(t, transport)

	tags, err := device.KillTag("1234ABCD", "")
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.False(t, tags[0].HasError())
}

func TestKillTag_WithEPCMask(t *testing.T) {
	t.Parallel()

	transport := NewScriptedTransport()
	transport.Script("AT+KILL=1234ABCD,3034", "+KILL: "+testEPC2+",OK", "OK")
	device := newTestDevice(t, transport)

	_, err := device.KillTag("1234ABCD", "3034")
	require.NoError(t, err)
	assert.Equal(t, []string{"AT+KILL=1234ABCD,3034"}, transport.Commands())
}

func TestLockOperations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		op      func(*Device) ([]*UhfTag, error)
		name    string
		wantCmd string
		resp    string
	}{
		{
			name:    "Lock_User_Memory",
			op:      func(d *Device) ([]*UhfTag, error) { return d.LockUserMemory("1234ABCD", "") },
			wantCmd: "AT+LCK=USR,1234ABCD",
			resp:    "+LCK: " + testEPC2 + ",OK",
		},
		{
			name:    "Unlock_EPC_Memory",
			op:      func(d *Device) ([]*UhfTag, error) { return d.UnlockEPCMemory("1234ABCD", "") },
			wantCmd: "AT+ULCK=EPC,1234ABCD",
			resp:    "+ULCK: " + testEPC2 + ",OK",
		},
		{
			name:    "Permanent_Lock_Kill_Region",
			op:      func(d *Device) ([]*UhfTag, error) { return d.LockTagPermanent(LockKill, "1234ABCD", "") },
			wantCmd: "AT+PLCK=KILL,1234ABCD",
			resp:    "+PLCK: " + testEPC2 + ",OK",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			transport := NewScriptedTransport()
			transport.Script(tt.wantCmd, tt.resp, "OK")
			device := newTestDevice(t, transport)

			tags, err := tt.op(device)
			require.NoError(t, err)
			require.Len(t, tags, 1)
			assert.False(t, tags[0].HasError())
			assert.Equal(t, []string{tt.wantCmd}, transport.Commands())
		})
	}
}

func TestLockTag_AccessError(t *testing.T) {
	t.Parallel()

	transport := NewScriptedTransport()
	transport.Script("AT+LCK=EPC,00000000", "+LCK: "+testEPC2+",ACCESS ERROR", "OK")
	device := newTestDevice(t, transport)

	tags, err := device.LockTag(MemoryEPC, "00000000", "")
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.True(t, tags[0].HasError())
	assert.Equal(t, "ACCESS ERROR", tags[0].ErrorMessage())
}

func TestSetPasswords(t *testing.T) {
	t.Parallel()

	transport := NewScriptedTransport()
	transport.Script("AT+PWD=LCK,00000000,1234ABCD", "+PWD: "+testEPC2+",OK", "OK")
	transport.Script("AT+PWD=KILL,00000000,1234ABCD", "+PWD: "+testEPC2+",OK", "OK")
	device := newTestDevice(t, transport)

	tags, err := device.SetLockPassword("00000000", "1234ABCD", "")
	require.NoError(t, err)
	require.Len(t, tags, 1)

	tags, err = device.SetKillPassword("00000000", "1234ABCD", "")
	require.NoError(t, err)
	require.Len(t, tags, 1)
}
