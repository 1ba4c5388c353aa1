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

package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBlocked(t *testing.T) {
	t.Parallel()

	blocklist := []string{"2341:0043", "abcd:ef01"}

	tests := []struct {
		name   string
		vidpid string
		want   bool
	}{
		{name: "Exact_Match", vidpid: "2341:0043", want: true},
		{name: "Case_Insensitive", vidpid: "ABCD:EF01", want: true},
		{name: "Whitespace_Tolerated", vidpid: " 2341:0043 ", want: true},
		{name: "Not_Listed", vidpid: "0483:5740", want: false},
		{name: "Empty", vidpid: "", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsBlocked(tt.vidpid, blocklist))
		})
	}
}

func TestIsPathIgnored(t *testing.T) {
	t.Parallel()

	ignore := []string{"/dev/ttyS0", "/dev/ttyUSB1"}

	assert.True(t, IsPathIgnored("/dev/ttyS0", ignore))
	assert.True(t, IsPathIgnored("/dev//ttyUSB1", ignore))
	assert.False(t, IsPathIgnored("/dev/ttyACM0", ignore))
	assert.False(t, IsPathIgnored("", ignore))
	assert.False(t, IsPathIgnored("/dev/ttyS0", nil))
	assert.False(t, IsPathIgnored("/dev/ttyS0", []string{""}))
}

func TestDefaultBlocklist(t *testing.T) {
	t.Parallel()

	for _, entry := range DefaultBlocklist() {
		assert.True(t, IsBlocked(entry, DefaultBlocklist()), "entry %s must match itself", entry)
	}
}
