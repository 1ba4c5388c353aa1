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

package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		verb   string
		want   string
		params []any
	}{
		{
			name: "No_Parameters",
			verb: "AT+INV",
			want: "AT+INV",
		},
		{
			name:   "Single_Parameter",
			verb:   "AT+PWR",
			params: []any{12},
			want:   "AT+PWR=12",
		},
		{
			name:   "Multiple_Parameters",
			verb:   "AT+MSK",
			params: []any{"EPC", 0, "3034"},
			want:   "AT+MSK=EPC,0,3034",
		},
		{
			name:   "Nil_Parameters_Omitted",
			verb:   "AT+Q",
			params: []any{4, nil, 15},
			want:   "AT+Q=4,15",
		},
		{
			name:   "All_Nil_Parameters",
			verb:   "AT+INVR",
			params: []any{nil},
			want:   "AT+INVR",
		},
		{
			name:   "Trailing_Nil_Omitted",
			verb:   "AT+KILL",
			params: []any{"1234ABCD", nil},
			want:   "AT+KILL=1234ABCD",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, BuildCommand(tt.verb, tt.params...))
		})
	}
}

func TestErrorDetail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "Bracketed_Message",
			body: "+KILL: <ACCESS ERROR>",
			want: "ACCESS ERROR",
		},
		{
			name: "Last_Bracket_Pair_Wins",
			body: "+INV: <ROUND FINISHED, ANT=1>\r+INV: <NO TAGS FOUND>",
			want: "NO TAGS FOUND",
		},
		{
			name: "No_Brackets",
			body: "garbage",
			want: "garbage",
		},
		{
			name: "Empty_Body",
			body: "",
			want: "",
		},
		{
			name: "Reversed_Brackets",
			body: ">oops<",
			want: ">oops<",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ErrorDetail(tt.body))
		})
	}
}

func TestSplitBody(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{""}, SplitBody(""))
	assert.Equal(t, []string{"+PWR: 12"}, SplitBody("+PWR: 12"))
	assert.Equal(t,
		[]string{"+INV: AAAA", "+INV: BBBB", "+INV: <ROUND FINISHED, ANT=1>"},
		SplitBody("+INV: AAAA\r+INV: BBBB\r+INV: <ROUND FINISHED, ANT=1>"))
}
