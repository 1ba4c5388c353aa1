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

// Package frame builds and dissects AT protocol lines for the QRG2 driver.
package frame

import (
	"fmt"
	"strings"
)

// Wire framing of the AT protocol
const (
	// Terminator ends every transmitted command. The device terminates
	// its own lines with CR+LF; no LF is appended on send.
	Terminator = "\r"

	// TerminalOK and TerminalError are the literal lines ending every
	// command/response exchange.
	TerminalOK    = "OK"
	TerminalError = "ERROR"

	// EventMarker introduces a bracketed status event inside a response
	// line, e.g. "+INV: <NO TAGS FOUND>".
	EventMarker = '<'
)

// BuildCommand joins a verb and its parameters in AT style: "VERB" when no
// parameters are present, otherwise "VERB=p1,p2,...". Nil parameters are
// omitted from the comma-joined list while the relative order of the
// present ones is preserved. Values are not quoted or escaped; callers
// pre-format hex strings and decimal integers.
func BuildCommand(verb string, params ...any) string {
	present := make([]string, 0, len(params))
	for _, p := range params {
		if p == nil {
			continue
		}
		present = append(present, fmt.Sprint(p))
	}
	if len(present) == 0 {
		return verb
	}
	return verb + "=" + strings.Join(present, ",")
}

// ErrorDetail extracts the message between the last '<' and the last '>'
// of an accumulated response body. When no angle brackets are found the
// whole body is the detail.
func ErrorDetail(body string) string {
	open := strings.LastIndexByte(body, '<')
	closing := strings.LastIndexByte(body, '>')
	if open < 0 || closing < 0 || closing <= open {
		return body
	}
	return body[open+1 : closing]
}

// SplitBody splits an accumulated response body on the internal
// carriage-return boundaries of a multi-line block. An empty body yields
// a single empty line rather than an empty slice, so callers indexing
// the first line see the same shape for empty and one-line responses.
func SplitBody(body string) []string {
	if body == "" {
		return []string{""}
	}
	return strings.Split(body, "\r")
}
