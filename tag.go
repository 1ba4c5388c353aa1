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

// UnknownID is the placeholder identity of a tag record that carries
// neither an EPC nor a TID.
const UnknownID = "unknown"

// Tag is the behavior shared by transponder records regardless of how
// they are identified.
type Tag interface {
	// ID returns the tag identity used for de-duplication, or UnknownID.
	ID() string
	// HasError reports whether the record carries a per-tag error.
	HasError() bool
	// ErrorMessage returns the per-tag error text, empty when none.
	ErrorMessage() string
}

// GenericTag is one sparse transponder observation identified by its TID.
// All fields except the error pair use zero-value-means-absent semantics:
// Antenna 0 is "unknown", RSSI 0 is "absent", SeenCount 0 is "unset".
// FirstSeen and LastSeen are populated by higher-level tracking (see the
// polling package), not by the response decoders.
type GenericTag struct {
	TID       string
	Data      string
	Timestamp int64
	FirstSeen int64
	LastSeen  int64
	Antenna   int
	SeenCount int

	errorMessage string
	hasError     bool
}

// NewGenericTag returns a tag record stamped with the capture time
func NewGenericTag(tid string, timestamp int64) *GenericTag {
	return &GenericTag{TID: tid, Timestamp: timestamp}
}

// ID returns the TID, or UnknownID when none was captured
func (t *GenericTag) ID() string {
	if t.TID == "" {
		return UnknownID
	}
	return t.TID
}

// HasError reports whether the record carries a per-tag error
func (t *GenericTag) HasError() bool {
	return t.hasError
}

// ErrorMessage returns the per-tag error text, empty when none
func (t *GenericTag) ErrorMessage() string {
	return t.errorMessage
}

// SetErrorMessage sets the per-tag error. A non-empty message marks the
// record as failed; an empty message clears the error state. The two
// fields cannot diverge.
func (t *GenericTag) SetErrorMessage(message string) {
	t.errorMessage = message
	t.hasError = message != ""
}

// UhfTag is a UHF Gen2 transponder observation identified by its EPC.
type UhfTag struct {
	GenericTag
	EPC string
	// OldEPC holds the pre-rewrite identity after a successful EPC
	// rewrite; empty otherwise.
	OldEPC string
	RSSI   int
}

// NewUhfTag returns a UHF tag record stamped with the capture time
func NewUhfTag(epc string, timestamp int64) *UhfTag {
	tag := &UhfTag{EPC: epc}
	tag.Timestamp = timestamp
	return tag
}

// ID returns the EPC, or UnknownID when none was captured
func (t *UhfTag) ID() string {
	if t.EPC == "" {
		return UnknownID
	}
	return t.EPC
}
