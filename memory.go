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
	"context"
	"strings"
	"time"
)

// ReadTagData reads length bytes starting at the given address from a
// memory bank of every currently selected transponder. An epcMask
// restricts the operation to tags whose EPC starts with the mask; pass
// "" for no filter. Per-tag read failures are reported on the individual
// records, not as an error.
func (d *Device) ReadTagData(start, length int, memory Memory, epcMask string) ([]*UhfTag, error) {
	return d.ReadTagDataContext(context.Background(), start, length, memory, epcMask)
}

// ReadTagDataContext reads tag memory with context support
func (d *Device) ReadTagDataContext(
	ctx context.Context, start, length int, memory Memory, epcMask string,
) ([]*UhfTag, error) {
	lines, err := d.sendCommand(ctx, cmdReadData, memory, start, length, optionalParam(epcMask))
	if err != nil {
		return nil, err
	}

	// +READ: 3034257BF468D480000003EE,OK,0000
	// +READ: <NO TAGS FOUND>
	timestamp := time.Now().Unix()
	inventory := make([]*UhfTag, 0, len(lines))
	for _, line := range lines {
		if len(line) <= prefixRead {
			continue
		}
		if line[prefixRead] == '<' {
			// status event, no tag
			continue
		}
		info := strings.Split(line[prefixRead:], ",")
		tag := NewUhfTag(info[0], timestamp)
		// A short line here means the read aborted mid-response; keep
		// the identity, drop the payload.
		if len(info) >= 2 {
			if info[1] == "OK" && len(info) >= 3 {
				tag.Data = info[2]
			} else if info[1] != "OK" {
				tag.SetErrorMessage(info[1])
			}
		}
		inventory = append(inventory, tag)
	}
	return inventory, nil
}

// ReadTagUSR reads from the user memory bank
func (d *Device) ReadTagUSR(start, length int, epcMask string) ([]*UhfTag, error) {
	return d.ReadTagData(start, length, MemoryUSR, epcMask)
}

// ReadTagTID reads the tag identifier bank. A length of 4 words covers
// the common TID layout.
func (d *Device) ReadTagTID(start, length int, epcMask string) ([]*UhfTag, error) {
	return d.ReadTagData(start, length, MemoryTID, epcMask)
}

// WriteTagData writes a hex payload starting at the given address into a
// memory bank of every currently selected transponder. Per-tag write
// failures are reported on the individual records, not as an error.
func (d *Device) WriteTagData(data string, start int, memory Memory, epcMask string) ([]*UhfTag, error) {
	return d.WriteTagDataContext(context.Background(), data, start, memory, epcMask)
}

// WriteTagDataContext writes tag memory with context support
func (d *Device) WriteTagDataContext(
	ctx context.Context, data string, start int, memory Memory, epcMask string,
) ([]*UhfTag, error) {
	lines, err := d.sendCommand(ctx, cmdWriteData, memory, start, data, optionalParam(epcMask))
	if err != nil {
		return nil, err
	}
	return parseTagResponses(lines, prefixWrite, time.Now().Unix())
}

// WriteTagUSR writes a hex payload to the user memory bank
func (d *Device) WriteTagUSR(data string, start int, epcMask string) ([]*UhfTag, error) {
	if data == "" {
		return nil, newReaderError(ErrInvalidParameter, cmdWriteData, "data must be set")
	}
	return d.WriteTagData(data, start, MemoryUSR, epcMask)
}

// optionalParam maps an empty string to an omitted command parameter
func optionalParam(value string) any {
	if value == "" {
		return nil
	}
	return value
}
