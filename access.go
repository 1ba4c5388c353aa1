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
	"fmt"
	"strings"
	"time"
)

// accessTimeout is the command deadline for lock/unlock operations; the
// device iterates the whole selected population before answering.
const accessTimeout = 10 * time.Second

// KillTag kills every currently selected transponder using the given
// kill password (32 bit, 8 hex digits). A tag record with error state
// means the kill failed for that tag.
func (d *Device) KillTag(password, epcMask string) ([]*UhfTag, error) {
	return d.KillTagContext(context.Background(), password, epcMask)
}

// KillTagContext kills selected transponders with context support
func (d *Device) KillTagContext(ctx context.Context, password, epcMask string) ([]*UhfTag, error) {
	// AT+KILL=1234ABCD
	// +KILL: ABCD01237654321001234567,ACCESS ERROR
	lines, err := d.sendCommand(ctx, cmdKill, password, optionalParam(epcMask))
	if err != nil {
		return nil, err
	}
	return parseTagResponses(lines, prefixKill, time.Now().Unix())
}

// LockTag locks a memory region of the selected transponders with the
// given access password. Regions: MemoryEPC, MemoryUSR, MemoryTID,
// LockKill, LockLck.
func (d *Device) LockTag(region Memory, password, epcMask string) ([]*UhfTag, error) {
	return d.lockOp(context.Background(), cmdLock, prefixLock, region, password, epcMask)
}

// UnlockTag unlocks a memory region of the selected transponders
func (d *Device) UnlockTag(region Memory, password, epcMask string) ([]*UhfTag, error) {
	return d.lockOp(context.Background(), cmdUnlock, prefixUnlock, region, password, epcMask)
}

// LockTagPermanent permanently locks a memory region of the selected
// transponders. This cannot be undone.
func (d *Device) LockTagPermanent(region Memory, password, epcMask string) ([]*UhfTag, error) {
	return d.lockOp(context.Background(), cmdLockPermanent, prefixLockPermanent, region, password, epcMask)
}

// LockUserMemory locks the user memory bank
func (d *Device) LockUserMemory(password, epcMask string) ([]*UhfTag, error) {
	return d.LockTag(MemoryUSR, password, epcMask)
}

// LockEPCMemory locks the EPC memory bank
func (d *Device) LockEPCMemory(password, epcMask string) ([]*UhfTag, error) {
	return d.LockTag(MemoryEPC, password, epcMask)
}

// UnlockUserMemory unlocks the user memory bank
func (d *Device) UnlockUserMemory(password, epcMask string) ([]*UhfTag, error) {
	return d.UnlockTag(MemoryUSR, password, epcMask)
}

// UnlockEPCMemory unlocks the EPC memory bank
func (d *Device) UnlockEPCMemory(password, epcMask string) ([]*UhfTag, error) {
	return d.UnlockTag(MemoryEPC, password, epcMask)
}

// LockUserMemoryPermanent permanently locks the user memory bank
func (d *Device) LockUserMemoryPermanent(password, epcMask string) ([]*UhfTag, error) {
	return d.LockTagPermanent(MemoryUSR, password, epcMask)
}

// LockEPCMemoryPermanent permanently locks the EPC memory bank
func (d *Device) LockEPCMemoryPermanent(password, epcMask string) ([]*UhfTag, error) {
	return d.LockTagPermanent(MemoryEPC, password, epcMask)
}

// SetLockPassword changes the access password of the selected
// transponders (32 bit, 8 hex digits).
func (d *Device) SetLockPassword(password, newPassword, epcMask string) ([]*UhfTag, error) {
	return d.setPassword(context.Background(), passwordTargetLock, password, newPassword, epcMask)
}

// SetKillPassword changes the kill password of the selected transponders
func (d *Device) SetKillPassword(password, newPassword, epcMask string) ([]*UhfTag, error) {
	return d.setPassword(context.Background(), passwordTargetKill, password, newPassword, epcMask)
}

func (d *Device) lockOp(
	ctx context.Context, verb string, prefixLen int, region Memory, password, epcMask string,
) ([]*UhfTag, error) {
	// AT+LCK=USR,1234ABCD
	// +LCK: ABCD01237654321001234567,ACCESS ERROR
	opts := commandOptions{expectEcho: true, timeout: accessTimeout}
	lines, err := d.sendCommandOpts(ctx, opts, verb, region, password, optionalParam(epcMask))
	if err != nil {
		return nil, err
	}
	return parseTagResponses(lines, prefixLen, time.Now().Unix())
}

func (d *Device) setPassword(
	ctx context.Context, target, password, newPassword, epcMask string,
) ([]*UhfTag, error) {
	// AT+PWD=LCK,1234ABCD,1234ABCD
	// +PWD: ABCD01237654321001234567,ACCESS ERROR
	lines, err := d.sendCommand(ctx, cmdPassword, target, password, newPassword, optionalParam(epcMask))
	if err != nil {
		return nil, err
	}
	return parseTagResponses(lines, prefixPassword, time.Now().Unix())
}

// parseTagResponses decodes the one-line-per-tag response format shared
// by the write, kill, lock and password commands:
//
//	+VERB: <EPC>,<STATUS>
//
// A status of OK yields a clean record; anything else becomes the
// record's error message. Event lines at the prefix offset carry no tag
// and are skipped. Emitted order matches line order; duplicate EPCs are
// not merged.
func parseTagResponses(lines []string, prefixLen int, timestamp int64) ([]*UhfTag, error) {
	tags := make([]*UhfTag, 0, len(lines))
	for _, line := range lines {
		if len(line) <= prefixLen {
			continue
		}
		if line[prefixLen] == '<' {
			// status event (e.g. NO TAGS FOUND), no tag
			continue
		}
		info := strings.Split(line[prefixLen:], ",")
		if len(info) < 2 {
			return nil, newReaderError(ErrUnexpectedResponse, "",
				fmt.Sprintf("not expected tag response - %s", line))
		}
		tag := NewUhfTag(info[0], timestamp)
		if info[1] != "OK" {
			tag.SetErrorMessage(info[1])
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
