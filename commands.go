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

// AT command verbs of the QRG2 protocol
const (
	cmdEchoOn              = "ATE1"
	cmdReaderInfo          = "ATI"
	cmdInventory           = "AT+INV"
	cmdInventoryReport     = "AT+INVR"
	cmdStopInventory       = "AT+BINV"
	cmdStopInventoryReport = "AT+BINVR"
	cmdInventorySettings   = "AT+INVS"
	cmdRegion              = "AT+REG"
	cmdPower               = "AT+PWR"
	cmdTagSize             = "AT+Q"
	cmdAntenna             = "AT+ANT"
	cmdMask                = "AT+MSK"
	cmdBitMask             = "AT+BMSK"
	cmdReadData            = "AT+READ"
	cmdWriteData           = "AT+WRT"
	cmdKill                = "AT+KILL"
	cmdLock                = "AT+LCK"
	cmdUnlock              = "AT+ULCK"
	cmdLockPermanent       = "AT+PLCK"
	cmdPassword            = "AT+PWD"
)

// querySuffix turns a set verb into its query form, e.g. "AT+PWR?"
const querySuffix = "?"

// Memory identifies a Gen2 tag memory bank
type Memory string

// Gen2 memory banks addressable by mask, read and write commands
const (
	MemoryPC  Memory = "PC"
	MemoryEPC Memory = "EPC"
	MemoryUSR Memory = "USR"
	MemoryTID Memory = "TID"
)

// Lock regions accepted by AT+LCK/AT+ULCK/AT+PLCK. These extend the
// memory banks with the lock and kill password regions.
const (
	LockKill Memory = "KILL"
	LockLck  Memory = "LCK"
)

// passwordTargetLock/Kill select which password AT+PWD changes
const (
	passwordTargetLock = "LCK"
	passwordTargetKill = "KILL"
)

// maskOff is the wire form for "no mask active"
const maskOff = "OFF"

// Response prefix lengths, i.e. len("+VERB: ") for each response family.
// The decoders index into response lines at these fixed offsets.
const (
	prefixInventory       = 6 // "+INV: "
	prefixInventoryReport = 7 // "+INVR: "
	prefixRead            = 7 // "+READ: "
	prefixWrite           = 6 // "+WRT: "
	prefixKill            = 7 // "+KILL: "
	prefixLock            = 6 // "+LCK: "
	prefixUnlock          = 7 // "+ULCK: "
	prefixLockPermanent   = 7 // "+PLCK: "
	prefixPassword        = 6 // "+PWD: "
	prefixInvSettings     = 7 // "+INVS: "
	prefixRegion          = 6 // "+REG: "
	prefixPowerResp       = 6 // "+PWR: "
	prefixTagSize         = 4 // "+Q: "
	prefixMask            = 6 // "+MSK: "
	prefixBitMask         = 7 // "+BMSK: "
)
