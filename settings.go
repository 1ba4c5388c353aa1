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
	"strconv"
	"strings"
)

// InventorySettings controls the inventory response format
type InventorySettings struct {
	// OnlyNewTag reports each tag only once until it leaves the field
	OnlyNewTag bool
	// WithRSSI appends the signal strength to every tag line
	WithRSSI bool
	// WithTID appends the TID to every tag line
	WithTID bool
}

// MaskSettings is the current select mask configuration
type MaskSettings struct {
	Memory  Memory
	Mask    string
	Start   int
	Enabled bool
}

// GetInventorySettings queries the current inventory response format
func (d *Device) GetInventorySettings() (InventorySettings, error) {
	return d.GetInventorySettingsContext(context.Background())
}

// GetInventorySettingsContext queries the inventory response format with
// context support
func (d *Device) GetInventorySettingsContext(ctx context.Context) (InventorySettings, error) {
	query := cmdInventorySettings + querySuffix
	lines, err := d.sendCommandOpts(ctx, commandOptions{expectEcho: true, idempotent: true}, query)
	if err != nil {
		return InventorySettings{}, err
	}
	// +INVS: 0,1,0
	if len(lines[0]) < prefixInvSettings+5 {
		return InventorySettings{}, newReaderError(ErrUnexpectedResponse, query,
			fmt.Sprintf("not expected response - %v", lines))
	}
	return InventorySettings{
		OnlyNewTag: lines[0][prefixInvSettings] == '1',
		WithRSSI:   lines[0][prefixInvSettings+2] == '1',
		WithTID:    lines[0][prefixInvSettings+4] == '1',
	}, nil
}

// SetInventorySettings configures the inventory response format and
// updates the configuration mirror on success.
func (d *Device) SetInventorySettings(settings InventorySettings) error {
	return d.SetInventorySettingsContext(context.Background(), settings)
}

// SetInventorySettingsContext configures the inventory response format
// with context support
func (d *Device) SetInventorySettingsContext(ctx context.Context, settings InventorySettings) error {
	_, err := d.sendCommand(ctx, cmdInventorySettings,
		boolFlag(settings.OnlyNewTag), boolFlag(settings.WithRSSI), boolFlag(settings.WithTID))
	if err != nil {
		return err
	}
	d.inventorySettings = settings
	return nil
}

// SetRegion sets the UHF regulatory region, e.g. "ETSI" or "FCC"
func (d *Device) SetRegion(region string) error {
	_, err := d.sendCommand(context.Background(), cmdRegion, region)
	return err
}

// GetRegion returns the configured UHF regulatory region
func (d *Device) GetRegion() (string, error) {
	query := cmdRegion + querySuffix
	lines, err := d.sendCommandOpts(context.Background(),
		commandOptions{expectEcho: true, idempotent: true}, query)
	if err != nil {
		return "", err
	}
	// +REG: ETSI
	if len(lines[0]) < prefixRegion {
		return "", newReaderError(ErrUnexpectedResponse, query,
			fmt.Sprintf("not expected response - %v", lines))
	}
	return lines[0][prefixRegion:], nil
}

// SetPower sets the antenna output power in dBm for all antennas
func (d *Device) SetPower(power int) error {
	_, err := d.sendCommand(context.Background(), cmdPower, power)
	return err
}

// GetPower returns the current antenna output power in dBm
func (d *Device) GetPower() (int, error) {
	query := cmdPower + querySuffix
	lines, err := d.sendCommandOpts(context.Background(),
		commandOptions{expectEcho: true, idempotent: true}, query)
	if err != nil {
		return 0, err
	}
	// +PWR: 9
	if len(lines[0]) < prefixPowerResp+1 {
		return 0, newReaderError(ErrUnexpectedResponse, query,
			fmt.Sprintf("not expected response - %v", lines))
	}
	power, err := strconv.Atoi(lines[0][prefixPowerResp:])
	if err != nil {
		return 0, newReaderError(ErrUnexpectedResponse, query,
			fmt.Sprintf("not expected response - %v", lines))
	}
	return power, nil
}

// SetAntenna selects the active antenna port and mirrors the choice so
// inventory results can be stamped with it.
func (d *Device) SetAntenna(antenna int) error {
	if _, err := d.sendCommand(context.Background(), cmdAntenna, antenna); err != nil {
		return err
	}
	d.antenna = antenna
	return nil
}

// GetAntenna returns the active antenna port
func (d *Device) GetAntenna() (int, error) {
	query := cmdAntenna + querySuffix
	lines, err := d.sendCommandOpts(context.Background(),
		commandOptions{expectEcho: true, idempotent: true}, query)
	if err != nil {
		return 0, err
	}
	// +ANT: 1
	fields := strings.SplitN(lines[0], ": ", 2)
	if len(fields) < 2 {
		return 0, newReaderError(ErrUnexpectedResponse, query,
			fmt.Sprintf("not expected response - %v", lines))
	}
	antenna, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, newReaderError(ErrUnexpectedResponse, query,
			fmt.Sprintf("not expected response - %v", lines))
	}
	return antenna, nil
}

// SetTagSize hints the expected transponder population size. The device
// wants power-of-two exponents, so the smallest q with 2^q >= count is
// derived for the expected, minimum and maximum counts independently.
// A maxTags of 0 omits the maximum from the command.
func (d *Device) SetTagSize(tagsSize, minTags, maxTags int) error {
	qStart := qExponent(tagsSize)
	qMin := 0
	if minTags > 0 {
		qMin = qExponent(minTags)
	}
	var qMax any
	if maxTags > 0 {
		qMax = qExponent(maxTags)
	}
	_, err := d.sendCommand(context.Background(), cmdTagSize, qStart, qMin, qMax)
	return err
}

// GetTagSize returns the configured expected population size (2^q)
func (d *Device) GetTagSize() (int, error) {
	query := cmdTagSize + querySuffix
	lines, err := d.sendCommandOpts(context.Background(),
		commandOptions{expectEcho: true, idempotent: true}, query)
	if err != nil {
		return 0, err
	}
	// +Q: 4,2,15
	if len(lines[0]) < prefixTagSize+1 {
		return 0, newReaderError(ErrUnexpectedResponse, query,
			fmt.Sprintf("not expected response - %v", lines))
	}
	settings := strings.Split(lines[0][prefixTagSize:], ",")
	q, err := strconv.Atoi(settings[0])
	if err != nil {
		return 0, newReaderError(ErrUnexpectedResponse, query,
			fmt.Sprintf("not expected response - %v", lines))
	}
	return 1 << q, nil
}

// qExponent returns the smallest q such that 2^q >= count
func qExponent(count int) int {
	q := 0
	for count > 1<<q {
		q++
	}
	return q
}

// SetMask installs a byte-aligned select mask: only tags whose memory at
// the given byte offset matches the hex mask respond to subsequent
// commands.
func (d *Device) SetMask(memory Memory, start int, mask string) error {
	_, err := d.sendCommand(context.Background(), cmdMask, memory, start, mask)
	return err
}

// GetMask returns the current byte-aligned mask configuration
func (d *Device) GetMask() (MaskSettings, error) {
	return d.getMask(cmdMask, prefixMask)
}

// ResetMask removes the byte-aligned mask
func (d *Device) ResetMask() error {
	_, err := d.sendCommand(context.Background(), cmdMask, maskOff)
	return err
}

// SetBitMask installs a bit-aligned select mask given as a binary string,
// e.g. "0110", at the given bit offset.
func (d *Device) SetBitMask(memory Memory, start int, mask string) error {
	_, err := d.sendCommand(context.Background(), cmdBitMask, memory, start, mask)
	return err
}

// GetBitMask returns the current bit-aligned mask configuration
func (d *Device) GetBitMask() (MaskSettings, error) {
	return d.getMask(cmdBitMask, prefixBitMask)
}

// ResetBitMask removes the bit-aligned mask
func (d *Device) ResetBitMask() error {
	_, err := d.sendCommand(context.Background(), cmdBitMask, maskOff)
	return err
}

func (d *Device) getMask(verb string, prefixLen int) (MaskSettings, error) {
	query := verb + querySuffix
	lines, err := d.sendCommandOpts(context.Background(),
		commandOptions{expectEcho: true, idempotent: true}, query)
	if err != nil {
		return MaskSettings{}, err
	}
	// +MSK: EPC,0,0000
	// +MSK: OFF
	if len(lines[0]) < prefixLen {
		return MaskSettings{}, newReaderError(ErrUnexpectedResponse, query,
			fmt.Sprintf("not expected response - %v", lines))
	}
	data := strings.Split(lines[0][prefixLen:], ",")
	if data[0] == maskOff {
		return MaskSettings{Enabled: false}, nil
	}
	if len(data) < 3 {
		return MaskSettings{}, newReaderError(ErrUnexpectedResponse, query,
			fmt.Sprintf("not expected response - %v", lines))
	}
	start, err := strconv.Atoi(data[1])
	if err != nil {
		return MaskSettings{}, newReaderError(ErrUnexpectedResponse, query,
			fmt.Sprintf("not expected response - %v", lines))
	}
	return MaskSettings{
		Enabled: true,
		Memory:  Memory(data[0]),
		Start:   start,
		Mask:    data[2],
	}, nil
}

// boolFlag renders a bool as the protocol's 0/1 flag
func boolFlag(value bool) int {
	if value {
		return 1
	}
	return 0
}
