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
	"time"
)

// GetInventory runs one inventory pass on the current antenna and returns
// the transponders found. Antenna-level errors abort the call.
func (d *Device) GetInventory() ([]*UhfTag, error) {
	return d.GetInventoryContext(context.Background(), false)
}

// GetInventoryContext runs one inventory pass with context support.
// With ignoreAntennaErrors set, antenna-level error events are skipped
// instead of aborting the pass.
func (d *Device) GetInventoryContext(ctx context.Context, ignoreAntennaErrors bool) ([]*UhfTag, error) {
	lines, err := d.sendCommand(ctx, cmdInventory)
	if err != nil {
		return nil, err
	}
	tags, err := d.parseInventory(lines, time.Now().Unix(), prefixInventory, ignoreAntennaErrors, false)
	if err != nil {
		return nil, err
	}
	if d.antenna != 0 {
		for _, tag := range tags {
			tag.Antenna = d.antenna
		}
	}
	return tags, nil
}

// GetInventoryReport runs a timed inventory over the given window
// (typically 1ms..1s) and returns the transponders found with their
// per-tag occurrence counts. A zero duration uses the device default.
func (d *Device) GetInventoryReport(duration time.Duration) ([]*UhfTag, error) {
	return d.GetInventoryReportContext(context.Background(), duration, false)
}

// GetInventoryReportContext runs a timed inventory with context support
func (d *Device) GetInventoryReportContext(
	ctx context.Context, duration time.Duration, ignoreAntennaErrors bool,
) ([]*UhfTag, error) {
	var lines []string
	var err error
	if duration == 0 {
		lines, err = d.sendCommand(ctx, cmdInventoryReport)
	} else {
		// The report blocks for its whole window; budget the command
		// deadline accordingly.
		opts := commandOptions{expectEcho: true, timeout: d.config.Timeout + duration}
		lines, err = d.sendCommandOpts(ctx, opts, cmdInventoryReport, duration.Milliseconds())
	}
	if err != nil {
		return nil, err
	}
	return d.parseInventory(lines, time.Now().Unix(), prefixInventoryReport, ignoreAntennaErrors, true)
}

// parseInventory decodes inventory-class response lines into tag records.
//
//	+INV: 0209202015604090990000145549021C,E200600311753F23,1807
//	+INV: <ROUND FINISHED, ANT=2>
//
// splitIndex is where the payload begins after the response prefix.
// Status events (no tags, round finished, antenna errors) are folded in:
// a round-finished event captures the antenna that is stamped onto every
// tag of the pass, and a pending error event makes the whole pass fail
// after the lines are consumed.
func (d *Device) parseInventory(
	lines []string, timestamp int64, splitIndex int, ignoreErrors, isReport bool,
) ([]*UhfTag, error) {
	withTID := d.inventorySettings.WithTID
	withRSSI := d.inventorySettings.WithRSSI

	inventory := make([]*UhfTag, 0, len(lines))
	antenna := 0
	pendingError := ""
	for _, line := range lines {
		if len(line) == 0 || line[0] != '+' {
			continue
		}
		if len(line) <= splitIndex {
			continue
		}
		if line[splitIndex] == '<' {
			// Status event: NO TAGS FOUND / ROUND FINISHED ANT=2 /
			// antenna error.
			switch line[splitIndex+1] {
			case 'N':
				// no tags, nothing to record
			case 'R':
				// ROUND FINISHED, ANT=2 - antenna digit sits before the
				// closing bracket. Best effort, a parse failure is not
				// fatal.
				parsed, err := strconv.Atoi(line[len(line)-2 : len(line)-1])
				if err != nil {
					debugf("error parsing inventory response %q: %v", line, err)
				} else {
					antenna = parsed
				}
			default:
				if !ignoreErrors {
					pendingError = line[splitIndex+1 : len(line)-1]
					debugf("inventory error event: %s", pendingError)
				}
			}
			continue
		}

		tag, err := parseInventoryTag(line[splitIndex:], timestamp, withTID, withRSSI, isReport)
		if err != nil {
			return nil, newReaderError(ErrUnexpectedResponse, cmdInventory,
				fmt.Sprintf("not expected inventory response - %s", line))
		}
		inventory = append(inventory, tag)
	}

	if pendingError != "" {
		msg := pendingError
		if antenna != 0 {
			d.antennaErrors[fmt.Sprintf("Antenna %d", antenna)] = pendingError
			msg = fmt.Sprintf("%s - Antenna %d", pendingError, antenna)
		} else {
			d.antennaErrors["message"] = pendingError
		}
		return nil, newReaderError(ErrDeviceFailure, cmdInventory, msg)
	}

	if antenna != 0 {
		for _, tag := range inventory {
			tag.Antenna = antenna
		}
	}
	return inventory, nil
}

// parseInventoryTag decodes one comma-separated tag line body. The field
// layout depends on the configured inventory settings: EPC, then TID
// (with_tid), then RSSI (with_rssi, shifted by one when TID is present),
// then in report mode a trailing occurrence count.
func parseInventoryTag(body string, timestamp int64, withTID, withRSSI, isReport bool) (*UhfTag, error) {
	info := strings.Split(body, ",")
	tag := NewUhfTag(info[0], timestamp)

	if withTID {
		if len(info) < 2 {
			return nil, fmt.Errorf("missing tid field in %q", body)
		}
		tag.TID = info[1]
	}
	if withRSSI {
		rssiIndex := 1
		if withTID {
			rssiIndex = 2
		}
		if len(info) <= rssiIndex {
			return nil, fmt.Errorf("missing rssi field in %q", body)
		}
		rssi, err := strconv.Atoi(info[rssiIndex])
		if err != nil {
			return nil, fmt.Errorf("invalid rssi field in %q: %w", body, err)
		}
		tag.RSSI = rssi
	}
	if isReport {
		count, err := strconv.Atoi(info[len(info)-1])
		if err != nil {
			return nil, fmt.Errorf("invalid seen count in %q: %w", body, err)
		}
		tag.SeenCount = count
	}
	return tag, nil
}
