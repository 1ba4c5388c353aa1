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

package polling

import (
	"testing"

	qrg2 "github.com/ZaparooProject/go-qrg2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	epcA = "AAAA0000000000000000000000000001"
	epcB = "AAAA0000000000000000000000000002"
)

func pass(epcs ...string) []*qrg2.UhfTag {
	tags := make([]*qrg2.UhfTag, 0, len(epcs))
	for _, epc := range epcs {
		tags = append(tags, qrg2.NewUhfTag(epc, 0))
	}
	return tags
}

func TestMonitor_Arrival(t *testing.T) {
	t.Parallel()

	monitor := NewMonitor(nil, nil)
	var arrived []string
	monitor.OnTagArrived = func(tag *qrg2.UhfTag) {
		arrived = append(arrived, tag.EPC)
	}

	monitor.Update(pass(epcA, epcB), 100)
	assert.Equal(t, []string{epcA, epcB}, arrived)

	// Already present tags do not fire again.
	monitor.Update(pass(epcA, epcB), 101)
	assert.Len(t, arrived, 2)
}

func TestMonitor_DepartureThreshold(t *testing.T) {
	t.Parallel()

	monitor := NewMonitor(nil, &Config{DepartureThreshold: 2})
	var departed []string
	monitor.OnTagDeparted = func(tag *qrg2.UhfTag) {
		departed = append(departed, tag.EPC)
	}

	monitor.Update(pass(epcA), 100)

	// One missed pass is below the threshold.
	monitor.Update(pass(), 101)
	assert.Empty(t, departed)
	assert.Len(t, monitor.Snapshot(), 1)

	monitor.Update(pass(), 102)
	assert.Equal(t, []string{epcA}, departed)
	assert.Empty(t, monitor.Snapshot())
}

func TestMonitor_ReappearanceResetsMissCount(t *testing.T) {
	t.Parallel()

	monitor := NewMonitor(nil, &Config{DepartureThreshold: 2})
	var departed int
	monitor.OnTagDeparted = func(*qrg2.UhfTag) { departed++ }

	monitor.Update(pass(epcA), 100)
	monitor.Update(pass(), 101)
	monitor.Update(pass(epcA), 102)
	monitor.Update(pass(), 103)
	assert.Zero(t, departed)
	assert.Len(t, monitor.Snapshot(), 1)
}

func TestMonitor_TracksSeenMetadata(t *testing.T) {
	t.Parallel()

	monitor := NewMonitor(nil, nil)
	monitor.Update(pass(epcA), 100)

	second := qrg2.NewUhfTag(epcA, 0)
	second.RSSI = 1800
	second.Antenna = 2
	monitor.Update([]*qrg2.UhfTag{second}, 105)

	tags := monitor.Snapshot()
	require.Len(t, tags, 1)
	assert.Equal(t, int64(100), tags[0].FirstSeen)
	assert.Equal(t, int64(105), tags[0].LastSeen)
	assert.Equal(t, 2, tags[0].SeenCount)
	assert.Equal(t, 1800, tags[0].RSSI)
	assert.Equal(t, 2, tags[0].Antenna)
}

func TestMonitor_SnapshotSorted(t *testing.T) {
	t.Parallel()

	monitor := NewMonitor(nil, nil)
	monitor.Update(pass(epcB, epcA), 100)

	tags := monitor.Snapshot()
	require.Len(t, tags, 2)
	assert.Equal(t, epcA, tags[0].EPC)
	assert.Equal(t, epcB, tags[1].EPC)
}

func TestMonitor_IgnoresUnknownIdentity(t *testing.T) {
	t.Parallel()

	monitor := NewMonitor(nil, nil)
	monitor.Update(pass(""), 100)
	assert.Empty(t, monitor.Snapshot())
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	config := DefaultConfig()
	assert.Equal(t, 3, config.DepartureThreshold)
	assert.Positive(t, config.Interval)
}
