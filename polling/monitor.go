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

// Package polling tracks the transponder population over repeated
// inventory passes and raises arrival/departure events per tag.
package polling

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	qrg2 "github.com/ZaparooProject/go-qrg2"
)

// Config controls the monitoring loop
type Config struct {
	// Interval is the delay between inventory passes
	Interval time.Duration
	// DepartureThreshold is how many consecutive passes a tag must be
	// missing from before it is reported as departed. UHF reads are
	// noisy; a single missed pass rarely means the tag left the field.
	DepartureThreshold int
	// IgnoreAntennaErrors skips antenna error events instead of
	// surfacing them through OnError
	IgnoreAntennaErrors bool
}

// DefaultConfig returns default monitoring configuration
func DefaultConfig() *Config {
	return &Config{
		Interval:           100 * time.Millisecond,
		DepartureThreshold: 3,
	}
}

// Monitor runs repeated inventory passes on a reader and tracks which
// transponders are present in the field.
type Monitor struct {
	device *qrg2.Device
	config *Config

	// OnTagArrived fires when a tag is seen for the first time
	OnTagArrived func(tag *qrg2.UhfTag)
	// OnTagDeparted fires after a tag missed DepartureThreshold passes
	OnTagDeparted func(tag *qrg2.UhfTag)
	// OnError fires for failed inventory passes; the loop keeps running
	OnError func(err error)

	mu      sync.Mutex
	present map[string]*presence
}

type presence struct {
	tag    *qrg2.UhfTag
	missed int
}

// NewMonitor creates a monitor for an initialized device
func NewMonitor(device *qrg2.Device, config *Config) *Monitor {
	if config == nil {
		config = DefaultConfig()
	}
	return &Monitor{
		device:  device,
		config:  config,
		present: make(map[string]*presence),
	}
}

// Start runs the monitoring loop until the context is cancelled. The
// device must not be used from other goroutines while the loop runs.
func (m *Monitor) Start(ctx context.Context) error {
	for {
		m.poll(ctx)

		select {
		case <-ctx.Done():
			return fmt.Errorf("monitor stopped: %w", ctx.Err())
		case <-time.After(m.config.Interval):
		}
	}
}

// Snapshot returns the tags currently considered present, sorted by EPC
func (m *Monitor) Snapshot() []*qrg2.UhfTag {
	m.mu.Lock()
	defer m.mu.Unlock()

	tags := make([]*qrg2.UhfTag, 0, len(m.present))
	for _, p := range m.present {
		tags = append(tags, p.tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].EPC < tags[j].EPC })
	return tags
}

func (m *Monitor) poll(ctx context.Context) {
	tags, err := m.device.GetInventoryContext(ctx, m.config.IgnoreAntennaErrors)
	if err != nil {
		if m.OnError != nil {
			m.OnError(err)
		}
		return
	}
	m.Update(tags, time.Now().Unix())
}

// Update folds one inventory pass into the presence state. It is
// exported so results from externally driven passes (e.g. inventory
// reports) can feed the same tracking.
func (m *Monitor) Update(tags []*qrg2.UhfTag, timestamp int64) {
	m.mu.Lock()

	seen := make(map[string]bool, len(tags))
	var arrived []*qrg2.UhfTag
	for _, tag := range tags {
		id := tag.ID()
		if id == qrg2.UnknownID {
			continue
		}
		seen[id] = true

		if p, ok := m.present[id]; ok {
			p.missed = 0
			p.tag.LastSeen = timestamp
			p.tag.SeenCount++
			if tag.RSSI != 0 {
				p.tag.RSSI = tag.RSSI
			}
			if tag.Antenna != 0 {
				p.tag.Antenna = tag.Antenna
			}
			continue
		}

		tag.FirstSeen = timestamp
		tag.LastSeen = timestamp
		tag.SeenCount = 1
		m.present[id] = &presence{tag: tag}
		arrived = append(arrived, tag)
	}

	var departed []*qrg2.UhfTag
	for id, p := range m.present {
		if seen[id] {
			continue
		}
		p.missed++
		if p.missed >= m.config.DepartureThreshold {
			departed = append(departed, p.tag)
			delete(m.present, id)
		}
	}
	m.mu.Unlock()

	// Callbacks run outside the lock so they may call Snapshot.
	if m.OnTagArrived != nil {
		for _, tag := range arrived {
			m.OnTagArrived(tag)
		}
	}
	if m.OnTagDeparted != nil {
		for _, tag := range departed {
			m.OnTagDeparted(tag)
		}
	}
}
