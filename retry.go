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
	"math/rand"
	"time"
)

// RetryConfig configures retry behavior for idempotent command cycles.
// Only timeout- and transport-class failures are retried; a device that
// answered ERROR gave a definitive result and is never asked again.
type RetryConfig struct {
	// MaxAttempts is the total number of command cycles, including the
	// first one. 1 disables retries.
	MaxAttempts int
	// InitialBackoff is the delay before the first retry
	InitialBackoff time.Duration
	// MaxBackoff caps the exponential backoff growth
	MaxBackoff time.Duration
	// BackoffMultiplier is the exponential growth factor
	BackoffMultiplier float64
	// Jitter is the random fraction (0..1) added to each backoff
	Jitter float64
}

// DefaultRetryConfig returns the retry settings used when none are given
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    50 * time.Millisecond,
		MaxBackoff:        500 * time.Millisecond,
		BackoffMultiplier: 2.0,
		Jitter:            0.1,
	}
}

// backoff returns the delay before the given retry attempt (1-based)
func (c *RetryConfig) backoff(attempt int) time.Duration {
	delay := c.InitialBackoff
	for i := 1; i < attempt; i++ {
		delay = time.Duration(float64(delay) * c.BackoffMultiplier)
		if delay >= c.MaxBackoff {
			delay = c.MaxBackoff
			break
		}
	}
	if c.Jitter > 0 {
		delay += time.Duration(rand.Float64() * c.Jitter * float64(delay)) //nolint:gosec // jitter needs no crypto rand
	}
	return delay
}
