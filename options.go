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
	"time"
)

// Option is a functional option for configuring a Device
type Option func(*Device) error

// WithTimeout sets the default deadline for one command/response cycle
func WithTimeout(timeout time.Duration) Option {
	return func(d *Device) error {
		if timeout <= 0 {
			return ErrInvalidParameter
		}
		d.config.Timeout = timeout
		return nil
	}
}

// WithRetryConfig sets the retry configuration for idempotent commands
func WithRetryConfig(config *RetryConfig) Option {
	return func(d *Device) error {
		d.config.RetryConfig = config
		return nil
	}
}

// WithMaxRetries sets the maximum number of command attempts
func WithMaxRetries(maxAttempts int) Option {
	return func(d *Device) error {
		if d.config.RetryConfig == nil {
			d.config.RetryConfig = DefaultRetryConfig()
		}
		d.config.RetryConfig.MaxAttempts = maxAttempts
		return nil
	}
}

// WithSerialConfig overrides the serial settings applied during Init
func WithSerialConfig(config SerialConfig) Option {
	return func(d *Device) error {
		d.config.SerialConfig = config
		return nil
	}
}

// WithExpectedReaderInfo pins the identity GetReaderInfo must verify
func WithExpectedReaderInfo(info ExpectedReaderInfo) Option {
	return func(d *Device) error {
		d.expected = info
		return nil
	}
}
