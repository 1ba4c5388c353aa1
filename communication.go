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

	"github.com/ZaparooProject/go-qrg2/internal/frame"
)

// commandOptions tunes one command/response cycle
type commandOptions struct {
	// timeout overrides the configured default when non-zero
	timeout time.Duration
	// expectEcho waits for the command echo before accumulating the
	// response. Fire-and-forget initialization commands clear this.
	expectEcho bool
	// idempotent marks the command as safe to re-issue after a timeout
	idempotent bool
}

// SendRawCommand sends an arbitrary AT command and returns the response
// body lines. Nil parameters are omitted from the framed command. Most
// callers should prefer the typed operations of the Device.
func (d *Device) SendRawCommand(verb string, params ...any) ([]string, error) {
	return d.SendRawCommandContext(context.Background(), verb, params...)
}

// SendRawCommandContext sends an arbitrary AT command with context support
func (d *Device) SendRawCommandContext(ctx context.Context, verb string, params ...any) ([]string, error) {
	return d.sendCommand(ctx, verb, params...)
}

// sendCommand runs one echoed command cycle with the default timeout
func (d *Device) sendCommand(ctx context.Context, verb string, params ...any) ([]string, error) {
	return d.sendCommandOpts(ctx, commandOptions{expectEcho: true}, verb, params...)
}

// sendCommandOpts frames and issues a command, applying retry for
// idempotent commands that failed with a retryable (timeout/transport)
// error. Exactly one command is in flight at any time; the protocol has
// no request identifiers, so correlation is purely temporal.
func (d *Device) sendCommandOpts(ctx context.Context, opts commandOptions, verb string, params ...any) ([]string, error) {
	attempts := 1
	retry := d.config.RetryConfig
	if opts.idempotent && retry != nil && retry.MaxAttempts > 1 {
		attempts = retry.MaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			delay := retry.backoff(attempt - 1)
			debugf("retrying %s after %v (attempt %d/%d)", verb, delay, attempt, attempts)
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("command %s cancelled: %w", verb, ctx.Err())
			case <-time.After(delay):
			}
		}

		lines, err := d.commandCycle(ctx, opts, verb, params...)
		if err == nil {
			return lines, nil
		}
		if !IsRetryable(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// commandCycle is the response collector state machine: write the framed
// command, then AWAITING_ECHO -> ACCUMULATING -> OK/ERROR/timeout. Only
// the most recent non-terminal line block is retained as the body; the
// terminal OK returns it split on internal carriage returns.
func (d *Device) commandCycle(ctx context.Context, opts commandOptions, verb string, params ...any) ([]string, error) {
	framed := frame.BuildCommand(verb, params...)
	debugf("send: %s", framed)

	if err := d.transport.WriteString(framed + frame.Terminator); err != nil {
		return nil, fmt.Errorf("write %s: %w", framed, err)
	}

	timeout := opts.timeout
	if timeout == 0 {
		timeout = d.config.Timeout
	}
	deadline := time.Now().Add(timeout)

	var body string
	started := !opts.expectEcho
	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("command %s cancelled: %w", framed, ctx.Err())
		default:
		}

		line, ok, err := d.transport.ReadLine(d.config.PollInterval)
		if err != nil {
			return nil, fmt.Errorf("read response for %s: %w", framed, err)
		}
		if !ok {
			if !time.Now().Before(deadline) {
				break
			}
			continue
		}
		if line == "" {
			continue
		}
		debugf("recv: %s", line)

		if !started {
			// Everything before the echo belongs to an earlier exchange
			// and is discarded.
			if strings.Contains(line, framed) {
				started = true
			}
			continue
		}

		switch line {
		case frame.TerminalOK:
			return frame.SplitBody(body), nil
		case frame.TerminalError:
			return nil, newReaderError(ErrDeviceFailure, framed, frame.ErrorDetail(body))
		default:
			body = line
		}
	}

	if body == "" {
		return nil, newReaderError(ErrNoResponse, framed, "no reader response")
	}
	return nil, newReaderError(ErrUnexpectedResponse, framed, "wrong response - "+body)
}
