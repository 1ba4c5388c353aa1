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
	"strings"
	"sync"
	"time"
)

// ScriptedTransport is an in-memory Transport for tests. Exchanges are
// scripted in order: each Script call queues the response lines the
// device would produce for the next written command. By default the
// command echo is prepended automatically, matching an ATE1 reader.
type ScriptedTransport struct {
	mu        sync.Mutex
	script    []scriptEntry
	pending   []string
	written   []string
	writeErr  error
	readErr   error
	connected bool

	// EchoDisabled suppresses the automatic command echo line
	EchoDisabled bool
}

type scriptEntry struct {
	command string
	lines   []string
}

// NewScriptedTransport returns a connected transport with an empty script
func NewScriptedTransport() *ScriptedTransport {
	return &ScriptedTransport{connected: true}
}

// Script queues the response lines for the next written command. The
// command is given without the trailing carriage return; lines include
// the terminal OK or ERROR. A written command with no matching script
// entry produces no response, i.e. a timeout.
func (t *ScriptedTransport) Script(command string, lines ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.script = append(t.script, scriptEntry{command: command, lines: lines})
}

// Commands returns every command written so far, terminators stripped
func (t *ScriptedTransport) Commands() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	commands := make([]string, len(t.written))
	copy(commands, t.written)
	return commands
}

// SetWriteError makes subsequent WriteString calls fail
func (t *ScriptedTransport) SetWriteError(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writeErr = err
}

// SetReadError makes subsequent ReadLine calls fail
func (t *ScriptedTransport) SetReadError(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.readErr = err
}

// WriteString records the command and queues its scripted response
func (t *ScriptedTransport) WriteString(s string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.writeErr != nil {
		return t.writeErr
	}

	command := strings.TrimSuffix(s, "\r")
	t.written = append(t.written, command)

	if len(t.script) == 0 || t.script[0].command != command {
		return nil
	}
	entry := t.script[0]
	t.script = t.script[1:]
	if !t.EchoDisabled {
		t.pending = append(t.pending, command)
	}
	t.pending = append(t.pending, entry.lines...)
	return nil
}

// ReadLine pops the next queued response line
func (t *ScriptedTransport) ReadLine(timeout time.Duration) (string, bool, error) {
	t.mu.Lock()
	if t.readErr != nil {
		err := t.readErr
		t.mu.Unlock()
		return "", false, err
	}
	if len(t.pending) == 0 {
		t.mu.Unlock()
		time.Sleep(timeout)
		return "", false, nil
	}
	line := t.pending[0]
	t.pending = t.pending[1:]
	t.mu.Unlock()
	return line, true, nil
}

// Configure is a no-op for the scripted transport
func (t *ScriptedTransport) Configure(_ SerialConfig) error {
	return nil
}

// Close marks the transport disconnected
func (t *ScriptedTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.connected = false
	return nil
}

// IsConnected reports whether Close has been called
func (t *ScriptedTransport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.connected
}

// Type returns TransportMock
func (t *ScriptedTransport) Type() TransportType {
	return TransportMock
}
