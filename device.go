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
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DeviceConfig contains configuration options for the Device
type DeviceConfig struct {
	// RetryConfig configures retry behavior for idempotent commands
	RetryConfig *RetryConfig
	// Timeout is the default deadline for one command/response cycle
	Timeout time.Duration
	// PollInterval is the per-read slice of the deadline polling loop
	PollInterval time.Duration
	// SerialConfig is applied to the transport during Init
	SerialConfig SerialConfig
}

// DefaultDeviceConfig returns default device configuration
func DefaultDeviceConfig() *DeviceConfig {
	return &DeviceConfig{
		RetryConfig:  DefaultRetryConfig(),
		Timeout:      2 * time.Second,
		PollInterval: 50 * time.Millisecond,
		SerialConfig: DefaultSerialConfig(),
	}
}

// ExpectedReaderInfo declares the identity a concrete reader type must
// report during GetReaderInfo. The zero value disables verification.
type ExpectedReaderInfo struct {
	FirmwareName string
	HardwareName string
	// MinFirmware is the minimum MAJOR.MINOR firmware version
	MinFirmware float64
}

// ReaderInfo is the parsed ATI response
type ReaderInfo struct {
	Firmware        string
	FirmwareVersion string
	Hardware        string
	HardwareVersion string
	SerialNumber    string
}

// Device represents a UHF reader module speaking the AT protocol.
//
// Thread Safety: Device is NOT thread-safe. The protocol allows at most
// one outstanding command per transport, so all methods must be called
// from a single goroutine or protected with external synchronization
// around the whole command/response cycle.
type Device struct {
	transport Transport
	config    *DeviceConfig
	expected  ExpectedReaderInfo

	// Process-local mirror of device-side settings. Updated only as a
	// side effect of successful setters and inventory parse events,
	// never read back from the device implicitly.
	inventorySettings InventorySettings
	antenna           int
	antennaErrors     map[string]string
}

// New creates a new reader device with the given transport. The wire is
// not touched until Init.
func New(transport Transport, opts ...Option) (*Device, error) {
	device := &Device{
		transport:     transport,
		config:        DefaultDeviceConfig(),
		antennaErrors: make(map[string]string),
	}

	for _, opt := range opts {
		if err := opt(device); err != nil {
			return nil, err
		}
	}

	return device, nil
}

// NewQRG2 creates a device for the QRG2 UHF module, with identity
// verification pinned to its firmware and hardware names.
func NewQRG2(transport Transport, opts ...Option) (*Device, error) {
	qrg2Info := ExpectedReaderInfo{
		FirmwareName: "QRG2",
		HardwareName: "QRG2",
		MinFirmware:  1.3,
	}
	return New(transport, append([]Option{WithExpectedReaderInfo(qrg2Info)}, opts...)...)
}

// Transport returns the underlying transport
func (d *Device) Transport() Transport {
	return d.transport
}

// Init initializes the reader: serial settings, command echo, stopping a
// possibly still-running continuous inventory, and the default inventory
// response format.
func (d *Device) Init() error {
	return d.InitContext(context.Background())
}

// InitContext initializes the reader with context support
func (d *Device) InitContext(ctx context.Context) error {
	if err := d.transport.Configure(d.config.SerialConfig); err != nil {
		return fmt.Errorf("configure transport: %w", err)
	}

	// ATE1 is fired before echo is known to be on, so no echo cycle is
	// expected for it.
	if _, err := d.sendCommandOpts(ctx, commandOptions{}, cmdEchoOn); err != nil {
		return err
	}

	// Best effort: a continuous inventory left running by a previous
	// session would corrupt command correlation. An ERROR here only
	// means "was not running".
	for _, verb := range []string{cmdStopInventory, cmdStopInventoryReport} {
		if _, err := d.sendCommand(ctx, verb); err != nil {
			var readerErr *ReaderError
			if !errors.As(err, &readerErr) {
				return err
			}
			debugf("%s during init: %v", verb, err)
		}
	}

	return d.SetInventorySettingsContext(ctx, InventorySettings{
		OnlyNewTag: false,
		WithRSSI:   true,
		WithTID:    true,
	})
}

// GetReaderInfo queries and verifies the reader identity. A mismatch
// against the expected firmware/hardware name or an outdated firmware
// version is fatal; no other reader method may be trusted before this
// check passes.
func (d *Device) GetReaderInfo() (*ReaderInfo, error) {
	return d.GetReaderInfoContext(context.Background())
}

// GetReaderInfoContext queries the reader identity with context support
func (d *Device) GetReaderInfoContext(ctx context.Context) (*ReaderInfo, error) {
	lines, err := d.sendCommandOpts(ctx, commandOptions{expectEcho: true, idempotent: true}, cmdReaderInfo)
	if err != nil {
		return nil, err
	}

	// +SW: PULSAR_LR 0100
	// +HW: PULSAR_LR 0100
	// +SERIAL: 2020090817420000
	info, err := parseReaderInfo(lines)
	if err != nil {
		return nil, err
	}
	if err := d.verifyReaderInfo(info); err != nil {
		return nil, err
	}
	return info, nil
}

func parseReaderInfo(lines []string) (*ReaderInfo, error) {
	malformed := func() error {
		return newReaderError(ErrUnexpectedResponse, cmdReaderInfo,
			fmt.Sprintf("wrong reader - not expected info response - %v", lines))
	}

	if len(lines) < 3 {
		return nil, malformed()
	}
	firmware := strings.Split(lines[0], " ")
	hardware := strings.Split(lines[1], " ")
	serial := strings.Split(lines[2], " ")
	if len(firmware) < 3 || len(hardware) < 3 || len(serial) < 2 {
		return nil, malformed()
	}

	return &ReaderInfo{
		Firmware:        firmware[1],
		FirmwareVersion: firmware[2],
		Hardware:        hardware[1],
		HardwareVersion: hardware[2],
		SerialNumber:    serial[1],
	}, nil
}

func (d *Device) verifyReaderInfo(info *ReaderInfo) error {
	expected := d.expected
	if expected == (ExpectedReaderInfo{}) {
		return nil
	}

	if info.Hardware != expected.HardwareName {
		return newReaderError(ErrWrongReaderType, cmdReaderInfo,
			fmt.Sprintf("wrong reader type! %s expected, %s found", expected.HardwareName, info.Hardware))
	}
	if info.Firmware != expected.FirmwareName {
		return newReaderError(ErrWrongReaderFirmware, cmdReaderInfo,
			fmt.Sprintf("wrong reader firmware! %s expected, %s found", expected.FirmwareName, info.Firmware))
	}

	version, err := parseFirmwareVersion(info.FirmwareVersion)
	if err != nil {
		return newReaderError(ErrUnexpectedResponse, cmdReaderInfo,
			fmt.Sprintf("wrong reader - not expected firmware version - %s", info.FirmwareVersion))
	}
	if version < expected.MinFirmware {
		return newReaderError(ErrFirmwareOutdated, cmdReaderInfo,
			fmt.Sprintf("reader firmware too low, please update! minimum %v expected, %v found",
				expected.MinFirmware, version))
	}
	return nil
}

// parseFirmwareVersion derives MAJOR.MINOR from the first four digits of
// the raw version string, e.g. "0130" -> 1.30.
func parseFirmwareVersion(raw string) (float64, error) {
	if len(raw) < 4 {
		return 0, fmt.Errorf("firmware version %q too short", raw)
	}
	version, err := strconv.ParseFloat(raw[0:2]+"."+raw[2:4], 64)
	if err != nil {
		return 0, fmt.Errorf("parse firmware version %q: %w", raw, err)
	}
	return version, nil
}

// LastAntennaErrors returns a copy of the per-antenna error messages the
// inventory decoder has observed, keyed "Antenna <n>" (or "message" when
// no antenna was known).
func (d *Device) LastAntennaErrors() map[string]string {
	errs := make(map[string]string, len(d.antennaErrors))
	for k, v := range d.antennaErrors {
		errs[k] = v
	}
	return errs
}

// Close closes the device connection
func (d *Device) Close() error {
	if d.transport != nil {
		if err := d.transport.Close(); err != nil {
			return fmt.Errorf("failed to close transport: %w", err)
		}
	}
	return nil
}
