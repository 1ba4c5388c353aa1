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
	"errors"
	"fmt"
)

// Transport-level errors
var (
	ErrTransportRead    = errors.New("transport read failed")
	ErrTransportWrite   = errors.New("transport write failed")
	ErrTransportTimeout = errors.New("transport timeout")
	ErrDeviceNotFound   = errors.New("device not found")
)

// Protocol-level errors
var (
	// ErrDeviceFailure indicates the reader answered with an ERROR line.
	ErrDeviceFailure = errors.New("reader reported an error")
	// ErrNoResponse indicates the reader sent nothing before the deadline.
	ErrNoResponse = errors.New("no reader response")
	// ErrUnexpectedResponse indicates the reader sent data that never
	// reached a terminal OK/ERROR line or did not match the expected shape.
	ErrUnexpectedResponse = errors.New("unexpected reader response")
	// ErrInvalidParameter indicates invalid caller input, reported before
	// any device interaction.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Identity verification errors
var (
	ErrWrongReaderType     = errors.New("wrong reader type")
	ErrWrongReaderFirmware = errors.New("wrong reader firmware")
	ErrFirmwareOutdated    = errors.New("reader firmware too low")
)

// ErrMixedTagPopulation indicates co-located tags with different PC bases
// were found during an EPC rewrite, which cannot be batch-rewritten safely.
var ErrMixedTagPopulation = errors.New("different tags in the field")

// ErrorType classifies errors for retry decisions
type ErrorType int

const (
	// ErrorTypePermanent indicates an error that will not resolve on retry
	ErrorTypePermanent ErrorType = iota
	// ErrorTypeTransient indicates an error that may resolve on retry
	ErrorTypeTransient
	// ErrorTypeTimeout indicates a deadline expired
	ErrorTypeTimeout
)

// TransportError wraps errors from the serial boundary with context about
// the failed operation and the port it happened on.
type TransportError struct {
	Err       error
	Op        string
	Port      string
	Type      ErrorType
	Retryable bool
}

func (e *TransportError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("qrg2 %s %s: %v", e.Op, e.Port, e.Err)
	}
	return fmt.Sprintf("qrg2 %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a TransportError with explicit classification
func NewTransportError(op, port string, err error, errType ErrorType) *TransportError {
	return &TransportError{
		Op:        op,
		Port:      port,
		Err:       err,
		Type:      errType,
		Retryable: errType == ErrorTypeTransient || errType == ErrorTypeTimeout,
	}
}

// NewTimeoutError creates a retryable timeout TransportError
func NewTimeoutError(op, port string) *TransportError {
	return NewTransportError(op, port, ErrTransportTimeout, ErrorTypeTimeout)
}

// ReaderError is the protocol-layer error for every command that fails
// after device interaction started: device-reported ERROR lines, missing
// responses, unexpected response shapes and identity mismatches.
type ReaderError struct {
	Err error
	// Op is the framed command that produced the error.
	Op string
	// Detail carries the human-readable message, e.g. the text between
	// angle brackets of an ERROR response body.
	Detail string
}

func (e *ReaderError) Error() string {
	switch {
	case e.Op != "" && e.Detail != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Detail)
	case e.Detail != "":
		return e.Detail
	case e.Op != "":
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Err.Error()
	}
}

func (e *ReaderError) Unwrap() error {
	return e.Err
}

// newReaderError builds a ReaderError around a sentinel
func newReaderError(err error, op, detail string) *ReaderError {
	return &ReaderError{Err: err, Op: op, Detail: detail}
}

// IsRetryable returns true if the error may resolve on a retry of the
// whole command cycle. Device-reported failures are never retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Retryable
	}

	switch {
	case errors.Is(err, ErrNoResponse),
		errors.Is(err, ErrTransportTimeout),
		errors.Is(err, ErrTransportRead),
		errors.Is(err, ErrTransportWrite):
		return true
	default:
		return false
	}
}

// GetErrorType returns the classification of an error
func GetErrorType(err error) ErrorType {
	if err == nil {
		return ErrorTypePermanent
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Type
	}

	switch {
	case errors.Is(err, ErrNoResponse), errors.Is(err, ErrTransportTimeout):
		return ErrorTypeTimeout
	case errors.Is(err, ErrTransportRead), errors.Is(err, ErrTransportWrite):
		return ErrorTypeTransient
	default:
		return ErrorTypePermanent
	}
}
