// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
)

// Error classes. Use errors.Is to tell them apart.
var (
	// ErrServerFailure means a response arrived but did not report success.
	ErrServerFailure = errors.New("server reported failure")

	// ErrTransport means no usable response arrived.
	ErrTransport = errors.New("transport failure")
)

// ServerError describes a response that arrived but was not a success.
type ServerError struct {
	Endpoint   string
	HTTPStatus int
	// Status is the "status" field of the body, when there was one.
	Status string
	// Message is the server's "message" or "error" field, or a local reason
	// such as "missing field response".
	Message string
}

// Error implements the error interface.
func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: server failure (HTTP %d, status %q): %s", e.Endpoint, e.HTTPStatus, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: server failure (HTTP %d, status %q)", e.Endpoint, e.HTTPStatus, e.Status)
}

// Unwrap lets errors.Is match ErrServerFailure.
func (e *ServerError) Unwrap() error {
	return ErrServerFailure
}

// TransportError wraps a failure to obtain a response at all.
type TransportError struct {
	Endpoint string
	Err      error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failure: %v", e.Endpoint, e.Err)
}

// Unwrap exposes both ErrTransport and the underlying cause, so
// errors.Is(err, context.Canceled) keeps working.
func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}

// IsServerFailure reports whether err is a server-reported failure.
func IsServerFailure(err error) bool {
	return errors.Is(err, ErrServerFailure)
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// ServerMessage returns the server-provided message carried by err, if any.
func ServerMessage(err error) string {
	var se *ServerError
	if errors.As(err, &se) {
		return se.Message
	}
	return ""
}
