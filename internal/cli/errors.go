// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"

	"github.com/jeranaias/tatvax-tui/internal/api"
	"github.com/jeranaias/tatvax-tui/internal/config"
	"github.com/jeranaias/tatvax-tui/internal/controller"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitUsageError   = 2
	ExitConfigError  = 3
	ExitNetworkError = 5
	ExitServerError  = 6
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError is a failed command with the exit code to report.
type CommandError struct {
	Command string
	Reason  string
	Code    int
	Err     error
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Command, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Command, e.Reason)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a command error.
func NewCommandError(command, reason string, code int, err error) error {
	return &CommandError{Command: command, Reason: reason, Code: code, Err: err}
}

// errReported marks an error whose message has already been printed.
var errReported = errors.New("reported")

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code != 0 {
		return cmdErr.Code
	}
	var cfgErrs config.ValidateErrors
	switch {
	case errors.As(err, &cfgErrs):
		return ExitConfigError
	case controller.IsLocalError(err):
		return ExitUsageError
	case api.IsTransport(err):
		return ExitNetworkError
	case api.IsServerFailure(err):
		return ExitServerError
	}
	return ExitGeneralError
}

// IsReported reports whether err's message was already shown to the user.
func IsReported(err error) bool {
	return errors.Is(err, errReported)
}
