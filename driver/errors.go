// SPDX-FileCopyrightText: 2024-2026 go-adabas contributors
//
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"errors"
	"fmt"
)

// ErrConnClosed is the error raised if a command is executed on a closed connection.
var ErrConnClosed = errors.New("exec on closed connection")

// ErrNotOpen is the error raised if a command other than open is executed before the session was opened.
var ErrNotOpen = errors.New("session not open")

// ErrConcurrentExec is the error raised if a command is executed on a connection while another
// command of the same connection is still in flight.
// The control block and its buffers are mutated in place and are not safe for overlapping use.
var ErrConcurrentExec = errors.New("concurrent exec on connection")

// ErrInUse is the error raised if a command is executed while the same command is in flight on another connection.
var ErrInUse = errors.New("command in use")

// ErrBusy is the error raised if the asynchronous worker pool of the connector cannot accept a command.
var ErrBusy = errors.New("connection worker busy")

// Precondition causes wrapped by PreconditionError.
var (
	ErrMissingCommandCode = errors.New("command code not set")
	ErrMissingDBID        = errors.New("database id not set")
	ErrMissingFileNo      = errors.New("file number not set")
	ErrMissingBuffer      = errors.New("buffer not attached")
	ErrBufferLength       = errors.New("declared buffer length exceeds buffer size")
	ErrZeroBufferLength   = errors.New("buffer attached without declared length")
)

// ValidationError is the error returned if a command field is set to an invalid value.
// The field keeps its previous value.
type ValidationError struct {
	field Field
	msg   string
}

func newValidationError(field Field, format string, args ...any) *ValidationError {
	return &ValidationError{field: field, msg: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string { return fmt.Sprintf("invalid %s: %s", e.field, e.msg) }

// Field returns the field which could not be set.
func (e *ValidationError) Field() Field { return e.field }

// PreconditionError is the error returned if a command cannot be executed.
// No engine call was attempted.
type PreconditionError struct {
	code string
	err  error
}

func (e *PreconditionError) Error() string {
	if e.code == "" {
		return fmt.Sprintf("exec: %s", e.err)
	}
	return fmt.Sprintf("exec %s: %s", e.code, e.err)
}

// Unwrap returns the precondition cause.
func (e *PreconditionError) Unwrap() error { return e.err }

// CommandCode returns the command code of the rejected command.
func (e *PreconditionError) CommandCode() string { return e.code }

// EngineError represents an error response code returned by the engine.
// Normal, warning and EOF response codes are never reported as EngineError.
type EngineError struct {
	code    string
	id      string
	rsp     ResponseCode
	subcode uint16
}

func newEngineError(cmd *Command) *EngineError {
	return &EngineError{code: cmd.cb.CommandCode, id: cmd.cb.CommandID, rsp: cmd.cb.ResponseCode, subcode: cmd.cb.Subcode}
}

func (e *EngineError) Error() string {
	if e.subcode != 0 {
		return fmt.Sprintf("adabas command %s response %s subcode %d", e.code, e.rsp, e.subcode)
	}
	return fmt.Sprintf("adabas command %s response %s", e.code, e.rsp)
}

// Code returns the response code.
func (e *EngineError) Code() ResponseCode { return e.rsp }

// Subcode returns the response subcode.
func (e *EngineError) Subcode() uint16 { return e.subcode }

// CommandCode returns the command code of the failed command.
func (e *EngineError) CommandCode() string { return e.code }

// CommandID returns the command id of the failed command.
func (e *EngineError) CommandID() string { return e.id }
