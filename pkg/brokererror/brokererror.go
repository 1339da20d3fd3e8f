// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package brokererror carries deliberate RPC failures from the broker core to
// the endpoint envelope.
//
// Errors created with Abort are "handled": their code and message reach the
// client verbatim and the audit record marks the call as rejected. Any other
// error escaping an endpoint is "unhandled": it is logged with a stack trace
// and masked from the client as Unknown "Server error".
package brokererror

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Error is the single error carrier for deliberate failures.
type Error struct {
	Code    codes.Code
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// GRPCStatus lets the gRPC runtime surface the carrier's code and message
// directly.
func (e *Error) GRPCStatus() *status.Status {
	return status.New(e.Code, e.Message)
}

// Abort creates a handled error with the given status code and message.
func Abort(code codes.Code, message string) error {
	return &Error{Code: code, Message: message}
}

// FromError extracts the carrier from an error chain.
func FromError(err error) (*Error, bool) {
	var brokerErr *Error
	if errors.As(err, &brokerErr) {
		return brokerErr, true
	}
	return nil, false
}
