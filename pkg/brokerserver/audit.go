// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package brokerserver

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"github.com/stacklok/tokenbroker/pkg/brokererror"
	"github.com/stacklok/tokenbroker/pkg/logger"
)

// audit writes the endpoint's audit record and normalizes the error for the
// wire. Handled errors keep their code and message; anything else is masked
// as a generic server error, with the detail kept server-side in the log.
func (s *Server) audit(ctx context.Context, endpoint string, fields []any, err error) error {
	fields = append(fields, "client", clientAddr(ctx))

	if err == nil {
		fields = append(fields, "responseType", "success")
		logger.Infow(endpoint, fields...)
		return nil
	}

	if handled, ok := brokererror.FromError(err); ok {
		fields = append(fields,
			"responseType", "reject",
			"responseCode", handled.Code.String(),
			"responseMessage", handled.Message,
		)
		logger.Infow(endpoint, fields...)
		return handled
	}

	fields = append(fields,
		"responseType", "server-error",
		"responseCode", codes.Unknown.String(),
		"responseMessage", "Server error",
		"error", err,
	)
	logger.Errorw(endpoint, fields...)
	return status.Error(codes.Unknown, "Server error")
}

func clientAddr(ctx context.Context) string {
	if p, ok := peer.FromContext(ctx); ok {
		return p.Addr.String()
	}
	return "unknown"
}
