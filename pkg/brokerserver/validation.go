// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package brokerserver

import (
	"errors"
	"strings"

	"google.golang.org/grpc/codes"

	"github.com/stacklok/tokenbroker/pkg/brokererror"
	"github.com/stacklok/tokenbroker/pkg/sessions"
)

func validateNotEmpty(param, value string) error {
	if value == "" {
		return brokererror.Abort(codes.InvalidArgument, "Request must provide the `"+param+"` parameter")
	}
	return nil
}

// validateScope checks that every requested scope is whitelisted. The request
// may carry several scopes, comma-separated.
func (s *Server) validateScope(scope string) error {
	for _, requested := range strings.Split(scope, ",") {
		if _, ok := s.scopeWhitelist[requested]; !ok {
			return brokererror.Abort(codes.PermissionDenied, "`"+scope+"` is not a whitelisted scope")
		}
	}
	return nil
}

// validateImpersonator allows self-requests unconditionally; requesting on
// behalf of someone else requires membership in the proxy-user whitelist.
func (s *Server) validateImpersonator(impersonator, impersonated string) error {
	if impersonator == impersonated {
		return nil
	}
	if _, ok := s.proxyWhitelist[impersonator]; !ok {
		return brokererror.Abort(codes.PermissionDenied, "`"+impersonator+"` is not a whitelisted impersonator")
	}
	return nil
}

func isSessionNotFound(err error) bool {
	return errors.Is(err, sessions.ErrNotFound)
}
