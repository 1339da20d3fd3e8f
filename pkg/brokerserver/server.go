// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package brokerserver implements the Broker gRPC service: Kerberos in,
// OAuth2 access tokens out, with delegated session tokens in between.
package brokerserver

import (
	"context"
	"strings"

	"google.golang.org/grpc/codes"

	"github.com/stacklok/tokenbroker/pkg/accesstokens"
	"github.com/stacklok/tokenbroker/pkg/api"
	"github.com/stacklok/tokenbroker/pkg/authentication"
	"github.com/stacklok/tokenbroker/pkg/brokererror"
	"github.com/stacklok/tokenbroker/pkg/sessions"
	"github.com/stacklok/tokenbroker/pkg/settings"
)

// Server is the Broker service implementation.
type Server struct {
	api.UnimplementedBrokerServer

	auth        authentication.Authenticator
	sessionAuth *authentication.SessionAuthenticator
	sessions    *sessions.Store
	codec       *sessions.TokenCodec
	fetcher     *accesstokens.Fetcher

	scopeWhitelist map[string]struct{}
	proxyWhitelist map[string]struct{}
}

var _ api.BrokerServer = (*Server)(nil)

// Config wires the server's collaborators.
type Config struct {
	Settings             *settings.Settings
	Authenticator        authentication.Authenticator
	SessionAuthenticator *authentication.SessionAuthenticator
	Sessions             *sessions.Store
	TokenCodec           *sessions.TokenCodec
	Fetcher              *accesstokens.Fetcher
}

// NewServer creates the service implementation.
func NewServer(cfg Config) *Server {
	return &Server{
		auth:           cfg.Authenticator,
		sessionAuth:    cfg.SessionAuthenticator,
		sessions:       cfg.Sessions,
		codec:          cfg.TokenCodec,
		fetcher:        cfg.Fetcher,
		scopeWhitelist: cfg.Settings.ScopeWhitelistSet(),
		proxyWhitelist: cfg.Settings.ProxyUserWhitelistSet(),
	}
}

// GetSessionToken opens a delegated session for the requested owner and
// returns its opaque token.
func (s *Server) GetSessionToken(ctx context.Context, req *api.GetSessionTokenRequest) (*api.GetSessionTokenResponse, error) {
	resp, fields, err := s.getSessionToken(ctx, req)
	if err := s.audit(ctx, "GetSessionToken", fields, err); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *Server) getSessionToken(ctx context.Context, req *api.GetSessionTokenRequest) (*api.GetSessionTokenResponse, []any, error) {
	user, err := s.auth.Authenticate(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := validateNotEmpty("owner", req.GetOwner()); err != nil {
		return nil, nil, err
	}
	if err := validateNotEmpty("scope", req.GetScope()); err != nil {
		return nil, nil, err
	}
	if err := s.validateImpersonator(user, req.GetOwner()); err != nil {
		return nil, nil, err
	}

	session, err := s.sessions.Create(ctx, req.GetOwner(), req.GetRenewer(), req.GetTarget(), req.GetScope())
	if err != nil {
		return nil, nil, err
	}
	token, err := s.codec.Encode(ctx, session)
	if err != nil {
		return nil, nil, err
	}

	return &api.GetSessionTokenResponse{SessionToken: token}, sessionFields(session), nil
}

// RenewSessionToken extends the session's lifetime. Only the designated
// renewer may call this; expiry is not checked so a lapsed session can be
// revived until the cleanup sweep removes it.
func (s *Server) RenewSessionToken(ctx context.Context, req *api.RenewSessionTokenRequest) (*api.RenewSessionTokenResponse, error) {
	resp, fields, err := s.renewSessionToken(ctx, req)
	if err := s.audit(ctx, "RenewSessionToken", fields, err); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *Server) renewSessionToken(ctx context.Context, req *api.RenewSessionTokenRequest) (*api.RenewSessionTokenResponse, []any, error) {
	session, err := s.resolveRenewable(ctx, req.GetSessionToken())
	if err != nil {
		return nil, nil, err
	}
	if err := s.sessions.Extend(ctx, session); err != nil {
		return nil, nil, err
	}
	return &api.RenewSessionTokenResponse{ExpiresAt: session.ExpiresAt}, sessionFields(session), nil
}

// CancelSessionToken terminates the session. The renewer can also cancel.
func (s *Server) CancelSessionToken(ctx context.Context, req *api.CancelSessionTokenRequest) (*api.CancelSessionTokenResponse, error) {
	resp, fields, err := s.cancelSessionToken(ctx, req)
	if err := s.audit(ctx, "CancelSessionToken", fields, err); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *Server) cancelSessionToken(ctx context.Context, req *api.CancelSessionTokenRequest) (*api.CancelSessionTokenResponse, []any, error) {
	session, err := s.resolveRenewable(ctx, req.GetSessionToken())
	if err != nil {
		return nil, nil, err
	}
	if err := s.sessions.Delete(ctx, session); err != nil {
		return nil, nil, err
	}
	return &api.CancelSessionTokenResponse{}, sessionFields(session), nil
}

// resolveRenewable authenticates the caller, resolves the session token and
// checks that the caller is the session's designated renewer.
func (s *Server) resolveRenewable(ctx context.Context, token string) (*sessions.Session, error) {
	user, err := s.auth.Authenticate(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateNotEmpty("session_token", token); err != nil {
		return nil, err
	}

	session, err := s.sessionAuth.Resolve(ctx, token)
	if err != nil {
		if isSessionNotFound(err) {
			return nil, brokererror.Abort(codes.PermissionDenied, "Session token is invalid or has expired")
		}
		return nil, err
	}

	if session.Renewer != user {
		return nil, brokererror.Abort(codes.PermissionDenied, "Unauthorized renewer: "+user)
	}
	return session, nil
}

// GetAccessToken mints (or serves from cache) an access token. Direct callers
// authenticate with Kerberos; delegated callers present a session token whose
// bound owner, target and scope must match the request.
func (s *Server) GetAccessToken(ctx context.Context, req *api.GetAccessTokenRequest) (*api.GetAccessTokenResponse, error) {
	resp, fields, err := s.getAccessToken(ctx, req)
	if err := s.audit(ctx, "GetAccessToken", fields, err); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *Server) getAccessToken(ctx context.Context, req *api.GetAccessTokenRequest) (*api.GetAccessTokenResponse, []any, error) {
	if err := s.authorizeAccessTokenRequest(ctx, req); err != nil {
		return nil, nil, err
	}
	if err := s.validateScope(req.GetScope()); err != nil {
		return nil, nil, err
	}

	token, err := s.fetcher.Fetch(ctx, req.GetOwner(), req.GetScope())
	if err != nil {
		return nil, nil, err
	}

	resp := &api.GetAccessTokenResponse{
		AccessToken: token.AccessToken,
		ExpiresAt:   token.ExpiresAt,
	}
	return resp, []any{"owner", req.GetOwner(), "scope", req.GetScope()}, nil
}

func (s *Server) authorizeAccessTokenRequest(ctx context.Context, req *api.GetAccessTokenRequest) error {
	if authentication.HasSessionToken(ctx) {
		session, err := s.sessionAuth.Authenticate(ctx)
		if err != nil {
			return err
		}
		if err := validateNotEmpty("owner", req.GetOwner()); err != nil {
			return err
		}
		if err := validateNotEmpty("scope", req.GetScope()); err != nil {
			return err
		}
		if req.GetTarget() != session.Target {
			return brokererror.Abort(codes.PermissionDenied, "Target mismatch")
		}
		// The bare username is accepted as an alias for the session owner.
		ownerAlias, _, _ := strings.Cut(session.Owner, "@")
		if req.GetOwner() != session.Owner && req.GetOwner() != ownerAlias {
			return brokererror.Abort(codes.PermissionDenied, "Owner mismatch")
		}
		if req.GetScope() != session.Scope {
			return brokererror.Abort(codes.PermissionDenied, "Scope mismatch")
		}
		return nil
	}

	user, err := s.auth.Authenticate(ctx)
	if err != nil {
		return err
	}
	if err := validateNotEmpty("owner", req.GetOwner()); err != nil {
		return err
	}
	if err := validateNotEmpty("scope", req.GetScope()); err != nil {
		return err
	}
	return s.validateImpersonator(user, req.GetOwner())
}

func sessionFields(session *sessions.Session) []any {
	return []any{"owner", session.Owner, "renewer", session.Renewer, "session-id", session.ID}
}
