// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package brokerserver

import (
	"context"
	"fmt"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"github.com/stacklok/tokenbroker/pkg/api"
	"github.com/stacklok/tokenbroker/pkg/logger"
	"github.com/stacklok/tokenbroker/pkg/settings"
)

// Serve runs the gRPC server until ctx is cancelled, then drains in-flight
// calls with a graceful stop.
func Serve(ctx context.Context, cfg *settings.Settings, server *Server) error {
	addr := net.JoinHostPort(cfg.ServerHost, fmt.Sprintf("%d", cfg.ServerPort))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	opts := []grpc.ServerOption{
		grpc.NumStreamWorkers(uint32(cfg.NumServerThreads)),
	}
	tls := cfg.TLSCrtPath != "" && cfg.TLSKeyPath != ""
	if tls {
		creds, err := credentials.NewServerTLSFromFile(cfg.TLSCrtPath, cfg.TLSKeyPath)
		if err != nil {
			return fmt.Errorf("failed to load TLS credentials: %w", err)
		}
		opts = append(opts, grpc.Creds(creds))
	}

	grpcServer := grpc.NewServer(opts...)
	api.RegisterBrokerServer(grpcServer, server)

	if cfg.SessionCleanupPeriod > 0 {
		go server.runSessionCleanup(ctx, time.Duration(cfg.SessionCleanupPeriod)*time.Second)
	}

	go func() {
		<-ctx.Done()
		logger.Infow("shutting down", "reason", ctx.Err())
		grpcServer.GracefulStop()
	}()

	logger.Infow("broker listening", "address", addr, "tls", tls)
	if err := grpcServer.Serve(listener); err != nil {
		return fmt.Errorf("grpc server failed: %w", err)
	}
	return nil
}

// runSessionCleanup periodically sweeps expired sessions so that lapsed
// delegations cannot be renewed forever.
func (s *Server) runSessionCleanup(ctx context.Context, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := s.sessions.DeleteExpired(ctx)
			if err != nil {
				logger.Warnw("session cleanup failed", "error", err)
				continue
			}
			if deleted > 0 {
				logger.Infow("session cleanup", "deleted", deleted)
			}
		}
	}
}
