// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package app provides the entry point for the broker command-line
// application.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:               "broker",
	DisableAutoGenTag: true,
	Short:             "Token broker bridging Kerberos and OAuth2",
	Long: `The token broker lets Kerberos-authenticated workloads obtain OAuth2
access tokens for cloud resources, without distributing long-lived cloud
credentials to the cluster. Scheduled jobs use broker-issued session tokens
to keep working after the submitting user has logged out.

All configuration comes from APP_SETTING_* environment variables.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		// If no subcommand is provided, print help
		return cmd.Help()
	},
}

// NewRootCmd creates the root command for the broker CLI.
func NewRootCmd() *cobra.Command {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}
