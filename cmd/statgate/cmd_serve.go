// Copyright (C) 2026 Statgate Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/statgate/statgate/pkg/logging"
	"github.com/statgate/statgate/services/compare/config"
	"github.com/statgate/statgate/services/compare/server"
	"github.com/statgate/statgate/services/compare/telemetry"
)

var (
	flagConfigPath string
	flagAddr       string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the comparison engine as an HTTP service",
	Long: `Serve exposes the comparison engine over HTTP:

  POST /v1/compare        - compare two conditions
  POST /v1/diagnostics    - assess a single sample
  GET  /v1/compare/health - health check
  GET  /metrics           - Prometheus metrics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfigPath)
		if err != nil {
			return err
		}
		if flagAddr != "" {
			cfg.Server.Addr = flagAddr
		}

		logger, _ := logging.New(logging.Config{
			Level:   cfg.LogLevel,
			JSON:    true,
			Service: "statgate",
		})
		defer logger.Close()
		logger.Install()

		provider, err := telemetry.Init(telemetry.Config{
			ServiceName: cfg.Telemetry.ServiceName,
			TraceStdout: cfg.Telemetry.TraceStdout,
		})
		if err != nil {
			return err
		}
		defer provider.Shutdown(context.Background())

		metrics, err := telemetry.NewMetrics(server.ServiceVersion)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(),
			syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := server.New(cfg, logger.Logger, metrics, provider.Registry)
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&flagConfigPath, "config", "c", "",
		"path to a YAML configuration file")
	serveCmd.Flags().StringVar(&flagAddr, "addr", "",
		"listen address, overrides the configuration file")
	rootCmd.AddCommand(serveCmd)
}
