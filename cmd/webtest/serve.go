package main

import (
	"fmt"

	"webtest-agent/internal/config"
	"webtest-agent/internal/infrastructure/env"
	"webtest-agent/internal/infrastructure/logger"
	"webtest-agent/internal/infrastructure/server"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve generated reports over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	config.RegisterServeFlags(cmd.Flags())
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	if _, err := env.Load(); err != nil {
		return err
	}

	cfg, err := config.LoadServe(config.New(), cmd.Flags())
	if err != nil {
		return err
	}

	log, err := logger.NewLoggerAdapter(logger.Config{Dir: cfg.LogDir, Name: "serve", Console: cmd.ErrOrStderr()})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on %s\n", cfg.ReportDir, cfg.Addr)
	return server.New(server.Config{
		Addr:          cfg.Addr,
		Dir:           cfg.ReportDir,
		AccessLogJSON: cfg.AccessLogJSON,
	}, log).Run(cmd.Context())
}
