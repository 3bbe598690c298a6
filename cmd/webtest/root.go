package main

import (
	"errors"
	"fmt"
	"io"

	"webtest-agent/internal/config"
	"webtest-agent/internal/di"
	"webtest-agent/internal/infrastructure/env"

	"github.com/spf13/cobra"
)

var errMissingDependencies = errors.New("missing or incorrect dependencies")

type rootOptions struct {
	container di.Options
}

func newRootCmd(opts rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "webtest",
		Short:         "Web Test Automation Tool",
		Long:          "Logs into a web application, visits every report reachable from its navigation and writes an HTML report.",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(cmd, opts)
		},
	}

	config.RegisterFlags(cmd.Flags())
	cmd.AddCommand(newServeCmd())

	return cmd
}

func runScenario(cmd *cobra.Command, opts rootOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if _, err := env.Load(); err != nil {
		return err
	}

	cfg, err := config.Load(config.New(), cmd.Flags())
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	containerOpts := opts.container
	if containerOpts.Console == nil {
		containerOpts.Console = out
	}
	c, err := di.NewContainer(cfg, containerOpts)
	if err != nil {
		return err
	}
	defer c.Close()

	fmt.Fprintln(out, "Verifying dependencies...")
	if missing := c.Preflight(ctx); len(missing) > 0 {
		c.Progress.Missing(missing)
		return errMissingDependencies
	}
	fmt.Fprintln(out, "All dependencies verified successfully!")
	fmt.Fprintf(out, "Starting test for URL: %s\n", cfg.URL)

	runner, err := c.Scenario(ctx)
	if err != nil {
		c.Logger.Error("Scenario setup failed", "error", err)
		return err
	}

	outcome := runner.Run(ctx)
	c.Progress.Summary(outcome.Summary, outcome.ReportPath, outcome.Reported)
	printLogPath(out, c.Logger.Path())
	return nil
}

func printLogPath(out io.Writer, path string) {
	if path != "" {
		fmt.Fprintf(out, "Log file: %s\n", path)
	}
}
