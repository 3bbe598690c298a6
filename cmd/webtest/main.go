package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(rootOptions{})
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errMissingDependencies) {
			fmt.Fprintf(cmd.ErrOrStderr(), "\nError during test execution: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}
