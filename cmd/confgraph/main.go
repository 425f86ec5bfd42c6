// Package main is the entry point for the confgraph CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/opmodel/confgraph/internal/cmd"
	"github.com/opmodel/confgraph/internal/cmdtypes"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := cmd.NewRootCmd()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Check if the error contains an ExitError with a specific code
		var exitErr *cmdtypes.ExitError
		if errors.As(err, &exitErr) {
			// Only print if the command layer hasn't already printed it
			if !exitErr.Printed {
				fmt.Fprintln(os.Stderr, err)
			}
			stop()
			os.Exit(exitErr.Code)
		}
		// Non-ExitError: usage errors from cobra, print it
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(cmdtypes.ExitCodeFromError(err))
	}
}
