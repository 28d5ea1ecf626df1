// minimage generates and processes images through a chain of stages typed as one line, for instance
//
//	Generate 4 800 600 | Blur 3 3 | RandomCircles 10 40 | Output demo
//
// Usage:
//
//	minimage [shell]                 interactive session, one chain per line
//	minimage run <chain> [--dot f]   run one chain and save its images
//	minimage plan <chain> [--dot f]  validate a chain and print its stages
//	minimage history [--limit n]     list recorded runs
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1) //nolint:gocritic // stop already ran
	}
}
