// Command whoop is a command-line client for the WHOOP Developer API.
//
// It runs the OAuth login flow, keeps the resulting token on disk and
// refreshes it when the API rejects it, and prints profile, cycle, sleep,
// recovery and workout data as a table, JSON or YAML.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := newApp(os.Stdout, os.Stderr)
	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(exitCode(err))
	}
}
