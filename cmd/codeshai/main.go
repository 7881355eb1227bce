package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/doeshing/codeshai/internal/infrastructure/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root, container, err := cli.NewRootCmd(ctx, cli.Options{Verbose: isVerbose(os.Args[1:])})
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	defer container.Close()

	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, cli.ErrReported) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		return 1
	}
	return 0
}

// isVerbose is decided before flag parsing because the logger is built with the container.
func isVerbose(args []string) bool {
	for _, arg := range args {
		if arg == "--verbose" || arg == "--verbose=true" {
			return true
		}
	}
	debug := os.Getenv("CODESHAI_DEBUG")
	return strings.EqualFold(debug, "1") || strings.EqualFold(debug, "true")
}
