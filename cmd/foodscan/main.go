package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/doeshing/foodscan/internal/infrastructure/cli"
)

// serveCommand is the only command that exposes metrics.
const serveCommand = "serve"

func main() {
	ctx := context.Background()
	opts := parseGlobalOptions(os.Args[1:])

	root, container, err := cli.NewRootCmd(ctx, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	cli.AddGlobalFlags(root)

	err = root.ExecuteContext(ctx)
	if closeErr := container.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// parseGlobalOptions reads the flags needed before the container is built.
// Everything else is left for cobra.
func parseGlobalOptions(args []string) cli.Options {
	fs := pflag.NewFlagSet("foodscan", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Usage = func() {}
	fs.SetOutput(io.Discard)

	var opts cli.Options
	fs.BoolVarP(&opts.Verbose, "verbose", "v", false, "")
	fs.StringVar(&opts.ConfigPath, "config", "", "")
	_ = fs.Parse(args)

	opts.Verbose = opts.Verbose || isVerbose()
	opts.Metrics = fs.Arg(0) == serveCommand
	return opts
}

func isVerbose() bool {
	return strings.EqualFold(os.Getenv("FOODSCAN_DEBUG"), "1") || strings.EqualFold(os.Getenv("FOODSCAN_DEBUG"), "true")
}
