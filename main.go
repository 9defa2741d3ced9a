// Phone analytics CLI: heuristic price and performance estimation backed by a
// remote prediction gateway.
//
// Usage:
//
//	phone-analytics estimate --brand apple --ram 12 --processor a17pro
//	phone-analytics advanced --input spec.yaml --currency EUR
//	phone-analytics recommend --max-budget 600 --brand samsung --export
//	phone-analytics catalog
//	phone-analytics compare "iPhone 15" "Galaxy S24"
//	phone-analytics serve --addr :8080
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "phone-analytics",
		Usage:   "Estimate phone prices, rank the catalog and compare models",
		Version: version,

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:  "gateway-url",
				Usage: "Base URL of the prediction gateway (overrides GATEWAY_URL)",
			},
			&cli.BoolFlag{
				Name:  "offline",
				Usage: "Skip the gateway and answer from the local estimator only",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "Output format (text, json, yaml)",
			},
		},

		Commands: []*cli.Command{
			estimateCommand(),
			advancedCommand(),
			recommendCommand(),
			catalogCommand(),
			compareCommand(),
			serveCommand(),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
