// Command chainbench measures action chain throughput against a mutex
// baseline. It reproduces the original workload shape: a fixed number of
// worker goroutines each submit their share of the total actions, and every
// action bumps a shared counter a configurable number of times.
//
// One key=value measurement line is written to stdout per scenario. The
// command exits non-zero if the final counter differs from the expected
// value.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "chainbench",
		Usage: "measure action chain throughput against a mutex baseline",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "sync",
				Value: "0",
				Usage: "serialization backend: 0 action chain, 1 mutex",
			},
			&cli.StringFlag{
				Name:  "threads",
				Value: "8",
				Usage: "number of worker goroutines",
			},
			&cli.StringFlag{
				Name:  "ops-per-action",
				Value: "1",
				Usage: "counter increments inside each action",
			},
			&cli.StringFlag{
				Name:  "actions",
				Value: "1M",
				Usage: "total actions across all workers (K/M/G suffixes are powers of 1024)",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "YAML file with a suite of scenarios to run instead of the flags",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "more logging",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	verbose := c.Bool("verbose")

	if path := c.String("config"); path != "" {
		scenarios, err := loadScenarios(path)
		if err != nil {
			return err
		}
		for _, sc := range scenarios {
			if err := sc.run(os.Stdout, verbose); err != nil {
				return err
			}
		}
		return nil
	}

	sc := scenario{
		Sync:         c.String("sync"),
		Threads:      c.String("threads"),
		OpsPerAction: c.String("ops-per-action"),
		Actions:      c.String("actions"),
	}
	return sc.run(os.Stdout, verbose)
}
