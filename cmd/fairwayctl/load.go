package main

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/fairway/internal/testrounds"
)

// Load run defaults.
const (
	defaultUsers         = 20
	defaultRoundsPerUser = 12
	defaultWorkers       = 2 // multiplier for runtime.NumCPU()
	defaultTimeout       = 30 * time.Second
	defaultRetries       = 2
	defaultRunTimeout    = 10 * time.Minute
)

func newLoadCmd() *cobra.Command {
	cfg := &testrounds.Config{}
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Submit synthetic players to a running server and verify their analyses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), defaultRunTimeout)
			defer cancel()

			stats, err := testrounds.Run(ctx, cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "accepted %d/%d rounds, %d analyses, %d leaks in %s\n",
				stats.RoundsAccepted, stats.RoundsSubmitted, stats.Analyses, stats.LeaksFound,
				stats.Duration.Round(time.Millisecond))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "url", "http://localhost:9080", "Base URL of the service")
	f.IntVar(&cfg.Users, "users", defaultUsers, "Number of synthetic players")
	f.IntVar(&cfg.RoundsPerUser, "rounds", defaultRoundsPerUser, "Rounds submitted per player")
	f.IntVar(&cfg.Workers, "workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent submitters")
	f.DurationVar(&cfg.Timeout, "timeout", defaultTimeout, "HTTP request timeout")
	f.IntVar(&cfg.Retries, "retries", defaultRetries, "Retries per request")
	f.Float64Var(&cfg.Rate, "rate", 0, "Round submissions per second (0 = unlimited)")
	f.DurationVar(&cfg.Settle, "settle", time.Second, "Wait between submission and analysis")
	f.Uint64Var(&cfg.Seed, "seed", 1, "Generator seed")
	f.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Log every accepted round")
	return cmd
}
