package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/okian/fairway/internal/testrounds"
)

func newAnalyzeCmd(g *globals) *cobra.Command {
	var skillOnly bool
	cmd := &cobra.Command{
		Use:   "analyze <user>",
		Short: "Analyze a player's recent rounds and print the report as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close() //nolint:errcheck

			if skillOnly {
				est, err := e.svc.Skill(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), est)
			}
			report, err := e.svc.Analyze(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().BoolVar(&skillOnly, "skill", false, "Print only the skill estimate")
	return cmd
}

func newSimulateCmd(g *globals) *cobra.Command {
	var (
		rounds   int
		handicap float64
		seed     uint64
		holes    int
		coverage float64
	)
	cmd := &cobra.Command{
		Use:   "simulate <user>",
		Short: "Store synthetic rounds for a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if rounds < 1 {
				return fmt.Errorf("--rounds must be positive, got %d", rounds)
			}
			e, err := g.open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close() //nolint:errcheck

			gen := testrounds.New(seed,
				testrounds.WithHandicap(handicap),
				testrounds.WithHoles(holes),
				testrounds.WithCoverage(coverage),
			)
			for _, r := range gen.Rounds(args[0], rounds) {
				if _, err := e.svc.SaveRound(cmd.Context(), r); err != nil {
					return fmt.Errorf("save round %s: %w", r.ID, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stored %d rounds for %s\n", rounds, args[0])
			return nil
		},
	}
	cmd.Flags().IntVarP(&rounds, "rounds", "n", 10, "Number of rounds")
	cmd.Flags().Float64Var(&handicap, "handicap", 15, "Simulated playing level")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "Generator seed")
	cmd.Flags().IntVar(&holes, "holes", 18, "Holes per round, 9 or 18")
	cmd.Flags().Float64Var(&coverage, "coverage", 1, "Share of putts and chips with a distance bucket")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
