package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/fairway/internal/adapters/legacy"
	"github.com/okian/fairway/pkg/logger"
)

func newRoundsCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rounds",
		Short: "Manage stored rounds",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "import <file.json>",
		Short: "Import rounds exported in any historical JSON shape",
		Long: `Import rounds from a JSON file holding a round, an array of rounds or
an object with a "rounds" array. Older field spellings, single shot shapes,
worded putt paces and casual-mode tee labels are converted on the way in.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			rounds, err := legacy.DecodeRounds(raw)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			e, err := g.open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close() //nolint:errcheck

			log := logger.Get().Named("import")
			var saved, rejected int
			for _, r := range rounds {
				if _, err := e.svc.SaveRound(cmd.Context(), r); err != nil {
					rejected++
					log.Warn(cmd.Context(), "round rejected", logger.String("round_id", r.ID), logger.Error(err))
					continue
				}
				saved++
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d rounds, rejected %d\n", saved, rejected)
			if saved == 0 && rejected > 0 {
				return fmt.Errorf("no round of %s could be imported", args[0])
			}
			return nil
		},
	})
	return cmd
}
