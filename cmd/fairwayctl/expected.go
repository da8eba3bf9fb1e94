package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/okian/fairway/internal/domain/expected"
)

func newExpectedCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expected",
		Short: "Manage the expected-strokes table",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "import <file.yaml>",
			Short: "Replace the expected-strokes table with the rows of a YAML file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				rows, err := expected.LoadFile(args[0])
				if err != nil {
					return err
				}
				e, err := g.open(cmd.Context())
				if err != nil {
					return err
				}
				defer e.Close() //nolint:errcheck

				if err := e.svc.ImportExpected(cmd.Context(), rows); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d expected-strokes rows\n", len(rows))
				return nil
			},
		},
		&cobra.Command{
			Use:   "export",
			Short: "Print the active expected-strokes table as YAML",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				e, err := g.open(cmd.Context())
				if err != nil {
					return err
				}
				defer e.Close() //nolint:errcheck

				rows, err := e.svc.ExpectedRows(cmd.Context())
				if err != nil {
					return err
				}
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(rows); err != nil {
					return fmt.Errorf("encode rows: %w", err)
				}
				return enc.Close()
			},
		},
	)
	return cmd
}
