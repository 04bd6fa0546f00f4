package main

import (
	"github.com/spf13/cobra"
)

// NewValidateCmd creates the validate command.
func NewValidateCmd() *cobra.Command {
	var src sources
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Load impact tables and the catalog and report errors",
		Long: `Loads the impact table, boundary limits and recommendation catalog the way
the server does at startup and reports the first error found:
malformed YAML or TOML, degenerate limits, unknown boundaries, chained
synonyms, overrides to missing activities and actions targeting unknown
boundaries.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tables, catalog, err := src.load(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Printf("tables %s: %d boundaries, %d factors across %d domains\n",
				tables.Version(), len(tables.Boundaries()), tables.FactorCount(), len(tables.Domains()))
			cmd.Printf("catalog %s: %d actions, %d resources\n",
				catalog.Source(), catalog.Len(), len(catalog.Resources()))
			cmd.Println("OK")
			return nil
		},
	}
	src.bind(cmd)
	return cmd
}
