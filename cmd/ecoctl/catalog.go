package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Neil-21/eco-bee/internal/domain/recommend"
)

// NewCatalogCmd creates the catalog command group.
func NewCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and convert recommendation catalogs",
	}
	cmd.AddCommand(newCatalogExportCmd(), newCatalogListCmd())
	return cmd
}

func newCatalogExportCmd() *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "export <dest>",
		Short: "Convert a catalog to YAML, TOML or SQLite",
		Example: `  # Seed a SQLite catalog from the embedded one
  ecoctl catalog export sqlite:/var/lib/ecobee/catalog.db

  # Convert a YAML catalog to TOML
  ecoctl catalog export --from catalog.yaml catalog.toml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := recommend.Load(cmd.Context(), from)
			if err != nil {
				return err
			}
			dest := args[0]
			if path, ok := strings.CutPrefix(dest, recommend.SQLitePrefix); ok {
				if err := c.WriteSQLite(cmd.Context(), path); err != nil {
					return err
				}
			} else {
				var buf bytes.Buffer
				switch strings.ToLower(filepath.Ext(dest)) {
				case ".toml":
					err = c.EncodeTOML(&buf)
				case ".yaml", ".yml":
					err = c.EncodeYAML(&buf)
				default:
					return fmt.Errorf("%w: %s", recommend.ErrUnsupportedSource, dest)
				}
				if err != nil {
					return err
				}
				if err := os.WriteFile(dest, buf.Bytes(), 0o644); err != nil { //nolint:gosec // catalog files are not secret
					return fmt.Errorf("write %s: %w", dest, err)
				}
			}
			cmd.Printf("exported %d actions and %d resources to %s\n", c.Len(), len(c.Resources()), dest)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "source catalog (default: embedded)")
	return cmd
}

func newCatalogListCmd() *cobra.Command {
	var (
		from     string
		category string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := recommend.Load(cmd.Context(), from)
			if err != nil {
				return err
			}
			actions := c.Actions()
			if category != "" {
				actions = c.ActionsByCategory(category)
			}
			for _, a := range actions {
				cmd.Printf("%-28s %-10s %-8s %-9s %s\n", a.ID, a.Category, a.Difficulty, a.Cost, strings.Join(a.Targets, ","))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "source catalog (default: embedded)")
	cmd.Flags().StringVar(&category, "category", "", "only list actions in this category")
	return cmd
}
