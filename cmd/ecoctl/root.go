package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Neil-21/eco-bee/internal/domain/equivalency"
	"github.com/Neil-21/eco-bee/internal/domain/impact"
	"github.com/Neil-21/eco-bee/internal/domain/recommend"
	"github.com/Neil-21/eco-bee/internal/domain/scoring"
	"github.com/Neil-21/eco-bee/pkg/logger"
)

// sources names the table and catalog inputs shared by several commands.
type sources struct {
	impacts string
	limits  string
	catalog string
}

func (s *sources) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.impacts, "impacts", "", "impact table YAML (default: embedded)")
	cmd.Flags().StringVar(&s.limits, "limits", "", "boundary limits YAML (default: embedded)")
	cmd.Flags().StringVar(&s.catalog, "catalog", "", "catalog YAML/TOML file or sqlite:<path> (default: embedded)")
}

// load reads tables and catalog concurrently and checks catalog targets.
func (s *sources) load(ctx context.Context) (*impact.Tables, *recommend.Catalog, error) {
	var (
		tables  *impact.Tables
		catalog *recommend.Catalog
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := impact.Load(gctx, s.impacts, s.limits)
		tables = t
		return err
	})
	g.Go(func() error {
		c, err := recommend.Load(gctx, s.catalog)
		catalog = c
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	ids := make([]string, 0, len(tables.Boundaries()))
	for _, b := range tables.Boundaries() {
		ids = append(ids, b.ID)
	}
	if err := catalog.ValidateTargets(ids); err != nil {
		return nil, nil, err
	}
	return tables, catalog, nil
}

// engine builds a scoring engine over the loaded sources.
func (s *sources) engine(ctx context.Context, opts ...scoring.Option) (*scoring.Engine, error) {
	tables, catalog, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	base := []scoring.Option{
		scoring.WithLogger(logger.Nop()),
		scoring.WithRecommender(recommend.NewMatcher(catalog)),
		scoring.WithEquivalizer(equivalency.New()),
	}
	e, err := scoring.NewEngine(tables, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("build engine: %w", err)
	}
	return e, nil
}

// NewRootCmd creates the root Cobra command for ecoctl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ecoctl",
		Short:         "EcoScore command line tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(
		NewScoreCmd(),
		NewValidateCmd(),
		NewSubmitCmd(),
		NewCatalogCmd(),
	)
	return cmd
}
