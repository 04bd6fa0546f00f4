package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Neil-21/eco-bee/internal/domain/equivalency"
	"github.com/Neil-21/eco-bee/internal/domain/legacy"
	"github.com/Neil-21/eco-bee/internal/domain/model"
	"github.com/Neil-21/eco-bee/internal/domain/scoring"
)

// Engine names accepted by --engine.
const (
	engineBoundary = "boundary"
	engineLegacy   = "legacy"
)

// NewScoreCmd creates the score command.
func NewScoreCmd() *cobra.Command {
	var (
		src        sources
		engineName string
		limit      int
		output     string
	)
	cmd := &cobra.Command{
		Use:   "score <request.json|->",
		Short: "Score a request file locally",
		Example: `  # Score with the embedded tables
  ecoctl score request.json

  # Score with the flat category scorer as JSON
  ecoctl score request.json --engine legacy --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readRequest(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			if limit > 0 {
				req.Limit = limit
			}

			var scorer scoring.Scorer
			switch engineName {
			case engineBoundary:
				e, err := src.engine(cmd.Context())
				if err != nil {
					return err
				}
				scorer = e
			case engineLegacy:
				scorer = legacy.New()
			default:
				return fmt.Errorf("unknown engine %q (want %s or %s)", engineName, engineBoundary, engineLegacy)
			}

			res, err := scorer.Score(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("score: %w", err)
			}
			if output == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			renderResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
	src.bind(cmd)
	cmd.Flags().StringVar(&engineName, "engine", engineBoundary, "scoring engine: boundary or legacy")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of recommendations (0 = configured default)")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text or json")
	return cmd
}

func readRequest(stdin io.Reader, path string) (model.ScoreRequest, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return model.ScoreRequest{}, fmt.Errorf("read request: %w", err)
	}
	var req model.ScoreRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return model.ScoreRequest{}, fmt.Errorf("decode request %s: %w", path, err)
	}
	return req, nil
}

func renderResult(w io.Writer, res model.ScoringResult) {
	fmt.Fprintf(w, "Composite: %s (%s)\n", equivalency.FormatFloat(res.Composite, 1), res.Grade)
	fmt.Fprintf(w, "Engine:    %s, tables %s\n\n", res.EngineVersion, res.TablesVersion)
	for _, b := range res.Boundaries {
		fmt.Fprintf(w, "  %-20s %6s  raw %s %s\n", b.Boundary,
			equivalency.FormatFloat(b.Score, 1), equivalency.FormatFloat(b.Raw, 3), b.Unit)
	}
	if len(res.Recommendations) > 0 {
		fmt.Fprintln(w, "\nRecommendations:")
		for _, r := range res.Recommendations {
			fmt.Fprintf(w, "  %d. %s [%s]\n", r.Rank, r.Action.Name, r.Boundary)
		}
	}
	if res.Equivalency != nil {
		fmt.Fprintf(w, "\n%s\n", res.Equivalency.Summary)
	}
	if len(res.Diagnostics) > 0 {
		fmt.Fprintln(w, "\nDiagnostics:")
		for _, d := range res.Diagnostics {
			fmt.Fprintf(w, "  %s %s/%s: %s\n", d.Kind, d.Domain, d.Label, d.Message)
		}
	}
}
