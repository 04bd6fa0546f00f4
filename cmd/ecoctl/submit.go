package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Neil-21/eco-bee/internal/domain/model"
	"github.com/Neil-21/eco-bee/internal/domain/types"
)

const defaultHTTPTimeout = 10 * time.Second

// NewSubmitCmd creates the submit command.
func NewSubmitCmd() *cobra.Command {
	var (
		server  string
		name    string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:     "submit <request.json|->",
		Short:   "Score a request on a running server and post the result to the leaderboard",
		Example: `  ecoctl submit request.json --name alice --server http://localhost:9080`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("--name is required")
			}
			req, err := readRequest(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			c := &client{base: strings.TrimRight(server, "/"), http: &http.Client{Timeout: timeout}}

			var res model.ScoringResult
			if err := c.post(cmd.Context(), "/score", req, &res); err != nil {
				return err
			}
			var ack struct {
				Entry     types.Entry `json:"entry"`
				Duplicate bool        `json:"duplicate"`
			}
			sub := types.Submission{Name: name, Score: res.Composite, Grade: res.Grade, SubmissionID: uuid.NewString()}
			if err := c.post(cmd.Context(), "/leaderboard", sub, &ack); err != nil {
				return err
			}
			cmd.Printf("%s scored %.2f (%s); best %.2f, rank %d\n",
				name, res.Composite, res.Grade, ack.Entry.Score, ack.Entry.Rank)
			return nil
		},
	}
	cmd.Flags().StringVar(&server, "server", "http://localhost:9080", "EcoScore server base URL")
	cmd.Flags().StringVar(&name, "name", "", "leaderboard participant name")
	cmd.Flags().DurationVar(&timeout, "timeout", defaultHTTPTimeout, "per-request timeout")
	return cmd
}

type client struct {
	base string
	http *http.Client
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		var e apiError
		if json.Unmarshal(data, &e) == nil && e.Code != "" {
			return fmt.Errorf("POST %s: %d %s: %s", path, resp.StatusCode, e.Code, e.Message)
		}
		return fmt.Errorf("POST %s: %s", path, resp.Status)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
