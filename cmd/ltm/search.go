// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"

	"github.com/katalvlaran/latentree/core"
	"github.com/katalvlaran/latentree/dataset"
	"github.com/katalvlaran/latentree/execution"
	"github.com/katalvlaran/latentree/hillclimb"
	"github.com/spf13/cobra"
)

func newSearchCmd(a *app) *cobra.Command {
	var (
		iterations int
		card       int
	)
	cmd := &cobra.Command{
		Use:     "search",
		Short:   "Hill-climb from a latent class model over all variables",
		Example: `  ltm search --data survey.csv --iterations 20`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("iterations") {
				a.cfg.Search.MaxIterations = iterations
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			learner, err := a.cfg.Learner(a.logger, a.metrics)
			if err != nil {
				return err
			}
			ops := hillclimb.TreeOperators(a.reg, a.cfg.Search.MaxCardinality)
			search, err := hillclimb.New(learner, ops, a.cfg.SearchOptions(a.logger, a.metrics)...)
			if err != nil {
				return err
			}
			if card == 0 {
				card = a.cfg.Clustering.LatentCardinality
			}
			seed, err := core.NewLCM(a.reg, a.data.Variables(), card)
			if err != nil {
				return err
			}

			var report hillclimb.Report
			w := execution.NewWrapper(execution.WithLogger(a.logger))
			res, err := w.Run(cmd.Context(), 0, a.data, func(ctx context.Context, d *dataset.Dataset) (core.LearningResult, error) {
				r, err := search.Run(ctx, seed, d)
				report = r
				return r.Result, err
			})
			if err != nil {
				return err
			}
			if err := printResult(cmd, res, a.depth); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stop     %s after %d iterations (%d accepted, seed score %.4f)\n",
				report.Reason, report.Iterations, report.Accepted, report.Seed.Score())
			return nil
		},
	}
	cmd.Flags().IntVar(&iterations, "iterations", 0, "maximum hill-climbing iterations (overrides the configuration)")
	cmd.Flags().IntVar(&card, "latent-card", 0, "cardinality of the seed latent class (0 keeps clustering.latent_cardinality)")
	return cmd
}
