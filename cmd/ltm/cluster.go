// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"log/slog"

	"github.com/katalvlaran/latentree/clustering"
	"github.com/katalvlaran/latentree/core"
	"github.com/katalvlaran/latentree/execution"
	"github.com/spf13/cobra"
)

func newClusterCmd(a *app) *cobra.Command {
	var refine string
	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Learn a flat latent tree with the clustering pipeline",
		Example: `  ltm cluster --data survey.csv
  ltm cluster --data survey.csv --refine local --seed 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if refine != "" {
				a.cfg.Clustering.Refinement = refine
				if err := a.cfg.Validate(); err != nil {
					return err
				}
			}
			learner, err := a.cfg.Learner(a.logger, a.metrics)
			if err != nil {
				return err
			}
			opts, err := a.cfg.ClusteringOptions(a.logger, a.metrics)
			if err != nil {
				return err
			}
			pipeline, err := clustering.New(learner, append(opts, clustering.WithRegistry(a.reg))...)
			if err != nil {
				return err
			}

			w := execution.NewWrapper(execution.WithLogger(a.logger))
			res, err := w.Run(cmd.Context(), 0, a.data, pipeline.Run)
			if err != nil {
				a.logger.Error("clustering failed", slog.String("kind", core.KindOf(err).String()), slog.Any("error", err))
				return err
			}
			return printResult(cmd, res, a.depth)
		},
	}
	cmd.Flags().StringVar(&refine, "refine", "", "model refinement: none, local or global (overrides the configuration)")
	return cmd
}

// printResult writes the run summary and the model structure to stdout.
func printResult(cmd *cobra.Command, res execution.Result, depth int) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run      %s\n", res.ID())
	fmt.Fprintf(out, "score    %.4f (%s)\n", res.Score(), res.ScoreType())
	fmt.Fprintf(out, "latents  %d\n", len(res.Model().Latents()))
	fmt.Fprintf(out, "elapsed  %s\n", res.Elapsed())
	fmt.Fprintln(out, "model")
	return describe(out, res.Model(), depth)
}
