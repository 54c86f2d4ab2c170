// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/katalvlaran/latentree/core"
	"github.com/katalvlaran/latentree/independence"
	"github.com/katalvlaran/latentree/suffstat"
	"github.com/spf13/cobra"
)

func newStatsCmd(a *app) *cobra.Command {
	var (
		parallel bool
		top      int
	)
	cmd := &cobra.Command{
		Use:     "stats",
		Short:   "Print pairwise dependency scores and co-occurrence counts",
		Example: `  ltm stats --data survey.csv --parallel --top 10`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if parallel {
				a.cfg.Stats.Engine = suffstat.EngineParallel
			}
			engine, err := a.cfg.StatsEngine(a.metrics)
			if err != nil {
				return err
			}
			test, err := a.cfg.IndependenceTest()
			if err != nil {
				return err
			}
			vars := a.data.Variables()
			table, err := engine.Compute(cmd.Context(), a.data, vars)
			if err != nil {
				return err
			}
			scores, err := test.Batch(cmd.Context(), a.data, vars)
			if err != nil {
				return err
			}

			pairs := rank(vars, scores)
			if top > 0 && top < len(pairs) {
				pairs = pairs[:top]
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "a\tb\t%s\tco-present\n", test.Name())
			for _, p := range pairs {
				n, _ := table.Pair(p.a, p.b)
				fmt.Fprintf(tw, "%s\t%s\t%.6f\t%.1f\n", p.a.Name(), p.b.Name(), p.score, n)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "total weight %.1f, engine %s\n", table.Total(), a.cfg.Stats.Engine)
			return nil
		},
	}
	cmd.Flags().BoolVar(&parallel, "parallel", false, "use the fork-join frequency engine")
	cmd.Flags().IntVar(&top, "top", 0, "print only the N strongest pairs (0 prints all)")
	return cmd
}

type scoredPair struct {
	a, b  *core.Variable
	score float64
}

// rank lists every unordered pair of vars by descending score; ties keep vars order.
func rank(vars []*core.Variable, scores independence.Scores) []scoredPair {
	var out []scoredPair
	for i := range vars {
		for j := i + 1; j < len(vars); j++ {
			out = append(out, scoredPair{a: vars[i], b: vars[j], score: scores[vars[i]][vars[j]]})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].score > out[j].score })
	return out
}
