// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/katalvlaran/latentree/config"
	"github.com/katalvlaran/latentree/core"
	"github.com/katalvlaran/latentree/dataset"
	"github.com/katalvlaran/latentree/dfs"
	"github.com/katalvlaran/latentree/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// app is the state shared by every subcommand of one invocation.
type app struct {
	// flags
	configPath string
	dataPath   string
	verbose    bool
	seed       int64
	metricsOut string
	depth      int

	// resolved in PersistentPreRunE
	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Registry
	reg     *core.Registry
	data    *dataset.Dataset
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "ltm",
		Short: "Latent tree model learning",
		Long: `ltm learns latent tree models from discrete data.

  cluster  groups variables into islands and links them into one latent tree
  search   hill-climbs from a latent class model with tree-preserving operators
  stats    prints pairwise dependency scores`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.flushMetrics()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	flags.StringVarP(&a.dataPath, "data", "d", "", "CSV dataset (header of names, integer states, optional weight column)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	flags.Int64VarP(&a.seed, "seed", "s", 0, "random seed for EM and root selection (0 keeps the configured seed)")
	flags.StringVar(&a.metricsOut, "metrics-out", "", "write Prometheus metrics to this file on exit")
	flags.IntVar(&a.depth, "depth", -1, "print the learned tree down to this depth (-1 prints all)")
	_ = root.MarkPersistentFlagRequired("data")

	root.AddCommand(newClusterCmd(a), newSearchCmd(a), newStatsCmd(a))
	return root
}

// setup builds the logger, reads the configuration and loads the dataset.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	a.metrics = metrics.DefaultRegistry()

	a.cfg = config.Default()
	if a.configPath != "" {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	if a.seed != 0 {
		a.cfg.EM.Seed = a.seed
		a.cfg.Clustering.Seed = a.seed
	}

	a.reg = core.NewRegistry()
	d, err := dataset.Load(a.reg, a.dataPath)
	if err != nil {
		return err
	}
	a.data = d
	a.logger.Info("dataset loaded",
		slog.String("path", a.dataPath),
		slog.Int("variables", len(d.Variables())),
		slog.Int("distinct_rows", d.Len()),
		slog.Float64("total_weight", d.TotalWeight()))
	return nil
}

func (a *app) flushMetrics() error {
	if a.metricsOut == "" || a.metrics == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(a.metricsOut, a.metrics.GetPrometheusRegistry()); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}

// describe prints the model as an indented tree, roots first. Latents show how many
// manifests hang below them. maxDepth < 0 prints every level.
func describe(w io.Writer, net *core.Network, maxDepth int) error {
	covered := make(map[string]int)
	_, err := dfs.DFS(net, "", dfs.WithFullTraversal(), dfs.WithOnExit(func(name string) error {
		if v, _ := net.Variable(name); !v.IsLatent() {
			covered[name] = 1
		}
		if p, ok := net.Parent(name); ok {
			covered[p] += covered[name]
		}
		return nil
	}))
	if err != nil {
		return err
	}

	var pre []string
	walk, err := dfs.DFS(net, "", dfs.WithFullTraversal(), dfs.WithMaxDepth(maxDepth),
		dfs.WithOnVisit(func(name string) error {
			pre = append(pre, name)
			return nil
		}))
	if err != nil {
		return err
	}
	for _, name := range pre {
		v, _ := net.Variable(name)
		indent := strings.Repeat("  ", walk.Depth[name]+1)
		if v.IsLatent() {
			fmt.Fprintf(w, "%s%s card=%d latent manifests=%d\n", indent, name, v.Cardinality(), covered[name])
			continue
		}
		fmt.Fprintf(w, "%s%s card=%d\n", indent, name, v.Cardinality())
	}
	return nil
}
