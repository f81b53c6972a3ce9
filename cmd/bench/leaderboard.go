package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/stellarlinkco/mcq-bench/internal/results"
)

func newLeaderboardCmd(st *cliState) *cobra.Command {
	var benchmarkName string
	var limit int

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the best saved scores for a benchmark",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadState(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(benchmarkName) == "" {
				return fmt.Errorf("leaderboard: missing --benchmark")
			}

			store, err := openResultsStore(st.cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.Best(cmd.Context(), benchmarkName, limit)
			if err != nil {
				return err
			}
			return printEntries(cmd, entries)
		},
	}

	cmd.Flags().StringVar(&benchmarkName, "benchmark", "", "benchmark name")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum entries")
	return cmd
}

func newHistoryCmd(st *cliState) *cobra.Command {
	var benchmarkName string
	var model string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show every saved run of a model on a benchmark",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadState(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(model) == "" || strings.TrimSpace(benchmarkName) == "" {
				return fmt.Errorf("history: missing --model or --benchmark")
			}

			store, err := openResultsStore(st.cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.History(cmd.Context(), model, benchmarkName)
			if err != nil {
				return err
			}
			return printEntries(cmd, entries)
		},
	}

	cmd.Flags().StringVar(&benchmarkName, "benchmark", "", "benchmark name")
	cmd.Flags().StringVar(&model, "model", "", "model name")
	return cmd
}

func printEntries(cmd *cobra.Command, entries []results.Entry) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL\tPROVIDER\tBENCHMARK\tMODE\tSCORE\tEXAMPLES\tDATE")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s/%s\t%.4f\t%d\t%s\n",
			e.Model, e.Provider, e.Benchmark, e.Comparison, e.Outcome, e.Score, e.Examples,
			e.EvalDate.UTC().Format(time.RFC3339))
	}
	return tw.Flush()
}
