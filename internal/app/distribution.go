package app

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"speech-insights-go/internal/aggregator"
	"speech-insights-go/internal/dataset"
	"speech-insights-go/internal/output"
	"speech-insights-go/internal/types"
)

var (
	distMetric string
	distTiers  string
	distJSON   bool
)

var distributionCmd = &cobra.Command{
	Use:   "distribution <file>",
	Short: "Bucket a metric across a dataset",
	Args:  cobra.ExactArgs(1),
	RunE:  runDistribution,
}

var summaryCmd = &cobra.Command{
	Use:   "summary <file>",
	Short: "Summarize a historical dataset as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummary,
}

func init() {
	distributionCmd.Flags().StringVar(&distMetric, "metric", "empathy", "Metric to bucket: empathy, sentiment, authenticity or confidence")
	distributionCmd.Flags().StringVar(&distTiers, "tiers", "tiers", "Bucket set: tiers (3) or levels (5)")
	distributionCmd.Flags().BoolVar(&distJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(distributionCmd)
	rootCmd.AddCommand(summaryCmd)
}

func runDistribution(cmd *cobra.Command, args []string) error {
	metric, err := types.ParseMetric(distMetric)
	if err != nil {
		return err
	}
	buckets, err := aggregator.BucketSet(distTiers)
	if err != nil {
		return err
	}
	records, err := dataset.Load(args[0])
	if err != nil {
		return fmt.Errorf("loading dataset: %w", err)
	}

	counts := aggregator.Aggregate(records, metric, buckets)
	if distJSON {
		return writeJSON(cmd.OutOrStdout(), counts)
	}
	_, err = io.WriteString(cmd.OutOrStdout(), output.Buckets(counts))
	return err
}

func runSummary(cmd *cobra.Command, args []string) error {
	_, summary, err := dataset.LoadAndSummarize(args[0], cliLogger())
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), summary)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
