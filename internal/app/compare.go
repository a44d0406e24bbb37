package app

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"speech-insights-go/internal/comparison"
	"speech-insights-go/internal/dataset"
	"speech-insights-go/internal/output"
	"speech-insights-go/internal/report"
)

var (
	compareFormat string
	compareOut    string
)

var compareCmd = &cobra.Command{
	Use:   "compare <file>",
	Short: "Rank and compare the speeches in a file",
	Long: `Load two or more analyses from a JSON, YAML or XLSX file and print the
composite ranking with key insights, common themes and differences.

Use --format json or --format xlsx to export the full comparison report.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringVar(&compareFormat, "format", "table", "Output format: table, json or xlsx")
	compareCmd.Flags().StringVarP(&compareOut, "out", "o", "", "Write the report to this file instead of stdout")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	log := cliLogger().Component("cli.compare").WithField("path", args[0])

	table := strings.EqualFold(compareFormat, "table")
	format := report.JSON
	if !table {
		f, err := report.ParseFormat(compareFormat)
		if err != nil {
			return err
		}
		format = f
	}
	if format == report.XLSX && compareOut == "" {
		return fmt.Errorf("xlsx output needs --out")
	}

	records, err := dataset.Load(args[0])
	if err != nil {
		return fmt.Errorf("loading analyses: %w", err)
	}
	log.WithField("records", len(records)).Debug("analyses loaded")

	res, err := comparison.Compare(records)
	if err != nil {
		return err
	}

	render := func(w io.Writer) error {
		if table {
			_, err := io.WriteString(w, output.Rankings(res))
			return err
		}
		if err := report.Write(w, format, res); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		return nil
	}

	if compareOut == "" {
		return render(cmd.OutOrStdout())
	}
	if err := writeFile(compareOut, render); err != nil {
		return err
	}
	log.WithField("out", compareOut).Debug("report written")
	return nil
}

// writeFile creates path and hands it to render, reporting the close error
// when rendering succeeded.
func writeFile(path string, render func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()
	return render(f)
}
