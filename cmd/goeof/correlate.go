package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/goeof/pkg/log"
)

type correlationReport struct {
	Correlation [][]float64 `json:"correlation" yaml:"correlation"`
	PValues     [][]float64 `json:"p_values" yaml:"p_values"`
}

func newCorrelateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "correlate",
		Short: "Print feature × PC correlations with two-sided p-values",
		Long: `Correlate every original feature with every principal component. The
table format prints "r (p)" per cell.

Example usage:
  goeof correlate --input data.csv --modes 2
  goeof correlate --input data.csv --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			model, _, err := opts.solveModel()
			if err != nil {
				return err
			}
			corr, pvals, err := model.EOFsAsCorrelation()
			if err != nil {
				return err
			}
			opts.logger.Debug("correlation computed", log.OperationKey, log.OperationCorrelate)

			report := correlationReport{Correlation: rows(corr), PValues: rows(pvals)}
			return render(cmd.OutOrStdout(), opts.cfg.Format, report, func(tw *tabwriter.Writer) {
				writeMatrixTable(tw, "feature", corr, func(i, j int) string {
					return fmt.Sprintf("%+.4f (%.3g)", corr.At(i, j), pvals.At(i, j))
				})
			})
		},
	}
}
