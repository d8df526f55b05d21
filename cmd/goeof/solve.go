package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/goeof/eof"
	"github.com/YuminosukeSato/goeof/pkg/log"
)

func newSolveCmd(opts *rootOptions) *cobra.Command {
	var savePath string

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Print the singular value spectrum and explained variance",
		Long: `Solve the decomposition and print one row per retained mode with the
singular value, explained variance, explained variance ratio and the
cumulative ratio.

Example usage:
  goeof solve --input data.csv --modes 3 --norm
  goeof solve --input data.csv --format yaml --save model.gob`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			model, _, err := opts.solveModel()
			if err != nil {
				return err
			}
			summary, err := model.Summary()
			if err != nil {
				return err
			}
			if savePath != "" {
				if err := model.SaveFile(savePath); err != nil {
					return err
				}
				opts.logger.Info("model saved", log.OutputPathKey, savePath)
			}
			return render(cmd.OutOrStdout(), opts.cfg.Format, summary, func(tw *tabwriter.Writer) {
				writeSummaryTable(tw, summary)
			})
		},
	}
	cmd.Flags().StringVar(&savePath, "save", "", "Write the solved model to this file")
	return cmd
}

func writeSummaryTable(tw *tabwriter.Writer, s *eof.Summary) {
	fmt.Fprintf(tw, "samples=%d features=%d modes=%d norm=%t total_variance=%.6g\n\n",
		s.NSamples, s.NFeatures, s.NModes, s.Norm, s.TotalVariance)
	fmt.Fprintln(tw, "Mode\tSingular\tVariance\tRatio\tCumulative")
	fmt.Fprintln(tw, "----\t--------\t--------\t-----\t----------")
	for _, m := range s.Modes {
		fmt.Fprintf(tw, "%d\t%.6g\t%.6g\t%.4f\t%.4f\n",
			m.Mode, m.SingularValue, m.ExplainedVariance, m.ExplainedVarianceRatio, m.CumulativeRatio)
	}
}
