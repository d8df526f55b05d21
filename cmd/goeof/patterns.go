package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/goeof/internal/dataio"
	"github.com/YuminosukeSato/goeof/pkg/errors"
	"github.com/YuminosukeSato/goeof/pkg/log"
)

type patternsReport struct {
	Kind    string      `json:"kind" yaml:"kind"`
	Scaling string      `json:"scaling" yaml:"scaling"`
	Values  [][]float64 `json:"values" yaml:"values"`
}

func newPatternsCmd(opts *rootOptions) *cobra.Command {
	var (
		kind    string
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Print EOFs (features × modes) or PCs (samples × modes)",
		Long: `Print the spatial patterns or the principal component series with the
selected scaling. With --out the matrix is written as CSV instead.

Example usage:
  goeof patterns --input data.csv --kind eofs --scaling 2
  goeof patterns --input data.csv --kind pcs --out pcs.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			model, _, err := opts.solveModel()
			if err != nil {
				return err
			}

			var m *mat.Dense
			switch strings.ToLower(kind) {
			case "eofs":
				m, err = model.EOFs(opts.scaling())
			case "pcs":
				m, err = model.PCs(opts.scaling())
			default:
				return errors.NewValidationError("kind", "must be eofs or pcs", kind)
			}
			if err != nil {
				return err
			}

			if outPath != "" {
				_, c := m.Dims()
				if err := dataio.WriteMatrixFile(outPath, m, dataio.ColumnNames("mode", c)); err != nil {
					return err
				}
				opts.logger.Info("patterns written", log.OutputPathKey, outPath)
				return nil
			}

			report := patternsReport{Kind: kind, Scaling: opts.scaling().String(), Values: rows(m)}
			label := "feature"
			if kind == "pcs" {
				label = "sample"
			}
			return render(cmd.OutOrStdout(), opts.cfg.Format, report, func(tw *tabwriter.Writer) {
				writeMatrixTable(tw, label, m, func(i, j int) string {
					return fmt.Sprintf("%.6g", m.At(i, j))
				})
			})
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "eofs", "Matrix to print: eofs or pcs")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the matrix as CSV to this file")
	return cmd
}
