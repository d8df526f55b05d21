package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/goeof/eof"
	"github.com/YuminosukeSato/goeof/internal/dataio"
	"github.com/YuminosukeSato/goeof/pkg/errors"
	"github.com/YuminosukeSato/goeof/pkg/log"
)

func newProjectCmd(opts *rootOptions) *cobra.Command {
	var (
		modelPath string
		outPath   string
	)

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project new samples onto the EOFs of a saved model",
		Long: `Load a model written by "goeof solve --save" and project the rows of
--input onto its EOFs. The input is preprocessed with the stored mean,
standard deviation and weights.

Example usage:
  goeof solve --input train.csv --save model.gob
  goeof project --model model.gob --input new.csv --scaling 1 --out pcs.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if modelPath == "" {
				return errors.NewValidationError("model", "a saved model is required", "")
			}
			model, err := eof.LoadFile(modelPath, eof.WithLogger(opts.logger))
			if err != nil {
				return err
			}
			X, err := opts.loadMatrix()
			if err != nil {
				return err
			}
			proj, err := model.ProjectOntoEOFs(X, opts.scaling())
			if err != nil {
				return err
			}
			r, c := proj.Dims()
			opts.logger.Info("samples projected",
				log.OperationKey, log.OperationProject,
				log.SamplesKey, r,
				log.ModesKey, c,
			)

			if outPath != "" {
				if err := dataio.WriteMatrixFile(outPath, proj, dataio.ColumnNames("mode", c)); err != nil {
					return err
				}
				opts.logger.Info("projection written", log.OutputPathKey, outPath)
				return nil
			}
			report := patternsReport{Kind: "pcs", Scaling: opts.scaling().String(), Values: rows(proj)}
			return render(cmd.OutOrStdout(), opts.cfg.Format, report, func(tw *tabwriter.Writer) {
				writeMatrixTable(tw, "sample", proj, func(i, j int) string {
					return fmt.Sprintf("%.6g", proj.At(i, j))
				})
			})
		},
	}
	cmd.Flags().StringVarP(&modelPath, "model", "m", "", "Model file written by solve --save")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the projection as CSV to this file")
	return cmd
}
