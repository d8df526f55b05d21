package main

import (
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/goeof/pkg/errors"
	"github.com/YuminosukeSato/goeof/pkg/log"
	"github.com/YuminosukeSato/goeof/viz"
)

func newPlotCmd(opts *rootOptions) *cobra.Command {
	var (
		screePath string
		eofsPath  string
		pcsPath   string
	)

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Draw the scree plot and EOF or PC line plots",
		Long: `Draw the explained variance spectrum and, optionally, the leading EOF
patterns and PC series. The image format follows the file extension
(png, svg, pdf, eps, jpg, tif). Size and the number of drawn modes come from
the plot section of the configuration file.

Example usage:
  goeof plot --input data.csv --out scree.png
  goeof plot --input data.csv --out scree.svg --eofs eofs.svg --pcs pcs.svg --scaling 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if screePath == "" && eofsPath == "" && pcsPath == "" {
				return errors.NewValidationError("out", "at least one of --out, --eofs or --pcs is required", "")
			}
			model, _, err := opts.solveModel()
			if err != nil {
				return err
			}
			width := vg.Length(opts.cfg.Plot.Width) * vg.Inch
			height := vg.Length(opts.cfg.Plot.Height) * vg.Inch

			if screePath != "" {
				ratios, err := model.ExplainedVarianceRatio()
				if err != nil {
					return err
				}
				p, err := viz.ScreePlot(ratios)
				if err != nil {
					return err
				}
				if err := viz.SaveWithSize(p, screePath, width, height); err != nil {
					return err
				}
				opts.logger.Info("scree plot written", log.OperationKey, log.OperationPlot, log.OutputPathKey, screePath)
			}

			if eofsPath != "" {
				eofs, err := model.EOFs(opts.scaling())
				if err != nil {
					return err
				}
				p, err := viz.PatternPlot("EOFs ("+opts.scaling().String()+")", "Feature", eofs, opts.cfg.Plot.MaxModes)
				if err != nil {
					return err
				}
				if err := viz.SaveWithSize(p, eofsPath, width, height); err != nil {
					return err
				}
				opts.logger.Info("eof plot written", log.OperationKey, log.OperationPlot, log.OutputPathKey, eofsPath)
			}

			if pcsPath != "" {
				pcs, err := model.PCs(opts.scaling())
				if err != nil {
					return err
				}
				p, err := viz.PatternPlot("PCs ("+opts.scaling().String()+")", "Sample", pcs, opts.cfg.Plot.MaxModes)
				if err != nil {
					return err
				}
				if err := viz.SaveWithSize(p, pcsPath, width, height); err != nil {
					return err
				}
				opts.logger.Info("pc plot written", log.OperationKey, log.OperationPlot, log.OutputPathKey, pcsPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&screePath, "out", "o", "", "Scree plot output file")
	cmd.Flags().StringVar(&eofsPath, "eofs", "", "EOF pattern plot output file")
	cmd.Flags().StringVar(&pcsPath, "pcs", "", "PC series plot output file")
	return cmd
}
