package main

import (
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/goeof/eof"
	"github.com/YuminosukeSato/goeof/internal/config"
	"github.com/YuminosukeSato/goeof/internal/dataio"
	"github.com/YuminosukeSato/goeof/pkg/errors"
	"github.com/YuminosukeSato/goeof/pkg/log"
)

// rootOptions holds the flags shared by every subcommand. After
// PersistentPreRunE, cfg is the config file merged with explicit flags.
type rootOptions struct {
	configPath  string
	logLevel    string
	input       string
	header      bool
	modes       int
	norm        bool
	weights     []float64
	scalingFlag int
	format      string

	cfg    *config.Config
	logger log.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "goeof",
		Short: "EOF analysis of numeric CSV matrices",
		Long: `goeof decomposes a samples × features matrix into empirical orthogonal
functions (EOFs) and principal components (PCs).

The matrix is centered per feature, optionally normalized by the population
standard deviation and weighted per feature before the singular value
decomposition.

Example usage:
  goeof solve --input data.csv --modes 3
  goeof correlate --input data.csv --format json
  goeof reconstruct --input data.csv --select 1-2 --out rec.csv --add-mean
  goeof plot --input data.csv --out scree.png --eofs eofs.png`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to a YAML configuration file")
	flags.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flags.StringVarP(&opts.input, "input", "i", "", "Input CSV matrix (rows are samples)")
	flags.BoolVar(&opts.header, "header", false, "Skip the first CSV row")
	flags.IntVarP(&opts.modes, "modes", "k", 0, "Number of modes to retain (0 keeps all)")
	flags.BoolVar(&opts.norm, "norm", false, "Normalize features by their standard deviation")
	flags.Float64SliceVar(&opts.weights, "weights", nil, "Comma separated per-feature weights")
	flags.IntVar(&opts.scalingFlag, "scaling", 0, "Scaling of EOFs and PCs: 0 none, 1 singular, 2 variance")
	flags.StringVarP(&opts.format, "format", "f", "table", "Output format: table, json, yaml")

	cmd.AddCommand(
		newSolveCmd(opts),
		newPatternsCmd(opts),
		newCorrelateCmd(opts),
		newReconstructCmd(opts),
		newProjectCmd(opts),
		newPlotCmd(opts),
	)
	return cmd
}

// setup merges the configuration and installs the zerolog provider.
func (o *rootOptions) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	o.applyFlags(cmd.Flags(), cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	o.cfg = cfg

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.NewValidationError("log-level", "must be debug, info, warn or error", cfg.LogLevel)
	}
	o.logger = newLogger(cmd.ErrOrStderr(), level)
	if o.configPath != "" {
		o.logger.Debug("configuration loaded", log.ConfigPathKey, o.configPath)
	}
	return nil
}

// applyFlags copies explicitly set flags over the configuration.
func (o *rootOptions) applyFlags(flags *pflag.FlagSet, cfg *config.Config) {
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if flags.Changed("input") {
		cfg.Input = o.input
	}
	if flags.Changed("header") {
		cfg.Header = o.header
	}
	if flags.Changed("modes") {
		cfg.Modes = o.modes
	}
	if flags.Changed("norm") {
		cfg.Norm = o.norm
	}
	if flags.Changed("weights") {
		cfg.Weights = o.weights
	}
	if flags.Changed("scaling") {
		cfg.Scaling = o.scalingFlag
	}
	if flags.Changed("format") {
		cfg.Format = o.format
	}
}

func newLogger(w io.Writer, level log.Level) log.Logger {
	base := zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
	provider := log.NewZerologProvider(base)
	provider.SetLevel(level)
	log.SetProvider(provider)
	log.InstallZerologWarnings(base)
	return log.GetLoggerWithName("goeof")
}

// loadMatrix reads the configured input.
func (o *rootOptions) loadMatrix() (*mat.Dense, error) {
	if o.cfg.Input == "" {
		return nil, errors.NewValidationError("input", "an input CSV is required", "")
	}
	return dataio.ReadMatrixFile(o.cfg.Input, o.cfg.Header)
}

// solveModel reads the input and solves the decomposition. The loaded
// matrix is returned alongside the model.
func (o *rootOptions) solveModel() (*eof.EOF, *mat.Dense, error) {
	X, err := o.loadMatrix()
	if err != nil {
		return nil, nil, err
	}
	r, c := X.Dims()
	o.logger.Info("matrix loaded",
		log.InputPathKey, o.cfg.Input,
		log.SamplesKey, r,
		log.FeaturesKey, c,
	)

	model, err := eof.New(X, o.modelOptions()...)
	if err != nil {
		return nil, nil, err
	}
	if err := model.Solve(); err != nil {
		return nil, nil, err
	}
	return model, X, nil
}

func (o *rootOptions) modelOptions() []eof.Option {
	opts := []eof.Option{
		eof.WithNorm(o.cfg.Norm),
		eof.WithLogger(o.logger),
	}
	if len(o.cfg.Weights) > 0 {
		opts = append(opts, eof.WithWeights(o.cfg.Weights))
	}
	if o.cfg.Modes > 0 {
		opts = append(opts, eof.WithNModes(o.cfg.Modes))
	}
	return opts
}

func (o *rootOptions) scaling() eof.Scaling {
	return eof.Scaling(o.cfg.Scaling)
}
