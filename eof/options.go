package eof

import "github.com/YuminosukeSato/goeof/pkg/log"

// Option is a function that configures an EOF at construction time
type Option func(*EOF)

// WithNModes sets the number of modes to retain. Values above
// min(n_samples, n_features) are clamped; values <= 0 are rejected by New.
func WithNModes(k int) Option {
	return func(e *EOF) {
		e.requestedModes = k
		e.nModesSet = true
	}
}

// WithNorm sets whether each feature is divided by its population standard deviation
func WithNorm(norm bool) Option {
	return func(e *EOF) {
		e.norm = norm
	}
}

// WithWeights sets per-feature weights applied after centering and normalization
func WithWeights(weights []float64) Option {
	return func(e *EOF) {
		if weights == nil {
			e.weights = nil
			return
		}
		e.weights = append([]float64(nil), weights...)
	}
}

// WithLogger sets the logger used for solve diagnostics
func WithLogger(logger log.Logger) Option {
	return func(e *EOF) {
		e.logger = logger
	}
}
