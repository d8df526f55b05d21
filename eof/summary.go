package eof

import (
	"fmt"
	"strings"
)

// ModeSummary describes one retained mode.
type ModeSummary struct {
	Mode                   int     `json:"mode" yaml:"mode"`
	SingularValue          float64 `json:"singular_value" yaml:"singular_value"`
	ExplainedVariance      float64 `json:"explained_variance" yaml:"explained_variance"`
	ExplainedVarianceRatio float64 `json:"explained_variance_ratio" yaml:"explained_variance_ratio"`
	CumulativeRatio        float64 `json:"cumulative_ratio" yaml:"cumulative_ratio"`
}

// Summary is the spectrum of a solved EOF.
type Summary struct {
	NSamples      int           `json:"n_samples" yaml:"n_samples"`
	NFeatures     int           `json:"n_features" yaml:"n_features"`
	NModes        int           `json:"n_modes" yaml:"n_modes"`
	Norm          bool          `json:"norm" yaml:"norm"`
	TotalVariance float64       `json:"total_variance" yaml:"total_variance"`
	Modes         []ModeSummary `json:"modes" yaml:"modes"`
}

// Summary returns per-mode singular values, explained variance and ratios.
func (e *EOF) Summary() (*Summary, error) {
	var out *Summary
	err := e.state.WithState(modelName, "Summary", func() error {
		ev := e.explainedVariance()
		ratio := e.explainedVarianceRatio()
		out = &Summary{
			NSamples:      e.nSamples,
			NFeatures:     e.nFeatures,
			NModes:        e.nModes,
			Norm:          e.norm,
			TotalVariance: e.totalVariance,
			Modes:         make([]ModeSummary, e.nModes),
		}
		var cum float64
		for i := range e.s {
			cum += ratio[i]
			out.Modes[i] = ModeSummary{
				Mode:                   i + 1,
				SingularValue:          e.s[i],
				ExplainedVariance:      ev[i],
				ExplainedVarianceRatio: ratio[i],
				CumulativeRatio:        cum,
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// String renders the summary as a fixed-width table.
func (s *Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "EOF(n_samples=%d, n_features=%d, n_modes=%d, norm=%t, total_variance=%.6g)\n",
		s.NSamples, s.NFeatures, s.NModes, s.Norm, s.TotalVariance)
	fmt.Fprintf(&b, "%5s %14s %14s %10s %10s\n", "mode", "singular", "variance", "ratio", "cumulative")
	for _, m := range s.Modes {
		fmt.Fprintf(&b, "%5d %14.6g %14.6g %10.4f %10.4f\n",
			m.Mode, m.SingularValue, m.ExplainedVariance, m.ExplainedVarianceRatio, m.CumulativeRatio)
	}
	return b.String()
}
