package eof

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/goeof/pkg/errors"
)

// Scaling selects how each singular value is split between the EOFs and the PCs.
//
//	code  EOFs           PCs
//	0     V              U·S
//	1     V·S            U
//	2     V·sqrt(λ)      U·sqrt(n_samples-1)
//
// λ is the explained variance of the mode. For every code the product
// PCs · EOFsᵀ equals U·S·Vᵀ.
type Scaling int

const (
	// ScalingNone returns unit-norm EOFs and PCs carrying the singular values.
	ScalingNone Scaling = iota
	// ScalingSingular multiplies the EOFs by the singular values and returns unit-norm PCs.
	ScalingSingular
	// ScalingVariance multiplies the EOFs by the square root of the explained
	// variance and the PCs by sqrt(n_samples-1), so the PCs have unit sample variance.
	ScalingVariance
)

// Valid reports whether s is one of the defined scaling codes.
func (s Scaling) Valid() bool {
	return s >= ScalingNone && s <= ScalingVariance
}

func (s Scaling) String() string {
	switch s {
	case ScalingNone:
		return "none"
	case ScalingSingular:
		return "singular"
	case ScalingVariance:
		return "variance"
	default:
		return fmt.Sprintf("Scaling(%d)", int(s))
	}
}

func validateScaling(s Scaling) error {
	if !s.Valid() {
		return errors.NewValidationError("scaling", "must be 0, 1 or 2", int(s))
	}
	return nil
}

// factors returns the per-mode multipliers for the EOFs and the PCs.
// eof[i] * pc[i] == singular[i] for every mode.
func (s Scaling) factors(singular []float64, nSamples int) (eof, pc []float64) {
	k := len(singular)
	eof = make([]float64, k)
	pc = make([]float64, k)
	dof := math.Sqrt(float64(nSamples - 1))
	for i, sv := range singular {
		switch s {
		case ScalingSingular:
			eof[i], pc[i] = sv, 1
		case ScalingVariance:
			eof[i], pc[i] = sv/dof, dof
		default:
			eof[i], pc[i] = 1, sv
		}
	}
	return eof, pc
}
