// Package eof implements Empirical Orthogonal Function analysis, the SVD
// form of principal component analysis used for sample × feature fields.
//
// An EOF is built from a raw matrix, solved once, and then queried:
//
//	model, err := eof.New(X, eof.WithNModes(3), eof.WithNorm(true))
//	if err != nil {
//	    return err
//	}
//	if err := model.Solve(); err != nil {
//	    return err
//	}
//	patterns, _ := model.EOFs(eof.ScalingNone)
//	amplitudes, _ := model.PCs(eof.ScalingNone)
//	approx, _ := model.ReconstructX(eof.ModeRange(1, 2))
//
// Construction centers every feature, optionally divides it by its
// population standard deviation and multiplies it by a weight. Solve keeps
// the leading modes of the thin SVD X' = U S Vᵀ with a deterministic sign:
// the largest entry of every U column is positive.
//
// Every query returns a fresh copy; errors classify with errors.Is against
// the sentinels in pkg/errors (ErrNotSolved, ErrInvalidModeSelection, ...).
package eof
