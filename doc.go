// Package goeof performs empirical orthogonal function (EOF) analysis,
// also known as principal component analysis, on a samples × features
// matrix.
//
// The analysis centers every feature, optionally divides it by its
// population standard deviation, multiplies it by a per-feature weight and
// factorizes the result with a thin singular value decomposition. The
// right singular vectors are the EOFs (spatial patterns) and the scaled
// left singular vectors are the principal components (time series).
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/goeof/eof"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(4, 3, []float64{
//	        11, -1, 5.5,
//	        9, -1, 4.5,
//	        11, -5, 4.5,
//	        9, -5, 5.5,
//	    })
//
//	    model, err := eof.New(X, eof.WithNModes(2), eof.WithNorm(true))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if err := model.Solve(); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    ratio, _ := model.ExplainedVarianceRatio()
//	    patterns, _ := model.EOFs(eof.ScalingNone)
//	    fmt.Println(ratio, mat.Formatted(patterns))
//	}
//
// # Packages
//
//   - eof: the decomposition engine (spectrum, EOFs, PCs, correlation, reconstruction, persistence)
//   - preprocessing: centering, normalization and weighting
//   - metrics: reconstruction error measures (MSE, RMSE, MAE, relative residual, R²)
//   - viz: scree and pattern plots with gonum/plot
//   - core/model: solve-state management and gob persistence helpers
//   - core/parallel: column-parallel helpers
//   - pkg/errors: error taxonomy and warnings
//   - pkg/log: structured logging over slog and zerolog
//   - cmd/goeof: the command line interface
//
// # Scaling
//
// EOFs and PCs can be requested with three scalings. With s the singular
// values and n the number of samples:
//
//   - ScalingNone: EOF = V, PC = U·S
//   - ScalingSingular: EOF = V·S, PC = U
//   - ScalingVariance: EOF = V·S/sqrt(n-1), PC = U·sqrt(n-1)
//
// In every case EOF·PCᵀ reproduces the retained part of the preprocessed matrix.
package goeof
