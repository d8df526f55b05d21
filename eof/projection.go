package eof

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/goeof/pkg/errors"
	"github.com/YuminosukeSato/goeof/pkg/log"
)

// ProjectOntoEOFs は新しいサンプルを学習時の統計量で前処理し、EOFに射影した係数を返す
//
// 学習に使った行列を渡すと PCs(scaling) と同じ結果になる。
//
// パラメータ:
//   - X: 新しいデータ (m × n_features)
//   - scaling: PCs と同じスケーリング規約
//
// 戻り値:
//   - *mat.Dense: 射影係数 (m × n_modes)
//   - error: 未計算、特徴量数の不一致、非有限値、不正なスケーリングの場合
func (e *EOF) ProjectOntoEOFs(X mat.Matrix, scaling Scaling) (*mat.Dense, error) {
	if err := validateScaling(scaling); err != nil {
		return nil, err
	}
	if X == nil {
		return nil, errors.NewValidationError("X", "matrix must not be nil", nil)
	}

	var out *mat.Dense
	err := e.state.WithState(modelName, "ProjectOntoEOFs", func() error {
		xp, err := e.prep.Transform(X)
		if err != nil {
			return err
		}

		// X' V = U S なので、PC のスケール係数に合わせて 1/S · pcFactor を掛ける
		_, pcFactors := scaling.factors(e.s, e.nSamples)
		factors := make([]float64, len(e.s))
		for j, sv := range e.s {
			factors[j] = errors.SafeDivide(pcFactors[j], sv)
		}

		var proj mat.Dense
		proj.Mul(xp, e.v)
		out = scaleColumns(&proj, factors)
		return nil
	})
	if err != nil {
		return nil, err
	}

	r, _ := X.Dims()
	e.logger.Debug("projected onto EOFs",
		log.OperationKey, log.OperationProject,
		log.SamplesKey, r,
		log.ScalingKey, scaling.String(),
	)
	return out, nil
}
