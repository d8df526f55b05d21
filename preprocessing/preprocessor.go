// Package preprocessing は分解前の行列の前処理（中心化・正規化・重み付け）を提供する
package preprocessing

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/goeof/core/model"
	"github.com/YuminosukeSato/goeof/core/parallel"
	"github.com/YuminosukeSato/goeof/pkg/errors"
)

var _ model.InverseTransformer = (*Preprocessor)(nil)

// 列統計量の並列計算の閾値（この値以下の特徴量数では逐次処理を使用）
const parallelThreshold = 256

// Preprocessor は各特徴量（列）を中心化し、必要に応じて標準偏差で正規化し、
// 重みを掛ける変換器
//
// 変換式: X'[i, j] = (X[i, j] - mean[j]) / std[j] * weights[j]
// （Norm が false の場合は std[j] = 1 とみなす）
type Preprocessor struct {
	// Norm は各特徴量を母標準偏差で割るかどうか
	Norm bool

	weights   []float64
	mean      []float64
	std       []float64
	nFeatures int
	fitted    bool
}

// NewPreprocessor は新しいPreprocessorを作成する
//
// パラメータ:
//   - norm: 標準偏差で正規化するかどうか
//   - weights: 特徴量ごとの重み（nil の場合はすべて 1）
//
// 使用例:
//
//	p := preprocessing.NewPreprocessor(true, nil)
//	Xp, err := p.FitTransform(X)
func NewPreprocessor(norm bool, weights []float64) *Preprocessor {
	var w []float64
	if weights != nil {
		w = append([]float64(nil), weights...)
	}
	return &Preprocessor{Norm: norm, weights: w}
}

// Prepare は X を前処理した新しい行列を返す。X は変更されない。
func Prepare(X mat.Matrix, norm bool, weights []float64) (*mat.Dense, error) {
	return NewPreprocessor(norm, weights).FitTransform(X)
}

// Restore は保存済みの統計量から学習済みのPreprocessorを復元する
func Restore(norm bool, weights, mean, std []float64) (*Preprocessor, error) {
	n := len(mean)
	if n == 0 {
		return nil, errors.NewValidationError("mean", "must not be empty", n)
	}
	if len(std) != n {
		return nil, errors.NewDimensionError("Preprocessor.Restore", n, len(std), 1)
	}
	if len(weights) != n {
		return nil, errors.NewDimensionError("Preprocessor.Restore", n, len(weights), 1)
	}
	return &Preprocessor{
		Norm:      norm,
		weights:   append([]float64(nil), weights...),
		mean:      append([]float64(nil), mean...),
		std:       append([]float64(nil), std...),
		nFeatures: n,
		fitted:    true,
	}, nil
}

// Fit は各特徴量の平均と母標準偏差を計算する
//
// パラメータ:
//   - X: 入力データ (n_samples × n_features の行列)
//
// 戻り値:
//   - error: 空の行列、非有限値、重みの長さ不一致、
//     正規化時の定数特徴量（DegenerateFeature）の場合
func (p *Preprocessor) Fit(X mat.Matrix) error {
	const op = "Preprocessor.Fit"

	if X == nil {
		return errors.NewValidationError("X", "matrix must not be nil", nil)
	}
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError(op, fmt.Sprintf("%dx%d matrix has no samples or features", r, c), errors.ErrEmptyData)
	}
	if err := errors.CheckMatrix(op, X, r, c); err != nil {
		return err
	}

	weights := p.weights
	if weights == nil {
		weights = make([]float64, c)
		for j := range weights {
			weights[j] = 1
		}
	}
	if len(weights) != c {
		return errors.NewDimensionError(op, c, len(weights), 1)
	}
	if err := errors.CheckVector(op, weights); err != nil {
		return err
	}

	mean := make([]float64, c)
	std := make([]float64, c)

	// 各列の平均・母標準偏差 (ddof = 0) を計算
	err := parallel.ParallelizeErr(c, parallelThreshold, func(start, end int) error {
		col := make([]float64, r)
		for j := start; j < end; j++ {
			mat.Col(col, j, X)
			mean[j], std[j] = stat.PopMeanStdDev(col, nil)
			// 定数列は丸め誤差で std がわずかに正になることがあるため値そのもので判定する
			if p.Norm && (isConstant(col) || std[j] == 0) {
				return errors.NewDegenerateFeatureError(op, j, std[j])
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	p.weights = weights
	p.mean = mean
	p.std = std
	p.nFeatures = c
	p.fitted = true
	return nil
}

func isConstant(col []float64) bool {
	for _, v := range col[1:] {
		if v != col[0] {
			return false
		}
	}
	return true
}

// Transform は学習済みの統計量でデータを前処理する
//
// パラメータ:
//   - X: 変換するデータ（特徴量数は Fit 時と同じ）
//
// 戻り値:
//   - *mat.Dense: 前処理されたデータ（新しい行列）
//   - error: 未学習、次元不一致、非有限値の場合
func (p *Preprocessor) Transform(X mat.Matrix) (*mat.Dense, error) {
	const op = "Preprocessor.Transform"

	if !p.fitted {
		return nil, errors.NewNotFittedError("Preprocessor", "Transform")
	}
	r, c := X.Dims()
	if c != p.nFeatures {
		return nil, errors.NewDimensionError(op, p.nFeatures, c, 1)
	}
	if r == 0 {
		return nil, errors.NewValidationError("X", "matrix must have at least one sample", r)
	}
	if err := errors.CheckMatrix(op, X, r, c); err != nil {
		return nil, err
	}

	result := mat.NewDense(r, c, nil)
	for j := 0; j < c; j++ {
		factor := p.weights[j]
		if p.Norm {
			factor /= p.std[j]
		}
		for i := 0; i < r; i++ {
			result.Set(i, j, (X.At(i, j)-p.mean[j])*factor)
		}
	}
	return result, nil
}

// FitTransform は統計量を学習し、同じデータを変換する
func (p *Preprocessor) FitTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := p.Fit(X); err != nil {
		return nil, err
	}
	return p.Transform(X)
}

// InverseTransform は重み付けと正規化を元に戻す。中心化は戻さない（結果は平均0のまま）。
// 重みが 0 の列は情報が失われているため 0 を返す。
func (p *Preprocessor) InverseTransform(X mat.Matrix) (*mat.Dense, error) {
	if !p.fitted {
		return nil, errors.NewNotFittedError("Preprocessor", "InverseTransform")
	}
	r, c := X.Dims()
	if c != p.nFeatures {
		return nil, errors.NewDimensionError("Preprocessor.InverseTransform", p.nFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for j := 0; j < c; j++ {
		if p.weights[j] == 0 {
			continue
		}
		factor := 1 / p.weights[j]
		if p.Norm {
			factor *= p.std[j]
		}
		for i := 0; i < r; i++ {
			result.Set(i, j, X.At(i, j)*factor)
		}
	}
	return result, nil
}

// IsFitted は学習済みかどうかを返す
func (p *Preprocessor) IsFitted() bool {
	return p.fitted
}

// NFeatures は学習時の特徴量数を返す
func (p *Preprocessor) NFeatures() int {
	return p.nFeatures
}

// Mean は各特徴量の平均のコピーを返す
func (p *Preprocessor) Mean() []float64 {
	return append([]float64(nil), p.mean...)
}

// Std は各特徴量の母標準偏差のコピーを返す（Norm が false でも計算される）
func (p *Preprocessor) Std() []float64 {
	return append([]float64(nil), p.std...)
}

// Weights は各特徴量の重みのコピーを返す
func (p *Preprocessor) Weights() []float64 {
	return append([]float64(nil), p.weights...)
}

// String は前処理器の文字列表現を返す
func (p *Preprocessor) String() string {
	if !p.fitted {
		return fmt.Sprintf("Preprocessor(norm=%t)", p.Norm)
	}
	return fmt.Sprintf("Preprocessor(norm=%t, n_features=%d)", p.Norm, p.nFeatures)
}
