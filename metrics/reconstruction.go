// Package metrics は再構成誤差の評価指標を提供する
//
// どの関数も同じ形状の2つの行列（元データと再構成）を受け取り、
// 全要素を対象に誤差を集計する。
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/goeof/pkg/errors"
)

// checkShapes は2つの行列が空でなく同じ形状であることを確認する
func checkShapes(op string, xTrue, xRec mat.Matrix) (int, int, error) {
	if xTrue == nil || xRec == nil {
		return 0, 0, errors.NewValidationError("matrix", "must not be nil", op)
	}
	r, c := xTrue.Dims()
	rr, rc := xRec.Dims()
	if r == 0 || c == 0 {
		return 0, 0, errors.NewModelError(op, "empty matrix", errors.ErrEmptyData)
	}
	if rr != r {
		return 0, 0, errors.NewDimensionError(op, r, rr, 0)
	}
	if rc != c {
		return 0, 0, errors.NewDimensionError(op, c, rc, 1)
	}
	return r, c, nil
}

// sumSquaredResidual は Σ(xTrue - xRec)² を返す
func sumSquaredResidual(xTrue, xRec mat.Matrix) float64 {
	var diff mat.Dense
	diff.Sub(xTrue, xRec)
	norm := mat.Norm(&diff, 2)
	return norm * norm
}

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(xTrue, xRec mat.Matrix) (float64, error) {
	r, c, err := checkShapes("MSE", xTrue, xRec)
	if err != nil {
		return 0, err
	}

	// MSE = (1/nm) * Σ(xTrue - xRec)²
	return sumSquaredResidual(xTrue, xRec) / float64(r*c), nil
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(xTrue, xRec mat.Matrix) (float64, error) {
	mse, err := MSE(xTrue, xRec)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(xTrue, xRec mat.Matrix) (float64, error) {
	r, c, err := checkShapes("MAE", xTrue, xRec)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			sum += math.Abs(xTrue.At(i, j) - xRec.At(i, j))
		}
	}
	return sum / float64(r*c), nil
}

// FrobeniusResidual は残差のフロベニウスノルム ||xTrue - xRec||_F を返す
func FrobeniusResidual(xTrue, xRec mat.Matrix) (float64, error) {
	if _, _, err := checkShapes("FrobeniusResidual", xTrue, xRec); err != nil {
		return 0, err
	}
	return math.Sqrt(sumSquaredResidual(xTrue, xRec)), nil
}

// RelativeResidual は ||xTrue - xRec||_F / ||xTrue||_F を返す
func RelativeResidual(xTrue, xRec mat.Matrix) (float64, error) {
	if _, _, err := checkShapes("RelativeResidual", xTrue, xRec); err != nil {
		return 0, err
	}
	denom := mat.Norm(xTrue, 2)
	if denom == 0 {
		return 0, errors.Newf("RelativeResidual: reference matrix is zero")
	}
	return math.Sqrt(sumSquaredResidual(xTrue, xRec)) / denom, nil
}

// R2Score は決定係数（R²）を計算する。全変動は列ごとの平均からの偏差で測る。
func R2Score(xTrue, xRec mat.Matrix) (float64, error) {
	r, c, err := checkShapes("R2Score", xTrue, xRec)
	if err != nil {
		return 0, err
	}

	// 全変動（TSS）を列ごとの平均から計算
	var tss float64
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, xTrue)
		mean := stat.Mean(col, nil)
		for _, v := range col {
			tss += (v - mean) * (v - mean)
		}
	}

	// 全変動が0の場合（すべての列が定数）
	if tss == 0 {
		return 0, errors.Newf("R2Score: total sum of squares is zero (no variance in reference)")
	}

	// R² = 1 - RSS/TSS
	return 1 - sumSquaredResidual(xTrue, xRec)/tss, nil
}
