package eof

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/goeof/core/parallel"
	"github.com/YuminosukeSato/goeof/pkg/errors"
	"github.com/YuminosukeSato/goeof/pkg/log"
)

const (
	// 相関計算を並列化する特徴量数の閾値
	correlationParallelThreshold = 128

	epsilon = 0x1p-52
)

// correlationCache holds EOFsAsCorrelation results for one solve.
type correlationCache struct {
	once  sync.Once
	corr  *mat.Dense
	pvals *mat.Dense
}

// EOFsAsCorrelation は各 (特徴量, モード) について、前処理済みの特徴量系列と
// PC系列のピアソン相関係数、および無相関の帰無仮説に対する両側p値を返す
//
// p値は自由度 n_samples-2 のt分布から計算する。結果は最初の呼び出しで計算されキャッシュされる。
// 定数の系列（分散0の特徴量や特異値0のPC）に対しては相関 0、p値 1 を返し、
// ConstantInputWarning を警告システムへ送る。
//
// 戻り値:
//   - corr: 相関係数 (n_features × n_modes)、値は [-1, 1]
//   - pvals: p値 (n_features × n_modes)、値は [0, 1]
//   - error: 未計算の場合は ErrNotSolved
func (e *EOF) EOFsAsCorrelation() (corr, pvals *mat.Dense, err error) {
	err = e.state.WithState(modelName, "EOFsAsCorrelation", func() error {
		cache := e.corr
		cache.once.Do(func() {
			cache.corr, cache.pvals = e.computeCorrelation()
		})
		corr = mat.DenseCopyOf(cache.corr)
		pvals = mat.DenseCopyOf(cache.pvals)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return corr, pvals, nil
}

func (e *EOF) computeCorrelation() (*mat.Dense, *mat.Dense) {
	const op = "EOF.EOFsAsCorrelation"
	n, p, k := e.nSamples, e.nFeatures, e.nModes

	// 数値ランクを超えるモード（特異値が丸め誤差程度）のPCはゼロ系列とみなす
	rankTol := 0.0
	if k > 0 {
		rankTol = e.s[0] * float64(max(n, p)) * epsilon
	}

	// PC はスケーリング 0（U·S）を使う
	pcs := make([][]float64, k)
	pcConstant := make([]bool, k)
	for j := 0; j < k; j++ {
		pcs[j] = mat.Col(nil, j, e.u)
		for i := range pcs[j] {
			pcs[j][i] *= e.s[j]
		}
		pcConstant[j] = e.s[j] <= rankTol || isConstantSeries(pcs[j])
		if pcConstant[j] {
			errors.Warn(errors.NewConstantInputWarning(op, -1, j+1))
		}
	}

	featureConstant := make([]bool, p)
	for i := 0; i < p; i++ {
		if isConstantSeries(mat.Col(nil, i, e.x)) {
			featureConstant[i] = true
			errors.Warn(errors.NewConstantInputWarning(op, i, -1))
		}
	}

	corr := mat.NewDense(p, k, nil)
	pvals := mat.NewDense(p, k, nil)
	df := float64(n - 2)
	tdist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}

	parallel.ParallelizeWithThreshold(p, correlationParallelThreshold, func(start, end int) {
		col := make([]float64, n)
		for i := start; i < end; i++ {
			mat.Col(col, i, e.x)
			for j := 0; j < k; j++ {
				if featureConstant[i] || pcConstant[j] {
					corr.Set(i, j, 0)
					pvals.Set(i, j, 1)
					continue
				}
				r := errors.ClipValue(stat.Correlation(col, pcs[j], nil), -1, 1)
				corr.Set(i, j, r)
				pvals.Set(i, j, pValue(r, df, tdist))
			}
		}
	})

	e.logger.Debug("correlation computed",
		log.OperationKey, log.OperationCorrelate,
		log.FeaturesKey, p,
		log.ModesKey, k,
	)
	return corr, pvals
}

// pValue returns the two-sided p-value of the t statistic for correlation r.
func pValue(r, df float64, tdist distuv.StudentsT) float64 {
	if df <= 0 {
		return 1
	}
	if math.Abs(r) >= 1 {
		return 0
	}
	t := r * math.Sqrt(df/(1-r*r))
	return errors.ClipValue(2*tdist.Survival(math.Abs(t)), 0, 1)
}

func isConstantSeries(x []float64) bool {
	for _, v := range x[1:] {
		if v != x[0] {
			return false
		}
	}
	return true
}
