package eof

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/goeof/core/model"
	"github.com/YuminosukeSato/goeof/preprocessing"
	"github.com/YuminosukeSato/goeof/pkg/errors"
	"github.com/YuminosukeSato/goeof/pkg/log"
)

const modelName = "EOF"

var (
	_ model.Solver           = (*EOF)(nil)
	_ model.SpectrumProvider = (*EOF)(nil)
	_ model.Persistable      = (*EOF)(nil)
)

// EOF は経験的直交関数解析（SVDによるPCA）のエンジン
//
// 構築時に入力を検証・前処理し、Solve で一度だけ特異値分解を行う。
// 以降のクエリはすべてキャッシュされた (U, S, V) から計算される。
// Solve とクエリは読み書きロックで直列化されるため、並行に呼び出してよい。
type EOF struct {
	requestedModes int
	nModesSet      bool
	norm           bool
	weights        []float64
	logger         log.Logger

	state *model.StateManager
	prep  *preprocessing.Preprocessor
	x     *mat.Dense

	nSamples  int
	nFeatures int
	nModes    int

	// Solve で設定される
	u             *mat.Dense
	s             []float64
	v             *mat.Dense
	totalVariance float64
	corr          *correlationCache
}

// New は入力行列を検証・前処理し、未計算状態のEOFを作成する
//
// パラメータ:
//   - X: 入力データ (n_samples × n_features)。コピーされ、変更されない
//   - opts: WithNModes, WithNorm, WithWeights, WithLogger
//
// 戻り値:
//   - *EOF: 未計算 (Unsolved) のエンジン
//   - error: 非有限値、形状不正、重みの長さ不一致、n_modes <= 0 の場合は ErrInvalidInput、
//     正規化時の定数特徴量は ErrDegenerateFeature
//
// 使用例:
//
//	model, err := eof.New(X, eof.WithNModes(3), eof.WithNorm(true))
//	if err != nil {
//	    return err
//	}
//	if err := model.Solve(); err != nil {
//	    return err
//	}
//	ratios, _ := model.ExplainedVarianceRatio()
func New(X mat.Matrix, opts ...Option) (*EOF, error) {
	e := &EOF{state: model.NewStateManager()}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = log.GetLoggerWithName("eof")
	}

	if X == nil {
		return nil, errors.NewValidationError("X", "matrix must not be nil", nil)
	}
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewModelError("EOF.New", "matrix has no samples or features", errors.ErrEmptyData)
	}
	if r < 2 {
		return nil, errors.NewValidationError("X", "at least two samples are required", r)
	}
	if e.nModesSet && e.requestedModes <= 0 {
		return nil, errors.NewValidationError("n_modes", "must be positive", e.requestedModes)
	}

	prep := preprocessing.NewPreprocessor(e.norm, e.weights)
	x, err := prep.FitTransform(X)
	if err != nil {
		return nil, err
	}
	e.prep = prep
	e.x = x
	e.weights = prep.Weights()
	e.nSamples = r
	e.nFeatures = c

	limit := min(r, c)
	e.nModes = limit
	if e.nModesSet && e.requestedModes < limit {
		e.nModes = e.requestedModes
	}
	if e.nModesSet && e.requestedModes > limit {
		e.logger.Debug("requested modes clamped",
			log.RequestedModesKey, e.requestedModes,
			log.ModesKey, limit,
		)
	}

	e.logger.Debug("input preprocessed",
		log.OperationKey, log.OperationPreprocess,
		log.SamplesKey, r,
		log.FeaturesKey, c,
		log.NormKey, e.norm,
		log.WeightedKey, !allOnes(e.weights),
	)
	return e, nil
}

func allOnes(w []float64) bool {
	for _, v := range w {
		if v != 1 {
			return false
		}
	}
	return true
}

// Solve は前処理済み行列の特異値分解を計算し、上位 n_modes 個のモードを保持する
//
// 2回目の呼び出しは ErrAlreadySolved を返す。Reset で未計算状態に戻せる。
// 失敗した場合、エンジンは未計算状態のまま残る。
func (e *EOF) Solve() error {
	const op = "EOF.Solve"
	start := time.Now()

	err := e.state.WithStateMut(op, e.nFeatures, e.nSamples, func() error {
		return errors.SafeExecute(op, e.factorize)
	})
	if err != nil {
		if code := errorCode(err); code != "" {
			e.logger.Debug("solve rejected", err,
				log.OperationKey, log.OperationSolve,
				log.ErrorCodeKey, code,
			)
		} else {
			e.logger.Error("solve failed", err,
				log.OperationKey, log.OperationSolve,
				log.PhaseKey, log.PhaseFactorization,
			)
		}
		return err
	}

	e.logger.Debug("factorization finished",
		log.OperationKey, log.OperationSolve,
		log.SamplesKey, e.nSamples,
		log.FeaturesKey, e.nFeatures,
		log.ModesKey, e.nModes,
		log.TotalVarianceKey, e.totalVariance,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// factorize runs under the state write lock.
func (e *EOF) factorize() error {
	const op = "EOF.Solve"
	n, p, k := e.nSamples, e.nFeatures, e.nModes

	if err := errors.CheckMatrix(op, e.x, n, p); err != nil {
		return err
	}

	var svd mat.SVD
	if ok := svd.Factorize(e.x, mat.SVDThin); !ok {
		return errors.NewModelError(op, "singular value decomposition did not converge", errors.ErrSVDFailed)
	}
	values := svd.Values(nil)

	var uFull, vFull mat.Dense
	svd.UTo(&uFull)
	svd.VTo(&vFull)

	u := mat.DenseCopyOf(uFull.Slice(0, n, 0, k))
	v := mat.DenseCopyOf(vFull.Slice(0, p, 0, k))
	flipSigns(u, v)

	// 全スペクトルから総分散を計算する（切り捨て前）
	var sumSq float64
	for _, sv := range values {
		sumSq += sv * sv
	}

	if err := errors.CheckScalar(op, sumSq); err != nil {
		return err
	}

	e.u = u
	e.v = v
	e.s = append([]float64(nil), values[:k]...)
	e.totalVariance = sumSq / float64(n-1)
	e.corr = &correlationCache{}
	return nil
}

// flipSigns makes the largest-magnitude entry of every U column positive,
// negating the matching V column. Ties go to the lowest row index.
func flipSigns(u, v *mat.Dense) {
	n, k := u.Dims()
	p, _ := v.Dims()
	for j := 0; j < k; j++ {
		best := 0
		for i := 1; i < n; i++ {
			if math.Abs(u.At(i, j)) > math.Abs(u.At(best, j)) {
				best = i
			}
		}
		if u.At(best, j) >= 0 {
			continue
		}
		for i := 0; i < n; i++ {
			u.Set(i, j, -u.At(i, j))
		}
		for i := 0; i < p; i++ {
			v.Set(i, j, -v.At(i, j))
		}
	}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, errors.ErrAlreadySolved):
		return log.ErrorAlreadySolved
	case errors.Is(err, errors.ErrNotSolved):
		return log.ErrorNotSolved
	case errors.Is(err, errors.ErrDegenerateFeature):
		return log.ErrorDegenerate
	case errors.Is(err, errors.ErrInvalidModeSelection):
		return log.ErrorModeSelection
	case errors.Is(err, errors.ErrInvalidInput):
		return log.ErrorInvalidInput
	default:
		return ""
	}
}

// Reset は分解結果を破棄し、未計算状態に戻す。前処理済み行列は保持される。
func (e *EOF) Reset() {
	e.state.ResetWith(func() {
		e.u = nil
		e.s = nil
		e.v = nil
		e.totalVariance = 0
		e.corr = nil
	})
}

// IsSolved は Solve が完了しているかを返す
func (e *EOF) IsSolved() bool {
	return e.state.IsSolved()
}

// NModes は保持するモード数を返す
func (e *EOF) NModes() int {
	return e.nModes
}

// NSamples はサンプル数を返す
func (e *EOF) NSamples() int {
	return e.nSamples
}

// NFeatures は特徴量数を返す
func (e *EOF) NFeatures() int {
	return e.nFeatures
}

// Norm は正規化が有効かどうかを返す
func (e *EOF) Norm() bool {
	return e.norm
}

// Mean は前処理で除いた特徴量ごとの平均を返す。ReconstructX の結果に足すと元のスケールに戻る。
func (e *EOF) Mean() []float64 {
	return e.prep.Mean()
}

// Std は特徴量ごとの母標準偏差を返す
func (e *EOF) Std() []float64 {
	return e.prep.Std()
}

// Weights は特徴量ごとの重みを返す
func (e *EOF) Weights() []float64 {
	return e.prep.Weights()
}

// PreprocessedX は前処理済み行列のコピーを返す
func (e *EOF) PreprocessedX() *mat.Dense {
	return mat.DenseCopyOf(e.x)
}

// TotalVariance は前処理済み行列の共分散のトレース（全モードの説明分散の和）を返す
func (e *EOF) TotalVariance() (float64, error) {
	var total float64
	err := e.state.WithState(modelName, "TotalVariance", func() error {
		total = e.totalVariance
		return nil
	})
	return total, err
}

// SingularValues は保持された特異値（降順、非負）を返す
func (e *EOF) SingularValues() ([]float64, error) {
	var out []float64
	err := e.state.WithState(modelName, "SingularValues", func() error {
		out = append([]float64(nil), e.s...)
		return nil
	})
	return out, err
}

// ExplainedVariance はモードごとの説明分散 S[i]^2 / (n_samples - 1) を返す
func (e *EOF) ExplainedVariance() ([]float64, error) {
	var out []float64
	err := e.state.WithState(modelName, "ExplainedVariance", func() error {
		out = e.explainedVariance()
		return nil
	})
	return out, err
}

func (e *EOF) explainedVariance() []float64 {
	ev := make([]float64, len(e.s))
	dof := float64(e.nSamples - 1)
	for i, sv := range e.s {
		ev[i] = sv * sv / dof
	}
	return ev
}

// ExplainedVarianceRatio は説明分散を全スペクトルの総分散で割った値を返す
//
// 分母は保持したモードの和ではなく共分散のトレースなので、
// モードを切り捨てた場合の合計は 1 未満になる。分散が 0 の行列ではすべて 0。
func (e *EOF) ExplainedVarianceRatio() ([]float64, error) {
	var out []float64
	err := e.state.WithState(modelName, "ExplainedVarianceRatio", func() error {
		out = e.explainedVarianceRatio()
		return nil
	})
	return out, err
}

func (e *EOF) explainedVarianceRatio() []float64 {
	ratio := e.explainedVariance()
	if e.totalVariance == 0 {
		return make([]float64, len(ratio))
	}
	floats.Scale(1/e.totalVariance, ratio)
	for i := range ratio {
		ratio[i] = errors.ClipValue(ratio[i], 0, 1)
	}
	return ratio
}

// EOFs は空間パターン (n_features × n_modes) を指定のスケーリングで返す
func (e *EOF) EOFs(scaling Scaling) (*mat.Dense, error) {
	if err := validateScaling(scaling); err != nil {
		return nil, err
	}
	var out *mat.Dense
	err := e.state.WithState(modelName, "EOFs", func() error {
		eofFactors, _ := scaling.factors(e.s, e.nSamples)
		out = scaleColumns(e.v, eofFactors)
		return nil
	})
	return out, err
}

// PCs は時系列係数 (n_samples × n_modes) を EOFs と相補的なスケーリングで返す
//
// どのスケーリングでも PCs(s) · EOFs(s)ᵀ は全モードでの再構成と一致する。
func (e *EOF) PCs(scaling Scaling) (*mat.Dense, error) {
	if err := validateScaling(scaling); err != nil {
		return nil, err
	}
	var out *mat.Dense
	err := e.state.WithState(modelName, "PCs", func() error {
		_, pcFactors := scaling.factors(e.s, e.nSamples)
		out = scaleColumns(e.u, pcFactors)
		return nil
	})
	return out, err
}

// scaleColumns returns m · diag(factors) as a new matrix.
func scaleColumns(m *mat.Dense, factors []float64) *mat.Dense {
	r, _ := m.Dims()
	out := mat.NewDense(r, len(factors), nil)
	out.Mul(m, mat.NewDiagDense(len(factors), factors))
	return out
}

// ReconstructX は選択したモードだけで前処理済み行列を近似し、重み付けと正規化を元に戻す
//
// 結果は中心化されたまま（平均は足し戻さない）。元のスケールが必要なら Mean() を各列に足す。
// 何も選択しない場合はゼロ行列を返す。
//
// 使用例:
//
//	rec, err := model.ReconstructX(eof.ModeRange(1, 2))
func (e *EOF) ReconstructX(sel ModeSelector) (*mat.Dense, error) {
	const op = "EOF.ReconstructX"
	if sel == nil {
		return nil, errors.NewValidationError("selector", "must not be nil", nil)
	}

	var out *mat.Dense
	err := e.state.WithState(modelName, "ReconstructX", func() error {
		idx, err := sel.resolve(op, e.nModes)
		if err != nil {
			return err
		}

		rec := mat.NewDense(e.nSamples, e.nFeatures, nil)
		if len(idx) > 0 {
			us := mat.NewDense(e.nSamples, len(idx), nil)
			vs := mat.NewDense(e.nFeatures, len(idx), nil)
			for c, j := range idx {
				for i := 0; i < e.nSamples; i++ {
					us.Set(i, c, e.u.At(i, j)*e.s[j])
				}
				for i := 0; i < e.nFeatures; i++ {
					vs.Set(i, c, e.v.At(i, j))
				}
			}
			rec.Mul(us, vs.T())
		}

		out, err = e.prep.InverseTransform(rec)
		return err
	})
	if err != nil {
		return nil, err
	}

	e.logger.Debug("reconstructed",
		log.OperationKey, log.OperationReconstruct,
		log.ModesKey, sel.String(),
	)
	return out, nil
}
