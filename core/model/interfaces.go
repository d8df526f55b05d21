package model

import (
	"gonum.org/v1/gonum/mat"
)

// Transformer はデータ変換のインターフェース
type Transformer interface {
	// Fit は変換に必要な統計量を学習する
	Fit(X mat.Matrix) error

	// Transform はデータを変換する
	Transform(X mat.Matrix) (*mat.Dense, error)

	// FitTransform はFitとTransformを同時に実行する
	FitTransform(X mat.Matrix) (*mat.Dense, error)
}

// InverseTransformer は変換を（部分的に）元に戻せるTransformer
type InverseTransformer interface {
	Transformer

	// InverseTransform は変換後の空間のデータを元の空間に戻す
	InverseTransform(X mat.Matrix) (*mat.Dense, error)
}

// Solver は一度だけ実行される分解のインターフェース
type Solver interface {
	// Solve は分解を実行する
	Solve() error

	// IsSolved は分解が完了しているかを返す
	IsSolved() bool

	// Reset は未計算状態に戻す
	Reset()
}

// SpectrumProvider はモードごとの分散情報を返すモデル
type SpectrumProvider interface {
	SingularValues() ([]float64, error)
	ExplainedVariance() ([]float64, error)
	ExplainedVarianceRatio() ([]float64, error)
}

// Persistable はio.Writer / io.Readerに保存できるモデル
type Persistable interface {
	// Kind は保存形式の識別子を返す
	Kind() string
}
