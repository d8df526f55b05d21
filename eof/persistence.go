package eof

import (
	"io"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/goeof/core/model"
	"github.com/YuminosukeSato/goeof/preprocessing"
	"github.com/YuminosukeSato/goeof/pkg/errors"
	"github.com/YuminosukeSato/goeof/pkg/log"
)

// snapshotKind identifies EOF snapshots in the gob header.
const snapshotKind = "eof"

// snapshot is the gob form of a solved EOF. Matrices are stored row-major.
type snapshot struct {
	NSamples  int
	NFeatures int
	NModes    int
	Norm      bool

	Mean    []float64
	Std     []float64
	Weights []float64
	X       []float64

	U             []float64
	S             []float64
	V             []float64
	TotalVariance float64
}

// Kind returns the snapshot identifier used by Save and Load.
func (e *EOF) Kind() string {
	return snapshotKind
}

// Save は解済みのEOFをgob形式でwに書き込む
//
// 使用例:
//
//	f, _ := os.Create("model.gob")
//	defer f.Close()
//	err := model.Save(f)
func (e *EOF) Save(w io.Writer) error {
	snap, err := e.takeSnapshot()
	if err != nil {
		return err
	}
	return model.SaveModelToWriter(snapshotKind, snap, w)
}

// SaveFile writes the solved EOF to path.
func (e *EOF) SaveFile(path string) error {
	snap, err := e.takeSnapshot()
	if err != nil {
		return err
	}
	return model.SaveModel(snapshotKind, snap, path)
}

func (e *EOF) takeSnapshot() (*snapshot, error) {
	var snap snapshot
	err := e.state.WithState(modelName, "Save", func() error {
		snap = snapshot{
			NSamples:      e.nSamples,
			NFeatures:     e.nFeatures,
			NModes:        e.nModes,
			Norm:          e.norm,
			Mean:          e.prep.Mean(),
			Std:           e.prep.Std(),
			Weights:       e.prep.Weights(),
			X:             rawData(e.x),
			U:             rawData(e.u),
			S:             append([]float64(nil), e.s...),
			V:             rawData(e.v),
			TotalVariance: e.totalVariance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func rawData(m *mat.Dense) []float64 {
	r, c := m.Dims()
	out := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		out = append(out, m.RawRowView(i)...)
	}
	return out
}

// Load は Save で書き込まれたEOFを読み込み、解済みの状態で返す
func Load(r io.Reader, opts ...Option) (*EOF, error) {
	var snap snapshot
	if err := model.LoadModelFromReader(snapshotKind, &snap, r); err != nil {
		return nil, err
	}
	return fromSnapshot(&snap, opts)
}

// LoadFile reads an EOF written by SaveFile.
func LoadFile(path string, opts ...Option) (*EOF, error) {
	var snap snapshot
	if err := model.LoadModel(snapshotKind, &snap, path); err != nil {
		return nil, err
	}
	return fromSnapshot(&snap, opts)
}

func fromSnapshot(snap *snapshot, opts []Option) (*EOF, error) {
	if err := snap.validate(); err != nil {
		return nil, err
	}

	prep, err := preprocessing.Restore(snap.Norm, snap.Weights, snap.Mean, snap.Std)
	if err != nil {
		return nil, err
	}

	e := &EOF{state: model.NewStateManager()}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = log.GetLoggerWithName("eof")
	}

	n, p, k := snap.NSamples, snap.NFeatures, snap.NModes
	e.norm = snap.Norm
	e.requestedModes = k
	e.nModesSet = true
	e.weights = prep.Weights()
	e.prep = prep
	e.nSamples = n
	e.nFeatures = p
	e.nModes = k
	e.x = mat.NewDense(n, p, snap.X)
	e.u = mat.NewDense(n, k, snap.U)
	e.s = snap.S
	e.v = mat.NewDense(p, k, snap.V)
	e.totalVariance = snap.TotalVariance
	e.corr = &correlationCache{}
	e.state.SetState(model.ModelState{Solved: true, NFeatures: p, NSamples: n})
	return e, nil
}

func (s *snapshot) validate() error {
	const op = "eof.Load"
	n, p, k := s.NSamples, s.NFeatures, s.NModes
	if n < 2 || p < 1 || k < 1 || k > min(n, p) {
		return errors.NewValidationError("snapshot", "invalid dimensions", []int{n, p, k})
	}
	checks := []struct {
		got, want int
	}{
		{len(s.X), n * p},
		{len(s.U), n * k},
		{len(s.S), k},
		{len(s.V), p * k},
	}
	for _, c := range checks {
		if c.got != c.want {
			return errors.NewDimensionError(op, c.want, c.got, 1)
		}
	}
	return nil
}
