package eof

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/goeof/core/model"
	"github.com/YuminosukeSato/goeof/pkg/errors"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	X := genericFixture(9, 4, 91)
	original := solved(t, X, WithNorm(true), WithWeights([]float64{1, 3, 0.5, 2}), WithNModes(3))

	var buf bytes.Buffer
	require.NoError(t, original.Save(&buf))

	loaded, err := Load(&buf)
	require.NoError(t, err)
	assert.True(t, loaded.IsSolved())
	assert.Equal(t, original.NModes(), loaded.NModes())
	assert.Equal(t, original.NSamples(), loaded.NSamples())
	assert.Equal(t, original.NFeatures(), loaded.NFeatures())
	assert.Equal(t, original.Norm(), loaded.Norm())
	assert.Equal(t, original.Mean(), loaded.Mean())
	assert.Equal(t, original.Std(), loaded.Std())
	assert.Equal(t, original.Weights(), loaded.Weights())

	s1, _ := original.SingularValues()
	s2, err := loaded.SingularValues()
	require.NoError(t, err)
	assert.Equal(t, s1, s2)

	r1, _ := original.ExplainedVarianceRatio()
	r2, err := loaded.ExplainedVarianceRatio()
	require.NoError(t, err)
	assert.Equal(t, r1, r2)

	for _, scaling := range []Scaling{ScalingNone, ScalingSingular, ScalingVariance} {
		e1, _ := original.EOFs(scaling)
		e2, err := loaded.EOFs(scaling)
		require.NoError(t, err)
		assert.True(t, mat.Equal(e1, e2))

		p1, _ := original.PCs(scaling)
		p2, err := loaded.PCs(scaling)
		require.NoError(t, err)
		assert.True(t, mat.Equal(p1, p2))
	}

	c1, pv1, _ := original.EOFsAsCorrelation()
	c2, pv2, err := loaded.EOFsAsCorrelation()
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(c1, c2, 1e-12))
	assert.True(t, mat.EqualApprox(pv1, pv2, 1e-12))

	rec1, _ := original.ReconstructX(ModeRange(1, 2))
	rec2, err := loaded.ReconstructX(ModeRange(1, 2))
	require.NoError(t, err)
	assert.True(t, mat.Equal(rec1, rec2))

	proj, err := loaded.ProjectOntoEOFs(X, ScalingNone)
	require.NoError(t, err)
	pcs, _ := original.PCs(ScalingNone)
	assert.True(t, mat.EqualApprox(proj, pcs, 1e-9))

	err = loaded.Solve()
	assert.True(t, errors.Is(err, errors.ErrAlreadySolved))
}

func TestSaveFile_LoadFile(t *testing.T) {
	original := solved(t, orthogonalFixture(), WithNModes(2))
	path := filepath.Join(t.TempDir(), "model.gob")

	require.NoError(t, original.SaveFile(path))
	loaded, err := LoadFile(path)
	require.NoError(t, err)

	s1, _ := original.SingularValues()
	s2, err := loaded.SingularValues()
	require.NoError(t, err)
	assert.Equal(t, s1, s2)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.gob"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSave_RequiresSolved(t *testing.T) {
	m, err := New(orthogonalFixture())
	require.NoError(t, err)

	var buf bytes.Buffer
	err = m.Save(&buf)
	assert.True(t, errors.Is(err, errors.ErrNotSolved))
	assert.Zero(t, buf.Len())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(strings.NewReader("not a gob stream"))
	assert.Error(t, err)

	var buf bytes.Buffer
	require.NoError(t, model.SaveModelToWriter("preprocessor", &snapshot{}, &buf))
	_, err = Load(&buf)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput), "kind mismatch")

	buf.Reset()
	bad := snapshot{NSamples: 3, NFeatures: 2, NModes: 2, X: []float64{1}}
	require.NoError(t, model.SaveModelToWriter(snapshotKind, &bad, &buf))
	_, err = Load(&buf)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput), "inconsistent lengths")
}
