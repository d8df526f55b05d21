package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/goeof/eof"
	"github.com/YuminosukeSato/goeof/internal/config"
	"github.com/YuminosukeSato/goeof/internal/dataio"
	"github.com/YuminosukeSato/goeof/pkg/errors"
	"github.com/YuminosukeSato/goeof/pkg/log"
)

// 特異値 [4, 2, 1] を持つ 4×3 行列
const fixtureCSV = `a,b,c
11,-1,5.5
9,-1,4.5
11,-5,4.5
9,-5,5.5
`

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(fixtureCSV), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := runWithLogs(t, args...)
	return out, err
}

func runWithLogs(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, logs bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&logs)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), logs.String(), err
}

func TestSolve_JSON(t *testing.T) {
	input := writeFixture(t)

	out, err := run(t, "solve", "--input", input, "--header", "--format", "json")
	require.NoError(t, err)

	var summary eof.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 4, summary.NSamples)
	assert.Equal(t, 3, summary.NModes)
	require.Len(t, summary.Modes, 3)
	assert.InDelta(t, 4.0, summary.Modes[0].SingularValue, 1e-9)
	assert.InDelta(t, 16.0/21, summary.Modes[0].ExplainedVarianceRatio, 1e-9)
	assert.InDelta(t, 1.0, summary.Modes[2].CumulativeRatio, 1e-9)
}

func TestSolve_Table(t *testing.T) {
	input := writeFixture(t)

	out, err := run(t, "solve", "-i", input, "--header", "-k", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Cumulative")
	assert.Contains(t, out, "modes=2")
	assert.Contains(t, out, "0.7619")
	assert.Contains(t, out, "0.9524")
}

func TestSolve_ConfigAndFlagOverride(t *testing.T) {
	input := writeFixture(t)
	cfgPath := filepath.Join(t.TempDir(), "goeof.yaml")
	cfg := "input: " + input + "\nheader: true\nmodes: 2\nformat: yaml\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	out, err := run(t, "solve", "--config", cfgPath)
	require.NoError(t, err)
	var summary eof.Summary
	require.NoError(t, yaml.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 2, summary.NModes)

	out, err = run(t, "solve", "--config", cfgPath, "--modes", "1")
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 1, summary.NModes)
}

func TestPatterns_CSV(t *testing.T) {
	input := writeFixture(t)
	outPath := filepath.Join(t.TempDir(), "pcs.csv")

	_, err := run(t, "patterns", "-i", input, "--header", "--kind", "pcs", "--scaling", "1", "-o", outPath)
	require.NoError(t, err)

	pcs, err := dataio.ReadMatrixFile(outPath, true)
	require.NoError(t, err)
	r, c := pcs.Dims()
	assert.Equal(t, 4, r)
	assert.Equal(t, 3, c)

	// scaling 1 の PC は単位ノルム
	for j := 0; j < c; j++ {
		assert.InDelta(t, 1.0, mat.Norm(pcs.ColView(j), 2), 1e-9)
	}
}

func TestPatterns_InvalidKind(t *testing.T) {
	input := writeFixture(t)

	_, err := run(t, "patterns", "-i", input, "--header", "--kind", "loadings")
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestCorrelate_YAML(t *testing.T) {
	input := writeFixture(t)

	out, err := run(t, "correlate", "-i", input, "--header", "-f", "yaml")
	require.NoError(t, err)

	var report correlationReport
	require.NoError(t, yaml.Unmarshal([]byte(out), &report))
	require.Len(t, report.Correlation, 3)
	require.Len(t, report.PValues, 3)
	for i := range report.Correlation {
		require.Len(t, report.Correlation[i], 3)
		for j := range report.Correlation[i] {
			assert.LessOrEqual(t, report.Correlation[i][j], 1.0+1e-12)
			assert.GreaterOrEqual(t, report.PValues[i][j], 0.0)
			assert.LessOrEqual(t, report.PValues[i][j], 1.0)
		}
	}
}

func TestCorrelate_Table(t *testing.T) {
	input := writeFixture(t)

	out, err := run(t, "correlate", "-i", input, "--header")
	require.NoError(t, err)
	assert.Contains(t, out, "feature")
	assert.Contains(t, out, "mode3")
}

func TestReconstruct_AllModesWithMean(t *testing.T) {
	input := writeFixture(t)
	outPath := filepath.Join(t.TempDir(), "rec.csv")

	out, err := run(t, "reconstruct", "-i", input, "--header", "--norm",
		"--weights", "1,2,0.5", "--add-mean", "-o", outPath, "-f", "json")
	require.NoError(t, err)

	var report reconstructionReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "all", report.Modes)
	assert.InDelta(t, 0.0, report.RelativeResidual, 1e-9)
	assert.InDelta(t, 1.0, report.R2, 1e-9)
	assert.Equal(t, outPath, report.Output)

	original, err := dataio.ReadMatrixFile(input, true)
	require.NoError(t, err)
	rec, err := dataio.ReadMatrixFile(outPath, false)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(original, rec, 1e-9))
}

func TestReconstruct_PartialSelection(t *testing.T) {
	input := writeFixture(t)

	out, err := run(t, "reconstruct", "-i", input, "--header", "-s", "1", "-f", "json")
	require.NoError(t, err)

	var report reconstructionReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "[1]", report.Modes)
	// 残差は落としたモードの分散 (4+1)/(16+4+1)
	assert.InDelta(t, 16.0/21, report.R2, 1e-9)
}

func TestReconstruct_ReadsInputOnce(t *testing.T) {
	input := writeFixture(t)

	_, logs, err := runWithLogs(t, "reconstruct", "-i", input, "--header", "-s", "1-2")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(logs, "matrix loaded"), logs)
}

func TestSolveModel_ReturnsLoadedMatrix(t *testing.T) {
	input := writeFixture(t)
	cfg := config.Default()
	cfg.Input = input
	cfg.Header = true
	logger, _ := log.NewTestLogger(log.LevelInfo)
	opts := &rootOptions{cfg: cfg, logger: logger}

	model, X, err := opts.solveModel()
	require.NoError(t, err)
	expected, err := dataio.ReadMatrixFile(input, true)
	require.NoError(t, err)
	assert.True(t, mat.Equal(expected, X))
	assert.True(t, model.IsSolved())
	assert.True(t, logger.ContainsMessage("matrix loaded"))
}

func TestReconstruct_InvalidSelection(t *testing.T) {
	input := writeFixture(t)

	_, err := run(t, "reconstruct", "-i", input, "--header", "-k", "2", "-s", "3")
	assert.True(t, errors.Is(err, errors.ErrInvalidModeSelection))

	_, err = run(t, "reconstruct", "-i", input, "--header", "-s", "x-y")
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestProject_SavedModel(t *testing.T) {
	input := writeFixture(t)
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "model.gob")
	projPath := filepath.Join(dir, "proj.csv")
	pcsPath := filepath.Join(dir, "pcs.csv")

	_, err := run(t, "solve", "-i", input, "--header", "--norm", "--save", modelPath)
	require.NoError(t, err)
	_, err = run(t, "project", "-m", modelPath, "-i", input, "--header", "--scaling", "2", "-o", projPath)
	require.NoError(t, err)
	_, err = run(t, "patterns", "-i", input, "--header", "--norm", "--kind", "pcs", "--scaling", "2", "-o", pcsPath)
	require.NoError(t, err)

	proj, err := dataio.ReadMatrixFile(projPath, true)
	require.NoError(t, err)
	pcs, err := dataio.ReadMatrixFile(pcsPath, true)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(proj, pcs, 1e-9))
}

func TestProject_RequiresModel(t *testing.T) {
	input := writeFixture(t)

	_, err := run(t, "project", "-i", input, "--header")
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestPlot_WritesFiles(t *testing.T) {
	input := writeFixture(t)
	dir := t.TempDir()
	scree := filepath.Join(dir, "scree.png")
	eofs := filepath.Join(dir, "eofs.svg")
	pcs := filepath.Join(dir, "pcs.pdf")

	_, err := run(t, "plot", "-i", input, "--header", "-o", scree, "--eofs", eofs, "--pcs", pcs)
	require.NoError(t, err)
	for _, path := range []string{scree, eofs, pcs} {
		info, err := os.Stat(path)
		require.NoError(t, err, path)
		assert.Positive(t, info.Size(), path)
	}
}

func TestPlot_RequiresOutput(t *testing.T) {
	input := writeFixture(t)

	_, err := run(t, "plot", "-i", input, "--header")
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestRoot_InputErrors(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		target error
	}{
		{name: "missing input", args: []string{"solve"}, target: errors.ErrInvalidInput},
		{name: "bad format", args: []string{"solve", "-i", "x.csv", "-f", "xml"}, target: errors.ErrInvalidInput},
		{name: "bad scaling", args: []string{"solve", "-i", "x.csv", "--scaling", "5"}, target: errors.ErrInvalidInput},
		{name: "missing file", args: []string{"solve", "-i", filepath.Join(os.TempDir(), "goeof-missing.csv")}, target: os.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestRoot_DegenerateFeature(t *testing.T) {
	path := filepath.Join(t.TempDir(), "const.csv")
	require.NoError(t, os.WriteFile(path, []byte("1,7\n2,7\n3,7\n"), 0o600))

	_, err := run(t, "solve", "-i", path, "--norm")
	assert.True(t, errors.Is(err, errors.ErrDegenerateFeature))
}
