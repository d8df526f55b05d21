package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/goeof/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "table", cfg.Format)
	assert.Equal(t, 0, cfg.Modes)
	assert.Equal(t, 4, cfg.Plot.MaxModes)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goeof.yaml")
	content := `
input: data/sst.csv
header: true
modes: 3
norm: true
weights: [1, 0.5, 2]
scaling: 2
format: json
log_level: debug
plot:
  width: 10
  max_modes: 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "data/sst.csv", cfg.Input)
	assert.True(t, cfg.Header)
	assert.Equal(t, 3, cfg.Modes)
	assert.True(t, cfg.Norm)
	assert.Equal(t, []float64{1, 0.5, 2}, cfg.Weights)
	assert.Equal(t, 2, cfg.Scaling)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 10.0, cfg.Plot.Width)
	assert.Equal(t, 5.0, cfg.Plot.Height, "unset keys keep their defaults")
	assert.Equal(t, 2, cfg.Plot.MaxModes)
}

func TestLoad_EmptyPathAndFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		invalid bool
	}{
		{name: "unknown key", content: "mode: 3\n"},
		{name: "bad yaml", content: "modes: [1\n"},
		{name: "negative modes", content: "modes: -1\n", invalid: true},
		{name: "bad scaling", content: "scaling: 3\n", invalid: true},
		{name: "bad format", content: "format: xml\n", invalid: true},
		{name: "bad log level", content: "log_level: loud\n", invalid: true},
		{name: "bad plot size", content: "plot:\n  height: 0\n", invalid: true},
		{name: "negative plot modes", content: "plot:\n  max_modes: -2\n", invalid: true},
		{name: "non-finite weight", content: "weights: [1, .nan]\n", invalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.content))
			require.Error(t, err)
			if tt.invalid {
				assert.True(t, errors.Is(err, errors.ErrInvalidInput), "got %v", err)
			}
		})
	}
}
