package dataio

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/goeof/pkg/errors"
)

func TestReadMatrix(t *testing.T) {
	input := "a,b,c\n1, 2.5, -3\n# comment\n4,5e-1,6\n"

	m, err := ReadMatrix(strings.NewReader(input), true)
	require.NoError(t, err)
	expected := mat.NewDense(2, 3, []float64{1, 2.5, -3, 4, 0.5, 6})
	assert.True(t, mat.Equal(m, expected))
}

func TestReadMatrix_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		header bool
		target error
	}{
		{name: "empty", input: "", target: errors.ErrEmptyData},
		{name: "header only", input: "a,b\n", header: true, target: errors.ErrEmptyData},
		{name: "not a number", input: "1,2\n3,x\n", target: errors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadMatrix(strings.NewReader(tt.input), tt.header)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
			assert.True(t, errors.Is(err, errors.ErrInvalidInput), "every read failure here is an input error")
		})
	}

	_, err := ReadMatrix(strings.NewReader("1,2\n3\n"), false)
	var dimErr *errors.DimensionError
	require.True(t, errors.As(err, &dimErr), "got %v", err)
	assert.Equal(t, 2, dimErr.Expected)
	assert.Equal(t, 1, dimErr.Got)
}

func TestWriteMatrix_RoundTrip(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{0.1, -2, 1e-12, 3.75})

	var buf bytes.Buffer
	require.NoError(t, WriteMatrix(&buf, m, ColumnNames("eof", 2)))
	assert.True(t, strings.HasPrefix(buf.String(), "eof1,eof2\n"))

	back, err := ReadMatrix(&buf, true)
	require.NoError(t, err)
	assert.True(t, mat.Equal(m, back), "formatting with -1 precision is lossless")
}

func TestWriteMatrix_HeaderMismatch(t *testing.T) {
	var buf bytes.Buffer
	err := WriteMatrix(&buf, mat.NewDense(1, 2, nil), []string{"only"})
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestMatrixFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.csv")
	m := mat.NewDense(3, 1, []float64{1, 2, 3})

	require.NoError(t, WriteMatrixFile(path, m, nil))
	back, err := ReadMatrixFile(path, false)
	require.NoError(t, err)
	assert.True(t, mat.Equal(m, back))

	_, err = ReadMatrixFile(filepath.Join(t.TempDir(), "missing.csv"), false)
	assert.Error(t, err)
}
