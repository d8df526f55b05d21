// Package dataio reads and writes plain numeric matrices as CSV. Rows are
// samples and columns are features; labels are not interpreted.
package dataio

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/goeof/pkg/errors"
)

// ReadMatrix parses a CSV stream into a dense matrix. When header is true
// the first record is skipped. Every row must have the same number of
// fields and every field must parse as a float.
func ReadMatrix(r io.Reader, header bool) (*mat.Dense, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "read csv")
	}
	if header && len(records) > 0 {
		records = records[1:]
	}
	if len(records) == 0 {
		return nil, errors.NewModelError("dataio.ReadMatrix", "csv has no data rows", errors.ErrEmptyData)
	}

	rows, cols := len(records), len(records[0])
	data := make([]float64, 0, rows*cols)
	for i, record := range records {
		if len(record) != cols {
			return nil, errors.NewDimensionError("dataio.ReadMatrix", cols, len(record), 1)
		}
		for j, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, errors.NewValidationError("csv", "row "+strconv.Itoa(i+1)+" column "+strconv.Itoa(j+1)+" is not a number", field)
			}
			data = append(data, v)
		}
	}
	return mat.NewDense(rows, cols, data), nil
}

// ReadMatrixFile opens path and calls ReadMatrix.
func ReadMatrixFile(path string, header bool) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()
	return ReadMatrix(f, header)
}

// WriteMatrix writes m as CSV. A non-nil header must have one name per column.
func WriteMatrix(w io.Writer, m mat.Matrix, header []string) error {
	r, c := m.Dims()
	if header != nil && len(header) != c {
		return errors.NewDimensionError("dataio.WriteMatrix", c, len(header), 1)
	}

	writer := csv.NewWriter(w)
	if header != nil {
		if err := writer.Write(header); err != nil {
			return errors.Wrap(err, "write csv header")
		}
	}
	record := make([]string, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			record[j] = strconv.FormatFloat(m.At(i, j), 'g', -1, 64)
		}
		if err := writer.Write(record); err != nil {
			return errors.Wrapf(err, "write csv row %d", i+1)
		}
	}
	writer.Flush()
	return errors.Wrap(writer.Error(), "flush csv")
}

// WriteMatrixFile creates path and calls WriteMatrix.
func WriteMatrixFile(path string, m mat.Matrix, header []string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if err := WriteMatrix(f, m, header); err != nil {
		_ = f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "close %s", path)
}

// ColumnNames returns prefix1..prefixN, used as CSV headers for modes.
func ColumnNames(prefix string, n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = prefix + strconv.Itoa(i+1)
	}
	return names
}
