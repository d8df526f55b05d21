package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/goeof/pkg/errors"
)

// render writes v as JSON or YAML, or calls table for the table format.
func render(w io.Writer, format string, v interface{}, table func(*tabwriter.Writer)) error {
	switch strings.ToLower(format) {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return errors.Wrap(encoder.Encode(v), "encode json")
	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return errors.Wrap(err, "encode yaml")
		}
		return errors.Wrap(encoder.Close(), "encode yaml")
	case "table":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		table(tw)
		return errors.Wrap(tw.Flush(), "write table")
	default:
		return errors.NewValidationError("format", "must be table, json or yaml", format)
	}
}

// rows converts m to a slice of rows for JSON and YAML encoding.
func rows(m mat.Matrix) [][]float64 {
	r, c := m.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = make([]float64, c)
		for j := range out[i] {
			out[i][j] = m.At(i, j)
		}
	}
	return out
}

// writeMatrixTable prints m with a label column and one column per mode.
func writeMatrixTable(tw *tabwriter.Writer, label string, m mat.Matrix, cell func(i, j int) string) {
	r, c := m.Dims()
	fmt.Fprint(tw, label)
	for j := 0; j < c; j++ {
		fmt.Fprintf(tw, "\tmode%d", j+1)
	}
	fmt.Fprintln(tw)
	for i := 0; i < r; i++ {
		fmt.Fprintf(tw, "%d", i+1)
		for j := 0; j < c; j++ {
			fmt.Fprintf(tw, "\t%s", cell(i, j))
		}
		fmt.Fprintln(tw)
	}
}
