package errors

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestCheckMatrix(t *testing.T) {
	clean := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	if err := CheckMatrix("test", clean, 2, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dirty := mat.NewDense(2, 3, []float64{1, 2, 3, 4, math.Inf(1), math.NaN()})
	err := CheckMatrix("test", dirty, 2, 3)
	if !Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	var nf *NonFiniteError
	if !As(err, &nf) {
		t.Fatal("expected *NonFiniteError")
	}
	if nf.Row != 1 || nf.Col != 1 {
		t.Errorf("expected first offending element at (1, 1), got (%d, %d)", nf.Row, nf.Col)
	}
}

func TestCheckVector(t *testing.T) {
	if err := CheckVector("weights", []float64{1, 0, -2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := CheckVector("weights", []float64{1, math.NaN()})
	var nf *NonFiniteError
	if !As(err, &nf) || nf.Col != 1 || nf.Row != -1 {
		t.Errorf("expected NonFiniteError at index 1, got %v", err)
	}
	if err := CheckScalar("total", math.Inf(-1)); !Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for -Inf, got %v", err)
	}
}

func TestSafeDivideAndClip(t *testing.T) {
	if got := SafeDivide(1, 0); got != 0 {
		t.Errorf("SafeDivide(1, 0) = %v, want 0", got)
	}
	if got := SafeDivide(3, 2); got != 1.5 {
		t.Errorf("SafeDivide(3, 2) = %v, want 1.5", got)
	}
	if got := ClipValue(1.0000001, -1, 1); got != 1 {
		t.Errorf("ClipValue upper = %v", got)
	}
	if got := ClipValue(-3, -1, 1); got != -1 {
		t.Errorf("ClipValue lower = %v", got)
	}
}
