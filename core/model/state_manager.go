// Package model provides the state management, interfaces and persistence
// helpers shared by the preprocessing step and the decomposition engine.
package model

import (
	"sync"

	"github.com/YuminosukeSato/goeof/pkg/errors"
)

// SolveState は計算状態を表す
type SolveState int

const (
	// Unsolved はまだ分解が実行されていない状態
	Unsolved SolveState = iota
	// Solved は分解が完了した状態（終端状態）
	Solved
)

// String returns "unsolved" or "solved".
func (s SolveState) String() string {
	if s == Solved {
		return "solved"
	}
	return "unsolved"
}

// StateManager guards the Unsolved -> Solved transition of a model.
//
// Writers (Solve, Reset) take the write lock through WithStateMut; readers
// take the read lock through WithState so they never observe a half-written
// factorization.
type StateManager struct {
	mu    sync.RWMutex
	state SolveState

	nFeatures int
	nSamples  int
}

// NewStateManager creates a new StateManager in the Unsolved state.
func NewStateManager() *StateManager {
	return &StateManager{state: Unsolved}
}

// State returns the current state.
func (s *StateManager) State() SolveState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// IsSolved reports whether the model has been solved.
func (s *StateManager) IsSolved() bool {
	return s.State() == Solved
}

// Reset returns the model to Unsolved and clears recorded dimensions.
func (s *StateManager) Reset() {
	s.ResetWith(nil)
}

// ResetWith is Reset that also runs cleanup under the write lock, so the
// model can drop its cached factors without racing readers.
func (s *StateManager) ResetWith(cleanup func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cleanup != nil {
		cleanup()
	}
	s.state = Unsolved
	s.nFeatures = 0
	s.nSamples = 0
}

// GetDimensions returns the number of features and samples recorded at solve time.
func (s *StateManager) GetDimensions() (nFeatures, nSamples int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nFeatures, s.nSamples
}

// RequireSolved returns a NotSolvedError naming modelName and method when
// the model is still Unsolved.
func (s *StateManager) RequireSolved(modelName, method string) error {
	if !s.IsSolved() {
		return errors.NewNotSolvedError(modelName, method)
	}
	return nil
}

// WithState runs fn under the read lock after checking the model is solved.
func (s *StateManager) WithState(modelName, method string, fn func() error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != Solved {
		return errors.NewNotSolvedError(modelName, method)
	}
	return fn()
}

// WithStateMut runs fn under the write lock while the model is Unsolved and
// marks it Solved with the given dimensions when fn succeeds. A model that is
// already solved yields ErrAlreadySolved and fn is not called. If fn fails
// the model stays Unsolved.
func (s *StateManager) WithStateMut(op string, nFeatures, nSamples int, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Solved {
		return errors.NewModelError(op, "model is already solved; call Reset() to solve again", errors.ErrAlreadySolved)
	}
	if err := fn(); err != nil {
		return err
	}
	s.state = Solved
	s.nFeatures = nFeatures
	s.nSamples = nSamples
	return nil
}

// ModelState is a serializable view of the state.
type ModelState struct {
	Solved    bool `json:"solved"`
	NFeatures int  `json:"n_features,omitempty"`
	NSamples  int  `json:"n_samples,omitempty"`
}

// GetState returns the current state as a ModelState struct.
func (s *StateManager) GetState() ModelState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ModelState{
		Solved:    s.state == Solved,
		NFeatures: s.nFeatures,
		NSamples:  s.nSamples,
	}
}

// SetState restores a state captured by GetState, e.g. after loading a snapshot.
func (s *StateManager) SetState(state ModelState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Unsolved
	if state.Solved {
		s.state = Solved
	}
	s.nFeatures = state.NFeatures
	s.nSamples = state.NSamples
}
