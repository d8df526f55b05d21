package eof

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/goeof/pkg/errors"
)

// ModeSelector picks a set of 1-based modes for reconstruction.
// Build one with Mode, Modes, ModeRange, AllModes or ParseModeSelector.
type ModeSelector interface {
	// resolve validates the selection against nModes and returns 0-based
	// column indices in selection order.
	resolve(op string, nModes int) ([]int, error)
	String() string
}

type modeList []int

// Mode selects the single mode k.
func Mode(k int) ModeSelector {
	return modeList{k}
}

// Modes selects the listed modes. An empty list selects nothing and
// reconstructs the zero matrix. Duplicates are rejected on use.
func Modes(ks ...int) ModeSelector {
	return append(modeList(nil), ks...)
}

func (m modeList) resolve(op string, nModes int) ([]int, error) {
	seen := make(map[int]bool, len(m))
	idx := make([]int, 0, len(m))
	for _, k := range m {
		if k < 1 || k > nModes {
			return nil, errors.NewModeSelectionError(op, k, nModes, "mode out of range")
		}
		if seen[k] {
			return nil, errors.NewModeSelectionError(op, k, nModes, "mode selected more than once")
		}
		seen[k] = true
		idx = append(idx, k-1)
	}
	return idx, nil
}

func (m modeList) String() string {
	parts := make([]string, len(m))
	for i, k := range m {
		parts[i] = strconv.Itoa(k)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

type modeRange struct {
	from, to int
}

// ModeRange selects modes from..to, both inclusive.
func ModeRange(from, to int) ModeSelector {
	return modeRange{from: from, to: to}
}

func (r modeRange) resolve(op string, nModes int) ([]int, error) {
	if r.from > r.to {
		return nil, errors.NewModeSelectionError(op, r.from, nModes,
			fmt.Sprintf("range start exceeds range end %d", r.to))
	}
	if r.from < 1 {
		return nil, errors.NewModeSelectionError(op, r.from, nModes, "mode out of range")
	}
	if r.to > nModes {
		return nil, errors.NewModeSelectionError(op, r.to, nModes, "mode out of range")
	}
	idx := make([]int, 0, r.to-r.from+1)
	for k := r.from; k <= r.to; k++ {
		idx = append(idx, k-1)
	}
	return idx, nil
}

func (r modeRange) String() string {
	return fmt.Sprintf("%d-%d", r.from, r.to)
}

type allModes struct{}

// AllModes selects every retained mode.
func AllModes() ModeSelector {
	return allModes{}
}

func (allModes) resolve(_ string, nModes int) ([]int, error) {
	idx := make([]int, nModes)
	for i := range idx {
		idx[i] = i
	}
	return idx, nil
}

func (allModes) String() string {
	return "all"
}

// ParseModeSelector parses the command line form of a selector:
//
//	""       no modes
//	"all"    every mode
//	"2"      a single mode
//	"1-3"    an inclusive range
//	"1,3,5"  a list; items may themselves be ranges ("1-2,5")
//
// Range validity against the number of modes is checked when the selector is used.
func ParseModeSelector(s string) (ModeSelector, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return Modes(), nil
	case strings.EqualFold(s, "all"):
		return AllModes(), nil
	}

	items := strings.Split(s, ",")
	if len(items) == 1 {
		if from, to, ok, err := parseRangeItem(s); err != nil {
			return nil, err
		} else if ok {
			return ModeRange(from, to), nil
		}
	}

	var modes []int
	for _, item := range items {
		item = strings.TrimSpace(item)
		from, to, isRange, err := parseRangeItem(item)
		if err != nil {
			return nil, err
		}
		if !isRange {
			k, err := strconv.Atoi(item)
			if err != nil {
				return nil, errors.NewValidationError("modes", "not a mode number", item)
			}
			modes = append(modes, k)
			continue
		}
		if from > to {
			return nil, errors.NewValidationError("modes", "range start exceeds range end", item)
		}
		for k := from; k <= to; k++ {
			modes = append(modes, k)
		}
	}
	return Modes(modes...), nil
}

// parseRangeItem parses "a-b". ok is false when item contains no dash.
func parseRangeItem(item string) (from, to int, ok bool, err error) {
	left, right, found := strings.Cut(item, "-")
	if !found {
		return 0, 0, false, nil
	}
	from, err = strconv.Atoi(strings.TrimSpace(left))
	if err != nil {
		return 0, 0, false, errors.NewValidationError("modes", "invalid range start", item)
	}
	to, err = strconv.Atoi(strings.TrimSpace(right))
	if err != nil {
		return 0, 0, false, errors.NewValidationError("modes", "invalid range end", item)
	}
	return from, to, true, nil
}
