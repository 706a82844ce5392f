// Package spacing reconciles per-frame pixel spacing and inter-slice spacing
// across a stack of frames.
package spacing

import (
	"fmt"
	"math"
	"sync"

	"mprgeom/internal/models"
)

// State is the resolution state of the pixel spacing of a series.
type State int

const (
	// Unresolved means no spacing has been accepted yet
	Unresolved State = iota

	// Fixed means every accepted spacing equals the first one
	Fixed

	// Variable means at least one frame disagreed with the first spacing
	Variable

	// Unknown means at least one frame had a missing or malformed spacing
	Unknown
)

func (s State) String() string {
	switch s {
	case Fixed:
		return "fixed"
	case Variable:
		return "variable"
	case Unknown:
		return "unknown"
	default:
		return "unresolved"
	}
}

// Latched reports whether the state is terminal.
func (s State) Latched() bool {
	return s == Variable || s == Unknown
}

// transition computes the next state for a submitted sample. It returns the
// new state, the first accepted spacing and a diagnostic message ("" when
// nothing changed). Latched states absorb every sample.
func transition(state State, first models.PixelSpacing, sample []float64) (State, models.PixelSpacing, string) {
	if state.Latched() {
		return state, first, ""
	}
	if len(sample) != 2 {
		return Unknown, first, "Found unknown pixel spacing"
	}
	if state == Unresolved {
		return Fixed, models.PixelSpacing{sample[0], sample[1]},
			fmt.Sprintf("First pixel spacing (%v, %v)", sample[0], sample[1])
	}
	if !sameValue(first[0], sample[0]) || !sameValue(first[1], sample[1]) {
		return Variable, first, "Found variable pixel spacing"
	}
	return state, first, ""
}

// sameValue compares bit patterns so NaN matches itself and 0 differs from -0.
func sameValue(a, b float64) bool {
	return math.Float64bits(a) == math.Float64bits(b)
}

// Accumulator collects the acquisition pixel spacing of every frame of a
// series and latches whether it is unknown or variable.
//
// Accumulator is safe for concurrent use; submissions are serialized.
type Accumulator struct {
	mu       sync.RWMutex
	state    State
	first    models.PixelSpacing
	hasFirst bool
	perFrame map[int][]float64
}

// NewAccumulator creates an empty accumulator
func NewAccumulator() *Accumulator {
	return &Accumulator{
		perFrame: make(map[int][]float64),
	}
}

// Submit records the pixel spacing of the frame at place and updates the
// series state. The raw sample is always recorded for the frame, even when
// malformed or when the state is already latched.
//
// Returns a message suitable for logging, or "" when the state did not change.
func (a *Accumulator) Submit(place int, pixSpacing []float64) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.perFrame == nil {
		a.perFrame = make(map[int][]float64)
	}
	a.perFrame[place] = cloneSpacing(pixSpacing)

	prev := a.state
	var msg string
	a.state, a.first, msg = transition(a.state, a.first, pixSpacing)
	if prev == Unresolved && a.state == Fixed {
		a.hasFirst = true
	}
	return msg
}

// Spacing returns the first accepted pixel spacing. It may not hold for the
// whole series: check State.
func (a *Accumulator) Spacing() (models.PixelSpacing, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.first, a.hasFirst
}

// SpacingAt returns a copy of the raw spacing submitted for the frame at place.
func (a *Accumulator) SpacingAt(place int) ([]float64, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s, ok := a.perFrame[place]
	if !ok {
		return nil, false
	}
	return cloneSpacing(s), true
}

// Frames returns the number of frames submitted so far
func (a *Accumulator) Frames() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.perFrame)
}

// State returns the current resolution state
func (a *Accumulator) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// IsVariable reports whether frames disagreed on the pixel spacing
func (a *Accumulator) IsVariable() bool {
	return a.State() == Variable
}

// IsUnknown reports whether a frame had a missing or malformed pixel spacing
func (a *Accumulator) IsUnknown() bool {
	return a.State() == Unknown
}

// Unit returns Millimeter once a spacing has been accepted, Pixel otherwise.
func (a *Accumulator) Unit() models.Unit {
	if _, ok := a.Spacing(); ok {
		return models.Millimeter
	}
	return models.Pixel
}

// PixelSize returns the first accepted spacing with its unit.
func (a *Accumulator) PixelSize() models.PixelSize {
	first, ok := a.Spacing()
	if !ok {
		return models.NewPixelSize(nil, models.Pixel)
	}
	return models.NewPixelSize(first[:], models.Millimeter)
}

func cloneSpacing(s []float64) []float64 {
	if s == nil {
		return nil
	}
	return append([]float64(nil), s...)
}
