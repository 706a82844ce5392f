package spacing

import (
	"math"
	"sync"
	"testing"

	"mprgeom/internal/models"
)

// TestIdenticalSpacing verifies that identical submissions keep the series fixed
func TestIdenticalSpacing(t *testing.T) {
	acc := NewAccumulator()

	msg := acc.Submit(0, []float64{0.5, 0.7})
	if msg != "First pixel spacing (0.5, 0.7)" {
		t.Errorf("Unexpected first message %q", msg)
	}

	for i := 1; i < 10; i++ {
		if msg := acc.Submit(i, []float64{0.5, 0.7}); msg != "" {
			t.Errorf("Expected no message for frame %d, got %q", i, msg)
		}
	}

	if acc.IsVariable() || acc.IsUnknown() {
		t.Errorf("Expected fixed spacing, got state %s", acc.State())
	}

	got, ok := acc.Spacing()
	if !ok {
		t.Fatal("Expected a first spacing")
	}
	if got != (models.PixelSpacing{0.5, 0.7}) {
		t.Errorf("Expected (0.5, 0.7), got %v", got)
	}
	if acc.Unit() != models.Millimeter {
		t.Errorf("Expected mm unit, got %s", acc.Unit())
	}
}

// TestVariableSpacingLatches verifies that one differing frame latches the state
func TestVariableSpacingLatches(t *testing.T) {
	tests := []struct {
		name          string
		first, second []float64
	}{
		{"row differs", []float64{0.5, 0.7}, []float64{0.6, 0.7}},
		{"column differs", []float64{0.5, 0.7}, []float64{0.5, 0.8}},
		{"negative zero", []float64{0.5, 0}, []float64{0.5, math.Copysign(0, -1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := NewAccumulator()
			first := tt.first
			acc.Submit(0, first)

			if msg := acc.Submit(1, tt.second); msg != "Found variable pixel spacing" {
				t.Errorf("Unexpected message %q", msg)
			}
			if !acc.IsVariable() {
				t.Fatal("Expected variable spacing")
			}

			// Latched: neither identical nor malformed samples change it
			if msg := acc.Submit(2, first); msg != "" {
				t.Errorf("Expected no message after latch, got %q", msg)
			}
			if msg := acc.Submit(3, nil); msg != "" {
				t.Errorf("Expected no message after latch, got %q", msg)
			}
			if !acc.IsVariable() || acc.IsUnknown() {
				t.Errorf("Expected state to stay variable, got %s", acc.State())
			}

			got, _ := acc.Spacing()
			if got != (models.PixelSpacing{first[0], first[1]}) {
				t.Errorf("Expected first spacing to be kept, got %v", got)
			}
		})
	}
}

// TestUnknownSpacingLatches verifies malformed samples latch the unknown state
func TestUnknownSpacingLatches(t *testing.T) {
	for _, bad := range [][]float64{nil, {0.5}, {0.5, 0.5, 0.5}} {
		acc := NewAccumulator()
		if msg := acc.Submit(0, bad); msg != "Found unknown pixel spacing" {
			t.Errorf("Unexpected message %q for %v", msg, bad)
		}
		if !acc.IsUnknown() {
			t.Errorf("Expected unknown spacing for %v", bad)
		}

		acc.Submit(1, []float64{1, 1})
		if !acc.IsUnknown() || acc.IsVariable() {
			t.Errorf("Expected state to stay unknown, got %s", acc.State())
		}
		if _, ok := acc.Spacing(); ok {
			t.Error("Expected no first spacing")
		}
		if acc.Unit() != models.Pixel {
			t.Errorf("Expected pixel unit, got %s", acc.Unit())
		}
	}
}

// TestSpacingAtRecordsRawSamples verifies per-frame recording and copy semantics
func TestSpacingAtRecordsRawSamples(t *testing.T) {
	acc := NewAccumulator()
	sample := []float64{0.3, 0.3}
	acc.Submit(7, sample)
	acc.Submit(9, []float64{1})
	acc.Submit(11, nil)

	sample[0] = 99
	got, ok := acc.SpacingAt(7)
	if !ok || got[0] != 0.3 {
		t.Errorf("Expected stored copy (0.3, 0.3), got %v", got)
	}
	got[1] = 42
	if again, _ := acc.SpacingAt(7); again[1] != 0.3 {
		t.Errorf("Caller mutated stored spacing: %v", again)
	}

	if got, ok := acc.SpacingAt(9); !ok || len(got) != 1 {
		t.Errorf("Expected malformed sample to be recorded, got %v, %v", got, ok)
	}
	if got, ok := acc.SpacingAt(11); !ok || got != nil {
		t.Errorf("Expected nil sample to be recorded, got %v, %v", got, ok)
	}
	if _, ok := acc.SpacingAt(8); ok {
		t.Error("Expected missing frame to be absent")
	}
	if acc.Frames() != 3 {
		t.Errorf("Expected 3 frames, got %d", acc.Frames())
	}
	acc.Submit(7, sample)
	if acc.Frames() != 3 {
		t.Errorf("Expected resubmission to keep 3 frames, got %d", acc.Frames())
	}
}

// TestPixelSize verifies the derived pixel size and unit
func TestPixelSize(t *testing.T) {
	acc := NewAccumulator()
	if ps := acc.PixelSize(); ps.Unit() != models.Pixel || ps.Size() != 1 {
		t.Errorf("Expected one pixel size, got %s", ps)
	}

	acc.Submit(0, []float64{0.4, 0.6})
	ps := acc.PixelSize()
	if ps.Unit() != models.Millimeter || ps.Size() != 0.6 {
		t.Errorf("Expected 0.6 mm, got %s", ps)
	}
}

// TestTransition exercises the state machine directly
func TestTransition(t *testing.T) {
	first := models.PixelSpacing{1, 2}
	tests := []struct {
		state  State
		sample []float64
		want   State
	}{
		{Unresolved, []float64{1, 2}, Fixed},
		{Unresolved, nil, Unknown},
		{Fixed, []float64{1, 2}, Fixed},
		{Fixed, []float64{2, 1}, Variable},
		{Fixed, []float64{1}, Unknown},
		{Variable, nil, Variable},
		{Unknown, []float64{3, 3}, Unknown},
	}

	for _, tt := range tests {
		got, _, _ := transition(tt.state, first, tt.sample)
		if got != tt.want {
			t.Errorf("transition(%s, %v) = %s, want %s", tt.state, tt.sample, got, tt.want)
		}
	}
}

// TestConcurrentSubmit verifies concurrent loaders cannot corrupt the state
func TestConcurrentSubmit(t *testing.T) {
	acc := NewAccumulator()
	h := quietHistogram()

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(place int) {
			defer wg.Done()
			acc.Submit(place, []float64{0.8, 0.8})
			h.Add(2.0)
		}(i)
	}
	wg.Wait()

	if acc.State() != Fixed {
		t.Errorf("Expected fixed state, got %s", acc.State())
	}
	for i := 0; i < 64; i++ {
		if _, ok := acc.SpacingAt(i); !ok {
			t.Errorf("Frame %d was not recorded", i)
		}
	}
	if h.Total() != 64 || !h.IsRegular() {
		t.Errorf("Expected 64 regular occurrences, got %d", h.Total())
	}
}
