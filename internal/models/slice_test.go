package models

import (
	"math"
	"testing"
)

// TestFramePlane verifies DICOM spacing order is mapped onto the plane axes
func TestFramePlane(t *testing.T) {
	f := Frame{
		Index:        3,
		PixelSpacing: []float64{0.4, 0.6},
		Position:     []float64{1, 2, 3},
		Orientation:  []float64{1, 0, 0, 0, 1, 0},
		Rows:         100,
		Columns:      200,
		Thickness:    2,
	}

	p, ok := f.Plane()
	if !ok {
		t.Fatal("Expected a plane")
	}
	if p.Spacing.X != 0.6 || p.Spacing.Y != 0.4 || p.Spacing.Z != 2 {
		t.Errorf("Unexpected spacing %v", p.Spacing)
	}
	if p.Width != 200 || p.Height != 100 {
		t.Errorf("Expected 200x100, got %dx%d", p.Width, p.Height)
	}
	if !p.Valid() {
		t.Error("Expected a valid plane")
	}

	f.Orientation = f.Orientation[:5]
	if _, ok := f.Plane(); ok {
		t.Error("Expected malformed orientation to be rejected")
	}
}

// TestPixelSize verifies defaults, copies and equality
func TestPixelSize(t *testing.T) {
	var zero PixelSize
	if zero.Size() != 1 || zero.Unit() != Pixel {
		t.Errorf("Unexpected zero pixel size %s", zero)
	}
	if !zero.Equal(NewPixelSize(nil, Pixel)) {
		t.Error("Expected zero value to equal the empty pixel size")
	}

	in := []float64{0.3, 0.5}
	ps := NewPixelSize(in, Millimeter)
	in[1] = 9
	if ps.Size() != 0.5 {
		t.Errorf("Expected size 0.5, got %f", ps.Size())
	}
	if NewPixelSize([]float64{0.7}, Millimeter).Size() != 0.7 {
		t.Error("Expected single value size")
	}
	if ps.Equal(NewPixelSize([]float64{0.3, 0.5}, Pixel)) {
		t.Error("Sizes with different units must differ")
	}
	if !ps.Equal(NewPixelSize([]float64{0.3, 0.5}, Millimeter)) {
		t.Error("Expected identical sizes to be equal")
	}
	if ps.String() != "PixelSize:[0.3 0.5]/Unit:mm" {
		t.Errorf("Unexpected string %q", ps.String())
	}
}

// TestPixelSizeEqualBits verifies equality follows bit patterns
func TestPixelSizeEqualBits(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want bool
	}{
		{"NaN", []float64{math.NaN(), 1}, []float64{math.NaN(), 1}, true},
		{"signed zero", []float64{0, 1}, []float64{math.Copysign(0, -1), 1}, false},
		{"length", []float64{1, 1}, []float64{1}, false},
	}

	for _, tt := range tests {
		a, b := NewPixelSize(tt.a, Millimeter), NewPixelSize(tt.b, Millimeter)
		if got := a.Equal(b); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}
