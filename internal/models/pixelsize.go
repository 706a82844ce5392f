package models

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Unit is the unit a pixel spacing is expressed in.
type Unit int

const (
	Pixel Unit = iota
	Millimeter
)

func (u Unit) String() string {
	switch u {
	case Millimeter:
		return "mm"
	default:
		return "pixel"
	}
}

// PixelSpacing is an accepted (row, column) pixel spacing pair.
type PixelSpacing [2]float64

// PixelSize is a pixel spacing together with its unit. The zero value is a
// size of 1 pixel.
type PixelSize struct {
	spacing []float64
	unit    Unit
}

// NewPixelSize creates a PixelSize. A nil spacing is stored as {1}.
func NewPixelSize(spacing []float64, unit Unit) PixelSize {
	if spacing == nil {
		return PixelSize{spacing: []float64{1}, unit: unit}
	}
	return PixelSize{spacing: append([]float64(nil), spacing...), unit: unit}
}

// Spacing returns a copy of the spacing values
func (p PixelSize) Spacing() []float64 {
	if p.spacing == nil {
		return []float64{1}
	}
	return append([]float64(nil), p.spacing...)
}

// Unit returns the spacing unit
func (p PixelSize) Unit() Unit {
	return p.unit
}

// Size returns the scalar pixel size. For a pair it is the column spacing,
// which is the X axis of the texture model.
func (p PixelSize) Size() float64 {
	switch len(p.spacing) {
	case 0:
		return 1
	case 1:
		return p.spacing[0]
	default:
		return p.spacing[1]
	}
}

// Equal reports whether both sizes have the same unit and identical spacing.
// Values are compared by bit pattern: NaN equals NaN and 0 differs from -0.
func (p PixelSize) Equal(o PixelSize) bool {
	return p.unit == o.unit && floats.EqualFunc(p.Spacing(), o.Spacing(), func(a, b float64) bool {
		return math.Float64bits(a) == math.Float64bits(b)
	})
}

func (p PixelSize) String() string {
	return fmt.Sprintf("PixelSize:%v/Unit:%s", p.Spacing(), p.unit)
}
