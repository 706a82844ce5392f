package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Label is the plane classification of an image orientation.
type Label int

const (
	Oblique Label = iota
	Axial
	Coronal
	Sagittal
)

func (l Label) String() string {
	switch l {
	case Axial:
		return "AXIAL"
	case Coronal:
		return "CORONAL"
	case Sagittal:
		return "SAGITTAL"
	default:
		return "OBLIQUE"
	}
}

// axis is the patient axis a direction cosine is aligned with
type axis int

const (
	noAxis axis = iota
	axisRL
	axisAP
	axisHF
)

const (
	// DefaultObliquityThreshold is the minimum cosine for a direction to be
	// considered aligned with a patient axis.
	DefaultObliquityThreshold = 0.8

	// DefaultObliqueTolerance is the minimum dot product between the normals
	// of two oblique planes for them to share an orientation.
	DefaultObliqueTolerance = 0.95
)

// Comparator classifies and compares image orientations.
type Comparator struct {
	ObliquityThreshold float64
	ObliqueTolerance   float64
}

// DefaultComparator uses the standard thresholds
var DefaultComparator = Comparator{
	ObliquityThreshold: DefaultObliquityThreshold,
	ObliqueTolerance:   DefaultObliqueTolerance,
}

func (c Comparator) majorAxis(x, y, z float64) axis {
	absX, absY, absZ := math.Abs(x), math.Abs(y), math.Abs(z)
	switch {
	case absX > c.ObliquityThreshold && absX > absY && absX > absZ:
		return axisRL
	case absY > c.ObliquityThreshold && absY > absX && absY > absZ:
		return axisAP
	case absZ > c.ObliquityThreshold && absZ > absX && absZ > absY:
		return axisHF
	}
	return noAxis
}

// Label classifies the orientation given by 6 direction cosines (row then
// column). Anything that is not exactly 6 values is Oblique.
func (c Comparator) Label(orientation []float64) Label {
	if len(orientation) != 6 {
		return Oblique
	}
	row := c.majorAxis(orientation[0], orientation[1], orientation[2])
	col := c.majorAxis(orientation[3], orientation[4], orientation[5])
	if row == noAxis || col == noAxis {
		return Oblique
	}

	in := func(a axis, set ...axis) bool {
		for _, s := range set {
			if a == s {
				return true
			}
		}
		return false
	}
	switch {
	case in(row, axisRL, axisAP) && in(col, axisRL, axisAP):
		return Axial
	case in(row, axisRL, axisHF) && in(col, axisRL, axisHF):
		return Coronal
	case in(row, axisAP, axisHF) && in(col, axisAP, axisHF):
		return Sagittal
	}
	return Oblique
}

// SameOrientation reports whether two orientations describe parallel planes.
// Non-oblique orientations are compared by label. When v1 is oblique the unit
// normals are compared and must have a dot product above ObliqueTolerance.
func (c Comparator) SameOrientation(v1, v2 []float64) bool {
	if len(v1) != 6 || len(v2) != 6 {
		return false
	}

	if l1 := c.Label(v1); l1 != Oblique {
		return l1 == c.Label(v2)
	}

	n1, ok1 := Normal(v1)
	n2, ok2 := Normal(v2)
	if !ok1 || !ok2 {
		return false
	}
	return r3.Dot(n1, n2) > c.ObliqueTolerance
}

// LabelOf classifies an orientation with the default thresholds
func LabelOf(orientation []float64) Label {
	return DefaultComparator.Label(orientation)
}

// SameOrientation compares two orientations with the default thresholds
func SameOrientation(v1, v2 []float64) bool {
	return DefaultComparator.SameOrientation(v1, v2)
}

// Normal returns the unit normal (row x column) of the plane described by 6
// direction cosines. ok is false for a malformed or degenerate orientation.
func Normal(orientation []float64) (n r3.Vec, ok bool) {
	if len(orientation) != 6 {
		return r3.Vec{}, false
	}
	row := r3.Vec{X: orientation[0], Y: orientation[1], Z: orientation[2]}
	col := r3.Vec{X: orientation[3], Y: orientation[4], Z: orientation[5]}

	cross := r3.Cross(row, col)
	norm := r3.Norm(cross)
	if norm == 0 || math.IsNaN(norm) {
		return r3.Vec{}, false
	}
	return r3.Scale(1/norm, cross), true
}
