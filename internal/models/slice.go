package models

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Frame is the per-image metadata a series loader hands to the geometry engine.
// Every field except Index may be missing or malformed; consumers decide how
// to degrade when it is.
type Frame struct {
	// Index is the placement of this frame in the stack
	Index int `yaml:"index"`

	// PixelSpacing is the DICOM (row spacing, column spacing) pair in mm
	PixelSpacing []float64 `yaml:"pixelSpacing,omitempty"`

	// Position is the patient-space position of the top left hand corner
	Position []float64 `yaml:"imagePosition,omitempty"`

	// Orientation holds the row and column direction cosines (6 values)
	Orientation []float64 `yaml:"imageOrientation,omitempty"`

	// Rows and Columns are the pixel dimensions of the frame
	Rows    int `yaml:"rows"`
	Columns int `yaml:"columns"`

	// Thickness is the nominal slice thickness in mm
	Thickness float64 `yaml:"sliceThickness,omitempty"`
}

// SlicePlane places a 2D image plane in patient space.
type SlicePlane struct {
	// Row and Column are the direction cosines of the image rows and columns
	Row    r3.Vec
	Column r3.Vec

	// TLHC is the position of the top left hand corner
	TLHC r3.Vec

	// Spacing.X is the distance between columns (along Row), Spacing.Y the
	// distance between rows (along Column), Spacing.Z the slice interval
	Spacing r3.Vec

	// Width is the number of columns, Height the number of rows
	Width  int
	Height int
}

// Valid reports whether the plane has non-degenerate direction cosines,
// positive in-plane spacing and positive dimensions.
func (p SlicePlane) Valid() bool {
	if r3.Norm(r3.Cross(p.Row, p.Column)) == 0 {
		return false
	}
	return p.Spacing.X > 0 && p.Spacing.Y > 0 && p.Width > 0 && p.Height > 0
}

// Plane builds the SlicePlane of the frame. ok is false when the orientation,
// position or pixel spacing is missing or has the wrong number of values.
func (f Frame) Plane() (plane SlicePlane, ok bool) {
	if len(f.Orientation) != 6 || len(f.Position) != 3 || len(f.PixelSpacing) != 2 {
		return SlicePlane{}, false
	}
	plane = SlicePlane{
		Row:     r3.Vec{X: f.Orientation[0], Y: f.Orientation[1], Z: f.Orientation[2]},
		Column:  r3.Vec{X: f.Orientation[3], Y: f.Orientation[4], Z: f.Orientation[5]},
		TLHC:    r3.Vec{X: f.Position[0], Y: f.Position[1], Z: f.Position[2]},
		Spacing: r3.Vec{X: f.PixelSpacing[1], Y: f.PixelSpacing[0], Z: f.Thickness},
		Width:   f.Columns,
		Height:  f.Rows,
	}
	return plane, true
}

// String returns a short description of the frame for log output
func (f Frame) String() string {
	return fmt.Sprintf("frame %d (%dx%d)", f.Index, f.Columns, f.Rows)
}
