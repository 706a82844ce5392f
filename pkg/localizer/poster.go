// Package localizer draws the footprint of one slice on the plane of another,
// for crosshair and reference lines between reformatted views.
package localizer

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"mprgeom/internal/models"
)

// Outline is a polyline in the pixel space of the target (localizer) image.
// A closed outline is a polygon whose last point connects to the first.
type Outline struct {
	Points []r2.Vec
	Closed bool
}

// Poster computes the outline of a source slice on a target plane.
type Poster interface {
	// Outline returns the outline of source on the target, or false when the
	// source does not reach the target plane.
	Outline(source models.SlicePlane, thickness float64) (Outline, bool)
}

// Localizer holds the target plane and the transform from patient space into
// localizer space, where the target plane is Z = 0, X runs along its rows and
// Y along its columns.
type Localizer struct {
	target models.SlicePlane
	normal r3.Vec
	rotate *mat.Dense
	valid  bool
}

// NewLocalizer prepares the transform for the given target plane. A
// degenerate target produces a localizer on which nothing intersects.
func NewLocalizer(target models.SlicePlane) *Localizer {
	l := &Localizer{target: target}
	if !target.Valid() {
		return l
	}

	row := r3.Unit(target.Row)
	col := r3.Unit(target.Column)
	l.normal = r3.Unit(r3.Cross(row, col))
	l.rotate = mat.NewDense(3, 3, []float64{
		row.X, row.Y, row.Z,
		col.X, col.Y, col.Z,
		l.normal.X, l.normal.Y, l.normal.Z,
	})
	l.valid = true
	return l
}

// Target returns the target plane
func (l *Localizer) Target() models.SlicePlane {
	return l.target
}

// toLocalizerSpace transforms a patient-space point into localizer space.
func (l *Localizer) toLocalizerSpace(p r3.Vec) r3.Vec {
	d := r3.Sub(p, l.target.TLHC)
	var out mat.VecDense
	out.MulVec(l.rotate, mat.NewVecDense(3, []float64{d.X, d.Y, d.Z}))
	return r3.Vec{X: out.AtVec(0), Y: out.AtVec(1), Z: out.AtVec(2)}
}

// toImageSpace converts a point lying in the localizer plane into pixel
// coordinates of the target image.
func (l *Localizer) toImageSpace(p r3.Vec) r2.Vec {
	return r2.Vec{X: p.X / l.target.Spacing.X, Y: p.Y / l.target.Spacing.Y}
}

// sourceCorners returns the corners of the source rectangle in patient space,
// in the order TLHC, TRHC, BRHC, BLHC.
func sourceCorners(src models.SlicePlane) [4]r3.Vec {
	across := r3.Scale(src.Spacing.X*float64(src.Width), r3.Unit(src.Row))
	down := r3.Scale(src.Spacing.Y*float64(src.Height), r3.Unit(src.Column))

	var c [4]r3.Vec
	c[0] = src.TLHC
	c[1] = r3.Add(c[0], across)
	c[2] = r3.Add(c[1], down)
	c[3] = r3.Add(c[0], down)
	return c
}

// snapToPlane sets to zero the Z of corners closer to the plane than a
// tolerance proportional to the source extent, so rotation noise on a
// coplanar source does not split the edges.
func snapToPlane(corners *[4]r3.Vec, extent float64) {
	tol := planeTolerance * extent
	for i := range corners {
		if math.Abs(corners[i].Z) <= tol {
			corners[i].Z = 0
		}
	}
}

// sourceExtent returns the length of the source diagonal in mm.
func sourceExtent(src models.SlicePlane) float64 {
	return math.Hypot(src.Spacing.X*float64(src.Width), src.Spacing.Y*float64(src.Height))
}

// crossesZPlane reports whether the edge between two localizer-space points
// crosses or touches Z = 0.
func crossesZPlane(a, b r3.Vec) bool {
	return a.Z <= 0 && b.Z >= 0 || a.Z >= 0 && b.Z <= 0
}

// rectangle returns the closed outline through all corners.
func (l *Localizer) rectangle(corners [4]r3.Vec) Outline {
	out := Outline{Points: make([]r2.Vec, 0, len(corners)), Closed: true}
	for _, c := range corners {
		out.Points = append(out.Points, l.toImageSpace(c))
	}
	return out
}

// zeroCrossings returns, in edge order, the points where the rectangle edges
// meet Z = 0. An edge lying in the plane contributes both of its ends.
// Coincident points are reported once.
func (l *Localizer) zeroCrossings(corners [4]r3.Vec) Outline {
	var pts []r3.Vec
	add := func(p r3.Vec) {
		for _, q := range pts {
			if r3.Norm(r3.Sub(p, q)) < coincident {
				return
			}
		}
		pts = append(pts, p)
	}

	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		if !crossesZPlane(a, b) {
			continue
		}
		dz := b.Z - a.Z
		if dz == 0 {
			add(a)
			add(b)
			continue
		}
		t := -a.Z / dz
		p := r3.Add(a, r3.Scale(t, r3.Sub(b, a)))
		p.Z = 0
		add(p)
	}

	out := Outline{Points: make([]r2.Vec, 0, len(pts))}
	for _, p := range pts {
		out.Points = append(out.Points, l.toImageSpace(p))
	}
	if len(out.Points) == 1 {
		// The source only touches the plane at a corner
		out.Points = append(out.Points, out.Points[0])
	}
	return out
}

const (
	// coincident is the distance in mm under which two crossing points merge
	coincident = 1e-9

	// planeTolerance is the distance from the target plane, relative to the
	// source extent, under which a corner is taken to lie in the plane
	planeTolerance = 1e-6
)
