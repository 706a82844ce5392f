package localizer

import (
	"gonum.org/v1/gonum/spatial/r3"

	"mprgeom/internal/models"
)

// IntersectSlice draws where a source slice crosses the target plane: the
// whole rectangle when both are coplanar, otherwise the segment between the
// two points where the source edges meet the target plane.
type IntersectSlice struct {
	*Localizer
}

// NewIntersectSlice creates an intersector for the given target plane
func NewIntersectSlice(target models.SlicePlane) *IntersectSlice {
	return &IntersectSlice{Localizer: NewLocalizer(target)}
}

var _ Poster = (*IntersectSlice)(nil)

// Outline implements Poster. The slice thickness does not change a plane to
// plane intersection and is ignored.
func (s *IntersectSlice) Outline(source models.SlicePlane, thickness float64) (Outline, bool) {
	if !s.valid || !source.Valid() {
		return Outline{}, false
	}

	// Each source edge is considered against the target plane, so the source
	// corners are taken into localizer space where that plane is Z = 0.
	corners := sourceCorners(source)
	for i := range corners {
		corners[i] = s.toLocalizerSpace(corners[i])
	}
	snapToPlane(&corners, sourceExtent(source))

	edges := classifyEdges(corners)
	switch {
	case allTrue(edges):
		// Source in the same plane as the target. A plane through two
		// diagonally opposite corners also marks every edge and is drawn
		// as the whole rectangle rather than the diagonal.
		return s.rectangle(corners), true
	case oppositeEdges(edges), adjacentEdges(edges):
		return s.zeroCrossings(corners), true
	}
	return Outline{}, false
}

// classifyEdges marks the edges, in cyclic corner order, that cross Z = 0.
func classifyEdges(corners [4]r3.Vec) [4]bool {
	var edges [4]bool
	for i := range corners {
		edges[i] = crossesZPlane(corners[i], corners[(i+1)%len(corners)])
	}
	return edges
}

func allTrue(edges [4]bool) bool {
	for _, e := range edges {
		if !e {
			return false
		}
	}
	return true
}

func oppositeEdges(e [4]bool) bool {
	return e[0] && e[2] || e[1] && e[3]
}

func adjacentEdges(e [4]bool) bool {
	return e[0] && e[1] || e[1] && e[2] || e[2] && e[3] || e[3] && e[0]
}
