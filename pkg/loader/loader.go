// Package loader runs the geometry side of loading a series into a texture:
// it orders the frames, derives the distance between consecutive frames and
// feeds everything into a TextureGeometry.
package loader

import (
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r3"

	"mprgeom/internal/models"
	"mprgeom/pkg/geometry"
	"mprgeom/pkg/spacing"
)

// Params holds the loader configuration.
type Params struct {
	// NumCores specifies how many goroutines derive slice distances
	NumCores int

	// Comparator decides whether a frame shares the series orientation; the
	// zero value means geometry.DefaultComparator
	Comparator geometry.Comparator

	// Logger receives the geometry diagnostics; nil means log.Default()
	Logger *log.Logger
}

// Result is the resolved geometry of a series.
type Result struct {
	// Geometry is the accumulated geometry, read-only once returned
	Geometry *geometry.TextureGeometry

	// Frames is the number of frames ingested
	Frames int

	// PixelSize is the first acquisition pixel spacing with its unit
	PixelSize models.PixelSize

	// PixelSpacingState tells whether that pixel spacing holds for every frame
	PixelSpacingState spacing.State

	// MostCommonSpacing is the most frequent distance between frames,
	// negative when the stack runs against the plane normal
	MostCommonSpacing float64

	// RegularSliceSpacing is true when every distance fell in one bucket
	RegularSliceSpacing bool

	// NegativeSliceSpacing is true when any distance was negative
	NegativeSliceSpacing bool

	// Multiplier is the texture dimension multiplier
	Multiplier mgl64.Vec3

	// Orientation is the plane label of the series
	Orientation geometry.Label

	// MixedOrientation counts frames whose plane differs from the series
	MixedOrientation int

	// Status summarizes the geometry for warning banners
	Status geometry.Status
}

// Loader ingests the frames of one series at a time.
type Loader struct {
	params     *Params
	comparator geometry.Comparator
	logger     *log.Logger
}

// NewLoader creates a loader with the provided parameters
func NewLoader(params *Params) *Loader {
	logger := params.Logger
	if logger == nil {
		logger = log.Default()
	}
	comparator := params.Comparator
	if comparator == (geometry.Comparator{}) {
		comparator = geometry.DefaultComparator
	}
	return &Loader{params: params, comparator: comparator, logger: logger}
}

// Load resolves the geometry of the given frames. Frames are ordered by
// Index; each is submitted exactly once and in stack order, so the latching
// behaviour of the geometry does not depend on scheduling.
func (l *Loader) Load(frames []models.Frame) (*Result, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames to load")
	}

	// Step 1: order the stack
	ordered := make([]models.Frame, len(frames))
	copy(ordered, frames)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Index < ordered[j].Index
	})

	g := geometry.NewTextureGeometry(l.logger)
	seriesOrientation := ordered[0].Orientation
	g.SetOrientationPatient(seriesOrientation)

	// Step 2: derive frame distances and orientation agreement in parallel
	gaps, mixed := l.analyzeFrames(ordered, seriesOrientation)

	// Step 3: feed the geometry sequentially
	for i, frame := range ordered {
		if msg := g.SubmitAcquisitionPixelSpacing(frame.Index, frame.PixelSpacing); msg != "" {
			l.logger.Printf("%s: %s", frame, msg)
		}
		if i > 0 {
			g.AddZSpacingOccurrence(gaps[i-1])
		}
	}

	mixedCount := 0
	for i, m := range mixed {
		if m {
			mixedCount++
			l.logger.Printf("%s: orientation differs from the series", ordered[i])
		}
	}

	return &Result{
		Geometry:             g,
		Frames:               len(ordered),
		PixelSize:            g.PixelSize(),
		PixelSpacingState:    g.PixelSpacingState(),
		MostCommonSpacing:    g.MostCommonSpacing(),
		RegularSliceSpacing:  g.IsSliceSpacingRegular(),
		NegativeSliceSpacing: g.HasNegativeSliceSpacing(),
		Multiplier:           g.DimensionMultiplier(),
		Orientation:          l.comparator.Label(seriesOrientation),
		MixedOrientation:     mixedCount,
		Status:               g.Status(),
	}, nil
}

// analyzeFrames computes, for every consecutive pair, the signed distance
// along the series normal, and flags frames whose orientation differs from
// the series. Work is split across NumCores goroutines.
func (l *Loader) analyzeFrames(frames []models.Frame, seriesOrientation []float64) ([]*float64, []bool) {
	gaps := make([]*float64, len(frames)-1)
	mixed := make([]bool, len(frames))
	normal, hasNormal := geometry.Normal(seriesOrientation)

	numCores := l.params.NumCores
	if numCores < 1 {
		numCores = 1
	}
	perCore := (len(frames) + numCores - 1) / numCores

	var wg sync.WaitGroup
	for c := 0; c < numCores; c++ {
		start := c * perCore
		end := start + perCore
		if end > len(frames) {
			end = len(frames)
		}
		if start >= end {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				if len(frames[i].Orientation) == 6 && len(seriesOrientation) == 6 {
					mixed[i] = !l.comparator.SameOrientation(seriesOrientation, frames[i].Orientation)
				}
				if i == 0 || !hasNormal {
					continue
				}
				if d, ok := SliceDistance(normal, frames[i-1].Position, frames[i].Position); ok {
					gaps[i-1] = &d
				}
			}
		}(start, end)
	}
	wg.Wait()

	return gaps, mixed
}

// SliceDistance returns the signed distance from prev to cur along normal.
// ok is false when either position does not have 3 values.
func SliceDistance(normal r3.Vec, prev, cur []float64) (float64, bool) {
	if len(prev) != 3 || len(cur) != 3 {
		return 0, false
	}
	d := r3.Vec{X: cur[0] - prev[0], Y: cur[1] - prev[1], Z: cur[2] - prev[2]}
	return r3.Dot(normal, d), true
}
