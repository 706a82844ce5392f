package geometry

import (
	"log"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"mprgeom/internal/models"
	"mprgeom/pkg/spacing"
)

// Status summarizes how trustworthy the geometry of a series is.
type Status int

const (
	// Regular means a single pixel spacing and a single slice spacing
	Regular Status = iota

	// Variable means pixel or slice spacing changes across the series
	Variable

	// Unknown means some frame lacked usable spacing information
	Unknown
)

func (s Status) String() string {
	switch s {
	case Variable:
		return "variable"
	case Unknown:
		return "unknown"
	default:
		return "regular"
	}
}

// TextureGeometry gathers the geometric information of a series while it is
// loaded into a texture: pixel spacing of every frame, the distances between
// consecutive frames and the orientation of the series.
//
// Frames are fed once each during loading; afterwards the geometry is read
// only. All methods are safe for concurrent use.
type TextureGeometry struct {
	pixels *spacing.Accumulator
	slices *spacing.Histogram

	mu          sync.RWMutex
	orientation []float64
}

// NewTextureGeometry creates an empty geometry. logger receives new slice
// spacing buckets; nil means log.Default().
func NewTextureGeometry(logger *log.Logger) *TextureGeometry {
	return &TextureGeometry{
		pixels: spacing.NewAccumulator(),
		slices: spacing.NewHistogram(logger),
	}
}

// SubmitAcquisitionPixelSpacing feeds the pixel spacing of the frame at place.
// Returns a message useful for logging, or "".
func (g *TextureGeometry) SubmitAcquisitionPixelSpacing(place int, pixSpacing []float64) string {
	return g.pixels.Submit(place, pixSpacing)
}

// AcquisitionPixelSpacing returns the first pixel spacing of the acquisition
// plane. It may not hold for the entire volume: check PixelSpacingState.
func (g *TextureGeometry) AcquisitionPixelSpacing() (models.PixelSpacing, bool) {
	return g.pixels.Spacing()
}

// AcquisitionPixelSpacingAt returns the pixel spacing submitted for place
func (g *TextureGeometry) AcquisitionPixelSpacingAt(place int) ([]float64, bool) {
	return g.pixels.SpacingAt(place)
}

// PixelSpacingState returns the resolution state of the pixel spacing
func (g *TextureGeometry) PixelSpacingState() spacing.State {
	return g.pixels.State()
}

// IsVariablePixelSpacing reports whether frames disagree on pixel spacing
func (g *TextureGeometry) IsVariablePixelSpacing() bool {
	return g.pixels.IsVariable()
}

// IsUnknownPixelSpacing reports whether a frame lacked pixel spacing
func (g *TextureGeometry) IsUnknownPixelSpacing() bool {
	return g.pixels.IsUnknown()
}

// PixelSpacingUnit is Millimeter once a pixel spacing is known
func (g *TextureGeometry) PixelSpacingUnit() models.Unit {
	return g.pixels.Unit()
}

// PixelSize returns the first pixel spacing with its unit
func (g *TextureGeometry) PixelSize() models.PixelSize {
	return g.pixels.PixelSize()
}

// AddZSpacingOccurrence records the distance between two consecutive frames.
// nil records an unknown distance.
func (g *TextureGeometry) AddZSpacingOccurrence(space *float64) {
	g.slices.AddOccurrence(space)
}

// MostCommonSpacing returns the most frequent slice spacing, possibly negative
func (g *TextureGeometry) MostCommonSpacing() float64 {
	return g.slices.MostCommonSpacing()
}

// IsSliceSpacingRegular reports whether the series has a known and regular
// slice spacing.
func (g *TextureGeometry) IsSliceSpacingRegular() bool {
	return g.slices.IsRegular()
}

// HasNegativeSliceSpacing reports whether any slice spacing was negative
func (g *TextureGeometry) HasNegativeSliceSpacing() bool {
	return g.slices.HasNegative()
}

// DimensionMultiplier calculates the texture dimension multiplier from the
// first pixel spacing and the most common distance between frames.
func (g *TextureGeometry) DimensionMultiplier() mgl64.Vec3 {
	pixSp, ok := g.pixels.Spacing()
	if !ok {
		pixSp = models.PixelSpacing{1, 1}
	}
	zSp := g.slices.MostCommonSpacing()
	return Normalize(pixSp[0], pixSp[1], math.Abs(zSp))
}

// SetOrientationPatient stores the orientation of the original series. It is
// only valid with 6 values; pass a shorter slice to invalidate it.
func (g *TextureGeometry) SetOrientationPatient(orientation []float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if orientation == nil {
		g.orientation = nil
		return
	}
	g.orientation = append([]float64(nil), orientation...)
}

// OrientationPatient returns a copy of the series orientation, or nil
func (g *TextureGeometry) OrientationPatient() []float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.orientation == nil {
		return nil
	}
	return append([]float64(nil), g.orientation...)
}

// Status summarizes pixel and slice spacing for warning banners. A series of
// several frames without any recorded distance is Unknown; a single frame is
// Regular.
func (g *TextureGeometry) Status() Status {
	switch {
	case g.pixels.IsUnknown() || g.slices.HasUnknown():
		return Unknown
	case g.pixels.Frames() > 1 && g.slices.Total() == 0:
		return Unknown
	case g.pixels.IsVariable() || g.slices.Buckets() > 1:
		return Variable
	}
	return Regular
}
