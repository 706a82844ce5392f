// Package geometry resolves the sampling geometry of a volume built from a
// stack of frames: the dimension multiplier handed to the texture builder and
// the orientation tests used between reformatted views.
package geometry

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Normalize returns the dimension multiplier for the given x, y and z spacing.
//
// The texture model has X and Y swapped relative to DICOM, so the first two
// components are exchanged. All components are divided by ySp, the main
// dimension of the texture, so best-fit keeps working. If any spacing is not
// positive (or is NaN) the identity multiplier (1, 1, 1) is returned.
func Normalize(xSp, ySp, zSp float64) mgl64.Vec3 {
	if !(xSp > 0 && ySp > 0 && zSp > 0) {
		return mgl64.Vec3{1, 1, 1}
	}

	ref := ySp
	return mgl64.Vec3{ySp / ref, xSp / ref, zSp / ref}
}

// ScaleMatrix returns the homogeneous scale transform for a dimension
// multiplier, as consumed by the texture renderer.
func ScaleMatrix(multiplier mgl64.Vec3) mgl64.Mat4 {
	return mgl64.Scale3D(multiplier.X(), multiplier.Y(), multiplier.Z())
}
