package geometry

import (
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/receiptforge-project/receiptforge/layout"
	"github.com/receiptforge-project/receiptforge/pkg/utils"
)

// UpscaleFactor returns the multiplier that brings width up to minWidth.
// Images already at or above minWidth are left alone; the factor is never
// below 1, so this path only ever enlarges.
func UpscaleFactor(width, minWidth int) float64 {
	if width <= 0 || minWidth <= 0 || width >= minWidth {
		return 1
	}
	return float64(minWidth) / float64(width)
}

// UpscaleImage resizes img by factor with Lanczos resampling.
func UpscaleImage(img image.Image, factor float64) *image.NRGBA {
	if factor == 1 {
		return imaging.Clone(img)
	}
	b := img.Bounds()
	w := int(math.Round(float64(b.Dx()) * factor))
	h := int(math.Round(float64(b.Dy()) * factor))
	return imaging.Resize(img, w, h, imaging.Lanczos)
}

// ScaleRegions multiplies every box coordinate by factor.
func ScaleRegions(regions []layout.TextRegion, factor float64) []layout.TextRegion {
	if factor == 1 {
		return regions
	}
	return utils.Map(regions, func(r layout.TextRegion) layout.TextRegion {
		r.Box = r.Box.Scale(factor)
		return r
	})
}
