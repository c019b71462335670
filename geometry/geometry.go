// Package geometry keeps text regions aligned with the page when the canvas
// is rotated or rescaled after rasterization.
package geometry

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/receiptforge-project/receiptforge/layout"
	"github.com/receiptforge-project/receiptforge/pkg/utils"
)

// BOX_PADDING is added on every side of a reprojected box to absorb the
// anti-aliasing fringe the rotation resampler smears across glyph edges.
const BOX_PADDING = 2.0

// Transform rotates img by angle degrees counter-clockwise, expanding the
// canvas to fit and filling the revealed corners with bg, then rewrites every
// region box in the coordinate space of the new canvas.
func Transform(img image.Image, regions []layout.TextRegion, angle float64, bg colorful.Color) (*image.NRGBA, []layout.TextRegion) {
	src := img.Bounds()
	rotated := imaging.Rotate(img, angle, bg)
	dst := rotated.Bounds()
	return rotated, ReprojectRegions(regions, src.Dx(), src.Dy(), dst.Dx(), dst.Dy(), angle)
}

// MapPoint follows a pixel of a w0×h0 canvas onto the w1×h1 canvas produced
// by rotating it angle degrees counter-clockwise with expansion. The y axis
// points down, so the viewer's counter-clockwise is a clockwise turn in
// coordinate space; the negated angle accounts for that.
func MapPoint(x, y float64, w0, h0, w1, h1 int, angle float64) (float64, float64) {
	sin, cos := math.Sincos(-angle * math.Pi / 180)
	dx := x - float64(w0)/2
	dy := y - float64(h0)/2
	return dx*cos - dy*sin + float64(w1)/2,
		dx*sin + dy*cos + float64(h1)/2
}

type span struct {
	minX, minY, maxX, maxY float64
}

// ReprojectRegions maps every box corner through the rotation and replaces
// each quad with the axis-aligned bounds of its mapped corners, padded by
// BOX_PADDING per side. Corners come out clockwise from the top left. The
// padding may push a box up to BOX_PADDING outside the canvas; boxes are
// returned unclamped.
func ReprojectRegions(regions []layout.TextRegion, w0, h0, w1, h1 int, angle float64) []layout.TextRegion {
	return utils.Map(regions, func(r layout.TextRegion) layout.TextRegion {
		s := utils.Reduce(r.Box[:], func(acc span, corner [2]float64) span {
			x, y := MapPoint(corner[0], corner[1], w0, h0, w1, h1, angle)
			return span{
				minX: math.Min(acc.minX, x),
				minY: math.Min(acc.minY, y),
				maxX: math.Max(acc.maxX, x),
				maxY: math.Max(acc.maxY, y),
			}
		}, span{minX: math.Inf(1), minY: math.Inf(1), maxX: math.Inf(-1), maxY: math.Inf(-1)})

		r.Box = layout.Quad{
			{s.minX - BOX_PADDING, s.minY - BOX_PADDING},
			{s.maxX + BOX_PADDING, s.minY - BOX_PADDING},
			{s.maxX + BOX_PADDING, s.maxY + BOX_PADDING},
			{s.minX - BOX_PADDING, s.maxY + BOX_PADDING},
		}
		return r
	})
}
