package font

import (
	xfont "golang.org/x/image/font"
)

// Extent is the tight pixel bounding box of a rendered string, relative to
// the draw origin on the baseline. This measured box, not the logical point
// size, is what the rasterizer records as region geometry.
type Extent struct {
	W, H int
	// OffX and OffY locate the box's top-left corner relative to the draw
	// origin. OffY is negative for glyphs that rise above the baseline.
	OffX, OffY int
}

// Measure returns the glyph extent of s under face. Strings with no ink
// (empty, whitespace-only) yield a zero extent.
func Measure(face xfont.Face, s string) Extent {
	bounds, _ := xfont.BoundString(face, s)
	if bounds.Min.X >= bounds.Max.X || bounds.Min.Y >= bounds.Max.Y {
		return Extent{}
	}
	minX := bounds.Min.X.Floor()
	minY := bounds.Min.Y.Floor()
	return Extent{
		W:    bounds.Max.X.Ceil() - minX,
		H:    bounds.Max.Y.Ceil() - minY,
		OffX: minX,
		OffY: minY,
	}
}
