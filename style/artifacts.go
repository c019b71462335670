package style

import (
	"image"
	"image/color"
	"math/rand"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// EDGE_FADE_WIDTH is how far the thermal head's edge falloff reaches, in
// pixels from each vertical border.
const EDGE_FADE_WIDTH = 20

// ApplyPrintArtifacts stamps the page with the defects of the profile's
// print mechanism. The canvas size never changes.
func ApplyPrintArtifacts(img image.Image, s Style, rng *rand.Rand) *image.NRGBA {
	out := imaging.Clone(img)
	switch s.Name {
	case "thermal":
		applyBanding(out, s, rng)
		applyEdgeFade(out)
	case "dot_matrix":
		applyDotTexture(out, rng)
	case "carbon_copy":
		applyPressureZones(out, s, rng)
		applyGhosting(out)
	}
	if s.PrintQuality < 1 {
		applySpeckle(out, s, rng)
	}
	return out
}

// Thermal heads overheat in bands: every third row has a chance of coming
// out slightly darker across its full width.
func applyBanding(img *image.NRGBA, s Style, rng *rand.Rand) {
	b := img.Bounds()
	factor := 1 - s.InkVariation
	for y := b.Min.Y; y < b.Max.Y; y++ {
		if y%3 != 0 || rng.Float64() >= 0.1 {
			continue
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			darken(img, x, y, factor)
		}
	}
}

// Heat falls off toward the paper edges, washing the print out.
func applyEdgeFade(img *image.NRGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for i := 0; i < EDGE_FADE_WIDTH && i < b.Dx()/2; i++ {
			amount := 0.06 * (1 - float64(i)/EDGE_FADE_WIDTH)
			lighten(img, b.Min.X+i, y, amount)
			lighten(img, b.Max.X-1-i, y, amount)
		}
	}
}

// Pin printers leave a faint horizontal grain where the ribbon misses.
func applyDotTexture(img *image.NRGBA, rng *rand.Rand) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y += 4 {
		for x := b.Min.X; x < b.Max.X; x++ {
			if rng.Float64() < 0.15 {
				lighten(img, x, y, 0.1)
			}
		}
	}
}

// Uneven platen pressure makes patches of the copy strike heavier.
func applyPressureZones(img *image.NRGBA, s Style, rng *rand.Rand) {
	b := img.Bounds()
	zones := 2 + rng.Intn(3)
	for i := 0; i < zones; i++ {
		zw := 40 + rng.Intn(80)
		zh := 30 + rng.Intn(60)
		zx := b.Min.X + rng.Intn(max(1, b.Dx()-zw))
		zy := b.Min.Y + rng.Intn(max(1, b.Dy()-zh))
		for y := zy; y < zy+zh && y < b.Max.Y; y++ {
			for x := zx; x < zx+zw && x < b.Max.X; x++ {
				if img.NRGBAAt(x, y).R < 200 {
					darken(img, x, y, 1-s.InkVariation)
				}
			}
		}
	}
}

// Carbon sheets echo each stroke a couple of pixels off the original.
func applyGhosting(img *image.NRGBA) {
	src := imaging.Clone(img)
	b := img.Bounds()
	const offX, offY = 2, 1
	for y := b.Min.Y; y < b.Max.Y-offY; y++ {
		for x := b.Min.X; x < b.Max.X-offX; x++ {
			px := src.NRGBAAt(x, y)
			if px.R >= 128 {
				continue
			}
			tgt := img.NRGBAAt(x+offX, y+offY)
			if tgt.R < 200 {
				continue
			}
			img.SetNRGBA(x+offX, y+offY, blend(tgt, px, 0.25))
		}
	}
}

// Dust and roller wear speckle the page in proportion to print quality.
func applySpeckle(img *image.NRGBA, s Style, rng *rand.Rand) {
	b := img.Bounds()
	amp := (1 - s.PrintQuality) * 20
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if rng.Float64() >= 0.02 {
				continue
			}
			delta := (rng.Float64()*2 - 1) * amp
			px := img.NRGBAAt(x, y)
			px.R = clamp8(float64(px.R) + delta)
			px.G = clamp8(float64(px.G) + delta)
			px.B = clamp8(float64(px.B) + delta)
			img.SetNRGBA(x, y, px)
		}
	}
}

func darken(img *image.NRGBA, x, y int, factor float64) {
	px := img.NRGBAAt(x, y)
	px.R = uint8(float64(px.R) * factor)
	px.G = uint8(float64(px.G) * factor)
	px.B = uint8(float64(px.B) * factor)
	img.SetNRGBA(x, y, px)
}

func lighten(img *image.NRGBA, x, y int, amount float64) {
	px := img.NRGBAAt(x, y)
	px.R = clamp8(float64(px.R) + (255-float64(px.R))*amount)
	px.G = clamp8(float64(px.G) + (255-float64(px.G))*amount)
	px.B = clamp8(float64(px.B) + (255-float64(px.B))*amount)
	img.SetNRGBA(x, y, px)
}

func blend(a, b color.NRGBA, t float64) color.NRGBA {
	ca, okA := colorful.MakeColor(a)
	cb, okB := colorful.MakeColor(b)
	if !okA || !okB {
		return a
	}
	r, g, bl := ca.BlendRgb(cb, t).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: bl, A: a.A}
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
