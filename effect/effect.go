// Package effect applies photographic perturbations to a finished page:
// sensor noise, focus blur, exposure shifts, creases and stains. Effects are
// strictly non-geometric; text never moves under them.
package effect

import (
	"image"
	"image/color"
	"log"
	"math"
	"math/rand"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// NOISE_SIGMA is the standard deviation of the additive pixel noise, in
// 8-bit channel units (1% of full scale).
const NOISE_SIGMA = 2.55

// FOLD_CHANCE and STAIN_CHANCE gate the two blemish effects per document.
const (
	FOLD_CHANCE  = 0.3
	STAIN_CHANCE = 0.15
)

// Default lists the canonical augmentation chain in application order.
func Default() []string {
	return []string{"noise", "blur", "brightness", "contrast", "fold", "stain"}
}

// Apply runs the named effects over img in order, drawing every parameter
// from rng. Unknown names are logged and skipped. The canvas size never
// changes.
func Apply(img image.Image, names []string, rng *rand.Rand) *image.NRGBA {
	out := imaging.Clone(img)
	for _, name := range names {
		switch name {
		case "noise":
			applyNoise(out, rng)
		case "blur":
			out = imaging.Clone(blur.Gaussian(out, rng.Float64()*0.25))
		case "brightness":
			out = imaging.Clone(adjust.Brightness(out, rng.Float64()*0.3-0.15))
		case "contrast":
			out = imaging.Clone(adjust.Contrast(out, rng.Float64()*0.2-0.1))
		case "fold":
			applyFold(out, rng)
		case "stain":
			applyStain(out, rng)
		default:
			log.Printf("Unknown effect: %s", name)
		}
	}
	return out
}

func applyNoise(img *image.NRGBA, rng *rand.Rand) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			px := img.NRGBAAt(x, y)
			px.R = clamp8(float64(px.R) + rng.NormFloat64()*NOISE_SIGMA)
			px.G = clamp8(float64(px.G) + rng.NormFloat64()*NOISE_SIGMA)
			px.B = clamp8(float64(px.B) + rng.NormFloat64()*NOISE_SIGMA)
			img.SetNRGBA(x, y, px)
		}
	}
}

// A fold is a light crease line with slightly darkened paper on both sides,
// horizontal or vertical, somewhere in the middle 60% of the page.
func applyFold(img *image.NRGBA, rng *rand.Rand) {
	if rng.Float64() >= FOLD_CHANCE {
		return
	}
	b := img.Bounds()
	crease := color.NRGBA{R: 200, G: 200, B: 200, A: 255}
	if rng.Intn(2) == 0 {
		y := b.Min.Y + int((0.2+0.6*rng.Float64())*float64(b.Dy()))
		for x := b.Min.X; x < b.Max.X; x++ {
			blendAt(img, x, y, crease, 0.4)
			for _, off := range []int{-2, -1, 1, 2} {
				darkenAt(img, x, y+off, 0.95)
			}
		}
	} else {
		x := b.Min.X + int((0.2+0.6*rng.Float64())*float64(b.Dx()))
		for y := b.Min.Y; y < b.Max.Y; y++ {
			blendAt(img, x, y, crease, 0.4)
			for _, off := range []int{-2, -1, 1, 2} {
				darkenAt(img, x+off, y, 0.95)
			}
		}
	}
}

// A stain is a translucent coffee-brown disc with a soft edge.
func applyStain(img *image.NRGBA, rng *rand.Rand) {
	if rng.Float64() >= STAIN_CHANCE {
		return
	}
	b := img.Bounds()
	cx := b.Min.X + rng.Intn(max(1, b.Dx()))
	cy := b.Min.Y + rng.Intn(max(1, b.Dy()))
	radius := 20 + rng.Float64()*40
	brown := color.NRGBA{R: 139, G: 90, B: 43, A: 255}

	r := int(math.Ceil(radius))
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			if x < b.Min.X || x >= b.Max.X || y < b.Min.Y || y >= b.Max.Y {
				continue
			}
			dist := math.Hypot(float64(x-cx), float64(y-cy))
			if dist > radius {
				continue
			}
			blendAt(img, x, y, brown, 0.3*(1-dist/radius))
		}
	}
}

func blendAt(img *image.NRGBA, x, y int, c color.NRGBA, t float64) {
	if !image.Pt(x, y).In(img.Bounds()) {
		return
	}
	px := img.NRGBAAt(x, y)
	base, okBase := colorful.MakeColor(px)
	over, okOver := colorful.MakeColor(c)
	if !okBase || !okOver {
		return
	}
	r, g, b := base.BlendRgb(over, t).Clamped().RGB255()
	img.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: px.A})
}

func darkenAt(img *image.NRGBA, x, y int, factor float64) {
	if !image.Pt(x, y).In(img.Bounds()) {
		return
	}
	px := img.NRGBAAt(x, y)
	px.R = uint8(float64(px.R) * factor)
	px.G = uint8(float64(px.G) * factor)
	px.B = uint8(float64(px.B) * factor)
	img.SetNRGBA(x, y, px)
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
