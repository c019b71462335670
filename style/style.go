// Package style models the printer a receipt came out of: its paper and ink
// palette, typeface family, and the artifacts the print mechanism leaves on
// the page.
package style

import (
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/receiptforge-project/receiptforge/font"
)

// Style is one printer profile. PrintQuality runs 0..1 where 1 is a clean
// modern printer; InkVariation is the darkness wobble of the mechanism.
type Style struct {
	Name         string
	Background   colorful.Color
	Ink          colorful.Color
	Font         font.Category
	LineSpacing  float64
	PrintQuality float64
	InkVariation float64
}

var styles = []Style{
	{
		Name:         "thermal",
		Background:   rgb(248, 248, 248),
		Ink:          rgb(40, 40, 40),
		Font:         font.Mono,
		LineSpacing:  1.0,
		PrintQuality: 0.85,
		InkVariation: 0.05,
	},
	{
		Name:         "inkjet",
		Background:   rgb(255, 255, 255),
		Ink:          rgb(0, 0, 0),
		Font:         font.Sans,
		LineSpacing:  1.1,
		PrintQuality: 0.95,
		InkVariation: 0.02,
	},
	{
		Name:         "dot_matrix",
		Background:   rgb(252, 252, 250),
		Ink:          rgb(20, 20, 80),
		Font:         font.Mono,
		LineSpacing:  1.2,
		PrintQuality: 0.7,
		InkVariation: 0.1,
	},
	{
		Name:         "modern_pos",
		Background:   rgb(255, 255, 255),
		Ink:          rgb(0, 0, 0),
		Font:         font.Sans,
		LineSpacing:  1.05,
		PrintQuality: 1.0,
		InkVariation: 0,
	},
	{
		Name:         "carbon_copy",
		Background:   rgb(250, 248, 245),
		Ink:          rgb(60, 60, 100),
		Font:         font.Serif,
		LineSpacing:  1.15,
		PrintQuality: 0.6,
		InkVariation: 0.15,
	},
}

// Pick selects a printer profile at random.
func Pick(rng *rand.Rand) Style {
	return styles[rng.Intn(len(styles))]
}

// All lists every known printer profile.
func All() []Style {
	out := make([]Style, len(styles))
	copy(out, styles)
	return out
}

func rgb(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}
