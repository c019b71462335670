package layout

import (
	"math/rand"

	"github.com/receiptforge-project/receiptforge/font"
	"github.com/receiptforge-project/receiptforge/txn"
)

// Template is one of the fixed receipt archetypes. Width and height are the
// nominal 1x canvas size; height is a minimum, the pipeline grows it to fit
// the laid-out content.
type Template struct {
	Name    string
	Width   int
	Height  int
	Padding int
	Font    font.Category
}

var templates = map[string]Template{
	txn.StoreGrocery:    {Name: "grocery", Width: 350, Height: 800, Padding: 20, Font: font.Mono},
	txn.StoreRestaurant: {Name: "restaurant", Width: 300, Height: 700, Padding: 20, Font: font.Sans},
	txn.StoreRetail:     {Name: "retail", Width: 320, Height: 750, Padding: 20, Font: font.Sans},
}

// Widths and margins observed on common thermal and POS printer stock.
var (
	widthPool  = []int{280, 300, 320, 350, 380, 400}
	marginPool = []int{15, 20, 25, 30}
)

// TemplateFor returns the archetype for a store type. Unknown types get the
// grocery archetype.
func TemplateFor(storeType string) Template {
	if tpl, ok := templates[storeType]; ok {
		return tpl
	}
	return templates[txn.StoreGrocery]
}

// Vary rolls the per-document paper width and margin variation.
func (t Template) Vary(rng *rand.Rand) Template {
	t.Width = widthPool[rng.Intn(len(widthPool))]
	t.Padding = marginPool[rng.Intn(len(marginPool))]
	return t
}
