package font

import (
	"log"
	"os"

	"github.com/golang/freetype/truetype"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Category names a typeface family the layout model can ask for.
type Category string

const (
	Mono  Category = "mono"
	Sans  Category = "sans"
	Serif Category = "serif"
)

// Source lists candidate font files for one category, best candidate first.
type Source struct {
	Category Category
	Regular  []string
	Bold     []string
}

// Catalog resolves typefaces for the rasterizer. A Catalog always returns a
// usable face: missing or unreadable assets degrade through embedded
// fallback fonts and finally a built-in bitmap face, never an error.
type Catalog interface {
	Face(cat Category, points float64, bold bool) xfont.Face
}

type weights struct {
	regular *truetype.Font
	bold    *truetype.Font
}

type catalog struct {
	fonts map[Category]weights
}

// NewCatalog loads the first readable candidate per category and weight.
// Categories left unresolved fall back to the embedded Go fonts.
func NewCatalog(sources []Source) Catalog {
	c := &catalog{fonts: map[Category]weights{}}

	for _, src := range sources {
		w := c.fonts[src.Category]
		if w.regular == nil {
			w.regular = parseFirst(src.Regular)
		}
		if w.bold == nil {
			w.bold = parseFirst(src.Bold)
		}
		c.fonts[src.Category] = w
	}

	c.fill(Mono, gomono.TTF, gomonobold.TTF)
	c.fill(Sans, goregular.TTF, gobold.TTF)
	c.fill(Serif, goregular.TTF, gobold.TTF)

	return c
}

func (c *catalog) fill(cat Category, regular, bold []byte) {
	w := c.fonts[cat]
	if w.regular == nil {
		w.regular = parseEmbedded(regular)
	}
	if w.bold == nil {
		w.bold = parseEmbedded(bold)
	}
	c.fonts[cat] = w
}

func parseFirst(paths []string) *truetype.Font {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		f, err := truetype.Parse(data)
		if err != nil {
			log.Printf("Failed to parse font %s: %v", path, err)
			continue
		}
		return f
	}
	return nil
}

func parseEmbedded(data []byte) *truetype.Font {
	f, err := truetype.Parse(data)
	if err != nil {
		return nil
	}
	return f
}

// Face returns a face for the category at the given point size. Unknown
// categories resolve through Sans; a category with no parsed font at all
// resolves to the bitmap fallback, which ignores the requested size.
func (c *catalog) Face(cat Category, points float64, bold bool) xfont.Face {
	w, ok := c.fonts[cat]
	if !ok {
		w = c.fonts[Sans]
	}
	f := w.regular
	if bold && w.bold != nil {
		f = w.bold
	}
	if f == nil {
		return basicfont.Face7x13
	}
	return truetype.NewFace(f, &truetype.Options{Size: points})
}

// DefaultSources returns the system font candidates the generator prefers
// before falling back to the embedded faces.
func DefaultSources() []Source {
	return []Source{
		{
			Category: Mono,
			Regular: []string{
				"/usr/share/fonts/truetype/liberation/LiberationMono-Regular.ttf",
				"/usr/share/fonts/truetype/dejavu/DejaVuSansMono.ttf",
			},
			Bold: []string{
				"/usr/share/fonts/truetype/liberation/LiberationMono-Bold.ttf",
				"/usr/share/fonts/truetype/dejavu/DejaVuSansMono-Bold.ttf",
			},
		},
		{
			Category: Sans,
			Regular: []string{
				"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
				"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
			},
			Bold: []string{
				"/usr/share/fonts/truetype/liberation/LiberationSans-Bold.ttf",
				"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
			},
		},
		{
			Category: Serif,
			Regular: []string{
				"/usr/share/fonts/truetype/liberation/LiberationSerif-Regular.ttf",
				"/usr/share/fonts/truetype/dejavu/DejaVuSerif.ttf",
			},
			Bold: []string{
				"/usr/share/fonts/truetype/liberation/LiberationSerif-Bold.ttf",
				"/usr/share/fonts/truetype/dejavu/DejaVuSerif-Bold.ttf",
			},
		},
	}
}
