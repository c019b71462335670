package layout

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/receiptforge-project/receiptforge/font"
)

// Alignment governs how a text element's x anchor is interpreted against
// the measured text width.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

func (a Alignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// Point is a position in layout coordinate space (1x, pre-render).
type Point struct {
	X, Y int
}

// Element is one visual unit of a document. Each concrete type carries only
// the fields valid for its kind.
type Element interface {
	Pos() Point
	element()
}

// TextElement is a positioned run of text.
type TextElement struct {
	Point    Point
	Content  string
	FontSize int
	Bold     bool
	Align    Alignment
	Tag      string
}

func (e TextElement) Pos() Point { return e.Point }
func (TextElement) element()     {}

// LineElement is a horizontal rule. Width 0 means the full width between
// the layout's padding margins.
type LineElement struct {
	Point Point
	Width int
}

func (e LineElement) Pos() Point { return e.Point }
func (LineElement) element()     {}

// Symbology selects the code drawn by a BarcodeElement.
type Symbology int

const (
	Code128 Symbology = iota
	QR
)

// BarcodeElement is a machine-readable code. It renders as pixels only and
// never produces a text region.
type BarcodeElement struct {
	Point     Point
	Data      string
	Symbology Symbology
	Width     int
	Height    int
}

func (e BarcodeElement) Pos() Point { return e.Point }
func (BarcodeElement) element()     {}

// Quad is a bounding quadrilateral as four [x, y] corners in clockwise
// order starting at the top left.
type Quad [4][2]float64

// Scale returns the quad with every coordinate multiplied by f.
func (q Quad) Scale(f float64) Quad {
	var out Quad
	for i, p := range q {
		out[i] = [2]float64{p[0] * f, p[1] * f}
	}
	return out
}

// TextRegion pairs rendered text with its pixel-space bounding box. Boxes
// are axis-aligned rectangles as produced by the rasterizer; the geometry
// stage replaces them with the padded axis-aligned bounds of their rotated
// corners.
type TextRegion struct {
	Text string
	Box  Quad
	Tag  string
}

// Layout is the structured, pre-raster description of one receipt document.
// Elements are ordered; their order is both z-order and the reading order
// ground-truth heuristics scan in.
type Layout struct {
	Width, Height int
	Padding       int
	Background    colorful.Color
	Ink           colorful.Color
	Font          font.Category
	Elements      []Element
}

// New builds an empty layout from a template and a palette. An empty font
// category keeps the template's default.
func New(tpl Template, background, ink colorful.Color, cat font.Category) *Layout {
	if cat == "" {
		cat = tpl.Font
	}
	return &Layout{
		Width:      tpl.Width,
		Height:     tpl.Height,
		Padding:    tpl.Padding,
		Background: background,
		Ink:        ink,
		Font:       cat,
	}
}

// Clear drops all elements so the layout can be rebuilt for a new document.
// Builder calls only append; nothing resets implicitly.
func (l *Layout) Clear() {
	l.Elements = l.Elements[:0]
}
