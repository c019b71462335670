package render

import (
	"fmt"
	"image"
	"log"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/qr"
	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/receiptforge-project/receiptforge/font"
	"github.com/receiptforge-project/receiptforge/layout"
)

const (
	// Supersampling factor for the working canvas. Glyphs are rasterized at
	// this multiple of the nominal size and downscaled with a smooth filter,
	// which keeps thin strokes from aliasing at receipt font sizes. Region
	// coordinates are divided by the same factor on the way out.
	SUPER_SAMPLE_SCALE = 2
)

// Renderer rasterizes layouts against an injected font catalog.
type Renderer struct {
	fonts font.Catalog
	scale int
}

// New returns a renderer at the standard supersampling scale.
func New(fonts font.Catalog) *Renderer {
	return &Renderer{fonts: fonts, scale: SUPER_SAMPLE_SCALE}
}

// Render rasterizes the layout and returns the final image plus one region
// per visible text element, boxes in final-image pixel space. Elements with
// no ink (empty or whitespace content) draw nothing and yield no region.
func (r *Renderer) Render(l *layout.Layout) (*image.NRGBA, []layout.TextRegion, error) {
	if l == nil || l.Width <= 0 || l.Height <= 0 {
		return nil, nil, fmt.Errorf("render: invalid canvas size")
	}

	canvasW := l.Width * r.scale
	canvasH := l.Height * r.scale
	margin := l.Padding * r.scale

	drawingContext := gg.NewContext(canvasW, canvasH)
	drawingContext.SetColor(l.Background)
	drawingContext.Clear()

	regions := make([]layout.TextRegion, 0, len(l.Elements))
	for _, el := range l.Elements {
		switch e := el.(type) {
		case layout.TextElement:
			if region, ok := r.drawText(drawingContext, l, e, margin); ok {
				regions = append(regions, region)
			}
		case layout.LineElement:
			r.drawRule(drawingContext, l, e)
		case layout.BarcodeElement:
			r.drawBarcode(drawingContext, e)
		}
	}

	img := imaging.Resize(drawingContext.Image(), l.Width, l.Height, imaging.Lanczos)

	inv := 1 / float64(r.scale)
	for i := range regions {
		regions[i].Box = regions[i].Box.Scale(inv)
	}
	return img, regions, nil
}

// drawText measures the glyph box for the (already truncated) content,
// aligns and clamps it, draws, and reports the box in scale-space
// coordinates. The measured extent, not the logical font size, decides the
// region geometry.
func (r *Renderer) drawText(dc *gg.Context, l *layout.Layout, e layout.TextElement, margin int) (layout.TextRegion, bool) {
	face := r.fonts.Face(l.Font, float64(e.FontSize*r.scale), e.Bold)
	ext := font.Measure(face, e.Content)
	if ext.W <= 0 || ext.H <= 0 {
		return layout.TextRegion{}, false
	}

	canvasW := l.Width * r.scale
	var x int
	switch e.Align {
	case layout.AlignCenter:
		x = (canvasW - ext.W) / 2
	case layout.AlignRight:
		x = canvasW - margin - ext.W
	default:
		x = e.Point.X * r.scale
	}
	// Anti-overflow clamps always win over alignment; the left margin wins
	// when the canvas is too narrow for both.
	if x+ext.W > canvasW-margin {
		x = canvasW - margin - ext.W
	}
	if x < margin {
		x = margin
	}

	top := e.Point.Y * r.scale

	dc.SetFontFace(face)
	dc.SetColor(l.Ink)
	dc.DrawString(e.Content,
		float64(x-ext.OffX),   /* shift so the ink's left edge lands on x */
		float64(top-ext.OffY), /* baseline placed so the ink's top lands on top */
	)

	fx, fy := float64(x), float64(top)
	fw, fh := float64(ext.W), float64(ext.H)
	return layout.TextRegion{
		Text: e.Content,
		Tag:  e.Tag,
		Box:  layout.Quad{{fx, fy}, {fx + fw, fy}, {fx + fw, fy + fh}, {fx, fy + fh}},
	}, true
}

func (r *Renderer) drawRule(dc *gg.Context, l *layout.Layout, e layout.LineElement) {
	width := e.Width
	if width <= 0 {
		width = l.Width - 2*l.Padding
	}
	x := float64(e.Point.X * r.scale)
	y := float64(e.Point.Y * r.scale)
	dc.SetColor(l.Ink)
	dc.SetLineWidth(float64(r.scale))
	dc.DrawLine(x, y, x+float64(width*r.scale), y)
	dc.Stroke()
}

// drawBarcode renders a machine-readable code. Codes are decoration: they
// yield no region, and an unencodable payload skips the draw instead of
// failing the document.
func (r *Renderer) drawBarcode(dc *gg.Context, e layout.BarcodeElement) {
	var (
		bc  barcode.Barcode
		err error
	)
	switch e.Symbology {
	case layout.QR:
		bc, err = qr.Encode(e.Data, qr.M, qr.Auto)
	default:
		bc, err = code128.Encode(e.Data)
	}
	if err != nil {
		log.Printf("Failed to encode barcode: %v", err)
		return
	}

	bc, err = barcode.Scale(bc, e.Width*r.scale, e.Height*r.scale)
	if err != nil {
		log.Printf("Failed to scale barcode: %v", err)
		return
	}
	dc.DrawImage(bc, e.Point.X*r.scale, e.Point.Y*r.scale)
}
