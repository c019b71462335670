package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/google/uuid"

	"github.com/receiptforge-project/receiptforge/effect"
	"github.com/receiptforge-project/receiptforge/extract"
	"github.com/receiptforge-project/receiptforge/geometry"
	"github.com/receiptforge-project/receiptforge/layout"
	"github.com/receiptforge-project/receiptforge/style"
)

const (
	imagesDir      = "images"
	annotationsDir = "annotations"
	bboxesDir      = "bboxes"
	metadataDir    = "metadata"
	previewsDir    = "previews"
)

// document is one finished receipt, ready to persist.
type document struct {
	index   int
	id      string
	image   *image.NRGBA
	regions []layout.TextRegion
	truth   extract.GroundTruth
	meta    metadata
}

// metadata is the per-document sidecar describing how the page was made.
type metadata struct {
	ID            string   `json:"id"`
	GeneratedAt   string   `json:"generated_at"`
	Template      string   `json:"template"`
	Style         string   `json:"style"`
	StoreType     string   `json:"store_type"`
	StoreName     string   `json:"store_name"`
	TransactionID string   `json:"transaction_id"`
	Timestamp     string   `json:"timestamp"`
	ItemCount     int      `json:"item_count"`
	Subtotal      float64  `json:"subtotal"`
	Tax           float64  `json:"tax"`
	Total         float64  `json:"total"`
	Effects       []string `json:"effects"`
}

type boxEntry struct {
	BoxID int         `json:"box_id"`
	BBox  layout.Quad `json:"bbox"`
	Text  string      `json:"text"`
}

type boxFile struct {
	Results []boxEntry `json:"results"`
}

// generateOne builds document number index from scratch on its own derived
// random stream.
func (g *Generator) generateOne(index int) (document, error) {
	rng := rand.New(rand.NewSource(g.cfg.Seed ^ int64(index)))
	storeType := g.cfg.StoreTypes[index%len(g.cfg.StoreTypes)]

	tx, err := g.source.Generate(rng, storeType)
	if err != nil {
		return document{}, fmt.Errorf("transaction: %v", err)
	}

	st := style.Pick(rng)
	tpl := layout.TemplateFor(storeType).Vary(rng)
	l := layout.New(tpl, st.Background, st.Ink, st.Font)

	b := layout.NewBuilder(rng)
	b.Spacing = st.LineSpacing
	y := l.Padding + 5
	y = b.AddHeader(l, y, tx.Store)
	y = b.AddItems(l, y+10, tx.Items)
	y = b.AddTotals(l, y+10, tx)
	y = b.AddFooter(l, y+10, tx)
	y = b.AddPromotionalText(l, y)
	if needed := y + l.Padding; needed > l.Height {
		l.Height = needed
	}

	img, regions, err := g.renderer.Render(l)
	if err != nil {
		return document{}, fmt.Errorf("render: %v", err)
	}

	angle := (rng.Float64()*2 - 1) * MAX_ROTATION_DEGREES
	rotated, regions := geometry.Transform(img, regions, angle, st.Background)

	final := style.ApplyPrintArtifacts(rotated, st, rng)
	effects := []string{}
	if g.cfg.Augment {
		effects = g.cfg.Effects
		final = effect.Apply(final, effects, rng)
	}

	if f := geometry.UpscaleFactor(final.Bounds().Dx(), g.cfg.MinWidth); f != 1 {
		final = geometry.UpscaleImage(final, f)
		regions = geometry.ScaleRegions(regions, f)
	}

	return document{
		index:   index,
		id:      fmt.Sprintf("%06d", index),
		image:   final,
		regions: regions,
		truth:   extract.FromRegions(tx, regions),
		meta: metadata{
			ID:            uuid.New().String(),
			GeneratedAt:   g.Now().Format(time.RFC3339),
			Template:      tpl.Name,
			Style:         st.Name,
			StoreType:     storeType,
			StoreName:     tx.Store.Name,
			TransactionID: tx.ID,
			Timestamp:     tx.Timestamp,
			ItemCount:     len(tx.Items),
			Subtotal:      tx.Subtotal,
			Tax:           tx.Tax,
			Total:         tx.Total,
			Effects:       effects,
		},
	}, nil
}

// persist writes the document's artifacts: image, ground truth, bounding
// boxes, metadata, and the optional annotation preview.
func (g *Generator) persist(doc document) error {
	if err := g.saveImage(filepath.Join(imagesDir, doc.id+".png"), doc.image); err != nil {
		return err
	}
	if err := g.saveJSON(filepath.Join(annotationsDir, doc.id+".json"), doc.truth); err != nil {
		return err
	}
	if err := g.saveJSON(filepath.Join(bboxesDir, doc.id+".json"), formatBoxes(doc.regions)); err != nil {
		return err
	}
	if err := g.saveJSON(filepath.Join(metadataDir, doc.id+".json"), doc.meta); err != nil {
		return err
	}
	if doc.index < g.cfg.Previews {
		preview := renderPreview(doc.image, doc.regions)
		if err := g.saveImage(filepath.Join(previewsDir, doc.id+".png"), preview); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) saveJSON(relPath string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %v", relPath, err)
	}
	return g.artifacts.SaveBytes(relPath, data)
}

func (g *Generator) saveImage(relPath string, img image.Image) error {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return fmt.Errorf("failed to encode %s: %v", relPath, err)
	}
	return g.artifacts.SaveBytes(relPath, buf.Bytes())
}

// formatBoxes numbers regions by emission order and drops inkless entries.
func formatBoxes(regions []layout.TextRegion) boxFile {
	out := boxFile{Results: []boxEntry{}}
	for idx, r := range regions {
		text := strings.TrimSpace(r.Text)
		if text == "" {
			continue
		}
		out.Results = append(out.Results, boxEntry{BoxID: idx, BBox: r.Box, Text: text})
	}
	return out
}

var previewPalette = []color.NRGBA{
	{R: 230, G: 25, B: 75, A: 255},
	{R: 60, G: 180, B: 75, A: 255},
	{R: 0, G: 130, B: 200, A: 255},
	{R: 245, G: 130, B: 48, A: 255},
	{R: 145, G: 30, B: 180, A: 255},
	{R: 128, G: 128, B: 0, A: 255},
}

// renderPreview draws each region's box over a copy of the page so label
// alignment can be eyeballed.
func renderPreview(img image.Image, regions []layout.TextRegion) image.Image {
	dc := gg.NewContextForImage(img)
	dc.SetLineWidth(2)
	for i, r := range regions {
		dc.SetColor(previewPalette[i%len(previewPalette)])
		left, top := r.Box[0][0], r.Box[0][1]
		dc.DrawRectangle(left, top, r.Box[1][0]-left, r.Box[3][1]-top)
		dc.Stroke()
	}
	return dc.Image()
}
