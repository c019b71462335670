package geometry

import (
	"fmt"
	"image/color"
	"math"
	"reflect"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/receiptforge-project/receiptforge/layout"
)

var white = colorful.Color{R: 1, G: 1, B: 1}

func box(left, top, right, bottom float64) layout.Quad {
	return layout.Quad{
		{left, top},
		{right, top},
		{right, bottom},
		{left, bottom},
	}
}

func TestTransformZeroAngleOnlyPads(t *testing.T) {
	img := imaging.New(100, 200, color.White)
	regions := []layout.TextRegion{
		{Text: "Milk", Box: box(10, 20, 60, 40), Tag: "item"},
	}

	rotated, got := Transform(img, regions, 0, white)

	if b := rotated.Bounds(); b.Dx() != 100 || b.Dy() != 200 {
		t.Errorf("zero angle changed canvas to %dx%d", b.Dx(), b.Dy())
	}
	want := box(10-BOX_PADDING, 20-BOX_PADDING, 60+BOX_PADDING, 40+BOX_PADDING)
	if !reflect.DeepEqual(got[0].Box, want) {
		t.Errorf("box = %v, want %v", got[0].Box, want)
	}
	if got[0].Text != "Milk" || got[0].Tag != "item" {
		t.Errorf("region text/tag changed: %+v", got[0])
	}
}

func TestMapPointPreservesRadius(t *testing.T) {
	w0, h0 := 300, 600
	w1, h1 := 340, 660

	before := math.Hypot(0-float64(w0)/2, 0-float64(h0)/2)
	x, y := MapPoint(0, 0, w0, h0, w1, h1, 10)
	after := math.Hypot(x-float64(w1)/2, y-float64(h1)/2)

	if math.Abs(before-after) > 1e-9 {
		t.Errorf("radius %v became %v after mapping", before, after)
	}
}

func TestMapPointQuarterTurn(t *testing.T) {
	// A counter-clockwise quarter turn of a 300x100 canvas sends the
	// top-right corner to the new origin and the old origin to the
	// bottom-left corner.
	tests := []struct {
		x, y         float64
		wantX, wantY float64
	}{
		{300, 0, 0, 0},
		{0, 0, 0, 300},
		{300, 100, 100, 0},
	}
	for _, tt := range tests {
		x, y := MapPoint(tt.x, tt.y, 300, 100, 100, 300, 90)
		if math.Abs(x-tt.wantX) > 1e-9 || math.Abs(y-tt.wantY) > 1e-9 {
			t.Errorf("MapPoint(%v,%v) = (%v,%v), want (%v,%v)", tt.x, tt.y, x, y, tt.wantX, tt.wantY)
		}
	}
}

func TestReprojectRegionsClockwiseAxisAligned(t *testing.T) {
	regions := []layout.TextRegion{{Text: "TOTAL", Box: box(20, 30, 80, 50)}}

	got := ReprojectRegions(regions, 200, 100, 220, 130, 7)[0].Box

	if got[0][0] != got[3][0] || got[1][0] != got[2][0] {
		t.Errorf("vertical edges not aligned: %v", got)
	}
	if got[0][1] != got[1][1] || got[2][1] != got[3][1] {
		t.Errorf("horizontal edges not aligned: %v", got)
	}
	if got[0][0] >= got[1][0] || got[0][1] >= got[3][1] {
		t.Errorf("corners not clockwise from top-left: %v", got)
	}
}

func TestTransformKeepsInkInsideBoxes(t *testing.T) {
	// Empirical check of the rotation sign: paint one black block, rotate,
	// and require every dark pixel to land inside the reprojected box. A
	// flipped sign displaces the box by ~20px at this angle and fails.
	for _, angle := range []float64{10, -10} {
		t.Run(fmt.Sprintf("angle %v", angle), func(t *testing.T) {
			img := imaging.New(200, 100, color.White)
			for y := 30; y < 50; y++ {
				for x := 20; x < 60; x++ {
					img.SetNRGBA(x, y, color.NRGBA{A: 255})
				}
			}
			regions := []layout.TextRegion{{Text: "block", Box: box(20, 30, 60, 50)}}

			rotated, got := Transform(img, regions, angle, white)

			b := rotated.Bounds()
			if b.Dx() <= 200 || b.Dy() <= 100 {
				t.Fatalf("canvas did not expand: %dx%d", b.Dx(), b.Dy())
			}
			q := got[0].Box
			dark := 0
			for y := 0; y < b.Dy(); y++ {
				for x := 0; x < b.Dx(); x++ {
					if rotated.NRGBAAt(x, y).R >= 128 {
						continue
					}
					dark++
					fx, fy := float64(x), float64(y)
					if fx < q[0][0]-1 || fx > q[1][0]+1 || fy < q[0][1]-1 || fy > q[2][1]+1 {
						t.Fatalf("dark pixel (%d,%d) outside box %v", x, y, q)
					}
				}
			}
			if dark == 0 {
				t.Fatal("rotation lost the painted block")
			}
		})
	}
}

func TestUpscaleFactor(t *testing.T) {
	tests := []struct {
		width, minWidth int
		want            float64
	}{
		{350, 700, 2},
		{700, 350, 1},
		{700, 700, 1},
		{350, 0, 1},
		{0, 700, 1},
	}
	for _, tt := range tests {
		if got := UpscaleFactor(tt.width, tt.minWidth); got != tt.want {
			t.Errorf("UpscaleFactor(%d, %d) = %v, want %v", tt.width, tt.minWidth, got, tt.want)
		}
	}
}

func TestUpscaleImageAndRegions(t *testing.T) {
	img := imaging.New(100, 50, color.White)
	up := UpscaleImage(img, 2)
	if b := up.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Errorf("upscaled to %dx%d, want 200x100", b.Dx(), b.Dy())
	}

	regions := []layout.TextRegion{{Text: "x", Box: box(10, 5, 20, 15)}}
	scaled := ScaleRegions(regions, 2)
	if want := box(20, 10, 40, 30); !reflect.DeepEqual(scaled[0].Box, want) {
		t.Errorf("scaled box = %v, want %v", scaled[0].Box, want)
	}

	same := ScaleRegions(regions, 1)
	if !reflect.DeepEqual(same, regions) {
		t.Error("factor 1 should leave regions untouched")
	}
}
