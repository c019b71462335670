package pipeline

import (
	"encoding/json"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/disintegration/imaging"

	"github.com/receiptforge-project/receiptforge/font"
	"github.com/receiptforge-project/receiptforge/layout"
	"github.com/receiptforge-project/receiptforge/txn"
)

var testClock = func() time.Time {
	return time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
}

func testSource() *txn.Generator {
	src := txn.NewGenerator()
	src.Now = testClock
	return src
}

func newTestGenerator(t *testing.T, cfg Config) *Generator {
	t.Helper()
	gen, err := New(cfg, testSource(), font.NewCatalog(nil))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	gen.Now = testClock
	return gen
}

// flakySource fails one Generate call by sequence number and delegates the
// rest.
type flakySource struct {
	inner  txn.Source
	failOn int

	mu    sync.Mutex
	calls int
}

func (f *flakySource) Generate(rng *rand.Rand, storeType string) (txn.Transaction, error) {
	f.mu.Lock()
	f.calls++
	n := f.calls
	f.mu.Unlock()
	if n == f.failOn {
		return txn.Transaction{}, errors.New("synthetic failure")
	}
	return f.inner.Generate(rng, storeType)
}

func TestNewRejectsBadConfig(t *testing.T) {
	fonts := font.NewCatalog(nil)
	src := testSource()

	if _, err := New(Config{Count: 0, OutDir: t.TempDir()}, src, fonts); err == nil {
		t.Error("expected error for zero count")
	}
	if _, err := New(Config{Count: 1}, src, fonts); err == nil {
		t.Error("expected error for empty output directory")
	}
	cfg := Config{Count: 1, OutDir: t.TempDir(), StoreTypes: []string{"pharmacy"}}
	if _, err := New(cfg, src, fonts); err == nil {
		t.Error("expected error for unknown store type")
	}
}

func TestNewCreatesArtifactDirectories(t *testing.T) {
	out := t.TempDir()
	newTestGenerator(t, Config{Count: 1, OutDir: out, Previews: 1})

	for _, d := range []string{imagesDir, annotationsDir, bboxesDir, metadataDir, previewsDir} {
		if _, err := os.Stat(filepath.Join(out, d)); err != nil {
			t.Errorf("directory %s missing: %v", d, err)
		}
	}
}

func TestRunSkipsFailedDocuments(t *testing.T) {
	out := t.TempDir()
	gen := newTestGenerator(t, Config{Count: 10, OutDir: out, Seed: 5})
	gen.source = &flakySource{inner: testSource(), failOn: 4}

	summary, err := gen.Run()
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.TotalGenerated != 9 {
		t.Errorf("total_generated = %d, want 9", summary.TotalGenerated)
	}
	if len(summary.Receipts) != 9 {
		t.Fatalf("receipts = %d entries, want 9", len(summary.Receipts))
	}
	for _, id := range summary.Receipts {
		if id == "000003" {
			t.Error("failed document 000003 listed in summary")
		}
	}
	entries, err := os.ReadDir(filepath.Join(out, imagesDir))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 9 {
		t.Errorf("images on disk = %d, want 9", len(entries))
	}
}

func TestRunArtifactShapes(t *testing.T) {
	out := t.TempDir()
	gen := newTestGenerator(t, Config{Count: 1, OutDir: out, Seed: 3, Augment: true, Previews: 1})

	summary, err := gen.Run()
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.TotalGenerated != 1 || summary.Receipts[0] != "000000" {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	var truth map[string]any
	readJSON(t, filepath.Join(out, annotationsDir, "000000.json"), &truth)
	for _, key := range []string{"company", "date", "address", "total"} {
		if _, ok := truth[key]; !ok {
			t.Errorf("ground truth missing %q", key)
		}
	}
	if len(truth) != 4 {
		t.Errorf("ground truth has %d fields, want 4", len(truth))
	}

	var boxes struct {
		Results []struct {
			BoxID int          `json:"box_id"`
			BBox  [][2]float64 `json:"bbox"`
			Text  string       `json:"text"`
		} `json:"results"`
	}
	readJSON(t, filepath.Join(out, bboxesDir, "000000.json"), &boxes)
	if len(boxes.Results) == 0 {
		t.Fatal("bbox file has no results")
	}
	img, err := imaging.Open(filepath.Join(out, imagesDir, "000000.png"))
	if err != nil {
		t.Fatalf("opening image: %v", err)
	}
	w, h := float64(img.Bounds().Dx()), float64(img.Bounds().Dy())
	for i, res := range boxes.Results {
		if res.Text == "" {
			t.Errorf("result %d has empty text", i)
		}
		if len(res.BBox) != 4 {
			t.Fatalf("result %d has %d corners", i, len(res.BBox))
		}
		for _, c := range res.BBox {
			if c[0] < -3 || c[0] > w+3 || c[1] < -3 || c[1] > h+3 {
				t.Errorf("corner %v outside page %vx%v", c, w, h)
			}
		}
	}

	var meta map[string]any
	readJSON(t, filepath.Join(out, metadataDir, "000000.json"), &meta)
	for _, key := range []string{"id", "template", "style", "store_type", "effects"} {
		if _, ok := meta[key]; !ok {
			t.Errorf("metadata missing %q", key)
		}
	}

	if _, err := os.Stat(filepath.Join(out, previewsDir, "000000.png")); err != nil {
		t.Errorf("preview missing: %v", err)
	}

	var sum map[string]any
	readJSON(t, filepath.Join(out, SUMMARY_FILE), &sum)
	if sum["total_generated"].(float64) != 1 {
		t.Errorf("summary total_generated = %v", sum["total_generated"])
	}
}

func TestRunSeededJSONIsByteIdentical(t *testing.T) {
	outputs := make([][]byte, 0, 2)
	for _, workers := range []int{1, 3} {
		out := t.TempDir()
		gen := newTestGenerator(t, Config{Count: 4, OutDir: out, Seed: 77, Workers: workers, Augment: true})
		if _, err := gen.Run(); err != nil {
			t.Fatalf("Run returned error: %v", err)
		}

		var concat []byte
		for i := 0; i < 4; i++ {
			id := []string{"000000", "000001", "000002", "000003"}[i]
			for _, dir := range []string{annotationsDir, bboxesDir} {
				data, err := os.ReadFile(filepath.Join(out, dir, id+".json"))
				if err != nil {
					t.Fatalf("reading %s/%s: %v", dir, id, err)
				}
				concat = append(concat, data...)
			}
		}
		outputs = append(outputs, concat)
	}
	if string(outputs[0]) != string(outputs[1]) {
		t.Error("seeded runs produced different label JSON")
	}
}

func TestRunHonorsMinWidth(t *testing.T) {
	out := t.TempDir()
	gen := newTestGenerator(t, Config{Count: 1, OutDir: out, Seed: 9, MinWidth: 900})

	if _, err := gen.Run(); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	img, err := imaging.Open(filepath.Join(out, imagesDir, "000000.png"))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() < 900 {
		t.Errorf("image width = %d, want at least 900", img.Bounds().Dx())
	}

	var boxes struct {
		Results []struct {
			BBox [][2]float64 `json:"bbox"`
		} `json:"results"`
	}
	readJSON(t, filepath.Join(out, bboxesDir, "000000.json"), &boxes)
	w, h := float64(img.Bounds().Dx()), float64(img.Bounds().Dy())
	for _, res := range boxes.Results {
		for _, c := range res.BBox {
			if c[0] < -8 || c[0] > w+8 || c[1] < -8 || c[1] > h+8 {
				t.Errorf("corner %v outside upscaled page %vx%v", c, w, h)
			}
		}
	}
}

func TestFormatBoxesSkipsAndNumbers(t *testing.T) {
	regions := []layout.TextRegion{
		{Text: "A ", Box: layout.Quad{}},
		{Text: "   ", Box: layout.Quad{}},
		{Text: "B", Box: layout.Quad{}},
	}
	got := formatBoxes(regions)
	if len(got.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(got.Results))
	}
	if got.Results[0].BoxID != 0 || got.Results[0].Text != "A" {
		t.Errorf("first entry = %+v", got.Results[0])
	}
	if got.Results[1].BoxID != 2 || got.Results[1].Text != "B" {
		t.Errorf("second entry = %+v", got.Results[1])
	}
}

func readJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("decoding %s: %v", path, err)
	}
}
