// Package pipeline drives receipt generation end to end: transaction
// synthesis, layout, rasterization, geometry, print artifacts, photographic
// effects, label extraction, and artifact persistence.
package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/receiptforge-project/receiptforge/effect"
	"github.com/receiptforge-project/receiptforge/font"
	"github.com/receiptforge-project/receiptforge/pkg/utils"
	"github.com/receiptforge-project/receiptforge/render"
	"github.com/receiptforge-project/receiptforge/store"
	"github.com/receiptforge-project/receiptforge/txn"
)

// MAX_ROTATION_DEGREES bounds the page skew drawn per document.
const MAX_ROTATION_DEGREES = 3.0

// PROGRESS_EVERY is the number of finished documents between progress lines.
const PROGRESS_EVERY = 10

// SUMMARY_FILE is the batch-level artifact written after a run.
const SUMMARY_FILE = "generation_summary.json"

// Config selects what a batch run produces.
type Config struct {
	// Count is the number of documents to attempt.
	Count int
	// OutDir is the dataset root; artifact subdirectories are created on it.
	OutDir string
	// Seed is the base seed. Document i draws from Seed XOR i, so any
	// document regenerates identically regardless of worker assignment.
	Seed int64
	// StoreTypes cycles per document. Empty means all known types.
	StoreTypes []string
	// Workers is the number of concurrent document builders.
	Workers int
	// Augment applies the photographic effect chain.
	Augment bool
	// Effects overrides the default augmentation chain.
	Effects []string
	// Previews renders bbox overlay images for the first N documents.
	Previews int
	// MinWidth upscales any final image narrower than this.
	MinWidth int
}

// Summary is the batch-level record of one generation run.
type Summary struct {
	TotalGenerated int      `json:"total_generated"`
	Timestamp      string   `json:"timestamp"`
	StoreTypes     []string `json:"store_types"`
	Receipts       []string `json:"receipts"`
}

// Generator runs batches. One Generator may run multiple batches; each
// document derives its own random stream, so runs never contaminate each
// other.
type Generator struct {
	cfg       Config
	source    txn.Source
	renderer  *render.Renderer
	artifacts store.Client

	// Now stamps the summary and metadata sidecars. Swappable for tests.
	Now func() time.Time
}

// New validates cfg, creates the artifact directories, and wires a
// generator around the given transaction source and font catalog.
func New(cfg Config, source txn.Source, fonts font.Catalog) (*Generator, error) {
	if cfg.Count < 1 {
		return nil, fmt.Errorf("count must be positive, got %d", cfg.Count)
	}
	if cfg.OutDir == "" {
		return nil, errors.New("output directory is required")
	}
	if len(cfg.StoreTypes) == 0 {
		cfg.StoreTypes = txn.StoreTypes()
	}
	for _, st := range cfg.StoreTypes {
		if !utils.Contains(txn.StoreTypes(), st) {
			return nil, fmt.Errorf("unknown store type %q", st)
		}
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if len(cfg.Effects) == 0 {
		cfg.Effects = effect.Default()
	}

	dirs := []string{imagesDir, annotationsDir, bboxesDir, metadataDir}
	if cfg.Previews > 0 {
		dirs = append(dirs, previewsDir)
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(cfg.OutDir, d), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s directory: %v", d, err)
		}
	}

	return &Generator{
		cfg:       cfg,
		source:    source,
		renderer:  render.New(fonts),
		artifacts: store.New(cfg.OutDir, time.Second/2),
		Now:       time.Now,
	}, nil
}

// Run generates the batch. Failed documents are logged and skipped; a
// partial batch is a valid result, not an error. The returned summary is
// also persisted to SUMMARY_FILE under the dataset root.
func (g *Generator) Run() (Summary, error) {
	log.Printf("Generating %d receipts...", g.cfg.Count)

	type result struct {
		index int
		doc   document
		err   error
	}
	jobs := make(chan int)
	results := make(chan result, g.cfg.Count)

	for w := 0; w < g.cfg.Workers; w++ {
		go func() {
			for i := range jobs {
				doc, err := g.generateOne(i)
				if err == nil {
					err = g.persist(doc)
				}
				results <- result{index: i, doc: doc, err: err}
			}
		}()
	}
	go func() {
		for i := 0; i < g.cfg.Count; i++ {
			jobs <- i
		}
		close(jobs)
	}()

	docs := make([]document, 0, g.cfg.Count)
	for i := 0; i < g.cfg.Count; i++ {
		res := <-results
		if res.err != nil {
			log.Printf("Failed to generate receipt %06d: %v", res.index, res.err)
			continue
		}
		docs = append(docs, res.doc)
		if len(docs)%PROGRESS_EVERY == 0 {
			log.Printf("Generated %d/%d receipts", len(docs), g.cfg.Count)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].index < docs[j].index })

	summary := Summary{
		TotalGenerated: len(docs),
		Timestamp:      g.Now().Format(time.RFC3339),
		StoreTypes:     g.cfg.StoreTypes,
		Receipts:       utils.Map(docs, func(d document) string { return d.id }),
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return summary, fmt.Errorf("failed to encode summary: %v", err)
	}
	if err := g.artifacts.SaveBytes(SUMMARY_FILE, data); err != nil {
		return summary, err
	}

	log.Printf("Generated %d receipts under %s", len(docs), g.cfg.OutDir)
	return summary, nil
}
