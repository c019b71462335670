package main

import (
	"flag"
	"log"
	"strings"
	"time"

	"github.com/ridge/must/v2"

	"github.com/receiptforge-project/receiptforge/font"
	"github.com/receiptforge-project/receiptforge/pipeline"
	"github.com/receiptforge-project/receiptforge/pkg/env"
	"github.com/receiptforge-project/receiptforge/txn"
)

func main() {
	env.Load()

	var cfg pipeline.Config
	flag.IntVar(&cfg.Count, "count", 10, "number of receipts to generate")
	flag.StringVar(&cfg.OutDir, "out", env.StringVariable("RECEIPTFORGE_OUT", "./data/synthetic"), "dataset output directory")
	flag.Int64Var(&cfg.Seed, "seed", time.Now().UnixNano(), "base random seed; document i draws from seed XOR i")
	storeTypes := flag.String("store-types", "", "comma-separated store types (default: all)")
	flag.IntVar(&cfg.Workers, "workers", 1, "concurrent document builders")
	noAugment := flag.Bool("no-augment", false, "skip the photographic effect chain")
	flag.IntVar(&cfg.Previews, "preview", 0, "write bbox overlay previews for the first N documents")
	flag.IntVar(&cfg.MinWidth, "min-width", 0, "upscale final images narrower than this many pixels")
	flag.Parse()

	cfg.Augment = !*noAugment
	if *storeTypes != "" {
		for _, s := range strings.Split(*storeTypes, ",") {
			cfg.StoreTypes = append(cfg.StoreTypes, strings.TrimSpace(s))
		}
	}

	gen := must.OK1(pipeline.New(cfg, txn.NewGenerator(), font.NewCatalog(font.DefaultSources())))

	summary, err := gen.Run()
	if err != nil {
		log.Fatalf("Failed to finish batch: %v", err)
	}
	log.Printf("Dataset ready: %d receipts under %s", summary.TotalGenerated, cfg.OutDir)
}
