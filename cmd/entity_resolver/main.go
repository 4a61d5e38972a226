package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/veridata/go-entity-resolver/api"
	"github.com/veridata/go-entity-resolver/config"
	"github.com/veridata/go-entity-resolver/internal/jobs"
	"github.com/veridata/go-entity-resolver/internal/loader"
	"github.com/veridata/go-entity-resolver/internal/report"
	"github.com/veridata/go-entity-resolver/internal/resolver"
	"github.com/veridata/go-entity-resolver/store"
)

const defaultWorkers = 4

func main() {
	// Define command-line flags
	var (
		help       = flag.Bool("help", false, "Show help message")
		version    = flag.Bool("version", false, "Show version information")
		configPath = flag.String("config", "config/config.json", "Path to the JSON configuration file")
		inputPath  = flag.String("input", "", "Override input records CSV path")
		refPath    = flag.String("reference", "", "Override reference set CSV path")
		outputDir  = flag.String("output", "", "Override output directory")
		strong     = flag.Float64("strong", -1, "Override 'strong' threshold (Matched cutoff)")
		review     = flag.Float64("review", -1, "Override 'review' threshold (Needs Review cutoff)")
		nameFloor  = flag.Float64("name-floor", -1, "Override minimum name similarity hard floor")
		workers    = flag.Int("workers", defaultWorkers, "Worker count for parallel resolution (1 = sequential)")
		serve      = flag.Bool("serve", false, "Start the HTTP API instead of running the pipeline once")
		port       = flag.String("port", "8080", "Port to run the server on (with --serve)")
		dataDir    = flag.String("data-dir", "./resolver_data", "Directory for persisted server state (with --serve)")
	)

	flag.Parse()

	// Handle help flag
	if *help {
		fmt.Printf("Entity Resolver - supplier record linkage with data-quality checks\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s                                  # Run the pipeline with config/config.json\n", os.Args[0])
		fmt.Printf("  %s --input data/other.csv --strong 0.8\n", os.Args[0])
		fmt.Printf("  %s --serve --port 9000              # Start the HTTP API\n", os.Args[0])
		return
	}

	// Handle version flag
	if *version {
		fmt.Printf("Entity Resolver v1.0.0\n")
		fmt.Printf("Record linkage, quality flagging, and decision reporting\n")
		return
	}

	// Load configuration and apply CLI overrides before validation, so an
	// override can both break and fix a config file.
	cfg := config.Default()
	if _, err := os.Stat(*configPath); err == nil {
		loaded, err := config.ReadFile(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	} else {
		log.Printf("Config file %s not found, using defaults", *configPath)
	}

	if *inputPath != "" {
		cfg.Paths.Input = *inputPath
	}
	if *refPath != "" {
		cfg.Paths.Reference = *refPath
	}
	if *outputDir != "" {
		cfg.Paths.Output = *outputDir
	}
	if *strong >= 0 {
		cfg.Thresholds.Strong = *strong
	}
	if *review >= 0 {
		cfg.Thresholds.Review = *review
	}
	if *nameFloor >= 0 {
		cfg.Thresholds.NameHardFloor = *nameFloor
	}

	// Configuration errors are fatal before any row is processed.
	if err := cfg.Finalize(); err != nil {
		log.Fatalf("Configuration rejected: %v", err)
	}

	if *serve {
		runServer(cfg, *port, *dataDir)
		return
	}

	runPipeline(cfg, *workers)
}

func runPipeline(cfg config.Config, workers int) {
	inputs, err := loader.LoadInputRecords(cfg.Paths.Input)
	if err != nil {
		log.Fatalf("Failed to load input records: %v", err)
	}
	refs, err := loader.LoadReferenceRecords(cfg.Paths.Reference)
	if err != nil {
		log.Fatalf("Failed to load reference set: %v", err)
	}
	log.Printf("Loaded %d input rows and %d reference records", len(inputs), len(refs))

	svc, err := resolver.NewService(cfg, store.NewReferenceStore(refs))
	if err != nil {
		log.Fatalf("Failed to create resolver: %v", err)
	}

	result, err := svc.ResolveParallel(context.Background(), inputs, workers)
	if err != nil {
		log.Fatalf("Resolution failed: %v", err)
	}

	if err := loader.ExportDecisions(result.Records, cfg.Paths.Output); err != nil {
		log.Fatalf("Failed to export decisions: %v", err)
	}

	summary := report.Summarize(result.Records)
	if err := loader.WriteRunReport(summary, cfg.Paths.Output); err != nil {
		log.Fatalf("Failed to write run report: %v", err)
	}

	fmt.Println("[OK] Pipeline finished. Outputs written to:", cfg.Paths.Output)
	fmt.Println("      Summary:")
	for _, line := range report.RenderReport(summary) {
		fmt.Println("      ", line)
	}
}

func runServer(cfg config.Config, port, dataDir string) {
	refs := store.NewReferenceStore(nil)
	refGobPath := filepath.Join(dataDir, "reference_set.gob")
	if err := api.LoadPersistedReference(refGobPath, refs); err != nil {
		log.Printf("Warning: could not load persisted reference set: %v", err)
	}
	if cfg.Paths.Reference != "" && refs.Len() == 0 {
		records, err := loader.LoadReferenceRecords(cfg.Paths.Reference)
		if err != nil {
			log.Printf("Warning: could not load reference CSV %s: %v", cfg.Paths.Reference, err)
		} else {
			refs.Replace(records)
		}
	}
	log.Printf("Reference set loaded: %d records", refs.Len())

	runManager := jobs.NewManager(defaultWorkers)
	runManager.Start()
	defer runManager.Stop()

	router := gin.Default()
	api.SetupRoutes(router, api.NewAPI(cfg, refs, runManager, refGobPath))

	log.Printf("Starting server on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
