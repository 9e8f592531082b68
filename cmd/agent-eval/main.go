package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/SohamAjmera/Agent-Pipeline/internal/app"
	"github.com/SohamAjmera/Agent-Pipeline/internal/config"
	"github.com/SohamAjmera/Agent-Pipeline/internal/eval"
)

func main() {
	_ = godotenv.Load()

	cfgPath := flag.String("config", "config.yaml", "Path to YAML config file")
	queriesPath := flag.String("queries", "data/test_queries.json", "JSON array of queries to evaluate")
	quality := flag.Bool("quality", false, "Also score the saved traces into eval_quality.json")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := app.NewLogger(cfg.Debug)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	ctrl, err := app.Build(cfg, logger)
	if err != nil {
		log.Fatalf("pipeline assembly failed: %v", err)
	}

	queries, err := eval.LoadQueries(*queriesPath)
	if err != nil {
		log.Fatalf("load queries: %v", err)
	}
	records, err := eval.Evaluate(context.Background(), ctrl, queries, logger)
	if err != nil {
		log.Fatalf("evaluation failed: %v", err)
	}
	summaryPath, err := eval.WriteSummary(cfg.Paths.ResultsDir, records)
	if err != nil {
		log.Fatalf("write summary: %v", err)
	}
	fmt.Println("Saved summary:", summaryPath)

	if *quality {
		reportPath, err := eval.RunQuality(cfg.Paths.ResultsDir, cfg.Quality)
		if err != nil {
			log.Fatalf("quality scoring failed: %v", err)
		}
		fmt.Println("Saved quality report:", reportPath)
	}
}
