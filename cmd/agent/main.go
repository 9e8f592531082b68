package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/SohamAjmera/Agent-Pipeline/internal/app"
	"github.com/SohamAjmera/Agent-Pipeline/internal/config"
	"github.com/SohamAjmera/Agent-Pipeline/internal/tui"
)

func main() {
	_ = godotenv.Load()

	cfgPath := flag.String("config", "config.yaml", "Path to YAML config file")
	query := flag.String("query", "", "One-shot query; omit to start the interactive TUI")
	saveTrace := flag.Bool("save-trace", false, "Persist the run trace under the results dir")
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

	if *query != "" {
		answer, _, path, err := ctrl.Run(context.Background(), *query, *saveTrace)
		if err != nil {
			log.Fatalf("run failed: %v", err)
		}
		fmt.Println(answer)
		if path != "" {
			fmt.Println("Trace saved:", path)
		}
		return
	}

	m := tui.New(ctrl, *saveTrace)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}
