package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"cycling-fitness/internal/config"
	"cycling-fitness/internal/service"
	"cycling-fitness/internal/store"
	"cycling-fitness/internal/tui"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if errors.Is(err, config.ErrNoConfig) {
		fmt.Println("No config file found. Creating example config...")
		if err := config.CreateExample(); err != nil {
			return fmt.Errorf("creating example config: %w", err)
		}
		configDir, _ := config.GetConfigDir()
		fmt.Printf("\nPlease edit the config file at:\n  %s/config.json\n\n", configDir)
		fmt.Println("Set your race, FTP goal, and pacing parameters, then run again.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Validate config
	if err := cfg.Validate(); err != nil {
		configDir, _ := config.GetConfigDir()
		fmt.Printf("Config validation failed: %v\n\n", err)
		fmt.Printf("Please edit the config file at:\n  %s/config.json\n", configDir)
		return nil
	}

	// Open database
	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	// Create services
	computeSvc := service.NewComputeService(db)
	importSvc := service.NewImportService(db, computeSvc)
	querySvc := service.NewQueryService(db, cfg)

	// Headless import mode: cycling-fitness import <file>
	if len(os.Args) > 2 && os.Args[1] == "import" {
		return runImport(importSvc, os.Args[2])
	}

	// Keep derived data fresh before the UI reads it
	if _, err := computeSvc.RecomputeLoad(time.Now()); err != nil && !errors.Is(err, service.ErrNoTrainingData) {
		return fmt.Errorf("recomputing training load: %w", err)
	}

	// Launch TUI
	app := tui.NewApp(db, cfg, querySvc, importSvc)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}

func runImport(importSvc *service.ImportService, path string) error {
	result, err := importSvc.ImportFromFile(path, time.Now())
	if err != nil {
		return fmt.Errorf("importing %s: %w", path, err)
	}

	fmt.Printf("Imported %d workouts and %d FTP tests.\n", result.WorkoutsImported, result.FTPTestsImported)
	fmt.Printf("Scored %d workouts, computed %d days of training load.\n", result.WorkoutsScored, result.DaysComputed)
	for _, e := range result.Errors {
		fmt.Printf("  skipped: %v\n", e)
	}
	return nil
}
