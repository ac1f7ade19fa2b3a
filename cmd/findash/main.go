package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"findash/internal/config"
	"findash/internal/dashboard"
	"findash/internal/statefile"
	"findash/internal/symbols"
	"findash/internal/util"
	"findash/pkg/findash"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()
	if *configPath == "" {
		*configPath = os.Getenv("FINDASH_CONFIG")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	// The TUI owns the terminal, so logs go to a file.
	logPath := cfg.Logging.File
	if logPath == "" {
		logPath = filepath.Join(os.TempDir(), fmt.Sprintf("findash-%s.log", time.Now().Format("2006-01-02")))
	}
	logger, logFile, err := util.NewFileLogger(logPath, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	logger.Info("starting",
		"server", cfg.Server.BaseURL,
		"state_path", cfg.Storage.StatePath,
		"log_path", logPath)

	client := findash.NewClient(cfg.Server.BaseURL)
	store := statefile.NewStore(cfg.Storage.StatePath)
	chart := dashboard.ChartConfig{
		Range:     cfg.Chart.Range,
		Interval:  cfg.Chart.Interval,
		Horizon:   cfg.Chart.Horizon,
		ShowSMA20: cfg.Chart.ShowSMA20,
		ShowSMA50: cfg.Chart.ShowSMA50,
		ShowRSI:   cfg.Chart.ShowRSI,
	}

	p := tea.NewProgram(
		initialModel(client, store, symbols.Default(), chart, logger),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
