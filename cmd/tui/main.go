package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	_ "github.com/joho/godotenv/autoload"

	"docdash/internal/config"
	"docdash/internal/dashboard"
	"docdash/internal/logging"
	"docdash/internal/repository"
	"docdash/internal/repository/memory"
	"docdash/internal/repository/remote"
	"docdash/internal/resilience"
	"docdash/internal/seed"
	"docdash/internal/service"
	"docdash/internal/tui"
)

func main() {
	apiURL := flag.String("api", "", "base URL of a docdash API; empty uses the in-process memory store")
	seedFile := flag.String("seed", "", "YAML fixture for the memory store (defaults to the built-in set)")
	fast := flag.Bool("fast", false, "disable simulated store latency")
	logFile := flag.String("log", "", "write JSON logs to this file instead of discarding them")
	flag.Parse()

	cfg := config.Load()

	// The terminal belongs to the UI, so logs never go to stdout.
	log := logging.Discard()
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			exit(err)
		}
		defer f.Close()
		log = logging.NewJSONLoggerWithWriter(f, "docdash-tui", cfg.LogLevel)
	}

	repo, err := openRepository(*apiURL, *seedFile, !*fast && cfg.Store.LatencyEnabled)
	if err != nil {
		exit(err)
	}

	svc := service.NewDocumentService(repo,
		service.WithRecencyDays(cfg.Dashboard.RecencyDays),
		service.WithLogger(log),
	)

	updates := tui.NewUpdates()
	ctrl := dashboard.New(svc, dashboard.Options{
		Debounce:        cfg.Dashboard.Debounce(),
		RecentLimit:     cfg.Dashboard.RecentLimit,
		NotificationTTL: cfg.Dashboard.NotificationTTL(),
		Refresh: resilience.Config{
			RetryMaxAttempts:    cfg.Refresh.MaxAttempts,
			RetryInitialBackoff: time.Duration(cfg.Refresh.InitialBackoffMs) * time.Millisecond,
			RetryMaxBackoff:     time.Duration(cfg.Refresh.MaxBackoffMs) * time.Millisecond,
		},
		Logger:   log,
		OnChange: updates.Push,
	})
	defer ctrl.Close()

	p := tea.NewProgram(tui.New(ctrl, updates, time.Now, cfg.Location()), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Error("tui_failed", slog.Any("error", err))
		exit(err)
	}
}

func openRepository(apiURL, seedFile string, latency bool) (repository.DocumentRepository, error) {
	if apiURL != "" {
		c, err := remote.NewClient(apiURL)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	docs, err := seed.Load(seedFile)
	if err != nil {
		return nil, err
	}
	var opts []memory.Option
	if latency {
		opts = append(opts, memory.WithLatency(memory.DefaultLatency()))
	}
	return memory.NewDocumentMemory(docs, opts...), nil
}

func exit(err error) {
	fmt.Fprintln(os.Stderr, "docdash:", err)
	os.Exit(1)
}
