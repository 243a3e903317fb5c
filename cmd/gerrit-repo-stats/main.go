package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/klimeurt/gerrit-repo-stats/internal/config"
	"github.com/klimeurt/gerrit-repo-stats/internal/stats"
	"github.com/robfig/cron/v3"
)

const runTimeout = 30 * time.Minute

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create collector
	collector, err := stats.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create collector: %v", err)
	}
	defer collector.Close()

	// Single-shot by default; a schedule turns this into a long-running service.
	if cfg.Schedule == "" {
		if err := runOnce(collector); err != nil {
			log.Fatalf("Export failed: %v", err)
		}
		log.Printf("Done. Output saved to: %s", cfg.CSVOutput)
		return
	}

	// Create cron scheduler
	c := cron.New()

	// Add job
	_, err = c.AddFunc(cfg.Schedule, func() {
		if err := runOnce(collector); err != nil {
			log.Printf("Export failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to add cron job: %v", err)
	}

	// Start cron scheduler
	c.Start()
	log.Printf("Cron scheduler started with schedule: %s", cfg.Schedule)

	// Run immediately on startup
	log.Println("Running initial export on startup...")
	if err := runOnce(collector); err != nil {
		log.Printf("Initial export failed: %v", err)
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down...")
	c.Stop()
}

func runOnce(collector *stats.Collector) error {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	return collector.Run(ctx)
}
