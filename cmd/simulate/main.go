package main

import (
	"context"
	"flag"
	"fmt"
	log "log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"patientsim/internal/config"
	"patientsim/internal/dataset"
	"patientsim/internal/llm"
	"patientsim/internal/sim"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Config file path")
	doctorModel := flag.String("doctor-model", "gpt-4.1-api", "Doctor model ID")
	patientModel := flag.String("patient-model", "deepseek-api", "Patient model ID (or comma-separated list)")
	splits := flag.String("splits", "persona,info", "Comma-separated splits to process")
	limit := flag.Int("limit", 0, "Limit number of profiles per split (0 = no limit)")
	testConnection := flag.Bool("test-connection", false, "Test backend connections and exit")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	level := log.LevelInfo
	if *verbose {
		level = log.LevelDebug
	}
	log.SetDefault(log.New(log.NewTextHandler(os.Stderr, &log.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	registry := llm.NewRegistry(cfg)

	if *testConnection {
		os.Exit(probeBackends(ctx, cfg, registry))
	}

	ds, err := dataset.Load(cfg.PatientProfilePath, cfg.SplitManifestPath)
	if err != nil {
		log.Error("failed to load dataset", "error", err)
		os.Exit(1)
	}

	batch := &sim.Batch{Config: cfg, Client: registry, Dataset: ds}
	if err := batch.Run(ctx, *doctorModel, splitList(*patientModel), splitList(*splits), *limit); err != nil {
		log.Error("batch failed", "error", err)
		os.Exit(1)
	}
}

// probeBackends round-trips every configured model and reports pass/fail per
// backend. Models skipped for missing credentials count as failed. Returns
// the process exit code.
func probeBackends(ctx context.Context, cfg *config.Config, registry *llm.Registry) int {
	names := make([]string, 0, len(cfg.Models))
	for name := range cfg.Models {
		names = append(names, name)
	}
	sort.Strings(names)

	failed := 0
	for _, name := range names {
		if err := registry.TestConnection(ctx, name); err != nil {
			fmt.Printf("FAIL %s: %v\n", name, err)
			failed++
			continue
		}
		fmt.Printf("OK   %s\n", name)
	}
	if failed > 0 {
		fmt.Printf("%d of %d backends failed\n", failed, len(names))
		return 1
	}
	return 0
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
