package preflight

import (
	"context"
	"log/slog"

	"paperarchive/internal/config"
	"paperarchive/internal/journal"
	"paperarchive/internal/services/escl"
	"paperarchive/internal/services/paperless"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config, logger *slog.Logger) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckSecret(cfg))
	results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))
	if cfg.Paths.OutputDir != "" {
		results = append(results, CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir))
	}
	results = append(results, CheckJournal(ctx, cfg.JournalPath()))

	if cfg.Scanner.Host != "" {
		client, err := escl.NewConfigured(cfg, logger)
		if err != nil {
			results = append(results, Result{Name: scannerCheck, Detail: err.Error()})
		} else {
			results = append(results, CheckScanner(ctx, client, cfg.Scanner.Source))
		}
	}

	if cfg.Paperless.Endpoint != "" {
		client, err := paperless.NewConfigured(cfg, logger)
		if err != nil {
			results = append(results, Result{Name: paperlessCheck, Detail: err.Error()})
		} else {
			results = append(results, CheckPaperless(ctx, client))
		}
	}

	return results
}

// Passed reports whether every result passed.
func Passed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}

// CheckJournal opens the journal at path and runs its integrity check.
func CheckJournal(ctx context.Context, path string) Result {
	const name = "Journal"
	store, err := journal.OpenPath(path)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	defer store.Close()
	if err := store.CheckHealth(ctx); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: path}
}
