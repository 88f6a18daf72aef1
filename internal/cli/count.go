package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/vietkubers/quest-count/internal/config"
	"github.com/vietkubers/quest-count/internal/counter"
	"github.com/vietkubers/quest-count/internal/logger"
	"github.com/vietkubers/quest-count/internal/participant"
	"github.com/vietkubers/quest-count/internal/ranking"
	"github.com/vietkubers/quest-count/internal/report"
	"github.com/vietkubers/quest-count/internal/roster"
	"github.com/vietkubers/quest-count/internal/scraper"
	"github.com/vietkubers/quest-count/internal/storage"
)

// runCount is the main command logic
func runCount(cmd *cobra.Command, opts *options, args []string) error {
	format, err := parseFormat(opts.format)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	setupLogger(cfg, opts.verbose, cmd.ErrOrStderr())
	defer func() { _ = logger.Default().Sync() }()
	logger.ResetMetrics()

	rules, err := cfg.Rules()
	if err != nil {
		return fmt.Errorf("building rules: %w", err)
	}
	locations := cfg.LocationMatcher()

	// Initialize storage first so a bad data dir fails before any fetching
	store, err := storage.New(cfg.Output.DataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	var input string
	if len(args) > 0 {
		input = args[0]
	} else {
		input = cfg.Roster.DownloadPath
		logger.Info("Downloading roster", logger.Fields{"url": cfg.DownloadURL(), "dest": input})
		if err := roster.Download(ctx, nil, cfg.DownloadURL(), input); err != nil {
			return fmt.Errorf("downloading roster: %w", err)
		}
	}

	loadStart := time.Now()
	r, err := roster.Load(input, cfg.Roster.Sheet)
	if err != nil {
		return fmt.Errorf("loading roster: %w", err)
	}
	logger.RecordTiming("roster.load", time.Since(loadStart))
	logger.SetGauge("roster.participants", float64(len(r.Participants)))
	for _, row := range r.Ignored {
		logger.IncrCounter("roster.ignored")
		logger.Warn("Ignored roster row", logger.Fields{"row": row.RowID, "reason": row.Reason, "cells": row.Cells})
	}
	for range r.Duplicates {
		logger.IncrCounter("roster.duplicates")
	}
	logger.Info("Loaded roster", logger.Fields{
		"path":         input,
		"participants": len(r.Participants),
		"ignored":      len(r.Ignored),
		"duplicates":   len(r.Duplicates),
	})

	participants := limitParticipants(r.Participants, opts.limit)

	out := cmd.OutOrStdout()
	console := report.NewConsole(out, terminalWidth(out), !opts.noDetail)

	counterOpts := []counter.Option{
		counter.WithWorkers(cfg.Fetch.Workers),
		counter.WithTimeout(cfg.GetFetchTimeout()),
		counter.WithLogger(logger.Default()),
	}
	if format == report.FormatText {
		counterOpts = append(counterOpts, counter.OnResult(console.Participant))
	}

	sc := scraper.New(
		scraper.WithTimeout(cfg.GetFetchTimeout()),
		scraper.WithUserAgent(cfg.Fetch.UserAgent),
	)
	ctr := counter.New(sc, rules, counterOpts...)

	if err := ctr.Run(ctx, participants); err != nil {
		return fmt.Errorf("counting interrupted: %w", err)
	}

	window, err := cfg.QuestWindow()
	if err != nil {
		return err
	}
	bundle := ranking.Aggregate(participants, locations, window)

	saved, err := saveResults(cfg, store, bundle, locations, input, opts.noWriteBack)
	if err != nil {
		return err
	}

	switch format {
	case report.FormatText:
		console.Result(bundle)
		console.Saved(saved...)
	default:
		if err := report.Write(out, bundle, format); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}

	if opts.verbose {
		logger.Debug("Run metrics", logger.Fields{
			"run":     logger.GetMetricsSnapshot(),
			"counter": ctr.Metrics().GetSnapshot(),
		})
	}

	return nil
}

// limitParticipants keeps the first n participants; n <= 0 keeps all
func limitParticipants(ps []*participant.Participant, n int) []*participant.Participant {
	if n <= 0 || n >= len(ps) {
		return ps
	}
	logger.Info("Limiting run", logger.Fields{"limit": n, "participants": len(ps)})
	return ps[:n]
}

// saveResults writes result.txt, the snapshot and the roster write-back, returning the paths written
func saveResults(cfg *config.Config, store *storage.Storage, bundle *ranking.Bundle, locations ranking.Locations, input string, noWriteBack bool) ([]string, error) {
	var saved []string
	start := time.Now()
	defer func() { logger.RecordTiming("report.write", time.Since(start)) }()

	if cfg.Output.TextPath != "" {
		if err := writeTextReport(cfg.Output.TextPath, bundle); err != nil {
			return nil, err
		}
		saved = append(saved, cfg.Output.TextPath)
	}

	if err := store.SaveBundle(bundle, locations); err != nil {
		return nil, fmt.Errorf("saving snapshot: %w", err)
	}
	saved = append(saved, store.Path())

	if !noWriteBack {
		if err := roster.WriteBack(input, cfg.Roster.Sheet, bundle, writeBackColumns(cfg)); err != nil {
			return nil, fmt.Errorf("writing results to roster: %w", err)
		}
		saved = append(saved, input)
	}

	logger.Info("Saved results", logger.Fields{"run_id": bundle.RunID, "paths": saved})
	return saved, nil
}

func writeTextReport(path string, bundle *ranking.Bundle) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating text report: %w", err)
	}
	if err := report.WriteText(f, bundle); err != nil {
		f.Close()
		return fmt.Errorf("writing text report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing text report: %w", err)
	}
	return nil
}

func writeBackColumns(cfg *config.Config) roster.Columns {
	return roster.Columns{
		LegalQuests: cfg.Columns.LegalQuests,
		All:         cfg.Columns.All,
		Hanoi:       cfg.Columns.Hanoi,
		Danang:      cfg.Columns.Danang,
		HCM:         cfg.Columns.HCM,
	}
}
