package app

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"layered/internal/core/watcher"
	"layered/internal/shared/observability"
	"layered/internal/shared/util"
)

// limiterTTL is how long an idle per-file limiter is kept.
const limiterTTL = time.Minute

// Watch runs once over paths, then re-expands changed files until ctx is
// cancelled. Each file is re-run at most Watch.Rate times per second.
func (a *App) Watch(ctx context.Context, paths []string, opts RunOptions) error {
	report, err := a.Run(ctx, paths, opts)
	if err != nil {
		return err
	}
	a.emitUpdate(Update{Report: report, Timestamp: time.Now()})

	limiters := util.NewLimiterRegistry(ctx, a.Config.Watch.Rate, a.Config.Watch.Burst, limiterTTL)
	changes := make(chan []string, 16)

	w, err := watcher.NewWatcher(
		a.Config.Watch.Debounce,
		a.Config.Exclude.Dirs,
		a.Config.Exclude.Files,
		func(paths []string) {
			select {
			case changes <- paths:
			case <-ctx.Done():
			}
		},
	)
	if err != nil {
		return err
	}
	defer w.Close()
	if !a.Config.Expand.InPlace {
		w.IgnoreRoots(a.Paths.OutputDir)
	}
	if err := w.Watch(paths); err != nil {
		return err
	}
	slog.Info("watching for changes", "paths", paths)

	for {
		select {
		case <-ctx.Done():
			return nil
		case batch := <-changes:
			report, err := a.HandleChanges(ctx, batch, limiters, opts)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			}
			a.emitUpdate(Update{Report: report, Trigger: batch, Timestamp: time.Now()})
		}
	}
}

// HandleChanges re-expands the changed files. Removed files are dropped
// from the tracked results.
func (a *App) HandleChanges(ctx context.Context, paths []string, limiters *util.LimiterRegistry, opts RunOptions) (*Report, error) {
	start := time.Now()
	report := &Report{}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			a.forget(path)
			slog.Debug("source removed", "path", path)
			continue
		}

		if limiters != nil {
			waited, err := limiters.Get(path).Throttle(ctx)
			if err != nil {
				return nil, err
			}
			if waited {
				observability.WatchRunsThrottledTotal.Inc()
			}
		}

		res, err := a.ProcessFile(ctx, path)
		if err != nil {
			slog.Warn("failed to process file", "path", path, "error", err)
			report.Errors = append(report.Errors, FileError{Path: path, Err: err})
			continue
		}
		if opts.Write && !res.Skipped {
			if err := a.WriteResult(res); err != nil {
				return nil, err
			}
		}
		a.remember(res)
		report.add(res)
	}

	// Artifacts cover every tracked file, not only this batch.
	if opts.Artifacts {
		if err := a.WriteArtifacts(a.trackedReport()); err != nil {
			return nil, err
		}
	}
	report.Duration = time.Since(start)
	return report, nil
}
