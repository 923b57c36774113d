package app

import (
	"sync"
	"time"

	"github.com/gobwas/glob"

	"layered/internal/core/app/helpers"
	"layered/internal/core/config"
	"layered/internal/engine/layers"
	"layered/internal/engine/parser"
	"layered/internal/shared/util"
)

// Update summarises a run for listeners such as the watch UI.
type Update struct {
	Report    *Report
	Trigger   []string
	Timestamp time.Time
}

type App struct {
	Config *config.Config
	Parser *parser.Parser
	Paths  config.ResolvedPaths

	excludeDirs  []glob.Glob
	excludeFiles []glob.Glob

	updateMu sync.RWMutex
	onUpdate func(Update)

	// results keeps the last result per processed file for health reporting.
	resultsMu sync.RWMutex
	results   map[string]*FileResult
	lastRun   time.Time
}

func New(cfg *config.Config, cwd string) (*App, error) {
	paths, err := config.ResolvePaths(cfg, cwd)
	if err != nil {
		return nil, err
	}
	excludeDirs, err := helpers.CompileGlobs(cfg.Exclude.Dirs, "exclude dir")
	if err != nil {
		return nil, err
	}
	excludeFiles, err := helpers.CompileGlobs(cfg.Exclude.Files, "exclude file")
	if err != nil {
		return nil, err
	}

	return &App{
		Config: cfg,
		Parser: parser.NewParser(parser.Options{
			Marker:    cfg.Expand.Marker,
			DependsOn: cfg.Expand.DependsOn,
		}),
		Paths:        paths,
		excludeDirs:  excludeDirs,
		excludeFiles: excludeFiles,
		results:      make(map[string]*FileResult),
	}, nil
}

func (a *App) expandOptions() layers.Options {
	return layers.Options{
		DependsOn: a.Config.Expand.DependsOn,
		Namespace: a.Config.Expand.Namespace,
	}
}

func (a *App) SetUpdateHandler(handler func(Update)) {
	a.updateMu.Lock()
	defer a.updateMu.Unlock()
	a.onUpdate = handler
}

func (a *App) emitUpdate(update Update) {
	a.updateMu.RLock()
	handler := a.onUpdate
	a.updateMu.RUnlock()
	if handler != nil {
		handler(update)
	}
}

func (a *App) remember(res *FileResult) {
	a.resultsMu.Lock()
	defer a.resultsMu.Unlock()
	a.results[res.Path] = res
	a.lastRun = time.Now()
}

func (a *App) forget(path string) {
	a.resultsMu.Lock()
	defer a.resultsMu.Unlock()
	delete(a.results, path)
}

// trackedReport lists the last result of every tracked file in path order.
func (a *App) trackedReport() *Report {
	a.resultsMu.RLock()
	defer a.resultsMu.RUnlock()
	report := &Report{}
	for _, path := range util.SortedStringKeys(a.results) {
		report.add(a.results[path])
	}
	return report
}
