package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jonathan/career-guide/internal/analysis"
	"github.com/jonathan/career-guide/internal/assistant"
	"github.com/jonathan/career-guide/internal/cache"
	"github.com/jonathan/career-guide/internal/catalog"
	"github.com/jonathan/career-guide/internal/config"
	"github.com/jonathan/career-guide/internal/db"
	"github.com/jonathan/career-guide/internal/logging"
	"github.com/jonathan/career-guide/internal/profile"
	"github.com/jonathan/career-guide/internal/sqlitestore"
)

// errNoStore is returned by commands that read stored profiles when neither
// a PostgreSQL URL nor a SQLite path is configured.
var errNoStore = errors.New("no profile store configured: set DATABASE_URL or SQLITE_PATH (or --db-url / --sqlite)")

// profileBackend is a store serving every persistence interface.
type profileBackend interface {
	profile.Store
	analysis.MetricsWriter
	analysis.StudyPlanStore
	analysis.PreferenceStore
	assistant.History
}

// runtime holds the collaborators opened for one command.
type runtime struct {
	cfg     config.Config
	logger  *logging.Logger
	catalog *catalog.Catalog
	store   profileBackend
	sqlite  *sqlitestore.Store
	cache   *cache.RedisCache
	closers []func()
}

// runtimeOptions selects which optional collaborators to open.
type runtimeOptions struct {
	store bool
	cache bool
}

// open resolves the configuration and opens the requested collaborators.
func (o *rootOptions) open(ctx context.Context, ro runtimeOptions) (*runtime, error) {
	cfg, err := o.resolve()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	rt := &runtime{cfg: cfg, logger: logger}
	rt.closers = append(rt.closers, logger.Sync)

	if cfg.CatalogDir != "" {
		rt.catalog, err = catalog.LoadDir(cfg.CatalogDir)
	} else {
		rt.catalog, err = catalog.Default()
	}
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	if ro.store {
		if err := rt.openStore(ctx); err != nil {
			rt.Close()
			return nil, err
		}
	}

	if ro.cache && cfg.RedisAddr != "" {
		c, err := cache.NewRedisCache(ctx, cfg.RedisAddr, cfg.CacheTTLDuration(), logger)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.cache = c
		rt.closers = append(rt.closers, func() { _ = c.Close() })
	}

	return rt, nil
}

func (rt *runtime) openStore(ctx context.Context) error {
	switch {
	case rt.cfg.DatabaseURL != "":
		database, err := db.Connect(ctx, rt.cfg.DatabaseURL)
		if err != nil {
			return err
		}
		rt.store = database
		rt.closers = append(rt.closers, database.Close)
		rt.logger.Debug("using PostgreSQL profile store")
	case rt.cfg.SQLitePath != "":
		s, err := sqlitestore.Open(rt.cfg.SQLitePath)
		if err != nil {
			return err
		}
		rt.store = s
		rt.sqlite = s
		rt.closers = append(rt.closers, func() { _ = s.Close() })
		rt.logger.Debug("using SQLite profile store", "path", rt.cfg.SQLitePath)
	default:
		return errNoStore
	}
	return nil
}

// service builds the analysis service over whatever was opened.
func (rt *runtime) service() *analysis.Service {
	deps := analysis.Dependencies{
		Engine: analysis.NewEngine(rt.catalog),
		Logger: rt.logger,
	}
	if rt.store != nil {
		deps.Store = rt.store
		deps.Metrics = rt.store
		deps.StudyPlans = rt.store
		deps.Preferences = rt.store
	}
	if rt.cache != nil {
		deps.Cache = rt.cache
	}
	return analysis.NewService(deps)
}

// Close releases everything in reverse order of opening.
func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
	rt.closers = nil
}

// writeJSON writes v as indented JSON to path, or to w when path is empty.
func writeJSON(w io.Writer, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// insufficientData is the CLI rendering of an empty analysis.
func insufficientData() error {
	return fmt.Errorf("%w: %s", profile.ErrInsufficientData, profile.InsufficientDataMessage)
}

const (
	formatJSON = "json"
	formatText = "text"
)

func validateFormat(format string) error {
	switch format {
	case formatJSON, formatText:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q: use %s or %s", format, formatJSON, formatText)
	}
}
