// ABOUTME: Wires config, data directory resolution, the SQLite store and the notebook together
// ABOUTME: Every notebook command runs between Open and Close so shutdown always saves

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"

	"github.com/2389/notebook/internal/config"
	"github.com/2389/notebook/internal/datadir"
	"github.com/2389/notebook/internal/notebook"
	"github.com/2389/notebook/internal/status"
	"github.com/2389/notebook/internal/store"
)

type location struct {
	dir      string
	dbPath   string
	writable bool
}

// resolveLocation picks the data directory and seeds the database on first run.
// Neither step is fatal: an unwritable directory is still used best-effort.
func resolveLocation(cfg *config.Config, logger *slog.Logger) (location, error) {
	appDir, err := datadir.AppDir()
	if err != nil {
		return location{}, err
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		logger.Warn("no home directory, skipping fallback location", "error", err)
		homeDir = ""
	}

	r := &datadir.Resolver{
		AppDir:       appDir,
		HomeDir:      homeDir,
		FallbackName: cfg.Storage.FallbackDirName,
		Override:     cfg.Storage.DataDir,
		Logger:       logger.With("component", "datadir"),
	}

	loc := location{writable: true}
	loc.dir, err = r.Resolve()
	if errors.Is(err, datadir.ErrStorageUnavailable) {
		loc.writable = false
	}
	loc.dbPath = filepath.Join(loc.dir, cfg.Storage.DatabaseFile)

	seed := cfg.Storage.SeedPath
	if seed == "" {
		seed = filepath.Join(appDir, cfg.Storage.DatabaseFile)
	}
	copied, err := datadir.SeedDatabase(loc.dbPath, seed)
	switch {
	case err != nil:
		logger.Warn("seed database not copied", "seed", seed, "error", err)
	case copied:
		logger.Info("copied seed database", "seed", seed, "db", loc.dbPath)
	}

	return loc, nil
}

// firstFrame shows only the first frame of a status message; a terminal
// command exits before any fade-out would run.
type firstFrame struct{}

type doneTimer struct{}

func (doneTimer) Stop() bool { return false }

func (firstFrame) AfterFunc(d time.Duration, f func()) status.Timer {
	if d == 0 {
		f()
	}
	return doneTimer{}
}

// session is an open notebook plus where command output goes.
type session struct {
	nb  *notebook.Notebook
	out io.Writer
	in  io.Reader
}

func runNotebook(ctx context.Context, command string, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	logger := setupLogger(cfg.Logging)

	loc, err := resolveLocation(cfg, logger)
	if err != nil {
		return err
	}

	st, err := store.NewSQLiteStore(loc.dbPath,
		store.WithLogger(logger),
		store.WithDefaultTabName(cfg.Notes.DefaultTabName),
	)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer st.Close()

	gray := color.New(color.FgHiBlack)
	flasher := &status.Flasher{
		Scheduler: firstFrame{},
		Display: func(msg string) {
			if msg != "" {
				gray.Fprintf(os.Stderr, "  %s\n", msg)
			}
		},
	}

	nb, err := notebook.Open(ctx, st, notebook.Options{
		Config: *cfg,
		Logger: logger,
		Status: flasher,
	})
	if err != nil {
		return err
	}

	s := &session{nb: nb, out: os.Stdout, in: os.Stdin}
	runErr := s.dispatch(ctx, command, args)

	// Normal shutdown persists everything even when the command failed.
	closeCtx := context.WithoutCancel(ctx)
	return errors.Join(runErr, nb.Close(closeCtx))
}
