// ABOUTME: Resolves a writable directory for the notebook database
// ABOUTME: Probes candidate folders and copies a bundled seed database on first run

// Package datadir picks where the database file lives.
package datadir

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// ErrStorageUnavailable is returned when no candidate directory accepted a probe write.
// The accompanying path is still usable on a best-effort basis.
var ErrStorageUnavailable = errors.New("no writable data directory")

const probeFile = ".write_test"

// Resolver chooses the data directory.
type Resolver struct {
	// AppDir is the directory of the running application
	AppDir string
	// HomeDir is the user's home; the fallback lives under HomeDir/Documents
	HomeDir string
	// FallbackName is the folder created under Documents
	FallbackName string
	// Override, when set, is the only candidate
	Override string

	Logger *slog.Logger
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default().With("component", "datadir")
}

// Candidates returns the directories tried by Resolve, in order.
func (r *Resolver) Candidates() []string {
	if r.Override != "" {
		return []string{r.Override}
	}

	var out []string
	if r.AppDir != "" {
		out = append(out, filepath.Join(r.AppDir, "data"))
	}
	if r.HomeDir != "" && r.FallbackName != "" {
		out = append(out, filepath.Join(r.HomeDir, "Documents", r.FallbackName))
	}
	return out
}

// Resolve returns the first candidate that can be created and written to.
// When every candidate fails it returns AppDir together with an error wrapping
// ErrStorageUnavailable; callers should log it and carry on.
func (r *Resolver) Resolve() (string, error) {
	log := r.logger()

	for _, dir := range r.Candidates() {
		if err := probe(dir); err != nil {
			log.Debug("data directory candidate rejected", "dir", dir, "error", err)
			continue
		}
		log.Debug("data directory resolved", "dir", dir)
		return dir, nil
	}

	log.Warn("no writable data directory, falling back to application directory", "dir", r.AppDir)
	return r.AppDir, ErrStorageUnavailable
}

// probe creates dir and writes then deletes a marker file in it.
func probe(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	path := filepath.Join(dir, probeFile)
	if err := os.WriteFile(path, nil, 0644); err != nil {
		return fmt.Errorf("writing probe file: %w", err)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("removing probe file: %w", err)
	}
	return nil
}

// SeedDatabase copies seedPath to dbPath when dbPath does not exist yet and
// seedPath does. It reports whether a copy happened. The copy is written
// atomically so a failed copy never leaves a truncated database behind.
func SeedDatabase(dbPath, seedPath string) (bool, error) {
	if seedPath == "" {
		return false, nil
	}
	if _, err := os.Stat(dbPath); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("checking database file: %w", err)
	}

	abs1, err1 := filepath.Abs(dbPath)
	abs2, err2 := filepath.Abs(seedPath)
	if err1 == nil && err2 == nil && abs1 == abs2 {
		return false, nil
	}

	src, err := os.Open(seedPath)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("opening seed database: %w", err)
	}
	defer src.Close()

	if err := atomic.WriteFile(dbPath, src); err != nil {
		return false, fmt.Errorf("copying seed database: %w", err)
	}
	return true, nil
}

// AppDir returns the directory containing the running executable.
func AppDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locating executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}
