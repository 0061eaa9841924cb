// ABOUTME: Entry point for the notebook command line
// ABOUTME: Opens the local notebook database and dispatches document, note and settings commands

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/fatih/color"

	"github.com/2389/notebook/internal/config"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
             _       _                 _
 _ __   ___ | |_ ___| |__   ___   ___ | | __
| '_ \ / _ \| __/ _ \ '_ \ / _ \ / _ \| |/ /
| | | | (_) | ||  __/ |_) | (_) | (_) |   <
|_| |_|\___/ \__\___|_.__/ \___/ \___/|_|\_\
`

// getConfigPath returns the path to the notebook config file.
// Priority: NOTEBOOK_CONFIG env var > XDG_CONFIG_HOME/notebook/config.yaml > ~/.config/notebook/config.yaml
func getConfigPath() string {
	if envPath := os.Getenv("NOTEBOOK_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "notebook", "config.yaml")
}

func usage() {
	fmt.Println("Usage: notebook <command> [args]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  init                              Write a default config file")
	fmt.Println("  path                              Show the resolved data directory and database")
	fmt.Println("  show                              List documents and note tabs")
	fmt.Println("  doc new [name]                    Create a document")
	fmt.Println("  doc cat <name>                    Print a document")
	fmt.Println("  doc write <name>                  Replace a document's text from stdin")
	fmt.Println("  doc rename <old> <new>            Rename a document")
	fmt.Println("  doc close <name>                  Close a document")
	fmt.Println("  doc export <name> <path> [--html] Write a document to a file")
	fmt.Println("  note list [--tab T] [--search Q]  List notes in display order")
	fmt.Println("  note add <text> [flags]           Add a note")
	fmt.Println("  note done|pin|up|down|rm <N>      Change the note with display number N")
	fmt.Println("  tab new [name]                    Create a note tab")
	fmt.Println("  tab rm <name>                     Delete a note tab")
	fmt.Println("  settings [key [value]]            Show or change settings")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "init":
		err = runInit()
	case "path":
		err = runPath()
	case "show", "doc", "note", "tab", "settings":
		err = runNotebook(ctx, os.Args[1], os.Args[2:])
	case "help", "-h", "--help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, string, error) {
	configPath := getConfigPath()
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, configPath, fmt.Errorf("loading config: %w", err)
	}
	return cfg, configPath, nil
}

func runInit() error {
	configPath := getConfigPath()
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config already exists: %s", configPath)
	}

	if err := config.Write(configPath, config.Default()); err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	green.Printf("  ✓ Created config: %s\n", configPath)
	return nil
}

func runPath() error {
	cfg, configPath, err := loadConfig()
	if err != nil {
		return err
	}
	logger := setupLogger(cfg.Logging)

	loc, err := resolveLocation(cfg, logger)
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan)
	cyan.Print(banner)
	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	green.Print("    ▶ ")
	fmt.Printf("Config:    %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("Data dir:  %s", loc.dir)
	if !loc.writable {
		yellow.Print(" [not writable]")
	}
	fmt.Println()
	green.Print("    ▶ ")
	fmt.Printf("Database:  %s\n", loc.dbPath)
	fmt.Println()
	return nil
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Logs go to stderr so "doc cat" output stays clean.
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = &colorHandler{
			level: level,
		}
	}

	return slog.New(handler)
}

// colorHandler provides colorized log output with thread-safe writes.
type colorHandler struct {
	mu     sync.Mutex
	level  slog.Level
	attrs  []slog.Attr
	groups []string
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *colorHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var buf strings.Builder

	buf.WriteString(color.HiBlackString(r.Time.Format("15:04:05") + " "))

	switch r.Level {
	case slog.LevelDebug:
		buf.WriteString(color.MagentaString("DBG "))
	case slog.LevelInfo:
		buf.WriteString(color.CyanString("INF "))
	case slog.LevelWarn:
		buf.WriteString(color.YellowString("WRN "))
	case slog.LevelError:
		buf.WriteString(color.New(color.FgRed, color.Bold).Sprint("ERR "))
	default:
		buf.WriteString("??? ")
	}

	buf.WriteString(r.Message)

	prefix := ""
	if len(h.groups) > 0 {
		prefix = strings.Join(h.groups, ".") + "."
	}

	for _, a := range h.attrs {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
	}

	r.Attrs(func(a slog.Attr) bool {
		buf.WriteString(color.HiBlackString(" " + prefix + a.Key + "="))
		buf.WriteString(a.Value.String())
		return true
	})

	buf.WriteString("\n")
	fmt.Fprint(os.Stderr, buf.String())
	return nil
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	newAttrs = append(newAttrs, attrs...)
	return &colorHandler{
		level:  h.level,
		attrs:  newAttrs,
		groups: h.groups,
	}
}

func (h *colorHandler) WithGroup(name string) slog.Handler {
	newGroups := make([]string, len(h.groups), len(h.groups)+1)
	copy(newGroups, h.groups)
	newGroups = append(newGroups, name)
	return &colorHandler{
		level:  h.level,
		attrs:  h.attrs,
		groups: newGroups,
	}
}
