package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/bookstore/internal/adapter"
	"github.com/mmcdole/bookstore/internal/catalog"
	"github.com/mmcdole/bookstore/internal/favorites"
	"github.com/mmcdole/bookstore/internal/source/googlebooks"
	"github.com/mmcdole/bookstore/internal/store"
	"github.com/mmcdole/bookstore/internal/tui"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

var errNotTerminal = errors.New("bookstore needs an interactive terminal")

func main() {
	var (
		showVersion bool
		query       string
	)
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&query, "q", "", "catalog search terms (overrides catalog.query)")
	flag.StringVar(&query, "query", "", "catalog search terms (overrides catalog.query)")
	flag.Parse()

	if showVersion {
		fmt.Printf("bookstore %s\n", Version)
		return
	}

	if err := run(query); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(query string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNotTerminal
	}

	// Load configuration
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if query != "" {
		cfg.Catalog.Query = query
	}

	// Setup logger
	logger, closer, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	} else {
		defer closer.Close()
	}
	slog.SetDefault(logger)

	logger.Info("starting bookstore", "version", Version, "query", cfg.Catalog.Query)

	// First run: write the defaults so there is a file to edit
	if !adapter.ConfigExists() {
		if err := adapter.SaveConfig(cfg); err != nil {
			logger.Warn("failed to write default config", "error", err)
		}
	}

	// Remote catalog
	client := googlebooks.NewClient(
		cfg.Catalog.BaseURL,
		cfg.Catalog.APIKey,
		logger,
		googlebooks.WithRateLimit(cfg.Catalog.RequestsPerSecond),
	)
	pager := catalog.NewPager(client, cfg.Catalog.Query, cfg.Catalog.PageSize, cfg.Catalog.CacheTTL, logger)

	// Local favorites
	favStore, err := store.NewFavoritesStore(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("failed to open favorites database: %w", err)
	}
	defer favStore.Close()

	favoritesSvc := favorites.NewService(favStore, logger)
	opener := adapter.NewOpener(cfg.Browser, logger)

	// Create TUI model
	model := tui.NewModel(pager, favoritesSvc, opener, tui.Options{
		PageSize: cfg.Catalog.PageSize,
		Columns:  cfg.UI.GridColumns,
		Logger:   logger,
	})

	// Run the TUI
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	logger.Info("starting TUI")

	final, err := p.Run()
	if m, ok := final.(tui.Model); ok {
		m.Close()
	}
	if err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}
