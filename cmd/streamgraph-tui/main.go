package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/tinytelemetry/streamgraph/internal/duckdb"
	"github.com/tinytelemetry/streamgraph/internal/loader"
	"github.com/tinytelemetry/streamgraph/internal/model"
	"github.com/tinytelemetry/streamgraph/internal/palette"
	"github.com/tinytelemetry/streamgraph/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	var configPath string
	var source string
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/streamgraph/config.yml)")
	flag.StringVar(&source, "source", "", "CSV, XLSX or JSON file or http(s) URL (default reads the service database)")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("Streamgraph TUI - Terminal Viewer\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
		return
	}

	cfg, err := loadCLIConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if source != "" {
		cfg.Source = source
	}
	if flag.NArg() > 0 && cfg.Source == "" {
		cfg.Source = flag.Arg(0)
	}

	if err := runTUI(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(cfg cliConfig) error {
	cleanupLogger := configureRuntimeLogger()
	defer cleanupLogger()

	pal, err := palette.Resolve(cfg.Palette)
	if err != nil {
		return fmt.Errorf("failed to load palette: %w", err)
	}

	src, closeSource, err := openSource(cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	keys := tui.DefaultKeyMap()
	streamPage := tui.NewStreamPage(tui.StreamOptions{
		Source:       src,
		Palette:      pal,
		LoadTimeout:  cfg.LoadTimeout,
		FlattenSteps: cfg.FlattenSteps,
		CurveTension: cfg.CurveTension,
		Keys:         keys,
	})
	app := tui.NewApp(streamPage, tui.NewHelpPage(keys))

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
			return fmt.Errorf("TUI requires a real terminal")
		}
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// openSource picks the record source: an explicit file or URL, else the
// service database.
func openSource(cfg cliConfig) (model.RecordSource, func(), error) {
	if cfg.Source != "" {
		src := loader.Open(cfg.Source, loader.Options{DateColumn: cfg.DateColumn})
		if fs, ok := src.(*loader.FileSource); ok {
			fs.Sheet = cfg.Sheet
		}
		return src, func() {}, nil
	}

	store, err := duckdb.NewStore(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open %s: %w\nIs the streamgraph service still running? Stop it or pass -source", cfg.DBPath, err)
	}
	return store, func() { _ = store.Close() }, nil
}

// configureRuntimeLogger keeps log output off the terminal the TUI owns.
func configureRuntimeLogger() func() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	home, err := os.UserHomeDir()
	if err != nil {
		log.SetOutput(io.Discard)
		return func() {}
	}

	logDir := filepath.Join(home, ".local", "state", "streamgraph")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(io.Discard)
		return func() {}
	}

	f, err := os.OpenFile(filepath.Join(logDir, "streamgraph-tui.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.SetOutput(io.Discard)
		return func() {}
	}

	log.SetOutput(f)
	return func() {
		_ = f.Close()
	}
}
