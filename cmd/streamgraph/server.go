package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/tinytelemetry/streamgraph/internal/duckdb"
	"github.com/tinytelemetry/streamgraph/internal/httpserver"
	"github.com/tinytelemetry/streamgraph/internal/loader"
	"github.com/tinytelemetry/streamgraph/internal/model"
	"github.com/tinytelemetry/streamgraph/internal/palette"
	"github.com/tinytelemetry/streamgraph/internal/render"
	"golang.org/x/sync/errgroup"
)

// runServer serves the streamgraph HTTP API backed by the DuckDB record store.
func runServer(cfg appConfig) error {
	cleanupLogger := configureRuntimeLogger()
	defer cleanupLogger()

	pal, err := palette.Resolve(cfg.Palette)
	if err != nil {
		return fmt.Errorf("failed to load palette: %w", err)
	}

	store, err := duckdb.NewStore(cfg.DBPath, cfg.QueryTimeout)
	if err != nil {
		return fmt.Errorf("failed to initialize DuckDB: %w", err)
	}
	defer store.Close()

	// Set up context and signal handling before errgroup
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	records, origin, err := initialRecords(ctx, cfg, store, pal.Categories())
	if err != nil {
		return err
	}

	layout := render.DefaultConfig()
	layout.Tension = cfg.CurveTension
	layout.FlattenSteps = cfg.FlattenSteps

	apiServer := httpserver.NewServer(cfg.APIAddr, httpserver.Options{
		Layout:         layout,
		Palette:        pal,
		Store:          store,
		FlattenSteps:   cfg.FlattenSteps,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})
	apiServer.SetRecords(records)
	if err := apiServer.Listen(); err != nil {
		return fmt.Errorf("failed to start API server: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nShutting down gracefully... (press Ctrl+C again to force)")
		cancel()

		deadline := time.NewTimer(10 * time.Second)
		defer deadline.Stop()

		select {
		case <-sigCh:
			fmt.Println("\nForce shutdown.")
		case <-deadline.C:
			fmt.Println("Shutdown timed out, forcing exit.")
		}
		os.Exit(1)
	}()

	schema := "unknown"
	if applied, err := store.Schema(ctx); err != nil {
		log.Printf("server: reading schema history: %v", err)
	} else if len(applied) > 0 {
		schema = applied[len(applied)-1].String()
	}

	printStartupBanner(cfg, pal, origin, schema, len(records))

	err = serveUntilDone(ctx, apiServer)
	signal.Stop(sigCh)
	if err != nil {
		log.Printf("server: errgroup exited with error: %v", err)
		return fmt.Errorf("API server: %w", err)
	}
	return nil
}

// serveUntilDone runs the API serve loop until ctx is cancelled (from the
// signal handler) or serving fails, then stops the server.
func serveUntilDone(ctx context.Context, apiServer *httpserver.Server) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(apiServer.Serve)

	g.Go(func() error {
		<-gctx.Done()
		return apiServer.Stop()
	})

	return g.Wait()
}

// initialRecords imports cfg.Source into the store when set, otherwise it
// reads back whatever the store kept from the previous run. origin names
// where the records came from.
func initialRecords(ctx context.Context, cfg appConfig, store *duckdb.Store, categories []model.Category) ([]model.Record, string, error) {
	if cfg.Source != "" {
		src := loader.Open(cfg.Source, loader.Options{DateColumn: cfg.DateColumn})
		if fs, ok := src.(*loader.FileSource); ok {
			fs.Sheet = cfg.Sheet
		}

		loadCtx, cancel := context.WithTimeout(ctx, cfg.LoadTimeout)
		defer cancel()

		records, err := src.Load(loadCtx, categories)
		if err != nil {
			return nil, "", fmt.Errorf("failed to import %s: %w", src.Name(), err)
		}
		if err := store.ReplaceRecordsFrom(ctx, src.Name(), categories, records); err != nil {
			return nil, "", fmt.Errorf("failed to store imported records: %w", err)
		}
		return records, src.Name(), nil
	}

	records, err := store.Load(ctx, categories)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read stored records: %w", err)
	}
	last, err := store.LastLoad(ctx)
	if err != nil {
		log.Printf("server: reading last load: %v", err)
	}
	if last != nil {
		return records, last.Source, nil
	}
	return records, "", nil
}

func configureRuntimeLogger() func() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	home, err := os.UserHomeDir()
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logDir := filepath.Join(home, ".local", "state", "streamgraph")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logPath := filepath.Join(logDir, "streamgraph.log")
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	log.SetOutput(f)
	return func() {
		_ = f.Close()
	}
}

func printStartupBanner(cfg appConfig, pal *palette.Registry, origin, schema string, recordCount int) {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cyan := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	bold := lipgloss.NewStyle().Bold(true)

	check := green.Render("●")
	dot := dim.Render("●")

	logo := cyan.Bold(true).Render(`
    ╔═╗╔╦╗╦═╗╔═╗╔═╗╔╦╗╔═╗╦═╗╔═╗╔═╗╦ ╦
    ╚═╗ ║ ╠╦╝║╣ ╠═╣║║║║ ╦╠╦╝╠═╣╠═╝╠═╣
    ╚═╝ ╩ ╩╚═╚═╝╩ ╩╩ ╩╚═╝╩╚═╩ ╩╩  ╩ ╩`)

	var lines []string
	lines = append(lines, "", logo, "    "+dim.Render("v"+version), "")

	separator := dim.Render("    ─────────────────────────────────")
	lines = append(lines, separator, "")

	lines = append(lines, bold.Render("    Gateway"), "")
	lines = append(lines, fmt.Sprintf("    %s  HTTP API       %s", check, cyan.Render(cfg.APIAddr)))
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Data"), "")
	lines = append(lines, fmt.Sprintf("    %s  Storage        %s", check, dim.Render(shortenPath(cfg.DBPath))))
	lines = append(lines, fmt.Sprintf("    %s  Schema         %s", check, dim.Render(schema)))
	if origin != "" {
		lines = append(lines, fmt.Sprintf("    %s  Records        %s", check, dim.Render(fmt.Sprintf("%d from %s", recordCount, shortenPath(origin)))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Records        %s", dot, dim.Render("none (POST /api/records)")))
	}
	names := make([]string, 0, len(pal.Legend()))
	for _, e := range pal.Legend() {
		names = append(names, lipgloss.NewStyle().Foreground(lipgloss.Color(e.Color)).Render(string(e.Category)))
	}
	lines = append(lines, fmt.Sprintf("    %s  Categories     %s", check, strings.Join(names, dim.Render(", "))))
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Config"), "")
	if cfg.ConfigPath != "" {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", check, dim.Render(shortenPath(cfg.ConfigPath))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", dot, dim.Render("default (no file)")))
	}

	lines = append(lines, "", separator, "")
	lines = append(lines, "    "+dim.Render("Press ")+yellow.Render("Ctrl+C")+dim.Render(" to stop"), "")

	fmt.Println(strings.Join(lines, "\n"))
}

func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
