// Package httpserver exposes the streamgraph over HTTP: layout JSON,
// rendered frames, detail views, hit tests and record uploads.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tinytelemetry/streamgraph/internal/model"
	"github.com/tinytelemetry/streamgraph/internal/palette"
	"github.com/tinytelemetry/streamgraph/internal/render"
)

// DefaultMaxUploadBytes bounds POST /api/records bodies.
const DefaultMaxUploadBytes = 32 << 20

// Options configures a Server.
type Options struct {
	Layout         render.Config
	Palette        *palette.Registry
	Store          model.RecordStore // optional; uploads are kept in memory only when nil
	FlattenSteps   int
	MaxUploadBytes int64
}

// Server serves the current scene. Scenes are immutable and swapped
// atomically; every request builds its own hover coordinator.
type Server struct {
	addr      string
	opts      Options
	scene     atomic.Pointer[render.Scene]
	gen       atomic.Uint64
	loadMu    sync.Mutex
	server    *http.Server
	listener  net.Listener
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates a new HTTP API server with an empty scene.
func NewServer(addr string, opts Options) *Server {
	if addr == "" {
		addr = "0.0.0.0:3000"
	}
	if opts.Palette == nil {
		opts.Palette = palette.Default()
	}
	if opts.FlattenSteps <= 0 {
		opts.FlattenSteps = model.DefaultFlattenSteps
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		addr:      addr,
		opts:      opts,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}
	s.scene.Store(render.NewScene(opts.Layout, opts.Palette, nil, 0))
	return s
}

// SetRecords builds a scene for records under the next generation and
// makes it current.
func (s *Server) SetRecords(records []model.Record) *render.Scene {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	return s.swapLocked(records)
}

// Replace persists records to the store, when one is configured, and then
// makes them current. Concurrent calls are serialized so the stored set and
// the served scene always come from the same call.
func (s *Server) Replace(ctx context.Context, records []model.Record) (*render.Scene, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if s.opts.Store != nil {
		if err := s.opts.Store.ReplaceRecords(ctx, s.opts.Palette.Categories(), records); err != nil {
			return nil, fmt.Errorf("storing records: %w", err)
		}
	}
	return s.swapLocked(records), nil
}

func (s *Server) swapLocked(records []model.Record) *render.Scene {
	scene := render.NewScene(s.opts.Layout, s.opts.Palette, records, s.gen.Add(1))
	s.scene.Store(scene)
	log.Printf("httpserver: scene generation %d with %d records", scene.Generation(), len(scene.Records()))
	return scene
}

// Scene returns the current scene.
func (s *Server) Scene() *render.Scene {
	return s.scene.Load()
}

// Handler returns the gin engine with all routes registered.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	s.routes(r)
	return r
}

func (s *Server) routes(r gin.IRoutes) {
	r.GET("/api/health", s.handleHealth)
	r.GET("/api/layout", s.handleLayout)
	r.GET("/api/chart.svg", s.handleChartSVG)
	r.GET("/api/chart.png", s.handleChartPNG)
	r.GET("/api/detail/:category", s.handleDetail)
	r.GET("/api/hit", s.handleHit)
	r.POST("/api/records", s.handleRecords)
}

// Listen binds the server address. Call Serve afterwards to handle requests.
func (s *Server) Listen() error {
	gin.SetMode(gin.ReleaseMode)

	s.server = &http.Server{
		Handler:           s.Handler(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = listener
	s.startTime = time.Now()
	return nil
}

// Serve handles requests on the bound listener until Stop is called. It
// returns nil after a graceful stop.
func (s *Server) Serve() error {
	if s.listener == nil {
		return errors.New("httpserver: Serve called before Listen")
	}
	if err := s.server.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("httpserver: serving %s: %w", s.addr, err)
	}
	return nil
}

// Addr returns the bound address, or the configured one before Listen.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Start binds the address and serves in the background, logging a serve
// failure.
func (s *Server) Start() error {
	if err := s.Listen(); err != nil {
		return err
	}
	go func() {
		if err := s.Serve(); err != nil {
			log.Printf("%v", err)
		}
	}()
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}
