package httpserver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tinytelemetry/streamgraph/internal/detail"
	"github.com/tinytelemetry/streamgraph/internal/interact"
	"github.com/tinytelemetry/streamgraph/internal/loader"
	"github.com/tinytelemetry/streamgraph/internal/model"
	"github.com/tinytelemetry/streamgraph/internal/pngexport"
	"github.com/tinytelemetry/streamgraph/internal/render"
	"github.com/tinytelemetry/streamgraph/internal/svg"
)

var errBadCoordinate = errors.New("x and y must be numbers")

type bandPoint struct {
	Date  time.Time `json:"date"`
	Lower float64   `json:"lower"`
	Upper float64   `json:"upper"`
}

type bandJSON struct {
	Category string      `json:"category"`
	Color    string      `json:"color"`
	Path     string      `json:"path"`
	Points   []bandPoint `json:"points"`
}

type legendJSON struct {
	Category string `json:"category"`
	Color    string `json:"color"`
}

type barJSON struct {
	Date   time.Time `json:"date"`
	Value  float64   `json:"value"`
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
}

func (s *Server) handleHealth(c *gin.Context) {
	scene := s.Scene()
	body := gin.H{
		"status":     "ok",
		"uptime":     time.Since(s.startTime).String(),
		"generation": scene.Generation(),
		"records":    len(scene.Records()),
	}
	if s.opts.Store != nil {
		count, err := s.opts.Store.RecordCount(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read record count"})
			return
		}
		body["stored_records"] = count
		body["store"] = s.opts.Store.Name()
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) handleLayout(c *gin.Context) {
	scene := s.Scene()
	cfg := scene.Config()

	legend := make([]legendJSON, 0, len(scene.Palette().Legend()))
	for _, e := range scene.Palette().Legend() {
		legend = append(legend, legendJSON{Category: string(e.Category), Color: e.Color})
	}

	bands := make([]bandJSON, 0, len(scene.Bands))
	for _, b := range scene.Bands {
		pts := make([]bandPoint, len(b.Series.Bands))
		for i, sb := range b.Series.Bands {
			pts[i] = bandPoint{Date: sb.Date, Lower: sb.Lower, Upper: sb.Upper}
		}
		bands = append(bands, bandJSON{
			Category: string(b.Category),
			Color:    b.Color,
			Path:     b.Path.SVG(),
			Points:   pts,
		})
	}

	body := gin.H{
		"generation": scene.Generation(),
		"width":      cfg.CanvasWidth(),
		"height":     cfg.Height,
		"legend":     legend,
		"bands":      bands,
	}
	if !scene.Empty() {
		body["x_domain"] = []time.Time{scene.Scales.X.Start, scene.Scales.X.End}
		body["y_domain"] = []float64{scene.Scales.Y.D0, scene.Scales.Y.D1}
	}
	c.JSON(http.StatusOK, body)
}

// frame renders the current scene with the hover state described by the
// query: hover=<category> with x/y enters that band, x/y alone hit-tests.
func (s *Server) frame(c *gin.Context) (render.Frame, bool) {
	scene := s.Scene()
	coord := interact.NewCoordinator(scene, scene.Config().Detail)

	hover := c.Query("hover")
	x, y, hasPoint, err := pointQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return render.Frame{}, false
	}

	switch {
	case hover != "":
		cat := model.Category(hover)
		if !scene.Palette().Has(cat) {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown category %q", hover)})
			return render.Frame{}, false
		}
		if !hasPoint {
			x, y = scene.Config().Margin.Left, scene.Config().Margin.Top
		}
		coord.Handle(interact.Event{Kind: interact.Enter, Category: cat, X: x, Y: y})
	case hasPoint:
		coord.Pointer(x, y)
	}
	return render.Render(scene, coord.Snapshot()), true
}

func (s *Server) handleChartSVG(c *gin.Context) {
	f, ok := s.frame(c)
	if !ok {
		return
	}
	c.Data(http.StatusOK, "image/svg+xml; charset=utf-8", []byte(svg.Render(f)))
}

func (s *Server) handleChartPNG(c *gin.Context) {
	f, ok := s.frame(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := pngexport.Write(&buf, f, s.opts.FlattenSteps); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (s *Server) handleDetail(c *gin.Context) {
	scene := s.Scene()
	cat := model.Category(c.Param("category"))
	if !scene.Palette().Has(cat) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown category %q", cat)})
		return
	}

	cfg := scene.Config().Detail
	v := detail.Build(scene.Records(), cat, scene.Color(cat), cfg)
	v.Generation = scene.Generation()

	if c.Query("format") == "svg" {
		f := render.Frame{Width: cfg.Width, Height: cfg.Height, Main: v.Commands()}
		c.Data(http.StatusOK, "image/svg+xml; charset=utf-8", []byte(svg.Render(f)))
		return
	}

	bars := make([]barJSON, len(v.Bars))
	for i, b := range v.Bars {
		bars[i] = barJSON{Date: b.Date, Value: b.Value, X: b.Rect.X, Y: b.Rect.Y, Width: b.Rect.W, Height: b.Rect.H}
	}
	c.JSON(http.StatusOK, gin.H{
		"category":   string(cat),
		"color":      v.Color,
		"generation": v.Generation,
		"width":      cfg.Width,
		"height":     cfg.Height,
		"bars":       bars,
	})
}

func (s *Server) handleHit(c *gin.Context) {
	x, y, ok, err := pointQuery(c)
	if err == nil && !ok {
		err = errBadCoordinate
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cat, hit := s.Scene().HitTest(x, y)
	c.JSON(http.StatusOK, gin.H{"hit": hit, "category": string(cat)})
}

func (s *Server) handleRecords(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, s.opts.MaxUploadBytes))
	if err != nil {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "upload too large"})
		return
	}

	categories := s.opts.Palette.Categories()
	ds, err := decodeUpload(c.ContentType(), body, categories)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scene, err := s.Replace(c.Request.Context(), ds.Records)
	if err != nil {
		log.Printf("httpserver: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store records"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"generation": scene.Generation(),
		"records":    len(ds.Records),
	})
}

func decodeUpload(contentType string, body []byte, categories []model.Category) (model.Dataset, error) {
	opts := loader.Options{}
	switch {
	case strings.Contains(contentType, "json"):
		return loader.DecodeJSON(body, categories, opts)
	case strings.Contains(contentType, "spreadsheetml"):
		return loader.ReadXLSX(bytes.NewReader(body), "", categories, opts)
	default:
		return loader.ReadCSV(bytes.NewReader(body), categories, opts)
	}
}

// pointQuery reads the x/y query parameters. ok is false when neither is set.
func pointQuery(c *gin.Context) (x, y float64, ok bool, err error) {
	xs, ys := c.Query("x"), c.Query("y")
	if xs == "" && ys == "" {
		return 0, 0, false, nil
	}
	if x, err = strconv.ParseFloat(xs, 64); err != nil {
		return 0, 0, false, errBadCoordinate
	}
	if y, err = strconv.ParseFloat(ys, 64); err != nil {
		return 0, 0, false, errBadCoordinate
	}
	return x, y, true, nil
}
