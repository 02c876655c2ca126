package studio

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ironsheep/sketchdraw/internal/config"
	"github.com/ironsheep/sketchdraw/internal/drawing"
	"github.com/ironsheep/sketchdraw/internal/history"
	"github.com/ironsheep/sketchdraw/internal/imaging"
)

// Studio is the command surface of the drawing application. It owns the
// canvas, the current image, the brush and the history ledger, and runs every
// command synchronously.
//
// A Studio is not safe for concurrent use. Front-ends serialize commands the
// way a UI event loop would.
type Studio struct {
	cfg    *config.Config
	logger *log.Logger
	cache  *imaging.ImageCache
	ledger *history.Ledger

	canvas  *drawing.Canvas
	strokes *drawing.StrokeRecorder

	img    image.Image
	source string

	color imaging.Color
	brush int

	now func() time.Time
}

// ImageInfo describes the current image after a command replaced it.
type ImageInfo struct {
	Source         string      `json:"source"`
	Format         string      `json:"format,omitempty"`
	Width          int         `json:"width"`
	Height         int         `json:"height"`
	OriginalWidth  int         `json:"original_width,omitempty"`
	OriginalHeight int         `json:"original_height,omitempty"`
	Offset         image.Point `json:"offset"`
}

// DrawResult summarizes an auto-draw run.
type DrawResult struct {
	Polylines int         `json:"polylines"`
	Dots      int         `json:"dots"`
	Offset    image.Point `json:"offset"`
}

// ColorInfo is the active drawing color together with a text color that
// stays readable on top of it.
type ColorInfo struct {
	Color imaging.Color `json:"color"`
	Text  imaging.Color `json:"text"`
}

// State is a snapshot of the studio for display.
type State struct {
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	Primitives int           `json:"primitives"`
	Polylines  int           `json:"polylines"`
	Dots       int           `json:"dots"`
	Color      imaging.Color `json:"color"`
	Brush      int           `json:"brush"`
	Drawing    bool          `json:"drawing"`
	Image      *ImageInfo    `json:"image,omitempty"`
}

// New creates a studio from cfg using ledger for saved drawings. A nil logger
// discards log output.
func New(cfg *config.Config, ledger *history.Ledger, logger *log.Logger) *Studio {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	canvas := drawing.NewCanvas(cfg.Canvas.Width, cfg.Canvas.Height)
	return &Studio{
		cfg:     cfg,
		logger:  logger,
		cache:   imaging.NewImageCache(0),
		ledger:  ledger,
		canvas:  canvas,
		strokes: drawing.NewStrokeRecorder(canvas),
		color:   cfg.Brush.Color,
		brush:   clampBrush(cfg.Brush.Size),
		now:     time.Now,
	}
}

// Open creates a studio whose ledger lives in cfg.History.Dir.
func Open(cfg *config.Config, logger *log.Logger) (*Studio, error) {
	ledger, err := history.Open(cfg.History.Dir)
	if err != nil {
		return nil, err
	}
	return New(cfg, ledger, logger), nil
}

// Canvas exposes the drawing canvas.
func (s *Studio) Canvas() *drawing.Canvas { return s.canvas }

// Image returns the current image, or nil.
func (s *Studio) Image() image.Image { return s.img }

// Ledger returns the history ledger.
func (s *Studio) Ledger() *history.Ledger { return s.ledger }

// LoadImage decodes the image at path, shrinks it to fit the canvas and makes
// it the current image. The canvas keeps its primitives. On failure nothing
// changes and the error wraps imaging.ErrUnreadableImage.
func (s *Studio) LoadImage(path string) (ImageInfo, error) {
	src, err := s.cache.Load(path)
	if err != nil {
		return ImageInfo{}, err
	}

	size := s.canvas.Size()
	fitted := imaging.FitWithin(src, size.X, size.Y)
	s.setImage(fitted, path)

	info := s.imageInfo()
	info.Format = imaging.FormatName(path)
	info.OriginalWidth = src.Bounds().Dx()
	info.OriginalHeight = src.Bounds().Dy()

	s.logger.Info("Loaded image", "path", path,
		"size", fmt.Sprintf("%dx%d", info.OriginalWidth, info.OriginalHeight),
		"fitted", fmt.Sprintf("%dx%d", info.Width, info.Height))
	s.logger.Debug("Image cache", "entries", s.cache.Len())
	return info, nil
}

// ConvertToSketch replaces the current image with its pencil sketch and
// clears the canvas.
func (s *Studio) ConvertToSketch() (ImageInfo, error) {
	if s.img == nil {
		return ImageInfo{}, ErrNoImageLoaded
	}

	start := time.Now()
	sketch, err := imaging.Sketch(s.img, s.cfg.Sketch.Kernel)
	if err != nil {
		return ImageInfo{}, err
	}

	s.setImage(sketch, s.source)
	s.canvas.Clear()

	b := sketch.Bounds()
	s.logger.Debug("Converted to sketch",
		"kernel", imaging.SketchKernel(s.cfg.Sketch.Kernel, b.Dx(), b.Dy()),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return s.imageInfo(), nil
}

// AutoDraw clears the canvas and redraws the current image as line art:
// traced edges become polylines and dark areas get stippled with dots, both
// in the current color and centered on the canvas.
func (s *Studio) AutoDraw() (DrawResult, error) {
	if s.img == nil {
		return DrawResult{}, ErrNoImageLoaded
	}

	start := time.Now()
	s.canvas.Clear()

	gray := imaging.Grayscale(s.img)
	offset := drawing.CenterOffset(s.canvas.Size(), gray.Bounds().Size())

	boundaries := imaging.ExtractBoundaries(gray, s.cfg.Edges.Low, s.cfg.Edges.High)
	polylines := drawing.EmitPolylines(s.canvas, boundaries, s.color, offset, s.cfg.Edges.StrokeWidth)

	dots := drawing.Shade(s.canvas, gray, s.color, offset, drawing.ShadingOptions{
		Stride:    s.cfg.Shading.Stride,
		Cutoff:    s.cfg.Shading.Cutoff,
		MaxRadius: s.cfg.Shading.MaxRadius,
	})

	s.logger.Info("Drew image", "polylines", polylines, "dots", dots,
		"elapsed", time.Since(start).Round(time.Millisecond))
	return DrawResult{Polylines: polylines, Dots: dots, Offset: offset}, nil
}

// Clear removes every primitive from the canvas and ends any stroke.
func (s *Studio) Clear() {
	s.canvas.Clear()
	s.strokes.Up()
}

// Save renders the canvas to a new PNG in the history directory and records
// it in the ledger. An empty title gets a generated one.
//
// Write failures wrap ErrFileWrite and leave the canvas as it was, so the
// save can be retried.
func (s *Studio) Save(title string) (history.Record, error) {
	name, err := s.nextFilename()
	if err != nil {
		return history.Record{}, fmt.Errorf("%w: %w", ErrFileWrite, err)
	}
	path := filepath.Join(s.ledger.Dir(), name)

	if err := drawing.ExportPNG(path, s.canvas.Primitives(), s.canvas.Size()); err != nil {
		return history.Record{}, fmt.Errorf("%w: %w", ErrFileWrite, err)
	}

	rec, err := s.ledger.Add(name, title)
	if err != nil {
		os.Remove(path)
		return history.Record{}, fmt.Errorf("%w: %w", ErrFileWrite, err)
	}

	s.logger.Info("Saved drawing", "path", rec.Path, "title", rec.Title)
	return rec, nil
}

// nextFilename returns drawing_YYYYMMDD_HHMMSS.png, adding a counter when a
// drawing was already saved within the same second.
func (s *Studio) nextFilename() (string, error) {
	stamp := s.now().Format("20060102_150405")
	name := "drawing_" + stamp + ".png"
	for n := 2; ; n++ {
		_, err := os.Stat(filepath.Join(s.ledger.Dir(), name))
		if errors.Is(err, os.ErrNotExist) {
			return name, nil
		}
		if err != nil {
			return "", err
		}
		name = fmt.Sprintf("drawing_%s_%d.png", stamp, n)
	}
}

// ChooseColor sets the drawing color from a #rrggbb or #rgb string.
func (s *Studio) ChooseColor(hex string) (ColorInfo, error) {
	c, err := imaging.ParseHexColor(hex)
	if err != nil {
		return ColorInfo{}, err
	}
	s.color = c
	s.logger.Debug("Color changed", "color", c)
	return ColorInfo{Color: c, Text: c.ContrastText()}, nil
}

// Color returns the current drawing color.
func (s *Studio) Color() imaging.Color { return s.color }

// SetBrushSize sets the freehand brush size, clamped to the allowed range,
// and returns the size applied.
func (s *Studio) SetBrushSize(n int) int {
	s.brush = clampBrush(n)
	return s.brush
}

// BrushSize returns the freehand brush size.
func (s *Studio) BrushSize() int { return s.brush }

func clampBrush(n int) int {
	return max(config.MinBrushSize, min(n, config.MaxBrushSize))
}

// PointerDown starts a freehand stroke at canvas position (x, y).
func (s *Studio) PointerDown(x, y int) {
	s.strokes.Down(image.Point{X: x, Y: y}, s.color, s.brush)
}

// PointerMove extends the stroke to (x, y). Moves without a preceding
// PointerDown are ignored and report false.
func (s *Studio) PointerMove(x, y int) bool {
	return s.strokes.Move(image.Point{X: x, Y: y}, s.color, s.brush)
}

// PointerUp ends the stroke.
func (s *Studio) PointerUp() {
	s.strokes.Up()
}

// History returns the n most recent records, oldest first. n <= 0 uses the
// configured default.
func (s *Studio) History(n int) []history.Record {
	if n <= 0 {
		n = s.cfg.History.Recent
	}
	return s.ledger.Recent(n)
}

// recent returns the record at position i of the default recent list,
// together with its index in the full ledger.
func (s *Studio) recent(i int) (history.Record, int, error) {
	total := s.ledger.Len()
	start := max(total-s.cfg.History.Recent, 0)
	if i < 0 || i >= total-start {
		return history.Record{}, -1, fmt.Errorf("%w: recent index %d of %d", history.ErrRecordNotFound, i, total-start)
	}
	rec, err := s.ledger.Get(start + i)
	if err != nil {
		return history.Record{}, -1, err
	}
	return rec, start + i, nil
}

// LoadFromHistory makes the saved drawing at position i of the recent list
// the current image, at its saved size, and clears the canvas.
func (s *Studio) LoadFromHistory(i int) (ImageInfo, error) {
	rec, _, err := s.recent(i)
	if err != nil {
		return ImageInfo{}, err
	}
	if _, err := os.Stat(rec.Path); err != nil {
		return ImageInfo{}, fmt.Errorf("%w: %s: %v", history.ErrRecordNotFound, rec.Path, err)
	}

	img, err := s.cache.Load(rec.Path)
	if err != nil {
		return ImageInfo{}, err
	}
	s.setImage(img, rec.Path)
	s.canvas.Clear()

	info := s.imageInfo()
	info.Format = imaging.FormatName(rec.Path)
	s.logger.Info("Loaded drawing from history", "title", rec.Title, "path", rec.Path)
	return info, nil
}

// DeleteFromHistory removes the drawing at position i of the recent list,
// together with its file.
func (s *Studio) DeleteFromHistory(i int) (history.Record, error) {
	rec, idx, err := s.recent(i)
	if err != nil {
		return history.Record{}, err
	}

	if err := s.ledger.Delete(idx); err != nil {
		if errors.Is(err, history.ErrRecordNotFound) {
			return history.Record{}, err
		}
		return history.Record{}, fmt.Errorf("%w: %w", ErrFileWrite, err)
	}
	s.cache.Evict(rec.Path)

	s.logger.Info("Deleted drawing", "title", rec.Title, "path", rec.Path)
	return rec, nil
}

// Render composites the canvas without saving it.
func (s *Studio) Render() *image.RGBA {
	return s.canvas.Render()
}

// State returns a snapshot of the studio.
func (s *Studio) State() State {
	size := s.canvas.Size()
	polylines, dots := s.canvas.Counts()
	st := State{
		Width:      size.X,
		Height:     size.Y,
		Primitives: s.canvas.Len(),
		Polylines:  polylines,
		Dots:       dots,
		Color:      s.color,
		Brush:      s.brush,
		Drawing:    s.strokes.Active(),
	}
	if s.img != nil {
		info := s.imageInfo()
		st.Image = &info
	}
	return st
}

func (s *Studio) setImage(img image.Image, source string) {
	s.img = img
	s.source = source
}

func (s *Studio) imageInfo() ImageInfo {
	b := s.img.Bounds()
	return ImageInfo{
		Source: s.source,
		Width:  b.Dx(),
		Height: b.Dy(),
		Offset: drawing.CenterOffset(s.canvas.Size(), b.Size()),
	}
}
