// Package render draws meteogram frames: a discretized 2-meter temperature
// field on a plate carrée canvas with border overlays, a colorbar, a
// graticule, city markers, and a localized caption.
package render

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/pantanalmet/meteogram/internal/adapter/naturalearth"
	"github.com/pantanalmet/meteogram/internal/domain"
)

const kelvinOffset = 273.15

// Options configures frame rendering.
type Options struct {
	OutputDir string
	DPI       int
	// WidthIn and HeightIn are the figure size in inches.
	WidthIn  float64
	HeightIn float64
	// MinLevel and MaxLevel bound the 1 °C color bands.
	MinLevel float64
	MaxLevel float64
	Cities   []domain.PointOfInterest
}

// Renderer produces one PNG frame per time step. It holds only immutable
// state; the raster canvas itself is scoped to each RenderFrame call so no
// figure resources accumulate across a run.
type Renderer struct {
	opts    Options
	borders *naturalearth.Layers
	pal     *palette
	logger  *slog.Logger

	tickFace  font.Face
	labelFace font.Face
	titleFace font.Face
}

// New creates a Renderer. Border layers must already be loaded; frames are
// never rendered without overlays.
func New(opts Options, borders *naturalearth.Layers, logger *slog.Logger) (*Renderer, error) {
	if borders == nil {
		return nil, &domain.ReferenceDataError{Layer: "borders", Err: errors.New("no layers loaded")}
	}
	if opts.DPI <= 0 {
		opts.DPI = 200
	}
	if opts.WidthIn <= 0 {
		opts.WidthIn = 10
	}
	if opts.HeightIn <= 0 {
		opts.HeightIn = 8
	}
	if opts.MinLevel == 0 && opts.MaxLevel == 0 {
		opts.MinLevel, opts.MaxLevel = 5, 39
	}
	if opts.MinLevel >= opts.MaxLevel {
		return nil, fmt.Errorf("contour range [%g, %g] is empty", opts.MinLevel, opts.MaxLevel)
	}

	r := &Renderer{
		opts:    opts,
		borders: borders,
		pal:     newPalette(opts.MinLevel, opts.MaxLevel),
		logger:  logger,
	}

	sfnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse builtin font: %w", err)
	}
	for _, f := range []struct {
		face *font.Face
		size float64
	}{
		{&r.tickFace, 8},
		{&r.labelFace, 10},
		{&r.titleFace, 13},
	} {
		*f.face, err = opentype.NewFace(sfnt, &opentype.FaceOptions{
			Size:    f.size,
			DPI:     float64(opts.DPI),
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, fmt.Errorf("build font face: %w", err)
		}
	}

	return r, nil
}

// FrameName returns the zero-padded file name for a frame index. Names sort
// lexicographically in time-step order by construction.
func FrameName(step int) string {
	return fmt.Sprintf("%03d.png", step)
}

// RenderFrame draws time step `step` of ds and writes it to the output
// directory. The canvas lives only within this call, on success and failure
// paths alike.
func (r *Renderer) RenderFrame(ds *domain.ModelDataset, step int, label domain.TimeLabel) (string, error) {
	if step < 0 || step >= ds.Steps() {
		return "", fmt.Errorf("frame step %d outside dataset with %d steps", step, ds.Steps())
	}

	w := int(r.opts.WidthIn * float64(r.opts.DPI))
	h := int(r.opts.HeightIn * float64(r.opts.DPI))
	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	plot := plotRect(float64(w), float64(h))
	proj := newProjection(ds, plot)

	r.fillTemperature(dc, proj, ds, step)
	r.drawBorders(dc, proj)
	r.drawColorbar(dc, plot)
	r.drawGraticule(dc, proj)
	r.drawCities(dc, proj)
	r.drawText(dc, plot, label)

	path := filepath.Join(r.opts.OutputDir, FrameName(step))
	if err := dc.SavePNG(path); err != nil {
		return "", fmt.Errorf("write frame %s: %w", FrameName(step), err)
	}
	return path, nil
}

// rect is an axis-aligned pixel rectangle.
type rect struct {
	x, y, w, h float64
}

// plotRect reserves margins for the colorbar (right), tick labels, and the
// caption strip (bottom).
func plotRect(w, h float64) rect {
	return rect{x: 0.10 * w, y: 0.07 * h, w: 0.70 * w, h: 0.79 * h}
}

// projection maps geographic coordinates onto the plot rectangle with a
// plate carrée (equirectangular) transform.
type projection struct {
	lonMin, lonMax float64
	latMin, latMax float64
	rect           rect
}

func newProjection(ds *domain.ModelDataset, plot rect) projection {
	p := projection{
		lonMin: math.Inf(1), lonMax: math.Inf(-1),
		latMin: math.Inf(1), latMax: math.Inf(-1),
		rect: plot,
	}
	for y := range ds.Lat {
		for x := range ds.Lat[y] {
			p.latMin = math.Min(p.latMin, ds.Lat[y][x])
			p.latMax = math.Max(p.latMax, ds.Lat[y][x])
			p.lonMin = math.Min(p.lonMin, ds.Lon[y][x])
			p.lonMax = math.Max(p.lonMax, ds.Lon[y][x])
		}
	}
	// Degenerate grids still need a drawable extent.
	if !(p.lonMin < p.lonMax) {
		p.lonMin, p.lonMax = p.lonMin-1, p.lonMax+1
	}
	if !(p.latMin < p.latMax) {
		p.latMin, p.latMax = p.latMin-1, p.latMax+1
	}
	return p
}

func (p projection) toPixel(lon, lat float64) (float64, float64) {
	px := p.rect.x + (lon-p.lonMin)/(p.lonMax-p.lonMin)*p.rect.w
	py := p.rect.y + (p.latMax-lat)/(p.latMax-p.latMin)*p.rect.h
	return px, py
}

// scale converts a size given at 100 DPI to the configured resolution.
func (r *Renderer) scale(v float64) float64 {
	return v * float64(r.opts.DPI) / 100
}

func (r *Renderer) clipToPlot(dc *gg.Context) {
	plot := plotRect(float64(dc.Width()), float64(dc.Height()))
	dc.DrawRectangle(plot.x, plot.y, plot.w, plot.h)
	dc.Clip()
}

// fillTemperature paints one quad per grid cell, colored by the cell's mean
// temperature band. A single-point grid floods the whole panel with its band
// color so degenerate runs still classify visually.
func (r *Renderer) fillTemperature(dc *gg.Context, proj projection, ds *domain.ModelDataset, step int) {
	dc.Push()
	r.clipToPlot(dc)
	defer dc.Pop()

	slice := ds.Temperature[step]
	ny := len(slice)
	nx := 0
	if ny > 0 {
		nx = len(slice[0])
	}

	if ny < 2 || nx < 2 {
		if ny >= 1 && nx >= 1 {
			dc.SetColor(r.pal.colorFor(slice[0][0] - kelvinOffset))
			dc.DrawRectangle(proj.rect.x, proj.rect.y, proj.rect.w, proj.rect.h)
			dc.Fill()
		}
		return
	}

	for y := 0; y < ny-1; y++ {
		for x := 0; x < nx-1; x++ {
			mean := (slice[y][x] + slice[y][x+1] + slice[y+1][x] + slice[y+1][x+1]) / 4
			dc.SetColor(r.pal.colorFor(mean - kelvinOffset))

			x0, y0 := proj.toPixel(ds.Lon[y][x], ds.Lat[y][x])
			x1, y1 := proj.toPixel(ds.Lon[y][x+1], ds.Lat[y][x+1])
			x2, y2 := proj.toPixel(ds.Lon[y+1][x+1], ds.Lat[y+1][x+1])
			x3, y3 := proj.toPixel(ds.Lon[y+1][x], ds.Lat[y+1][x])

			dc.NewSubPath()
			dc.MoveTo(x0, y0)
			dc.LineTo(x1, y1)
			dc.LineTo(x2, y2)
			dc.LineTo(x3, y3)
			dc.ClosePath()
			dc.Fill()
		}
	}
}
