package render

import (
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantanalmet/meteogram/internal/adapter/naturalearth"
	"github.com/pantanalmet/meteogram/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testRenderer(t *testing.T, opts Options) *Renderer {
	t.Helper()
	if opts.DPI == 0 {
		opts.DPI = 40 // keep test canvases small
	}
	r, err := New(opts, &naturalearth.Layers{}, testLogger())
	require.NoError(t, err)
	return r
}

// singleCellDataset builds a 1x1 grid run with the given kelvin values.
func singleCellDataset(temps ...float64) *domain.ModelDataset {
	cube := make([][][]float64, len(temps))
	times := make([]string, len(temps))
	for i, k := range temps {
		cube[i] = [][]float64{{k}}
		times[i] = "2024-06-01_00:00:00"
	}
	return &domain.ModelDataset{
		Temperature: cube,
		Lat:         [][]float64{{-20.44}},
		Lon:         [][]float64{{-54.61}},
		RawTimes:    times,
	}
}

func TestFrameName(t *testing.T) {
	assert.Equal(t, "000.png", FrameName(0))
	assert.Equal(t, "007.png", FrameName(7))
	assert.Equal(t, "119.png", FrameName(119))

	names := make([]string, 0, 120)
	for i := 0; i < 120; i++ {
		names = append(names, FrameName(i))
	}
	assert.True(t, sort.StringsAreSorted(names),
		"frame names must sort lexicographically in step order")
}

func TestNew_RequiresBorders(t *testing.T) {
	_, err := New(Options{}, nil, testLogger())
	var refErr *domain.ReferenceDataError
	assert.ErrorAs(t, err, &refErr)
}

func TestNew_EmptyContourRange(t *testing.T) {
	_, err := New(Options{MinLevel: 20, MaxLevel: 10}, &naturalearth.Layers{}, testLogger())
	assert.Error(t, err)
}

func TestRenderFrame_WritesPNG(t *testing.T) {
	dir := t.TempDir()
	r := testRenderer(t, Options{OutputDir: dir})

	ds := &domain.ModelDataset{
		Temperature: [][][]float64{
			{{295, 296, 297}, {298, 299, 300}, {301, 302, 303}},
		},
		Lat:      [][]float64{{-21, -21, -21}, {-20.5, -20.5, -20.5}, {-20, -20, -20}},
		Lon:      [][]float64{{-55, -54.5, -54}, {-55, -54.5, -54}, {-55, -54.5, -54}},
		RawTimes: []string{"2024-06-01_00:00:00"},
	}
	label := domain.TimeLabel{Display: "31/05 20h", Weekday: "Fri"}

	path, err := r.RenderFrame(ds, 0, label)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "000.png"), path)

	img := decodeFrame(t, path)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 320, img.Bounds().Dy())
}

func TestRenderFrame_StepOutOfRange(t *testing.T) {
	r := testRenderer(t, Options{OutputDir: t.TempDir()})
	ds := singleCellDataset(280)

	_, err := r.RenderFrame(ds, 1, domain.TimeLabel{})
	assert.Error(t, err)
	_, err = r.RenderFrame(ds, -1, domain.TimeLabel{})
	assert.Error(t, err)
}

func TestRenderFrame_CelsiusBandColors(t *testing.T) {
	// 280.0 K = 6.85 °C, 300.5 K = 27.35 °C, 310.0 K = 36.85 °C.
	dir := t.TempDir()
	r := testRenderer(t, Options{OutputDir: dir})
	ds := singleCellDataset(280.0, 300.5, 310.0)

	for step, wantCelsius := range []float64{6.85, 27.35, 36.85} {
		path, err := r.RenderFrame(ds, step, domain.TimeLabel{Display: "01/06 00h", Weekday: "Sat"})
		require.NoError(t, err)
		assert.Equal(t, FrameName(step), filepath.Base(path))

		assertPanelColor(t, path, r.pal.colorFor(wantCelsius))
	}
}

func TestRenderFrame_OutOfRangeClamped(t *testing.T) {
	dir := t.TempDir()
	r := testRenderer(t, Options{OutputDir: dir})

	// -23 °C and +57 °C are far outside [5, 39] and must clamp to the end
	// bands rather than render unfilled.
	ds := singleCellDataset(250.15, 330.15)

	path, err := r.RenderFrame(ds, 0, domain.TimeLabel{})
	require.NoError(t, err)
	assertPanelColor(t, path, r.pal.colors[0])

	path, err = r.RenderFrame(ds, 1, domain.TimeLabel{})
	require.NoError(t, err)
	assertPanelColor(t, path, r.pal.colors[len(r.pal.colors)-1])
}

func TestRenderFrame_MissingOutputDir(t *testing.T) {
	r := testRenderer(t, Options{OutputDir: filepath.Join(t.TempDir(), "absent")})
	_, err := r.RenderFrame(singleCellDataset(290), 0, domain.TimeLabel{})
	assert.Error(t, err)
}

func TestPalette_EveryValueGetsAColor(t *testing.T) {
	pal := newPalette(5, 39)
	assert.Equal(t, 34, pal.bands())
	for v := -60.0; v <= 60; v += 0.5 {
		assert.NotNil(t, pal.colorFor(v))
	}
	assert.Equal(t, pal.colors[0], pal.colorFor(4.999))
	assert.Equal(t, pal.colors[0], pal.colorFor(5.0))
	assert.Equal(t, pal.colors[33], pal.colorFor(38.999))
	assert.Equal(t, pal.colors[33], pal.colorFor(39.0))
	assert.Equal(t, pal.colors[33], pal.colorFor(120))
}

func decodeFrame(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	return img
}

// assertPanelColor checks the pixel at the center of the map panel.
func assertPanelColor(t *testing.T, path string, want color.Color) {
	t.Helper()
	img := decodeFrame(t, path)

	plot := plotRect(float64(img.Bounds().Dx()), float64(img.Bounds().Dy()))
	cx := int(plot.x + plot.w/2)
	cy := int(plot.y + plot.h/2)

	got := color.NRGBAModel.Convert(img.At(cx, cy))
	assert.Equal(t, color.NRGBAModel.Convert(want), got,
		"panel center pixel at (%d,%d)", cx, cy)
}
