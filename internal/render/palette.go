package render

import (
	"image/color"
	"math"

	"github.com/mazznoer/colorgrad"
)

// palette discretizes the turbo colormap into 1-degree temperature bands
// between minLevel and maxLevel.
type palette struct {
	minLevel float64
	colors   []color.Color
}

func newPalette(minLevel, maxLevel float64) *palette {
	grad := colorgrad.Turbo()
	bands := int(maxLevel - minLevel)
	if bands < 1 {
		bands = 1
	}
	colors := make([]color.Color, bands)
	for i := range colors {
		t := 0.0
		if bands > 1 {
			t = float64(i) / float64(bands-1)
		}
		colors[i] = grad.At(t)
	}
	return &palette{minLevel: minLevel, colors: colors}
}

// colorFor returns the band color for a value in °C. Out-of-range values are
// clamped to the end bands so every grid cell receives a fill.
func (p *palette) colorFor(v float64) color.Color {
	i := int(math.Floor(v - p.minLevel))
	if i < 0 {
		i = 0
	}
	if i >= len(p.colors) {
		i = len(p.colors) - 1
	}
	return p.colors[i]
}

func (p *palette) bands() int { return len(p.colors) }
