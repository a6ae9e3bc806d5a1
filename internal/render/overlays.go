package render

import (
	"math"
	"strconv"

	"github.com/fogleman/gg"
	"github.com/paulmach/orb"

	"github.com/pantanalmet/meteogram/internal/domain"
)

// drawBorders overlays national boundary lines (dashed) and then the thinner
// state/province lines, clipped to the map panel.
func (r *Renderer) drawBorders(dc *gg.Context, proj projection) {
	dc.Push()
	r.clipToPlot(dc)
	defer dc.Pop()

	dc.SetRGB(0, 0, 0)
	dc.SetDash(r.scale(3), r.scale(3))
	dc.SetLineWidth(r.scale(1.2))
	strokeLines(dc, proj, r.borders.Countries)

	dc.SetDash()
	dc.SetLineWidth(r.scale(0.6))
	strokeLines(dc, proj, r.borders.States)
}

func strokeLines(dc *gg.Context, proj projection, lines []orb.LineString) {
	for _, line := range lines {
		if len(line) < 2 {
			continue
		}
		dc.NewSubPath()
		for i, pt := range line {
			x, y := proj.toPixel(pt.Lon(), pt.Lat())
			if i == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.Stroke()
	}
}

// drawColorbar renders the vertical temperature legend to the right of the
// map panel, band 0 at the bottom, with ticks every 5 °C.
func (r *Renderer) drawColorbar(dc *gg.Context, plot rect) {
	w := float64(dc.Width())
	barW := 0.030 * w
	barH := plot.h * 0.8
	x := plot.x + plot.w + 0.025*w
	y := plot.y + (plot.h-barH)/2

	n := r.pal.bands()
	bandH := barH / float64(n)
	for i := 0; i < n; i++ {
		dc.SetColor(r.pal.colors[i])
		// +0.5 hides hairline seams between adjacent bands.
		dc.DrawRectangle(x, y+barH-float64(i+1)*bandH, barW, bandH+0.5)
		dc.Fill()
	}

	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(r.scale(1))
	dc.DrawRectangle(x, y, barW, barH)
	dc.Stroke()

	dc.SetFontFace(r.tickFace)
	span := float64(n)
	for v := math.Ceil(r.opts.MinLevel/5) * 5; v <= r.opts.MinLevel+span; v += 5 {
		ty := y + barH - (v-r.opts.MinLevel)/span*barH
		dc.DrawLine(x+barW, ty, x+barW+r.scale(4), ty)
		dc.Stroke()
		dc.DrawStringAnchored(strconv.FormatFloat(v, 'f', -1, 64), x+barW+r.scale(7), ty, 0, 0.35)
	}

	lx := x + barW + 0.045*w
	ly := y + barH/2
	dc.Push()
	dc.RotateAbout(gg.Radians(90), lx, ly)
	dc.SetFontFace(r.labelFace)
	dc.DrawStringAnchored("Temperature (°C)", lx, ly, 0.5, 0.35)
	dc.Pop()
}

// drawGraticule draws coordinate gridlines across the panel with labels on
// all four edges.
func (r *Renderer) drawGraticule(dc *gg.Context, proj projection) {
	plot := proj.rect
	stepLon := niceStep(proj.lonMax - proj.lonMin)
	stepLat := niceStep(proj.latMax - proj.latMin)

	dc.SetFontFace(r.tickFace)
	pad := r.scale(5)

	for lon := math.Ceil(proj.lonMin/stepLon) * stepLon; lon <= proj.lonMax+1e-9; lon += stepLon {
		x, _ := proj.toPixel(lon, proj.latMin)
		dc.SetRGBA(0.5, 0.5, 0.5, 0.6)
		dc.SetLineWidth(r.scale(0.5))
		dc.DrawLine(x, plot.y, x, plot.y+plot.h)
		dc.Stroke()

		dc.SetRGB(0, 0, 0)
		label := formatLon(lon)
		dc.DrawStringAnchored(label, x, plot.y-pad, 0.5, 0)
		dc.DrawStringAnchored(label, x, plot.y+plot.h+pad, 0.5, 1)
	}

	for lat := math.Ceil(proj.latMin/stepLat) * stepLat; lat <= proj.latMax+1e-9; lat += stepLat {
		_, y := proj.toPixel(proj.lonMin, lat)
		dc.SetRGBA(0.5, 0.5, 0.5, 0.6)
		dc.SetLineWidth(r.scale(0.5))
		dc.DrawLine(plot.x, y, plot.x+plot.w, y)
		dc.Stroke()

		dc.SetRGB(0, 0, 0)
		label := formatLat(lat)
		dc.DrawStringAnchored(label, plot.x-pad, y, 1, 0.35)
		dc.DrawStringAnchored(label, plot.x+plot.w+pad, y, 0, 0.35)
	}

	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(r.scale(1))
	dc.DrawRectangle(plot.x, plot.y, plot.w, plot.h)
	dc.Stroke()
}

// drawCities marks each point of interest and labels it slightly east of the
// marker so the text stays clear of it.
func (r *Renderer) drawCities(dc *gg.Context, proj projection) {
	dc.SetFontFace(r.tickFace)
	for _, city := range r.opts.Cities {
		x, y := proj.toPixel(city.Lon, city.Lat)
		dc.SetRGBA(0, 0, 0, 0.4)
		dc.DrawCircle(x, y, r.scale(3.5))
		dc.Fill()

		tx, _ := proj.toPixel(city.Lon+0.2, city.Lat)
		dc.SetRGBA(0, 0, 0, 0.6)
		dc.DrawStringAnchored(city.Name, tx, y, 0, 0.35)
	}
}

// drawText stamps the title, axis names, and the per-frame local-time caption.
func (r *Renderer) drawText(dc *gg.Context, plot rect, label domain.TimeLabel) {
	w := float64(dc.Width())
	h := float64(dc.Height())

	dc.SetRGB(0, 0, 0)
	dc.SetFontFace(r.titleFace)
	dc.DrawStringAnchored("Temperatura a 2 m", plot.x+plot.w/2, plot.y-r.scale(22), 0.5, 0.35)

	dc.SetFontFace(r.labelFace)
	dc.DrawStringAnchored("Longitude", plot.x+plot.w/2, plot.y+plot.h+r.scale(26), 0.5, 0.35)

	ly := plot.y + plot.h/2
	lx := plot.x - r.scale(40)
	dc.Push()
	dc.RotateAbout(gg.Radians(-90), lx, ly)
	dc.DrawStringAnchored("Latitude", lx, ly, 0.5, 0.35)
	dc.Pop()

	dc.DrawStringAnchored(label.Caption(), 0.45*w, 0.95*h, 0.5, 0.35)
}

// niceStep picks a graticule interval that yields at most ~7 lines.
func niceStep(span float64) float64 {
	for _, step := range []float64{0.25, 0.5, 1, 2, 5, 10, 15} {
		if span/step <= 7 {
			return step
		}
	}
	return 30
}

func formatLon(v float64) string {
	return formatCoord(v, "E", "W")
}

func formatLat(v float64) string {
	return formatCoord(v, "N", "S")
}

func formatCoord(v float64, pos, neg string) string {
	// Walking the graticule by repeated addition accumulates float error;
	// round so labels print as written coordinates.
	v = math.Round(v*1000) / 1000
	if v == 0 {
		return "0°"
	}
	hemi := pos
	if v < 0 {
		hemi = neg
		v = -v
	}
	return strconv.FormatFloat(v, 'f', -1, 64) + "°" + hemi
}
