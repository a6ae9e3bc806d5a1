// Package naturalearth loads the static border overlay layers from Natural
// Earth GeoJSON exports.
package naturalearth

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/pantanalmet/meteogram/internal/domain"
)

// Layer file names follow the Natural Earth 1:50m cultural vector naming.
const (
	countriesFile = "ne_50m_admin_0_boundary_lines_land.geojson"
	statesFile    = "ne_50m_admin_1_states_provinces_lines.geojson"
)

// Layers holds the border line work drawn on every frame.
type Layers struct {
	// Countries are national boundary lines.
	Countries []orb.LineString
	// States are state/province boundary lines, drawn thinner.
	States []orb.LineString
}

// Load reads both border layers from dir. A missing or unparsable layer is a
// ReferenceDataError: frames are never rendered with partial overlays.
func Load(dir string) (*Layers, error) {
	countries, err := loadLines(filepath.Join(dir, countriesFile))
	if err != nil {
		return nil, &domain.ReferenceDataError{Layer: "admin-0 boundary lines", Err: err}
	}
	states, err := loadLines(filepath.Join(dir, statesFile))
	if err != nil {
		return nil, &domain.ReferenceDataError{Layer: "admin-1 states/provinces lines", Err: err}
	}
	return &Layers{Countries: countries, States: states}, nil
}

func loadLines(path string) ([]orb.LineString, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	var lines []orb.LineString
	for _, feature := range fc.Features {
		lines = append(lines, flatten(feature.Geometry)...)
	}
	return lines, nil
}

// flatten reduces any supported geometry to bare line strings. Polygon rings
// are kept as closed lines since only their outlines are drawn.
func flatten(g orb.Geometry) []orb.LineString {
	switch geom := g.(type) {
	case orb.LineString:
		return []orb.LineString{geom}
	case orb.MultiLineString:
		lines := make([]orb.LineString, 0, len(geom))
		for _, ls := range geom {
			lines = append(lines, ls)
		}
		return lines
	case orb.Polygon:
		lines := make([]orb.LineString, 0, len(geom))
		for _, ring := range geom {
			lines = append(lines, orb.LineString(ring))
		}
		return lines
	case orb.MultiPolygon:
		var lines []orb.LineString
		for _, poly := range geom {
			for _, ring := range poly {
				lines = append(lines, orb.LineString(ring))
			}
		}
		return lines
	default:
		return nil
	}
}
