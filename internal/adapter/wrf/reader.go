// Package wrf reads and writes WRF model output files in NetCDF format.
package wrf

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"

	"github.com/pantanalmet/meteogram/internal/domain"
)

// WRF variable names the extractor depends on.
const (
	varTemperature = "T2"
	varLatitude    = "XLAT"
	varLongitude   = "XLONG"
	varTimes       = "Times"
)

var requiredVariables = []string{varTemperature, varLatitude, varLongitude, varTimes}

// Reader extracts the fields one rendering run needs from a WRF output file.
type Reader struct {
	logger *slog.Logger
}

// NewReader creates a Reader.
func NewReader(logger *slog.Logger) *Reader {
	return &Reader{logger: logger}
}

// Extract opens the file at path and returns a validated ModelDataset.
// A file that cannot be opened yields a DatasetOpenError; a file lacking any
// required variable yields a MissingVariableError naming it.
func (r *Reader) Extract(path string) (*domain.ModelDataset, error) {
	group, err := netcdf.Open(path)
	if err != nil {
		return nil, &domain.DatasetOpenError{Path: path, Err: err}
	}
	defer group.Close()

	names := group.ListVariables()
	for _, name := range requiredVariables {
		if !slices.Contains(names, name) {
			return nil, &domain.MissingVariableError{Name: name}
		}
	}

	cube, err := readCube(group, varTemperature)
	if err != nil {
		return nil, &domain.DatasetOpenError{Path: path, Err: err}
	}
	lat, err := readGrid(group, varLatitude)
	if err != nil {
		return nil, &domain.DatasetOpenError{Path: path, Err: err}
	}
	lon, err := readGrid(group, varLongitude)
	if err != nil {
		return nil, &domain.DatasetOpenError{Path: path, Err: err}
	}
	times, err := readTimes(group)
	if err != nil {
		return nil, &domain.DatasetOpenError{Path: path, Err: err}
	}

	ds := &domain.ModelDataset{
		Temperature: cube,
		Lat:         lat,
		Lon:         lon,
		RawTimes:    times,
		Path:        path,
	}
	if err := ds.Validate(); err != nil {
		return nil, &domain.DatasetOpenError{Path: path, Err: err}
	}

	ny, nx := 0, 0
	if ds.Steps() > 0 && len(lat) > 0 {
		ny, nx = len(lat), len(lat[0])
	}
	r.logger.Debug("dataset extracted", "path", path, "steps", ds.Steps(), "ny", ny, "nx", nx)
	return ds, nil
}

// readCube reads a (time, y, x) float variable as float64.
func readCube(group api.Group, name string) ([][][]float64, error) {
	vr, err := group.GetVariable(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	switch v := vr.Values.(type) {
	case [][][]float32:
		cube := make([][][]float64, len(v))
		for t := range v {
			cube[t] = toFloat64Grid(v[t])
		}
		return cube, nil
	case [][][]float64:
		return v, nil
	default:
		return nil, fmt.Errorf("%s: unexpected type %T, want a (time, y, x) float cube", name, vr.Values)
	}
}

// readGrid reads a static coordinate grid. WRF writes XLAT/XLONG with a
// leading Time dimension; only the first record is geolocated data, the rest
// are copies, so a 3-D value collapses to its first slice.
func readGrid(group api.Group, name string) ([][]float64, error) {
	vr, err := group.GetVariable(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	switch v := vr.Values.(type) {
	case [][]float32:
		return toFloat64Grid(v), nil
	case [][]float64:
		return v, nil
	case [][][]float32:
		if len(v) == 0 {
			return nil, fmt.Errorf("%s: empty time dimension", name)
		}
		return toFloat64Grid(v[0]), nil
	case [][][]float64:
		if len(v) == 0 {
			return nil, fmt.Errorf("%s: empty time dimension", name)
		}
		return v[0], nil
	default:
		return nil, fmt.Errorf("%s: unexpected type %T, want a (y, x) float grid", name, vr.Values)
	}
}

// readTimes reads the per-step timestamp strings.
func readTimes(group api.Group) ([]string, error) {
	vr, err := group.GetVariable(varTimes)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", varTimes, err)
	}
	switch v := vr.Values.(type) {
	case []string:
		return v, nil
	case string:
		return []string{v}, nil
	default:
		return nil, fmt.Errorf("%s: unexpected type %T, want character timestamps", varTimes, vr.Values)
	}
}

func toFloat64Grid(grid [][]float32) [][]float64 {
	out := make([][]float64, len(grid))
	for y, row := range grid {
		out[y] = make([]float64, len(row))
		for x, v := range row {
			out[y][x] = float64(v)
		}
	}
	return out
}
