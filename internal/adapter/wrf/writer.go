package wrf

import (
	"fmt"

	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-netcdf/netcdf/cdf"

	"github.com/pantanalmet/meteogram/internal/domain"
)

// WriteDataset writes ds to path in NetCDF classic format using WRF variable
// naming, with XLAT/XLONG replicated per time step the way WRF emits them.
// The renderer never writes datasets; this exists for cmd/gengrid and the
// test fixtures.
func WriteDataset(path string, ds *domain.ModelDataset) error {
	if err := ds.Validate(); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}

	cw, err := cdf.OpenWriter(path)
	if err != nil {
		return fmt.Errorf("write dataset %s: %w", path, err)
	}

	dims := []string{"Time", "south_north", "west_east"}
	steps := ds.Steps()

	cube := make([][][]float32, steps)
	lat := make([][][]float32, steps)
	lon := make([][][]float32, steps)
	for t := 0; t < steps; t++ {
		cube[t] = toFloat32Grid(ds.Temperature[t])
		lat[t] = toFloat32Grid(ds.Lat)
		lon[t] = toFloat32Grid(ds.Lon)
	}

	vars := []struct {
		name   string
		values interface{}
		dims   []string
	}{
		{varTemperature, cube, dims},
		{varLatitude, lat, dims},
		{varLongitude, lon, dims},
		{varTimes, ds.RawTimes, []string{"Time"}},
	}
	for _, v := range vars {
		if err := cw.AddVar(v.name, api.Variable{
			Values:     v.values,
			Dimensions: v.dims,
			Attributes: nil,
		}); err != nil {
			cw.Close()
			return fmt.Errorf("write variable %s: %w", v.name, err)
		}
	}

	if err := cw.Close(); err != nil {
		return fmt.Errorf("write dataset %s: %w", path, err)
	}
	return nil
}

func toFloat32Grid(grid [][]float64) [][]float32 {
	out := make([][]float32, len(grid))
	for y, row := range grid {
		out[y] = make([]float32, len(row))
		for x, v := range row {
			out[y][x] = float32(v)
		}
	}
	return out
}
