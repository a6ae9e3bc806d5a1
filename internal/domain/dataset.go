package domain

import "fmt"

// ModelDataset holds the fields extracted from one WRF output file. It is
// populated once by the extractor and read-only afterwards.
type ModelDataset struct {
	// Temperature is the 2-meter temperature cube in kelvin,
	// indexed [step][y][x].
	Temperature [][][]float64

	// Lat and Lon are the static coordinate grids in degrees, indexed [y][x].
	Lat [][]float64
	Lon [][]float64

	// RawTimes carries the file's per-step timestamp strings. Only its length
	// matters; see the package documentation.
	RawTimes []string

	// Path is the file the dataset was read from, kept for log context.
	Path string
}

// Steps returns the number of time steps in the run.
func (d *ModelDataset) Steps() int {
	return len(d.Temperature)
}

// Validate checks the structural invariants: the temperature cube's leading
// dimension matches the time sequence, every slice is rectangular, and the
// coordinate grids share the slice shape.
func (d *ModelDataset) Validate() error {
	if len(d.Temperature) != len(d.RawTimes) {
		return fmt.Errorf("temperature has %d steps but time sequence has %d entries",
			len(d.Temperature), len(d.RawTimes))
	}
	if len(d.Temperature) == 0 {
		return nil
	}

	ny := len(d.Temperature[0])
	nx := 0
	if ny > 0 {
		nx = len(d.Temperature[0][0])
	}
	for t, slice := range d.Temperature {
		if len(slice) != ny {
			return fmt.Errorf("step %d has %d rows, want %d", t, len(slice), ny)
		}
		for y, row := range slice {
			if len(row) != nx {
				return fmt.Errorf("step %d row %d has %d columns, want %d", t, y, len(row), nx)
			}
		}
	}

	if err := gridShape("latitude", d.Lat, ny, nx); err != nil {
		return err
	}
	return gridShape("longitude", d.Lon, ny, nx)
}

func gridShape(name string, grid [][]float64, ny, nx int) error {
	if len(grid) != ny {
		return fmt.Errorf("%s grid has %d rows, want %d", name, len(grid), ny)
	}
	for y, row := range grid {
		if len(row) != nx {
			return fmt.Errorf("%s grid row %d has %d columns, want %d", name, y, len(row), nx)
		}
	}
	return nil
}

// PointOfInterest is a fixed labeled location overlaid on every frame.
type PointOfInterest struct {
	Name string
	Lon  float64
	Lat  float64
}
