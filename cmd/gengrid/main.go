// Command gengrid writes a synthetic WRF-shaped NetCDF file for local runs
// and test fixtures. The field is a smooth diurnal temperature wave over a
// configurable grid centered on the operational d02 domain, written through
// the same writer the test suites use so fixtures match real reader behavior.
//
// Usage:
//
//	go run ./cmd/gengrid \
//	  -out data/wrf/2024-06-010/wrfout_d02_2024-06-01_4km \
//	  -date 2024-06-01 -hour 0 -steps 120
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/pantanalmet/meteogram/internal/adapter/wrf"
	"github.com/pantanalmet/meteogram/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output file path (required)")
	date := flag.String("date", "2024-06-01", "run initialization date (YYYY-MM-DD)")
	hour := flag.Int("hour", 0, "run cycle hour (0-23)")
	steps := flag.Int("steps", 120, "number of hourly time steps")
	ny := flag.Int("ny", 60, "south-north grid points")
	nx := flag.Int("nx", 80, "west-east grid points")
	baseTemp := flag.Float64("base-temp", 298, "mean temperature in kelvin")
	amplitude := flag.Float64("amplitude", 8, "diurnal swing in kelvin")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	ref, err := domain.ParseReference(*date, *hour, time.UTC)
	if err != nil {
		return err
	}

	ds := synthesize(ref, *steps, *ny, *nx, *baseTemp, *amplitude)
	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return err
	}
	if err := wrf.WriteDataset(*out, ds); err != nil {
		return err
	}

	log.Printf("wrote %s: %d steps, %dx%d grid", *out, *steps, *ny, *nx)
	return nil
}

// The synthetic domain spans the Mato Grosso do Sul d02 extent.
const (
	latSouth = -24.0
	latNorth = -17.0
	lonWest  = -58.0
	lonEast  = -50.5
)

// synthesize builds a run whose temperature follows a diurnal sine wave with
// a north-south gradient, warm enough to sweep most of the color range.
func synthesize(ref time.Time, steps, ny, nx int, baseTemp, amplitude float64) *domain.ModelDataset {
	lat := make([][]float64, ny)
	lon := make([][]float64, ny)
	for y := 0; y < ny; y++ {
		lat[y] = make([]float64, nx)
		lon[y] = make([]float64, nx)
		for x := 0; x < nx; x++ {
			lat[y][x] = latSouth + (latNorth-latSouth)*float64(y)/float64(max(ny-1, 1))
			lon[y][x] = lonWest + (lonEast-lonWest)*float64(x)/float64(max(nx-1, 1))
		}
	}

	cube := make([][][]float64, steps)
	times := make([]string, steps)
	for t := 0; t < steps; t++ {
		instant := ref.Add(time.Duration(t) * time.Hour)
		times[t] = instant.Format("2006-01-02_15:04:05")

		// Peak heat around 18 UTC (early afternoon local).
		diurnal := amplitude * math.Sin(2*math.Pi*(float64(instant.Hour())-12)/24)
		cube[t] = make([][]float64, ny)
		for y := 0; y < ny; y++ {
			cube[t][y] = make([]float64, nx)
			for x := 0; x < nx; x++ {
				northward := 3 * float64(y) / float64(max(ny-1, 1))
				cube[t][y][x] = baseTemp + diurnal + northward
			}
		}
	}

	return &domain.ModelDataset{
		Temperature: cube,
		Lat:         lat,
		Lon:         lon,
		RawTimes:    times,
	}
}
