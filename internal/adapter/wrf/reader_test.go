package wrf

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-netcdf/netcdf/cdf"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantanalmet/meteogram/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testDataset() *domain.ModelDataset {
	return &domain.ModelDataset{
		Temperature: [][][]float64{
			{{280, 281.5}, {282, 283}},
			{{284, 285}, {286, 287.25}},
			{{288, 289}, {290, 291}},
		},
		Lat: [][]float64{{-20.5, -20.5}, {-20.25, -20.25}},
		Lon: [][]float64{{-54.5, -54.25}, {-54.5, -54.25}},
		RawTimes: []string{
			"2024-06-01_00:00:00",
			"2024-06-01_01:00:00",
			"2024-06-01_02:00:00",
		},
	}
}

func TestReader_Extract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wrfout_d02_2024-06-01_4km")
	want := testDataset()
	require.NoError(t, WriteDataset(path, want))

	got, err := NewReader(testLogger()).Extract(path)
	require.NoError(t, err)

	assert.Equal(t, 3, got.Steps())
	assert.Equal(t, path, got.Path)
	if diff := cmp.Diff(want.Temperature, got.Temperature); diff != "" {
		t.Errorf("temperature mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want.Lat, got.Lat); diff != "" {
		t.Errorf("latitude mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want.Lon, got.Lon); diff != "" {
		t.Errorf("longitude mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, want.RawTimes, got.RawTimes)
}

func TestReader_Extract_MissingVariable(t *testing.T) {
	for _, missing := range []string{"T2", "XLAT", "XLONG", "Times"} {
		t.Run(missing, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "wrfout_d02_partial_4km")
			writeFixtureWithout(t, path, missing)

			_, err := NewReader(testLogger()).Extract(path)
			var missErr *domain.MissingVariableError
			require.ErrorAs(t, err, &missErr)
			assert.Equal(t, missing, missErr.Name)
		})
	}
}

func TestReader_Extract_OpenError(t *testing.T) {
	_, err := NewReader(testLogger()).Extract(filepath.Join(t.TempDir(), "absent"))
	var openErr *domain.DatasetOpenError
	assert.ErrorAs(t, err, &openErr)
}

func TestReader_Extract_ShapeMismatch(t *testing.T) {
	// Three temperature steps but only two time entries violates the dataset
	// invariant and must be rejected as a corrupt file.
	path := filepath.Join(t.TempDir(), "wrfout_d02_corrupt_4km")
	ds := testDataset()

	cw, err := cdf.OpenWriter(path)
	require.NoError(t, err)
	dims := []string{"Time", "south_north", "west_east"}
	cube := make([][][]float32, ds.Steps())
	lat := make([][][]float32, ds.Steps())
	lon := make([][][]float32, ds.Steps())
	for i := range cube {
		cube[i] = toFloat32Grid(ds.Temperature[i])
		lat[i] = toFloat32Grid(ds.Lat)
		lon[i] = toFloat32Grid(ds.Lon)
	}
	require.NoError(t, cw.AddVar("T2", api.Variable{Values: cube, Dimensions: dims}))
	require.NoError(t, cw.AddVar("XLAT", api.Variable{Values: lat, Dimensions: dims}))
	require.NoError(t, cw.AddVar("XLONG", api.Variable{Values: lon, Dimensions: dims}))
	require.NoError(t, cw.AddVar("Times", api.Variable{
		Values:     ds.RawTimes[:2],
		Dimensions: []string{"short_time"},
	}))
	require.NoError(t, cw.Close())

	_, err = NewReader(testLogger()).Extract(path)
	var openErr *domain.DatasetOpenError
	assert.ErrorAs(t, err, &openErr)
}

func TestWriteDataset_InvalidDataset(t *testing.T) {
	ds := testDataset()
	ds.RawTimes = ds.RawTimes[:1]
	err := WriteDataset(filepath.Join(t.TempDir(), "bad"), ds)
	assert.Error(t, err)
}

// writeFixtureWithout writes a WRF-shaped file omitting one variable.
func writeFixtureWithout(t *testing.T, path, missing string) {
	t.Helper()
	ds := testDataset()

	cw, err := cdf.OpenWriter(path)
	require.NoError(t, err)

	dims := []string{"Time", "south_north", "west_east"}
	steps := ds.Steps()
	cube := make([][][]float32, steps)
	lat := make([][][]float32, steps)
	lon := make([][][]float32, steps)
	for i := 0; i < steps; i++ {
		cube[i] = toFloat32Grid(ds.Temperature[i])
		lat[i] = toFloat32Grid(ds.Lat)
		lon[i] = toFloat32Grid(ds.Lon)
	}

	vars := []struct {
		name   string
		values interface{}
		dims   []string
	}{
		{"T2", cube, dims},
		{"XLAT", lat, dims},
		{"XLONG", lon, dims},
		{"Times", ds.RawTimes, []string{"Time"}},
	}
	for _, v := range vars {
		if v.name == missing {
			continue
		}
		require.NoError(t, cw.AddVar(v.name, api.Variable{Values: v.values, Dimensions: v.dims}))
	}
	require.NoError(t, cw.Close())
}
