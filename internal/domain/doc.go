// Package domain models one WRF forecast run and its presentation metadata.
//
// # Data Source
//
// Input files are WRF (Weather Research and Forecasting) model output in
// NetCDF format, one file per forecast run for the inner d02 domain at 4 km
// resolution. The operational transfer job drops each run into a directory
// keyed by the run's initialization date and cycle hour concatenated
// ("<YYYY-MM-DD><H>"), and the file itself matches the fixed naming pattern
// "*d02*4km".
//
// # WRF Variable Conventions
//
// The renderer depends on four variables:
//
//	T2     2-meter air temperature in kelvin, dimensions (Time, south_north, west_east).
//	XLAT   latitude of each grid cell in degrees, static across the run. WRF
//	       writes it with a leading Time dimension; only the first record is used.
//	XLONG  longitude grid, same shape as XLAT.
//	Times  one 19-character timestamp per output step, e.g. "2024-06-01_00:00:00".
//
// The Times strings are treated as opaque step identifiers: WRF emits exactly
// one output record per forecast hour, so the step index drives the clock.
// Step i is i hours after the run's initialization instant, which arrives
// pre-validated from the boundary layer. This index-driven cadence is
// authoritative even when a file carries malformed Times entries.
//
// # Time Zones
//
// Initialization instants are UTC. Display labels are converted to a target
// zone (America/Cuiaba for the operational Pantanal runs). Conversion uses the
// offset in effect at each instant, so a DST transition in the target zone
// produces a skipped or repeated wall-clock hour in the labels. That is the
// correct reading of the forecast and is not smoothed over.
package domain
