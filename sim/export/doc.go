// Package export provides observation sinks that persist or publish a run
// while it executes.
//
//   - TSVWriter streams the seven per-series text files.
//   - SQLiteStore records runs and observations in a SQLite database.
//   - Gauges mirrors the latest observation into Prometheus gauges.
//
// Every sink implements sim.Observer and can be combined with sim.Observers.
package export
