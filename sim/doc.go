// Package sim provides the event-driven engine for the bacteria / lambda-phage
// co-evolution model.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - event.go: event kinds and the Event record (owner, rate, kind, validity)
//   - event_pool.go: the pending-event pool, lazy invalidation and first-reaction selection
//   - simulator.go: the loop (compact → extinction check → select → fire → observe → budget → consistency)
//   - bacterium.go, phage.go: per-organism state machines
//
// # Time Advance
//
// Every iteration draws one exponential delay per valid event and fires the
// smallest. This consumes one uniform draw per pending event per iteration;
// it is not Gillespie's single-draw Direct Method.
//
// # State
//
// Population owns both registries and maintains trait sums and the infected
// count incrementally. Phage.Host and Bacterium.Resident are non-owning links,
// cleared whenever either side is removed.
//
// Sub-packages:
//   - sim/trace/: observation records, in-memory series, trace lines
//   - sim/export/: TSV, SQLite and Prometheus observation sinks
package sim
