// Package storage provides JSON-based persistence for counting results.
//
// Each run is flattened into a Snapshot of per-participant records (counts, first legal date,
// error and ranks) and written as result.json in the data directory.
package storage
