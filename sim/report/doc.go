// Package report persists simulation runs to a SQLite file: one row per run,
// one per epoch, and the final placement layout.
//
// Several runs (for example one per algorithm from the compare command) may
// share a file; each is keyed by a generated run ID.
package report
