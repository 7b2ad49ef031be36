// Package preflight provides readiness checks for the services and paths a
// run depends on.
//
// The CLI "tubepost status" command calls RunAll, which runs the network
// checks concurrently and returns results in a stable order. Individual check
// functions are exported so callers can run a single probe.
package preflight
