// Package workflow runs one poll cycle: detect the newest eligible item,
// process it through the pipeline, publish the message, and commit the state.
//
// A run moves through START, DETECTING, then NO_CHANGE or PROCESSING, and ends
// in COMMITTED or FAILED. A run that cannot take the host lock ends in LOCKED
// without touching the source or the state store.
//
// Delivery is at-least-once: the state is written only after a successful
// publish (or a publish skipped by configuration), so any failure before the
// commit leaves the item to be picked up again by the next run.
//
// Build wires the production collaborators from config; tests construct an
// Orchestrator with New and substitute fakes for every external dependency.
package workflow
