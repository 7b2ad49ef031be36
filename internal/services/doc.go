// Package services defines shared utilities consumed by the pipeline stages
// and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp item IDs, stage names, and correlation
//     identifiers for logging.
//   - Error kind markers plus the Wrap helper so every failure carries the
//     stage and operation that produced it, and Kind for stable labels in
//     logs, metrics, and notifications.
//
// Use these helpers when wiring new integrations so operational behaviour
// (error classification, observability) stays uniform across a run.
package services
