// Package main hosts the tubepost CLI entrypoint and command graph.
//
// The Cobra command tree loads an optional .env file, resolves configuration,
// and hands off to the workflow package for a single poll cycle ("run"). The
// remaining commands are maintenance helpers: inspecting or resetting the
// stored state, checking dependencies and remote services, scaffolding a
// config file, and sending a test notification.
//
// Keep this package lean: add behaviour to the internal packages first, then
// surface it here as a command or flag.
package main
