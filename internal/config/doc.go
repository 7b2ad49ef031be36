// Package config loads, normalizes, and validates tubepost configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML or YAML files, and honours environment fallbacks such
// as YOUTUBE_API_KEY and OPENROUTER_API_KEY. The Config type centralizes every
// knob a run needs so the orchestrator receives credentials and collection
// identifiers as explicit fields instead of reading the environment itself.
//
// Structural problems are reported by Validate. Missing mandatory credentials
// are reported separately by ValidateCredentials so commands that never touch
// the network (config init, state show with a file backend) keep working.
package config
