// Package llm provides an OpenRouter-compatible chat completion client.
//
// The summary stage uses it to send a directive plus either a transcoded audio
// file (as an input_audio content part) or a title and description, and to
// receive a JSON object back.
//
// # Entry Points
//
// NewClient: construct client from Config.
// Client.CompleteJSON: send system/user prompts with optional audio, receive the raw content.
// Client.HealthCheck: verify API key and model availability.
//
// # Retry Behaviour
//
// The client retries on HTTP 408/429/5xx errors, empty completions, and network
// timeouts with exponential backoff (base 1s, max 10s, up to 5 attempts by
// default). Context cancellation aborts retries immediately. These retries
// cover a single logical request; callers never see intermediate failures.
package llm
