// Package summary turns an item (its audio or its title and description) into
// a short post title and body using an OpenRouter-compatible model.
//
// Model output is free-form text expected to embed one JSON object with the
// string fields "title" and "summary". ExtractJSON isolates that object by
// taking everything from the first '{' to the last '}', which tolerates prose
// and code fences around it. Anything that does not decode into two non-empty
// fields is reported as services.ErrSummaryParse.
package summary
