// Package pipeline turns one content item into a publish-ready message.
//
// Stages run strictly in order and the first failure stops the run:
//
//	acquire -> transcode -> summarize -> format
//
// Intermediate files live in a per-run staging workspace. The raw download
// and the transcoded audio are released right after summarization, and the
// workspace is removed before Run returns on every path, so each artifact is
// deleted exactly once. In title mode acquire and transcode are skipped and
// no artifacts are created.
//
// Errors returned by Run are always *Failure values naming the stage.
package pipeline
