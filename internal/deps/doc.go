// Package deps checks that the external tools the pipeline shells out to
// (yt-dlp and ffmpeg) can be found.
package deps
