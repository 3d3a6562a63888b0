// Package ffmpeg builds and executes the ffmpeg invocations the pipeline
// needs: temporal trim, crop re-encode, black-border detection, solid-color
// placeholder synthesis and the multi-input horizontal stack.
//
// Builders return argument slices without the binary name; a [Runner]
// executes them. [Executor] is the real runner: it bounds every call with
// a timeout and captures stderr so failures and crop hints can be
// classified from the diagnostic stream.
package ffmpeg
