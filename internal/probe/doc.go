// Package probe inspects clips with ffprobe. A single JSON call per file
// yields the first video stream's geometry, duration and frame rate, which
// are reduced to an [Asset] for the sorting and composition stages.
//
// Assets are never cached: every preprocessing step that rewrites a file
// must re-probe it, so callers hold an [Asset] only for the step that
// produced it.
package probe
