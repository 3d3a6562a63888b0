package ffmpeg

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// TranscodeError reports a failed ffmpeg step: a non-zero exit, a timeout,
// or a run that left no output file behind.
type TranscodeError struct {
	Op       string // Step name, e.g. "trim", "autocrop", "compose".
	Output   string
	ExitErr  error // nil when the tool exited cleanly but produced nothing.
	TimedOut bool
	Stderr   string
}

func (e *TranscodeError) Error() string {
	var reason string
	switch {
	case e.TimedOut:
		reason = "timed out"
	case e.ExitErr != nil:
		reason = e.ExitErr.Error()
	default:
		reason = "no output file produced"
	}
	msg := fmt.Sprintf("%s %s: %s", e.Op, e.Output, reason)
	if line := LastLine(e.Stderr); line != "" {
		msg += ": " + line
	}
	return msg
}

func (e *TranscodeError) Unwrap() error { return e.ExitErr }

// LastLine returns the last non-empty line of ffmpeg's diagnostic output,
// which is where the fatal message normally lands.
func LastLine(stderr string) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}

// reCropHint matches cropdetect's per-frame suggestion. Values may be
// negative when a window contains no picture at all.
var reCropHint = regexp.MustCompile(`crop=(-?\d+):(-?\d+):(-?\d+):(-?\d+)`)

// reUnknownEncoder and reNoSuchFilter classify capability failures seen by
// the diagnostics check.
var (
	reUnknownEncoder = regexp.MustCompile(`(?i)Unknown encoder|Encoder not found`)
	reNoSuchFilter   = regexp.MustCompile(`(?i)No such filter|Filter not found`)
)

// ParseLastCrop returns the last crop rectangle in cropdetect output.
// Later samples have seen more frames, so the last one is authoritative.
// Rectangles with a non-positive size are ignored.
func ParseLastCrop(stderr string) (Rect, bool) {
	matches := reCropHint.FindAllStringSubmatch(stderr, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		r := Rect{W: atoi(m[1]), H: atoi(m[2]), X: atoi(m[3]), Y: atoi(m[4])}
		if r.W > 0 && r.H > 0 && r.X >= 0 && r.Y >= 0 {
			return r, true
		}
		// A degenerate last sample means the window ended on black; the
		// newest valid sample still describes the picture.
	}
	return Rect{}, false
}

// MatchUnknownEncoder reports whether stderr names a missing encoder.
func MatchUnknownEncoder(stderr string) bool {
	return reUnknownEncoder.MatchString(stderr)
}

// MatchNoSuchFilter reports whether stderr names a missing filter.
func MatchNoSuchFilter(stderr string) bool {
	return reNoSuchFilter.MatchString(stderr)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
