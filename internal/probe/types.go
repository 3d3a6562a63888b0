package probe

import (
	"strconv"
	"strings"
)

// VideoStream holds the parsed properties of a single video stream.
type VideoStream struct {
	Index        int
	Codec        string
	PixFmt       string
	Width        int
	Height       int
	Duration     float64 // Seconds; 0 when ffprobe reports none.
	AvgFrameRate string
}

// ProbeResult is the parsed output of a single ffprobe JSON call.
// PrimaryVideo is the first non-attached-pic video stream (nil if none).
// Container duration is not read: a clip's length is its video stream's.
type ProbeResult struct {
	PrimaryVideo *VideoStream
}

// Asset is one clip as seen by the sorting and composition stages.
type Asset struct {
	Path      string
	Width     int
	Height    int
	Duration  float64 // Seconds.
	FrameRate float64 // Frames per second; 0 when unknown.
}

// Resolution returns "WxH".
func (a Asset) Resolution() string {
	return strconv.Itoa(a.Width) + "x" + strconv.Itoa(a.Height)
}

// FrameRate returns the primary video stream's average frame rate, parsed
// from ffprobe's "num/den" form. It returns 0 when the rate is absent or
// degenerate ("0/0").
func (p *ProbeResult) FrameRate() float64 {
	if p.PrimaryVideo == nil {
		return 0
	}
	return parseRate(p.PrimaryVideo.AvgFrameRate)
}

// Asset reduces the result to an [Asset] for path. It returns
// [ErrNoVideoStream] when the file has no usable video stream.
func (p *ProbeResult) Asset(path string) (Asset, error) {
	v := p.PrimaryVideo
	if v == nil {
		return Asset{}, ErrNoVideoStream
	}
	return Asset{
		Path:      path,
		Width:     v.Width,
		Height:    v.Height,
		Duration:  v.Duration,
		FrameRate: p.FrameRate(),
	}, nil
}

func parseRate(s string) float64 {
	num, den, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return parseFloat(num)
	}
	n, d := parseFloat(num), parseFloat(den)
	if n <= 0 || d <= 0 {
		return 0
	}
	return n / d
}
