package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// ErrNoVideoStream is returned when a file has no video stream.
var ErrNoVideoStream = errors.New("no video stream")

// Error is a probe failure for one file.
type Error struct {
	Path     string
	TimedOut bool
	Err      error
}

func (e *Error) Error() string {
	if e.TimedOut {
		return fmt.Sprintf("ffprobe %q: timed out", e.Path)
	}
	return fmt.Sprintf("ffprobe %q: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Prober turns a clip path into an [Asset].
type Prober interface {
	Probe(ctx context.Context, path string) (Asset, error)
}

// Client runs ffprobe. The zero value uses "ffprobe" from PATH with no
// timeout.
type Client struct {
	Binary  string
	Timeout time.Duration // Zero disables the per-call bound.
}

// NewClient returns a Client for the given binary and timeout.
func NewClient(binary string, timeout time.Duration) *Client {
	return &Client{Binary: binary, Timeout: timeout}
}

// Inspect runs a single ffprobe JSON call against path.
func (c *Client) Inspect(ctx context.Context, path string) (*ProbeResult, error) {
	binary := c.Binary
	if binary == "" {
		binary = "ffprobe"
	}
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, binary,
		"-v", "error",
		"-print_format", "json",
		"-select_streams", "v",
		"-show_streams",
		path,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &Error{Path: path, TimedOut: true, Err: ctx.Err()}
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return nil, &Error{Path: path, Err: err}
	}

	res, err := ParseJSON(out)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	return res, nil
}

// Probe implements [Prober].
func (c *Client) Probe(ctx context.Context, path string) (Asset, error) {
	res, err := c.Inspect(ctx, path)
	if err != nil {
		return Asset{}, err
	}
	a, err := res.Asset(path)
	if err != nil {
		return Asset{}, &Error{Path: path, Err: err}
	}
	return a, nil
}

// ParseJSON converts raw ffprobe JSON output into a ProbeResult.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (*ProbeResult, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	return buildResult(&raw), nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeStream struct {
	Index        int            `json:"index"`
	CodecName    string         `json:"codec_name"`
	CodecType    string         `json:"codec_type"`
	PixFmt       string         `json:"pix_fmt"`
	Width        int            `json:"width"`
	Height       int            `json:"height"`
	Duration     string         `json:"duration"`
	AvgFrameRate string         `json:"avg_frame_rate"`
	Disposition  map[string]int `json:"disposition"`
}

// --- Conversion from wire types to domain types ---

func buildResult(raw *ffprobeOutput) *ProbeResult {
	pr := &ProbeResult{}
	for i := range raw.Streams {
		s := &raw.Streams[i]
		if s.CodecType != "video" || s.Disposition["attached_pic"] == 1 {
			continue
		}
		pr.PrimaryVideo = &VideoStream{
			Index:        s.Index,
			Codec:        s.CodecName,
			PixFmt:       s.PixFmt,
			Width:        s.Width,
			Height:       s.Height,
			Duration:     parseFloat(s.Duration),
			AvgFrameRate: s.AvgFrameRate,
		}
		break
	}
	return pr
}

// --- Numeric parsing helpers (ffprobe returns numbers as strings) ---

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}
