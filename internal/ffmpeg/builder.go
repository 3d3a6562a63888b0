package ffmpeg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/backmassage/clipstack/internal/config"
)

// Encoding holds the encoder settings shared by every re-encoding builder.
type Encoding struct {
	Codec             string
	Preset            string
	CRF               int
	PixFmt            string
	PlaceholderPreset string
}

// EncodingFrom extracts the encoder settings from cfg.
func EncodingFrom(cfg *config.Config) Encoding {
	return Encoding{
		Codec:             cfg.Encode.Codec,
		Preset:            cfg.Encode.Preset,
		CRF:               cfg.Encode.CRF,
		PixFmt:            cfg.Encode.PixFmt,
		PlaceholderPreset: cfg.Encode.PlaceholderPreset,
	}
}

// Rect is a crop rectangle as reported by cropdetect: size W×H at offset (X, Y).
type Rect struct {
	W, H, X, Y int
}

// String renders the rectangle in ffmpeg's "W:H:X:Y" form.
func (r Rect) String() string {
	return fmt.Sprintf("%d:%d:%d:%d", r.W, r.H, r.X, r.Y)
}

// Filter returns the crop filter for the rectangle.
func (r Rect) Filter() string { return "crop=" + r.String() }

// CenterCrop returns the rectangle of size w×h centered in a srcW×srcH frame.
func CenterCrop(srcW, srcH, w, h int) Rect {
	return Rect{W: w, H: h, X: (srcW - w) / 2, Y: (srcH - h) / 2}
}

// Trim describes a temporal trim. A positive Start drops everything before
// it; a positive Duration keeps only that many seconds. Either may be zero.
type Trim struct {
	Input    string
	Output   string
	Start    float64
	Duration float64
}

// preamble is shared by every invocation that writes a file.
func preamble() []string {
	return []string{"-hide_banner", "-nostdin", "-y", "-loglevel", "error"}
}

func appendVideoCodec(args []string, enc Encoding) []string {
	return append(args,
		"-c:v", enc.Codec,
		"-preset", enc.Preset,
		"-crf", strconv.Itoa(enc.CRF),
	)
}

// TrimArgs re-encodes video and copies audio unchanged. Seeking happens
// after the input is opened so the cut is frame accurate.
func TrimArgs(t Trim, enc Encoding) []string {
	args := append(preamble(), "-i", t.Input)
	if t.Start > 0 {
		args = append(args, "-ss", formatSeconds(t.Start))
	}
	if t.Duration > 0 {
		args = append(args, "-t", formatSeconds(t.Duration))
	}
	args = appendVideoCodec(args, enc)
	return append(args, "-c:a", "copy", t.Output)
}

// CropArgs re-encodes input through the given crop rectangle, copying audio.
func CropArgs(input, output string, r Rect, enc Encoding) []string {
	args := append(preamble(), "-i", input, "-vf", r.Filter())
	args = appendVideoCodec(args, enc)
	return append(args, "-c:a", "copy", output)
}

// CropDetectArgs runs cropdetect over the first window seconds of input and
// discards the decoded frames. The hints are printed at info level, so
// this is the one invocation that does not lower the log level.
func CropDetectArgs(input string, cfg config.Autocrop) []string {
	return []string{
		"-hide_banner", "-nostdin",
		"-t", formatSeconds(cfg.WindowSeconds),
		"-i", input,
		"-vf", fmt.Sprintf("cropdetect=%d:%d:%d", cfg.Limit, cfg.Round, cfg.Reset),
		"-an", "-f", "null", "-",
	}
}

// Placeholder describes a solid black clip.
type Placeholder struct {
	Output   string
	Width    int
	Height   int
	Duration float64
	FPS      float64
}

// PlaceholderArgs synthesizes a solid black clip from the lavfi color source.
func PlaceholderArgs(p Placeholder, enc Encoding) []string {
	src := fmt.Sprintf("color=c=black:s=%dx%d:d=%s:r=%s",
		p.Width, p.Height, formatSeconds(p.Duration), formatSeconds(p.FPS))
	args := append(preamble(), "-f", "lavfi", "-i", src)
	return append(args,
		"-c:v", enc.Codec,
		"-preset", enc.PlaceholderPreset,
		"-pix_fmt", enc.PixFmt,
		p.Output,
	)
}

// StackArgs feeds every input through filterGraph and encodes the stream
// labelled outLabel (e.g. "[outv]") to output. Audio is not carried.
func StackArgs(inputs []string, filterGraph, outLabel, output string, enc Encoding) []string {
	args := preamble()
	for _, in := range inputs {
		args = append(args, "-i", in)
	}
	args = append(args, "-filter_complex", filterGraph, "-map", outLabel)
	args = appendVideoCodec(args, enc)
	return append(args, "-pix_fmt", enc.PixFmt, output)
}

// CommandLine renders binary plus args for logging, quoting arguments that
// contain spaces or filter-graph punctuation.
func CommandLine(binary string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, binary)
	for _, a := range args {
		if a == "" || strings.ContainsAny(a, " \t;[]'\"") {
			a = strconv.Quote(a)
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}

// formatSeconds prints a float without trailing zeros (5 → "5", 2.5 → "2.5").
func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64)
}
