package preprocess

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/backmassage/clipstack/internal/config"
	"github.com/backmassage/clipstack/internal/ffmpeg"
	"github.com/backmassage/clipstack/internal/logging"
	"github.com/backmassage/clipstack/internal/probe"
)

// fakeMedia stands in for both ffprobe and ffmpeg. A "clip" is a text file
// holding "W H DURATION FPS"; transcodes read their input clip and write the
// geometry the real tool would produce.
type fakeMedia struct {
	mu      sync.Mutex
	calls   []ffmpeg.Invocation
	hints   map[string]string // input basename → cropdetect stderr
	failOps map[string]bool
}

type clip struct {
	W, H int
	D    float64
	FPS  float64
}

func writeClip(t *testing.T, path string, c clip) {
	t.Helper()
	if err := os.WriteFile(path, []byte(c.encode()), 0o644); err != nil {
		t.Fatal(err)
	}
}

func (c clip) encode() string {
	return fmt.Sprintf("%d %d %s %s\n", c.W, c.H,
		strconv.FormatFloat(c.D, 'f', -1, 64), strconv.FormatFloat(c.FPS, 'f', -1, 64))
}

func readClip(path string) (clip, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return clip{}, err
	}
	var c clip
	if _, err := fmt.Sscanf(string(b), "%d %d %g %g", &c.W, &c.H, &c.D, &c.FPS); err != nil {
		return clip{}, fmt.Errorf("not a clip: %w", err)
	}
	return c, nil
}

func (m *fakeMedia) Probe(_ context.Context, path string) (probe.Asset, error) {
	c, err := readClip(path)
	if err != nil {
		return probe.Asset{}, &probe.Error{Path: path, Err: err}
	}
	return probe.Asset{Path: path, Width: c.W, Height: c.H, Duration: c.D, FrameRate: c.FPS}, nil
}

func argAfter(args []string, flag string) (string, bool) {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag {
			return args[i+1], true
		}
	}
	return "", false
}

func (m *fakeMedia) Run(_ context.Context, inv ffmpeg.Invocation) (ffmpeg.Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, inv)
	m.mu.Unlock()

	if m.failOps[inv.Op] {
		return ffmpeg.Result{Stderr: "Conversion failed!"}, &ffmpeg.TranscodeError{Op: inv.Op, Output: inv.Output, ExitErr: fmt.Errorf("exit status 1")}
	}

	args := inv.Args
	output := args[len(args)-1]

	if src, ok := argAfter(args, "-f"); ok && src == "lavfi" {
		spec, _ := argAfter(args, "-i")
		var c clip
		if _, err := fmt.Sscanf(spec, "color=c=black:s=%dx%d:d=%g:r=%g", &c.W, &c.H, &c.D, &c.FPS); err != nil {
			return ffmpeg.Result{}, err
		}
		return ffmpeg.Result{}, os.WriteFile(output, []byte(c.encode()), 0o644)
	}

	input, _ := argAfter(args, "-i")
	in, err := readClip(input)
	if err != nil {
		return ffmpeg.Result{}, &ffmpeg.TranscodeError{Op: inv.Op, Output: inv.Output, ExitErr: err}
	}

	vf, _ := argAfter(args, "-vf")
	switch {
	case strings.HasPrefix(vf, "cropdetect"):
		return ffmpeg.Result{Stderr: m.hints[filepath.Base(input)]}, nil
	case strings.HasPrefix(vf, "crop="):
		var r ffmpeg.Rect
		if _, err := fmt.Sscanf(vf, "crop=%d:%d:%d:%d", &r.W, &r.H, &r.X, &r.Y); err != nil {
			return ffmpeg.Result{}, err
		}
		in.W, in.H = r.W, r.H
	default: // trim
		if ss, ok := argAfter(args, "-ss"); ok {
			start, _ := strconv.ParseFloat(ss, 64)
			in.D -= start
		}
		if t, ok := argAfter(args, "-t"); ok {
			d, _ := strconv.ParseFloat(t, 64)
			if d < in.D {
				in.D = d
			}
		}
	}
	return ffmpeg.Result{}, os.WriteFile(output, []byte(in.encode()), 0o644)
}

func (m *fakeMedia) ops() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	for i, c := range m.calls {
		out[i] = c.Op
	}
	return out
}

func (m *fakeMedia) reset() {
	m.mu.Lock()
	m.calls = nil
	m.mu.Unlock()
}

func newTestFolder(t *testing.T, name string, m *fakeMedia) *Folder {
	t.Helper()
	dir := filepath.Join(t.TempDir(), name)
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg := config.DefaultConfig()
	return NewFolder(dir, logging.NewWriterLogger(io.Discard, true).With(name), NewTools(&cfg, m, m))
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
