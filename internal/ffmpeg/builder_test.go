package ffmpeg

import (
	"strings"
	"testing"

	"github.com/backmassage/clipstack/internal/config"
	"github.com/stretchr/testify/assert"
)

func testEncoding() Encoding {
	cfg := config.DefaultConfig()
	return EncodingFrom(&cfg)
}

// containsSeq reports whether want appears in args as a contiguous run.
func containsSeq(args []string, want ...string) bool {
	for i := 0; i+len(want) <= len(args); i++ {
		ok := true
		for j := range want {
			if args[i+j] != want[j] {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

func indexOf(args []string, s string) int {
	for i, a := range args {
		if a == s {
			return i
		}
	}
	return -1
}

func TestTrimArgs_KeepTail(t *testing.T) {
	args := TrimArgs(Trim{Input: "ABF12_cut_cut_cut.mp4", Output: "ABF12_cut_cut_cut_trimmed.mp4", Start: 2.5}, testEncoding())

	assert.True(t, containsSeq(args, "-i", "ABF12_cut_cut_cut.mp4", "-ss", "2.5"), "seek follows the input: %v", args)
	assert.Equal(t, -1, indexOf(args, "-t"))
	assert.True(t, containsSeq(args, "-c:v", "libx264", "-preset", "medium", "-crf", "23"))
	assert.True(t, containsSeq(args, "-c:a", "copy", "ABF12_cut_cut_cut_trimmed.mp4"))
	assert.Equal(t, "ABF12_cut_cut_cut_trimmed.mp4", args[len(args)-1])
}

func TestTrimArgs_KeepHead(t *testing.T) {
	args := TrimArgs(Trim{Input: "SM2_cut_cut.mp4", Output: "SM2_cut_cut_trimmed.mp4", Duration: 7}, testEncoding())

	assert.Equal(t, -1, indexOf(args, "-ss"))
	assert.True(t, containsSeq(args, "-t", "7"))
}

func TestCropArgs(t *testing.T) {
	args := CropArgs("gt_1.mp4", "gt_1_cropped.mp4", Rect{W: 640, H: 352, X: 0, Y: 4}, testEncoding())
	assert.True(t, containsSeq(args, "-vf", "crop=640:352:0:4"))
	assert.True(t, containsSeq(args, "-c:a", "copy", "gt_1_cropped.mp4"))
}

func TestCenterCrop(t *testing.T) {
	tests := []struct {
		name             string
		srcW, srcH, w, h int
		want             Rect
	}{
		{"height only", 1280, 1080, 1280, 976, Rect{1280, 976, 0, 52}},
		{"both axes", 1300, 1000, 1280, 976, Rect{1280, 976, 10, 12}},
		{"odd remainder floors", 641, 361, 640, 360, Rect{640, 360, 0, 0}},
		{"same size", 640, 360, 640, 360, Rect{640, 360, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CenterCrop(tt.srcW, tt.srcH, tt.w, tt.h))
		})
	}
}

func TestCropDetectArgs_WindowIsInputOption(t *testing.T) {
	cfg := config.DefaultConfig()
	args := CropDetectArgs("clip.mp4", cfg.Autocrop)

	ti, ii := indexOf(args, "-t"), indexOf(args, "-i")
	assert.True(t, ti >= 0 && ti < ii, "window must bound the input: %v", args)
	assert.True(t, containsSeq(args, "-t", "3"))
	assert.True(t, containsSeq(args, "-vf", "cropdetect=20:2:0"))
	assert.True(t, containsSeq(args, "-f", "null", "-"))
	assert.Equal(t, -1, indexOf(args, "-loglevel"), "crop hints are printed at info level")
}

func TestPlaceholderArgs(t *testing.T) {
	args := PlaceholderArgs(Placeholder{
		Output: "hold_placeholder_cropped.mp4", Width: 640, Height: 480, Duration: 4.2, FPS: 12,
	}, testEncoding())

	assert.True(t, containsSeq(args, "-f", "lavfi", "-i", "color=c=black:s=640x480:d=4.2:r=12"))
	assert.True(t, containsSeq(args, "-preset", "ultrafast"))
	assert.True(t, containsSeq(args, "-pix_fmt", "yuv420p", "hold_placeholder_cropped.mp4"))
}

func TestStackArgs(t *testing.T) {
	graph := "[0:v]scale=-1:360[v0];[1:v]scale=-1:360[v1];[v0][v1]hstack=inputs=2[outv]"
	args := StackArgs([]string{"a.mp4", "b.mp4"}, graph, "[outv]", "SM2.mp4", testEncoding())

	assert.True(t, containsSeq(args, "-i", "a.mp4", "-i", "b.mp4", "-filter_complex", graph, "-map", "[outv]"))
	assert.True(t, containsSeq(args, "-pix_fmt", "yuv420p", "SM2.mp4"))
	assert.Equal(t, -1, indexOf(args, "-c:a"))
}

func TestCommandLine_QuotesGraph(t *testing.T) {
	got := CommandLine("ffmpeg", []string{"-i", "my clip.mp4", "-map", "[outv]"})
	assert.Equal(t, `ffmpeg -i "my clip.mp4" -map "[outv]"`, got)
	assert.False(t, strings.Contains(CommandLine("ffmpeg", []string{"-y"}), `"`))
}
