package ffmpeg

import (
	"bytes"
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The executor is exercised with sh standing in for ffmpeg so the tests do
// not depend on a media toolchain.
func shell(t *testing.T) string {
	t.Helper()
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not found on PATH")
	}
	return sh
}

func TestExecutor_CapturesStderr(t *testing.T) {
	var tee bytes.Buffer
	e := &Executor{Binary: shell(t), Tee: &tee}

	res, err := e.Run(context.Background(), Invocation{Op: "autocrop", Args: []string{"-c", "echo crop=640:360:0:0 >&2"}})
	require.NoError(t, err)
	assert.Contains(t, res.Stderr, "crop=640:360:0:0")
	assert.Equal(t, res.Stderr, tee.String())
}

func TestExecutor_NonZeroExit(t *testing.T) {
	e := &Executor{Binary: shell(t)}

	res, err := e.Run(context.Background(), Invocation{
		Op: "trim", Output: "out.mp4", Args: []string{"-c", "echo Conversion failed! >&2; exit 3"},
	})
	var te *TranscodeError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "trim", te.Op)
	assert.Equal(t, "out.mp4", te.Output)
	assert.False(t, te.TimedOut)
	assert.Contains(t, te.Stderr, "Conversion failed!")
	assert.Equal(t, te.Stderr, res.Stderr)
}

func TestExecutor_Timeout(t *testing.T) {
	e := &Executor{Binary: shell(t), Timeout: 50 * time.Millisecond}

	start := time.Now()
	_, err := e.Run(context.Background(), Invocation{Op: "compose", Args: []string{"-c", "exec sleep 5"}})
	var te *TranscodeError
	require.ErrorAs(t, err, &te)
	assert.True(t, te.TimedOut)
	assert.Less(t, time.Since(start), 4*time.Second)
}
