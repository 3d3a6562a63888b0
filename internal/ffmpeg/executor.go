package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"time"
)

// Invocation is one ffmpeg call.
type Invocation struct {
	Op     string   // Step name carried into errors and logs.
	Args   []string // Without the binary name.
	Output string   // File the call is expected to write; "" for analysis runs.
}

// Result holds the captured diagnostic stream of a finished invocation.
type Result struct {
	Stderr string
}

// Runner executes ffmpeg invocations. Failures are returned as
// *[TranscodeError].
type Runner interface {
	Run(ctx context.Context, inv Invocation) (Result, error)
}

// Executor runs the real ffmpeg binary.
type Executor struct {
	Binary  string
	Timeout time.Duration // Zero disables the per-call bound.
	Tee     io.Writer     // When set, stderr is copied here in real time.
}

// Run executes inv, capturing stderr. A call that outlives Timeout is
// killed and reported with TimedOut set.
func (e *Executor) Run(ctx context.Context, inv Invocation) (Result, error) {
	binary := e.Binary
	if binary == "" {
		binary = "ffmpeg"
	}
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, binary, inv.Args...)
	var stderrBuf bytes.Buffer
	if e.Tee != nil {
		cmd.Stderr = io.MultiWriter(&stderrBuf, e.Tee)
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()
	res := Result{Stderr: stderrBuf.String()}
	if err != nil {
		return res, &TranscodeError{
			Op:       inv.Op,
			Output:   inv.Output,
			ExitErr:  err,
			TimedOut: errors.Is(ctx.Err(), context.DeadlineExceeded),
			Stderr:   res.Stderr,
		}
	}
	return res, nil
}
