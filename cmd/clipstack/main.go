// Command clipstack assembles the clips of each scene folder into one
// side-by-side comparison video.
//
// It layers configuration (defaults, TOML file, environment, flags),
// validates it and the directory paths, and either runs system
// diagnostics (--check) or the scene pipeline.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Cancel on SIGINT/SIGTERM so running ffmpeg calls are killed and no
	// new folder is started.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand()
	cmd.SetArgs(os.Args[1:])
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "clipstack: %v\n", err)
		}
		return 1
	}
	return 0
}
