package preprocess

import (
	"context"
	"errors"
	"fmt"
)

// Report summarizes one plan run.
type Report struct {
	Plan        string
	Invocations int     // ffmpeg calls made, including crop detection.
	Problems    []error // Non-fatal step failures.
}

// Run executes plan against the folder. Step failures are reported and the
// chain continues; a step whose inputs are missing is skipped. Only
// cancellation stops the chain early.
func Run(ctx context.Context, f *Folder, plan Plan) Report {
	f.Log.Info("Preprocessing with plan %q (%s)", plan.Name, plan.StepKinds())
	for _, s := range plan.Steps {
		if err := ctx.Err(); err != nil {
			f.problems = append(f.problems, err)
			break
		}
		fn, ok := stepFuncs[s.Kind]
		if !ok {
			f.report(fmt.Errorf("unknown step kind %q", s.Kind))
			continue
		}
		err := fn(ctx, f, s)
		switch {
		case err == nil:
		case errors.Is(err, ErrMissingInput):
			f.Log.Debug("Skipped %s: %v", s.Kind, err)
		default:
			f.report(fmt.Errorf("%s: %w", s.Kind, err))
		}
	}
	return Report{Plan: plan.Name, Invocations: f.invocations, Problems: f.problems}
}
