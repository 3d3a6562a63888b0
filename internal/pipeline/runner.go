package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/backmassage/clipstack/internal/compose"
	"github.com/backmassage/clipstack/internal/config"
	"github.com/backmassage/clipstack/internal/display"
	"github.com/backmassage/clipstack/internal/ffmpeg"
	"github.com/backmassage/clipstack/internal/logging"
	"github.com/backmassage/clipstack/internal/naming"
	"github.com/backmassage/clipstack/internal/preprocess"
	"github.com/backmassage/clipstack/internal/probe"
	"github.com/backmassage/clipstack/internal/scene"
)

// LockName is the run lock file created in the output directory.
const LockName = ".clipstack.lock"

var (
	// ErrNoAssets marks a folder with no clip that survives sorting.
	ErrNoAssets = compose.ErrNoAssets
	// ErrLocked is returned when another run holds the output directory.
	ErrLocked = errors.New("another clipstack run is using the output directory")
	// ErrInterrupted marks folders never started because the run was cancelled.
	ErrInterrupted = errors.New("interrupted")
)

// Deps are the external collaborators of a run.
type Deps struct {
	Prober probe.Prober
	Runner ffmpeg.Runner
	Plans  *preprocess.Registry
}

// NewDeps builds the real ffprobe and ffmpeg clients from cfg and loads the
// plan registry (the built-in one unless cfg names a plan file).
func NewDeps(cfg *config.Config, log *logging.Logger) (Deps, error) {
	plans, err := preprocess.LoadRegistry(cfg.Preprocess.PlanFile)
	if err != nil {
		return Deps{}, err
	}
	exec := &ffmpeg.Executor{Binary: cfg.Tools.FFmpeg, Timeout: cfg.ToolTimeout()}
	if log.Verbose() && cfg.Run.Workers == 1 {
		exec.Tee = os.Stderr
	}
	return Deps{
		Prober: probe.NewClient(cfg.Tools.FFprobe, cfg.ToolTimeout()),
		Runner: exec,
		Plans:  plans,
	}, nil
}

// Run is the top-level batch entry point. It takes the output directory
// lock, discovers scene folders, processes them with at most
// cfg.Run.Workers in flight, and returns aggregate stats. Folder failures
// are recorded in the stats; only setup failures are returned as errors.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger, deps Deps) (RunStats, error) {
	runID := uuid.NewString()

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return RunStats{RunID: runID}, fmt.Errorf("create output directory: %w", err)
	}
	lock := flock.New(filepath.Join(cfg.OutputDir, LockName))
	ok, err := lock.TryLock()
	if err != nil {
		return RunStats{RunID: runID}, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return RunStats{RunID: runID}, ErrLocked
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			log.Warn("Failed to release lock: %v", err)
		}
	}()

	dirs, err := DiscoverScenes(cfg.InputDir)
	if err != nil {
		return RunStats{RunID: runID}, fmt.Errorf("scene discovery: %w", err)
	}

	logBatchHeader(cfg, log, runID, len(dirs), deps.Plans)

	env := &folderEnv{
		cfg:        cfg,
		prober:     deps.Prober,
		plans:      deps.Plans,
		tools:      preprocess.NewTools(cfg, deps.Prober, deps.Runner),
		compositor: compose.NewCompositor(cfg, deps.Runner),
		resolver:   naming.NewCollisionResolver(),
	}

	var t tally
	var g errgroup.Group
	g.SetLimit(cfg.Run.Workers)
	for i, dir := range dirs {
		g.Go(func() error {
			name := filepath.Base(dir)
			if ctx.Err() != nil {
				t.record(FolderResult{Folder: name, Category: scene.Classify(name), Outcome: Skipped, Err: ErrInterrupted})
				return nil
			}
			flog := log.With(name)
			flog.Info("[%d/%d] %s", i+1, len(dirs), dir)
			t.record(env.process(ctx, flog, dir))
			return nil
		})
	}
	_ = g.Wait()

	stats := t.stats(runID, len(dirs))
	if ctx.Err() != nil {
		log.Warn("Interrupted")
	}
	logSummary(cfg, log, stats)
	return stats, nil
}

// folderEnv is what every folder of one run shares. Only the resolver is
// mutable, and it locks internally.
type folderEnv struct {
	cfg        *config.Config
	prober     probe.Prober
	plans      *preprocess.Registry
	tools      *preprocess.Tools
	compositor *compose.Compositor
	resolver   *naming.CollisionResolver
}

// process handles one scene folder: classify → preprocess → sort → probe →
// compose. It never panics on bad input and always returns a result.
func (e *folderEnv) process(ctx context.Context, log *logging.Logger, dir string) FolderResult {
	start := time.Now()
	name := filepath.Base(dir)
	strategy := scene.StrategyFor(scene.Classify(name))
	res := FolderResult{Folder: name, Category: strategy.Category()}
	done := func(o Outcome, err error) FolderResult {
		res.Outcome, res.Err, res.Elapsed = o, err, time.Since(start)
		return res
	}

	log.Info("Category: %s", strategy.Category())

	// --- Preprocess ---
	if plan, ok := e.plans.Lookup(name); ok {
		res.Plan = plan.StepKinds()
		if e.cfg.Run.DryRun {
			log.Info("[DRY] Would preprocess with plan %q (%s)", plan.Name, res.Plan)
		} else {
			report := preprocess.Run(ctx, preprocess.NewFolder(dir, log, e.tools), plan)
			res.Problems = report.Problems
			log.Debug("Preprocessing made %d ffmpeg calls, %d problems", report.Invocations, len(report.Problems))
		}
	}
	if err := ctx.Err(); err != nil {
		return done(Failed, err)
	}

	// --- Sort ---
	snap, err := scene.TakeSnapshot(dir)
	if err != nil {
		log.Error("Cannot list folder: %v", err)
		return done(Failed, err)
	}
	log.Debug("%d clips on disk", snap.Len())
	entries := strategy.Sort(name, snap)
	res.Assets = len(entries)
	if len(entries) == 0 {
		log.Warn("No videos found, skipping")
		return done(Skipped, ErrNoAssets)
	}
	log.Info("Sorted clips:")
	for i, en := range entries {
		log.Info("  %d. %s", i+1, en.Name)
	}

	// --- Probe (always fresh: preprocessing may have rewritten files) ---
	assets, err := compose.ProbeAll(ctx, e.prober, scene.EntryPaths(entries))
	if err != nil {
		log.Error("Cannot probe clip: %v", err)
		return done(Failed, err)
	}
	spec, err := compose.BuildSpec(assets, strategy.CropsToWidth())
	if err != nil {
		log.Error("%v", err)
		return done(Failed, err)
	}
	compose.LogPlan(log, spec)

	output := naming.OutputPath(e.cfg.OutputDir, name, e.cfg.Encode.Extension)
	output = e.resolver.Resolve(name, output)
	res.Output = output

	// --- Dry-run ---
	if e.cfg.Run.DryRun {
		graph, _ := compose.BuildFilterGraph(spec)
		log.Info("[DRY] Filter graph: %s", graph)
		log.Success("[DRY] Would write %s (%dx%d)", output, spec.FrameWidth(), spec.Height)
		return done(Planned, nil)
	}

	// --- Compose ---
	log.Info("Composing %d clips -> %s", len(spec.Assets), filepath.Base(output))
	r, err := e.compositor.Compose(ctx, log, spec, output)
	if err != nil {
		log.Error("Composition failed: %v", err)
		return done(Failed, err)
	}
	res.Size = r.Size
	compose.LogResult(log, r)
	return done(Succeeded, nil)
}

// --- Logging helpers ---

func logBatchHeader(cfg *config.Config, log *logging.Logger, runID string, folders int, plans *preprocess.Registry) {
	log.Info("Run %s", runID)
	log.Info("Found %d scene folders", folders)
	log.Info("Encoder: %s (preset %s, CRF %d, %s)", cfg.Encode.Codec, cfg.Encode.Preset, cfg.Encode.CRF, cfg.Encode.PixFmt)
	if cfg.Run.Workers > 1 {
		log.Info("Workers: %d", cfg.Run.Workers)
	}
	if cfg.Tools.TimeoutSeconds > 0 {
		log.Info("Tool timeout: %s", cfg.ToolTimeout())
	}
	source := "built-in"
	if cfg.Preprocess.PlanFile != "" {
		source = cfg.Preprocess.PlanFile
	}
	log.Info("Plans: %d (%s)", len(plans.Plans()), source)
	log.Info("Rules: _rotate -> rotate, _retarget -> retarget, else comparison (input, gt, ours, hold, magichoi)")
	if cfg.Run.DryRun {
		log.Warn("DRY RUN: nothing will be preprocessed or encoded")
	}
	log.Info("")
}

func logSummary(cfg *config.Config, log *logging.Logger, stats RunStats) {
	log.Info("==============================")
	if table := display.RenderSummary(stats.Rows()); table != "" {
		for _, line := range strings.Split(table, "\n") {
			log.Info("%s", line)
		}
	}
	if cfg.Run.DryRun {
		log.Info("Done (dry run %s): %d planned, %d skipped, %d failed",
			stats.RunID, stats.Planned, stats.Skipped, stats.Failed)
		return
	}
	msg := "Done (run %s): %d succeeded, %d failed, %d skipped"
	if stats.Failed > 0 {
		log.Warn(msg, stats.RunID, stats.Succeeded, stats.Failed, stats.Skipped)
		return
	}
	log.Success(msg, stats.RunID, stats.Succeeded, stats.Failed, stats.Skipped)
}
