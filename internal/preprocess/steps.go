package preprocess

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/backmassage/clipstack/internal/ffmpeg"
	"github.com/backmassage/clipstack/internal/fileutil"
	"github.com/backmassage/clipstack/internal/scene"
)

type stepFunc func(ctx context.Context, f *Folder, s Step) error

var stepFuncs = map[string]stepFunc{
	StepTrim:        runTrim,
	StepAutocrop:    runAutocrop,
	StepNormalize:   runNormalize,
	StepPlaceholder: runPlaceholder,
}

// runTrim cuts the source clip to the reference clip's duration, keeping
// either its head or its tail. Video is re-encoded; audio is copied.
func runTrim(ctx context.Context, f *Folder, s Step) error {
	names, err := f.sources()
	if err != nil {
		return err
	}
	src, ok := matchFirst(names, s.Source)
	if !ok {
		return fmt.Errorf("%w: no clip matches %q", ErrMissingInput, s.Source)
	}
	ref, ok := matchFirst(names, s.Reference)
	if !ok {
		return fmt.Errorf("%w: no clip matches %q", ErrMissingInput, s.Reference)
	}

	srcPath := filepath.Join(f.Dir, src)
	refAsset, err := f.probe(ctx, filepath.Join(f.Dir, ref))
	if err != nil {
		return err
	}
	if refAsset.Duration <= 0 {
		return fmt.Errorf("%w: %s", ErrNoDuration, ref)
	}

	out := scene.WithSuffix(srcPath, scene.SuffixTrimmed)
	if s.Output != "" {
		out = filepath.Join(f.Dir, s.Output)
	}
	t := ffmpeg.Trim{Input: srcPath, Output: out}

	if s.Keep == KeepTail {
		srcAsset, err := f.probe(ctx, srcPath)
		if err != nil {
			return err
		}
		t.Start = srcAsset.Duration - refAsset.Duration
		if t.Start < 0 {
			f.Log.Warn("%s (%.2fs) is shorter than %s (%.2fs); keeping all of it",
				src, srcAsset.Duration, ref, refAsset.Duration)
			t.Start = 0
		}
		f.Log.Info("Trim %s: from %.2fs", src, t.Start)
	} else {
		t.Duration = refAsset.Duration
		f.Log.Info("Trim %s: first %.2fs", src, t.Duration)
	}

	if _, err := f.run(ctx, "trim", ffmpeg.TrimArgs(t, f.Tools.Encoding), out); err != nil {
		return err
	}
	f.Log.Success("Trimmed: %s", filepath.Base(out))
	return nil
}

// runAutocrop writes a _cropped variant of every method clip.
func runAutocrop(ctx context.Context, f *Folder, _ Step) error {
	clips, err := f.methodSources()
	if err != nil {
		return err
	}
	if len(clips) == 0 {
		return fmt.Errorf("%w: no method clips", ErrMissingInput)
	}
	for _, c := range clips {
		if err := f.autocrop(ctx, c.Path, scene.WithSuffix(c.Path, scene.SuffixCropped)); err != nil {
			if ctx.Err() != nil {
				return err
			}
			f.report(fmt.Errorf("autocrop %s: %w", c.Method, err))
		}
	}
	return nil
}

// autocrop detects black borders in src and writes the cropped clip to dst.
// Without a usable crop hint, or when the crop re-encode fails, src is
// copied to dst unchanged.
func (f *Folder) autocrop(ctx context.Context, src, dst string) error {
	base := filepath.Base(src)
	res, err := f.run(ctx, "cropdetect", ffmpeg.CropDetectArgs(src, f.Tools.Autocrop), "")
	switch {
	case err != nil:
		if ctx.Err() != nil {
			return err
		}
		f.Log.Warn("Crop detection failed for %s, copying unchanged: %v", base, err)
	default:
		rect, ok := ffmpeg.ParseLastCrop(res.Stderr)
		if !ok {
			f.Log.Info("No black border in %s", base)
			break
		}
		f.Log.Info("Crop %s: %s", base, rect)
		_, err := f.run(ctx, "autocrop", ffmpeg.CropArgs(src, dst, rect, f.Tools.Encoding), dst)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return err
		}
		f.Log.Warn("Crop re-encode failed for %s, copying unchanged: %v", base, err)
	}
	return f.copyClip(src, dst)
}

// runNormalize brings every method clip to the reference method's size in
// three stages: center-crop to s.Height when taller, autocrop, then
// center-crop to the reference's post-crop size when at least as large in
// both axes. Intermediates are always removed.
func runNormalize(ctx context.Context, f *Folder, s Step) error {
	clips, err := f.methodSources()
	if err != nil {
		return err
	}
	if len(clips) == 0 {
		return fmt.Errorf("%w: no method clips", ErrMissingInput)
	}

	var temps []string
	defer func() {
		for _, p := range temps {
			if err := fileutil.RemoveIfExists(p); err != nil {
				f.report(fmt.Errorf("remove intermediate: %w", err))
			}
		}
	}()

	f.Log.Info("Normalize stage 1: crop to height %d", s.Height)
	stage1 := map[string]string{}
	for _, c := range clips {
		tmp := scene.WithSuffix(c.Path, scene.TempHeightSuffix(s.Height))
		temps = append(temps, tmp)
		if err := f.cropToHeight(ctx, c.Path, tmp, s.Height); err != nil {
			if ctx.Err() != nil {
				return err
			}
			f.report(fmt.Errorf("normalize %s: %w", c.Method, err))
			continue
		}
		stage1[c.Method] = tmp
	}

	f.Log.Info("Normalize stage 2: black-border autocrop")
	stage2 := map[string]string{}
	for _, c := range clips {
		in, ok := stage1[c.Method]
		if !ok {
			continue
		}
		tmp := scene.WithSuffix(c.Path, scene.SuffixTempCrop)
		temps = append(temps, tmp)
		if err := f.autocrop(ctx, in, tmp); err != nil {
			if ctx.Err() != nil {
				return err
			}
			f.report(fmt.Errorf("normalize %s: %w", c.Method, err))
			continue
		}
		stage2[c.Method] = tmp
	}

	refPath, ok := stage2[s.Reference]
	if !ok {
		return fmt.Errorf("%w: reference method %q", ErrMissingInput, s.Reference)
	}
	ref, err := f.probe(ctx, refPath)
	if err != nil {
		return err
	}
	f.Log.Info("Normalize stage 3: match %s at %s", s.Reference, ref.Resolution())

	for _, c := range clips {
		in, ok := stage2[c.Method]
		if !ok {
			continue
		}
		dst := scene.WithSuffix(c.Path, scene.SuffixCropped)
		if err := f.matchSize(ctx, in, dst, ref.Width, ref.Height); err != nil {
			if ctx.Err() != nil {
				return err
			}
			f.report(fmt.Errorf("normalize %s: %w", c.Method, err))
		}
	}
	return nil
}

// cropToHeight center-crops src vertically to height when it is taller;
// otherwise it copies src.
func (f *Folder) cropToHeight(ctx context.Context, src, dst string, height int) error {
	a, err := f.probe(ctx, src)
	if err != nil {
		return err
	}
	if a.Height <= height {
		return f.copyClip(src, dst)
	}
	f.Log.Info("Crop %s: height %d -> %d", filepath.Base(src), a.Height, height)
	rect := ffmpeg.CenterCrop(a.Width, a.Height, a.Width, height)
	_, err = f.run(ctx, "crop-height", ffmpeg.CropArgs(src, dst, rect, f.Tools.Encoding), dst)
	return err
}

// matchSize center-crops src to w×h when it is at least that large in both
// axes and differs; smaller or equal clips are copied.
func (f *Folder) matchSize(ctx context.Context, src, dst string, w, h int) error {
	a, err := f.probe(ctx, src)
	if err != nil {
		return err
	}
	switch {
	case a.Width == w && a.Height == h:
		return f.copyClip(src, dst)
	case a.Width >= w && a.Height >= h:
		f.Log.Info("Crop %s: %s -> %dx%d", filepath.Base(dst), a.Resolution(), w, h)
		rect := ffmpeg.CenterCrop(a.Width, a.Height, w, h)
		_, err = f.run(ctx, "crop-reference", ffmpeg.CropArgs(src, dst, rect, f.Tools.Encoding), dst)
		return err
	default:
		f.Log.Info("%s is smaller than the reference (%s), kept as is", filepath.Base(dst), a.Resolution())
		return f.copyClip(src, dst)
	}
}

// runPlaceholder synthesizes a black clip for every listed method without a
// source clip, matching the reference method's geometry, duration and
// frame rate. The reference's _cropped variant is preferred when present.
func runPlaceholder(ctx context.Context, f *Folder, s Step) error {
	clips, err := f.methodSources()
	if err != nil {
		return err
	}
	refClip, ok := findMethod(clips, s.Reference)
	if !ok {
		return fmt.Errorf("%w: reference method %q", ErrMissingInput, s.Reference)
	}
	refPath := scene.WithSuffix(refClip.Path, scene.SuffixCropped)
	if !fileutil.Exists(refPath) {
		refPath = refClip.Path
	}
	ref, err := f.probe(ctx, refPath)
	if err != nil {
		return err
	}
	fps := ref.FrameRate
	if fps <= 0 {
		fps = f.Tools.PlaceholderFPS
	}

	for _, m := range s.Methods {
		if _, ok := findMethod(clips, m); ok {
			continue
		}
		out := filepath.Join(f.Dir, scene.PlaceholderName(m, filepath.Ext(refClip.Path)))
		f.Log.Info("Missing %s clip, synthesizing %s placeholder", m, ref.Resolution())
		p := ffmpeg.Placeholder{Output: out, Width: ref.Width, Height: ref.Height, Duration: ref.Duration, FPS: fps}
		if _, err := f.run(ctx, "placeholder", ffmpeg.PlaceholderArgs(p, f.Tools.Encoding), out); err != nil {
			if ctx.Err() != nil {
				return err
			}
			f.report(fmt.Errorf("placeholder %s: %w", m, err))
			continue
		}
		f.Log.Success("Placeholder: %s", filepath.Base(out))
	}
	return nil
}
