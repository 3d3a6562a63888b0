package compose

import (
	"errors"
	"fmt"
	"math"

	"github.com/backmassage/clipstack/internal/probe"
)

// ErrNoAssets is returned when a folder has nothing to compose.
var ErrNoAssets = errors.New("no videos")

// Spec is the composition of one folder: the ordered clips and the target
// frame taken from the first of them.
type Spec struct {
	Assets      []probe.Asset
	Height      int
	Width       int
	CropToWidth bool // false keeps every clip's own aspect ratio
}

// Placement is how one clip lands in the stacked frame.
type Placement struct {
	Asset       probe.Asset
	ScaledWidth int
	Cropped     bool
}

// BuildSpec fixes the target frame from the first asset.
func BuildSpec(assets []probe.Asset, cropToWidth bool) (*Spec, error) {
	if len(assets) == 0 {
		return nil, ErrNoAssets
	}
	for _, a := range assets {
		if a.Width <= 0 || a.Height <= 0 {
			return nil, fmt.Errorf("%s: invalid frame size %s", a.Path, a.Resolution())
		}
	}
	return &Spec{
		Assets:      assets,
		Height:      assets[0].Height,
		Width:       assets[0].Width,
		CropToWidth: cropToWidth,
	}, nil
}

// ScaledWidth is the width of a w×h clip scaled to targetHeight with its
// aspect ratio kept, rounded to the nearest pixel.
func ScaledWidth(w, h, targetHeight int) int {
	if h <= 0 {
		return 0
	}
	return int(math.Round(float64(w) * float64(targetHeight) / float64(h)))
}

// Placements computes where each clip lands. A clip is cropped only when
// cropping is allowed and it scales to at least the target width; a
// narrower clip is never stretched or cropped.
func (s *Spec) Placements() []Placement {
	out := make([]Placement, len(s.Assets))
	for i, a := range s.Assets {
		sw := ScaledWidth(a.Width, a.Height, s.Height)
		out[i] = Placement{
			Asset:       a,
			ScaledWidth: sw,
			Cropped:     s.CropToWidth && sw >= s.Width,
		}
	}
	return out
}

// Paths returns the input paths in stacking order.
func (s *Spec) Paths() []string {
	out := make([]string, len(s.Assets))
	for i, a := range s.Assets {
		out[i] = a.Path
	}
	return out
}

// FrameWidth is the width of the stacked output frame.
func (s *Spec) FrameWidth() int {
	total := 0
	for _, p := range s.Placements() {
		if p.Cropped {
			total += s.Width
		} else {
			total += p.ScaledWidth
		}
	}
	return total
}
