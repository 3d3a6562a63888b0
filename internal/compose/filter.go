package compose

import (
	"fmt"
	"strings"
)

// OutLabel is the filter-graph label of the stacked stream.
const OutLabel = "[outv]"

// BuildFilterGraph builds the ffmpeg filter_complex for s and returns it
// with the label to map. Each input is scaled to the target height with
// width auto; wide clips are then center-cropped to the target width.
// hstack needs at least two inputs, so a single clip maps straight to
// the output label.
func BuildFilterGraph(s *Spec) (string, string) {
	placements := s.Placements()
	single := len(placements) == 1

	chains := make([]string, 0, len(placements)+1)
	for i, p := range placements {
		label := fmt.Sprintf("[v%d]", i)
		if single {
			label = OutLabel
		}
		chain := fmt.Sprintf("[%d:v]scale=-1:%d", i, s.Height)
		if p.Cropped {
			chain += fmt.Sprintf(",crop=%d:%d", s.Width, s.Height)
		}
		chains = append(chains, chain+label)
	}
	if single {
		return chains[0], OutLabel
	}

	var stack strings.Builder
	for i := range placements {
		fmt.Fprintf(&stack, "[v%d]", i)
	}
	fmt.Fprintf(&stack, "hstack=inputs=%d%s", len(placements), OutLabel)
	chains = append(chains, stack.String())
	return strings.Join(chains, ";"), OutLabel
}
