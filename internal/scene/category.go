package scene

import "strings"

// Category is the kind of comparison a scene folder holds.
type Category int

const (
	Comparison Category = iota // One clip per method: input, gt, ours, hold, magichoi.
	Rotate                     // Fixed rotation-study roles.
	Retarget                   // Trimmed source next to timestamp-named recordings.
)

func (c Category) String() string {
	switch c {
	case Rotate:
		return "rotate"
	case Retarget:
		return "retarget"
	default:
		return "comparison"
	}
}

// Classify maps a folder name to its category. The checks are
// case-sensitive and ordered: "_rotate" wins over "_retarget".
func Classify(folder string) Category {
	switch {
	case strings.Contains(folder, "_rotate"):
		return Rotate
	case strings.Contains(folder, "_retarget"):
		return Retarget
	default:
		return Comparison
	}
}

// Strategy is the per-category capability set.
type Strategy interface {
	Category() Category
	// Sort returns the surviving clips of snap in presentation order.
	Sort(folder string, snap *Snapshot) []Entry
	// CropsToWidth reports whether composition may center-crop a clip that
	// scales wider than the first one.
	CropsToWidth() bool
}

var strategies = map[Category]Strategy{
	Comparison: comparisonStrategy{},
	Rotate:     rotateStrategy{},
	Retarget:   retargetStrategy{},
}

// StrategyFor returns the strategy for c.
func StrategyFor(c Category) Strategy {
	if s, ok := strategies[c]; ok {
		return s
	}
	return strategies[Comparison]
}
