package scene

import "strings"

// Supersession drops a clip from a folder when a preferred variant of it is
// present in the same snapshot.
type Supersession struct {
	Name string
	// Applies reports whether the relation is active for a folder.
	Applies func(folder string, snap *Snapshot) bool
	// Superseded reports whether base is replaced by a variant in snap.
	Superseded func(base string, snap *Snapshot) bool
}

// TrimmedOurs: once any "ours" clip has a trimmed variant, untrimmed ours
// clips are dropped.
var TrimmedOurs = Supersession{
	Name: "trimmed-ours",
	Applies: func(_ string, snap *Snapshot) bool {
		for _, n := range snap.names {
			l := strings.ToLower(n)
			if strings.Contains(l, "ours_") && strings.Contains(l, "trimmed") {
				return true
			}
		}
		return false
	},
	Superseded: func(base string, _ *Snapshot) bool {
		l := strings.ToLower(base)
		return strings.Contains(l, "ours_") && !strings.Contains(l, "trimmed")
	},
}

// CroppedVariant: in dexycb folders a clip with a "<stem>_cropped<ext>"
// sibling is replaced by it. Placeholders and crops are never dropped.
var CroppedVariant = Supersession{
	Name: "cropped-variant",
	Applies: func(folder string, _ *Snapshot) bool {
		return strings.HasPrefix(folder, "dexycb")
	},
	Superseded: func(base string, snap *Snapshot) bool {
		l := strings.ToLower(base)
		if strings.Contains(l, "cropped") || strings.Contains(l, PlaceholderTag) {
			return false
		}
		return snap.Has(WithSuffix(base, SuffixCropped))
	},
}

// ComparisonSupersessions are evaluated for every comparison folder.
var ComparisonSupersessions = []Supersession{CroppedVariant, TrimmedOurs}

// active returns the relations that apply to folder, evaluated once.
func active(rels []Supersession, folder string, snap *Snapshot) []Supersession {
	var out []Supersession
	for _, r := range rels {
		if r.Applies(folder, snap) {
			out = append(out, r)
		}
	}
	return out
}

func superseded(rels []Supersession, base string, snap *Snapshot) bool {
	for _, r := range rels {
		if r.Superseded(base, snap) {
			return true
		}
	}
	return false
}
